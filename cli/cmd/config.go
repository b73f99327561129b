package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [new_display_name]",
	Short: "Gets or sets the default display name",
	Long: `Manages the client configuration.
Without arguments it shows the current configuration. With an argument it
sets the default display name used by 'create' and 'join'.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Printf("Display Name: %s\n", viper.GetString(userNameKey))
			fmt.Printf("API URL:      %s\n", viper.GetString(apiURLKey))
			fmt.Printf("WS URL:       %s\n", viper.GetString(wsURLKey))
			return
		}

		viper.Set(userNameKey, args[0])
		if err := writeConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error setting display name: %v\n", err)
			return
		}
		fmt.Printf("Display name set to: %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
