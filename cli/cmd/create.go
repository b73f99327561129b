package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/takaryo1010/OneTimeChat/client/domain"
)

type createParams struct {
	Name string        `validate:"required,max=64"`
	User string        `validate:"required,max=32"`
	TTL  time.Duration `validate:"gt=0"`
}

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Creates a new room and becomes its owner",
	Long: `Creates an ephemeral room that expires after the given TTL.
The creator becomes the room owner and the session is persisted, so a
following 'chat' picks it up directly.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		params := createParams{}
		params.Name, _ = cmd.Flags().GetString("name")
		params.User, _ = cmd.Flags().GetString("user")
		params.TTL, _ = cmd.Flags().GetDuration("ttl")
		if params.User == "" {
			params.User = viper.GetString(userNameKey)
		}
		requiresAuth, _ := cmd.Flags().GetBool("auth")

		if err := validator.New().Struct(params); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid parameters: %v\n", err)
			return
		}

		room, err := lifecycle.CreateRoom(ctx, domain.NewRoomConfig(
			params.Name, params.User, time.Now().Add(params.TTL), requiresAuth))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating room: %v\n", err)
			return
		}

		if err := saveIdentity(lifecycle.Identity()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: session not persisted: %v\n", err)
		}

		color.Green.Printf("Room %q created.\n", room.Name)
		fmt.Printf("  ID:      %s\n", room.ID)
		fmt.Printf("  Expires: %s\n", room.Expires.Local().Format(time.RFC1123))
		if room.RequiresAuth {
			fmt.Println("  Joiners need your approval before they can chat.")
		}
		fmt.Println("Run 'chat' to enter the room.")
	},
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringP("name", "n", "", "Room name (required)")
	createCmd.Flags().StringP("user", "u", "", "Your display name (defaults to the configured user_name)")
	createCmd.Flags().Duration("ttl", time.Hour, "Room lifetime")
	createCmd.Flags().Bool("auth", true, "Require owner approval before joiners can chat")
	createCmd.MarkFlagRequired("name")
}
