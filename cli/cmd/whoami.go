package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Shows the persisted room session",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		id, err := requireIdentity()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		role := "member"
		if id.IsOwner {
			role = "owner"
		}
		fmt.Printf("Name:    %s\n", id.UserName)
		fmt.Printf("Room:    %s\n", id.RoomID)
		fmt.Printf("Role:    %s\n", role)
		fmt.Printf("Session: %s\n", id.SessionID)
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
