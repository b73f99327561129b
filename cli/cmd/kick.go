package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

// kickCmd represents the kick command
var kickCmd = &cobra.Command{
	Use:   "kick <client_id>",
	Short: "Removes a member from the room (owner only)",
	Long: `Removes the member with the given client ID from the room.
Kicking a client that already left is not an error.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		id, err := requireIdentity()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		if err := lifecycle.Kick(ctx, id.RoomID, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error kicking client: %v\n", err)
			return
		}
		color.Yellow.Printf("Kicked %s.\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(kickCmd)
}
