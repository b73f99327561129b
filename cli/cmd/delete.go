package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Deletes the current room (owner only)",
	Long: `Deletes the room of the persisted session for everyone and forgets
the session. Members lose their connection when the room goes away.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		id, err := requireIdentity()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		if err := lifecycle.DeleteRoom(ctx, id.RoomID); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting room: %v\n", err)
			return
		}
		if err := clearIdentity(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: session not cleared: %v\n", err)
		}
		color.Yellow.Printf("Room %s deleted.\n", id.RoomID)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
