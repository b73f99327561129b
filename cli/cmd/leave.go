package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// leaveCmd represents the leave command
var leaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "Leaves the current room",
	Long:  `Leaves the room of the persisted session and forgets the session.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		id, err := requireIdentity()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		if err := lifecycle.Leave(ctx, id.RoomID); err != nil {
			fmt.Fprintf(os.Stderr, "Error leaving room: %v\n", err)
			return
		}
		if err := clearIdentity(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: session not cleared: %v\n", err)
		}
		fmt.Printf("Left room %s.\n", id.RoomID)
	},
}

func init() {
	rootCmd.AddCommand(leaveCmd)
}
