package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

// approveCmd represents the approve command
var approveCmd = &cobra.Command{
	Use:   "approve <client_id>",
	Short: "Approves a pending joiner (owner only)",
	Long: `Moves a waiting joiner into the member set so they can chat.
Client IDs are shown by 'participants'.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		id, err := requireIdentity()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		if err := lifecycle.Approve(ctx, id.RoomID, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error approving client: %v\n", err)
			return
		}
		color.Green.Printf("Approved %s.\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(approveCmd)
}
