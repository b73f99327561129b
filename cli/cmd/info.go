package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info [room_id]",
	Short: "Shows the details of a room",
	Long: `Shows a room's name, owner, expiry and whether joiners need owner
approval. Without an argument the room of the persisted session is used.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		roomID, err := roomIDFromArgsOrSession(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}

		room, err := lifecycle.GetRoom(ctx, roomID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading room: %v\n", err)
			return
		}

		fmt.Printf("Room:     %s\n", room.Name)
		fmt.Printf("ID:       %s\n", room.ID)
		fmt.Printf("Owner:    %s\n", room.Owner)
		fmt.Printf("Expires:  %s (%s left)\n",
			room.Expires.Local().Format(time.RFC1123),
			time.Until(room.Expires).Round(time.Second))
		fmt.Printf("Approval: %t\n", room.RequiresAuth)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
