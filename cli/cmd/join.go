package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	prompt "github.com/c-bata/go-prompt"
	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// joinCmd represents the join command
var joinCmd = &cobra.Command{
	Use:   "join <room_id>",
	Short: "Joins an existing room",
	Long: `Joins the room with the given ID. The granted session is persisted,
so a following 'chat' picks it up directly. In rooms that require owner
approval you start out unauthorized; 'chat' waits for the approval.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		roomID := args[0]
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = viper.GetString(userNameKey)
		}
		if name == "" {
			name = strings.TrimSpace(prompt.Input("your name ❯ ", noCompletion))
		}
		if name == "" {
			fmt.Fprintln(os.Stderr, "A display name is required, pass --name or set user_name in the config.")
			return
		}

		res, err := lifecycle.JoinRoom(ctx, roomID, name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error joining room: %v\n", err)
			return
		}
		if !res.SessionGranted {
			fmt.Fprintln(os.Stderr, "The server did not grant a session for this room.")
			return
		}

		if err := saveIdentity(lifecycle.Identity()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: session not persisted: %v\n", err)
		}
		color.Green.Printf("Joined room %s as %s.\n", res.RoomID, name)
		fmt.Println("Run 'chat' to enter the room.")
	},
}

func noCompletion(prompt.Document) []prompt.Suggest { return nil }

func init() {
	rootCmd.AddCommand(joinCmd)

	joinCmd.Flags().StringP("name", "n", "", "Your display name (defaults to the configured user_name)")
}
