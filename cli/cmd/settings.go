package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/takaryo1010/OneTimeChat/client/domain"
)

// settingsCmd represents the settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Updates the current room's settings (owner only)",
	Long: `Updates the name or the approval requirement of the room of the
persisted session. Flags that are not set leave the setting unchanged.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		id, err := requireIdentity()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("auth") {
			fmt.Fprintln(os.Stderr, "Nothing to change, pass --name or --auth.")
			return
		}

		room, err := lifecycle.GetRoom(ctx, id.RoomID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading room: %v\n", err)
			return
		}
		cfg := domain.RoomConfig{Name: room.Name, RequiresAuth: room.RequiresAuth}
		if cmd.Flags().Changed("name") {
			cfg.Name, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("auth") {
			cfg.RequiresAuth, _ = cmd.Flags().GetBool("auth")
		}

		updated, err := lifecycle.UpdateSettings(ctx, id.RoomID, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error updating settings: %v\n", err)
			return
		}
		color.Green.Printf("Room %q updated (approval required: %t).\n", updated.Name, updated.RequiresAuth)
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)

	settingsCmd.Flags().String("name", "", "New room name")
	settingsCmd.Flags().Bool("auth", true, "Require owner approval before joiners can chat")
}
