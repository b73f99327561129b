package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/takaryo1010/OneTimeChat/client/archive"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [room_id]",
	Short: "Shows locally archived messages",
	Long: `Shows the local transcript recorded by 'chat --archive'. Without an
argument the room of the persisted session is used; --rooms lists the
rooms present in the archive instead.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path, err := archivePath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error locating archive: %v\n", err)
			return
		}
		store, err := archive.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening archive: %v\n", err)
			return
		}
		defer store.Close()

		if listRooms, _ := cmd.Flags().GetBool("rooms"); listRooms {
			rooms, err := store.Rooms()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error listing rooms: %v\n", err)
				return
			}
			for _, r := range rooms {
				fmt.Println(r)
			}
			return
		}

		roomID, err := roomIDFromArgsOrSession(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		limit, _ := cmd.Flags().GetInt("limit")

		entries, err := store.List(roomID, limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading transcript: %v\n", err)
			return
		}
		for _, e := range entries {
			fmt.Printf("[%s] %s: %s\n",
				e.CreatedAt.Local().Format(time.DateTime), e.Message.Sender, e.Message.Content)
		}
	},
}

// archivePath returns the transcript database location, creating its
// directory if needed.
func archivePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".onetimechat")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Int("limit", 0, "Maximum number of messages to show (0 = all)")
	historyCmd.Flags().Bool("rooms", false, "List archived rooms instead of messages")
}
