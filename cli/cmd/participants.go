package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/takaryo1010/OneTimeChat/client/domain"
)

// participantsCmd represents the participants command
var participantsCmd = &cobra.Command{
	Use:   "participants [room_id]",
	Short: "Lists the members of a room",
	Long: `Lists the authenticated members of a room and, in rooms that require
approval, the joiners still waiting for it. Without an argument the room
of the persisted session is used.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		roomID, err := roomIDFromArgsOrSession(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}

		roster, err := lifecycle.ListParticipants(ctx, roomID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing participants: %v\n", err)
			return
		}

		row := func(p domain.Participant, status string) []string {
			role := ""
			if p.IsOwner {
				role = "owner"
			}
			return []string{p.Name, p.ClientID, role, status}
		}
		rows := append(
			lo.Map(roster.Authenticated, func(p domain.Participant, _ int) []string { return row(p, "member") }),
			lo.Map(roster.Unauthenticated, func(p domain.Participant, _ int) []string { return row(p, "pending") })...,
		)

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"NAME", "CLIENT ID", "ROLE", "STATUS"})
		table.AppendBulk(rows)
		table.Render()
	},
}

func init() {
	rootCmd.AddCommand(participantsCmd)
}
