package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/takaryo1010/OneTimeChat/client/archive"
	"github.com/takaryo1010/OneTimeChat/client/channel"
	"github.com/takaryo1010/OneTimeChat/client/domain"
	"github.com/takaryo1010/OneTimeChat/client/usecase"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Starts a chat session in a tview-based interface",
	Long: `Enters the room of the persisted session with a tview-based interface.
You can type messages at the bottom and see the chat history above, with
the current members in a side pane.

Input starting with a slash is a command:
  /approve <client_id>   approve a waiting joiner (owner only)
  /kick <client_id>      remove a member (owner only)
  /refresh               re-fetch the member list
  /retry                 retry after a denied authorization or a lost connection`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		id, err := requireIdentity()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}

		// The UI owns the terminal, so debug logs go to a file.
		uiLog, cleanup, err := chatLogger()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
			return
		}
		defer cleanup()

		var opts []usecase.Option
		if record, _ := cmd.Flags().GetBool("archive"); record {
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
			opts = append(opts, usecase.WithRecorder(store))
		}

		dialer := channel.NewDialer(viper.GetString(wsURLKey), cookieJar, uiLog)
		sess := usecase.NewSession(id, lifecycle, dialer, uiLog, opts...)

		if err := runChatUI(sess); err != nil {
			fmt.Fprintf(os.Stderr, "Chat UI error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().Bool("archive", false, "Record the session to the local transcript archive")
}

// chatLogger returns a logger that does not write to the terminal.
func chatLogger() (*slog.Logger, func(), error) {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, err
	}
	dir := filepath.Join(home, ".onetimechat")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "chat.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	log := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return log, func() { f.Close() }, nil
}

func runChatUI(sess *usecase.Session) error {
	app := tview.NewApplication()
	me := sess.Identity()

	statusView := tview.NewTextView().SetDynamicColors(true)

	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true).
		SetScrollable(true).
		ScrollToEnd()

	membersView := tview.NewTextView().SetDynamicColors(true)
	membersView.SetBorder(true).SetTitle(" members ")

	inputField := tview.NewInputField().
		SetLabel(me.UserName + " ❯❯ ").
		SetFieldWidth(0).
		SetAcceptanceFunc(tview.InputFieldMaxLength(256))

	body := tview.NewFlex().
		AddItem(textView, 0, 3, false).
		AddItem(membersView, 24, 0, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statusView, 1, 0, false).
		AddItem(body, 0, 1, false).
		AddItem(inputField, 1, 0, true)

	app.SetRoot(flex, true).SetFocus(inputField)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sess.Run(ctx)
	sess.Connect()

	render := func() {
		snap := sess.Snapshot()
		statusView.SetText(statusLine(snap))
		textView.SetText(messageLog(snap.Messages))
		textView.ScrollToEnd()
		membersView.SetText(memberList(snap.Roster, me))
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-sess.Updates():
				app.QueueUpdateDraw(render)
			}
		}
	}()

	inputField.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		text := strings.TrimSpace(inputField.GetText())
		inputField.SetText("")
		if text == "" {
			return
		}
		if strings.HasPrefix(text, "/") {
			runSlashCommand(sess, text, textView, app)
			return
		}
		if err := sess.SendMessage(text); err != nil {
			fmt.Fprintf(textView, "[red]send failed: %v\n", err)
		}
	})

	// Ctrl+C exits, Ctrl+R re-fetches the member list.
	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			cancel()
			app.Stop()
			return nil
		case tcell.KeyCtrlR:
			sess.RefreshRoster()
			return nil
		}
		return event
	})

	statusView.SetText(fmt.Sprintf("[white]Welcome, %s! (Ctrl+C to exit, /help for commands)", me.UserName))

	if err := app.Run(); err != nil {
		cancel()
		return err
	}
	cancel()
	return nil
}

func runSlashCommand(sess *usecase.Session, text string, textView *tview.TextView, app *tview.Application) {
	fields := strings.Fields(text)
	switch fields[0] {
	case "/approve":
		if len(fields) != 2 {
			fmt.Fprintln(textView, "[red]usage: /approve <client_id>")
			return
		}
		sess.Approve(fields[1])
	case "/kick":
		if len(fields) != 2 {
			fmt.Fprintln(textView, "[red]usage: /kick <client_id>")
			return
		}
		sess.Kick(fields[1])
	case "/refresh":
		sess.RefreshRoster()
	case "/retry":
		sess.Connect()
	case "/quit":
		app.Stop()
	case "/help":
		fmt.Fprintln(textView, "[yellow]/approve <id>, /kick <id>, /refresh, /retry, /quit")
	default:
		fmt.Fprintf(textView, "[red]unknown command %s\n", fields[0])
	}
}

func statusLine(snap usecase.Snapshot) string {
	auth := ""
	switch snap.Auth {
	case domain.StateLoading:
		auth = "[yellow]checking authorization…"
	case domain.StatePendingApproval:
		auth = "[yellow]waiting for the owner's approval"
	case domain.StateUnauthenticated:
		auth = "[red]not authorized, type /retry to ask again"
	case domain.StateAuthenticated:
		auth = "[green]authorized"
	}

	conn := ""
	switch snap.Channel {
	case domain.ChannelConnecting:
		conn = "[yellow]connecting"
	case domain.ChannelOpen:
		conn = "[green]online"
	case domain.ChannelClosed:
		conn = "[red]disconnected"
	case domain.ChannelErrored:
		conn = "[red]connection lost, type /retry"
	default:
		conn = "[gray]offline"
	}

	name := snap.Room.Name
	if name == "" {
		name = "…"
	}
	line := fmt.Sprintf("[white]room %s | %s[white] | %s[white]", name, auth, conn)
	if n := len(snap.PendingApprovals); n > 0 {
		line += fmt.Sprintf(" | [yellow]%d waiting[white]", n)
	}
	return line
}

func messageLog(messages []domain.Message) string {
	var b strings.Builder
	for _, m := range messages {
		color := "blue"
		if m.IsMine {
			color = "green"
		}
		fmt.Fprintf(&b, "[%s]%s[white]: %s\n", color, tview.Escape(m.Sender), tview.Escape(m.Content))
	}
	return b.String()
}

func memberList(roster domain.Roster, me domain.SessionIdentity) string {
	var b strings.Builder
	for _, p := range roster.Authenticated {
		mark := ""
		if p.IsOwner {
			mark = " [yellow]*[white]"
		}
		fmt.Fprintf(&b, "%s%s\n", tview.Escape(p.Name), mark)
	}
	if len(roster.Unauthenticated) > 0 && me.IsOwner {
		b.WriteString("\n[yellow]waiting:[white]\n")
		for _, p := range roster.Unauthenticated {
			fmt.Fprintf(&b, "%s (%s)\n", tview.Escape(p.Name), tview.Escape(p.ClientID))
		}
	}
	return b.String()
}
