package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"sheetchat/internal/chat"
	"sheetchat/internal/container"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	userStyle      = color.New(color.Bold, color.FgCyan)
	assistantStyle = color.New(color.Bold, color.FgGreen)
	errorStyle     = color.New(color.FgRed)
	dimStyle       = color.New(color.FgHiBlack)
)

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <file>",
		Short: "Interactive question loop over one spreadsheet",
		Long: `Load a spreadsheet and ask questions until you quit.

Commands:
  :reset   reload the file and clear the conversation
  :quit    leave (Ctrl+D works too)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := buildContainer(ctx, opts)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "ask> ",
				InterruptPrompt: "^C",
				EOFPrompt:       ":quit",
			})
			if err != nil {
				return err
			}
			defer rl.Close()

			return runChat(ctx, c, args[0], rl.Readline, cmd.OutOrStdout())
		},
	}
}

// runChat drives the loop; readLine returns an error on EOF or interrupt
func runChat(ctx context.Context, c *container.Container, path string, readLine func() (string, error), out io.Writer) error {
	session, err := openSession(ctx, c, path)
	if err != nil {
		return err
	}
	snap := session.Snapshot()
	fmt.Fprintf(out, "Loaded %s: %d columns, %d rows. Type :quit to leave.\n",
		filepath.Base(path), snap.Dataset.ColumnCount(), snap.Dataset.RowCount())

	for {
		line, err := readLine()
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case ":quit", ":exit":
			return nil
		case ":reset":
			session, err = openSession(ctx, c, path)
			if err != nil {
				return err
			}
			dimStyle.Fprintln(out, "Conversation cleared.")
			continue
		}

		if _, err := session.Ask(ctx, line); err != nil {
			errorStyle.Fprintf(out, "Error: %s\n", err)
			continue
		}
		printTranscript(out, chat.RenderTranscript(session.Snapshot().Transcript))
	}
}

// printTranscript writes entries in the order given, newest first from RenderTranscript
func printTranscript(out io.Writer, entries []chat.RenderedEntry) {
	dimStyle.Fprintln(out, strings.Repeat("-", 40))
	for _, e := range entries {
		style := assistantStyle
		if e.IsUser {
			style = userStyle
		}
		style.Fprintf(out, "%s: ", e.Speaker)
		fmt.Fprintln(out, e.Text)
	}
}
