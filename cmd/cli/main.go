package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"sheetchat/adapters/llm"
	"sheetchat/domain/core"
	"sheetchat/internal"
	"sheetchat/internal/chat"
	"sheetchat/internal/config"
	"sheetchat/internal/container"
	"sheetchat/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const offlineReply = "Offline mode: no completion service was called. Columns and row counts are answered locally."

type rootOptions struct {
	offline bool
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "sheetchat-cli",
		Short:         "Ask questions about a spreadsheet from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVar(&opts.offline, "offline", false, "Answer free-form questions with a canned reply instead of calling the completion service")

	rootCmd.AddCommand(
		newAskCmd(opts),
		newChatCmd(opts),
		newPreviewCmd(),
	)
	return rootCmd
}

// buildContainer loads configuration and wires the same components the web server uses
func buildContainer(ctx context.Context, opts *rootOptions) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	internal.DefaultLogger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))

	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}

	var client ports.CompletionClient
	if opts.offline {
		client = &llm.MockClient{Response: offlineReply}
	} else if !cfg.HasAPIKey() {
		internal.DefaultLogger.Warn("OPENAI_API_KEY is not set; free-form questions will report a failed request")
	}
	if err := c.Init(ctx, client); err != nil {
		return nil, err
	}
	return c, nil
}

// openSession reads path and returns a ready session over it
func openSession(ctx context.Context, c *container.Container, path string) (*chat.Session, error) {
	ds, err := c.Reader.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	session := c.NewSession(core.NewID())
	if _, err := session.LoadDataset(ds); err != nil {
		return nil, err
	}
	return session, nil
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <file> <question>",
		Short: "Ask a single question and print the answer",
		Example: `  sheetchat-cli ask people.xlsx "how many rows"
  sheetchat-cli ask --offline sales.csv "what columns are there"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := buildContainer(ctx, opts)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			session, err := openSession(ctx, c, args[0])
			if err != nil {
				return err
			}
			answer, err := session.Ask(ctx, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer.Text)
			return nil
		},
	}
}
