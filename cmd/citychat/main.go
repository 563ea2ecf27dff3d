// citychat answers questions about US city demographics by letting an LLM
// drive two database lookup tools.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/richinex/citychat/cli"
	"github.com/richinex/citychat/config"
	"github.com/richinex/citychat/internal/logging"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "citychat",
		Short:        "Conversational lookups over US city demographics",
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newAskCmd(),
		newChatCmd(),
		newLookupCmd(),
		newToolsCmd(),
	)
	return root
}

func newRunner(development bool) (*cli.Runner, func(), error) {
	settings := config.LoadSettings()

	var logger *zap.Logger
	if development {
		logger = logging.NewDevelopment()
	} else {
		var err error
		logger, err = logging.New(settings.LogLevel)
		if err != nil {
			return nil, nil, err
		}
	}

	return cli.NewRunner(settings, logger), func() { _ = logger.Sync() }, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, cleanup, err := newRunner(false)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runner.Serve(ctx)
		},
	}
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a single question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, cleanup, err := newRunner(true)
			if err != nil {
				return err
			}
			defer cleanup()

			return runner.AskOnce(cmd.Context(), strings.Join(args, " "))
		},
	}
}

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive conversation with follow-up questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, cleanup, err := newRunner(true)
			if err != nil {
				return err
			}
			defer cleanup()

			return runner.Chat(cmd.Context())
		},
	}
}

func newLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup [city] [state]",
		Short: "Query the geo dataset directly, bypassing the model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, cleanup, err := newRunner(true)
			if err != nil {
				return err
			}
			defer cleanup()

			return runner.Lookup(cmd.Context(), args[0], args[1])
		},
	}
}

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools advertised to the model",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, cleanup, err := newRunner(true)
			if err != nil {
				return err
			}
			defer cleanup()

			return runner.ListTools()
		},
	}
}
