package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(log.Default()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logger *log.Logger) *cobra.Command {
	var config *Config

	root := &cobra.Command{
		Use:          "scicalc",
		Short:        "Scientific calculator with a Telegram keypad, a terminal REPL and an AI solver",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			config, err = LoadConfig()
			return err
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "bot",
			Short: "Serve the calculator keypad over Telegram",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runBot(config, logger)
			},
		},
		&cobra.Command{
			Use:   "repl",
			Short: "Run the calculator in the terminal",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
				defer stop()
				return runREPL(ctx, config, logger)
			},
		},
	)
	return root
}

func runBot(config *Config, logger *log.Logger) error {
	bot, err := LoadBot(config, logger)
	if err != nil {
		logger.Printf("failed to connect telegram, error: %v\n", err)
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Println("starting telegram bot")
		if err := bot.Run(); !errors.Is(err, ErrClosed) {
			logger.Printf("failed to start telegram bot, error: %s\n", err)
		}
		quit <- os.Interrupt
	}()

	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	logger.Println("stopping telegram bot")
	if err := bot.Shutdown(ctx); err != nil {
		logger.Printf("failed to graceful shutdown telegram bot, error: %s\n", err)
		return err
	}
	logger.Println("telegram bot stopped")
	return nil
}
