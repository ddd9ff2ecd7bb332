package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zeozeozeo/elizabot/eliza"
	"github.com/zeozeozeo/elizabot/repl"
)

var cliCmd = &cobra.Command{
	Use:   "cli <rules-path>",
	Short: "Talk to ELIZA on the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := eliza.LoadRules(args[0])
		if err != nil {
			return err
		}
		engine, err := eliza.New(rules, eliza.WithLogger(slog.Default()))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		session := repl.NewStdio()
		session.Out = cmd.OutOrStdout()
		return session.Run(ctx, engine.NewConversation())
	},
}
