package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgo/handler/middleware"
	"github.com/spf13/cobra"
	"github.com/zeozeozeo/elizabot/commands"
	"github.com/zeozeozeo/elizabot/config"
	"github.com/zeozeozeo/elizabot/db"
)

var discordCmd = &cobra.Command{
	Use:   "discord [rule-storage-db]",
	Short: "Run the Discord bot",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			v.Set(config.KeyDatabase, args[0])
		}
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		if cfg.Token == "" {
			return fmt.Errorf("no discord token, set DISCORD_TOKEN")
		}
		return runDiscord(cfg)
	},
}

func runDiscord(cfg config.Config) error {
	slog.Info("elizabot booting up...")
	slog.Info("disgo version", slog.String("version", disgo.Version))

	if err := db.InitDB(cfg.Database, cfg.Owners...); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	commands.BotID = cfg.BotID
	commands.FetchTimeout = cfg.FetchTimeout

	ok, err := commands.RestoreEngine(cfg.RulesPath)
	if err != nil {
		return err
	}
	if !ok {
		slog.Warn("no rules loaded, use !load_rules or /load_rules")
	}

	r := handler.New()
	r.Use(middleware.Logger)
	if err := commands.RegisterHandlers(r); err != nil {
		return err
	}

	client, err := disgo.New(cfg.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(
			gateway.IntentGuildMessages,
			gateway.IntentMessageContent,
			gateway.IntentDirectMessages,
		)),
		bot.WithEventListeners(r),
		bot.WithEventListenerFunc(commands.OnMessageCreate),
	)
	if err != nil {
		return fmt.Errorf("error while building disgo instance: %w", err)
	}
	defer client.Close(context.TODO())

	if _, err = client.Rest().SetGlobalCommands(client.ApplicationID(), commands.AllCommands); err != nil {
		return fmt.Errorf("error while registering commands: %w", err)
	}

	if err = client.OpenGateway(context.TODO()); err != nil {
		return fmt.Errorf("error while opening gateway: %w", err)
	}

	slog.Info("elizabot running. ctrl+c to stop")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-s
	return nil
}
