package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zeozeozeo/elizabot/config"
	"github.com/zeozeozeo/elizabot/logging"
)

var (
	// v holds the merged configuration. It is set up before any subcommand runs.
	v *viper.Viper

	configFile string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "elizabot",
	Short: "ELIZA on your terminal or on Discord",
	Long: `elizabot answers messages with the keyword, decomposition and reassembly
rules of Weizenbaum's ELIZA. Rules are JSON or YAML documents.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if v, err = config.New(envFile); err != nil {
			return err
		}
		flags := cmd.Root().PersistentFlags()
		v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
		v.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))
		v.BindPFlag(config.KeyRules, flags.Lookup("rules"))
		v.BindPFlag(config.KeyDatabase, flags.Lookup("database"))

		if err := config.ReadFile(v, configFile); err != nil {
			return err
		}
		level, err := logging.ParseLevel(v.GetString(config.KeyLogLevel))
		if err != nil {
			return err
		}
		slog.SetDefault(logging.New(level, v.GetString(config.KeyLogFormat)))
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file loaded into the environment if it exists")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-format", "text", "text or json")
	flags.String("rules", "", "rules file used when nothing else is loaded")
	flags.String("database", "elizabot.db", "sqlite database for the discord bot")

	rootCmd.AddCommand(cliCmd, discordCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
