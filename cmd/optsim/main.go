package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"options-simulator/internal/cli"
	"options-simulator/internal/config"
	"options-simulator/internal/logging"
)

func main() {
	// .env overrides are optional; a missing file is not an error.
	_ = godotenv.Load()

	configDir := configDirFromArgs(os.Args[1:])
	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "optsim: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultLogConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Console = cfg.Logging.Console
	logCfg.File = cfg.Logging.File
	if cfg.Logging.FilePath != "" {
		logCfg.FilePath = cfg.Logging.FilePath
	}
	logger := logging.NewLoggerWithConfig(logCfg)

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "optsim: %v\n", err)
		os.Exit(1)
	}
}

// configDirFromArgs pre-parses the --config flag so the config file is
// loaded before cobra takes over flag handling.
func configDirFromArgs(args []string) string {
	fs := pflag.NewFlagSet("pre", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	configDir := fs.String("config", "", "")
	fs.Bool("json", false, "")
	fs.Bool("debug", false, "")
	_ = fs.Parse(args)
	return *configDir
}
