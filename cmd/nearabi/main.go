package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	abiURI     string

	rootCmd = &cobra.Command{
		Use:           "nearabi",
		Short:         "ABI-driven client for NEAR contracts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "dipdup.yml", "path to YAML config file")
	rootCmd.AddCommand(
		newMethodsCmd(),
		newViewCmd(),
		newCallCmd(),
		newImportCmd(),
		newBatchCmd(),
		newInitCmd(),
	)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
	}).Level(zerolog.InfoLevel)

	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		short := file
		for i := len(file) - 1; i > 0; i-- {
			if file[i] == '/' {
				short = file[i+1:]
				break
			}
		}
		file = short
		return file + ":" + strconv.Itoa(line)
	}
	log.Logger = log.Logger.With().Caller().Logger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Err(err).Msg("command line execute")
		cancel()
		os.Exit(1)
	}
}

func loadConfig() (Config, error) {
	cfg, err := Load(configPath)
	if err != nil {
		return cfg, err
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = zerolog.LevelInfoValue
	}
	logLevel, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, err
	}
	zerolog.SetGlobalLevel(logLevel)
	return cfg, nil
}
