// Package cmd provides the root command and CLI setup for the wordle engine.
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle-engine/internal/config"
	"github.com/robalobadob/wordle-engine/internal/daily"
	"github.com/robalobadob/wordle-engine/internal/game"
	"github.com/robalobadob/wordle-engine/internal/httpserver"
	"github.com/robalobadob/wordle-engine/internal/words"
)

var configFlag string
var logLevelFlag string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordle",
		Short: "Wordle game engine",
		Long: `Wordle game engine: guess a five-letter word in six tries.

  serve   run the HTTP/websocket API
  play    play in the terminal`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level (overrides LOG_LEVEL)")

	cmd.AddCommand(newServeCmd(), newPlayCmd())
	return cmd
}

// Execute runs the root command.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies the log level.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return cfg, err
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, keeping info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return cfg, nil
}

// wordSource is what both commands need from a word provider: the valid set,
// the target candidates (for daily selection) and a random pick.
type wordSource interface {
	daily.Lister
	PickTarget(set words.Set) (string, error)
}

// newWordSource builds the configured word source. Replaced in tests.
var newWordSource = func(cfg config.Config) (wordSource, error) {
	if cfg.Words.URL != "" {
		log.Info().Str("url", cfg.Words.URL).Msg("using remote word list")
		return words.NewHTTPSource(cfg.Words.URL, cfg.Words.Timeout), nil
	}
	l, err := words.Load(cfg.Words.AnswersFile, cfg.Words.AllowedFile)
	if err != nil {
		return nil, err
	}
	a, g := l.Stats()
	log.Info().Int("answers", a).Int("allowed", g).Msg("word lists ready")
	return l, nil
}

// sourcesByMode wires one source per game mode.
func sourcesByMode(src wordSource, salt string) map[string]game.WordSource {
	return map[string]game.WordSource{
		httpserver.ModeRandom: src,
		httpserver.ModeDaily:  daily.NewSource(src, salt),
	}
}
