package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-solo/internal/config"
)

var configPath = "config.yml"

var rootCmd = &cobra.Command{
	Use:   "tictactoe",
	Short: "Play tic-tac-toe against an unbeatable minimax AI",
	Long: `tictactoe pits you against an AI that searches the whole game tree
and never loses.

Play in the terminal
	tictactoe play

Serve matches to remote UIs over HTTP and WebSocket
	tictactoe serve

Watch the AI play a perfect opponent
	tictactoe selfplay --games 4
`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", configPath, "Path to the YAML config file, environment and defaults apply without it")

	rootCmd.AddCommand(serveCmd, playCmd, selfPlayCmd)
}

// initConfig - loads the config, falling back to environment and defaults when the file is absent.
func initConfig() (*config.Config, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return conf, nil
}

// initialize logger.
func initLogger(conf *config.Config, w io.Writer) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
