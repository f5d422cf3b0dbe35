package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe-solo/internal"
	"github.com/rocketscienceinc/tictactoe-solo/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve matches over HTTP and WebSocket until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		conf := config.MustLoad(configPath)
		logger := initLogger(conf, os.Stdout)

		if err := app.RunApp(cmd.Context(), logger, conf); err != nil {
			return fmt.Errorf("app run failed: %w", err)
		}

		return nil
	},
}
