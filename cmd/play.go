package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-solo/internal/console"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

var playStarter string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a match in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		conf, err := initConfig()
		if err != nil {
			return err
		}

		starter, err := conf.StarterSide()
		if err != nil {
			return err
		}

		if playStarter != "" {
			if starter, err = entity.ParseSide(playStarter); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger := initLogger(conf, os.Stderr)

		err = console.New(logger, cmd.InOrStdin(), cmd.OutOrStdout(), conf.AIDelay).Play(ctx, starter)
		if errors.Is(err, context.Canceled) {
			return nil
		}

		return err
	},
}

func init() {
	playCmd.Flags().StringVarP(&playStarter, "starter", "s", "", "Who moves first: player or ai (defaults to the config)")
}
