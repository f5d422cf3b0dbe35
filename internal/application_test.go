package application

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rocketscienceinc/tictactoe-solo/internal/config"
)

func TestRunApp(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	t.Run("Missing redis host", func(t *testing.T) {
		// Given: a config without a redis host
		conf := &config.Config{Starter: "player", Redis: config.Redis{Port: "6379"}}

		// When: the app is started
		err := RunApp(context.Background(), logger, conf)

		// Then: ErrAddrNotFound is returned before any connection attempt
		assert.ErrorIs(t, err, ErrAddrNotFound)
	})

	t.Run("Invalid starter", func(t *testing.T) {
		conf := &config.Config{Starter: "nobody", Redis: config.Redis{Host: "localhost", Port: "6379"}}

		err := RunApp(context.Background(), logger, conf)

		assert.Error(t, err)
	})
}
