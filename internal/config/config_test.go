package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Reads the yaml file", func(t *testing.T) {
		// Given: a config file
		path := writeConfig(t, `
log-level: debug
http-port: "8080"
starter: ai
ai-delay: 1s
redis:
  host: redis
  port: "6380"
`)

		// When: loading it
		conf, err := Load(path)

		// Then: the values come from the file
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "8080", conf.HTTPPort)
		assert.Equal(t, time.Second, conf.AIDelay)
		assert.Equal(t, "redis:6380", conf.Redis.GetRedisAddr())

		starter, err := conf.StarterSide()
		require.NoError(t, err)
		assert.Equal(t, entity.Ai, starter)
	})

	t.Run("Defaults without a file", func(t *testing.T) {
		// When: loading a path that does not exist
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: defaults apply
		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "9091", conf.SocketPort)
		assert.Equal(t, 300*time.Millisecond, conf.AIDelay)
		assert.Equal(t, time.Hour, conf.MatchTTL)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		// Given: a config file and an environment override
		path := writeConfig(t, "starter: player\n")
		t.Setenv("STARTER", "ai")

		// When: loading it
		conf, err := Load(path)

		// Then: the environment wins
		require.NoError(t, err)
		assert.Equal(t, "ai", conf.Starter)
	})

	t.Run("Invalid starter", func(t *testing.T) {
		// Given: a config naming an unknown starter
		path := writeConfig(t, "starter: nobody\n")

		// When: loading it
		_, err := Load(path)

		// Then: ErrInvalidStarter is returned
		assert.ErrorIs(t, err, apperror.ErrInvalidStarter)
	})

	t.Run("MustLoad panics on a bad file", func(t *testing.T) {
		path := writeConfig(t, "starter: nobody\n")
		assert.Panics(t, func() { MustLoad(path) })
	})
}
