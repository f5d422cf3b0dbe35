package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return out.String(), err
}

func TestSelfPlayCommand(t *testing.T) {
	t.Run("Alternating starters", func(t *testing.T) {
		// When: two games run without a fixed starter
		out, err := execute(t, "", "selfplay", "--games", "2", "--starter=")

		// Then: Ai opens the first, Player the second, and Player never wins
		require.NoError(t, err)
		assert.Contains(t, out, "game 1: starter=ai")
		assert.Contains(t, out, "game 2: starter=player moves=9 result=draw")
		assert.Contains(t, out, "player wins: 0")
	})

	t.Run("Invalid game count", func(t *testing.T) {
		_, err := execute(t, "", "selfplay", "--games", "0", "--starter=")

		assert.Error(t, err)
	})

	t.Run("Invalid starter", func(t *testing.T) {
		_, err := execute(t, "", "selfplay", "--games", "1", "--starter", "robot")

		assert.Error(t, err)
	})
}

func TestPlayCommand(t *testing.T) {
	// Given: no config file and no Ai pause
	t.Setenv("AI_DELAY", "0s")
	missing := filepath.Join(t.TempDir(), "missing.yml")

	// When: Ai opens and the user quits
	out, err := execute(t, "q\n", "play", "--config", missing, "--starter", "ai")

	// Then: the board and the statuses are printed
	require.NoError(t, err)
	assert.Contains(t, out, "AI is thinking…")
	assert.Contains(t, out, "Your turn!")
	assert.Contains(t, out, "1  O |")
}

func TestServeCommand(t *testing.T) {
	// Given: a config file naming an unknown starter
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("starter: nobody\n"), 0o600))

	// Then: serve refuses to start before touching redis
	assert.Panics(t, func() {
		_, _ = execute(t, "", "serve", "--config", path)
	})
}
