package console

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

func play(t *testing.T, starter entity.Side, input string) string {
	t.Helper()

	var out bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	err := New(logger, strings.NewReader(input), &out, 0).Play(context.Background(), starter)
	require.NoError(t, err)

	return out.String()
}

func TestConsole_Play(t *testing.T) {
	t.Run("Player starts and Ai answers", func(t *testing.T) {
		// When: Player takes the center and quits
		out := play(t, entity.Player, "2 2\nq\n")

		// Then: Ai takes the first corner and hands the turn back
		assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "1   2   3"))
		assert.Contains(t, out, statusThinking)
		assert.Contains(t, out, "1  O |")
		assert.Equal(t, 2, strings.Count(out, statusYourTurn))
	})

	t.Run("Ai starts", func(t *testing.T) {
		// When: the console opens with Ai as starter
		out := play(t, entity.Ai, "q\n")

		// Then: Ai moves before Player is asked
		thinking := strings.Index(out, statusThinking)
		yourTurn := strings.Index(out, statusYourTurn)
		require.NotEqual(t, -1, thinking)
		require.NotEqual(t, -1, yourTurn)
		assert.Less(t, thinking, yourTurn)
		assert.Contains(t, out, "1  O |")
	})

	t.Run("Player cannot beat Ai", func(t *testing.T) {
		// Given: Player tries every cell in row-major order
		input := "1 1\n1 2\n1 3\n2 1\n2 2\n2 3\n3 1\n3 2\n3 3\n1 1\nq\n"

		// When: the match is played out
		out := play(t, entity.Player, input)

		// Then: it ends without a Player win
		assert.NotContains(t, out, statusYouWin)
		assert.True(t, strings.Contains(out, statusAiWins) || strings.Contains(out, statusDraw))
		assert.Contains(t, out, hintFinished)
	})

	t.Run("Bad input and restart", func(t *testing.T) {
		// When: the user types nonsense, an occupied cell and restarts with Ai
		out := play(t, entity.Player, "hello\n2 2\n1 1\nr robot\nr ai\nq\n")

		// Then: each gets its own reply and the restart lets Ai open
		assert.Contains(t, out, hintMove)
		assert.Contains(t, out, hintTaken)
		assert.Contains(t, out, "Starter must be player or ai.")

		restart := strings.LastIndex(out, statusThinking)
		assert.Greater(t, restart, strings.Index(out, "Starter must be player or ai."))
	})

	t.Run("Out of bounds", func(t *testing.T) {
		out := play(t, entity.Player, "4 1\nq\n")

		assert.Contains(t, out, hintTaken)
		assert.Equal(t, 1, strings.Count(out, statusYourTurn))
	})
}

func TestConsole_PlayErrors(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	t.Run("Invalid starter", func(t *testing.T) {
		err := New(logger, strings.NewReader(""), io.Discard, 0).Play(context.Background(), entity.Side(7))

		assert.ErrorIs(t, err, apperror.ErrInvalidStarter)
	})

	t.Run("Canceled while waiting for input", func(t *testing.T) {
		// Given: a console on an input that never delivers a line
		reader, writer := io.Pipe()
		t.Cleanup(func() { writer.Close() })

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)

		go func() {
			done <- New(logger, reader, io.Discard, 0).Play(ctx, entity.Player)
		}()

		// When: the context is canceled at the prompt
		time.Sleep(50 * time.Millisecond)
		cancel()

		// Then: Play returns promptly with the context error
		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("Play did not return after cancel")
		}
	})

	t.Run("Canceled while Ai thinks", func(t *testing.T) {
		// Given: a canceled context and a long thinking pause
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// When: Ai is due to open
		err := New(logger, strings.NewReader(""), io.Discard, time.Hour).Play(ctx, entity.Ai)

		// Then: the console stops with the context error
		assert.ErrorIs(t, err, context.Canceled)
	})
}
