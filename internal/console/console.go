// Package console is the terminal front end for a local match against the engine.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
)

const (
	statusYourTurn = "Your turn!"
	statusThinking = "AI is thinking…"
	statusYouWin   = "You win!"
	statusAiWins   = "AI wins!"
	statusDraw     = "It's a draw!"

	hintMove     = "Enter row and column (1-3), e.g. \"2 3\". r restarts, q quits."
	hintFinished = "Press r to restart or q to quit."
	hintTaken    = "That cell is not available."
)

type Console struct {
	logger  *slog.Logger
	in      *bufio.Scanner
	out     io.Writer
	aiDelay time.Duration

	engine *tictactoe.Engine
}

func New(logger *slog.Logger, in io.Reader, out io.Writer, aiDelay time.Duration) *Console {
	return &Console{
		logger:  logger.With("component", "console"),
		in:      bufio.NewScanner(in),
		out:     out,
		aiDelay: aiDelay,
	}
}

// Play - runs matches until the user quits, ctx is canceled or input ends.
func (that *Console) Play(ctx context.Context, starter entity.Side) error {
	if !starter.Valid() {
		return fmt.Errorf("failed to start: %w: %s", apperror.ErrInvalidStarter, starter)
	}

	that.engine = tictactoe.New(starter)
	if err := that.start(ctx); err != nil {
		return err
	}

	lines := that.readLines(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if err := that.in.Err(); err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}

				return nil
			}

			quit, err := that.handleLine(ctx, line)
			if err != nil {
				return err
			}

			if quit {
				return nil
			}
		}
	}
}

// readLines - feeds input lines to the returned channel, closed at end of input.
// A read blocked on input outlives ctx until the next line or EOF arrives.
func (that *Console) readLines(ctx context.Context) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		for that.in.Scan() {
			select {
			case lines <- strings.TrimSpace(that.in.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	return lines
}

func (that *Console) handleLine(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "q", "quit":
		return true, nil
	case "r", "restart":
		starter := that.engine.Starter()
		if len(fields) > 1 {
			side, err := entity.ParseSide(fields[1])
			if err != nil {
				that.println("Starter must be player or ai.")
				return false, nil
			}
			starter = side
		}

		that.engine.Reset(starter)
		return false, that.start(ctx)
	}

	if that.engine.Result().IsTerminal() {
		that.println(hintFinished)
		return false, nil
	}

	row, col, ok := parseCell(fields)
	if !ok {
		that.println(hintMove)
		return false, nil
	}

	if !that.engine.PlayerMove(row, col) {
		that.println(hintTaken)
		return false, nil
	}

	that.logger.Debug("player moved", "row", row, "col", col)
	that.render()

	if that.announceEnd() {
		return false, nil
	}

	return false, that.aiTurn(ctx)
}

func (that *Console) start(ctx context.Context) error {
	that.render()

	if that.engine.Turn() == entity.Player {
		that.println(statusYourTurn)
		return nil
	}

	return that.aiTurn(ctx)
}

func (that *Console) aiTurn(ctx context.Context) error {
	that.println(statusThinking)

	timer := time.NewTimer(that.aiDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	move, _ := that.engine.AiMove()
	stats := that.engine.SearchStats()
	that.logger.Debug("ai moved", "move", move, "nodes", stats.Nodes, "cutoffs", stats.Cutoffs)

	that.render()

	if !that.announceEnd() {
		that.println(statusYourTurn)
	}

	return nil
}

// announceEnd - prints the outcome once the match is over.
func (that *Console) announceEnd() bool {
	switch that.engine.Result() {
	case entity.PlayerWins:
		that.println(statusYouWin)
	case entity.AiWins:
		that.println(statusAiWins)
	case entity.Draw:
		that.println(statusDraw)
	default:
		return false
	}

	that.println(hintFinished)

	return true
}

func (that *Console) render() {
	board := that.engine.Board()

	var sb strings.Builder
	sb.WriteString("\n   1   2   3\n")

	for row := 0; row < entity.BoardSize; row++ {
		if row > 0 {
			sb.WriteString("  ---+---+---\n")
		}

		sb.WriteString(strconv.Itoa(row + 1))
		sb.WriteString(" ")

		for col := 0; col < entity.BoardSize; col++ {
			if col > 0 {
				sb.WriteString("|")
			}

			symbol := board[row][col].String()
			if symbol == "" {
				symbol = " "
			}

			sb.WriteString(" " + symbol + " ")
		}

		sb.WriteString("\n")
	}

	that.println(sb.String())
}

func (that *Console) println(text string) {
	if _, err := fmt.Fprintln(that.out, text); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}

// parseCell - reads a one-based "row col" pair into board coordinates.
func parseCell(fields []string) (int, int, bool) {
	if len(fields) != 2 {
		return 0, 0, false
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, false
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, false
	}

	return row - 1, col - 1, true
}
