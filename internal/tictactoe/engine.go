// Package tictactoe holds the game engine: board state, win and draw
// detection, and the minimax search that picks the computer's move.
//
// An Engine is not safe for concurrent use. Callers serialize access.
package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const (
	winScore  = 10
	lossScore = -winScore
)

// Lines lists the 8 winning triples: 3 rows, 3 columns, 2 diagonals.
var Lines = [8][3]entity.Position{
	{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}},
	{{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}},
	{{Row: 2, Col: 0}, {Row: 2, Col: 1}, {Row: 2, Col: 2}},
	{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 2, Col: 0}},
	{{Row: 0, Col: 1}, {Row: 1, Col: 1}, {Row: 2, Col: 1}},
	{{Row: 0, Col: 2}, {Row: 1, Col: 2}, {Row: 2, Col: 2}},
	{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 2, Col: 2}},
	{{Row: 0, Col: 2}, {Row: 1, Col: 1}, {Row: 2, Col: 0}},
}

// Engine owns the board and the turn of one match.
type Engine struct {
	board   entity.Board
	turn    entity.Side
	starter entity.Side

	stats SearchStats
}

// New - creates an engine with an empty board. It panics on an invalid starter.
func New(starter entity.Side) *Engine {
	engine := &Engine{}
	engine.Reset(starter)

	return engine
}

// Restore - rebuilds an engine from a stored snapshot.
func Restore(board entity.Board, turn, starter entity.Side) (*Engine, error) {
	if !board.Valid() {
		return nil, fmt.Errorf("%w: board holds an unknown cell value", apperror.ErrInvalidState)
	}

	if !turn.Valid() || !starter.Valid() {
		return nil, fmt.Errorf("%w: turn %s, starter %s", apperror.ErrInvalidState, turn, starter)
	}

	return &Engine{
		board:   board,
		turn:    turn,
		starter: starter,
	}, nil
}

// Reset - clears the board and hands the first move to starter.
func (that *Engine) Reset(starter entity.Side) {
	if !starter.Valid() {
		panic(fmt.Errorf("%w: %s", apperror.ErrInvalidStarter, starter))
	}

	that.board = entity.Board{}
	that.turn = starter
	that.starter = starter
	that.stats = SearchStats{}
}

// Board returns a copy; mutating it does not affect the engine.
func (that *Engine) Board() entity.Board {
	return that.board
}

func (that *Engine) Turn() entity.Side {
	return that.turn
}

func (that *Engine) Starter() entity.Side {
	return that.starter
}

// ScorePosition returns +10 when a line is all Ai, -10 when all Player, 0 otherwise.
func (that *Engine) ScorePosition() int {
	for _, line := range Lines {
		a := that.board[line[0].Row][line[0].Col]
		b := that.board[line[1].Row][line[1].Col]
		c := that.board[line[2].Row][line[2].Col]

		if a == entity.Empty || a != b || b != c {
			continue
		}

		if a == entity.AiMark {
			return winScore
		}
		return lossScore
	}

	return 0
}

func (that *Engine) HasFreeCell() bool {
	for row := 0; row < entity.BoardSize; row++ {
		for col := 0; col < entity.BoardSize; col++ {
			if that.board[row][col] == entity.Empty {
				return true
			}
		}
	}

	return false
}

// Result is recomputed from the board on every call.
func (that *Engine) Result() entity.Result {
	switch that.ScorePosition() {
	case winScore:
		return entity.AiWins
	case lossScore:
		return entity.PlayerWins
	}

	if !that.HasFreeCell() {
		return entity.Draw
	}

	return entity.InProgress
}

// PlayerMove - places the Player mark. Out-of-bounds coordinates, a wrong
// turn, an occupied cell or a finished match all return false and leave
// the engine untouched.
func (that *Engine) PlayerMove(row, col int) bool {
	if that.turn != entity.Player || !that.board.InBounds(row, col) {
		return false
	}

	if that.board[row][col] != entity.Empty || that.Result().IsTerminal() {
		return false
	}

	that.board[row][col] = that.turn.Mark()
	that.turn = that.turn.Opponent()

	return true
}

// AiMove - plays the best move for Ai when it is Ai's turn. The turn passes
// to Player after every attempt, including when nothing could be placed.
func (that *Engine) AiMove() (entity.Position, bool) {
	if that.turn != entity.Ai {
		return entity.NoPosition, false
	}

	defer func() { that.turn = entity.Ai.Opponent() }()

	if that.Result().IsTerminal() {
		return entity.NoPosition, false
	}

	move := that.BestMoveForAi()
	if move == entity.NoPosition {
		return entity.NoPosition, false
	}

	that.board[move.Row][move.Col] = that.turn.Mark()

	return move, true
}
