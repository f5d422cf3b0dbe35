package tictactoe

import (
	"math"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const (
	negInf = math.MinInt
	posInf = math.MaxInt
)

// SearchStats describes the work done by the most recent search: a Minimax,
// BestMoveForAi or BestMoveForPlayer call.
type SearchStats struct {
	Nodes   int `json:"nodes"`
	Cutoffs int `json:"cutoffs"`
}

func (that *Engine) SearchStats() SearchStats {
	return that.stats
}

// Minimax scores the current board assuming perfect play from both sides.
// Ai maximizes, Player minimizes. Wins and losses are not discounted by depth.
// The board is identical before and after the call.
func (that *Engine) Minimax(maximizing bool, alpha, beta int) int {
	that.stats = SearchStats{}

	return that.minimax(maximizing, alpha, beta)
}

func (that *Engine) minimax(maximizing bool, alpha, beta int) int {
	that.stats.Nodes++

	score := that.ScorePosition()
	if score != 0 || !that.HasFreeCell() {
		return score
	}

	if maximizing {
		best := negInf
		for _, pos := range that.board.FreeCells() {
			value := that.withMark(pos, entity.AiMark, func() int {
				return that.minimax(false, alpha, beta)
			})

			best = max(best, value)
			alpha = max(alpha, best)
			if beta <= alpha {
				that.stats.Cutoffs++
				return best
			}
		}

		return best
	}

	best := posInf
	for _, pos := range that.board.FreeCells() {
		value := that.withMark(pos, entity.PlayerMark, func() int {
			return that.minimax(true, alpha, beta)
		})

		best = min(best, value)
		beta = min(beta, best)
		if beta <= alpha {
			that.stats.Cutoffs++
			return best
		}
	}

	return best
}

// BestMoveForAi returns the first cell, in row-major order, with the highest
// minimax value, or entity.NoPosition when the board is full.
func (that *Engine) BestMoveForAi() entity.Position {
	that.stats = SearchStats{}

	bestValue := negInf
	move := entity.NoPosition

	for _, pos := range that.board.FreeCells() {
		value := that.withMark(pos, entity.AiMark, func() int {
			return that.minimax(false, negInf, posInf)
		})

		if value > bestValue {
			bestValue, move = value, pos
		}
	}

	return move
}

// withMark places mark at pos for the duration of eval and always restores the cell.
func (that *Engine) withMark(pos entity.Position, mark entity.Cell, eval func() int) int {
	previous := that.board[pos.Row][pos.Col]
	that.board[pos.Row][pos.Col] = mark

	defer func() { that.board[pos.Row][pos.Col] = previous }()

	return eval()
}

// BestMoveForPlayer is the mirror of BestMoveForAi: the first cell with the
// lowest minimax value. It drives the perfect opponent in self-play.
func (that *Engine) BestMoveForPlayer() entity.Position {
	that.stats = SearchStats{}

	bestValue := posInf
	move := entity.NoPosition

	for _, pos := range that.board.FreeCells() {
		value := that.withMark(pos, entity.PlayerMark, func() int {
			return that.minimax(true, negInf, posInf)
		})

		if value < bestValue {
			bestValue, move = value, pos
		}
	}

	return move
}
