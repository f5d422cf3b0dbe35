package entity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
)

// BoardSize is the side length of the grid. It never changes.
const BoardSize = 3

// Cell is the content of one square.
type Cell uint8

const (
	Empty Cell = iota
	PlayerMark
	AiMark
)

var cellSymbols = map[Cell]string{
	Empty:      "",
	PlayerMark: "X",
	AiMark:     "O",
}

func (that Cell) Valid() bool {
	_, ok := cellSymbols[that]
	return ok
}

func (that Cell) String() string {
	return cellSymbols[that]
}

func (that Cell) MarshalJSON() ([]byte, error) {
	if !that.Valid() {
		return nil, fmt.Errorf("%w: cell %d", apperror.ErrInvalidState, that)
	}

	return json.Marshal(that.String())
}

func (that *Cell) UnmarshalJSON(data []byte) error {
	var symbol string
	if err := json.Unmarshal(data, &symbol); err != nil {
		return fmt.Errorf("could not unmarshal cell: %w", err)
	}

	for cell, s := range cellSymbols {
		if s == symbol {
			*that = cell
			return nil
		}
	}

	return fmt.Errorf("%w: cell %q", apperror.ErrInvalidState, symbol)
}

// Side is the mover whose turn it is.
type Side uint8

const (
	Player Side = iota + 1
	Ai
)

const (
	playerSide = "player"
	aiSide     = "ai"
)

// ParseSide reads a side from config, CLI or request input.
func ParseSide(value string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case playerSide:
		return Player, nil
	case aiSide:
		return Ai, nil
	default:
		return 0, fmt.Errorf("%w: %q", apperror.ErrInvalidStarter, value)
	}
}

func (that Side) Valid() bool {
	return that == Player || that == Ai
}

func (that Side) Opponent() Side {
	if that == Player {
		return Ai
	}
	return Player
}

// Mark returns the cell value the side places on the board.
func (that Side) Mark() Cell {
	switch that {
	case Player:
		return PlayerMark
	case Ai:
		return AiMark
	default:
		return Empty
	}
}

func (that Side) String() string {
	switch that {
	case Player:
		return playerSide
	case Ai:
		return aiSide
	default:
		return fmt.Sprintf("side(%d)", uint8(that))
	}
}

func (that Side) MarshalJSON() ([]byte, error) {
	if !that.Valid() {
		return nil, fmt.Errorf("%w: side %d", apperror.ErrInvalidState, that)
	}

	return json.Marshal(that.String())
}

func (that *Side) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("could not unmarshal side: %w", err)
	}

	side, err := ParseSide(value)
	if err != nil {
		return err
	}

	*that = side

	return nil
}

// Result is derived from the board, never stored as truth.
type Result uint8

const (
	InProgress Result = iota
	PlayerWins
	AiWins
	Draw
)

var resultNames = map[Result]string{
	InProgress: "in_progress",
	PlayerWins: "player_wins",
	AiWins:     "ai_wins",
	Draw:       "draw",
}

func (that Result) IsTerminal() bool {
	return that != InProgress
}

func (that Result) String() string {
	if name, ok := resultNames[that]; ok {
		return name
	}
	return fmt.Sprintf("result(%d)", uint8(that))
}

func (that Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.String())
}

func (that *Result) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("could not unmarshal result: %w", err)
	}

	for result, n := range resultNames {
		if n == name {
			*that = result
			return nil
		}
	}

	return fmt.Errorf("%w: result %q", apperror.ErrInvalidState, name)
}

// Position addresses a cell by row and column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NoPosition is returned when no move is possible.
var NoPosition = Position{Row: -1, Col: -1}

// Board is a 3x3 grid. Being an array, assigning it copies every cell.
type Board [BoardSize][BoardSize]Cell

func (that *Board) InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// FreeCells lists the empty cells in row-major order.
func (that *Board) FreeCells() []Position {
	free := make([]Position, 0, BoardSize*BoardSize)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if that[row][col] == Empty {
				free = append(free, Position{Row: row, Col: col})
			}
		}
	}

	return free
}

// Valid reports whether every cell holds one of the three legal values.
func (that *Board) Valid() bool {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if !that[row][col].Valid() {
				return false
			}
		}
	}

	return true
}

func (that *Board) String() string {
	var sb strings.Builder
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			symbol := that[row][col].String()
			if symbol == "" {
				symbol = "."
			}
			sb.WriteString(symbol)
		}
		if row < BoardSize-1 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}
