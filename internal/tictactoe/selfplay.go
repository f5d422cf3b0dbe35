package tictactoe

import "github.com/rocketscienceinc/tictactoe-solo/internal/entity"

// Game is the record of one finished self-play match.
type Game struct {
	Starter entity.Side
	Moves   []entity.Position
	Result  entity.Result
	Board   entity.Board
}

// SelfPlay plays Ai against a perfect Player until the match ends.
func SelfPlay(starter entity.Side) Game {
	engine := New(starter)
	game := Game{Starter: starter}

	for !engine.Result().IsTerminal() {
		switch engine.Turn() {
		case entity.Player:
			move := engine.BestMoveForPlayer()
			if !engine.PlayerMove(move.Row, move.Col) {
				return finish(engine, game)
			}
			game.Moves = append(game.Moves, move)
		case entity.Ai:
			move, ok := engine.AiMove()
			if !ok {
				return finish(engine, game)
			}
			game.Moves = append(game.Moves, move)
		}
	}

	return finish(engine, game)
}

func finish(engine *Engine, game Game) Game {
	game.Result = engine.Result()
	game.Board = engine.Board()

	return game
}
