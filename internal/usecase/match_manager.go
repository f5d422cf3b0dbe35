package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
)

type matchRepo interface {
	CreateOrUpdate(ctx context.Context, match *entity.Match) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	DeleteByID(ctx context.Context, id string) error
}

// MatchManager serves remote UIs. Each call restores the engine of one match
// from the store, applies a single operation and saves the result.
type MatchManager struct {
	logger    *slog.Logger
	matchRepo matchRepo

	// one in-flight call at a time, the engine is not safe for concurrent use
	mu sync.Mutex

	newID func() (string, error)
}

func NewMatchManager(logger *slog.Logger, matchRepo matchRepo) *MatchManager {
	return &MatchManager{
		logger:    logger.With("component", "match_manager"),
		matchRepo: matchRepo,
		newID:     pkg.GenerateMatchID,
	}
}

func (that *MatchManager) NewMatch(ctx context.Context, starter entity.Side) (*entity.Match, error) {
	if !starter.Valid() {
		return nil, fmt.Errorf("%w: %s", apperror.ErrInvalidStarter, starter)
	}

	id, err := that.newID()
	if err != nil {
		return nil, fmt.Errorf("failed create match: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	match := snapshot(id, tictactoe.New(starter), nil)
	if err = that.updateMatch(ctx, match); err != nil {
		return nil, err
	}

	that.logger.Info("match created", "matchID", id, "starter", starter)

	return match, nil
}

func (that *MatchManager) GetMatch(ctx context.Context, id string) (*entity.Match, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	engine, match, err := that.loadEngine(ctx, id)
	if err != nil {
		return nil, err
	}

	return snapshot(id, engine, match.LastMove), nil
}

func (that *MatchManager) PlayerMove(ctx context.Context, id string, row, col int) (*entity.Match, error) {
	log := that.logger.With("method", "PlayerMove", "matchID", id)

	that.mu.Lock()
	defer that.mu.Unlock()

	engine, match, err := that.loadEngine(ctx, id)
	if err != nil {
		return nil, err
	}

	if !engine.PlayerMove(row, col) {
		reason := rejectReason(engine, row, col)
		log.Debug("player move rejected", "row", row, "col", col, "reason", reason)

		return match, fmt.Errorf("failed make turn: %w", reason)
	}

	match = snapshot(id, engine, &entity.Position{Row: row, Col: col})
	if err = that.updateMatch(ctx, match); err != nil {
		return nil, err
	}

	log.Debug("player moved", "row", row, "col", col, "result", match.Result)

	return match, nil
}

func (that *MatchManager) AiMove(ctx context.Context, id string) (*entity.Match, error) {
	log := that.logger.With("method", "AiMove", "matchID", id)

	that.mu.Lock()
	defer that.mu.Unlock()

	engine, match, err := that.loadEngine(ctx, id)
	if err != nil {
		return nil, err
	}

	if engine.Turn() != entity.Ai {
		return match, fmt.Errorf("failed ai turn: %w", apperror.ErrNotYourTurn)
	}

	if engine.Result().IsTerminal() {
		return match, fmt.Errorf("failed ai turn: %w", apperror.ErrGameFinished)
	}

	move, ok := engine.AiMove()

	var lastMove *entity.Position
	if ok {
		lastMove = &move
	}

	match = snapshot(id, engine, lastMove)
	if err = that.updateMatch(ctx, match); err != nil {
		return nil, err
	}

	stats := engine.SearchStats()
	log.Debug("ai moved", "move", move, "nodes", stats.Nodes, "cutoffs", stats.Cutoffs, "result", match.Result)

	return match, nil
}

// Reset - starts a new logical match under the same ID.
func (that *MatchManager) Reset(ctx context.Context, id string, starter entity.Side) (*entity.Match, error) {
	if !starter.Valid() {
		return nil, fmt.Errorf("%w: %s", apperror.ErrInvalidStarter, starter)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	engine, _, err := that.loadEngine(ctx, id)
	if err != nil {
		return nil, err
	}

	engine.Reset(starter)

	match := snapshot(id, engine, nil)
	if err = that.updateMatch(ctx, match); err != nil {
		return nil, err
	}

	that.logger.Info("match reset", "matchID", id, "starter", starter)

	return match, nil
}

func (that *MatchManager) EndMatch(ctx context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.matchRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	that.logger.Info("match deleted", "matchID", id)

	return nil
}

func (that *MatchManager) loadEngine(ctx context.Context, id string) (*tictactoe.Engine, *entity.Match, error) {
	match, err := that.getMatchByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	engine, err := tictactoe.Restore(match.Board, match.Turn, match.Starter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed restore match %s: %w", id, err)
	}

	return engine, match, nil
}

func (that *MatchManager) getMatchByID(ctx context.Context, id string) (*entity.Match, error) {
	match, err := that.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return match, nil
}

func (that *MatchManager) updateMatch(ctx context.Context, match *entity.Match) error {
	if err := that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}

	return nil
}

func snapshot(id string, engine *tictactoe.Engine, lastMove *entity.Position) *entity.Match {
	return &entity.Match{
		ID:       id,
		Board:    engine.Board(),
		Turn:     engine.Turn(),
		Starter:  engine.Starter(),
		Result:   engine.Result(),
		LastMove: lastMove,
	}
}

// rejectReason - explains why the engine refused a player move.
func rejectReason(engine *tictactoe.Engine, row, col int) error {
	board := engine.Board()

	switch {
	case engine.Result().IsTerminal():
		return apperror.ErrGameFinished
	case !board.InBounds(row, col):
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrInvalidCell, row, col)
	case engine.Turn() != entity.Player:
		return apperror.ErrNotYourTurn
	default:
		return apperror.ErrCellOccupied
	}
}
