package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type matchUseCase interface {
	NewMatch(ctx context.Context, starter entity.Side) (*entity.Match, error)
	GetMatch(ctx context.Context, id string) (*entity.Match, error)
	PlayerMove(ctx context.Context, id string, row, col int) (*entity.Match, error)
	AiMove(ctx context.Context, id string) (*entity.Match, error)
	Reset(ctx context.Context, id string, starter entity.Side) (*entity.Match, error)
	EndMatch(ctx context.Context, id string) error
}

// Server is the HTTP JSON surface for UI clients.
type Server struct {
	logger  *slog.Logger
	matches matchUseCase

	defaultStarter entity.Side
}

func New(logger *slog.Logger, matches matchUseCase, defaultStarter entity.Side) *Server {
	return &Server{
		logger:         logger.With("component", "rest"),
		matches:        matches,
		defaultStarter: defaultStarter,
	}
}

func (that *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/ping", that.pingHandler)

	r.Route("/matches", func(r chi.Router) {
		r.Post("/", that.handleNewMatch)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", that.handleGetMatch)
			r.Delete("/", that.handleEndMatch)
			r.Post("/moves", that.handlePlayerMove)
			r.Post("/ai", that.handleAiMove)
			r.Post("/reset", that.handleReset)
		})
	})

	return r
}

// Start - serves HTTP until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
