package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gorilla "github.com/gorilla/websocket"

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

type handlerFunc func(ctx context.Context, sess *session, msg *Message) error

type Server struct {
	logger  *slog.Logger
	matches matchUseCase

	defaultStarter entity.Side
	// pause before the Ai reply is pushed, so the UI can show it thinking
	aiDelay time.Duration

	upgrader gorilla.Upgrader
	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, matches matchUseCase, defaultStarter entity.Side, aiDelay time.Duration) *Server {
	server := &Server{
		logger:         logger.With("component", "websocket"),
		matches:        matches,
		defaultStarter: defaultStarter,
		aiDelay:        aiDelay,
		upgrader: gorilla.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionNew] = server.handleNewMatch
	server.handlers[actionState] = server.handleState
	server.handlers[actionMove] = server.handleMove
	server.handlers[actionReset] = server.handleReset
	server.handlers[actionEnd] = server.handleEnd

	return server
}

// Handler - routes /ws; sessions live until ctx is canceled or the client leaves.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(ctx),
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

func (that *Server) serveWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess := newSession(conn)

	go func() {
		defer cancel()

		if err := sess.writeLoop(ctx); err != nil {
			log.Error("failed to write message", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	log.Info("WebSocket connection established")

	if err = that.handleMessages(ctx, sess); err != nil {
		log.Error("error handling messages", "error", err)
	}

	log.Info("WebSocket connection closed")
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, sess *session) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || gorilla.IsCloseError(err, gorilla.CloseNormalClosure, gorilla.CloseGoingAway) {
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)

			if err = sess.sendError(ctx, "", errMalformedMessage, nil); err != nil {
				return err
			}

			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)

			if err = sess.sendError(ctx, message.Action, errUnknownAction, nil); err != nil {
				return err
			}

			continue
		}

		if err = handler(ctx, sess, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}
