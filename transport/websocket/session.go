package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	gorilla "github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	sendBufferSize = 16
)

// session owns one client connection; all writes go through send.
type session struct {
	conn *gorilla.Conn
	send chan []byte

	// at most one pending Ai reply per match
	aiMu      sync.Mutex
	pendingAi map[string]*pendingAi
}

type pendingAi struct {
	cancel context.CancelFunc
}

func newSession(conn *gorilla.Conn) *session {
	return &session{
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		pendingAi: make(map[string]*pendingAi),
	}
}

// startAiMove - replaces any pending Ai reply for the match. The returned
// func must be called once the reply is done.
func (that *session) startAiMove(ctx context.Context, matchID string) (context.Context, func()) {
	that.aiMu.Lock()
	defer that.aiMu.Unlock()

	if pending, ok := that.pendingAi[matchID]; ok {
		pending.cancel()
	}

	aiCtx, cancel := context.WithCancel(ctx)
	pending := &pendingAi{cancel: cancel}
	that.pendingAi[matchID] = pending

	return aiCtx, func() {
		that.aiMu.Lock()
		if that.pendingAi[matchID] == pending {
			delete(that.pendingAi, matchID)
		}
		that.aiMu.Unlock()

		cancel()
	}
}

func (that *session) cancelAiMove(matchID string) {
	that.aiMu.Lock()
	defer that.aiMu.Unlock()

	if pending, ok := that.pendingAi[matchID]; ok {
		pending.cancel()
		delete(that.pendingAi, matchID)
	}
}

func (that *session) writeLoop(ctx context.Context) error {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-that.send:
			if err := that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("failed to set write deadline: %w", err)
			}

			if err := that.conn.WriteMessage(gorilla.TextMessage, msg); err != nil {
				return fmt.Errorf("failed to write frame: %w", err)
			}
		case <-ticker.C:
			if err := that.conn.WriteControl(gorilla.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("failed to ping: %w", err)
			}
		}
	}
}

func (that *session) sendMessage(ctx context.Context, action string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	data, err := json.Marshal(Message{Action: action, Payload: body})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	select {
	case that.send <- data:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (that *session) sendError(ctx context.Context, action string, err error, match *entity.Match) error {
	if sendErr := that.sendMessage(ctx, action, Payload{Error: err.Error(), Match: match}); sendErr != nil {
		return fmt.Errorf("failed to send error response: %w", sendErr)
	}

	return nil
}
