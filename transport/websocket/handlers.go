package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const (
	actionNew   = "match:new"
	actionState = "match:state"
	actionMove  = "match:move"
	actionReset = "match:reset"
	actionEnd   = "match:end"
	// pushed by the server once Ai has replied
	actionAi = "match:ai"
)

var (
	errMalformedMessage = errors.New("malformed message")
	errUnknownAction    = errors.New("unknown action")
	errMissingID        = errors.New("match id is required")
	errMissingCell      = errors.New("row and col are required")
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	ID      string        `json:"id,omitempty"`
	Starter *entity.Side  `json:"starter,omitempty"`
	Row     *int          `json:"row,omitempty"`
	Col     *int          `json:"col,omitempty"`
	Match   *entity.Match `json:"match,omitempty"`
	Error   string        `json:"error,omitempty"`
}

func (that *Server) handleNewMatch(ctx context.Context, sess *session, msg *Message) error {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return sess.sendError(ctx, msg.Action, err, nil)
	}

	match, err := that.matches.NewMatch(ctx, that.starterOrDefault(payloadReq.Starter))
	if err != nil {
		return sess.sendError(ctx, msg.Action, err, nil)
	}

	if err = sess.sendMessage(ctx, msg.Action, Payload{Match: match}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	that.scheduleAiMove(ctx, sess, match)

	return nil
}

func (that *Server) handleState(ctx context.Context, sess *session, msg *Message) error {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return sess.sendError(ctx, msg.Action, err, nil)
	}

	if payloadReq.ID == "" {
		return sess.sendError(ctx, msg.Action, errMissingID, nil)
	}

	match, err := that.matches.GetMatch(ctx, payloadReq.ID)
	if err != nil {
		return sess.sendError(ctx, msg.Action, err, nil)
	}

	return sess.sendMessage(ctx, msg.Action, Payload{Match: match})
}

func (that *Server) handleMove(ctx context.Context, sess *session, msg *Message) error {
	log := that.logger.With("method", "handleMove")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return sess.sendError(ctx, msg.Action, err, nil)
	}

	if payloadReq.ID == "" {
		return sess.sendError(ctx, msg.Action, errMissingID, nil)
	}

	if payloadReq.Row == nil || payloadReq.Col == nil {
		return sess.sendError(ctx, msg.Action, errMissingCell, nil)
	}

	log = log.With("matchID", payloadReq.ID)

	match, err := that.matches.PlayerMove(ctx, payloadReq.ID, *payloadReq.Row, *payloadReq.Col)
	if err != nil {
		log.Debug("move refused", "error", err)
		return sess.sendError(ctx, msg.Action, err, match)
	}

	if err = sess.sendMessage(ctx, msg.Action, Payload{Match: match}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	that.scheduleAiMove(ctx, sess, match)

	return nil
}

func (that *Server) handleReset(ctx context.Context, sess *session, msg *Message) error {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return sess.sendError(ctx, msg.Action, err, nil)
	}

	if payloadReq.ID == "" {
		return sess.sendError(ctx, msg.Action, errMissingID, nil)
	}

	sess.cancelAiMove(payloadReq.ID)

	match, err := that.matches.Reset(ctx, payloadReq.ID, that.starterOrDefault(payloadReq.Starter))
	if err != nil {
		return sess.sendError(ctx, msg.Action, err, nil)
	}

	if err = sess.sendMessage(ctx, msg.Action, Payload{Match: match}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	that.scheduleAiMove(ctx, sess, match)

	return nil
}

func (that *Server) handleEnd(ctx context.Context, sess *session, msg *Message) error {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return sess.sendError(ctx, msg.Action, err, nil)
	}

	if payloadReq.ID == "" {
		return sess.sendError(ctx, msg.Action, errMissingID, nil)
	}

	sess.cancelAiMove(payloadReq.ID)

	if err = that.matches.EndMatch(ctx, payloadReq.ID); err != nil {
		return sess.sendError(ctx, msg.Action, err, nil)
	}

	return sess.sendMessage(ctx, msg.Action, Payload{ID: payloadReq.ID})
}

// scheduleAiMove - lets Ai reply after aiDelay when the match waits for it.
// A later reset or end of the same match cancels the pending reply.
func (that *Server) scheduleAiMove(ctx context.Context, sess *session, match *entity.Match) {
	if match.IsFinished() || match.Turn != entity.Ai {
		return
	}

	log := that.logger.With("method", "scheduleAiMove", "matchID", match.ID)

	ctx, done := sess.startAiMove(ctx, match.ID)

	go func() {
		defer done()

		timer := time.NewTimer(that.aiDelay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		played, err := that.matches.AiMove(ctx, match.ID)
		if err != nil {
			log.Error("failed ai turn", "error", err)

			if err = sess.sendError(ctx, actionAi, err, played); err != nil {
				log.Error("failed to send error", "error", err)
			}

			return
		}

		if err = sess.sendMessage(ctx, actionAi, Payload{Match: played}); err != nil {
			log.Error("failed to send ai move", "error", err)
		}
	}()
}

func (that *Server) starterOrDefault(starter *entity.Side) entity.Side {
	if starter == nil {
		return that.defaultStarter
	}

	return *starter
}

func decodePayload(msg *Message) (Payload, error) {
	var payload Payload
	if len(msg.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("%w: %w", errMalformedMessage, err)
	}

	return payload, nil
}
