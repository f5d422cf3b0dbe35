package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

var errBadRequest = errors.New("bad request")

type starterRequest struct {
	Starter *entity.Side `json:"starter,omitempty"`
}

type moveRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type errorResponse struct {
	Error string        `json:"error"`
	Match *entity.Match `json:"match,omitempty"`
}

func (that *Server) handleNewMatch(w http.ResponseWriter, r *http.Request) {
	starter, err := that.readStarter(r)
	if err != nil {
		that.writeError(w, nil, err)
		return
	}

	match, err := that.matches.NewMatch(r.Context(), starter)
	if err != nil {
		that.writeError(w, nil, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, match)
}

func (that *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	match, err := that.matches.GetMatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, nil, err)
		return
	}

	that.writeJSON(w, http.StatusOK, match)
}

func (that *Server) handlePlayerMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, nil, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}

	if req.Row == nil || req.Col == nil {
		that.writeError(w, nil, fmt.Errorf("%w: row and col are required", errBadRequest))
		return
	}

	match, err := that.matches.PlayerMove(r.Context(), chi.URLParam(r, "id"), *req.Row, *req.Col)
	if err != nil {
		that.writeError(w, match, err)
		return
	}

	that.writeJSON(w, http.StatusOK, match)
}

func (that *Server) handleAiMove(w http.ResponseWriter, r *http.Request) {
	match, err := that.matches.AiMove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, match, err)
		return
	}

	that.writeJSON(w, http.StatusOK, match)
}

func (that *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	starter, err := that.readStarter(r)
	if err != nil {
		that.writeError(w, nil, err)
		return
	}

	match, err := that.matches.Reset(r.Context(), chi.URLParam(r, "id"), starter)
	if err != nil {
		that.writeError(w, nil, err)
		return
	}

	that.writeJSON(w, http.StatusOK, match)
}

func (that *Server) handleEndMatch(w http.ResponseWriter, r *http.Request) {
	if err := that.matches.EndMatch(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, nil, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// readStarter - an empty body selects the configured starter.
func (that *Server) readStarter(r *http.Request) (entity.Side, error) {
	var req starterRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	switch {
	case errors.Is(err, io.EOF):
		return that.defaultStarter, nil
	case err != nil:
		return 0, fmt.Errorf("%w: %w", errBadRequest, err)
	case req.Starter == nil:
		return that.defaultStarter, nil
	default:
		return *req.Starter, nil
	}
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func (that *Server) writeError(w http.ResponseWriter, match *entity.Match, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error(), Match: match})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrInvalidStarter):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
