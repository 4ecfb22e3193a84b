package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-web/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-web/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-web/internal/repository"
	"github.com/rocketscienceinc/tictactoe-web/internal/usecase"
)

const maxBodyBytes = 1 << 10

var (
	errMissingField = errors.New("missing field")
	errInvalidJSON  = errors.New("invalid JSON")
)

type gameUseCase interface {
	Connect(ctx context.Context, sessionID string) (*usecase.View, error)
	MakeMove(ctx context.Context, sessionID string, cell int) (*usecase.View, error)
	JumpTo(ctx context.Context, sessionID string, step int) (*usecase.View, error)
	Reset(ctx context.Context, sessionID string) (*usecase.View, error)
	EndSession(ctx context.Context, sessionID string) error
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

type jumpRequest struct {
	Step *int `json:"step"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type gameHandler struct {
	logger *slog.Logger
	game   gameUseCase
}

func newGameHandler(logger *slog.Logger, game gameUseCase) *gameHandler {
	return &gameHandler{
		logger: logger.With("component", "rest"),
		game:   game,
	}
}

// GetGame - returns the session's game, creating the session when needed.
func (that *gameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	view, err := that.game.Connect(r.Context(), pkg.SessionFromRequest(r))
	if err != nil {
		that.writeError(w, "GetGame", err)
		return
	}

	http.SetCookie(w, pkg.NewSessionCookie(view.SessionID))
	writeJSON(w, http.StatusOK, view)
}

func (that *gameHandler) MakeMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		that.writeError(w, "MakeMove", err)
		return
	}

	if req.Cell == nil {
		that.writeError(w, "MakeMove", fmt.Errorf("%w: cell", errMissingField))
		return
	}

	that.withSession(w, r, "MakeMove", func(ctx context.Context, id string) (*usecase.View, error) {
		return that.game.MakeMove(ctx, id, *req.Cell)
	})
}

func (that *gameHandler) JumpTo(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if err := decodeJSON(r, &req); err != nil {
		that.writeError(w, "JumpTo", err)
		return
	}

	if req.Step == nil {
		that.writeError(w, "JumpTo", fmt.Errorf("%w: step", errMissingField))
		return
	}

	that.withSession(w, r, "JumpTo", func(ctx context.Context, id string) (*usecase.View, error) {
		return that.game.JumpTo(ctx, id, *req.Step)
	})
}

func (that *gameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	that.withSession(w, r, "Reset", that.game.Reset)
}

func (that *gameHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	id := pkg.SessionFromRequest(r)

	if err := that.game.EndSession(r.Context(), id); err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		that.writeError(w, "EndSession", err)
		return
	}

	http.SetCookie(w, pkg.ExpiredSessionCookie())
	w.WriteHeader(http.StatusNoContent)
}

func (that *gameHandler) withSession(
	w http.ResponseWriter,
	r *http.Request,
	method string,
	operation func(ctx context.Context, sessionID string) (*usecase.View, error),
) {
	id := pkg.SessionFromRequest(r)
	if id == "" {
		that.writeError(w, method, apperror.ErrSessionRequired)
		return
	}

	view, err := operation(r.Context(), id)
	if err != nil {
		that.writeError(w, method, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (that *gameHandler) writeError(w http.ResponseWriter, method string, err error) {
	log := that.logger.With("method", method)

	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrInvalidStep),
		errors.Is(err, errMissingField),
		errors.Is(err, errInvalidJSON):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperror.ErrSessionRequired):
		status = http.StatusUnauthorized
		message = err.Error()
	}

	if status == http.StatusInternalServerError {
		log.Error("request failed", "error", err)
	} else {
		log.Debug("bad request", "error", err)
	}

	writeJSON(w, status, errorResponse{Error: message})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errInvalidJSON, err)
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}
