package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-web/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-web/internal/usecase"
)

func (that *Server) handleConnect(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	payload, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	sessionID := conn.sessionID
	if payload.SessionID != "" && payload.SessionID != conn.sessionID {
		log.Warn("connect payload overrides the cookie session",
			"cookie_session", conn.sessionID,
			"session", payload.SessionID,
		)

		sessionID = payload.SessionID
	}

	view, err := that.game.Connect(ctx, sessionID)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	conn.sessionID = view.SessionID

	if err = conn.send(msg.Action, ResponsePayload{Game: view}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected player", "session", view.SessionID)

	return nil
}

func (that *Server) handleMove(ctx context.Context, conn *connection, msg *Message) error {
	payload, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	if payload.Cell == nil {
		return that.sendErrorResponse(conn, msg.Action, fmt.Errorf("%w: cell is required", apperror.ErrInvalidCell))
	}

	return that.respond(conn, msg.Action, func() (*usecase.View, error) {
		return that.game.MakeMove(ctx, conn.sessionID, *payload.Cell)
	})
}

func (that *Server) handleJump(ctx context.Context, conn *connection, msg *Message) error {
	payload, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	if payload.Step == nil {
		return that.sendErrorResponse(conn, msg.Action, fmt.Errorf("%w: step is required", apperror.ErrInvalidStep))
	}

	return that.respond(conn, msg.Action, func() (*usecase.View, error) {
		return that.game.JumpTo(ctx, conn.sessionID, *payload.Step)
	})
}

func (that *Server) handleReset(ctx context.Context, conn *connection, msg *Message) error {
	return that.respond(conn, msg.Action, func() (*usecase.View, error) {
		return that.game.Reset(ctx, conn.sessionID)
	})
}

func (that *Server) respond(conn *connection, action string, operation func() (*usecase.View, error)) error {
	view, err := operation()
	if err != nil {
		return that.sendErrorResponse(conn, action, err)
	}

	if err = conn.send(action, ResponsePayload{Game: view}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

// sendErrorResponse - reports cause to the client. Caller mistakes are described and
// swallowed; anything else is answered generically and returned for logging.
func (that *Server) sendErrorResponse(conn *connection, action string, cause error) error {
	if isClientError(cause) {
		that.logger.Debug("rejected request", "action", action, "error", cause)
		return conn.send(action, ResponsePayload{Error: cause.Error()})
	}

	if err := conn.send(action, ResponsePayload{Error: "internal server error"}); err != nil {
		return err
	}

	return fmt.Errorf("%s: %w", action, cause)
}

func isClientError(err error) bool {
	return errors.Is(err, apperror.ErrInvalidCell) ||
		errors.Is(err, apperror.ErrInvalidStep) ||
		errors.Is(err, apperror.ErrSessionRequired) ||
		errors.Is(err, errInvalidPayload)
}

var errInvalidPayload = errors.New("invalid payload")

func decodePayload(msg *Message) (*Payload, error) {
	var payload Payload
	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidPayload, err)
	}

	return &payload, nil
}
