package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-web/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-web/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-web/internal/usecase"
)

const (
	writeTimeout = 10 * time.Second
	readDeadline = 60 * time.Second
	pingInterval = 25 * time.Second
	maxMessage   = 1 << 12
)

type gameUseCase interface {
	Connect(ctx context.Context, sessionID string) (*usecase.View, error)
	MakeMove(ctx context.Context, sessionID string, cell int) (*usecase.View, error)
	JumpTo(ctx context.Context, sessionID string, step int) (*usecase.View, error)
	Reset(ctx context.Context, sessionID string) (*usecase.View, error)
}

type handlerFunc func(ctx context.Context, conn *connection, message *Message) error

type Server struct {
	logger   *slog.Logger
	game     gameUseCase
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, game gameUseCase) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		game:   game,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionMove] = server.handleMove
	server.handlers[actionJump] = server.handleJump
	server.handlers[actionReset] = server.handleReset

	return server
}

// Handler - returns the HTTP handler serving the /ws endpoint.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.upgradeToWebSocket)

	return mux
}

// upgradeToWebSocket - upgrades the connection to WebSocket and serves it until the client leaves.
func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	sessionID, header := sessionFromCookie(req)

	wsConn, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := &connection{conn: wsConn, sessionID: sessionID}
	defer conn.close()

	log.Info("WebSocket connection established", "session", sessionID)

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()

	go conn.keepAlive(ctx)

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages")

	conn.conn.SetReadLimit(maxMessage)
	_ = conn.conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.conn.SetPongHandler(func(string) error {
		return conn.conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	for {
		_, data, err := conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return fmt.Errorf("failed to read message: %w", err)
			}

			log.Info("connection closed", "session", conn.sessionID)
			return nil
		}

		_ = conn.conn.SetReadDeadline(time.Now().Add(readDeadline))

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Debug("failed to unmarshal message", "error", err)

			if err = conn.send(actionError, ResponsePayload{Error: "invalid message"}); err != nil {
				return err
			}
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Debug("unknown action", "action", message.Action)

			err = conn.send(message.Action, ResponsePayload{Error: apperror.ErrUnknownAction.Error()})
			if err != nil {
				return err
			}
			continue
		}

		if err = handler(ctx, conn, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)

			if errors.Is(err, errWrite) {
				return err
			}
		}
	}
}

// sessionFromCookie - reads the user session, issuing a new one in the upgrade response when absent.
func sessionFromCookie(req *http.Request) (string, http.Header) {
	if sessionID := pkg.SessionFromRequest(req); pkg.IsValidSessionID(sessionID) {
		return sessionID, nil
	}

	cookie := pkg.NewSessionCookie(pkg.GenerateNewSessionID())

	header := http.Header{}
	header.Add("Set-Cookie", cookie.String())

	return cookie.Value, header
}

var errWrite = errors.New("failed to write message")

// connection serializes writes to one websocket; gorilla allows a single concurrent writer.
type connection struct {
	conn      *websocket.Conn
	sessionID string

	writeMu sync.Mutex
}

func (that *connection) send(action string, payload ResponsePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	_ = that.conn.SetWriteDeadline(time.Now().Add(writeTimeout))

	if err = that.conn.WriteJSON(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("%w: %w", errWrite, err)
	}

	return nil
}

func (that *connection) keepAlive(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			that.writeMu.Lock()
			err := that.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
			that.writeMu.Unlock()

			if err != nil {
				return
			}
		}
	}
}

func (that *connection) close() {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	_ = that.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	_ = that.conn.Close()
}
