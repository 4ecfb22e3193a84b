package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-web/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
	"github.com/rocketscienceinc/tictactoe-web/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-web/internal/repository"
	"github.com/rocketscienceinc/tictactoe-web/internal/sound"
	"github.com/rocketscienceinc/tictactoe-web/internal/tictactoe"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager runs the game engine on behalf of browser sessions. Operations on one
// session are serialized; different sessions do not block each other.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	cue      sound.Cue

	locksMu sync.Mutex
	locks   map[string]*sessionLock
}

// sessionLock lives in GameManager.locks while refs holders or waiters use it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, cue sound.Cue) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo: gameRepo,
		cue:      cue,
		locks:    make(map[string]*sessionLock),
	}
}

// Connect returns the session's current view, starting a new game when the session has none.
// A malformed or empty id is replaced with a fresh one.
func (that *GameManager) Connect(ctx context.Context, sessionID string) (*View, error) {
	if !pkg.IsValidSessionID(sessionID) {
		sessionID = pkg.GenerateNewSessionID()
	}

	unlock := that.lock(sessionID)
	defer unlock()

	session, err := that.getOrCreateSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return newView(session, nil), nil
}

// MakeMove plays cell for the active player. Clicks on an occupied cell or a decided
// board are ignored and return the unchanged view.
func (that *GameManager) MakeMove(ctx context.Context, sessionID string, cell int) (*View, error) {
	log := that.logger.With("method", "MakeMove", "session", sessionID, "cell", cell)

	return that.update(ctx, sessionID, func(game *entity.Game) (bool, error) {
		applied, err := tictactoe.ApplyMove(game, cell)
		if err != nil {
			return false, fmt.Errorf("failed to apply move: %w", err)
		}

		if !applied {
			log.Debug("move ignored", "status", tictactoe.StatusText(game))
		}

		return applied, nil
	})
}

// JumpTo displays the given history step.
func (that *GameManager) JumpTo(ctx context.Context, sessionID string, step int) (*View, error) {
	return that.update(ctx, sessionID, func(game *entity.Game) (bool, error) {
		if err := tictactoe.JumpToStep(game, step); err != nil {
			return false, fmt.Errorf("failed to jump to step: %w", err)
		}

		return true, nil
	})
}

// Reset starts the session's game over.
func (that *GameManager) Reset(ctx context.Context, sessionID string) (*View, error) {
	return that.update(ctx, sessionID, func(game *entity.Game) (bool, error) {
		tictactoe.Reset(game)
		return true, nil
	})
}

// EndSession discards the session's game.
func (that *GameManager) EndSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperror.ErrSessionRequired
	}

	unlock := that.lock(sessionID)
	defer unlock()

	if err := that.gameRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("session ended", "session", sessionID)

	return nil
}

func (that *GameManager) update(
	ctx context.Context,
	sessionID string,
	operation func(game *entity.Game) (bool, error),
) (*View, error) {
	if sessionID == "" {
		return nil, apperror.ErrSessionRequired
	}

	unlock := that.lock(sessionID)
	defer unlock()

	session, err := that.getOrCreateSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	changed, err := operation(session.Game)
	if err != nil {
		return nil, err
	}

	if !changed {
		return newView(session, nil), nil
	}

	view := newView(session, nil)
	play := session.Sound.Observe(view.HasWinner())

	if err = that.gameRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.logger.Debug("game updated",
		"session", sessionID,
		"step", session.Game.Step,
		"history", len(session.Game.History),
		"winner", view.HasWinner(),
	)

	if play {
		that.logger.Info("winner announced", "session", sessionID, "status", view.Status)

		cue := that.cue
		view.Sound = &cue
	}

	return view, nil
}

func (that *GameManager) getOrCreateSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := that.gameRepo.GetByID(ctx, sessionID)
	if err == nil {
		return session, nil
	}

	switch {
	case errors.Is(err, repository.ErrGameNotFound):
	case errors.Is(err, repository.ErrCorruptGame):
		that.logger.Warn("discarding unreadable game", "session", sessionID, "error", err)
	default:
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	session = entity.NewSession(sessionID)
	if err = that.gameRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "session", sessionID)

	return session, nil
}

// lock acquires the session's mutex and returns its release. The entry is dropped
// once the last holder releases it, so idle sessions leave nothing behind.
func (that *GameManager) lock(sessionID string) func() {
	that.locksMu.Lock()
	entry, ok := that.locks[sessionID]
	if !ok {
		entry = &sessionLock{}
		that.locks[sessionID] = entry
	}
	entry.refs++
	that.locksMu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		that.locksMu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(that.locks, sessionID)
		}
		that.locksMu.Unlock()
	}
}
