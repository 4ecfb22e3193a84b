package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-web/internal/config"
	"github.com/rocketscienceinc/tictactoe-web/internal/repository"
	"github.com/rocketscienceinc/tictactoe-web/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-web/internal/sound"
	"github.com/rocketscienceinc/tictactoe-web/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-web/transport/rest"
	"github.com/rocketscienceinc/tictactoe-web/transport/websocket"
)

const shutdownTimeout = 5 * time.Second

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return Run(ctx, logger, conf)
}

// Run - wires the service and serves until ctx is canceled or a server fails.
func Run(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	gameRepo, closeStore, err := newGameRepository(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeStore()

	cue := sound.NewCue(conf.Sound.URL, conf.Sound.Volume)
	gameManager := usecase.NewGameManager(logger, gameRepo, cue)

	httpServer := rest.New(conf.HTTPPort, rest.NewRouter(logger, gameManager, conf.StaticDir))
	wsServer := rest.New(conf.SocketPort, websocket.New(logger, gameManager).Handler())
	// websocket connections are long-lived
	wsServer.ReadTimeout = 0
	wsServer.WriteTimeout = 0

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		return serve(httpServer)
	})

	group.Go(func() error {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		return serve(wsServer)
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("Application context canceled, shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return errors.Join(httpServer.Shutdown(shutdownCtx), wsServer.Shutdown(shutdownCtx))
	})

	if err = group.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server on %s: %w", srv.Addr, err)
	}

	return nil
}

func newGameRepository(
	ctx context.Context,
	log *slog.Logger,
	conf *config.Config,
) (repository.GameRepository, func(), error) {
	if conf.Storage != config.StorageRedis {
		log.Info("Using in-memory game storage", "ttl", conf.SessionTTL)
		return repository.NewMemoryGameRepository(conf.SessionTTL), func() {}, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	log.Info("Using redis game storage", "addr", redisAddrString, "ttl", conf.SessionTTL)

	closeStore := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewGameRepository(redisStorage.Connection, conf.SessionTTL), closeStore, nil
}
