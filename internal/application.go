package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rocketscienceinc/connectfour/internal/config"
	"github.com/rocketscienceinc/connectfour/internal/entity"
	"github.com/rocketscienceinc/connectfour/internal/repository"
	"github.com/rocketscienceinc/connectfour/internal/repository/storage"
	"github.com/rocketscienceinc/connectfour/internal/service"
	"github.com/rocketscienceinc/connectfour/internal/usecase"
	"github.com/rocketscienceinc/connectfour/transport/terminal"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	scores, closeScores, err := initScoreboard(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeScores()

	board, err := entity.NewBoard(conf.Board.Width, conf.Board.Height)
	if err != nil {
		return fmt.Errorf("could not create board: %w", err)
	}

	opponent, err := service.NewOpponent(conf.Opponent, entity.Player2, nil)
	if err != nil {
		return fmt.Errorf("could not create opponent: %w", err)
	}

	renderer := terminal.NewRenderer()
	orchestrator := usecase.NewTurnOrchestrator(logger, board, opponent, renderer, scores)

	humanFirst := !conf.OpponentFirst
	if err = orchestrator.StartNewGame(ctx, humanFirst); err != nil {
		return fmt.Errorf("could not start game: %w", err)
	}

	physics := terminal.Physics{
		FrameDelay:      conf.Animation.FrameDelay,
		InitialVelocity: conf.Animation.InitialVelocity,
		Gravity:         conf.Animation.Gravity,
	}
	model := terminal.NewModel(ctx, logger, orchestrator, renderer, scores, physics, humanFirst)

	log.Info("Starting game", "width", board.Width(), "height", board.Height(), "opponent", conf.Opponent)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err = program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			log.Info("Application context canceled, shutting down")
			return nil
		}

		return fmt.Errorf("terminal error: %w", err)
	}

	return nil
}

// initScoreboard - returns a nil repository when the scoreboard is disabled.
func initScoreboard(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.ScoreRepository, func(), error) {
	if !conf.Scoreboard.Enabled {
		return nil, func() {}, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeStorage := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewScoreRepository(redisStorage.Connection), closeStorage, nil
}
