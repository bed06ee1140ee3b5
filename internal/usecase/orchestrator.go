package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/connectfour/internal/apperror"
	"github.com/rocketscienceinc/connectfour/internal/connectfour"
	"github.com/rocketscienceinc/connectfour/internal/entity"
)

type opponent interface {
	ChooseColumn(ctx context.Context, board entity.Snapshot) (int, error)
	NewGame()
}

// renderer - must call OnAnimationComplete with req.Handle exactly once per request.
type renderer interface {
	RequestDropAnimation(req entity.AnimationRequest)
}

// defaultRecordTimeout - the recorder runs on the caller's goroutine, usually the UI loop.
const defaultRecordTimeout = 500 * time.Millisecond

type outcomeRecorder interface {
	Record(ctx context.Context, outcome entity.Outcome) error
}

// TurnOrchestrator - sequences human input, opponent decisions and drop animations.
// At most one placement is in flight (placed but not yet acknowledged by the renderer)
// and every trigger that arrives out of turn is ignored.
type TurnOrchestrator struct {
	logger   *slog.Logger
	board    *entity.Board
	opponent opponent
	renderer renderer
	recorder outcomeRecorder

	recordTimeout time.Duration

	mu         sync.Mutex
	state      entity.TurnState
	outcome    entity.Outcome
	inFlight   *entity.AnimationRequest
	lastHandle uint64
	failure    error
}

// effects - work that must run after the lock is released.
type effects struct {
	animation *entity.AnimationRequest
	finished  *entity.Outcome
}

// NewTurnOrchestrator - takes ownership of board; recorder may be nil.
func NewTurnOrchestrator(logger *slog.Logger, board *entity.Board, opponent opponent, renderer renderer, recorder outcomeRecorder) *TurnOrchestrator {
	return &TurnOrchestrator{
		logger:   logger.With("component", "orchestrator"),
		board:    board,
		opponent: opponent,
		renderer: renderer,
		recorder: recorder,

		recordTimeout: defaultRecordTimeout,

		state:   entity.AwaitingPlayer1Input,
		outcome: entity.InProgress,
	}
}

// StartNewGame - clears the board and re-arms the game. When the opponent moves first
// its decision is made and animated right away. Any animation still in flight is
// abandoned and its completion ignored.
func (that *TurnOrchestrator) StartNewGame(ctx context.Context, humanGoesFirst bool) error {
	fx, err := that.startNewGame(ctx, humanGoesFirst)
	that.apply(ctx, fx)

	return err
}

// NotifyHumanColumnChosen - the only entry point for human input. Returns false when the
// choice is ignored: not the human's turn, column full or out of range.
func (that *TurnOrchestrator) NotifyHumanColumnChosen(ctx context.Context, column int) (bool, error) {
	fx, accepted, err := that.humanMove(column)
	that.apply(ctx, fx)

	return accepted, err
}

// OnAnimationComplete - acknowledges the in-flight placement and advances the game.
// Unknown or repeated handles are ignored.
func (that *TurnOrchestrator) OnAnimationComplete(ctx context.Context, handle uint64) error {
	fx, err := that.completeAnimation(ctx, handle)
	that.apply(ctx, fx)

	return err
}

func (that *TurnOrchestrator) State() entity.TurnState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.state
}

func (that *TurnOrchestrator) Outcome() entity.Outcome {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.outcome
}

// AcceptsInput - true while a human column choice would be considered.
func (that *TurnOrchestrator) AcceptsInput() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.failure == nil && that.state == entity.AwaitingPlayer1Input
}

// InFlight - the placement waiting for its animation to finish, if any.
func (that *TurnOrchestrator) InFlight() (entity.AnimationRequest, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.inFlight == nil {
		return entity.AnimationRequest{}, false
	}

	return *that.inFlight, true
}

func (that *TurnOrchestrator) Snapshot() entity.Snapshot {
	return that.board.Snapshot()
}

func (that *TurnOrchestrator) LegalColumns() []int {
	return that.board.LegalColumns()
}

func (that *TurnOrchestrator) startNewGame(ctx context.Context, humanGoesFirst bool) (effects, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "StartNewGame")

	if that.inFlight != nil {
		log.Debug("abandoning animation", "handle", that.inFlight.Handle)
	}

	that.board.Clear()
	that.opponent.NewGame()

	that.outcome = entity.InProgress
	that.inFlight = nil
	that.failure = nil

	log.Info("new game", "human_first", humanGoesFirst)

	if humanGoesFirst {
		that.state = entity.AwaitingPlayer1Input

		return effects{}, nil
	}

	that.state = entity.AwaitingPlayer2Decision

	req, err := that.opponentMoveLocked(ctx)
	if err != nil {
		return effects{}, that.failLocked(err)
	}

	return effects{animation: &req}, nil
}

func (that *TurnOrchestrator) humanMove(column int) (effects, bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "NotifyHumanColumnChosen", "column", column)

	if that.failure != nil {
		return effects{}, false, that.brokenLocked()
	}

	if that.state != entity.AwaitingPlayer1Input {
		log.Debug("input ignored", "state", that.state)

		return effects{}, false, nil
	}

	if ok, err := that.board.CanPlace(column); err != nil || !ok {
		log.Debug("input ignored, column not legal")

		return effects{}, false, nil
	}

	req, err := that.placeLocked(column, entity.Player1, entity.AnimatingPlayer1)
	if err != nil {
		return effects{}, false, that.failLocked(err)
	}

	return effects{animation: &req}, true, nil
}

func (that *TurnOrchestrator) completeAnimation(ctx context.Context, handle uint64) (effects, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "OnAnimationComplete", "handle", handle)

	if that.failure != nil {
		return effects{}, that.brokenLocked()
	}

	if !that.state.IsAnimating() || that.inFlight == nil || that.inFlight.Handle != handle {
		log.Debug("completion ignored", "state", that.state)

		return effects{}, nil
	}

	move := that.inFlight.Move()
	that.inFlight = nil

	outcome, err := connectfour.ResolveOutcome(that.board.Snapshot(), move)
	if err != nil {
		return effects{}, that.failLocked(fmt.Errorf("failed to resolve outcome: %w", err))
	}

	if outcome.IsFinished() {
		that.state = entity.Finished
		that.outcome = outcome

		return effects{finished: &outcome}, nil
	}

	if that.state == entity.AnimatingPlayer2 {
		that.state = entity.AwaitingPlayer1Input

		return effects{}, nil
	}

	that.state = entity.AwaitingPlayer2Decision

	req, err := that.opponentMoveLocked(ctx)
	if err != nil {
		return effects{}, that.failLocked(err)
	}

	return effects{animation: &req}, nil
}

// opponentMoveLocked - asks the strategy for a column and places it.
func (that *TurnOrchestrator) opponentMoveLocked(ctx context.Context) (entity.AnimationRequest, error) {
	snapshot := that.board.Snapshot()
	if snapshot.IsFull() {
		return entity.AnimationRequest{}, fmt.Errorf("opponent to move on a full board: %w", apperror.ErrNoAvailableMoves)
	}

	column, err := that.opponent.ChooseColumn(ctx, snapshot)
	if err != nil {
		return entity.AnimationRequest{}, fmt.Errorf("opponent failed to choose column: %w", err)
	}

	if ok, err := snapshot.CanPlace(column); err != nil || !ok {
		return entity.AnimationRequest{}, fmt.Errorf("%w: column %d", apperror.ErrIllegalStrategyMove, column)
	}

	return that.placeLocked(column, entity.Player2, entity.AnimatingPlayer2)
}

// placeLocked - commits the placement and moves into the animating state.
func (that *TurnOrchestrator) placeLocked(column int, mark entity.Cell, next entity.TurnState) (entity.AnimationRequest, error) {
	row, err := that.board.Place(column, mark)
	if err != nil {
		return entity.AnimationRequest{}, fmt.Errorf("failed to place %s in column %d: %w", mark, column, err)
	}

	that.lastHandle++
	req := entity.AnimationRequest{
		Handle:  that.lastHandle,
		Column:  column,
		FromRow: that.board.Height(),
		ToRow:   row,
		Mark:    mark,
	}

	that.inFlight = &req
	that.state = next

	that.logger.Debug("piece placed", "mark", mark, "column", column, "row", row, "handle", req.Handle)

	return req, nil
}

// failLocked - records a broken invariant; every later trigger fails until a new game.
func (that *TurnOrchestrator) failLocked(err error) error {
	that.failure = err
	that.logger.Error("game state broken", "state", that.state, "error", err)

	return err
}

func (that *TurnOrchestrator) brokenLocked() error {
	return fmt.Errorf("%w: %w", apperror.ErrBrokenInvariant, that.failure)
}

func (that *TurnOrchestrator) apply(ctx context.Context, fx effects) {
	if fx.animation != nil {
		that.renderer.RequestDropAnimation(*fx.animation)
	}

	if fx.finished == nil {
		return
	}

	that.logger.Info("game finished", "outcome", *fx.finished)

	if that.recorder == nil {
		return
	}

	recordCtx, cancel := context.WithTimeout(ctx, that.recordTimeout)
	defer cancel()

	if err := that.recorder.Record(recordCtx, *fx.finished); err != nil {
		that.logger.Error("failed to record outcome", "outcome", *fx.finished, "error", err)
	}
}
