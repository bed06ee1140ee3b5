package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rocketscienceinc/connectfour/internal/apperror"
	"github.com/rocketscienceinc/connectfour/internal/config"
	"github.com/rocketscienceinc/connectfour/internal/connectfour"
	"github.com/rocketscienceinc/connectfour/internal/entity"
)

// OpponentStrategy - chooses the computer's column. ChooseColumn is only called with
// at least one legal column and must return one of them.
type OpponentStrategy interface {
	ChooseColumn(ctx context.Context, board entity.Snapshot) (int, error)
	// NewGame - drop anything remembered from the previous game.
	NewGame()
}

// NewOpponent - builds the strategy named in the config, playing mark.
func NewOpponent(kind string, mark entity.Cell, rng *rand.Rand) (OpponentStrategy, error) {
	switch kind {
	case config.OpponentRandom:
		return NewRandomOpponent(rng), nil
	case config.OpponentThreat:
		return NewThreatOpponent(mark, NewRandomOpponent(rng)), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownOpponent, kind)
	}
}

type RandomOpponent struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomOpponent - picks uniformly among legal columns. A nil rng is seeded from the clock.
func NewRandomOpponent(rng *rand.Rand) *RandomOpponent {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // it's ok
	}

	return &RandomOpponent{rng: rng}
}

func (that *RandomOpponent) ChooseColumn(ctx context.Context, board entity.Snapshot) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}

	availableColumns := board.LegalColumns()
	if len(availableColumns) == 0 {
		return -1, apperror.ErrNoAvailableMoves
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	return availableColumns[that.rng.Intn(len(availableColumns))], nil
}

// NewGame - stateless, nothing to reset.
func (that *RandomOpponent) NewGame() {}

// ThreatOpponent - takes an immediate win, otherwise blocks the opponent's immediate
// win, otherwise asks the fallback.
type ThreatOpponent struct {
	mark     entity.Cell
	fallback OpponentStrategy
}

func NewThreatOpponent(mark entity.Cell, fallback OpponentStrategy) *ThreatOpponent {
	return &ThreatOpponent{
		mark:     mark,
		fallback: fallback,
	}
}

func (that *ThreatOpponent) ChooseColumn(ctx context.Context, board entity.Snapshot) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}

	availableColumns := board.LegalColumns()
	if len(availableColumns) == 0 {
		return -1, apperror.ErrNoAvailableMoves
	}

	for _, mark := range []entity.Cell{that.mark, that.mark.Opponent()} {
		column, found, err := findWinningColumn(board, availableColumns, mark)
		if err != nil {
			return -1, err
		}

		if found {
			return column, nil
		}
	}

	column, err := that.fallback.ChooseColumn(ctx, board)
	if err != nil {
		return -1, fmt.Errorf("fallback failed to choose column: %w", err)
	}

	return column, nil
}

func (that *ThreatOpponent) NewGame() {
	that.fallback.NewGame()
}

// findWinningColumn - the first column where dropping mark wins immediately.
func findWinningColumn(board entity.Snapshot, columns []int, mark entity.Cell) (int, bool, error) {
	for _, column := range columns {
		next, row, err := board.Place(column, mark)
		if err != nil {
			return -1, false, fmt.Errorf("failed to simulate column %d: %w", column, err)
		}

		won, err := connectfour.IsWinningMove(next, entity.Move{Column: column, Row: row, Mark: mark})
		if err != nil {
			return -1, false, fmt.Errorf("failed to check simulated column %d: %w", column, err)
		}

		if won {
			return column, true, nil
		}
	}

	return -1, false, nil
}
