package connectfour

import (
	"fmt"

	"github.com/rocketscienceinc/connectfour/internal/apperror"
	"github.com/rocketscienceinc/connectfour/internal/entity"
)

// WinLength - pieces in a row needed to win.
const WinLength = 4

// Axis - a line through a cell, walked in the direction (DColumn, DRow) and its opposite.
type Axis struct {
	DColumn int
	DRow    int
}

var (
	RisingDiagonal  = Axis{DColumn: 1, DRow: 1}
	FallingDiagonal = Axis{DColumn: 1, DRow: -1}
	Horizontal      = Axis{DColumn: 1, DRow: 0}
	Vertical        = Axis{DColumn: 0, DRow: 1}

	Axes = [...]Axis{RisingDiagonal, FallingDiagonal, Horizontal, Vertical}
)

// IsWinningMove - checks whether the already placed move completes four in a row.
func IsWinningMove(grid entity.Grid, move entity.Move) (bool, error) {
	if err := validateMove(grid, move); err != nil {
		return false, err
	}

	for _, axis := range Axes {
		if runLength(grid, move, axis) >= WinLength {
			return true, nil
		}
	}

	return false, nil
}

// RunLength - the number of consecutive move.Mark cells along axis through the move.
func RunLength(grid entity.Grid, move entity.Move, axis Axis) (int, error) {
	if err := validateMove(grid, move); err != nil {
		return 0, err
	}

	return runLength(grid, move, axis), nil
}

// ResolveOutcome - the game result after move: a win beats a full board, a full board
// without a win is a draw.
func ResolveOutcome(grid entity.Grid, move entity.Move) (entity.Outcome, error) {
	won, err := IsWinningMove(grid, move)
	if err != nil {
		return entity.InProgress, fmt.Errorf("failed to check win: %w", err)
	}

	if won {
		return entity.WinFor(move.Mark), nil
	}

	if isFull(grid) {
		return entity.Draw, nil
	}

	return entity.InProgress, nil
}

// validateMove - checks that move has been placed on grid.
func validateMove(grid entity.Grid, move entity.Move) error {
	value, err := grid.ValueAt(move.Row, move.Column)
	if err != nil {
		return err
	}

	if value == entity.Empty {
		return fmt.Errorf("%w: no piece at column %d row %d", apperror.ErrInvalidArgument, move.Column, move.Row)
	}

	if value != move.Mark {
		return fmt.Errorf("%w: column %d row %d holds %s, not %s", apperror.ErrInvalidArgument, move.Column, move.Row, value, move.Mark)
	}

	return nil
}

func runLength(grid entity.Grid, move entity.Move, axis Axis) int {
	return 1 +
		countDirection(grid, move, axis.DColumn, axis.DRow) +
		countDirection(grid, move, -axis.DColumn, -axis.DRow)
}

// countDirection - matching cells after the move, stopping at the edge or first mismatch.
func countDirection(grid entity.Grid, move entity.Move, dColumn, dRow int) int {
	count := 0
	column, row := move.Column+dColumn, move.Row+dRow

	for column >= 0 && column < grid.Width() && row >= 0 && row < grid.Height() {
		value, err := grid.ValueAt(row, column)
		if err != nil || value != move.Mark {
			break
		}

		count++
		column += dColumn
		row += dRow
	}

	return count
}

func isFull(grid entity.Grid) bool {
	top := grid.Height() - 1
	for column := 0; column < grid.Width(); column++ {
		if value, err := grid.ValueAt(top, column); err == nil && value == entity.Empty {
			return false
		}
	}

	return true
}
