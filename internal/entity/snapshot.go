package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/connectfour/internal/apperror"
)

// Snapshot - an immutable copy of a board. Methods never modify the receiver.
type Snapshot struct {
	cells cells
}

// NewSnapshot - an empty grid of the given size, mostly for strategies and tests.
func NewSnapshot(width, height int) Snapshot {
	// A grid with no rows or no columns has no cells at all.
	if width <= 0 || height <= 0 {
		width, height = 0, 0
	}

	return Snapshot{cells: newCells(width, height)}
}

func (that Snapshot) Width() int {
	return that.cells.width
}

func (that Snapshot) Height() int {
	return that.cells.height
}

func (that Snapshot) ValueAt(row, column int) (Cell, error) {
	return that.cells.valueAt(row, column)
}

func (that Snapshot) CanPlace(column int) (bool, error) {
	return that.cells.canPlace(column)
}

func (that Snapshot) LegalColumns() []int {
	return that.cells.legalColumns()
}

func (that Snapshot) IsFull() bool {
	return len(that.cells.legalColumns()) == 0
}

// Place - the snapshot that results from dropping mark into column, plus the landing row.
func (that Snapshot) Place(column int, mark Cell) (Snapshot, int, error) {
	next := that.cells.clone()

	row, err := next.place(column, mark)
	if err != nil {
		return that, -1, err
	}

	return Snapshot{cells: next}, row, nil
}

// String - top row first, '.' for empty, 'X' for player1 and 'O' for player2.
func (that Snapshot) String() string {
	var sb strings.Builder

	for row := that.cells.height - 1; row >= 0; row-- {
		for column := 0; column < that.cells.width; column++ {
			switch that.cells.values[column*that.cells.height+row] {
			case Player1:
				sb.WriteByte('X')
			case Player2:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}

		if row > 0 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

// ParseSnapshot - the inverse of String. Rows are given top row first and must all
// have the same width; a piece floating over an empty cell is rejected.
func ParseSnapshot(rows ...string) (Snapshot, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Snapshot{}, fmt.Errorf("%w: empty grid", apperror.ErrInvalidArgument)
	}

	height, width := len(rows), len(rows[0])
	grid := newCells(width, height)

	for i, line := range rows {
		if len(line) != width {
			return Snapshot{}, fmt.Errorf("%w: row %d has width %d, want %d", apperror.ErrInvalidArgument, i, len(line), width)
		}

		row := height - 1 - i
		for column, ch := range line {
			var cell Cell

			switch ch {
			case '.':
				cell = Empty
			case 'X':
				cell = Player1
			case 'O':
				cell = Player2
			default:
				return Snapshot{}, fmt.Errorf("%w: unexpected %q", apperror.ErrInvalidArgument, ch)
			}

			grid.values[column*height+row] = cell
		}
	}

	for column := 0; column < width; column++ {
		for row := 1; row < height; row++ {
			if grid.values[column*height+row] != Empty && grid.values[column*height+row-1] == Empty {
				return Snapshot{}, fmt.Errorf("%w: floating piece at column %d row %d", apperror.ErrInvalidArgument, column, row)
			}
		}
	}

	return Snapshot{cells: grid}, nil
}
