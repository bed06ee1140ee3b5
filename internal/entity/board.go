package entity

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/connectfour/internal/apperror"
)

const (
	DefaultWidth  = 7
	DefaultHeight = 6
)

// Grid - read access shared by Board and Snapshot. Row 0 is the bottom row.
type Grid interface {
	Width() int
	Height() int
	ValueAt(row, column int) (Cell, error)
}

// Board - the live game grid. Every accessor is guarded by one lock so a renderer
// may read while the orchestrator writes.
type Board struct {
	mu    sync.RWMutex
	cells cells
}

func NewBoard(width, height int) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: board size %dx%d", apperror.ErrOutOfRange, width, height)
	}

	return &Board{cells: newCells(width, height)}, nil
}

func (that *Board) Width() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.cells.width
}

func (that *Board) Height() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.cells.height
}

// CanPlace - true if the top cell of column is empty.
func (that *Board) CanPlace(column int) (bool, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.cells.canPlace(column)
}

// Place - drops mark into column and returns the row it landed on.
func (that *Board) Place(column int, mark Cell) (int, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.cells.place(column, mark)
}

// LegalColumns - columns accepting a piece, in ascending order.
func (that *Board) LegalColumns() []int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.cells.legalColumns()
}

func (that *Board) IsFull() bool {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.cells.legalColumns()) == 0
}

func (that *Board) ValueAt(row, column int) (Cell, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.cells.valueAt(row, column)
}

// Snapshot - a copy of the grid that shares no memory with the board.
func (that *Board) Snapshot() Snapshot {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return Snapshot{cells: that.cells.clone()}
}

func (that *Board) Clear() {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i := range that.cells.values {
		that.cells.values[i] = Empty
	}
}

// cells - column-major storage, values[column*height+row].
type cells struct {
	width  int
	height int
	values []Cell
}

func newCells(width, height int) cells {
	return cells{
		width:  width,
		height: height,
		values: make([]Cell, width*height),
	}
}

func (that cells) clone() cells {
	values := make([]Cell, len(that.values))
	copy(values, that.values)

	return cells{width: that.width, height: that.height, values: values}
}

func (that cells) checkColumn(column int) error {
	if column < 0 || column >= that.width {
		return fmt.Errorf("%w: column %d not in [0, %d)", apperror.ErrOutOfRange, column, that.width)
	}

	return nil
}

func (that cells) valueAt(row, column int) (Cell, error) {
	if err := that.checkColumn(column); err != nil {
		return Empty, err
	}

	if row < 0 || row >= that.height {
		return Empty, fmt.Errorf("%w: row %d not in [0, %d)", apperror.ErrOutOfRange, row, that.height)
	}

	return that.values[column*that.height+row], nil
}

func (that cells) canPlace(column int) (bool, error) {
	if err := that.checkColumn(column); err != nil {
		return false, err
	}

	return that.values[column*that.height+that.height-1] == Empty, nil
}

func (that cells) place(column int, mark Cell) (int, error) {
	if !mark.IsMark() {
		return -1, fmt.Errorf("%w: cannot place %s", apperror.ErrInvalidArgument, mark)
	}

	ok, err := that.canPlace(column)
	if err != nil {
		return -1, err
	}

	if !ok {
		return -1, fmt.Errorf("%w: column %d", apperror.ErrColumnFull, column)
	}

	// walk down from the top while the cell below is still empty
	row := that.height - 1
	for row > 0 && that.values[column*that.height+row-1] == Empty {
		row--
	}

	that.values[column*that.height+row] = mark

	return row, nil
}

func (that cells) legalColumns() []int {
	columns := make([]int, 0, that.width)
	for column := 0; column < that.width; column++ {
		if that.values[column*that.height+that.height-1] == Empty {
			columns = append(columns, column)
		}
	}

	return columns
}
