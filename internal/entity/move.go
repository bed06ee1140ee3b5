package entity

// Move - the resolved position of a piece that has just been placed.
type Move struct {
	Column int
	Row    int
	Mark   Cell
}

// AnimationRequest - asks the renderer to drop a piece from FromRow down to ToRow.
// The renderer reports completion with Handle exactly once.
type AnimationRequest struct {
	Handle  uint64
	Column  int
	FromRow int
	ToRow   int
	Mark    Cell
}

func (that AnimationRequest) Move() Move {
	return Move{Column: that.Column, Row: that.ToRow, Mark: that.Mark}
}
