package apperror

import "errors"

// Broken invariants. These are never expected during a well-formed game and are
// surfaced to the embedding application instead of being swallowed.
var (
	ErrOutOfRange          = errors.New("index out of range")
	ErrColumnFull          = errors.New("column is full")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrIllegalStrategyMove = errors.New("opponent chose an illegal column")
	ErrBrokenInvariant     = errors.New("game state is broken, start a new game")
)

var ErrNoAvailableMoves = errors.New("no available moves")
