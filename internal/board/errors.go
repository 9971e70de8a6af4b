package board

import "errors"

// Sentinel errors returned by the notation decoders.
// Use these with errors.Is() to check for specific failure kinds.
var (
	// ErrInvalidFEN indicates a malformed or structurally impossible FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrInvalidMove indicates move text that is not coordinate notation.
	ErrInvalidMove = errors.New("invalid move notation")

	// ErrIllegalMove indicates a well-formed move that is not legal in the position.
	ErrIllegalMove = errors.New("illegal move")
)
