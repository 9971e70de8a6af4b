package board

import "fmt"

// Move encodes a chess move in 16 bits:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-14: promotion piece type + 1 (0 = no promotion)
//
// Castling is a king move of two files and en passant is a pawn move onto the
// recorded target; neither needs a flag, Apply recognises both from the position.
type Move uint16

// NoMove represents the absence of a move. It never equals a real move because
// a real move always has from != to.
const NoMove Move = 0

// NewMove creates a non-promoting move.
func NewMove(from, to Square) Move {
	return Move(MustSquare(from)) | Move(MustSquare(to))<<6
}

// NewPromotion creates a move that promotes to the given piece type.
func NewPromotion(from, to Square, promo PieceType) Move {
	if promo < Knight || promo > Queen {
		panic(fmt.Sprintf("board: invalid promotion piece %s", promo))
	}
	return NewMove(from, to) | Move(promo+1)<<12
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Promotion returns the promotion piece type, or NoPieceType.
func (m Move) Promotion() PieceType {
	code := (m >> 12) & 7
	if code == 0 {
		return NoPieceType
	}
	return PieceType(code - 1)
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return (m>>12)&7 != 0
}

// IsCapture returns true if the move takes a piece in pos, including en passant.
func (m Move) IsCapture(pos *Position) bool {
	if pos.Occupied[pos.SideToMove.Other()].IsSet(m.To()) {
		return true
	}
	return m.To() == pos.EnPassant && pos.Pieces(pos.SideToMove, Pawn).IsSet(m.From())
}

// String returns the coordinate form of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}
	return s
}

// ParseMove decodes coordinate notation into a move. The position is only
// consulted to make sure there is a piece of the side to move on the origin
// square; legality is left to the caller.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}

	if from == to {
		return NoMove, fmt.Errorf("%w: %q does not move", ErrInvalidMove, s)
	}

	if pos != nil && !pos.Occupied[pos.SideToMove].IsSet(from) {
		return NoMove, fmt.Errorf("%w: no %s piece on %s", ErrIllegalMove, pos.SideToMove, from)
	}

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("%w: invalid promotion piece %q", ErrInvalidMove, s[4])
		}
		return NewPromotion(from, to, promo), nil
	}

	return NewMove(from, to), nil
}

// MoveList is a growable list of moves.
type MoveList struct {
	moves []Move
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{moves: make([]Move, 0, 48)}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves = append(ml.moves, m)
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return len(ml.moves)
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for _, mv := range ml.moves {
		if mv == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice. The slice aliases the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves
}

// Strings returns the coordinate notation of every move, in list order.
func (ml *MoveList) Strings() []string {
	out := make([]string, len(ml.moves))
	for i, m := range ml.moves {
		out[i] = m.String()
	}
	return out
}
