package board

import "fmt"

// rookHome maps each castling flag to the rook's starting square.
var rookHome = [4]struct {
	flag CastlingRights
	sq   Square
}{
	{WhiteKingSideCastle, H1},
	{WhiteQueenSideCastle, A1},
	{BlackKingSideCastle, H8},
	{BlackQueenSideCastle, A8},
}

// Apply returns the position reached by playing m. The receiver is left untouched.
//
// m must be at least pseudo-legal: its origin square has to hold a piece of the
// side to move, otherwise Apply panics. Apply does not check whether the mover's
// king is left attacked; that is the legality filter's job.
func (p *Position) Apply(m Move) *Position {
	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()

	piece := p.PieceAt(from)
	if piece == NoPiece || piece.Color() != us {
		panic(fmt.Sprintf("board: Apply %s: no %s piece on %s", m, us, from))
	}
	pt := piece.Type()
	fromBB := SquareBB(from)
	toBB := SquareBB(to)

	next := *p

	// Relocate the mover.
	next.Boards[piece] ^= fromBB | toBB

	// Captures only remove genuine enemy occupants.
	captured := false
	if p.Occupied[them]&toBB != 0 {
		for enemy := NewPiece(Pawn, them); enemy <= NewPiece(King, them); enemy++ {
			if next.Boards[enemy]&toBB != 0 {
				next.Boards[enemy] &^= toBB
				captured = true
				break
			}
		}
	}

	if m.IsPromotion() {
		next.Boards[piece] &^= toBB
		next.Boards[NewPiece(m.Promotion(), us)] |= toBB
	}

	// En passant: the captured pawn sits one rank behind the target square.
	if pt == Pawn && to == p.EnPassant {
		var victim Square
		if us == White {
			victim = to - 8
		} else {
			victim = to + 8
		}
		next.Boards[NewPiece(Pawn, them)] &^= SquareBB(victim)
		captured = true
	}

	next.EnPassant = NoSquare
	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		next.EnPassant = Square((int(from) + int(to)) / 2)
	}

	// Castling is a two-file king move; bring the rook across.
	if pt == King && abs(int(to)-int(from)) == 2 {
		var rookFrom, rookTo Square
		if to > from {
			rookFrom = NewSquare(7, from.Rank())
			rookTo = NewSquare(5, from.Rank())
		} else {
			rookFrom = NewSquare(0, from.Rank())
			rookTo = NewSquare(3, from.Rank())
		}
		next.Boards[NewPiece(Rook, us)] ^= SquareBB(rookFrom) | SquareBB(rookTo)
	}

	if pt == King {
		next.Castling &^= castleFlag(us, true) | castleFlag(us, false)
	}
	for _, home := range rookHome {
		if from == home.sq || to == home.sq {
			next.Castling &^= home.flag
		}
	}

	if pt == Pawn || captured {
		next.HalfMoveClock = 0
	} else {
		next.HalfMoveClock++
	}

	if us == Black {
		next.FullMoveNumber++
	}

	next.SideToMove = them
	next.updateOccupied()

	return &next
}
