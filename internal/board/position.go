package board

import (
	"fmt"
	"strings"
)

// CastlingRights is a set of four independent castling flags.
// Its integer value (0-15) doubles as the castling hash index.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side holds the right in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleFlag(c, kingSide) != 0
}

func castleFlag(c Color, kingSide bool) CastlingRights {
	if c == White {
		if kingSide {
			return WhiteKingSideCastle
		}
		return WhiteQueenSideCastle
	}
	if kingSide {
		return BlackKingSideCastle
	}
	return BlackQueenSideCastle
}

// Position is a complete game-state snapshot.
//
// Positions are treated as values: Apply returns a new Position and never
// touches its receiver, so a search may hold any number of them without
// coordination.
type Position struct {
	// Boards holds one bitboard per piece kind, indexed by Piece.
	Boards [NumPieces]Bitboard

	// Occupancy derived from Boards; kept in sync by updateOccupied.
	Occupied [2]Bitboard // All pieces of each color
	All      Bitboard    // All pieces on the board

	SideToMove     Color
	Castling       CastlingRights
	EnPassant      Square // Target square for en passant, NoSquare if none
	HalfMoveClock  int    // Plies since last pawn move or capture
	FullMoveNumber int    // Starts at 1, incremented after Black moves
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// EmptyPosition returns a board with no pieces, White to move.
func EmptyPosition() *Position {
	return &Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
}

// Copy creates an independent copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// Pieces returns the bitboard of the given type and color.
func (p *Position) Pieces(c Color, pt PieceType) Bitboard {
	return p.Boards[NewPiece(pt, c)]
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)
	if p.All&bb == 0 {
		return NoPiece
	}

	for pc := 0; pc < NumPieces; pc++ {
		if p.Boards[pc]&bb != 0 {
			return Piece(pc)
		}
	}

	return NoPiece
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.All&SquareBB(sq) == 0
}

// KingSquare returns the square of c's king, or NoSquare if it has none.
func (p *Position) KingSquare(c Color) Square {
	return p.Boards[NewPiece(King, c)].LSB()
}

// Put places a piece on an empty square and refreshes occupancy.
// It is meant for building positions by hand; decoding and Apply maintain
// the boards directly.
func (p *Position) Put(piece Piece, sq Square) {
	if !p.IsEmpty(sq) {
		panic(fmt.Sprintf("board: square %s already holds %s", sq, p.PieceAt(sq)))
	}
	p.Boards[piece] |= SquareBB(sq)
	p.updateOccupied()
}

// updateOccupied recalculates occupancy bitboards from piece bitboards.
func (p *Position) updateOccupied() {
	p.Occupied[White] = Empty
	p.Occupied[Black] = Empty

	for pt := Pawn; pt <= King; pt++ {
		p.Occupied[White] |= p.Boards[NewPiece(pt, White)]
		p.Occupied[Black] |= p.Boards[NewPiece(pt, Black)]
	}

	p.All = p.Occupied[White] | p.Occupied[Black]
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.Castling)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.FullMoveNumber)
	fmt.Fprintf(&sb, "Hash: %016x\n", p.Hash())
	return sb.String()
}

// Validate checks the structural invariants decoders must guarantee before a
// position reaches move generation.
func (p *Position) Validate() error {
	if p.Boards[WhiteKing].PopCount() != 1 {
		return fmt.Errorf("%w: white must have exactly one king", ErrInvalidFEN)
	}
	if p.Boards[BlackKing].PopCount() != 1 {
		return fmt.Errorf("%w: black must have exactly one king", ErrInvalidFEN)
	}

	if (p.Boards[WhitePawn]|p.Boards[BlackPawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("%w: pawns cannot be on rank 1 or 8", ErrInvalidFEN)
	}

	var seen Bitboard
	for pc := 0; pc < NumPieces; pc++ {
		if seen&p.Boards[pc] != 0 {
			return fmt.Errorf("%w: square occupied twice", ErrInvalidFEN)
		}
		seen |= p.Boards[pc]
	}

	if p.EnPassant != NoSquare {
		them := p.SideToMove.Other()
		pushed := p.EnPassant - 8
		if them == White {
			pushed = p.EnPassant + 8
		}
		if p.All.IsSet(p.EnPassant) || !p.Pieces(them, Pawn).IsSet(pushed) {
			return fmt.Errorf("%w: no double-pushed pawn behind en passant square %s", ErrInvalidFEN, p.EnPassant)
		}
	}

	if p.IsSquareAttacked(p.KingSquare(p.SideToMove.Other()), p.SideToMove) {
		return fmt.Errorf("%w: side not to move is in check", ErrInvalidFEN)
	}

	return nil
}
