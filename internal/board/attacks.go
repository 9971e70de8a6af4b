package board

// Pre-computed attack tables for non-sliding pieces
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
)

// Ray directions as square-index deltas.
const (
	north     = 8
	south     = -8
	east      = 1
	west      = -1
	northEast = 9
	northWest = 7
	southEast = -7
	southWest = -9
)

var (
	rookDirections   = [4]int{north, south, east, west}
	bishopDirections = [4]int{northEast, northWest, southEast, southWest}
)

func init() {
	initKnightAttacks()
	initKingAttacks()
}

func initKnightAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		attacks := Empty

		// Up 2, left/right 1
		attacks |= (bb & NotFileH) << 17 // NNE
		attacks |= (bb & NotFileA) << 15 // NNW

		// Down 2, left/right 1
		attacks |= (bb & NotFileH) >> 15 // SSE
		attacks |= (bb & NotFileA) >> 17 // SSW

		// Up/down 1, left/right 2
		attacks |= (bb & NotFileGH) << 10 // ENE
		attacks |= (bb & NotFileAB) << 6  // WNW
		attacks |= (bb & NotFileGH) >> 6  // ESE
		attacks |= (bb & NotFileAB) >> 10 // WSW

		knightAttacks[sq] = attacks
	}
}

func initKingAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		attacks := bb.North() | bb.South()
		attacks |= bb.East() | bb.West()
		attacks |= bb.NorthEast() | bb.NorthWest()
		attacks |= bb.SouthEast() | bb.SouthWest()

		kingAttacks[sq] = attacks
	}
}

// KnightAttacks returns the knight attack bitboard for a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[MustSquare(sq)]
}

// KingAttacks returns the king attack bitboard for a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[MustSquare(sq)]
}

// rayAttacks walks from sq in one direction. The walk stops at the board edge,
// on a file wrap, or after the first occupied square, which is included.
func rayAttacks(sq Square, dir int, occupied Bitboard) Bitboard {
	var attacks Bitboard
	cur := int(sq)
	for {
		next := cur + dir
		if next < 0 || next > 63 {
			break
		}
		if abs(next&7-cur&7) > 1 {
			break
		}
		bb := Bitboard(1) << next
		attacks |= bb
		if occupied&bb != 0 {
			break
		}
		cur = next
	}
	return attacks
}

// RookAttacks returns the rook attack bitboard for a square with given occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	MustSquare(sq)
	var attacks Bitboard
	for _, dir := range rookDirections {
		attacks |= rayAttacks(sq, dir, occupied)
	}
	return attacks
}

// BishopAttacks returns the bishop attack bitboard for a square with given occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	MustSquare(sq)
	var attacks Bitboard
	for _, dir := range bishopDirections {
		attacks |= rayAttacks(sq, dir, occupied)
	}
	return attacks
}

// QueenAttacks returns the queen attack bitboard for a square with given occupancy.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// pawnAttackers returns the squares from which a pawn of color c would attack sq.
func pawnAttackers(sq Square, c Color) Bitboard {
	bb := SquareBB(sq)
	if c == White {
		// White pawns capture toward rank 8, so they sit one rank below the target.
		return bb.SouthWest() | bb.SouthEast()
	}
	return bb.NorthWest() | bb.NorthEast()
}

// AttackersByColor returns a bitboard of pieces of the given color attacking a square.
// Sliding attacks are cast from the target; attack geometry is symmetric, so this
// finds exactly the sliders that reach sq.
func (p *Position) AttackersByColor(sq Square, c Color) Bitboard {
	occupied := p.All
	queens := p.Boards[NewPiece(Queen, c)]
	return (pawnAttackers(sq, c) & p.Boards[NewPiece(Pawn, c)]) |
		(KnightAttacks(sq) & p.Boards[NewPiece(Knight, c)]) |
		(KingAttacks(sq) & p.Boards[NewPiece(King, c)]) |
		(BishopAttacks(sq, occupied) & (p.Boards[NewPiece(Bishop, c)] | queens)) |
		(RookAttacks(sq, occupied) & (p.Boards[NewPiece(Rook, c)] | queens))
}

// IsSquareAttacked returns true if any piece of byColor attacks sq.
// It is the single query behind check detection, castling validation and
// legality filtering.
func (p *Position) IsSquareAttacked(sq Square, byColor Color) bool {
	if KnightAttacks(sq)&p.Boards[NewPiece(Knight, byColor)] != 0 {
		return true
	}
	if KingAttacks(sq)&p.Boards[NewPiece(King, byColor)] != 0 {
		return true
	}
	if pawnAttackers(sq, byColor)&p.Boards[NewPiece(Pawn, byColor)] != 0 {
		return true
	}
	queens := p.Boards[NewPiece(Queen, byColor)]
	if RookAttacks(sq, p.All)&(p.Boards[NewPiece(Rook, byColor)]|queens) != 0 {
		return true
	}
	return BishopAttacks(sq, p.All)&(p.Boards[NewPiece(Bishop, byColor)]|queens) != 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
