package board

// Zobrist keys for position hashing.
// Drawn once at package init from a fixed seed and never written again, so
// hashes are reproducible across runs and safe to read from anywhere.
var (
	zobristPiece      [NumPieces][64]uint64
	zobristSideToMove uint64     // XOR when black to move
	zobristCastling   [16]uint64 // indexed by CastlingRights
	zobristEnPassant  [9]uint64  // one per file, index 8 = no en passant square
)

// zobristSeed fixes the key table; changing it changes every hash.
const zobristSeed = 0x98F107A2BEEF1234

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(zobristSeed)

	for pc := 0; pc < NumPieces; pc++ {
		for sq := A1; sq <= H8; sq++ {
			zobristPiece[pc][sq] = rng.next()
		}
	}

	zobristSideToMove = rng.next()

	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}

	for i := range zobristEnPassant {
		zobristEnPassant[i] = rng.next()
	}
}

// Hash returns the position's Zobrist digest. It depends only on piece
// placement, side to move, castling rights and the en passant file; the move
// counters do not participate.
func (p *Position) Hash() uint64 {
	var hash uint64

	for pc := 0; pc < NumPieces; pc++ {
		bb := p.Boards[pc]
		for bb != 0 {
			hash ^= zobristPiece[pc][bb.PopLSB()]
		}
	}

	if p.SideToMove == Black {
		hash ^= zobristSideToMove
	}

	hash ^= zobristCastling[p.Castling&AllCastling]

	if p.EnPassant != NoSquare {
		hash ^= zobristEnPassant[p.EnPassant.File()]
	} else {
		hash ^= zobristEnPassant[8]
	}

	return hash
}

// ZobristPiece returns the key for a piece on a square.
func ZobristPiece(piece Piece, sq Square) uint64 {
	return zobristPiece[piece][MustSquare(sq)]
}
