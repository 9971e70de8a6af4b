package board

// castlePath describes one castling option for move generation.
type castlePath struct {
	flag    CastlingRights
	king    Square   // king start
	target  Square   // king destination
	rook    Square   // rook home
	between Bitboard // squares that must be empty between king and rook
	safe    [3]Square
}

var castlePaths = [2][2]castlePath{
	White: {
		{WhiteKingSideCastle, E1, G1, H1, SquareBB(F1) | SquareBB(G1), [3]Square{E1, F1, G1}},
		{WhiteQueenSideCastle, E1, C1, A1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), [3]Square{E1, D1, C1}},
	},
	Black: {
		{BlackKingSideCastle, E8, G8, H8, SquareBB(F8) | SquareBB(G8), [3]Square{E8, F8, G8}},
		{BlackQueenSideCastle, E8, C8, A8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), [3]Square{E8, D8, C8}},
	},
}

// GenerateLegalMoves generates all legal moves for the position.
func (p *Position) GenerateLegalMoves() *MoveList {
	ml := NewMoveList()
	p.generateAllMoves(ml)
	return p.filterLegalMoves(ml)
}

// GeneratePseudoLegalMoves generates all pseudo-legal moves (may leave king in check).
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	p.generateAllMoves(ml)
	return ml
}

// GenerateCaptures generates all legal captures, en passant and capturing
// promotions included.
func (p *Position) GenerateCaptures() *MoveList {
	ml := NewMoveList()
	p.generateCaptures(ml)
	return p.filterLegalMoves(ml)
}

// generateAllMoves generates all pseudo-legal moves.
func (p *Position) generateAllMoves(ml *MoveList) {
	us := p.SideToMove
	targets := ^p.Occupied[us]

	p.generatePawnMoves(ml, us, true)
	p.generatePieceMoves(ml, us, targets)
	p.generateCastlingMoves(ml, us)
}

// generateCaptures generates pseudo-legal captures only.
func (p *Position) generateCaptures(ml *MoveList) {
	us := p.SideToMove
	p.generatePawnMoves(ml, us, false)
	p.generatePieceMoves(ml, us, p.Occupied[us.Other()])
}

// generatePieceMoves emits knight, bishop, rook, queen and king moves onto targets.
func (p *Position) generatePieceMoves(ml *MoveList, us Color, targets Bitboard) {
	occupied := p.All

	knights := p.Pieces(us, Knight)
	for knights != 0 {
		from := knights.PopLSB()
		addMoves(ml, from, KnightAttacks(from)&targets)
	}

	bishops := p.Pieces(us, Bishop)
	for bishops != 0 {
		from := bishops.PopLSB()
		addMoves(ml, from, BishopAttacks(from, occupied)&targets)
	}

	rooks := p.Pieces(us, Rook)
	for rooks != 0 {
		from := rooks.PopLSB()
		addMoves(ml, from, RookAttacks(from, occupied)&targets)
	}

	queens := p.Pieces(us, Queen)
	for queens != 0 {
		from := queens.PopLSB()
		addMoves(ml, from, QueenAttacks(from, occupied)&targets)
	}

	kings := p.Pieces(us, King)
	for kings != 0 {
		from := kings.PopLSB()
		addMoves(ml, from, KingAttacks(from)&targets)
	}
}

func addMoves(ml *MoveList, from Square, targets Bitboard) {
	for targets != 0 {
		ml.Add(NewMove(from, targets.PopLSB()))
	}
}

// generatePawnMoves generates pawn captures, en passant and, when quiets is
// set, single and double pushes.
func (p *Position) generatePawnMoves(ml *MoveList, us Color, quiets bool) {
	pawns := p.Pieces(us, Pawn)
	enemies := p.Occupied[us.Other()]
	empty := ^p.All

	var push1, push2, attackL, attackR Bitboard
	var promotionRank Bitboard
	var pushDir int

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}

	// Captures: attackL came from one file to the right, attackR from the left.
	for attackL != 0 {
		to := attackL.PopLSB()
		addPawnMove(ml, Square(int(to)-pushDir+1), to, promotionRank)
	}
	for attackR != 0 {
		to := attackR.PopLSB()
		addPawnMove(ml, Square(int(to)-pushDir-1), to, promotionRank)
	}

	if p.EnPassant != NoSquare {
		epBB := SquareBB(p.EnPassant)
		var epAttackers Bitboard
		if us == White {
			epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
		} else {
			epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
		}
		for epAttackers != 0 {
			ml.Add(NewMove(epAttackers.PopLSB(), p.EnPassant))
		}
	}

	if !quiets {
		return
	}

	for push1 != 0 {
		to := push1.PopLSB()
		addPawnMove(ml, Square(int(to)-pushDir), to, promotionRank)
	}

	for push2 != 0 {
		to := push2.PopLSB()
		ml.Add(NewMove(Square(int(to)-2*pushDir), to))
	}
}

// addPawnMove adds a pawn move, expanding it into the four promotions when it
// lands on the last rank.
func addPawnMove(ml *MoveList, from, to Square, promotionRank Bitboard) {
	if promotionRank&SquareBB(to) == 0 {
		ml.Add(NewMove(from, to))
		return
	}
	ml.Add(NewPromotion(from, to, Queen))
	ml.Add(NewPromotion(from, to, Rook))
	ml.Add(NewPromotion(from, to, Bishop))
	ml.Add(NewPromotion(from, to, Knight))
}

// generateCastlingMoves adds castling moves whose preconditions all hold: the
// right is present, the squares between king and rook are empty, and none of
// the king's start, transit and destination squares is attacked.
func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()

	for _, path := range castlePaths[us] {
		if p.Castling&path.flag == 0 {
			continue
		}
		// Rights decoded from a FEN may outlive the pieces they refer to.
		if !p.Pieces(us, King).IsSet(path.king) || !p.Pieces(us, Rook).IsSet(path.rook) {
			continue
		}
		if p.All&path.between != 0 {
			continue
		}
		attacked := false
		for _, sq := range path.safe {
			if p.IsSquareAttacked(sq, them) {
				attacked = true
				break
			}
		}
		if !attacked {
			ml.Add(NewMove(path.king, path.target))
		}
	}
}

// filterLegalMoves keeps the moves that do not leave the mover's king attacked.
func (p *Position) filterLegalMoves(ml *MoveList) *MoveList {
	result := NewMoveList()
	for _, m := range ml.Slice() {
		if p.IsLegal(m) {
			result.Add(m)
		}
	}
	return result
}

// IsLegal reports whether a pseudo-legal move keeps the mover's king safe.
// The move is applied and the resulting king square is tested against the
// opponent, which covers pins, discovered checks and en passant exposure alike.
func (p *Position) IsLegal(m Move) bool {
	us := p.SideToMove
	next := p.Apply(m)
	ksq := next.KingSquare(us)
	if ksq == NoSquare {
		return true
	}
	return !next.IsSquareAttacked(ksq, us.Other())
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	ksq := p.KingSquare(p.SideToMove)
	if ksq == NoSquare {
		return false
	}
	return p.IsSquareAttacked(ksq, p.SideToMove.Other())
}

// HasLegalMoves returns true if the side to move has any legal moves.
func (p *Position) HasLegalMoves() bool {
	for _, m := range p.GeneratePseudoLegalMoves().Slice() {
		if p.IsLegal(m) {
			return true
		}
	}
	return false
}

// IsCheckmate returns true if the side to move is in check with no legal moves.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the side to move is not in check and has no legal moves.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}
