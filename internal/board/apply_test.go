package board

import "testing"

func mustParse(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestApplyLeavesSourceUnchanged(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}

	for _, fen := range fens {
		pos := mustParse(t, fen)
		before := *pos

		for _, m := range pos.GenerateLegalMoves().Slice() {
			next := pos.Apply(m)
			if next.SideToMove != pos.SideToMove.Other() {
				t.Errorf("%s: %s did not flip the side to move", fen, m)
			}
			if *pos != before {
				t.Fatalf("%s: %s mutated the source position", fen, m)
			}
			if next.All != next.Occupied[White]|next.Occupied[Black] {
				t.Errorf("%s: %s left occupancy out of sync", fen, m)
			}
		}
	}
}

func TestApplyPanicsOnEmptySource(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Apply from an empty square did not panic")
		}
	}()
	NewPosition().Apply(NewMove(E4, E5))
}

func TestApplyEnPassant(t *testing.T) {
	pos := mustParse(t, "4k3/8/8/8/3p4/8/4P3/4K3 w - - 0 1")

	pos = pos.Apply(NewMove(E2, E4))
	if pos.EnPassant != E3 {
		t.Fatalf("en passant target = %s, want e3", pos.EnPassant)
	}

	var ep []Move
	for _, m := range pos.GenerateLegalMoves().Slice() {
		if m.To() == E3 && pos.PieceAt(m.From()).Type() == Pawn {
			ep = append(ep, m)
		}
	}
	if len(ep) != 1 || ep[0] != NewMove(D4, E3) {
		t.Fatalf("en passant moves = %v, want [d4e3]", ep)
	}

	next := pos.Apply(ep[0])
	if next.PieceAt(E4) != NoPiece {
		t.Errorf("passed pawn still on e4: %s", next.PieceAt(E4))
	}
	if next.PieceAt(E3) != BlackPawn {
		t.Errorf("e3 holds %s, want black pawn", next.PieceAt(E3))
	}
	if next.EnPassant != NoSquare {
		t.Errorf("en passant target not cleared: %s", next.EnPassant)
	}
	if next.HalfMoveClock != 0 {
		t.Errorf("half-move clock = %d, want 0", next.HalfMoveClock)
	}
}

func TestApplyCastlingMovesRook(t *testing.T) {
	pos := mustParse(t, "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1")

	short := pos.Apply(NewMove(E1, G1))
	if short.PieceAt(G1) != WhiteKing || short.PieceAt(F1) != WhiteRook || short.PieceAt(H1) != NoPiece {
		t.Errorf("short castle board wrong:%s", short)
	}
	if short.Castling != BlackKingSideCastle|BlackQueenSideCastle {
		t.Errorf("castling after O-O = %s, want kq", short.Castling)
	}

	long := pos.Apply(NewMove(E1, C1))
	if long.PieceAt(C1) != WhiteKing || long.PieceAt(D1) != WhiteRook || long.PieceAt(A1) != NoPiece {
		t.Errorf("long castle board wrong:%s", long)
	}

	black := mustParse(t, "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R b KQkq - 3 7").Apply(NewMove(E8, C8))
	if black.PieceAt(D8) != BlackRook || black.FullMoveNumber != 8 || black.HalfMoveClock != 4 {
		t.Errorf("black long castle: rook %s, fullmove %d, halfmove %d",
			black.PieceAt(D8), black.FullMoveNumber, black.HalfMoveClock)
	}
}

func TestApplyRevokesCastlingRights(t *testing.T) {
	pos := mustParse(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	tests := []struct {
		name string
		move Move
		want CastlingRights
	}{
		{"rook leaves h1", NewMove(H1, H4), WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle},
		{"rook leaves a1", NewMove(A1, A4), WhiteKingSideCastle | BlackKingSideCastle | BlackQueenSideCastle},
		{"king moves", NewMove(E1, E2), BlackKingSideCastle | BlackQueenSideCastle},
		{"rook captured on a8", NewMove(A1, A8), WhiteKingSideCastle | BlackKingSideCastle},
		{"rook captured on h8", NewMove(H1, H8), WhiteQueenSideCastle | BlackQueenSideCastle},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := pos.Apply(tc.move).Castling; got != tc.want {
				t.Errorf("castling = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestApplyPromotion(t *testing.T) {
	pos := mustParse(t, "1n2k3/P7/8/8/8/8/8/4K3 w - - 5 40")

	next := pos.Apply(NewPromotion(A7, B8, Knight))
	if next.PieceAt(B8) != WhiteKnight {
		t.Errorf("b8 holds %s, want white knight", next.PieceAt(B8))
	}
	if next.Pieces(White, Pawn) != Empty || next.Pieces(Black, Knight) != Empty {
		t.Error("promotion left a pawn or the captured knight behind")
	}
	if next.HalfMoveClock != 0 || next.FullMoveNumber != 40 {
		t.Errorf("counters = %d/%d, want 0/40", next.HalfMoveClock, next.FullMoveNumber)
	}
}

func TestApplyClocks(t *testing.T) {
	pos := NewPosition()

	pos = pos.Apply(NewMove(G1, F3))
	if pos.HalfMoveClock != 1 || pos.FullMoveNumber != 1 {
		t.Errorf("after Nf3: %d/%d, want 1/1", pos.HalfMoveClock, pos.FullMoveNumber)
	}
	pos = pos.Apply(NewMove(G8, F6))
	if pos.HalfMoveClock != 2 || pos.FullMoveNumber != 2 {
		t.Errorf("after Nf6: %d/%d, want 2/2", pos.HalfMoveClock, pos.FullMoveNumber)
	}
	pos = pos.Apply(NewMove(E2, E4))
	if pos.HalfMoveClock != 0 || pos.EnPassant != E3 {
		t.Errorf("after e4: halfmove %d, ep %s", pos.HalfMoveClock, pos.EnPassant)
	}
}
