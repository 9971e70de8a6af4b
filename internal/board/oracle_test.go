package board

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/notnil/chess"
	"golang.org/x/exp/slices"
)

// Positions cross-checked against independent move generators.
var oracleFENs = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
}

func sortedMoves(ml *MoveList) []string {
	out := ml.Strings()
	slices.Sort(out)
	return out
}

func notnilMoves(t *testing.T, fen string) []string {
	t.Helper()
	opt, err := chess.FEN(fen)
	if err != nil {
		t.Fatalf("chess.FEN(%q): %v", fen, err)
	}
	game := chess.NewGame(opt)

	var out []string
	for _, m := range game.ValidMoves() {
		out = append(out, m.String())
	}
	slices.Sort(out)
	return out
}

func dragontoothMoves(fen string) []string {
	b := dragontoothmg.ParseFen(fen)

	var out []string
	for _, m := range b.GenerateLegalMoves() {
		out = append(out, m.String())
	}
	slices.Sort(out)
	return out
}

func TestLegalMovesMatchNotnil(t *testing.T) {
	for _, fen := range oracleFENs {
		pos := mustParse(t, fen)

		if diff := cmp.Diff(notnilMoves(t, fen), sortedMoves(pos.GenerateLegalMoves()), cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("%s: legal moves mismatch (-want +got):\n%s", fen, diff)
		}

		// One ply deeper catches castling rights, en passant targets and
		// promotions produced by Apply rather than by the decoder.
		for _, m := range pos.GenerateLegalMoves().Slice() {
			child := pos.Apply(m)
			childFEN := child.ToFEN()
			if diff := cmp.Diff(notnilMoves(t, childFEN), sortedMoves(child.GenerateLegalMoves()), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("%s after %s: legal moves mismatch (-want +got):\n%s", fen, m, diff)
			}
		}
	}
}

func TestLegalMovesMatchDragontooth(t *testing.T) {
	for _, fen := range oracleFENs {
		pos := mustParse(t, fen)
		if diff := cmp.Diff(dragontoothMoves(fen), sortedMoves(pos.GenerateLegalMoves()), cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("%s: legal moves mismatch (-want +got):\n%s", fen, diff)
		}
	}
}
