package uci

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

func run(t *testing.T, u *UCI, out *bytes.Buffer, script ...string) string {
	t.Helper()
	out.Reset()
	if err := u.Run(strings.NewReader(strings.Join(script, "\n"))); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func newUCI() (*UCI, *bytes.Buffer) {
	var out bytes.Buffer
	return New(engine.NewEngine(), &out), &out
}

func bestMove(t *testing.T, output string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if rest, ok := strings.CutPrefix(line, "bestmove "); ok {
			return rest
		}
	}
	t.Fatalf("no bestmove in output:\n%s", output)
	return ""
}

func TestHandshake(t *testing.T) {
	u, out := newUCI()
	got := run(t, u, out, "uci", "isready")

	for _, want := range []string{"id name ChessCore", "option name Depth", "uciok", "readyok"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPositionWithMoves(t *testing.T) {
	u, out := newUCI()
	got := run(t, u, out, "position startpos moves e2e4 e7e5", "d")

	want := "Fen: rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2"
	if !strings.Contains(got, want) {
		t.Errorf("output missing %q:\n%s", want, got)
	}
	if len(u.positionHashes) != 3 {
		t.Errorf("history has %d hashes, want 3", len(u.positionHashes))
	}
}

func TestPositionErrors(t *testing.T) {
	u, out := newUCI()

	got := run(t, u, out, "position fen 4k3/8/8/8/8/8/8/4K2Q w - - 0 1", "position fen not/a/fen w - - 0 1", "d")
	if !strings.Contains(got, "Invalid FEN") {
		t.Errorf("bad FEN not reported:\n%s", got)
	}
	if !strings.Contains(got, "Fen: 4k3/8/8/8/8/8/8/4K2Q w - - 0 1") {
		t.Errorf("bad FEN replaced the previous position:\n%s", got)
	}

	got = run(t, u, out, "position startpos moves e2e4 e2e4 d7d5", "d")
	if !strings.Contains(got, "Invalid move: e2e4") {
		t.Errorf("illegal move not reported:\n%s", got)
	}
	if !strings.Contains(got, "Fen: rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1") {
		t.Errorf("moves after the illegal one were applied:\n%s", got)
	}
}

func TestGo(t *testing.T) {
	u, out := newUCI()

	got := run(t, u, out, "position fen r3k3/8/8/8/8/8/8/4K2Q w - - 0 1", "go depth 1")
	if m := bestMove(t, got); m != "h1a8" {
		t.Errorf("bestmove = %s, want h1a8", m)
	}
	if !strings.Contains(got, "info depth 1 score cp") {
		t.Errorf("no info line:\n%s", got)
	}

	got = run(t, u, out, "position fen k7/2Q5/1K6/8/8/8/8/8 b - - 0 1", "go")
	if m := bestMove(t, got); m != "0000" {
		t.Errorf("bestmove = %s, want 0000", m)
	}
}

func TestQuitStopsReading(t *testing.T) {
	u, out := newUCI()
	got := run(t, u, out, "isready", "quit", "isready")
	if n := strings.Count(got, "readyok"); n != 1 {
		t.Errorf("readyok printed %d times, want 1", n)
	}
}

func TestPerft(t *testing.T) {
	u, out := newUCI()
	got := run(t, u, out, "position startpos", "perft 2")

	if !strings.Contains(got, "Nodes: 400") {
		t.Errorf("perft 2 output:\n%s", got)
	}
	if !strings.Contains(got, "e2e4: 20\n") {
		t.Errorf("divide line for e2e4 missing:\n%s", got)
	}
}

func TestOptionsPersist(t *testing.T) {
	store, err := storage.Open("")
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	u, out := newUCI()
	if err := u.SetStore(store); err != nil {
		t.Fatalf("SetStore: %v", err)
	}

	got := run(t, u, out,
		"setoption name Depth value 2",
		"setoption name AnalysisCache value true",
		"position fen r3k3/8/8/8/8/8/8/4K2Q w - - 0 1",
		"go",
		"go",
	)
	if u.depth != 2 {
		t.Errorf("depth = %d, want 2", u.depth)
	}
	if n := strings.Count(got, "info depth 2"); n != 2 {
		t.Errorf("expected two depth-2 searches:\n%s", got)
	}
	if n := strings.Count(got, "string cached"); n != 1 {
		t.Errorf("expected exactly one cached answer, got %d:\n%s", n, got)
	}

	settings, err := store.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if settings.Depth != 2 || !settings.AnalysisCache {
		t.Errorf("persisted settings = %+v", settings)
	}

	// A fresh handler picks the saved settings up.
	fresh, _ := newUCI()
	if err := fresh.SetStore(store); err != nil {
		t.Fatalf("SetStore: %v", err)
	}
	if fresh.depth != 2 || !fresh.useCache {
		t.Errorf("fresh handler depth=%d cache=%v", fresh.depth, fresh.useCache)
	}

	run(t, u, out, "setoption name ClearAnalysis")
	if n, _ := store.CountAnalyses(); n != 0 {
		t.Errorf("%d analyses left after ClearAnalysis", n)
	}
}
