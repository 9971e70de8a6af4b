package engine

import (
	"log"
	"strconv"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth  int
	Score  int
	Nodes  uint64
	Time   time.Duration
	PV     []board.Move
	Cached bool // Result came from the analysis cache
}

// AnalysisCache remembers finished searches. A result is only reusable for
// the same position hash, depth and history digest, since all three decide
// the outcome of a search.
type AnalysisCache interface {
	Lookup(hash uint64, depth int, digest uint64) (board.Move, int, bool)
	Store(hash uint64, depth int, digest uint64, move board.Move, score int) error
}

// Engine wraps the searcher with result caching and progress reporting.
type Engine struct {
	searcher *Searcher
	cache    AnalysisCache

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine.
func NewEngine() *Engine {
	return &Engine{searcher: NewSearcher()}
}

// SetCache installs an analysis cache; nil disables caching.
func (e *Engine) SetCache(c AnalysisCache) {
	e.cache = c
}

// Search finds the best move for the given position. See Searcher.Search
// for the meaning of the result.
func (e *Engine) Search(pos *board.Position, depth int, history History) (board.Move, int) {
	startTime := time.Now()
	e.searcher.Reset()

	hash := pos.Hash()
	digest := history.Digest()

	if e.cache != nil {
		if move, score, ok := e.cache.Lookup(hash, depth, digest); ok {
			e.report(SearchInfo{Depth: depth, Score: score, Time: time.Since(startTime), PV: pvOf(move), Cached: true})
			return move, score
		}
	}

	move, score := e.searcher.Search(pos, depth, history)

	if e.cache != nil {
		if err := e.cache.Store(hash, depth, digest, move, score); err != nil {
			log.Printf("Warning: Failed to store analysis: %v", err)
		}
	}

	e.report(SearchInfo{
		Depth: depth,
		Score: score,
		Nodes: e.searcher.Nodes(),
		Time:  time.Since(startTime),
		PV:    pvOf(move),
	})

	return move, score
}

func (e *Engine) report(info SearchInfo) {
	if e.OnInfo != nil {
		e.OnInfo(info)
	}
}

func pvOf(m board.Move) []board.Move {
	if m == board.NoMove {
		return nil
	}
	return []board.Move{m}
}

// Nodes returns the node count of the last search.
func (e *Engine) Nodes() uint64 {
	return e.searcher.Nodes()
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	return board.Perft(pos, depth)
}

// Evaluate returns the static evaluation of a position from White's perspective.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	switch {
	case score >= MateScore:
		return "Mate"
	case score <= -MateScore:
		return "Mated"
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	cp := strconv.Itoa(centipawns)
	if centipawns < 10 {
		cp = "0" + cp
	}
	return sign + strconv.Itoa(pawns) + "." + cp
}
