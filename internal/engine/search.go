package engine

import (
	"fmt"

	"github.com/hailam/chesscore/internal/board"
)

// Search constants
const (
	Infinity  = 1_000_000
	MateScore = 100_000
	DrawScore = 0
)

// Searcher performs the alpha-beta search.
// A Searcher only carries a node counter; every call starts from scratch.
type Searcher struct {
	nodes uint64
}

// NewSearcher creates a new searcher.
func NewSearcher() *Searcher {
	return &Searcher{}
}

// Reset resets the searcher for a new search.
func (s *Searcher) Reset() {
	s.nodes = 0
}

// Nodes returns the number of nodes searched since the last Reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Search is a convenience wrapper that runs a fresh Searcher.
func Search(pos *board.Position, depth int, history History) (board.Move, int) {
	return NewSearcher().Search(pos, depth, history)
}

// Search returns the best move for the side to move and its score in
// centipawns from that side's perspective. Mate scores are ±MateScore with no
// distance encoding; draws and stalemates score 0.
//
// depth must be at least 1. When the side to move has no legal move the
// result is (board.NoMove, 0), whether mated or stalemated.
func (s *Searcher) Search(pos *board.Position, depth int, history History) (board.Move, int) {
	if depth < 1 {
		panic(fmt.Sprintf("engine: search depth %d, must be at least 1", depth))
	}
	s.nodes++

	moves := pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		return board.NoMove, 0
	}

	path := history.With(pos.Hash())
	bestMove := board.NoMove
	alpha, beta := -Infinity, Infinity

	for _, m := range OrderMoves(pos, moves) {
		score := -s.negamax(pos.Apply(m), depth-1, -beta, -alpha, path)
		if score > alpha {
			alpha = score
			bestMove = m
		}
	}

	return bestMove, alpha
}

// negamax is a fail-hard alpha-beta search. A position already on the path
// (or in the caller's seed) is scored as a draw before anything else.
func (s *Searcher) negamax(pos *board.Position, depth, alpha, beta int, history History) int {
	hash := pos.Hash()
	if history.Contains(hash) {
		s.nodes++
		return DrawScore
	}

	if depth <= 0 {
		return s.quiescence(pos, alpha, beta)
	}
	s.nodes++

	moves := pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		if pos.InCheck() {
			return -MateScore
		}
		return DrawScore
	}

	path := history.With(hash)
	for _, m := range OrderMoves(pos, moves) {
		score := -s.negamax(pos.Apply(m), depth-1, -beta, -alpha, path)
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// quiescence searches captures only until the position is quiet, so the
// horizon never falls in the middle of an exchange.
func (s *Searcher) quiescence(pos *board.Position, alpha, beta int) int {
	s.nodes++

	standPat := EvaluateRelative(pos)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	for _, m := range OrderMoves(pos, pos.GenerateCaptures()) {
		score := -s.quiescence(pos.Apply(m), -beta, -alpha)
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}
