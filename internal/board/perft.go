package board

import "sort"

// Perft counts the leaf nodes of the legal move tree to the given depth.
// It is the standard way to verify move generation against published counts.
func Perft(p *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}

	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for _, m := range moves.Slice() {
		nodes += Perft(p.Apply(m), depth-1)
	}
	return nodes
}

// DivideEntry is the subtree count below one root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// PerftDivide returns the perft count below each legal root move, sorted by
// the move's coordinate notation. Comparing a divide against another
// generator narrows a perft mismatch down to a single line.
func PerftDivide(p *Position, depth int) []DivideEntry {
	moves := p.GenerateLegalMoves()
	out := make([]DivideEntry, 0, moves.Len())
	for _, m := range moves.Slice() {
		out = append(out, DivideEntry{Move: m, Nodes: Perft(p.Apply(m), depth-1)})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Move.String() < out[j].Move.String()
	})
	return out
}
