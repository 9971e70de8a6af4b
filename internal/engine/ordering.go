package engine

import (
	"sort"

	"github.com/hailam/chesscore/internal/board"
)

// Move ordering priorities
const (
	// PromotionBonus is added to any promoting move, capture or not.
	PromotionBonus = 800

	// attackerDivisor scales the attacker's value down so that the victim
	// dominates: take the most valuable victim, then the cheapest attacker.
	attackerDivisor = 10
)

// orderValues rates each piece type for MVV-LVA. The king is never a victim;
// as an attacker it ranks behind the queen.
var orderValues = [6]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, 1000}

// scoreMove returns the ordering score for a single move: captures score
// victim - attacker/10, promotions get a flat bonus, quiet moves score zero.
func scoreMove(pos *board.Position, m board.Move) int {
	score := 0

	if m.IsCapture(pos) {
		attacker := pos.PieceAt(m.From()).Type()

		// En passant lands on an empty square; the victim is always a pawn.
		victim := board.Pawn
		if captured := pos.PieceAt(m.To()); captured != board.NoPiece {
			victim = captured.Type()
		}

		score += orderValues[victim] - orderValues[attacker]/attackerDivisor
	}

	if m.IsPromotion() {
		score += PromotionBonus
	}

	return score
}

// ScoreMoves assigns scores to moves for ordering.
func ScoreMoves(pos *board.Position, moves []board.Move) []int {
	scores := make([]int, len(moves))
	for i, m := range moves {
		scores[i] = scoreMove(pos, m)
	}
	return scores
}

// OrderMoves returns the moves sorted by descending ordering score. Moves with
// equal scores keep their generation order, so ordering is deterministic.
func OrderMoves(pos *board.Position, ml *board.MoveList) []board.Move {
	moves := append([]board.Move(nil), ml.Slice()...)
	scores := ScoreMoves(pos, moves)

	idx := make([]int, len(moves))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	ordered := make([]board.Move, len(moves))
	for i, j := range idx {
		ordered[i] = moves[j]
	}
	return ordered
}
