package mcts

import (
	"math"

	"github.com/chesswright/mctschess/internal/board"
	"github.com/chesswright/mctschess/internal/eval"
)

// pawnNormalization converts centipawn evals onto the roughly [-1, 1] scale
// the softmax prior is computed over, matching how the engine's own sigmoid
// mapping is scaled.
const pawnNormalization = 200.0

// sigmoidSlope is k in the eval->winrate mapping used by rollout
// back-propagation.
const sigmoidSlope = 0.073

// UnopenedMove is a legal move together with the prior-policy scalars
// computed for it before it owns a tree edge. ExpPrior and AbsolutePrior are
// fixed once computed, over the full move set at the node; RelativePrior is
// renormalized over whatever is still unopened each time a sibling opens.
type UnopenedMove struct {
	Move          board.Move
	ExpPrior      float64
	AbsolutePrior float64
	RelativePrior float64
}

// Evaluator bundles the static evaluation resources the prior policy and
// rollout engine need: the shared pawn hash table and the eval weight used in
// each edge's overallEval blend. A single Evaluator is shared by every node
// visited in one search.
type Evaluator struct {
	PawnTable *eval.PawnTable
	EvalWeight float64
}

// NewEvaluator builds an Evaluator with a fresh pawn hash table sized in MB.
// evalWeight is w in the edge's overallEval blend; the original MCTS-Peshka
// engine this driver's scoring formula is adapted from defaults it to 0.2.
func NewEvaluator(pawnTableMB int, evalWeight float64) *Evaluator {
	return &Evaluator{
		PawnTable:  eval.NewPawnTable(pawnTableMB),
		EvalWeight: evalWeight,
	}
}

// relativeEval returns Evaluate(pos) from the perspective of the side to
// move at pos. The underlying static evaluator already scores from the side
// to move's perspective, so its value is used unchanged.
func relativeEval(pos *board.Position, pawnTable *eval.PawnTable) float64 {
	return float64(eval.EvaluateWithPawnTable(pos, pawnTable))
}

// mateSaturationThreshold is the |eval| magnitude at and beyond which
// sigmoidEval reports an exact +-1 rather than an asymptotic approach to it,
// matching a mate score found at up to MaxPly plies deep.
const mateSaturationThreshold = mateScore - MaxPly

// sigmoidEval maps a centipawn evaluation, relative to the side to move,
// onto the same [-1, 1] range rollout outcomes live in, saturating toward
// +-1 for mating evaluations. A true mate score (|v| >= mateSaturationThreshold)
// maps to exactly sign(v) rather than asymptotically approaching it.
func sigmoidEval(centipawns float64) float64 {
	if math.Abs(centipawns) >= mateSaturationThreshold {
		return math.Copysign(1, centipawns)
	}
	return 2/(1+math.Exp(-sigmoidSlope*centipawns/eval.PawnValue)) - 1
}

// safeEval evaluates the position that results from playing move at pos,
// without mutating pos. If the move gives check, the evaluation is resolved
// through a small quiescence probe instead of a plain static call, since a
// position in check is rarely a fair place to trust a static evaluation.
func safeEval(pos *board.Position, move board.Move, pawnTable *eval.PawnTable) float64 {
	undo := pos.MakeMove(move)
	defer pos.UnmakeMove(move, undo)
	if !undo.Valid {
		return 0
	}
	if pos.InCheck() {
		return -qsearchEval(pos, pawnTable)
	}
	return relativeEval(pos, pawnTable)
}

// qsearchEval resolves a position that is in check by expanding every legal
// evasion and returning the negamax of their evaluations, recursing while an
// evasion itself leaves the mover in check. It leaves pos unchanged.
func qsearchEval(pos *board.Position, pawnTable *eval.PawnTable) float64 {
	if !pos.InCheck() {
		return relativeEval(pos, pawnTable)
	}

	evasions := pos.GenerateLegalMoves()
	if evasions.Len() == 0 {
		return -float64(mateScore)
	}

	best := math.Inf(-1)
	for i := 0; i < evasions.Len(); i++ {
		move := evasions.Get(i)
		undo := pos.MakeMove(move)
		if !undo.Valid {
			pos.UnmakeMove(move, undo)
			continue
		}
		v := relativeEval(pos, pawnTable)
		if pos.InCheck() {
			v = -qsearchEval(pos, pawnTable)
		}
		pos.UnmakeMove(move, undo)
		if v > best {
			best = v
		}
	}
	return best
}

// computeUnopened runs the two-pass softmax prior policy over every move in
// moves at pos: a raw safeEval per move, shifted by the maximum for
// numerical stability, exponentiated, then normalized into absolute priors.
// It returns the unopened moves and the sum of their exp priors, which a
// node needs to renormalize relative priors as siblings open.
func (e *Evaluator) computeUnopened(pos *board.Position, moves *board.MoveList) ([]UnopenedMove, float64) {
	n := moves.Len()
	if n == 0 {
		return nil, 0
	}

	raw := make([]float64, n)
	maxRaw := math.Inf(-1)
	for i := 0; i < n; i++ {
		raw[i] = safeEval(pos, moves.Get(i), e.PawnTable) / pawnNormalization
		if raw[i] > maxRaw {
			maxRaw = raw[i]
		}
	}

	exps := make([]float64, n)
	sum := 0.0
	for i := 0; i < n; i++ {
		exps[i] = math.Exp(raw[i] - maxRaw)
		sum += exps[i]
	}

	out := make([]UnopenedMove, n)
	for i := 0; i < n; i++ {
		share := exps[i] / sum
		out[i] = UnopenedMove{
			Move:          moves.Get(i),
			ExpPrior:      exps[i],
			AbsolutePrior: share,
			RelativePrior: share,
		}
	}
	return out, sum
}
