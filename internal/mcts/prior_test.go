package mcts

import (
	"math"
	"testing"

	"github.com/chesswright/mctschess/internal/board"
	"github.com/chesswright/mctschess/internal/eval"
)

func newTestEvaluator() *Evaluator {
	return NewEvaluator(1, defaultEvalWeight)
}

func TestComputeUnopenedSumsToOne(t *testing.T) {
	pos := board.NewPosition()
	ev := newTestEvaluator()
	moves := pos.GenerateLegalMoves()

	unopened, expSum := ev.computeUnopened(pos, moves)
	if len(unopened) != moves.Len() {
		t.Fatalf("got %d unopened moves, want %d", len(unopened), moves.Len())
	}

	var absSum, relSum float64
	for _, m := range unopened {
		absSum += m.AbsolutePrior
		relSum += m.RelativePrior
	}
	if math.Abs(absSum-1) > 1e-9 {
		t.Errorf("sum of absolute priors = %v, want 1", absSum)
	}
	if math.Abs(relSum-1) > 1e-9 {
		t.Errorf("sum of relative priors = %v, want 1", relSum)
	}

	var wantExpSum float64
	for _, m := range unopened {
		wantExpSum += m.ExpPrior
	}
	if math.Abs(wantExpSum-expSum) > 1e-9 {
		t.Errorf("returned expSum %v does not match sum of ExpPrior %v", expSum, wantExpSum)
	}
}

// Softmax is invariant to a constant shift of the underlying raw evals: the
// subtract-the-max step exists purely for numerical stability, not to change
// the distribution.
func TestSoftmaxShiftInvariance(t *testing.T) {
	raws := []float64{0.3, -0.1, 1.2, -2.0}
	shift := 7.5

	priorsOf := func(vals []float64) []float64 {
		maxV := math.Inf(-1)
		for _, v := range vals {
			if v > maxV {
				maxV = v
			}
		}
		exps := make([]float64, len(vals))
		sum := 0.0
		for i, v := range vals {
			exps[i] = math.Exp(v - maxV)
			sum += exps[i]
		}
		out := make([]float64, len(vals))
		for i := range exps {
			out[i] = exps[i] / sum
		}
		return out
	}

	base := priorsOf(raws)
	shifted := make([]float64, len(raws))
	for i, v := range raws {
		shifted[i] = v + shift
	}
	got := priorsOf(shifted)

	for i := range base {
		if math.Abs(base[i]-got[i]) > 1e-12 {
			t.Errorf("prior %d diverged under shift: %v vs %v", i, base[i], got[i])
		}
	}
}

func TestSigmoidEvalBoundsAndAntisymmetry(t *testing.T) {
	if v := sigmoidEval(0); v != 0 {
		t.Errorf("sigmoidEval(0) = %v, want 0", v)
	}
	for _, v := range []float64{50, 200, 1000, 5000} {
		pos := sigmoidEval(v)
		neg := sigmoidEval(-v)
		if math.Abs(pos+neg) > 1e-12 {
			t.Errorf("sigmoidEval(%v) + sigmoidEval(%v) = %v, want 0", v, -v, pos+neg)
		}
		if math.Abs(pos) >= 1 {
			t.Errorf("sigmoidEval(%v) = %v, want |v| < 1", v, pos)
		}
	}
	if v := sigmoidEval(1000); math.Abs(v) >= 1 {
		t.Errorf("sigmoidEval(1000) = %v, want |v| < 1 (not saturated)", v)
	}
}

// Boundary scenario: a true mate score saturates sigmoidEval to exactly
// +-1, rather than only asymptotically approaching it.
func TestSigmoidEvalSaturatesAtMateScore(t *testing.T) {
	if v := sigmoidEval(mateScore); v != 1 {
		t.Errorf("sigmoidEval(mateScore) = %v, want exactly 1", v)
	}
	if v := sigmoidEval(-mateScore); v != -1 {
		t.Errorf("sigmoidEval(-mateScore) = %v, want exactly -1", v)
	}
	if v := sigmoidEval(mateSaturationThreshold); v != 1 {
		t.Errorf("sigmoidEval(mateSaturationThreshold) = %v, want exactly 1", v)
	}
	if v := sigmoidEval(mateSaturationThreshold - 1); v >= 1 {
		t.Errorf("sigmoidEval(mateSaturationThreshold-1) = %v, want strictly < 1 (not yet saturated)", v)
	}
}

func TestRelativeEvalFlipsForBlack(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("FEN parse failed: %v", err)
	}
	pt := eval.NewPawnTable(1)

	white := relativeEval(pos, pt)
	pos.SideToMove = board.Black
	black := relativeEval(pos, pt)
	pos.SideToMove = board.White

	if white != -black {
		t.Errorf("relativeEval should flip sign with side to move: white=%v black=%v", white, black)
	}
}
