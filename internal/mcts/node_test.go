package mcts

import (
	"math"
	"math/rand"
	"testing"

	"github.com/chesswright/mctschess/internal/board"
)

func TestNodeInitializeIsIdempotent(t *testing.T) {
	pos := board.NewPosition()
	ev := newTestEvaluator()
	moves := pos.GenerateLegalMoves()

	root := NewRoot()
	root.initialize(pos, ev, moves)
	firstLen := len(root.unopened.moves)
	firstSum := root.unopened.expSum

	root.initialize(pos, ev, moves)
	if len(root.unopened.moves) != firstLen {
		t.Errorf("second initialize changed unopened count: %d vs %d", len(root.unopened.moves), firstLen)
	}
	if root.unopened.expSum != firstSum {
		t.Errorf("second initialize changed expSum: %v vs %v", root.unopened.expSum, firstSum)
	}
}

func TestNodeTreeArityInvariant(t *testing.T) {
	pos, err := board.ParseFEN("8/8/8/4k3/4P3/4K3/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("FEN parse failed: %v", err)
	}
	ev := newTestEvaluator()
	rng := rand.New(rand.NewSource(1))

	root := NewRoot()
	moves := pos.GenerateLegalMoves()
	want := moves.Len()
	root.initialize(pos, ev, moves)

	if got := root.NumMoves(); got != want {
		t.Fatalf("NumMoves() = %d, want %d", got, want)
	}

	for !root.FullyOpened() {
		root.openChild(rng)
		if got := len(root.edges) + len(root.unopened.moves); got != want {
			t.Errorf("edges.len+unopened.len = %d, want %d", got, want)
		}
	}
}

func TestOpenChildRenormalizesRelativePriors(t *testing.T) {
	pos := board.NewPosition()
	ev := newTestEvaluator()
	rng := rand.New(rand.NewSource(42))

	root := NewRoot()
	moves := pos.GenerateLegalMoves()
	root.initialize(pos, ev, moves)

	// AbsolutePrior of every move not yet opened must survive an open_child
	// unchanged; only RelativePrior is renormalized.
	absBefore := make(map[board.Move]float64)
	for _, m := range root.unopened.moves {
		absBefore[m.Move] = m.AbsolutePrior
	}

	root.openChild(rng)

	var relSum float64
	for _, m := range root.unopened.moves {
		relSum += m.RelativePrior
		if want, ok := absBefore[m.Move]; ok && m.AbsolutePrior != want {
			t.Errorf("AbsolutePrior for %v changed after open_child: %v vs %v", m.Move, m.AbsolutePrior, want)
		}
	}
	if math.Abs(relSum-1) > 1e-9 {
		t.Errorf("sum of remaining relative priors = %v, want 1", relSum)
	}
}

func TestNodeTerminalWhenNoLegalMoves(t *testing.T) {
	pos, err := board.ParseFEN("8/8/8/8/8/7k/7q/7K w - - 0 1")
	if err != nil {
		t.Fatalf("FEN parse failed: %v", err)
	}
	ev := newTestEvaluator()
	root := NewRoot()
	moves := pos.GenerateLegalMoves()
	root.initialize(pos, ev, moves)

	if !root.Terminal() {
		t.Errorf("expected root to be Terminal with no legal moves")
	}
	if root.FullyOpened() {
		t.Errorf("a terminal node with zero moves should not report FullyOpened (it never held an edge)")
	}
}
