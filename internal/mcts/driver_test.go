package mcts

import (
	"testing"

	"github.com/chesswright/mctschess/internal/board"
)

func newSingleIterationTimeController() *TimeController {
	return NewTimeController(Limits{Nodes: 1}, board.White, 0, Options{})
}

// Boundary scenario 1: checkmate at root.
func TestDriverCheckmateAtRoot(t *testing.T) {
	pos, err := board.ParseFEN("8/8/8/8/8/7k/7q/7K w - - 0 1")
	if err != nil {
		t.Fatalf("FEN parse failed: %v", err)
	}
	ev := newTestEvaluator()
	tc := newSingleIterationTimeController()
	driver := NewDriver(ev, nil, tc, nil)
	root := NewRoot()

	driver.Search(pos, root)

	if !root.Terminal() {
		t.Fatalf("expected root to be Terminal at checkmate")
	}
	if got := len(root.edges) + len(root.unopened.moves); got != 0 {
		t.Errorf("edges.len+unopened.len = %d, want 0", got)
	}
	if best := SelectBest(root); best != nil {
		t.Errorf("SelectBest at a terminal root should return nil, got %v", best.Move())
	}
}

// Boundary scenario 2: stalemate at root.
func TestDriverStalemateAtRoot(t *testing.T) {
	pos, err := board.ParseFEN("k7/P7/1K6/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatalf("FEN parse failed: %v", err)
	}
	ev := newTestEvaluator()
	tc := newSingleIterationTimeController()
	driver := NewDriver(ev, nil, tc, nil)
	root := NewRoot()

	driver.Search(pos, root)

	if !root.Terminal() {
		t.Fatalf("expected root to be Terminal at stalemate")
	}
	if best := SelectBest(root); best != nil {
		t.Errorf("SelectBest at a terminal root should return nil, got %v", best.Move())
	}
}

// Boundary scenario 3: a node with exactly one legal move opens it on the
// first iteration and keeps selecting it (the only choice) on later ones.
func TestDriverSingleLegalMove(t *testing.T) {
	// White king a1, black king c2 controls b1/b2: white's only legal move
	// is Ka1-a2. The black pawn on h7 keeps the position from being a
	// bare-kings draw, which the classifier would end at the root.
	pos, err := board.ParseFEN("8/7p/8/8/8/8/2k5/K7 w - - 0 1")
	if err != nil {
		t.Fatalf("FEN parse failed: %v", err)
	}
	moves := pos.GenerateLegalMoves()
	if moves.Len() != 1 {
		t.Skipf("test FEN does not have exactly one legal move (has %d); skipping", moves.Len())
	}

	ev := newTestEvaluator()
	tc := NewTimeController(Limits{Nodes: 2}, board.White, 0, Options{})
	driver := NewDriver(ev, nil, tc, nil)
	root := NewRoot()

	driver.Search(pos, root)

	if len(root.edges) != 1 {
		t.Fatalf("root.edges.len = %d, want 1", len(root.edges))
	}
	if root.totalVisits != 2 {
		t.Errorf("root.totalVisits = %d, want 2", root.totalVisits)
	}
}

// Position round-trip: the driver must leave pos bit-identical after each
// full Search call (every make is undone on the way back up).
func TestDriverPositionRoundTrip(t *testing.T) {
	pos, err := board.ParseFEN("8/8/8/4k3/4P3/4K3/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("FEN parse failed: %v", err)
	}
	before := *pos

	ev := newTestEvaluator()
	tc := NewTimeController(Limits{Nodes: 300}, board.White, 0, Options{})
	driver := NewDriver(ev, nil, tc, nil)
	root := NewRoot()

	driver.Search(pos, root)

	if *pos != before {
		t.Errorf("Search did not restore the position bit-exactly")
	}
}

// Stat monotonicity: num_rollouts and num_evals on every opened edge only
// ever grow, one at a time, never skipping or decreasing.
func TestDriverStatMonotonicity(t *testing.T) {
	pos, err := board.ParseFEN("8/8/8/4k3/4P3/4K3/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("FEN parse failed: %v", err)
	}
	ev := newTestEvaluator()
	tc := NewTimeController(Limits{Nodes: 1}, board.White, 0, Options{})
	driver := NewDriver(ev, nil, tc, nil)
	root := NewRoot()

	seen := map[board.Move]int{}
	for i := 0; i < 200; i++ {
		tc.nodesLimit = uint64(driver.iterations + 1)
		driver.Search(pos, root)
		for _, e := range root.edges {
			prev := seen[e.Move()]
			if e.NumRollouts() < prev {
				t.Fatalf("edge %v num_rollouts decreased: %d -> %d", e.Move(), prev, e.NumRollouts())
			}
			if e.NumRollouts()-prev > 1 {
				t.Fatalf("edge %v num_rollouts jumped by more than 1 in a single iteration: %d -> %d", e.Move(), prev, e.NumRollouts())
			}
			seen[e.Move()] = e.NumRollouts()
		}
	}
}

// Stop signal: setting stop mid-search ends the loop within one iteration's
// worth of work, leaving the tree in a fully consistent state.
func TestDriverStopSignalEndsSearchCleanly(t *testing.T) {
	pos, err := board.ParseFEN("8/8/8/4k3/4P3/4K3/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("FEN parse failed: %v", err)
	}
	ev := newTestEvaluator()
	tc := NewTimeController(Limits{Infinite: true}, board.White, 0, Options{})
	driver := NewDriver(ev, nil, tc, nil)
	root := NewRoot()

	tc.Stop()
	driver.Search(pos, root)

	for _, e := range root.edges {
		if got := e.NumEvals(); got != e.NumRollouts() {
			t.Errorf("edge %v has inconsistent eval/rollout counts after stop: %d vs %d", e.Move(), got, e.NumRollouts())
		}
	}
	if *pos != mustParse(t, "8/8/8/4k3/4P3/4K3/8/8 w - - 0 1") {
		t.Errorf("position not restored after a stopped search")
	}
}

func mustParse(t *testing.T, fen string) board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("FEN parse failed: %v", err)
	}
	return *pos
}

// Determinism: a fixed seed reproduces bit-identical tree statistics across
// two independent runs from the same position.
func TestDriverDeterminism(t *testing.T) {
	run := func() *Node {
		pos, err := board.ParseFEN("8/8/8/4k3/4P3/4K3/8/8 w - - 0 1")
		if err != nil {
			t.Fatalf("FEN parse failed: %v", err)
		}
		SeedRandom(12345)
		ev := newTestEvaluator()
		tc := NewTimeController(Limits{Nodes: 50}, board.White, 0, Options{})
		driver := NewDriver(ev, nil, tc, nil)
		root := NewRoot()
		driver.Search(pos, root)
		return root
	}

	a := run()
	b := run()

	if len(a.edges) != len(b.edges) {
		t.Fatalf("edge counts diverged: %d vs %d", len(a.edges), len(b.edges))
	}
	for i := range a.edges {
		ea, eb := a.edges[i], b.edges[i]
		if ea.Move() != eb.Move() || ea.NumRollouts() != eb.NumRollouts() || ea.OverallEval() != eb.OverallEval() {
			t.Errorf("edge %d diverged between runs: %+v vs %+v", i, ea, eb)
		}
	}
}
