package mcts

import (
	"testing"

	"github.com/chesswright/mctschess/internal/board"
)

func TestBuildPVInfoSuppressedBelowThreshold(t *testing.T) {
	root := NewRoot()
	root.totalVisits = 6
	tc := NewTimeController(Limits{Infinite: true}, board.White, 0, Options{})
	tc.Init(nil)

	if _, ok := BuildPVInfo(root, 6, tc); ok {
		t.Errorf("expected BuildPVInfo to be suppressed when totalVisits < pv_threshold")
	}
}

// walkPV must re-check the pv_threshold at every step of the descent, not
// only at the root: a deep, fully-opened node that itself has too few
// accrued visits must truncate the PV right there, never contributing its
// own best edge.
func TestWalkPVReChecksThresholdAtEachStep(t *testing.T) {
	root := NewRoot()
	root.initialized = true
	root.totalVisits = 10

	edgeA := newEdge(board.NewMove(board.A1, board.A2), 0.5)
	edgeA.numRollouts = 5
	root.edges = []*Edge{edgeA}

	child := edgeA.child
	child.initialized = true
	child.totalVisits = 3 // below defaultPVThreshold (7)

	edgeB := newEdge(board.NewMove(board.A2, board.A3), 0.5)
	edgeB.numRollouts = 3
	child.edges = []*Edge{edgeB}

	pv, depth := walkPV(root, defaultPVThreshold)
	if depth != 1 || len(pv) != 1 {
		t.Fatalf("walkPV should stop after the first move once the next node is below pv_threshold, got depth=%d pv=%v", depth, pv)
	}
	if pv[0] != edgeA.move.String() {
		t.Errorf("pv[0] = %v, want %v", pv[0], edgeA.move.String())
	}
}

func TestBuildPVInfoDepthMatchesPVLength(t *testing.T) {
	pos, err := board.ParseFEN("8/8/8/4k3/4P3/4K3/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("FEN parse failed: %v", err)
	}
	ev := newTestEvaluator()
	tc := NewTimeController(Limits{Nodes: 200}, board.White, 0, Options{})

	driver := NewDriver(ev, nil, tc, nil)
	root := NewRoot()
	driver.Search(pos, root)

	info, ok := BuildPVInfo(root, driver.iterations, tc)
	if !ok {
		t.Skip("not enough visits accrued to produce a PV line in this environment")
	}
	if info.Depth != len(info.PV) {
		t.Errorf("info.Depth = %d, want len(pv) = %d", info.Depth, len(info.PV))
	}
	if info.Depth <= 1 {
		t.Errorf("BuildPVInfo should only return ok=true for PV depth > 1, got %d", info.Depth)
	}
}
