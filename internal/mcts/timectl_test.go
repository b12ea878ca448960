package mcts

import (
	"testing"
	"time"

	"github.com/chesswright/mctschess/internal/board"
)

func TestTimeControllerMoveTimeStops(t *testing.T) {
	tc := NewTimeController(Limits{MoveTime: 20 * time.Millisecond}, board.White, 0, Options{})
	tc.Init(nil)

	if tc.ShouldStop(0) {
		t.Fatalf("should not stop immediately after Init")
	}
	time.Sleep(40 * time.Millisecond)
	if !tc.ShouldStop(0) {
		t.Errorf("expected ShouldStop to report true after the move-time budget elapsed")
	}
}

func TestTimeControllerNodesLimit(t *testing.T) {
	tc := NewTimeController(Limits{Infinite: true, Nodes: 100}, board.White, 0, Options{})
	tc.Init(nil)

	if tc.ShouldStop(99) {
		t.Errorf("should not stop before reaching the node budget")
	}
	if !tc.ShouldStop(100) {
		t.Errorf("should stop once the node budget is reached")
	}
}

func TestTimeControllerExplicitStop(t *testing.T) {
	tc := NewTimeController(Limits{Infinite: true}, board.White, 0, Options{})
	tc.Init(nil)

	if tc.ShouldStop(0) {
		t.Fatalf("infinite search should not self-stop before Stop() is called")
	}
	tc.Stop()
	if !tc.ShouldStop(0) {
		t.Errorf("expected ShouldStop to report true once Stop() was called")
	}
}

func TestTimeControllerPonderNeverSelfStops(t *testing.T) {
	tc := NewTimeController(Limits{MoveTime: time.Millisecond, Ponder: true}, board.White, 0, Options{})
	tc.Init(nil)
	time.Sleep(5 * time.Millisecond)

	if tc.ShouldStop(0) {
		t.Errorf("a pondering search must not stop on the clock alone")
	}
	tc.Stop()
	if !tc.ShouldStop(0) {
		t.Errorf("an explicit Stop() must still end a pondering search")
	}
}
