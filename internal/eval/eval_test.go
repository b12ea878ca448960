package eval

import (
	"testing"

	"github.com/chesswright/mctschess/internal/board"
)

func TestPawnHashTable(t *testing.T) {
	pt := NewPawnTable(1) // 1MB

	pos := board.NewPosition()

	// First probe should miss
	_, _, found := pt.Probe(pos.PawnKey)
	if found {
		t.Error("Expected cache miss on first probe")
	}

	// Store and retrieve
	pt.Store(pos.PawnKey, -15, -20)

	mg, eg, found := pt.Probe(pos.PawnKey)
	if !found {
		t.Error("Expected cache hit after store")
	}
	if mg != -15 || eg != -20 {
		t.Errorf("Wrong values: got mg=%d, eg=%d, want -15, -20", mg, eg)
	}

	// Verify PawnKey changes when pawns move
	oldKey := pos.PawnKey
	move := board.NewMove(board.E2, board.E4)
	undo := pos.MakeMove(move)
	if pos.PawnKey == oldKey {
		t.Error("PawnKey should change when pawn moves")
	}

	// Verify PawnKey is restored on unmake
	pos.UnmakeMove(move, undo)
	if pos.PawnKey != oldKey {
		t.Error("PawnKey should be restored on unmake")
	}

	t.Logf("PawnKey: %016x", pos.PawnKey)
}

func TestEvaluateStartingPositionIsSmall(t *testing.T) {
	pos := board.NewPosition()
	v := Evaluate(pos)
	if v < -50 || v > 50 {
		t.Errorf("starting position eval should be near 0, got %d", v)
	}
}

func TestEvaluateWithPawnTableMatchesPlain(t *testing.T) {
	pos := board.NewPosition()
	pt := NewPawnTable(1)

	// Both evaluators score material and structure identically; the pawn
	// table only memoizes the pawn-structure term, it doesn't change it.
	plain := Evaluate(pos)
	cached := EvaluateWithPawnTable(pos, pt)
	if plain != cached {
		t.Errorf("EvaluateWithPawnTable diverged from Evaluate: %d vs %d", cached, plain)
	}

	// Second call should hit the now-populated pawn cache and still agree.
	cached2 := EvaluateWithPawnTable(pos, pt)
	if cached2 != cached {
		t.Errorf("cached eval changed between calls: %d vs %d", cached2, cached)
	}
}

func TestEvaluateMaterialQueenOdds(t *testing.T) {
	pos, err := board.ParseFEN("rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		t.Fatalf("FEN parse failed: %v", err)
	}
	v := EvaluateMaterial(pos)
	if v < QueenValue-PawnValue {
		t.Errorf("black missing a queen should evaluate clearly favorable for white, got %d", v)
	}
}
