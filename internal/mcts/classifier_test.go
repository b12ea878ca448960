package mcts

import (
	"testing"

	"github.com/chesswright/mctschess/internal/board"
	"github.com/chesswright/mctschess/internal/tablebase"
)

// defaultTestOpts mirrors the UCI layer's own option defaults (SyzygyProbeLimit
// 7, Syzygy50MoveRule true).
var defaultTestOpts = Options{SyzygyProbeLimit: 7, Syzygy50MoveRule: true}

func TestClassifyCheckmate(t *testing.T) {
	// White king h1, black queen h2 (supported by a black king on h3):
	// white to move and mated.
	pos, err := board.ParseFEN("8/8/8/8/8/7k/7q/7K w - - 0 1")
	if err != nil {
		t.Fatalf("FEN parse failed: %v", err)
	}
	moves := pos.GenerateLegalMoves()
	if moves.Len() != 0 {
		t.Fatalf("expected no legal moves, got %d", moves.Len())
	}
	if !pos.InCheck() {
		t.Fatalf("expected white to be in check")
	}
	if got := classify(pos, moves, tablebase.NoopProber{}, defaultTestOpts); got != Lose {
		t.Errorf("classify() = %v, want Lose", got)
	}
}

func TestClassifyStalemate(t *testing.T) {
	// Classic K+P stalemate: black to move, no legal moves, not in check.
	pos, err := board.ParseFEN("k7/P7/1K6/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatalf("FEN parse failed: %v", err)
	}
	moves := pos.GenerateLegalMoves()
	if moves.Len() != 0 {
		t.Fatalf("expected no legal moves, got %d", moves.Len())
	}
	if pos.InCheck() {
		t.Fatalf("expected black not to be in check")
	}
	if got := classify(pos, moves, tablebase.NoopProber{}, defaultTestOpts); got != Tie {
		t.Errorf("classify() = %v, want Tie", got)
	}
}

func TestClassifyContinue(t *testing.T) {
	// A quiet king-and-pawn position with legal moves on both sides.
	pos, err := board.ParseFEN("8/8/8/4k3/4P3/4K3/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("FEN parse failed: %v", err)
	}
	moves := pos.GenerateLegalMoves()
	if got := classify(pos, moves, tablebase.NoopProber{}, defaultTestOpts); got != Continue {
		t.Errorf("classify() = %v, want Continue", got)
	}
}

func TestClassifyPromotedPieceVariantRule(t *testing.T) {
	// The starting position already carries knights/bishops/rooks/queens,
	// which this engine's simplified variant treats as decisive: the side to
	// move wins immediately because it owns one of its own. This is the
	// deliberately non-standard "promoted pieces" rule carried over verbatim
	// from the engine this driver is adapted from.
	pos := board.NewPosition()
	moves := pos.GenerateLegalMoves()
	got := classify(pos, moves, tablebase.NoopProber{}, defaultTestOpts)
	if got != Win {
		t.Errorf("classify() on starting position = %v, want Win (side to move owns a non-pawn, non-king piece)", got)
	}
}

func TestClassifyTablebaseTakesPriority(t *testing.T) {
	pos, err := board.ParseFEN("8/8/8/4k3/4P3/4K3/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("FEN parse failed: %v", err)
	}
	moves := pos.GenerateLegalMoves()
	prober := stubProber{available: true, result: tablebase.ProbeResult{Found: true, WDL: tablebase.WDLWin}}
	if got := classify(pos, moves, prober, defaultTestOpts); got != Win {
		t.Errorf("classify() = %v, want Win from tablebase", got)
	}
}

func TestClassifyRespectsConfiguredProbeLimit(t *testing.T) {
	// 3 men on the board: a SyzygyProbeLimit below that must skip the probe
	// entirely and fall through to the rules-engine classifier instead.
	pos, err := board.ParseFEN("8/8/8/4k3/4P3/4K3/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("FEN parse failed: %v", err)
	}
	moves := pos.GenerateLegalMoves()
	prober := stubProber{available: true, result: tablebase.ProbeResult{Found: true, WDL: tablebase.WDLWin}}

	opts := Options{SyzygyProbeLimit: 2, Syzygy50MoveRule: true}
	if got := classify(pos, moves, prober, opts); got != Continue {
		t.Errorf("classify() with a 3-man position over a 2-man probe limit = %v, want Continue (probe skipped)", got)
	}

	opts.SyzygyProbeLimit = 3
	if got := classify(pos, moves, prober, opts); got != Win {
		t.Errorf("classify() within the configured probe limit = %v, want Win from tablebase", got)
	}
}

func TestClassifyCursedWinRespects50MoveRuleOption(t *testing.T) {
	pos, err := board.ParseFEN("8/8/8/4k3/4P3/4K3/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("FEN parse failed: %v", err)
	}
	moves := pos.GenerateLegalMoves()
	prober := stubProber{available: true, result: tablebase.ProbeResult{Found: true, WDL: tablebase.WDLCursedWin}}

	if got := classify(pos, moves, prober, Options{SyzygyProbeLimit: 7, Syzygy50MoveRule: true}); got != Tie {
		t.Errorf("classify() cursed win with Syzygy50MoveRule=true = %v, want Tie", got)
	}
	if got := classify(pos, moves, prober, Options{SyzygyProbeLimit: 7, Syzygy50MoveRule: false}); got != Win {
		t.Errorf("classify() cursed win with Syzygy50MoveRule=false = %v, want Win", got)
	}

	blessedLoss := stubProber{available: true, result: tablebase.ProbeResult{Found: true, WDL: tablebase.WDLBlessedLoss}}
	if got := classify(pos, moves, blessedLoss, Options{SyzygyProbeLimit: 7, Syzygy50MoveRule: true}); got != Tie {
		t.Errorf("classify() blessed loss with Syzygy50MoveRule=true = %v, want Tie", got)
	}
	if got := classify(pos, moves, blessedLoss, Options{SyzygyProbeLimit: 7, Syzygy50MoveRule: false}); got != Lose {
		t.Errorf("classify() blessed loss with Syzygy50MoveRule=false = %v, want Lose", got)
	}
}

type stubProber struct {
	available bool
	result    tablebase.ProbeResult
}

func (s stubProber) Probe(pos *board.Position) tablebase.ProbeResult { return s.result }
func (s stubProber) ProbeRoot(pos *board.Position) tablebase.RootResult {
	return tablebase.RootResult{}
}
func (s stubProber) MaxPieces() int  { return 7 }
func (s stubProber) Available() bool { return s.available }
