package engine

import (
	"time"

	"github.com/chesswright/mctschess/internal/board"
	"github.com/chesswright/mctschess/internal/book"
	"github.com/chesswright/mctschess/internal/eval"
	"github.com/chesswright/mctschess/internal/mcts"
	"github.com/chesswright/mctschess/internal/tablebase"
)

// MateScore is the evaluation magnitude reported for a forced mate.
const MateScore = 30000

// SearchInfo carries one progress update from a running search.
type SearchInfo struct {
	Depth  int
	Score  string // already formatted: "cp <n>" or "mate <n>"
	Nodes  int
	NPS    int
	TBHits int
	Time   time.Duration
	PV     []string
}

// SearchLimits specifies constraints on a search.
type SearchLimits struct {
	Nodes    uint64        // Maximum rollouts (0 = no limit)
	MoveTime time.Duration // Time for this move (0 = no limit)
	Infinite bool          // Search until stopped
	Ponder   bool
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // few hundred ms, shallow budget
	Medium                   // a couple seconds
	Hard                     // maximum strength, time-limited
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {MoveTime: 500 * time.Millisecond},
	Medium: {MoveTime: 2 * time.Second},
	Hard:   {MoveTime: 8 * time.Second},
}

// Engine is the chess AI engine: a single-threaded MCTS driver plus the
// ambient conveniences (opening book, tablebase, pawn hash) shared across
// searches.
type Engine struct {
	pawnTable *eval.PawnTable
	evaluator *mcts.Evaluator
	timeCtl   *mcts.TimeController

	difficulty Difficulty
	book       *book.Book
	tablebase  tablebase.Prober

	syzygyOptions mcts.Options

	// Position history for repetition detection (not consumed by the core
	// search yet; draws by repetition are left to the rules engine's own
	// 50-move/insufficient-material check).
	rootPosHashes []uint64

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine with a pawn hash table sized in MB.
func NewEngine(pawnTableMB int) *Engine {
	pawnTable := eval.NewPawnTable(pawnTableMB)
	return &Engine{
		pawnTable:  pawnTable,
		evaluator:  &mcts.Evaluator{PawnTable: pawnTable, EvalWeight: 0.2},
		difficulty: Medium,
		tablebase:  tablebase.NoopProber{},
	}
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// LoadBook loads a Polyglot opening book from filename.
func (e *Engine) LoadBook(filename string) error {
	b, err := book.LoadPolyglot(filename)
	if err != nil {
		return err
	}
	e.book = b
	return nil
}

// SetBook installs an already-loaded opening book.
func (e *Engine) SetBook(b *book.Book) {
	e.book = b
}

// HasBook reports whether an opening book is loaded.
func (e *Engine) HasBook() bool {
	return e.book != nil
}

// SetTablebase installs a tablebase prober the classifier will consult.
func (e *Engine) SetTablebase(tb tablebase.Prober) {
	e.tablebase = tb
}

// EnableLichessTablebase installs the Lichess-API-backed prober.
func (e *Engine) EnableLichessTablebase() {
	e.tablebase = tablebase.NewCachedLichessProber()
}

// EnablePersistentTablebaseCache wraps the engine's current tablebase
// prober with an on-disk cache at dir (the platform default cache
// directory if dir is empty), so repeated probes of the same endgame
// survive across process restarts.
func (e *Engine) EnablePersistentTablebaseCache(dir string) error {
	cached, err := tablebase.NewPersistentCachedProber(e.tablebase, dir)
	if err != nil {
		return err
	}
	e.tablebase = cached
	return nil
}

// HasTablebase reports whether a (non-noop) tablebase prober is installed.
func (e *Engine) HasTablebase() bool {
	_, isNoop := e.tablebase.(tablebase.NoopProber)
	return e.tablebase != nil && !isNoop
}

// SetSyzygyOptions configures the Syzygy-related UCI options the next
// search reads once, before its first iteration, and passes to the
// classifier for every tablebase probe.
func (e *Engine) SetSyzygyOptions(probeLimit, probeDepth int, fiftyMoveRule bool) {
	e.syzygyOptions = mcts.Options{
		SyzygyProbeLimit: probeLimit,
		SyzygyProbeDepth: probeDepth,
		Syzygy50MoveRule: fiftyMoveRule,
	}
}

// SetPositionHistory records the hash of every position played so far in
// the game, most recent last.
func (e *Engine) SetPositionHistory(hashes []uint64) {
	e.rootPosHashes = hashes
}

// Search runs a search using the engine's current difficulty setting.
func (e *Engine) Search(pos *board.Position) board.Move {
	return e.SearchWithLimits(pos, DifficultySettings[e.difficulty])
}

// SearchWithLimits runs a single-threaded MCTS search against pos until the
// given limits are exhausted, returning the move with the most rollouts at
// the root. It probes the opening book first, matching the teacher's own
// book-before-search convention.
func (e *Engine) SearchWithLimits(pos *board.Position, limits SearchLimits) board.Move {
	if e.book != nil {
		if move, ok := e.book.Probe(pos); ok {
			return move
		}
	}

	ply := len(e.rootPosHashes)
	uciLimits := mcts.Limits{
		MoveTime: limits.MoveTime,
		Nodes:    limits.Nodes,
		Infinite: limits.Infinite,
		Ponder:   limits.Ponder,
	}
	e.timeCtl = mcts.NewTimeController(uciLimits, pos.SideToMove, ply, e.syzygyOptions)

	root := mcts.NewRoot()
	driver := mcts.NewDriver(e.evaluator, e.tablebase, e.timeCtl, func(info mcts.Info) {
		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:  info.Depth,
				Score:  info.Score,
				Nodes:  info.Nodes,
				NPS:    info.NPS,
				TBHits: info.TBHits,
				Time:   time.Duration(info.TimeMS) * time.Millisecond,
				PV:     info.PV,
			})
		}
	})

	driver.Search(pos, root)

	best := mcts.SelectBest(root)
	if best == nil {
		return board.NoMove
	}
	return best.Move()
}

// SearchWithUCILimits runs a search from full UCI go-command time controls.
func (e *Engine) SearchWithUCILimits(pos *board.Position, limits mcts.Limits) board.Move {
	if e.book != nil {
		if move, ok := e.book.Probe(pos); ok {
			return move
		}
	}

	ply := len(e.rootPosHashes)
	e.timeCtl = mcts.NewTimeController(limits, pos.SideToMove, ply, e.syzygyOptions)

	root := mcts.NewRoot()
	driver := mcts.NewDriver(e.evaluator, e.tablebase, e.timeCtl, func(info mcts.Info) {
		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:  info.Depth,
				Score:  info.Score,
				Nodes:  info.Nodes,
				NPS:    info.NPS,
				TBHits: info.TBHits,
				Time:   time.Duration(info.TimeMS) * time.Millisecond,
				PV:     info.PV,
			})
		}
	})

	driver.Search(pos, root)

	best := mcts.SelectBest(root)
	if best == nil {
		return board.NoMove
	}
	return best.Move()
}

// Stop signals a running search to end at the next iteration boundary.
func (e *Engine) Stop() {
	if e.timeCtl != nil {
		e.timeCtl.Stop()
	}
}

// Clear resets the engine's caches between games.
func (e *Engine) Clear() {
	e.pawnTable.Clear()
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		undo := pos.MakeMove(move)
		nodes += e.Perft(pos, depth-1)
		pos.UnmakeMove(move, undo)
	}

	return nodes
}

// Evaluate returns the static evaluation of a position, from the side to
// move's perspective, in centipawns.
func (e *Engine) Evaluate(pos *board.Position) int {
	return eval.EvaluateWithPawnTable(pos, e.pawnTable)
}

// ScoreToString converts a centipawn score to a human-readable string.
func ScoreToString(score int) string {
	if score > MateScore-100 {
		mateIn := (MateScore - score + 1) / 2
		return "Mate in " + itoa(mateIn)
	}
	if score < -MateScore+100 {
		mateIn := (MateScore + score + 1) / 2
		return "Mated in " + itoa(mateIn)
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	return sign + itoa(pawns) + "." + itoa(centipawns)
}

// itoa avoids pulling in fmt for a simple integer-to-string conversion.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	s := ""
	for n > 0 {
		s = string('0'+byte(n%10)) + s
		n /= 10
	}
	return s
}
