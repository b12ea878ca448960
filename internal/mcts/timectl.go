package mcts

import (
	"sync/atomic"
	"time"

	"github.com/chesswright/mctschess/internal/board"
	"github.com/chesswright/mctschess/internal/tablebase"
)

// Limits carries the UCI go-command parameters the time controller
// allocates a budget from, mirroring the engine's own UCILimits shape.
type Limits struct {
	Time      [2]time.Duration
	Inc       [2]time.Duration
	MovesToGo int
	MoveTime  time.Duration
	Nodes     uint64
	Infinite  bool
	Ponder    bool
}

// Options carries the tablebase-related UCI options the driver reads once,
// before its first iteration, per the spec's "initial time controller call"
// convention.
type Options struct {
	Syzygy50MoveRule bool
	SyzygyProbeDepth int
	SyzygyProbeLimit int
}

// TimeController is the stop/time controller the driver polls between
// iterations (component I). stop is the sole cross-thread shared mutable
// state: it may be set by a UCI input reader goroutine while the driver
// reads it on its own goroutine, so it needs only relaxed, eventually
// visible semantics, which atomic.Bool provides.
type TimeController struct {
	stop atomic.Bool

	optimumTime time.Duration
	maximumTime time.Duration
	startTime   time.Time

	nodesLimit uint64
	ponder     bool

	PVThreshold int
	Options     Options

	tbHits        int
	lastDebugTime time.Time
}

// NewTimeController builds a TimeController from UCI go-command limits for
// the side to move at the given ply, and the engine's tablebase options.
func NewTimeController(limits Limits, us board.Color, ply int, opts Options) *TimeController {
	tc := &TimeController{
		nodesLimit:  limits.Nodes,
		ponder:      limits.Ponder,
		PVThreshold: defaultPVThreshold,
		Options:     opts,
	}
	tc.allocate(limits, us, ply)
	return tc
}

func (tc *TimeController) allocate(limits Limits, us board.Color, ply int) {
	if limits.MoveTime > 0 {
		tc.optimumTime = limits.MoveTime
		tc.maximumTime = limits.MoveTime
		return
	}
	if limits.Infinite || (limits.Time[us] == 0 && limits.MoveTime == 0) {
		tc.optimumTime = time.Hour
		tc.maximumTime = time.Hour
		return
	}

	timeLeft := limits.Time[us]
	inc := limits.Inc[us]

	mtg := limits.MovesToGo
	if mtg == 0 {
		mtg = 50 - ply/4
		if mtg < 10 {
			mtg = 10
		}
		if mtg > 50 {
			mtg = 50
		}
	}

	baseTime := timeLeft/time.Duration(mtg) + inc*9/10
	tc.optimumTime = baseTime
	if ply < 8 {
		tc.optimumTime = baseTime * 85 / 100
	}

	maxFromOptimum := tc.optimumTime * 5
	maxFromRemaining := timeLeft * 8 / 10
	if maxFromOptimum < maxFromRemaining {
		tc.maximumTime = maxFromOptimum
	} else {
		tc.maximumTime = maxFromRemaining
	}

	safetyMargin := timeLeft * 95 / 100
	if tc.maximumTime > safetyMargin {
		tc.maximumTime = safetyMargin
	}

	if tc.optimumTime < 10*time.Millisecond {
		tc.optimumTime = 10 * time.Millisecond
	}
	if tc.maximumTime < 50*time.Millisecond {
		tc.maximumTime = 50 * time.Millisecond
	}
}

// Init starts the clock. The tablebase options (Syzygy50MoveRule,
// SyzygyProbeDepth, SyzygyProbeLimit) were already captured in tc.Options at
// construction time; classify reads them straight from tc.Options on every
// call rather than requiring each prober to expose its own configuration
// hook. prober is accepted to keep this call uniform regardless of which
// prober the driver holds, even though it goes unused here.
func (tc *TimeController) Init(prober tablebase.Prober) {
	tc.startTime = time.Now()
	tc.lastDebugTime = tc.startTime
}

// Elapsed returns the time elapsed since Init.
func (tc *TimeController) Elapsed() time.Duration {
	return time.Since(tc.startTime)
}

// Stop sets the externally-writable stop signal. Safe to call from any
// goroutine.
func (tc *TimeController) Stop() {
	tc.stop.Store(true)
}

// ShouldStop reports whether the driver should end its iteration loop:
// the stop flag is set, the maximum time budget has elapsed (minus a 10ms
// safety margin), or the node/iteration budget has been reached. While
// ponder is true, the clock is never consulted; only an explicit Stop()
// call or the node budget can end the search.
func (tc *TimeController) ShouldStop(iterations int) bool {
	if tc.stop.Load() {
		return true
	}
	if tc.nodesLimit > 0 && uint64(iterations) >= tc.nodesLimit {
		return true
	}
	if tc.ponder {
		return false
	}
	return tc.Elapsed() >= tc.maximumTime-10*time.Millisecond
}

// Tick is called after each completed iteration and reports whether the 1000ms
// debug-print cadence has elapsed since the last report, resetting it if so.
func (tc *TimeController) Tick(iterations int) bool {
	if time.Since(tc.lastDebugTime) >= time.Second {
		tc.lastDebugTime = time.Now()
		return true
	}
	return false
}

// RecordTBHit increments the tablebase-hit counter the PV extractor reports.
func (tc *TimeController) RecordTBHit() {
	tc.tbHits++
}
