package mcts

import (
	"math/rand"

	"github.com/chesswright/mctschess/internal/board"
	"github.com/chesswright/mctschess/internal/tablebase"
)

// Driver owns one search: the mutable position it descends through, the
// evaluator shared by every node it visits, the UCT selector, the random
// source feeding the sampler, and the stop/time controller it polls between
// iterations. A Driver is single-use; build a fresh one per search call.
type Driver struct {
	Evaluator *Evaluator
	Selector  Selector
	Tablebase tablebase.Prober
	TimeCtl   *TimeController

	rng        *rand.Rand
	iterations int
	infoFn     func(Info)
}

// NewDriver builds a Driver with the engine's default UCT constants,
// drawing from the process-wide sampler source. infoFn, if non-nil, is
// called with a PV snapshot each time the driver decides to emit a progress
// line.
func NewDriver(evaluator *Evaluator, prober tablebase.Prober, timeCtl *TimeController, infoFn func(Info)) *Driver {
	if prober == nil {
		prober = tablebase.NoopProber{}
	}
	return &Driver{
		Evaluator: evaluator,
		Selector:  NewSelector(),
		Tablebase: prober,
		TimeCtl:   timeCtl,
		rng:       processRand,
		infoFn:    infoFn,
	}
}

// Search grows the tree rooted at root by iterating selection, expansion,
// rollout and back-propagation against pos until the time controller signals
// stop. pos is restored to its starting bits before Search returns.
func (d *Driver) Search(pos *board.Position, root *Node) {
	d.TimeCtl.Init(d.Tablebase)

	var parents [MaxPly]*Node
	var playedMoves [MaxPly]board.Move
	var playedUndo [MaxPly]board.UndoInfo

	opts := d.TimeCtl.Options

	for !d.TimeCtl.ShouldStop(d.iterations) {
		node := root
		depth := 0

		moves := pos.GenerateLegalMoves()
		node.initialize(pos, d.Evaluator, moves)
		result := classify(pos, moves, d.Tablebase, opts)

		// Descent: walk down through fully-opened, non-terminal nodes.
		for result == Continue && node.FullyOpened() {
			edge := d.Selector.selectChild(node)
			parents[depth] = node
			playedMoves[depth] = edge.Move()
			playedUndo[depth] = pos.MakeMove(edge.Move())
			depth++
			node = edge.Child()

			if depth >= MaxPly {
				result = Tie
				break
			}

			moves = pos.GenerateLegalMoves()
			node.initialize(pos, d.Evaluator, moves)
			result = classify(pos, moves, d.Tablebase, opts)
		}

		var rolloutResult PlayingResult
		var evalResult float64

		switch {
		case result != Continue:
			rolloutResult = result
			evalResult = float64(result)

		default:
			// Expansion: this is a non-terminal leaf with unopened moves.
			edge := node.openChild(d.rng)
			parents[depth] = node
			playedMoves[depth] = edge.Move()
			playedUndo[depth] = pos.MakeMove(edge.Move())
			depth++
			node = edge.Child()

			leafMoves := pos.GenerateLegalMoves()
			node.initialize(pos, d.Evaluator, leafMoves)
			leafResult := classify(pos, leafMoves, d.Tablebase, opts)

			if leafResult != Continue {
				rolloutResult = leafResult
				evalResult = float64(leafResult)
			} else {
				rolloutResult = rollout(pos, d.Evaluator, d.Tablebase, d.rng, opts)
				evalResult = sigmoidEval(relativeEval(pos, d.Evaluator.PawnTable))
			}
		}

		// Back-propagation: walk up negating both values at every step,
		// undoing the move that led to the child being popped.
		for depth > 0 {
			depth--
			pos.UnmakeMove(playedMoves[depth], playedUndo[depth])
			parent := parents[depth]
			edge := node.incoming
			edge.updateStats(rolloutResult, evalResult, d.Evaluator.EvalWeight)
			parent.updateStats(edge)
			rolloutResult = -rolloutResult
			evalResult = -evalResult
			node = parent
		}

		d.iterations++
		if due := d.TimeCtl.Tick(d.iterations); due && d.infoFn != nil {
			if info, ok := BuildPVInfo(root, d.iterations, d.TimeCtl); ok {
				d.infoFn(info)
			}
		}
	}

	if d.infoFn != nil {
		if info, ok := BuildPVInfo(root, d.iterations, d.TimeCtl); ok {
			d.infoFn(info)
		}
	}
}

// SelectBest returns the edge at root with the maximum num_rollouts, or nil
// if root has no opened edges yet.
func SelectBest(root *Node) *Edge {
	if len(root.edges) == 0 {
		return nil
	}
	best := root.edges[0]
	for _, e := range root.edges[1:] {
		if e.numRollouts > best.numRollouts {
			best = e
		}
	}
	return best
}
