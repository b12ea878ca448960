package mcts

import "github.com/chesswright/mctschess/internal/board"

// Edge is one opened move out of a node: the move itself, its prior-policy
// scalar, its accumulated rollout/eval statistics, and the child node it
// owns. Edges own their child; a node never owns its parent edge, only a
// non-owning back-reference to it, so the tree has no reference cycles.
type Edge struct {
	move        board.Move
	prior       float64
	rolloutsSum int
	numRollouts int
	evalSum     float64
	numEvals    int
	overallEval float64
	child       *Node
}

func newEdge(move board.Move, prior float64) *Edge {
	e := &Edge{move: move, prior: prior, overallEval: prior}
	e.child = newNode(e)
	return e
}

func (e *Edge) Move() board.Move     { return e.move }
func (e *Edge) Prior() float64       { return e.prior }
func (e *Edge) NumRollouts() int     { return e.numRollouts }
func (e *Edge) NumEvals() int        { return e.numEvals }
func (e *Edge) OverallEval() float64 { return e.overallEval }
func (e *Edge) Child() *Node         { return e.child }

// updateStats folds one back-propagated visit into the edge's rollout and
// eval accumulators and recomputes overallEval as a (1-w)/w blend of the
// rollout mean and the eval mean.
func (e *Edge) updateStats(rollout PlayingResult, evalResult float64, evalWeight float64) {
	e.rolloutsSum += int(rollout)
	e.numRollouts++
	e.evalSum += evalResult
	e.numEvals++

	rolloutMean := float64(e.rolloutsSum) / float64(e.numRollouts)
	evalMean := e.evalSum / float64(e.numEvals)
	e.overallEval = (1-evalWeight)*rolloutMean + evalWeight*evalMean
}
