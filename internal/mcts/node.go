package mcts

import (
	"math/rand"

	"github.com/chesswright/mctschess/internal/board"
)

// unopenedSet holds the legal moves at a node that have not yet been turned
// into edges, plus the running sum of their exp priors so relative priors
// can be renormalized in place as siblings open.
type unopenedSet struct {
	moves  []UnopenedMove
	expSum float64
}

// Node is one position in the search tree. Its edges and unopened moves
// partition the legal move set at its position: edges.len + unopened.len
// always equals the node's move count once it has been initialized.
//
// A node holds a non-owning back-reference to the edge that leads to it
// (nil at the root) rather than a parent pointer, since the driver walks
// back up the tree using its own parent-history stack; this avoids a
// reference cycle between nodes and edges.
type Node struct {
	initialized    bool
	edges          []*Edge
	unopened       unopenedSet
	totalVisits    int
	maxChildVisits int
	incoming       *Edge
}

func newNode(incoming *Edge) *Node {
	return &Node{incoming: incoming}
}

// NewRoot creates the owning root node of a search tree. The caller owns it;
// nothing in the tree ever expects to reach above it.
func NewRoot() *Node {
	return newNode(nil)
}

func (n *Node) Initialized() bool   { return n.initialized }
func (n *Node) Edges() []*Edge      { return n.edges }
func (n *Node) TotalVisits() int    { return n.totalVisits }
func (n *Node) MaxChildVisits() int { return n.maxChildVisits }
func (n *Node) IncomingEdge() *Edge { return n.incoming }

// NumMoves is the legal move count at this node: edges already opened plus
// moves still unopened.
func (n *Node) NumMoves() int {
	return len(n.edges) + len(n.unopened.moves)
}

// FullyOpened reports whether every legal move at this node already owns an
// edge. A node with zero legal moves (terminal) is never fully opened: it has
// no edges to select among.
func (n *Node) FullyOpened() bool {
	return n.initialized && len(n.unopened.moves) == 0 && len(n.edges) > 0
}

// Terminal reports whether the node was initialized against a position with
// no legal moves at all.
func (n *Node) Terminal() bool {
	return n.initialized && n.NumMoves() == 0
}

// initialize populates the node's unopened set from the legal moves at pos,
// computing their priors. It is a no-op if the node was already
// initialized, since a node is visited more than once by the driver.
func (n *Node) initialize(pos *board.Position, evaluator *Evaluator, moves *board.MoveList) {
	if n.initialized {
		return
	}
	n.initialized = true
	n.unopened.moves, n.unopened.expSum = evaluator.computeUnopened(pos, moves)
}

// openChild samples one move out of the unopened set by relative prior,
// removes it, renormalizes the remaining relative priors, creates its edge,
// and appends the edge to n.edges. The caller must ensure the unopened set
// is non-empty.
func (n *Node) openChild(rng *rand.Rand) *Edge {
	moves := n.unopened.moves
	idx := sampleWeighted(rng, n.unopened.expSum, len(moves), func(i int) float64 {
		return moves[i].ExpPrior
	})

	picked := moves[idx]
	n.unopened.moves = append(moves[:idx], moves[idx+1:]...)
	n.unopened.expSum -= picked.ExpPrior

	for i := range n.unopened.moves {
		n.unopened.moves[i].RelativePrior = n.unopened.moves[i].ExpPrior / n.unopened.expSum
	}

	edge := newEdge(picked.Move, picked.AbsolutePrior)
	n.edges = append(n.edges, edge)
	return edge
}

// updateStats folds a visit to one of this node's edges into the node's own
// totals: a visit counter and the running maximum visit count among its
// children, exposed through MaxChildVisits.
func (n *Node) updateStats(edge *Edge) {
	n.totalVisits++
	if edge.numRollouts > n.maxChildVisits {
		n.maxChildVisits = edge.numRollouts
	}
}
