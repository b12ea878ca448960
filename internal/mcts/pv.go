package mcts

import (
	"fmt"
	"math"
	"strings"

	"github.com/chesswright/mctschess/internal/eval"
)

// Info is a snapshot of search progress formatted as a UCI info line's
// fields. String renders it in UCI wire format.
type Info struct {
	Depth    int
	SelDepth int
	Score    string // "cp <n>" or "mate <n>"
	Nodes    int
	NPS      int
	TBHits   int
	TimeMS   int64
	PV       []string
}

// String formats Info as one UCI info line.
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "info depth %d seldepth %d multipv 1 score %s nodes %d nps %d tbhits %d time %d",
		i.Depth, i.SelDepth, i.Score, i.Nodes, i.NPS, i.TBHits, i.TimeMS)
	if len(i.PV) > 0 {
		b.WriteString(" pv")
		for _, m := range i.PV {
			b.WriteByte(' ')
			b.WriteString(m)
		}
	}
	return b.String()
}

// BuildPVInfo is mcts_pv_print: it walks the most-visited path from root and
// formats a UCI info line, returning ok=false (the empty-string case) when
// the root has fewer than pv_threshold total visits or the resulting PV is
// too short to be meaningful. Used both for the driver's periodic progress
// lines and its final report.
func BuildPVInfo(root *Node, nodes int, tc *TimeController) (Info, bool) {
	pv, depth := walkPV(root, tc.PVThreshold)
	if depth <= 1 {
		return Info{}, false
	}
	return info(root, pv, depth, nodes, tc), true
}

func info(root *Node, pv []string, depth, nodes int, tc *TimeController) Info {
	elapsed := tc.Elapsed()
	nps := 0
	if elapsed > 0 {
		nps = int(float64(nodes) / elapsed.Seconds())
	}

	score := "cp 0"
	if best := SelectBest(root); best != nil {
		score = formatScore(best.OverallEval())
	}

	return Info{
		Depth:    depth,
		SelDepth: depth,
		Score:    score,
		Nodes:    nodes,
		NPS:      nps,
		TBHits:   tc.tbHits,
		TimeMS:   elapsed.Milliseconds(),
		PV:       pv,
	}
}

// walkPV walks from root, re-checking at *every* step (root included) that
// the current node has accrued at least pvThreshold total visits and is
// fully opened before trusting its most-visited edge. The walk stops the
// instant either check fails, mirroring the per-call guard at the top of
// the engine's own recursive mctsPv rather than only gating once at the
// root.
func walkPV(node *Node, pvThreshold int) ([]string, int) {
	var moves []string
	for node.totalVisits >= pvThreshold && node.FullyOpened() && len(moves) < MaxPly {
		best := node.edges[0]
		for _, e := range node.edges[1:] {
			if e.numRollouts > best.numRollouts {
				best = e
			}
		}
		moves = append(moves, best.move.String())
		node = best.child
	}
	return moves, len(moves)
}

// formatScore converts an edge's overall_eval, which lives on the sigmoid's
// [-1, 1] scale, back to a UCI score field via the sigmoid's inverse. Values
// saturated at (or beyond) the sigmoid's mate threshold are reported as a
// mate score instead of centipawns.
func formatScore(v float64) string {
	if v >= 1 {
		return "mate 1"
	}
	if v <= -1 {
		return "mate -1"
	}
	// Inverse of eval_result = 2/(1+exp(-k*cp/PawnValue)) - 1.
	cp := -math.Log(2/(v+1)-1) * eval.PawnValue / sigmoidSlope
	return fmt.Sprintf("cp %d", int(cp))
}
