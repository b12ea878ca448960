package mcts

import "testing"

func TestSelectorTieBrokenByFirstSeen(t *testing.T) {
	s := NewSelector()
	e1 := newEdge(0, 0.5)
	e2 := newEdge(1, 0.5)
	n := &Node{edges: []*Edge{e1, e2}, totalVisits: 1}

	got := s.selectChild(n)
	if got != e1 {
		t.Errorf("selectChild picked the second edge on an exact tie; want the first-seen edge")
	}
}

func TestSelectorPrefersHigherOverallEval(t *testing.T) {
	s := NewSelector()
	e1 := newEdge(0, 0.5)
	e2 := newEdge(1, 0.5)
	e2.overallEval = e1.overallEval + 10

	n := &Node{edges: []*Edge{e1, e2}, totalVisits: 1}
	if got := s.selectChild(n); got != e2 {
		t.Errorf("selectChild did not prefer the edge with a much higher overallEval")
	}
}

func TestSelectorExplorationFavorsUnvisitedEdge(t *testing.T) {
	s := NewSelector()
	e1 := newEdge(0, 0.9) // high prior, never visited
	e2 := newEdge(1, 0.1) // low prior
	e1.overallEval = 0
	e2.overallEval = 0
	// Give e2 many visits so its exploration bonus shrinks relative to e1's.
	for i := 0; i < 50; i++ {
		e2.updateStats(Tie, 0, defaultEvalWeight)
	}

	n := &Node{edges: []*Edge{e1, e2}, totalVisits: 51}
	if got := s.selectChild(n); got != e1 {
		t.Errorf("selectChild should favor the unvisited high-prior edge once the other is well explored")
	}
}
