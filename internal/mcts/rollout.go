package mcts

import (
	"math/rand"

	"github.com/chesswright/mctschess/internal/board"
	"github.com/chesswright/mctschess/internal/tablebase"
)

// rollout plays a soft-policy simulated game forward from pos until the
// classifier reports a terminal result or the scratch-state budget runs
// out, then undoes every move it played so pos is restored bit-exactly. The
// result is reported from the perspective of the side to move when rollout
// was called; the caller negates it on each step of the back-propagation
// walk.
//
// Moves are sampled by absolute prior rather than uniformly: aligning the
// playout distribution with the static evaluator sharpens the Monte Carlo
// signal at small iteration budgets.
func rollout(pos *board.Position, evaluator *Evaluator, prober tablebase.Prober, rng *rand.Rand, opts Options) PlayingResult {
	var playedMoves [MaxPly]board.Move
	var playedUndo [MaxPly]board.UndoInfo
	depth := 0

	moves := pos.GenerateLegalMoves()
	result := classify(pos, moves, prober, opts)

	for result == Continue {
		unopened, expSum := evaluator.computeUnopened(pos, moves)

		idx := sampleWeighted(rng, expSum, len(unopened), func(i int) float64 {
			return unopened[i].ExpPrior
		})
		move := unopened[idx].Move

		playedMoves[depth] = move
		playedUndo[depth] = pos.MakeMove(move)
		depth++

		if depth >= MaxPly {
			result = Tie
			break
		}

		moves = pos.GenerateLegalMoves()
		result = classify(pos, moves, prober, opts)
	}

	for i := depth - 1; i >= 0; i-- {
		pos.UnmakeMove(playedMoves[i], playedUndo[i])
	}

	return result
}
