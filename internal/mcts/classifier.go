package mcts

import (
	"github.com/chesswright/mctschess/internal/board"
	"github.com/chesswright/mctschess/internal/tablebase"
)

// PlayingResult tags how a game at a given node has concluded, from the
// perspective of the side to move there. Continue means the game has not
// ended. The numeric values double as signed rollout outcomes so a
// PlayingResult can be folded directly into an edge's rollout accumulator.
type PlayingResult int

const (
	Lose     PlayingResult = -1
	Tie      PlayingResult = 0
	Win      PlayingResult = 1
	Continue PlayingResult = 2
)

// maxTablebaseCardinality is the hard ceiling on tablebase cardinality: the
// backend this engine probes through never answers for more men than this,
// regardless of the configured SyzygyProbeLimit.
const maxTablebaseCardinality = 7

// classify determines the PlayingResult at pos, consulting the tablebase
// before falling back to rules-engine checks. The order is:
//
//  1. tablebase probe, if a prober is available and the position is within
//     the configured SyzygyProbeLimit (clamped to maxTablebaseCardinality)
//  2. the "promoted pieces" variant rule: if the side to move owns any
//     non-pawn, non-king piece the position is a Win; otherwise, if the
//     opponent owns one, it is a Lose. This is a deliberately simplified,
//     non-standard end-condition; see promotedPiecesResult.
//  3. no legal moves: checkmate (Lose) or stalemate (Tie)
//  4. a rules-engine draw (50-move rule or insufficient material;
//     repetition is not detected)
//  5. otherwise Continue
//
// opts.SyzygyProbeDepth has no effect here, matching the engine this driver's
// tablebase gating is adapted from: its own isInTableBase() sets ProbeDepth
// but never reads it from that call site either, since this simplified probe
// has no search-depth horizon to gate against.
func classify(pos *board.Position, moves *board.MoveList, prober tablebase.Prober, opts Options) PlayingResult {
	limit := opts.SyzygyProbeLimit
	if limit > maxTablebaseCardinality {
		limit = maxTablebaseCardinality
	}
	if prober != nil && prober.Available() && tablebase.CountPieces(pos) <= limit {
		if res := prober.Probe(pos); res.Found {
			switch res.WDL {
			case tablebase.WDLWin:
				return Win
			case tablebase.WDLCursedWin:
				if opts.Syzygy50MoveRule {
					return Tie
				}
				return Win
			case tablebase.WDLLoss:
				return Lose
			case tablebase.WDLBlessedLoss:
				if opts.Syzygy50MoveRule {
					return Tie
				}
				return Lose
			default:
				return Tie
			}
		}
	}

	if result, decided := promotedPiecesResult(pos); decided {
		return result
	}

	if moves.Len() == 0 {
		if pos.InCheck() {
			return Lose
		}
		return Tie
	}

	if pos.IsDraw() {
		return Tie
	}

	return Continue
}

// promotedPiecesResult implements the "promoted pieces" variant rule: a
// piece is considered promoted if it is anything other than a pawn or a
// king. The side to move wins if it has a promoted piece anywhere on the
// board; otherwise it loses if the opponent has one. This is a deliberate
// simplification carried over from the
// fork this engine is based on, not standard chess.
func promotedPiecesResult(pos *board.Position) (PlayingResult, bool) {
	us := pos.SideToMove
	them := us.Other()

	if hasPromotedPiece(pos, us) {
		return Win, true
	}
	if hasPromotedPiece(pos, them) {
		return Lose, true
	}
	return Continue, false
}

func hasPromotedPiece(pos *board.Position, c board.Color) bool {
	for pt := board.Knight; pt < board.King; pt++ {
		if pos.Pieces[c][pt] != 0 {
			return true
		}
	}
	return false
}
