package mcts

// MaxPly bounds the depth of a single search descent: the scratch undo-info
// stack and the parent-history stack the driver walks are both sized to it.
const MaxPly = 128

// mateScore is the evaluation magnitude assigned to a position with no legal
// response while in check, i.e. checkmate.
const mateScore = 30000

// Tuning defaults for the UCT selector and the edge scoring blend. These
// mirror the values this driver's scoring formula was adapted from; cPUCT
// and alpha are the fork's own chosen defaults, pvThreshold and evalWeight
// are carried over unchanged.
const (
	defaultCPUCT      = 0.01
	defaultAlpha      = 0.5
	defaultEvalWeight = 0.2
	defaultPVThreshold = 7
)
