package runtime

// Side is which side of an assignment an expression is being evaluated
// for (spec §4.F.1 "Item"); it changes whether a missing object key is
// an error or an insertion point.
type Side int

const (
	// SideRight is the default: evaluating a value to read.
	SideRight Side = iota
	// SideLeftInsert is the left side of `:=`/`=`; whether a missing
	// object key is inserted rather than erroring is decided by
	// writePath's insert argument, not by the Side.
	SideLeftInsert
)

// FlowKind distinguishes normal continuation from the three ways
// control can escape a block early (spec §4.F.2, §8 "labeled loops").
type FlowKind int

const (
	FlowContinue FlowKind = iota
	FlowReturn
	FlowBreak
	FlowContinueLoop
)

// Flow threads control-flow signals up through block/statement
// evaluation, the Go analogue of the grounding source's Flow enum.
type Flow struct {
	Kind  FlowKind
	Label string // only meaningful for FlowBreak/FlowContinueLoop
}

var ContinueFlow = Flow{Kind: FlowContinue}
var ReturnFlow = Flow{Kind: FlowReturn}

func BreakFlow(label string) Flow    { return Flow{Kind: FlowBreak, Label: label} }
func ContinueLoopFlow(label string) Flow { return Flow{Kind: FlowContinueLoop, Label: label} }

// Escapes reports whether this flow should unwind the current block
// rather than let it fall through to the next statement.
func (f Flow) Escapes() bool { return f.Kind != FlowContinue }

// MatchesLoop reports whether a Break/ContinueLoop with this label
// terminates the given loop label (unlabeled always matches the
// innermost loop; labeled matches only the same label).
func (f Flow) MatchesLoop(loopLabel string) bool {
	return f.Label == "" || f.Label == loopLabel
}
