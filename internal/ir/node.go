package ir

import "fmt"

// Node is one decoded assembly line. It is immutable after construction;
// the decoder is the only producer and the core only ever reads it.
type Node struct {
	Text      string   // original source text, empty if synthesized (e.g. inserted NOPs)
	Label     string   // label attached to this line, empty if none
	Inst      Opcode
	Rd        Register // arithmetic/immediate form only
	Rs        Register // arithmetic/immediate/branch form
	Rt        Register // arithmetic/branch form
	Immediate int      // immediate form only
	Target    string // branch form only
}

// NewNOP builds the synthetic NOP node used for diagram stall-insertion
// rows; it carries no operands.
func NewNOP() *Node {
	return &Node{Text: "nop", Inst: NOP}
}

// String reconstructs the assembly text for this node, matching the form
// the instruction was decoded from.
func (n *Node) String() string {
	if n.Text != "" {
		return n.Text
	}
	switch {
	case n.Inst == NOP:
		return "nop"
	case n.Inst.IsArithmetic():
		return fmt.Sprintf("%s %s,%s,%s", n.Inst, n.Rd, n.Rs, n.Rt)
	case n.Inst.IsImmediate():
		return fmt.Sprintf("%s %s,%s,%d", n.Inst, n.Rd, n.Rs, n.Immediate)
	case n.Inst.IsBranch():
		return fmt.Sprintf("%s %s,%s,%s", n.Inst, n.Rs, n.Rt, n.Target)
	default:
		return n.Inst.String()
	}
}
