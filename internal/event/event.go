// Package event defines the tagged-variant stream the CPU core emits once
// per cycle. Each variant describes what happened to one in-flight
// execution instance; the diagram reconstructor is the sole consumer.
package event

import "github.com/mailmindlin/automatic-carnival/internal/ir"

// ExID identifies one execution instance: a single traversal of one
// instruction through the pipeline. Assigned densely and monotonically at
// IF; never recycled. Synthetic diagram rows (inserted NOPs) use negative
// ids, which never collide with a real one.
type ExID int

// Event is the sealed interface implemented by every event variant. Cycle
// reports the simulation cycle in which the event was produced.
type Event interface {
	Cycle() int
}

type base struct {
	CycleNum int
}

func (b base) Cycle() int { return b.CycleNum }

// InstructionFetch is emitted when an instruction enters the IF stage.
type InstructionFetch struct {
	base
	ExID ExID
	Node *ir.Node
}

// StageAdvance is emitted when an instruction moves into a new stage. Stage
// is one of "ID", "EX", "MEM", "WB", or "*" for a squashed advance (a
// younger instance cleared out of its latch by a taken branch).
type StageAdvance struct {
	base
	ExID  ExID
	Stage string
}

// PipelineStall is emitted when an instance cannot advance this cycle: a
// structural hold (its next latch is occupied) or a data hazard (an
// operand isn't available yet). Stalls is nonzero only the first time a
// given hazard episode is reported, and requests that many synthetic NOP
// rows be spliced into the diagram immediately before this instance's row.
type PipelineStall struct {
	base
	ExID   ExID
	Stage  string
	Stalls int
}

// PipelineExit is emitted when an instance completes WB and leaves the
// pipeline for good.
type PipelineExit struct {
	base
	ExID ExID
}

// EndOfCycle is emitted exactly once per cycle, after all five stages have
// run, as a barrier the reconstructor uses to mark instances that received
// no other event this cycle.
type EndOfCycle struct {
	base
}

func NewInstructionFetch(exID ExID, cycle int, node *ir.Node) InstructionFetch {
	return InstructionFetch{base: base{cycle}, ExID: exID, Node: node}
}

func NewStageAdvance(exID ExID, cycle int, stage string) StageAdvance {
	return StageAdvance{base: base{cycle}, ExID: exID, Stage: stage}
}

func NewPipelineStall(exID ExID, cycle int, stage string, stalls int) PipelineStall {
	return PipelineStall{base: base{cycle}, ExID: exID, Stage: stage, Stalls: stalls}
}

func NewPipelineExit(exID ExID, cycle int) PipelineExit {
	return PipelineExit{base: base{cycle}, ExID: exID}
}

func NewEndOfCycle(cycle int) EndOfCycle {
	return EndOfCycle{base: base{cycle}}
}
