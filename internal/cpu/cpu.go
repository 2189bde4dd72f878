// Package cpu implements the five-stage, in-order MIPS pipeline: the
// hazard detector, optional forwarding unit, branch unit, and the event
// emitter the diagram reconstructor consumes. It is strictly
// single-threaded and deterministic; "cycles" are a logical time step, not
// real time.
package cpu

import (
	"github.com/mailmindlin/automatic-carnival/internal/event"
	"github.com/mailmindlin/automatic-carnival/internal/ir"
)

// CPU is the pipeline core: register file, scoreboard, four inter-stage
// latches, and the instruction sequence being executed. The zero value is
// not usable; construct with New.
type CPU struct {
	currentCycle int
	nextExID     event.ExID
	forwarding   bool
	instructions []*ir.Node

	regs  [ir.NumRegisters]int
	avail [ir.NumRegisters]int

	ifid  *ifContext
	idex  *idContext
	exmem *exContext
	memwb *exContext
}

// New builds a CPU ready to execute instructions, with PC at 0 and every
// latch empty. forwarding enables the EX/MEM and MEM/WB bypass paths.
func New(instructions []*ir.Node, forwarding bool) *CPU {
	return &CPU{
		instructions: instructions,
		forwarding:   forwarding,
	}
}

// Cycle executes WB, MEM, EX, ID, IF in that order, then an end-of-cycle
// barrier, and advances currentCycle. The reverse stage order matters: WB
// frees the MEM→WB latch before MEM attempts to advance into it, and so on
// down the pipeline. It returns every event produced, in stage order,
// terminated by an EndOfCycle. The only error it can return is an
// unresolved branch target, which is fatal to the run; in that case the
// events produced before EX are returned without an EndOfCycle and
// currentCycle is not advanced.
func (c *CPU) Cycle() ([]event.Event, error) {
	var events []event.Event

	c.stepWB(&events)
	c.stepMEM(&events)
	if err := c.stepEX(&events); err != nil {
		return events, err
	}
	c.stepID(&events)
	c.stepIF(&events)

	events = append(events, event.NewEndOfCycle(c.currentCycle))
	c.currentCycle++
	return events, nil
}

// Running reports whether the simulation has more work to do: either the
// fetch pointer hasn't run off the end of the program, or some instance is
// still in flight.
func (c *CPU) Running() bool {
	return c.pc() < len(c.instructions) ||
		c.ifid != nil || c.idex != nil || c.exmem != nil || c.memwb != nil
}

// Register returns the current value of r. Reads of ZERO always return 0,
// regardless of any write ever attempted against it.
func (c *CPU) Register(r ir.Register) int {
	if r == ir.ZERO {
		return 0
	}
	return c.regs[r]
}

func (c *CPU) pc() int {
	return c.regs[ir.PC]
}

func (c *CPU) setPC(value int) {
	c.regs[ir.PC] = value
}

// resolveOperand implements the register-read rule of the EX stage: consult
// the scoreboard, and if the value isn't available yet, look for a
// same-cycle forwarding source before giving up and reporting the raw
// availability cycle (which the caller will interpret as a stall).
func (c *CPU) resolveOperand(reg ir.Register) (availableCycle int, value int) {
	available := c.avail[reg]
	stored := c.regs[reg]
	if available <= c.currentCycle {
		return available, stored
	}
	if c.forwarding {
		if c.exmem != nil && c.exmem.rdTarget == reg {
			return c.currentCycle, c.exmem.rdValue
		}
		if c.memwb != nil && c.memwb.rdTarget == reg {
			return c.currentCycle, c.memwb.rdValue
		}
	}
	return available, stored
}

// stepWB commits the write-back: writes the register, and if the
// instruction was a taken branch, flushes the speculative prefix and resets
// the scoreboard before the write happens.
func (c *CPU) stepWB(events *[]event.Event) {
	latch := c.memwb
	if latch == nil {
		return
	}

	rd := latch.rdTarget
	if rd == ir.PC && latch.rdValue != c.pc() {
		if c.idex != nil {
			*events = append(*events, event.NewStageAdvance(c.idex.exID, c.currentCycle, "*"))
			c.idex = nil
		}
		if c.exmem != nil {
			*events = append(*events, event.NewStageAdvance(c.exmem.exID, c.currentCycle, "*"))
			c.exmem = nil
		}
		if c.ifid != nil {
			*events = append(*events, event.NewStageAdvance(c.ifid.exID, c.currentCycle, "*"))
			c.ifid = nil
		}
		for i := range c.avail {
			c.avail[i] = 0
		}
	}

	if rd != ir.ZERO {
		c.regs[rd] = latch.rdValue
	}

	c.memwb = nil
	*events = append(*events, event.NewStageAdvance(latch.exID, c.currentCycle, "WB"))
	*events = append(*events, event.NewPipelineExit(latch.exID, c.currentCycle))
}

// stepMEM is a pure structural pass-through, stalling only if WB hasn't
// freed the MEM→WB latch this cycle.
func (c *CPU) stepMEM(events *[]event.Event) {
	latch := c.exmem
	if latch == nil {
		return
	}
	if c.memwb != nil {
		*events = append(*events, event.NewPipelineStall(latch.exID, c.currentCycle, "EX", 0))
		return
	}
	c.exmem = nil
	c.memwb = latch
	*events = append(*events, event.NewStageAdvance(latch.exID, c.currentCycle, "MEM"))
}

// stepEX resolves operands (with optional forwarding), checks for a data
// hazard, then a structural hazard, and finally executes the opcode,
// including branch target resolution.
func (c *CPU) stepEX(events *[]event.Event) error {
	latch := c.idex
	if latch == nil {
		return nil
	}
	node := latch.node
	inst := node.Inst

	var operandCycle, rsVal, rtVal int
	switch {
	case inst == ir.NOP:
		// no operand reads
	case inst.IsImmediate():
		cyc, val := c.resolveOperand(node.Rs)
		operandCycle, rsVal = cyc, val
		rtVal = node.Immediate
	default: // arithmetic or branch: both read rs and rt
		cyc1, val1 := c.resolveOperand(node.Rs)
		cyc2, val2 := c.resolveOperand(node.Rt)
		rsVal, rtVal = val1, val2
		operandCycle = max(cyc1, cyc2)
	}

	// Without forwarding, a value isn't usable until the cycle after its
	// scoreboard slot opens: the register file write happens in WB, one
	// cycle after the availability cycle recorded in the scoreboard.
	firstReadyCycle := operandCycle
	if !c.forwarding {
		firstReadyCycle = operandCycle + 1
	}
	if firstReadyCycle > c.currentCycle {
		stalls := 0
		if !latch.stalled {
			stalls = firstReadyCycle - c.currentCycle
			latch.stalled = true
		}
		*events = append(*events, event.NewPipelineStall(latch.exID, c.currentCycle, "ID", stalls))
		return nil
	}

	if c.exmem != nil {
		*events = append(*events, event.NewPipelineStall(latch.exID, c.currentCycle, "ID", 0))
		return nil
	}

	result := execute(inst, rsVal, rtVal)
	rdTarget := ir.ZERO
	rdValue := result

	switch {
	case inst.IsArithmetic() || inst.IsImmediate():
		rdTarget = node.Rd
		// $zero never acquires a scoreboard lock: it is always available,
		// so a later reader must never stall waiting on a write to it.
		if rdTarget != ir.ZERO {
			c.avail[rdTarget] = max(c.avail[rdTarget], c.currentCycle+2)
		}
	case inst.IsBranch():
		if result != 0 {
			target, ok := resolveLabel(c.instructions, node.Target)
			if !ok {
				return &UnresolvedLabelError{Label: node.Target}
			}
			rdValue = target
			rdTarget = ir.PC
		} else {
			rdValue = 0
			rdTarget = ir.ZERO
		}
	}

	c.idex = nil
	c.exmem = &exContext{exID: latch.exID, node: node, rdValue: rdValue, rdTarget: rdTarget}
	*events = append(*events, event.NewStageAdvance(latch.exID, c.currentCycle, "EX"))
	return nil
}

// stepID decodes the write target and moves the instruction into ID→EX, or
// holds if that latch is still occupied.
func (c *CPU) stepID(events *[]event.Event) {
	latch := c.ifid
	if latch == nil {
		return
	}
	if c.idex != nil {
		*events = append(*events, event.NewPipelineStall(latch.exID, c.currentCycle, "IF", 0))
		return
	}

	node := latch.node
	rdTarget := ir.ZERO
	switch {
	case node.Inst.IsArithmetic() || node.Inst.IsImmediate():
		rdTarget = node.Rd
	case node.Inst.IsBranch():
		rdTarget = ir.PC
	}

	c.ifid = nil
	c.idex = &idContext{exID: latch.exID, node: node, rdTarget: rdTarget}
	*events = append(*events, event.NewStageAdvance(latch.exID, c.currentCycle, "ID"))
}

// stepIF fetches the next instruction if there's room and the program
// isn't exhausted.
func (c *CPU) stepIF(events *[]event.Event) {
	if c.ifid != nil {
		return
	}
	pc := c.pc()
	if pc >= len(c.instructions) {
		return
	}

	node := c.instructions[pc]
	exID := c.nextExID
	c.nextExID++
	c.setPC(pc + 1)

	c.ifid = &ifContext{exID: exID, node: node}
	*events = append(*events, event.NewInstructionFetch(exID, c.currentCycle, node))
}
