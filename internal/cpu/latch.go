package cpu

import (
	"github.com/mailmindlin/automatic-carnival/internal/event"
	"github.com/mailmindlin/automatic-carnival/internal/ir"
)

// ifContext is the IF→ID latch payload: an instruction that has been
// fetched but not yet decoded.
type ifContext struct {
	exID event.ExID
	node *ir.Node
}

// idContext is the ID→EX latch payload. rdTarget is decided in ID
// (tentatively PC for a branch; downgraded to ZERO in EX if not taken).
// stalled records whether this instance has already reported the
// stall-count for its current hazard episode, so a multi-cycle stall emits
// the NOP-inserting event exactly once.
type idContext struct {
	exID     event.ExID
	node     *ir.Node
	rdTarget ir.Register
	stalled  bool
}

// exContext is the payload shared by the EX→MEM and MEM→WB latches: a
// computed result and the register it will write.
type exContext struct {
	exID     event.ExID
	node     *ir.Node
	rdValue  int
	rdTarget ir.Register
}
