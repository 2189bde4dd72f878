package cpu

import (
	"fmt"

	"github.com/mailmindlin/automatic-carnival/internal/ir"
)

// execute computes the EX-stage result for inst over operands rs, rt.
// Integer arithmetic here is ordinary Go int arithmetic: the simulator
// makes no claim about overflow trapping, per the core's scope.
func execute(inst ir.Opcode, rs, rt int) int {
	switch inst {
	case ir.ADD, ir.ADDI:
		return rs + rt
	case ir.AND, ir.ANDI:
		return rs & rt
	case ir.OR, ir.ORI:
		return rs | rt
	case ir.SLT, ir.SLTI:
		if rs < rt {
			return 1
		}
		return 0
	case ir.BEQ:
		if rs == rt {
			return 1
		}
		return 0
	case ir.BNE:
		if rs != rt {
			return 1
		}
		return 0
	case ir.NOP:
		return 0
	default:
		// A decoder is only ever supposed to hand the core one of the
		// opcodes above; reaching here means the decoder produced a node
		// the core doesn't understand, which is a programming error.
		panic(fmt.Sprintf("cpu: unknown opcode at EX: %v", inst))
	}
}

// resolveLabel performs the linear scan the core's label resolution is
// specified to do: the first node whose label matches target.
func resolveLabel(instructions []*ir.Node, target string) (int, bool) {
	for i, node := range instructions {
		if node.Label == target {
			return i, true
		}
	}
	return 0, false
}
