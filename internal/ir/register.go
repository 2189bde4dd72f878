// Package ir holds the decoded representation of a MIPS assembly program:
// registers, opcodes, and the instruction nodes the decoder produces.
package ir

import "fmt"

// Register is a closed enumeration of the 32 general-purpose MIPS registers,
// of which ZERO is hard-wired to zero, plus the PC pseudo-register (the
// fetch pointer) used only by the pipeline core. Values 0..31 match the
// MIPS ABI.
type Register uint8

const (
	ZERO Register = iota
	AT
	V0
	V1
	A0
	A1
	A2
	A3
	T0
	T1
	T2
	T3
	T4
	T5
	T6
	T7
	S0
	S1
	S2
	S3
	S4
	S5
	S6
	S7
	T8
	T9
	K0
	K1
	GP
	SP
	FP
	RA

	// PC is the program counter pseudo-register. It is never named by
	// assembly text; only branch resolution writes to it.
	PC
)

// NumRegisters is the size of the closed register-id space (32 GPRs + PC),
// used to size fixed-width register file and scoreboard arrays.
const NumRegisters = int(PC) + 1

var registerNames = [NumRegisters]string{
	ZERO: "zero", AT: "at", V0: "v0", V1: "v1",
	A0: "a0", A1: "a1", A2: "a2", A3: "a3",
	T0: "t0", T1: "t1", T2: "t2", T3: "t3", T4: "t4", T5: "t5", T6: "t6", T7: "t7",
	S0: "s0", S1: "s1", S2: "s2", S3: "s3", S4: "s4", S5: "s5", S6: "s6", S7: "s7",
	T8: "t8", T9: "t9", K0: "k0", K1: "k1",
	GP: "gp", SP: "sp", FP: "fp", RA: "ra",
	PC: "pc",
}

// String returns the register's assembly-text form (e.g. "$t0"), except PC
// which is never spelled in source and renders as a bare name.
func (r Register) String() string {
	if int(r) >= NumRegisters {
		return fmt.Sprintf("$?%d", uint8(r))
	}
	if r == PC {
		return "pc"
	}
	return "$" + registerNames[r]
}
