// Package parser turns MIPS assembly text into the ordered sequence of
// instruction nodes the CPU core consumes as an indexable sequence. The
// grammar is a single line-anchored regular expression.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mailmindlin/automatic-carnival/internal/ir"
)

// ParseError reports a line that didn't match the instruction grammar, used
// an unknown register or mnemonic, or had a malformed immediate.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d (%q): %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

const registerPattern = `\$(?:\d{1,2}|zero|a[t0-3]|[kv][01]|t[0-9]|s[0-7]|[gsf]p|ra)`

var linePattern = regexp.MustCompile(
	`^(?:(?P<label>\w+)\s*:)?\s*(?P<inst>\w+)\s+` +
		`(?P<arg1>` + registerPattern + `)\s*,\s*` +
		`(?P<arg2>` + registerPattern + `)\s*,\s*` +
		`(?:(?P<arg3>` + registerPattern + `)|(?P<immediate>\d+)|(?P<target>\w+))\s*$`,
)

var instructionLUT = map[string]ir.Opcode{
	"add": ir.ADD, "addi": ir.ADDI,
	"and": ir.AND, "andi": ir.ANDI,
	"or": ir.OR, "ori": ir.ORI,
	"slt": ir.SLT, "slti": ir.SLTI,
	"beq": ir.BEQ, "bne": ir.BNE,
}

var registerLUT = buildRegisterLUT()

// buildRegisterLUT combines the ABI register names (the exhaustive table
// the grammar's named-register alternative recognizes) with the numeric
// $0..$31 aliases spec's input format also allows.
func buildRegisterLUT() map[string]ir.Register {
	m := map[string]ir.Register{
		"$zero": ir.ZERO, "$at": ir.AT, "$v0": ir.V0, "$v1": ir.V1,
		"$a0": ir.A0, "$a1": ir.A1, "$a2": ir.A2, "$a3": ir.A3,
		"$t0": ir.T0, "$t1": ir.T1, "$t2": ir.T2, "$t3": ir.T3,
		"$t4": ir.T4, "$t5": ir.T5, "$t6": ir.T6, "$t7": ir.T7,
		"$s0": ir.S0, "$s1": ir.S1, "$s2": ir.S2, "$s3": ir.S3,
		"$s4": ir.S4, "$s5": ir.S5, "$s6": ir.S6, "$s7": ir.S7,
		"$t8": ir.T8, "$t9": ir.T9, "$k0": ir.K0, "$k1": ir.K1,
		"$gp": ir.GP, "$sp": ir.SP, "$fp": ir.FP, "$ra": ir.RA,
	}
	for i := 0; i < ir.NumRegisters-1; i++ { // exclude PC: never named in source
		m[fmt.Sprintf("$%d", i)] = ir.Register(i)
	}
	return m
}

// Decode parses src line by line and returns the program's instruction
// nodes in source order. Blank lines are skipped; any other line that
// doesn't match the grammar, or names an unknown register or mnemonic,
// produces a *ParseError naming the offending line.
func Decode(src string) ([]*ir.Node, error) {
	lines := strings.Split(src, "\n")
	nodes := make([]*ir.Node, 0, len(lines))
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		node, err := decodeLine(line)
		if err != nil {
			return nil, &ParseError{Line: i + 1, Text: line, Err: err}
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func decodeLine(line string) (*ir.Node, error) {
	match := linePattern.FindStringSubmatch(line)
	if match == nil {
		return nil, fmt.Errorf("does not match instruction grammar")
	}
	groups := namedGroups(match)

	opcode, ok := instructionLUT[groups["inst"]]
	if !ok {
		return nil, fmt.Errorf("unknown instruction: %q", groups["inst"])
	}

	arg1, err := lookupRegister(groups["arg1"])
	if err != nil {
		return nil, err
	}
	arg2, err := lookupRegister(groups["arg2"])
	if err != nil {
		return nil, err
	}

	label := groups["label"]

	switch {
	case opcode.IsArithmetic():
		if groups["arg3"] == "" {
			return nil, fmt.Errorf("%s requires a third register operand", opcode)
		}
		arg3, err := lookupRegister(groups["arg3"])
		if err != nil {
			return nil, err
		}
		return &ir.Node{Text: line, Label: label, Inst: opcode, Rd: arg1, Rs: arg2, Rt: arg3}, nil

	case opcode.IsImmediate():
		immText := groups["immediate"]
		if immText == "" {
			return nil, fmt.Errorf("%s requires an immediate operand", opcode)
		}
		immediate, err := strconv.Atoi(immText)
		if err != nil {
			return nil, fmt.Errorf("unable to parse immediate %q: %w", immText, err)
		}
		return &ir.Node{Text: line, Label: label, Inst: opcode, Rd: arg1, Rs: arg2, Immediate: immediate}, nil

	case opcode.IsBranch():
		target := groups["target"]
		if target == "" {
			return nil, fmt.Errorf("%s requires a branch target", opcode)
		}
		return &ir.Node{Text: line, Label: label, Inst: opcode, Rs: arg1, Rt: arg2, Target: target}, nil

	default:
		return nil, fmt.Errorf("unsupported instruction form: %s", opcode)
	}
}

func lookupRegister(name string) (ir.Register, error) {
	reg, ok := registerLUT[name]
	if !ok {
		return 0, fmt.Errorf("unknown register: %q", name)
	}
	return reg, nil
}

func namedGroups(match []string) map[string]string {
	groups := make(map[string]string, len(match))
	for i, name := range linePattern.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		groups[name] = match[i]
	}
	return groups
}
