package ir

import "testing"

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{NOP, "nop"},
		{ADD, "add"},
		{ADDI, "addi"},
		{BEQ, "beq"},
		{Opcode(255), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Opcode(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestOpcodeClassification(t *testing.T) {
	tests := []struct {
		op                                   Opcode
		arithmetic, immediate, branch        bool
	}{
		{NOP, false, false, false},
		{ADD, true, false, false},
		{AND, true, false, false},
		{OR, true, false, false},
		{SLT, true, false, false},
		{ADDI, false, true, false},
		{ANDI, false, true, false},
		{ORI, false, true, false},
		{SLTI, false, true, false},
		{BEQ, false, false, true},
		{BNE, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			if got := tt.op.IsArithmetic(); got != tt.arithmetic {
				t.Errorf("IsArithmetic() = %v, want %v", got, tt.arithmetic)
			}
			if got := tt.op.IsImmediate(); got != tt.immediate {
				t.Errorf("IsImmediate() = %v, want %v", got, tt.immediate)
			}
			if got := tt.op.IsBranch(); got != tt.branch {
				t.Errorf("IsBranch() = %v, want %v", got, tt.branch)
			}
		})
	}
}
