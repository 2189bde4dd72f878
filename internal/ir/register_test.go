package ir

import "testing"

func TestRegisterString(t *testing.T) {
	tests := []struct {
		name string
		reg  Register
		want string
	}{
		{"zero", ZERO, "$zero"},
		{"s0", S0, "$s0"},
		{"t9", T9, "$t9"},
		{"ra", RA, "$ra"},
		{"pc", PC, "pc"},
		{"out of range", Register(200), "$?200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.reg.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNumRegisters(t *testing.T) {
	if NumRegisters != int(PC)+1 {
		t.Errorf("NumRegisters = %d, want %d", NumRegisters, int(PC)+1)
	}
}
