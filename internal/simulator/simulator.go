// Package simulator drives the CPU core's Cycle() repeatedly, routes every
// emitted event to the diagram reconstructor, and reports per-cycle
// progress back to its caller (normally the CLI, which reprints state
// after every cycle).
package simulator

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mailmindlin/automatic-carnival/internal/config"
	"github.com/mailmindlin/automatic-carnival/internal/cpu"
	"github.com/mailmindlin/automatic-carnival/internal/diagram"
	"github.com/mailmindlin/automatic-carnival/internal/ir"
)

// snapshotRegisters is the curated register list the state printout shows:
// the saved (S0-S7) and temporary (T0-T9) registers, in that order.
var snapshotRegisters = []ir.Register{
	ir.S0, ir.S1, ir.S2, ir.S3, ir.S4, ir.S5, ir.S6, ir.S7,
	ir.T0, ir.T1, ir.T2, ir.T3, ir.T4, ir.T5, ir.T6, ir.T7,
	ir.T8, ir.T9,
}

// Simulator wires the CPU core to the diagram reconstructor and bounds
// progress by a fixed maximum cycle count.
type Simulator struct {
	cpu       *cpu.CPU
	diagram   *diagram.Reconstructor
	maxCycles int

	cyclesRun int
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// New builds a simulator for the given program. forwarding selects whether
// the EX/MEM and MEM/WB bypass paths are active.
func New(instructions []*ir.Node, forwarding bool, cfg *config.Config) *Simulator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Simulator{
		cpu:       cpu.New(instructions, forwarding),
		diagram:   diagram.New(cfg.Width()),
		maxCycles: cfg.MaxCycles,
		stopChan:  make(chan struct{}),
	}
}

// Done reports whether the simulation has nothing left to do: either the
// core has no more in-flight work, or the cycle budget is spent.
func (s *Simulator) Done() bool {
	return s.cyclesRun >= s.maxCycles || !s.cpu.Running()
}

// Step executes exactly one cycle and applies its events to the diagram.
// It is a no-op once Done() is true.
func (s *Simulator) Step() error {
	if s.Done() {
		return nil
	}
	events, err := s.cpu.Cycle()
	s.diagram.Apply(events)
	s.cyclesRun++
	if err != nil {
		return fmt.Errorf("cycle %d: %w", s.cyclesRun, err)
	}
	return nil
}

// Run drives the simulation to completion, calling onCycle after every
// successfully applied cycle so the caller can reprint state. It stops
// early, without error, if Shutdown is called from another goroutine.
func (s *Simulator) Run(onCycle func(*Simulator)) error {
	for !s.Done() {
		select {
		case <-s.stopChan:
			return nil
		default:
		}

		if err := s.Step(); err != nil {
			return err
		}
		if onCycle != nil {
			onCycle(s)
		}
	}
	return nil
}

// Shutdown requests that a concurrently running Run stop before its next
// cycle. Safe to call more than once.
func (s *Simulator) Shutdown() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// CyclesRun returns how many cycles have executed so far.
func (s *Simulator) CyclesRun() int {
	return s.cyclesRun
}

// Diagram renders the timing grid built from every event emitted so far.
func (s *Simulator) Diagram() string {
	return s.diagram.Render()
}

// Register returns the current value of r in the core's register file.
func (s *Simulator) Register(r ir.Register) int {
	return s.cpu.Register(r)
}

// Snapshot renders the curated register table (S0-S7, T0-T9, four per row)
// shown after every cycle.
func (s *Simulator) Snapshot() string {
	var sb strings.Builder
	for i, reg := range snapshotRegisters {
		fmt.Fprintf(&sb, "%s = %d", reg, s.cpu.Register(reg))
		switch {
		case (i+1)%4 == 0 || i == len(snapshotRegisters)-1:
			sb.WriteByte('\n')
		default:
			sb.WriteString("\t\t")
		}
	}
	return sb.String()
}
