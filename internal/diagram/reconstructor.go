// Package diagram assembles the CPU core's event stream into the canonical
// per-cycle timing grid, including retroactively inserting NOP rows at the
// point a stall first manifested.
package diagram

import (
	"fmt"
	"strings"

	"github.com/mailmindlin/automatic-carnival/internal/event"
	"github.com/mailmindlin/automatic-carnival/internal/ir"
)

// Reconstructor maintains one row per execution instance and renders them
// as a fixed-width text grid. Width is the diagram's cycle-column count.
type Reconstructor struct {
	width       int
	history     []*Row
	current     map[int]*Row
	cycleMissed map[int]bool
	nextFakeID  int
}

// New creates a reconstructor for a diagram width columns wide.
func New(width int) *Reconstructor {
	return &Reconstructor{
		width:       width,
		current:     make(map[int]*Row),
		cycleMissed: make(map[int]bool),
		nextFakeID:  -1,
	}
}

// Apply feeds one cycle's worth of events through the reconstructor, in the
// order the core emitted them.
func (r *Reconstructor) Apply(events []event.Event) {
	for _, e := range events {
		r.applyOne(e)
	}
}

func (r *Reconstructor) applyOne(e event.Event) {
	switch ev := e.(type) {
	case event.InstructionFetch:
		row := newRow(int(ev.ExID), ev.Node, ev.Cycle())
		row.markCycle(ev.Cycle(), "IF")
		r.history = append(r.history, row)
		r.current[int(ev.ExID)] = row

	case event.StageAdvance:
		row := r.current[int(ev.ExID)]
		delete(r.cycleMissed, int(ev.ExID))
		row.markCycle(ev.Cycle(), ev.Stage)

	case event.PipelineStall:
		row := r.current[int(ev.ExID)]
		delete(r.cycleMissed, int(ev.ExID))
		row.markCycle(ev.Cycle(), ev.Stage)
		if ev.Stalls > 0 {
			r.insertNOPs(row, ev.Stalls)
		}

	case event.PipelineExit:
		row := r.current[int(ev.ExID)]
		delete(r.current, int(ev.ExID))
		delete(r.cycleMissed, int(ev.ExID))
		row.freeze(r.width)

	case event.EndOfCycle:
		for id := range r.cycleMissed {
			row := r.current[id]
			row.markCycle(ev.Cycle(), "*")
			if row.startCycle <= ev.Cycle()-4 {
				delete(r.current, id)
				row.freeze(r.width)
			}
		}
		r.cycleMissed = make(map[int]bool, len(r.current))
		for id := range r.current {
			r.cycleMissed[id] = true
		}

	default:
		panic(fmt.Sprintf("diagram: unknown event type %T", e))
	}
}

// insertNOPs splices count freshly-minted NOP rows into history immediately
// before row, each with its own negative execution id so they never
// collide with a real one.
func (r *Reconstructor) insertNOPs(row *Row, count int) {
	for i := 0; i < count; i++ {
		nopRow := newRow(r.nextFakeID, ir.NewNOP(), row.startCycle)
		r.nextFakeID--
		nopRow.markCycle(row.startCycle, "IF")
		nopRow.markCycle(row.startCycle+1, "ID")

		idx := r.indexOf(row)
		r.history = append(r.history, nil)
		copy(r.history[idx+1:], r.history[idx:])
		r.history[idx] = nopRow

		r.current[nopRow.exID] = nopRow
		r.cycleMissed[nopRow.exID] = true
	}
}

func (r *Reconstructor) indexOf(row *Row) int {
	for i, candidate := range r.history {
		if candidate == row {
			return i
		}
	}
	return len(r.history)
}

// RowCount returns the number of rows in the diagram, real and synthetic.
func (r *Reconstructor) RowCount() int {
	return len(r.history)
}

// Render prints the header ("CPU Cycles ===>" plus 1-based column numbers)
// followed by one line per row, in history order.
func (r *Reconstructor) Render() string {
	var sb strings.Builder
	sb.WriteString("CPU Cycles ===>     ")
	for i := 1; i <= r.width; i++ {
		fmt.Fprintf(&sb, "%-*d", cellColumnWidth, i)
	}
	sb.WriteByte('\n')
	for _, row := range r.history {
		sb.WriteString(row.render(r.width))
		sb.WriteByte('\n')
	}
	return sb.String()
}
