package diagram

import (
	"fmt"
	"strings"

	"github.com/mailmindlin/automatic-carnival/internal/ir"
)

const (
	textColumnWidth = 20
	cellColumnWidth = 4
)

// Row is one line of the timing diagram: the full path of one execution
// instance through the pipeline, indexed by cycle offset from the cycle it
// was fetched in. A negative exID marks a synthetic NOP row spliced in by a
// stall.
type Row struct {
	exID       int
	node       *ir.Node
	startCycle int
	cells      []string

	frozen     bool
	frozenText string
}

func newRow(exID int, node *ir.Node, startCycle int) *Row {
	return &Row{exID: exID, node: node, startCycle: startCycle}
}

// markCycle sets the stage label shown at the given absolute cycle. It is a
// no-op once the row has been frozen: nothing in this reconstructor is
// supposed to mark a row after it has exited or been evicted, but a frozen
// row ignoring a stray mark is cheaper than asserting against it.
func (r *Row) markCycle(cycle int, label string) {
	if r.frozen {
		return
	}
	offset := cycle - r.startCycle
	if offset < 0 {
		return
	}
	if len(r.cells) <= offset {
		grown := make([]string, offset+1)
		copy(grown, r.cells)
		r.cells = grown
	}
	r.cells[offset] = label
}

// freeze renders the row once and caches the result, so later history
// mutations (NOP splicing ahead of other rows) can never change what an
// already-exited row prints.
func (r *Row) freeze(width int) {
	if r.frozen {
		return
	}
	r.frozenText = r.render(width)
	r.frozen = true
}

// render produces this row's line of the fixed-width grid: a 20-column
// left-aligned instruction text followed by width four-column cells, each
// holding a stage label or "." for an empty slot.
func (r *Row) render(width int) string {
	if r.frozen {
		return r.frozenText
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-*s", textColumnWidth, r.node.String())
	for col := 0; col < width; col++ {
		label := "."
		if col >= r.startCycle {
			offset := col - r.startCycle
			if offset < len(r.cells) && r.cells[offset] != "" {
				label = r.cells[offset]
			}
		}
		fmt.Fprintf(&sb, "%-*s", cellColumnWidth, label)
	}
	return sb.String()
}
