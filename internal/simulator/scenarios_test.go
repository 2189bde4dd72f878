package simulator_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mailmindlin/automatic-carnival/internal/config"
	"github.com/mailmindlin/automatic-carnival/internal/cpu"
	"github.com/mailmindlin/automatic-carnival/internal/ir"
	"github.com/mailmindlin/automatic-carnival/internal/parser"
	"github.com/mailmindlin/automatic-carnival/internal/simulator"
)

// newSimulator decodes src and builds a simulator with the diagram pinned
// to exactly width columns, wide enough for the golden comparisons below to
// be exact rather than prefix matches.
func newSimulator(src string, forwarding bool, width int) *simulator.Simulator {
	nodes, err := parser.Decode(src)
	Expect(err).NotTo(HaveOccurred())

	cfg := config.DefaultConfig()
	cfg.MaxCycles = 32
	cfg.DiagramWidth = width
	return simulator.New(nodes, forwarding, cfg)
}

var _ = Describe("Simulator", func() {
	Describe("S1: no hazard, no forwarding", func() {
		It("runs both instructions back to back with no stall", func() {
			sim := newSimulator("add $t0,$zero,$zero\nadd $t1,$zero,$zero\n", false, 8)
			Expect(sim.Run(nil)).To(Succeed())

			Expect(sim.Register(ir.T0)).To(Equal(0))
			Expect(sim.Register(ir.T1)).To(Equal(0))
			Expect(sim.Diagram()).To(Equal(
				"CPU Cycles ===>     1   2   3   4   5   6   7   8   \n" +
					"add $t0,$zero,$zero IF  ID  EX  MEM WB  .   .   .   \n" +
					"add $t1,$zero,$zero .   IF  ID  EX  MEM WB  .   .   \n",
			))
		})
	})

	Describe("S2: RAW hazard, no forwarding", func() {
		It("stalls the dependent instruction two cycles in ID and splices two NOP rows", func() {
			sim := newSimulator("addi $t0,$zero,5\nadd $t1,$t0,$t0\n", false, 10)
			Expect(sim.Run(nil)).To(Succeed())

			Expect(sim.Register(ir.T0)).To(Equal(5))
			Expect(sim.Register(ir.T1)).To(Equal(10))
			Expect(sim.Diagram()).To(Equal(
				"CPU Cycles ===>     1   2   3   4   5   6   7   8   9   10  \n" +
					"addi $t0,$zero,5    IF  ID  EX  MEM WB  .   .   .   .   .   \n" +
					"nop                 .   IF  ID  *   *   *   .   .   .   .   \n" +
					"nop                 .   IF  ID  *   *   *   .   .   .   .   \n" +
					"add $t1,$t0,$t0     .   IF  ID  ID  ID  EX  MEM WB  .   .   \n",
			))
		})
	})

	Describe("S3: RAW hazard, with forwarding", func() {
		It("lets the dependent instruction proceed without a stall", func() {
			sim := newSimulator("addi $t0,$zero,5\nadd $t1,$t0,$t0\n", true, 8)
			Expect(sim.Run(nil)).To(Succeed())

			Expect(sim.Register(ir.T0)).To(Equal(5))
			Expect(sim.Register(ir.T1)).To(Equal(10))
			Expect(sim.Diagram()).To(Equal(
				"CPU Cycles ===>     1   2   3   4   5   6   7   8   \n" +
					"addi $t0,$zero,5    IF  ID  EX  MEM WB  .   .   .   \n" +
					"add $t1,$t0,$t0     .   IF  ID  EX  MEM WB  .   .   \n",
			))

			withoutForwarding := newSimulator("addi $t0,$zero,5\nadd $t1,$t0,$t0\n", false, 10)
			Expect(withoutForwarding.Run(nil)).To(Succeed())
			Expect(sim.CyclesRun()).To(BeNumerically("<", withoutForwarding.CyclesRun()))
		})
	})

	Describe("S4: taken branch flush", func() {
		It("squashes the instruction fetched on the wrong path, terminating its row with *", func() {
			sim := newSimulator(
				"addi $t0,$zero,1\nbeq $t0,$t0,END\naddi $t1,$zero,9\nEND: add $t2,$zero,$zero\n",
				true, 10,
			)
			Expect(sim.Run(nil)).To(Succeed())

			Expect(sim.Register(ir.T1)).To(Equal(0))
			Expect(sim.Register(ir.T2)).To(Equal(0))
			Expect(sim.Diagram()).To(Equal(
				"CPU Cycles ===>     1   2   3   4   5   6   7   8   9   10  \n" +
					"addi $t0,$zero,1    IF  ID  EX  MEM WB  .   .   .   .   .   \n" +
					"beq $t0,$t0,END     .   IF  ID  EX  MEM WB  .   .   .   .   \n" +
					"addi $t1,$zero,9    .   .   IF  ID  EX  *   *   .   .   .   \n" +
					"END: add $t2,$zero,$zero.   .   .   IF  ID  *   *   *   .   .   \n" +
					"END: add $t2,$zero,$zero.   .   .   .   .   IF  ID  EX  MEM WB  \n",
			))
		})
	})

	Describe("S5: not-taken branch", func() {
		It("falls through with no flush; the branch's write to ZERO is discarded", func() {
			sim := newSimulator(
				"bne $zero,$zero,SKIP\naddi $t0,$zero,7\nSKIP: add $t1,$zero,$zero\n",
				true, 8,
			)
			Expect(sim.Run(nil)).To(Succeed())

			Expect(sim.Register(ir.T0)).To(Equal(7))
			Expect(sim.Register(ir.T1)).To(Equal(0))
			Expect(sim.Diagram()).To(Equal(
				"CPU Cycles ===>     1   2   3   4   5   6   7   8   \n" +
					"bne $zero,$zero,SKIPIF  ID  EX  MEM WB  .   .   .   \n" +
					"addi $t0,$zero,7    .   IF  ID  EX  MEM WB  .   .   \n" +
					"SKIP: add $t1,$zero,$zero.   .   IF  ID  EX  MEM WB  .   \n",
			))
		})
	})

	Describe("S6: write to $zero is discarded", func() {
		It("never acquires a scoreboard lock, so the next reader of $zero does not stall", func() {
			sim := newSimulator("add $zero,$zero,$zero\nadd $t0,$zero,$zero\n", true, 8)
			Expect(sim.Run(nil)).To(Succeed())

			Expect(sim.Register(ir.ZERO)).To(Equal(0))
			Expect(sim.Register(ir.T0)).To(Equal(0))
			Expect(sim.Diagram()).To(Equal(
				"CPU Cycles ===>     1   2   3   4   5   6   7   8   \n" +
					"add $zero,$zero,$zeroIF  ID  EX  MEM WB  .   .   .   \n" +
					"add $t0,$zero,$zero .   IF  ID  EX  MEM WB  .   .   \n",
			))
		})
	})

	Describe("unresolved branch target", func() {
		It("surfaces an UnresolvedLabelError from Run", func() {
			sim := newSimulator("beq $zero,$zero,nowhere\n", true, 16)

			err := sim.Run(nil)
			Expect(err).To(HaveOccurred())
			var labelErr *cpu.UnresolvedLabelError
			Expect(errors.As(err, &labelErr)).To(BeTrue())
		})
	})

	Describe("cycle budget", func() {
		It("stops once the configured maximum cycle count is reached", func() {
			nodes, err := parser.Decode("addi $t0,$zero,1\n")
			Expect(err).NotTo(HaveOccurred())

			cfg := config.DefaultConfig()
			cfg.MaxCycles = 2
			sim := simulator.New(nodes, true, cfg)

			Expect(sim.Run(nil)).To(Succeed())
			Expect(sim.CyclesRun()).To(Equal(2))
		})
	})
})
