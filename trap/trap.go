// Package trap installs the MIPS32 exception handlers and provides the entry
// point called by the trap trampoline.
//
// The trampoline saves the interrupted context to an istate.State, calls
// Exception with the exception code from the Cause register and afterwards
// restores the possibly modified frame and returns to its EPC.
package trap

import (
	"github.com/sirupsen/logrus"

	"github.com/clktmr/mipstrap/config"
	"github.com/clktmr/mipstrap/cpu"
	"github.com/clktmr/mipstrap/debug"
	"github.com/clktmr/mipstrap/exc"
	"github.com/clktmr/mipstrap/irq"
	"github.com/clktmr/mipstrap/istate"
)

// Deps are the kernel services used by the handlers.
type Deps struct {
	CPU       cpu.CPU
	Scheduler Scheduler
	MMU       MMU
	Memory    Memory

	// Debugger is optional. Breakpoints are only forwarded to it if the
	// debug option is set.
	Debugger Debugger
}

// Dispatcher owns the exception table and the interrupt registry.
type Dispatcher struct {
	cfg   config.Config
	cpu   cpu.CPU
	table *exc.Table
	irqs  *irq.Registry
}

// Init builds the exception table. All codes start out unhandled, then the
// handlers selected by cfg are installed.
func Init(cfg config.Config, p *exc.Policy, deps Deps) *Dispatcher {
	debug.Assert(deps.CPU != nil, "trap: missing CPU")
	debug.Assert(deps.Scheduler != nil, "trap: missing scheduler")
	debug.Assert(deps.MMU != nil, "trap: missing MMU")
	debug.Assert(deps.Memory != nil, "trap: missing memory")
	debug.Assert(p.Tasks != nil, "trap: missing task terminator")
	debug.Assert(p.Halter != nil, "trap: missing halter")

	d := &Dispatcher{
		cfg:   cfg,
		cpu:   deps.CPU,
		table: exc.NewTable(p),
		irqs:  irq.NewRegistry(p.Logger(), cfg.Debug),
	}
	t := d.table

	var bp exc.Handler = skipBreakpoint{}
	if cfg.Debug && deps.Debugger != nil {
		bp = &debuggerBreakpoint{dbg: deps.Debugger, table: t}
	}
	t.Register(cpu.Bp, "bkpoint", true, bp)
	t.Register(cpu.RI, "resinstr", true, &reservedInstr{
		opcode: cfg.ShortcutOpcode,
		mem:    deps.Memory,
		sched:  deps.Scheduler,
		table:  t,
	})
	t.Register(cpu.Mod, "tlb_mod", true, &tlbFault{kind: TLBModified, mmu: deps.MMU, table: t})
	t.Register(cpu.TLBL, "tlbinvl", true, &tlbFault{kind: TLBInvalidLoad, mmu: deps.MMU, table: t})
	t.Register(cpu.TLBS, "tlbinvs", true, &tlbFault{kind: TLBInvalidStore, mmu: deps.MMU, table: t})
	t.Register(cpu.Int, "interrupt", true, &interrupt{cpu: deps.CPU, irqs: d.irqs})
	if cfg.LazyFPU {
		t.Register(cpu.CpU, "cpunus", true, &lazyFPU{
			cop:   cfg.FPUCop,
			cpu:   deps.CPU,
			sched: deps.Scheduler,
			table: t,
		})
	}
	t.Register(cpu.Sys, "syscall", true, &syscallTrap{table: t})

	p.Logger().WithField("options", cfg.String()).Debug("exception handlers installed")
	return d
}

// Config returns the configuration the handlers were selected with.
func (d *Dispatcher) Config() config.Config { return d.cfg }

func (d *Dispatcher) Table() *exc.Table { return d.table }

func (d *Dispatcher) IRQ() *irq.Registry { return d.irqs }

// Seal ends bring-up, see exc.Table.Seal.
func (d *Dispatcher) Seal() {
	unbound := d.table.Seal()
	names := make([]string, len(unbound))
	for i, n := range unbound {
		names[i] = n.String()
	}
	d.table.Policy().Logger().WithFields(logrus.Fields{
		"unbound": names,
	}).Debug("exception table sealed")
}

// Exception is the entry point of the trap trampoline.
func (d *Dispatcher) Exception(n cpu.ExcCode, st *istate.State) {
	d.table.Dispatch(n, st)
}

// Trap reads the exception code from the Cause register of the current CPU
// and dispatches it.
func (d *Dispatcher) Trap(st *istate.State) {
	d.Exception(d.cpu.ReadCause().ExcCode(), st)
}
