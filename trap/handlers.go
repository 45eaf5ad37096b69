package trap

import (
	"github.com/clktmr/mipstrap/cpu"
	"github.com/clktmr/mipstrap/exc"
	"github.com/clktmr/mipstrap/irq"
	"github.com/clktmr/mipstrap/istate"
)

// skipBreakpoint resumes after the BREAK instruction. Returning to it would
// raise the exception again.
type skipBreakpoint struct{}

func (skipBreakpoint) HandleException(n cpu.ExcCode, st *istate.State) {
	st.SkipInstruction()
}

// debuggerBreakpoint hands breakpoints to the kernel debugger.
type debuggerBreakpoint struct {
	dbg   Debugger
	table *exc.Table
}

func (h *debuggerBreakpoint) HandleException(n cpu.ExcCode, st *istate.State) {
	if !h.dbg.OnBreakpoint(st) {
		h.table.Unhandled(n, st)
	}
}

// reservedInstr implements the syscall shortcut. User space executes a
// reserved opcode and expects the kernel's answer in v1, which the kernel
// left in k1.
type reservedInstr struct {
	opcode uint32
	mem    Memory
	sched  Scheduler
	table  *exc.Table
}

func (h *reservedInstr) HandleException(n cpu.ExcCode, st *istate.State) {
	insn, err := h.mem.FetchInstruction(st.EPC)
	if err != nil || insn != h.opcode {
		h.table.Unhandled(n, st)
		return
	}
	if h.sched.CurrentThread() == nil {
		h.table.Policy().BadTrap(n, st, "Syscall shortcut taken without a current thread.")
		return
	}
	st.SkipInstruction()
	st.V1 = st.K1
}

// tlbFault routes TLB exceptions to the MMU.
type tlbFault struct {
	kind  TLBFault
	mmu   MMU
	table *exc.Table
}

func (h *tlbFault) HandleException(n cpu.ExcCode, st *istate.State) {
	if !h.mmu.ResolveTLBFault(h.kind, st) {
		h.table.Unhandled(n, st)
	}
}

// lazyFPU restores the FPU context on the first FPU instruction after a
// context switch.
type lazyFPU struct {
	cop   int
	cpu   cpu.CPU
	sched Scheduler
	table *exc.Table
}

func (h *lazyFPU) HandleException(n cpu.ExcCode, st *istate.State) {
	if h.cpu.ReadCause().CopErr() != h.cop {
		h.table.Policy().Fault(n, st, "Unhandled Coprocessor Unusable Exception.")
		return
	}
	t := h.sched.CurrentThread()
	if t == nil {
		h.table.Policy().BadTrap(n, st, "FPU used without a current thread.")
		return
	}
	h.sched.RequestLazyFPURestore(t)
}

// syscallTrap rejects the SYSCALL instruction, syscalls must use the
// shortcut.
type syscallTrap struct {
	table *exc.Table
}

func (h *syscallTrap) HandleException(n cpu.ExcCode, st *istate.State) {
	h.table.Policy().Fault(n, st, "Syscall is handled through shortcut.")
}

// interrupt services all pending interrupt lines.
type interrupt struct {
	cpu  cpu.CPU
	irqs *irq.Registry
}

func (h *interrupt) HandleException(n cpu.ExcCode, st *istate.State) {
	h.irqs.FanOut(h.cpu.ID(), h.cpu.ReadCause().Pending())
}
