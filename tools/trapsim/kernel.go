package trapsim

import (
	"errors"
	"fmt"
	"io"

	"github.com/clktmr/mipstrap/cpu"
	"github.com/clktmr/mipstrap/istate"
	"github.com/clktmr/mipstrap/trap"
)

var errUnmapped = errors.New("unmapped")

type thread uint64

func (t thread) ID() uint64 { return uint64(t) }

// kernel simulates the services of a kernel for the duration of one trap.
type kernel struct {
	out  io.Writer
	trap *Trap

	// outcome of the current trap
	terminated bool
	halted     bool
}

func (k *kernel) ID() int { return 0 }

func (k *kernel) ReadCause() cpu.Cause { return k.trap.cause() }

func (k *kernel) CurrentThread() trap.Thread {
	if k.trap.NoThread {
		return nil
	}
	return thread(1)
}

func (k *kernel) RequestLazyFPURestore(t trap.Thread) {
	fmt.Fprintf(k.out, "  fpu context of thread %d restored\n", t.ID())
}

func (k *kernel) ResolveTLBFault(kind trap.TLBFault, st *istate.State) bool {
	fmt.Fprintf(k.out, "  tlb %s fault at %#08x resolved: %v\n", kind, st.EPC, k.trap.TLBResolves)
	return k.trap.TLBResolves
}

func (k *kernel) OnBreakpoint(st *istate.State) bool {
	fmt.Fprintf(k.out, "  debugger breakpoint at %#08x handled: %v\n", st.EPC, k.trap.Debugger)
	return k.trap.Debugger
}

func (k *kernel) FetchInstruction(addr uint32) (uint32, error) {
	if k.trap.Opcode == nil || addr != k.trap.EPC {
		return 0, errUnmapped
	}
	return *k.trap.Opcode, nil
}

func (k *kernel) TerminateCurrentTask(reason string) {
	k.terminated = true
	fmt.Fprintf(k.out, "  task terminated: %s\n", reason)
}

// Halt can't stop the simulation, it only records the halt. The next trap
// starts from a fresh frame.
func (k *kernel) Halt(reason string, st *istate.State) {
	k.halted = true
	fmt.Fprintf(k.out, "  system halted: %s\n", reason)
}
