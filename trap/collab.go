package trap

import "github.com/clktmr/mipstrap/istate"

// Thread is a kernel thread as known to the scheduler.
type Thread interface {
	ID() uint64
}

// Scheduler is the part of the scheduler the handlers need.
type Scheduler interface {
	// CurrentThread returns the thread running on the current CPU, or nil.
	CurrentThread() Thread

	// RequestLazyFPURestore asks the scheduler to load the FPU context of t
	// before it resumes. It must not block.
	RequestLazyFPURestore(t Thread)
}

// TLBFault tells the MMU which kind of TLB exception occurred.
type TLBFault int

const (
	TLBModified TLBFault = iota
	TLBInvalidLoad
	TLBInvalidStore
)

func (k TLBFault) String() string {
	switch k {
	case TLBModified:
		return "modified"
	case TLBInvalidLoad:
		return "invalid load"
	case TLBInvalidStore:
		return "invalid store"
	}
	return "unknown"
}

// MMU resolves TLB exceptions by looking up the page tables.
type MMU interface {
	// ResolveTLBFault returns false if the fault can't be resolved and must
	// be escalated.
	ResolveTLBFault(kind TLBFault, st *istate.State) bool
}

// Debugger is an interactive kernel debugger.
type Debugger interface {
	// OnBreakpoint is called for every breakpoint exception. It adjusts st
	// as needed and returns false if it doesn't know the breakpoint.
	OnBreakpoint(st *istate.State) bool
}

// Memory reads the code of the interrupted context.
type Memory interface {
	FetchInstruction(addr uint32) (uint32, error)
}
