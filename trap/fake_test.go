package trap

import (
	"errors"
	"io"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/clktmr/mipstrap/config"
	"github.com/clktmr/mipstrap/cpu"
	"github.com/clktmr/mipstrap/exc"
	"github.com/clktmr/mipstrap/istate"
)

type thread uint64

func (t thread) ID() uint64 { return uint64(t) }

// fakeKernel implements all services used by the handlers and records how
// they were used.
type fakeKernel struct {
	cause  cpu.Cause
	thread Thread
	code   map[uint32]uint32

	tlbResolves bool
	tlbFaults   []TLBFault

	fpuRestores []Thread

	dbgHandles bool
	dbgCalls   int

	terminated []string
	halted     []string
}

func (k *fakeKernel) ID() int              { return 0 }
func (k *fakeKernel) ReadCause() cpu.Cause { return k.cause }

func (k *fakeKernel) CurrentThread() Thread { return k.thread }

func (k *fakeKernel) RequestLazyFPURestore(t Thread) {
	k.fpuRestores = append(k.fpuRestores, t)
}

func (k *fakeKernel) ResolveTLBFault(kind TLBFault, st *istate.State) bool {
	k.tlbFaults = append(k.tlbFaults, kind)
	return k.tlbResolves
}

func (k *fakeKernel) OnBreakpoint(st *istate.State) bool {
	k.dbgCalls++
	return k.dbgHandles
}

var errBadAddr = errors.New("bad address")

func (k *fakeKernel) FetchInstruction(addr uint32) (uint32, error) {
	insn, ok := k.code[addr]
	if !ok {
		return 0, errBadAddr
	}
	return insn, nil
}

func (k *fakeKernel) TerminateCurrentTask(reason string) {
	k.terminated = append(k.terminated, reason)
}

func (k *fakeKernel) Halt(reason string, st *istate.State) {
	k.halted = append(k.halted, reason)
}

func (k *fakeKernel) escalations() int { return len(k.terminated) + len(k.halted) }

func newTestDispatcher(cfg config.Config, withDebugger bool) (*fakeKernel, *Dispatcher) {
	k := &fakeKernel{thread: thread(1), code: make(map[uint32]uint32)}
	log, _ := logtest.NewNullLogger()
	p := &exc.Policy{Tasks: k, Halter: k, Report: io.Discard, Log: log}
	deps := Deps{CPU: k, Scheduler: k, MMU: k, Memory: k}
	if withDebugger {
		deps.Debugger = k
	}
	return k, Init(cfg, p, deps)
}

func userState(epc uint32) istate.State {
	return istate.State{Status: cpu.StatusUM | cpu.StatusEXL, EPC: epc}
}

func kernelState(epc uint32) istate.State {
	return istate.State{Status: cpu.StatusEXL, EPC: epc}
}
