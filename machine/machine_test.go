package machine

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/clktmr/mipstrap/config"
	"github.com/clktmr/mipstrap/cpu"
	"github.com/clktmr/mipstrap/exc"
	"github.com/clktmr/mipstrap/irq"
	"github.com/clktmr/mipstrap/istate"
	"github.com/clktmr/mipstrap/trap"
)

type fakeKernel struct {
	cause      cpu.Cause
	terminated []string
	halted     []string
}

func (k *fakeKernel) ID() int { return 0 }

func (k *fakeKernel) ReadCause() cpu.Cause { return k.cause }

func (k *fakeKernel) CurrentThread() trap.Thread { return nil }

func (k *fakeKernel) RequestLazyFPURestore(trap.Thread) {}

func (k *fakeKernel) ResolveTLBFault(trap.TLBFault, *istate.State) bool { return false }

func (k *fakeKernel) FetchInstruction(addr uint32) (uint32, error) { return 0, errors.New("unmapped") }

func (k *fakeKernel) TerminateCurrentTask(reason string) { k.terminated = append(k.terminated, reason) }

func (k *fakeKernel) Halt(reason string, st *istate.State) { k.halted = append(k.halted, reason) }

func (k *fakeKernel) NearestSymbol(addr uint32) (string, bool) { return "kmain", true }

func setup(t *testing.T, cmdline string) (*fakeKernel, *bytes.Buffer) {
	t.Helper()
	k := &fakeKernel{}
	report := &bytes.Buffer{}
	SetSystemWriter(report)
	Log.SetOutput(&bytes.Buffer{})

	err := Init(cmdline, Services{
		Deps:    trap.Deps{CPU: k, Scheduler: k, MMU: k, Memory: k},
		Tasks:   k,
		Halter:  k,
		Symbols: k,
	})
	if err != nil {
		t.Fatal(err)
	}
	return k, report
}

func TestInitBadOption(t *testing.T) {
	if err := Init("turbo", Services{}); !errors.Is(err, config.ErrBadOption) {
		t.Fatalf("expected %v, got %v", config.ErrBadOption, err)
	}
}

func TestInitOptions(t *testing.T) {
	setup(t, "lazyfpu loglevel=debug")
	if !Dispatcher().Config().LazyFPU {
		t.Error("lazyfpu not applied")
	}
	if Log.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected log level %v, got %v", logrus.DebugLevel, Log.GetLevel())
	}
}

func TestLifecycle(t *testing.T) {
	k, report := setup(t, "")

	overflows := 0
	RegisterException(cpu.Ov, "overflow", false, exc.HandlerFunc(func(n cpu.ExcCode, st *istate.State) {
		overflows++
		st.SkipInstruction()
	}))
	Start()

	var lines []int
	for _, line := range []int{1, 3} {
		if err := RegisterIRQ(line, func(d *irq.Descriptor) { lines = append(lines, d.Line) }, nil); err != nil {
			t.Fatal(err)
		}
	}

	st := istate.State{Status: cpu.StatusUM, EPC: 0x0040_0000}
	Exception(cpu.Ov, &st)
	if overflows != 1 || st.EPC != 0x0040_0004 {
		t.Fatal("registered handler not used")
	}

	k.cause = cpu.MakeCause(cpu.Int, 0b1010, 0)
	Trap(&st)
	if len(lines) != 2 || lines[0] != 1 || lines[1] != 3 {
		t.Fatalf("expected lines [1 3], got %v", lines)
	}

	if err := UnregisterIRQ(3); err != nil {
		t.Fatal(err)
	}
	Trap(&st)
	if len(lines) != 3 {
		t.Fatalf("expected only line 1 to be serviced, got %v", lines)
	}

	kst := istate.State{EPC: 0x8000_0010}
	Exception(cpu.IBE, &kst)
	if len(k.halted) != 1 {
		t.Fatalf("expected halt, got %q", k.halted)
	}
	if !strings.Contains(report.String(), "epc at 0x80000010 (kmain)") {
		t.Fatalf("report not written to system writer:\n%s", report.String())
	}
}
