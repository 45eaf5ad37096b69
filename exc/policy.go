package exc

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/clktmr/mipstrap/cpu"
	"github.com/clktmr/mipstrap/istate"
)

// Terminator kills the task that is running on the current CPU.
type Terminator interface {
	TerminateCurrentTask(reason string)
}

// Halter stops the whole system. Halt must not return.
type Halter interface {
	Halt(reason string, st *istate.State)
}

// SymbolResolver names the code at an address, if known.
type SymbolResolver interface {
	NearestSymbol(addr uint32) (string, bool)
}

// Policy escalates exceptions that couldn't be resolved by their handler. A
// fault in user space costs the offending task, a fault in the kernel halts
// the system. Handlers never decide which of both happens, they only call
// Fault.
type Policy struct {
	Tasks  Terminator
	Halter Halter

	// Symbols is optional and only annotates reports.
	Symbols SymbolResolver

	// Report receives bad trap reports. Defaults to os.Stderr.
	Report io.Writer

	Log logrus.FieldLogger
}

// Logger returns the logger faults are reported to.
func (p *Policy) Logger() logrus.FieldLogger { return p.log() }

func (p *Policy) log() logrus.FieldLogger {
	if p.Log == nil {
		return logrus.StandardLogger()
	}
	return p.Log
}

func (p *Policy) report() io.Writer {
	if p.Report == nil {
		return os.Stderr
	}
	return p.Report
}

// Fault escalates exception n taken with frame st. If the trap came from user
// space the current task is terminated and Fault returns; the trampoline must
// not resume the task. Otherwise the system is halted.
func (p *Policy) Fault(n cpu.ExcCode, st *istate.State, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if st.FromUspace() {
		p.log().WithFields(logrus.Fields{
			"exception": n.String(),
			"epc":       fmt.Sprintf("%#08x", st.EPC),
			"status":    fmt.Sprintf("%#08x", uint32(st.Status)),
		}).Warn(msg)
		p.Tasks.TerminateCurrentTask(msg)
		return
	}
	p.BadTrap(n, st, msg)
}

// BadTrap writes a report of st and halts the system, regardless of where the
// trap came from.
func (p *Policy) BadTrap(n cpu.ExcCode, st *istate.State, msg string) {
	w := p.report()
	fmt.Fprintf(w, "\nBAD TRAP %d (%s) frame crc8=%#02x\n", n, n, st.Checksum())
	fmt.Fprintf(w, "%s\n", msg)
	st.DumpTo(w)
	fmt.Fprintf(w, "epc at %s\n", p.symbolize(st.EPC))
	fmt.Fprintf(w, "ra  at %s\n", p.symbolize(st.RA))
	p.Halter.Halt(msg, st)
}

func (p *Policy) symbolize(addr uint32) string {
	if p.Symbols != nil {
		if name, ok := p.Symbols.NearestSymbol(addr); ok {
			return fmt.Sprintf("%#08x (%s)", addr, name)
		}
	}
	return fmt.Sprintf("%#08x", addr)
}
