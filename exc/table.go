// Package exc implements the exception vector table and the escalation
// policy for exceptions that can't be resolved.
package exc

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/clktmr/mipstrap/cpu"
	"github.com/clktmr/mipstrap/debug"
	"github.com/clktmr/mipstrap/istate"
)

// Handler handles one exception. It either resolves the exception by
// modifying st, or escalates through Policy.Fault.
type Handler interface {
	HandleException(n cpu.ExcCode, st *istate.State)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(n cpu.ExcCode, st *istate.State)

func (f HandlerFunc) HandleException(n cpu.ExcCode, st *istate.State) { f(n, st) }

// Entry is one slot of the vector table.
type Entry struct {
	Name    string
	Hot     bool // may legitimately occur during normal operation
	Handler Handler

	dflt  bool
	count atomic.Uint64
}

// Table maps every exception code to exactly one handler.
//
// Registration is only allowed during bring-up, which is single threaded.
// After Seal the table is read-only and Dispatch may be called concurrently
// from all CPUs without locking.
type Table struct {
	entries [cpu.NumExcCodes]Entry
	policy  *Policy
	sealed  bool
}

// NewTable returns a table with all codes bound to the Unhandled handler.
func NewTable(p *Policy) *Table {
	t := &Table{policy: p}
	for i := range t.entries {
		e := &t.entries[i]
		e.Name, e.Handler, e.dflt = "undef", HandlerFunc(t.Unhandled), true
	}
	return t
}

// Policy returns the escalation policy used by the table.
func (t *Table) Policy() *Policy { return t.policy }

// Register installs h for code n, replacing whatever was installed before.
func (t *Table) Register(n cpu.ExcCode, name string, hot bool, h Handler) {
	debug.Assertf(n.Valid(), "exc: register of invalid exception code %d", n)
	debug.Assert(!t.sealed, "exc: register after bring-up")
	debug.Assert(h != nil, "exc: register of nil handler")

	e := &t.entries[n]
	e.Name, e.Hot, e.Handler, e.dflt = name, hot, h, false
}

// Seal ends bring-up. It returns the codes that still use the default
// handler.
func (t *Table) Seal() (unbound []cpu.ExcCode) {
	t.sealed = true
	for i := range t.entries {
		if t.entries[i].dflt {
			unbound = append(unbound, cpu.ExcCode(i))
		}
	}
	return
}

// Sealed reports whether bring-up has ended.
func (t *Table) Sealed() bool { return t.sealed }

// Dispatch calls the handler registered for n. An out of range code means the
// cause register was decoded wrong, which is fatal.
func (t *Table) Dispatch(n cpu.ExcCode, st *istate.State) {
	if !n.Valid() {
		t.policy.BadTrap(n, st, fmt.Sprintf("Exception code %d out of range.", n))
		return
	}
	e := &t.entries[n]
	e.count.Add(1)
	e.Handler.HandleException(n, st)
}

// Unhandled is the default handler for every code. It escalates the exception
// with the policy.
func (t *Table) Unhandled(n cpu.ExcCode, st *istate.State) {
	t.policy.Fault(n, st, "Unhandled exception %s.", n)
}

// Lookup returns the name and hot flag registered for n.
func (t *Table) Lookup(n cpu.ExcCode) (name string, hot bool) {
	debug.Assertf(n.Valid(), "exc: lookup of invalid exception code %d", n)
	e := &t.entries[n]
	return e.Name, e.Hot
}

// Count returns how often n has been dispatched.
func (t *Table) Count(n cpu.ExcCode) uint64 {
	debug.Assertf(n.Valid(), "exc: count of invalid exception code %d", n)
	return t.entries[n].count.Load()
}

// List writes one line per exception code with its registration and
// dispatch count.
func (t *Table) List(w io.Writer) {
	fmt.Fprintf(w, "%-4s %-10s %-3s %-34s %s\n", "Exc", "Name", "Hot", "Description", "Count")
	for i := range t.entries {
		e := &t.entries[i]
		hot := "no"
		if e.Hot {
			hot = "yes"
		}
		fmt.Fprintf(w, "%-4d %-10s %-3s %-34s %d\n", i, e.Name, hot, cpu.ExcCode(i), e.count.Load())
	}
}
