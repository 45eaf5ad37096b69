//go:build debug

package exc

import (
	"testing"

	"github.com/clktmr/mipstrap/cpu"
	"github.com/clktmr/mipstrap/istate"
)

func expectPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	f()
}

func TestRegisterContract(t *testing.T) {
	nop := HandlerFunc(func(cpu.ExcCode, *istate.State) {})

	tests := map[string]func(tab *Table){
		"afterSeal": func(tab *Table) {
			tab.Seal()
			tab.Register(cpu.Sys, "syscall", true, nop)
		},
		"outOfRange": func(tab *Table) { tab.Register(cpu.NumExcCodes, "bogus", false, nop) },
		"nilHandler": func(tab *Table) { tab.Register(cpu.Sys, "syscall", true, nil) },
		"lookup":     func(tab *Table) { tab.Lookup(cpu.NumExcCodes) },
		"count":      func(tab *Table) { tab.Count(cpu.NumExcCodes) },
	}
	for name, f := range tests {
		t.Run(name, func(t *testing.T) {
			tab, _, _, _ := newTestTable()
			expectPanic(t, func() { f(tab) })
		})
	}

	// A valid registration during bring-up passes all checks.
	tab, _, _, _ := newTestTable()
	tab.Register(cpu.Sys, "syscall", true, nop)
	if name, _ := tab.Lookup(cpu.Sys); name != "syscall" {
		t.Fatalf("expected syscall, got %q", name)
	}
}
