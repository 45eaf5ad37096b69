package symtab

import (
	"bytes"
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	tab := New()
	tab.Add(0x8000_1000, "main")
	tab.Add(0x8000_0400, "exception_entry")
	tab.Add(0x8000_2000, "scheduler")

	tests := map[string]struct {
		addr uint32
		name string
		ok   bool
		str  string
	}{
		"below":  {0x8000_0000, "", false, "0x80000000"},
		"exact":  {0x8000_1000, "main", true, "main"},
		"inside": {0x8000_1010, "main", true, "main+0x10"},
		"last":   {0x8000_3000, "scheduler", true, "scheduler+0x1000"},
		"first":  {0x8000_0404, "exception_entry", true, "exception_entry+0x4"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := tab.NearestSymbol(tc.addr)
			if ok != tc.ok || got != tc.name {
				t.Fatalf("expected (%q, %v), got (%q, %v)", tc.name, tc.ok, got, ok)
			}
			if s := tab.Format(tc.addr); s != tc.str {
				t.Fatalf("expected %q, got %q", tc.str, s)
			}
		})
	}
}

func TestAddReplaces(t *testing.T) {
	tab := New()
	tab.Add(0x100, "old")
	tab.Add(0x100, "new")
	if tab.Len() != 1 {
		t.Fatalf("expected 1 symbol, got %d", tab.Len())
	}
	if name, _ := tab.NearestSymbol(0x100); name != "new" {
		t.Fatalf("expected %q, got %q", "new", name)
	}
}

func TestLoadELFInvalid(t *testing.T) {
	err := New().LoadELF(bytes.NewReader([]byte("not an elf file")))
	if err == nil || errors.Is(err, ErrNoSymbols) {
		t.Fatalf("expected a format error, got %v", err)
	}
}
