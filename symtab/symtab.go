// Package symtab resolves code addresses to the nearest preceding kernel
// symbol. It is only used to annotate diagnostics.
package symtab

import (
	"debug/elf"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/btree"
)

var ErrNoSymbols = errors.New("symtab: no function symbols")

// Symbol is a named code address.
type Symbol struct {
	Addr uint32
	Name string
}

// Table is an ordered set of symbols. It is safe for concurrent use.
type Table struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[Symbol]
}

func bySymbolAddr(a, b Symbol) bool { return a.Addr < b.Addr }

func New() *Table {
	return &Table{tree: btree.NewG[Symbol](8, bySymbolAddr)}
}

// Add inserts a symbol. A symbol already present at the same address is
// replaced.
func (t *Table) Add(addr uint32, name string) {
	t.mu.Lock()
	t.tree.ReplaceOrInsert(Symbol{Addr: addr, Name: name})
	t.mu.Unlock()
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tree.Len()
}

// Lookup returns the symbol with the highest address not above addr.
func (t *Table) Lookup(addr uint32) (sym Symbol, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	t.tree.DescendLessOrEqual(Symbol{Addr: addr}, func(s Symbol) bool {
		sym, ok = s, true
		return false
	})
	return
}

// NearestSymbol returns the name of the symbol containing addr.
func (t *Table) NearestSymbol(addr uint32) (string, bool) {
	sym, ok := t.Lookup(addr)
	return sym.Name, ok
}

// Format renders addr as "name+0xoff", or only the hex address if no symbol
// precedes it.
func (t *Table) Format(addr uint32) string {
	sym, ok := t.Lookup(addr)
	if !ok {
		return fmt.Sprintf("%#08x", addr)
	}
	if off := addr - sym.Addr; off != 0 {
		return fmt.Sprintf("%s+%#x", sym.Name, off)
	}
	return sym.Name
}

// LoadELF adds all function symbols of a 32-bit kernel image.
func (t *Table) LoadELF(r io.ReaderAt) error {
	f, err := elf.NewFile(r)
	if err != nil {
		return fmt.Errorf("symtab: %w", err)
	}
	defer f.Close()

	syms, err := f.Symbols()
	if errors.Is(err, elf.ErrNoSymbols) {
		return ErrNoSymbols
	} else if err != nil {
		return fmt.Errorf("symtab: %w", err)
	}

	n := 0
	for _, s := range syms {
		if elf.ST_TYPE(s.Info) != elf.STT_FUNC || s.Value == 0 || s.Name == "" {
			continue
		}
		t.Add(uint32(s.Value), s.Name)
		n++
	}
	if n == 0 {
		return ErrNoSymbols
	}
	return nil
}
