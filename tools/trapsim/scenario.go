package trapsim

import (
	"fmt"

	"github.com/clktmr/mipstrap/cpu"
)

// Scenario describes a sequence of traps and the kernel state they are taken
// in.
type Scenario struct {
	// Cmdline holds the boot options, see package config.
	Cmdline string `toml:"cmdline"`

	Symbols []Symbol `toml:"symbol"`
	IRQs    []IRQ    `toml:"irq"`
	Traps   []Trap   `toml:"trap"`
}

type Symbol struct {
	Addr uint32 `toml:"addr"`
	Name string `toml:"name"`
}

// IRQ is a simulated device driver registered for an interrupt line.
type IRQ struct {
	Line int    `toml:"line"`
	Name string `toml:"name"`
}

// Trap is a single exception. Fields that don't apply to Code are ignored.
type Trap struct {
	Code   uint8   `toml:"code"`
	User   bool    `toml:"user"`
	EPC    uint32  `toml:"epc"`
	RA     uint32  `toml:"ra"`
	K1     uint32  `toml:"k1"`
	Opcode *uint32 `toml:"opcode"` // instruction at EPC, unreadable if unset

	Pending uint8 `toml:"pending"` // interrupt lines
	CopErr  int   `toml:"coperr"`

	TLBResolves bool `toml:"tlb_resolves"`
	Debugger    bool `toml:"debugger_handles"`
	NoThread    bool `toml:"no_thread"`
}

func (t *Trap) cause() cpu.Cause {
	return cpu.MakeCause(cpu.ExcCode(t.Code), t.Pending, t.CopErr)
}

func (t *Trap) origin() string {
	if t.User {
		return "user"
	}
	return "kernel"
}

func (t *Trap) String() string {
	n := cpu.ExcCode(t.Code)
	if !n.Valid() {
		return fmt.Sprintf("code %d (%s, epc=%#08x)", t.Code, t.origin(), t.EPC)
	}
	return fmt.Sprintf("%s (%s, epc=%#08x)", n, t.origin(), t.EPC)
}
