// Package trapsim replays traps described in a TOML file through the
// exception dispatcher, with the kernel services simulated.
package trapsim

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/clktmr/mipstrap/cpu"
	"github.com/clktmr/mipstrap/irq"
	"github.com/clktmr/mipstrap/istate"
	"github.com/clktmr/mipstrap/machine"
	"github.com/clktmr/mipstrap/symtab"
	"github.com/clktmr/mipstrap/trap"
)

const usageString = `Replay traps through the exception dispatcher.

Usage: %s [flags] <scenario.toml>

`

var (
	flags = flag.NewFlagSet("sim", flag.ExitOnError)

	elfFile = flags.String("elf", "", "Load symbols from kernel ELF file")
	cmdline = flags.String("cmdline", "", "Boot options, replaces the scenario's")
	list    = flags.Bool("list", false, "Print the exception table after the run")
)

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "sim")
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(1)
	}

	var sc Scenario
	if _, err := toml.DecodeFile(flags.Arg(0), &sc); err != nil {
		log.Fatalln("scenario:", err)
	}
	if *cmdline != "" {
		sc.Cmdline = *cmdline
	}

	syms := symtab.New()
	if *elfFile != "" {
		f, err := os.Open(*elfFile)
		if err != nil {
			log.Fatalln(err)
		}
		err = syms.LoadELF(f)
		f.Close()
		if err != nil {
			log.Fatalln(err)
		}
	}

	if err := Run(os.Stdout, &sc, syms); err != nil {
		log.Fatalln(err)
	}
	if *list {
		machine.Dispatcher().Table().List(os.Stdout)
	}
}

// Run brings up exception handling as configured by sc and takes all traps in
// order. The outcome of every trap is written to out.
func Run(out io.Writer, sc *Scenario, syms *symtab.Table) error {
	for _, s := range sc.Symbols {
		syms.Add(s.Addr, s.Name)
	}

	k := &kernel{out: out, trap: &Trap{}}
	machine.SetSystemWriter(out)
	machine.Log.SetOutput(out)
	err := machine.Init(sc.Cmdline, machine.Services{
		Deps: trap.Deps{
			CPU:       k,
			Scheduler: k,
			MMU:       k,
			Memory:    k,
			Debugger:  k,
		},
		Tasks:   k,
		Halter:  k,
		Symbols: syms,
	})
	if err != nil {
		return err
	}
	machine.Start()

	for _, dev := range sc.IRQs {
		err := machine.RegisterIRQ(dev.Line, func(d *irq.Descriptor) {
			fmt.Fprintf(out, "  irq %d (%s) serviced\n", d.Line, d.Arg)
		}, dev.Name)
		if err != nil {
			return err
		}
	}

	for i := range sc.Traps {
		t := &sc.Traps[i]
		k.trap, k.terminated, k.halted = t, false, false

		st := istate.State{EPC: t.EPC, RA: t.RA, K1: t.K1, Status: cpu.StatusEXL}
		if t.User {
			st.Status |= cpu.StatusUM
		}

		fmt.Fprintf(out, "trap %d: %s\n", i, t)
		if n := cpu.ExcCode(t.Code); n.Valid() {
			machine.Trap(&st)
		} else {
			// The Cause register can't encode it, pass it on as is.
			machine.Exception(n, &st)
		}
		if !k.terminated && !k.halted {
			fmt.Fprintf(out, "  resumed at %s v1=%#08x\n", syms.Format(st.EPC), st.V1)
		}
	}
	return nil
}
