// Package machine holds the process wide exception and interrupt state and
// the hooks used by the trap trampoline, by architecture bring-up and by
// device drivers.
//
// Bring-up is single threaded: Init installs the handlers, architecture code
// may override them with RegisterException, and Start ends bring-up. From
// then on the exception table is read-only and Exception may run on all
// CPUs concurrently. Interrupt handlers can be registered at any time.
package machine

import (
	"github.com/sirupsen/logrus"

	"github.com/clktmr/mipstrap/config"
	"github.com/clktmr/mipstrap/cpu"
	"github.com/clktmr/mipstrap/debug"
	"github.com/clktmr/mipstrap/exc"
	"github.com/clktmr/mipstrap/irq"
	"github.com/clktmr/mipstrap/trap"
)

// Services are the kernel subsystems exception handling depends on.
type Services struct {
	trap.Deps

	Tasks   exc.Terminator
	Halter  exc.Halter
	Symbols exc.SymbolResolver // optional
}

// Log is the kernel log used for exception and interrupt diagnostics.
var Log = logrus.New()

var dispatcher *trap.Dispatcher

// Init parses the boot options in cmdline and installs the exception
// handlers they select.
func Init(cmdline string, s Services) error {
	cfg, err := config.Parse(cmdline)
	if err != nil {
		return err
	}
	Log.SetLevel(cfg.LogLevel)

	p := &exc.Policy{
		Tasks:   s.Tasks,
		Halter:  s.Halter,
		Symbols: s.Symbols,
		Report:  SystemWriter,
		Log:     Log,
	}
	dispatcher = trap.Init(cfg, p, s.Deps)
	return nil
}

// Start ends bring-up.
func Start() {
	debug.Assert(dispatcher != nil, "machine: Start before Init")
	dispatcher.Seal()
}

// Dispatcher returns the dispatcher created by Init.
func Dispatcher() *trap.Dispatcher { return dispatcher }

// RegisterException replaces the handler of exception code n. Only allowed
// between Init and Start.
func RegisterException(n cpu.ExcCode, name string, hot bool, h exc.Handler) {
	dispatcher.Table().Register(n, name, hot, h)
}

// RegisterIRQ installs the handler of an interrupt line. arg is passed to the
// handler in Descriptor.Arg.
func RegisterIRQ(line int, h irq.Handler, arg any) error {
	return dispatcher.IRQ().Register(line, h, arg)
}

// UnregisterIRQ removes the handler of an interrupt line. It waits for the
// handler if it currently runs on another CPU.
func UnregisterIRQ(line int) error {
	return dispatcher.IRQ().Unregister(line)
}
