// Package irq keeps track of the handlers device drivers registered for
// interrupt lines and fans out pending interrupts to them.
//
// Every descriptor has its own lock. It is held only while the handler runs,
// so that interrupts on different lines can be serviced concurrently on
// different CPUs.
package irq

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/constraints"
)

// NumLines is the number of interrupt lines reported by the cause register.
const NumLines = 8

var (
	ErrBadLine       = errors.New("irq: line out of range")
	ErrLineBusy      = errors.New("irq: line already registered")
	ErrNotRegistered = errors.New("irq: line not registered")
)

// Handler services an interrupt. It is called with the descriptor locked and
// must not lock it again or unregister its own line.
type Handler func(d *Descriptor)

// Descriptor describes the handler of a single interrupt line.
type Descriptor struct {
	Line    int
	Handler Handler
	Arg     any // driver private

	mu    sync.Mutex
	dead  bool // unregistered, protected by mu
	count atomic.Uint64
}

// Count returns how often the handler was called.
func (d *Descriptor) Count() uint64 { return d.count.Load() }

// Unlock releases a descriptor returned by DispatchAndLock.
func (d *Descriptor) Unlock() { d.mu.Unlock() }

// Registry maps interrupt lines to descriptors.
type Registry struct {
	mu    sync.RWMutex
	lines [NumLines]*Descriptor

	// Log receives spurious interrupt reports if Debug is set.
	Log   logrus.FieldLogger
	Debug bool

	spurious atomic.Uint64
}

func NewRegistry(log logrus.FieldLogger, debug bool) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Registry{Log: log, Debug: debug}
}

// Register installs h for line. At most one handler can be registered per
// line.
func (r *Registry) Register(line int, h Handler, arg any) error {
	if line < 0 || line >= NumLines {
		return fmt.Errorf("%w: %d", ErrBadLine, line)
	}
	if h == nil {
		return fmt.Errorf("irq: nil handler for line %d", line)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lines[line] != nil {
		return fmt.Errorf("%w: %d", ErrLineBusy, line)
	}
	r.lines[line] = &Descriptor{Line: line, Handler: h, Arg: arg}
	return nil
}

// Unregister removes the handler of line. If the handler is running on
// another CPU, Unregister waits for it to return.
func (r *Registry) Unregister(line int) error {
	if line < 0 || line >= NumLines {
		return fmt.Errorf("%w: %d", ErrBadLine, line)
	}

	r.mu.Lock()
	d := r.lines[line]
	r.lines[line] = nil
	r.mu.Unlock()

	if d == nil {
		return fmt.Errorf("%w: %d", ErrNotRegistered, line)
	}

	// Waits for a handler that still runs.
	d.mu.Lock()
	d.dead = true
	d.mu.Unlock()
	return nil
}

// DispatchAndLock returns the locked descriptor of line, or nil if none is
// registered. The lookup and locking are atomic with respect to Unregister.
func (r *Registry) DispatchAndLock(line int) *Descriptor {
	if line < 0 || line >= NumLines {
		return nil
	}

	r.mu.RLock()
	d := r.lines[line]
	r.mu.RUnlock()
	if d == nil {
		return nil
	}

	d.mu.Lock()
	if d.dead {
		d.mu.Unlock()
		return nil
	}
	return d
}

// Spurious returns the number of interrupts that had no handler.
func (r *Registry) Spurious() uint64 { return r.spurious.Load() }

// FanOut services the lines set in pending in ascending order. Each
// registered handler is called once, lines without a handler are counted as
// spurious.
func (r *Registry) FanOut(cpu int, pending uint8) {
	forEachBit(pending, func(line int) {
		d := r.DispatchAndLock(line)
		if d == nil {
			r.spurious.Add(1)
			if r.Debug {
				r.Log.WithFields(logrus.Fields{"cpu": cpu, "inum": line}).Debug("spurious interrupt")
			}
			return
		}
		d.count.Add(1)
		d.Handler(d)
		d.Unlock()
	})
}

func forEachBit[T constraints.Unsigned](mask T, fn func(i int)) {
	for i := 0; mask != 0; i++ {
		if mask&1 != 0 {
			fn(i)
		}
		mask >>= 1
	}
}
