// Package cpu decodes the MIPS32 coprocessor 0 registers that are relevant
// when taking an exception.
package cpu

// InstructionSize is the width of a single instruction in bytes. Skipping a
// faulting instruction advances EPC by this amount.
const InstructionSize = 4

// Cause is a snapshot of the CP0 Cause register.
type Cause uint32

const (
	causeExcCodeShift = 2
	causeExcCodeMask  = 0x1f
	causeIPShift      = 8
	causeIPMask       = 0xff
	causeCEShift      = 28
	causeCEMask       = 0x3
)

// ExcCode returns the exception code the trap was taken for.
func (c Cause) ExcCode() ExcCode {
	return ExcCode(uint32(c) >> causeExcCodeShift & causeExcCodeMask)
}

// Pending returns the interrupt pending bits IP0..IP7, bit i set meaning
// line i is asserted.
func (c Cause) Pending() uint8 {
	return uint8(uint32(c) >> causeIPShift & causeIPMask)
}

// CopErr returns the number of the coprocessor that raised a Coprocessor
// Unusable exception. Only meaningful if ExcCode is CpU.
func (c Cause) CopErr() int {
	return int(uint32(c) >> causeCEShift & causeCEMask)
}

// MakeCause assembles a Cause value, mainly for tests and simulation.
func MakeCause(code ExcCode, pending uint8, coperr int) Cause {
	return Cause(uint32(code)&causeExcCodeMask<<causeExcCodeShift |
		uint32(pending)<<causeIPShift |
		uint32(coperr)&causeCEMask<<causeCEShift)
}

// Status is a snapshot of the CP0 Status register.
type Status uint32

const (
	StatusIE  Status = 1 << 0 // interrupts enabled
	StatusEXL Status = 1 << 1 // exception level
	StatusUM  Status = 1 << 4 // user mode
)

// UserMode reports whether the interrupted context was executing in user
// mode.
func (s Status) UserMode() bool {
	return s&StatusUM != 0
}

// CPU gives access to the registers of the processor that is currently
// executing the trap.
type CPU interface {
	ID() int
	ReadCause() Cause
}
