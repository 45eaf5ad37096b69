// Package istate defines the register frame saved by the trap trampoline.
//
// A State is owned by the trampoline for the duration of a single trap. The
// handler that runs for the trap may modify it; the trampoline restores
// exactly the modified frame and resumes at EPC. A State must not be retained
// after the handler returns.
package istate

import (
	"encoding/binary"

	"github.com/sigurn/crc8"

	"github.com/clktmr/mipstrap/cpu"
)

// State is the interrupted context. The field order matches the layout the
// trampoline pushes onto the kernel stack.
type State struct {
	At             uint32
	V0, V1         uint32
	A0, A1, A2, A3 uint32
	T0, T1, T2, T3 uint32
	T4, T5, T6, T7 uint32
	S0, S1, S2, S3 uint32
	S4, S5, S6, S7 uint32
	T8, T9         uint32
	GP             uint32
	SP             uint32
	FP             uint32
	RA             uint32

	Lo, Hi uint32

	Status cpu.Status
	EPC    uint32

	// K1 is reserved for the kernel and survives the trap unmodified. The
	// syscall shortcut uses it to hand over the return value.
	K1 uint32
}

// FromUspace reports whether the trap interrupted user space code.
func (s *State) FromUspace() bool {
	return s.Status.UserMode()
}

// SkipInstruction advances EPC past the instruction that caused the trap, so
// it isn't executed again on return.
func (s *State) SkipInstruction() {
	s.EPC += cpu.InstructionSize
}

// words returns the frame in trampoline order.
func (s *State) words() []uint32 {
	return []uint32{
		s.At, s.V0, s.V1, s.A0, s.A1, s.A2, s.A3,
		s.T0, s.T1, s.T2, s.T3, s.T4, s.T5, s.T6, s.T7,
		s.S0, s.S1, s.S2, s.S3, s.S4, s.S5, s.S6, s.S7,
		s.T8, s.T9, s.GP, s.SP, s.FP, s.RA,
		s.Lo, s.Hi, uint32(s.Status), s.EPC, s.K1,
	}
}

var frameCRC8 = crc8.MakeTable(crc8.CRC8)

// Checksum returns a CRC-8 over the big endian encoding of the frame. It is
// printed in trap reports to tell apart reports of otherwise similar frames.
func (s *State) Checksum() uint8 {
	words := s.words()
	buf := make([]byte, 0, 4*len(words))
	for _, w := range words {
		buf = binary.BigEndian.AppendUint32(buf, w)
	}
	return crc8.Checksum(buf, frameCRC8)
}
