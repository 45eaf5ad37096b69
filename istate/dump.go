package istate

import (
	"fmt"
	"io"
)

// DumpTo writes the frame to w in a fixed tabular layout. The frame is not
// modified.
func (s *State) DumpTo(w io.Writer) {
	fmt.Fprintf(w, "at=%#08x\tv0=%#08x\tv1=%#08x\n", s.At, s.V0, s.V1)
	fmt.Fprintf(w, "a0=%#08x\ta1=%#08x\ta2=%#08x\n", s.A0, s.A1, s.A2)
	fmt.Fprintf(w, "a3=%#08x\tt0=%#08x\tt1=%#08x\n", s.A3, s.T0, s.T1)
	fmt.Fprintf(w, "t2=%#08x\tt3=%#08x\tt4=%#08x\n", s.T2, s.T3, s.T4)
	fmt.Fprintf(w, "t5=%#08x\tt6=%#08x\tt7=%#08x\n", s.T5, s.T6, s.T7)
	fmt.Fprintf(w, "s0=%#08x\ts1=%#08x\ts2=%#08x\n", s.S0, s.S1, s.S2)
	fmt.Fprintf(w, "s3=%#08x\ts4=%#08x\ts5=%#08x\n", s.S3, s.S4, s.S5)
	fmt.Fprintf(w, "s6=%#08x\ts7=%#08x\tfp=%#08x\n", s.S6, s.S7, s.FP)
	fmt.Fprintf(w, "t8=%#08x\tt9=%#08x\tgp=%#08x\n", s.T8, s.T9, s.GP)
	fmt.Fprintf(w, "sp=%#08x\tra=%#08x\n", s.SP, s.RA)
	fmt.Fprintf(w, "lo=%#08x\thi=%#08x\n", s.Lo, s.Hi)
	fmt.Fprintf(w, "status=%#08x\tepc=%#08x\tk1=%#08x\n", uint32(s.Status), s.EPC, s.K1)
}
