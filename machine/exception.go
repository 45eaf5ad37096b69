package machine

import (
	"github.com/clktmr/mipstrap/cpu"
	"github.com/clktmr/mipstrap/istate"
)

// Exception is called by the trap trampoline with the exception code and the
// saved frame. On return the trampoline restores st and resumes at st.EPC,
// unless the current task was terminated.
func Exception(n cpu.ExcCode, st *istate.State) {
	dispatcher.Exception(n, st)
}

// Trap is like Exception, but reads the exception code from the Cause
// register itself.
func Trap(st *istate.State) {
	dispatcher.Trap(st)
}
