package cpu

// ExcCode is the exception code field of the Cause register.
type ExcCode uint8

const (
	Int   ExcCode = 0  // interrupt
	Mod   ExcCode = 1  // TLB modification
	TLBL  ExcCode = 2  // TLB invalid (load or instruction fetch)
	TLBS  ExcCode = 3  // TLB invalid (store)
	AdEL  ExcCode = 4  // address error (load or instruction fetch)
	AdES  ExcCode = 5  // address error (store)
	IBE   ExcCode = 6  // bus error (instruction fetch)
	DBE   ExcCode = 7  // bus error (data reference)
	Sys   ExcCode = 8  // syscall
	Bp    ExcCode = 9  // breakpoint
	RI    ExcCode = 10 // reserved instruction
	CpU   ExcCode = 11 // coprocessor unusable
	Ov    ExcCode = 12 // arithmetic overflow
	Tr    ExcCode = 13 // trap
	VCEI  ExcCode = 14 // virtual coherency (instruction)
	FPE   ExcCode = 15 // floating point
	WATCH ExcCode = 23 // watchpoint
	VCED  ExcCode = 31 // virtual coherency (data)

	// NumExcCodes is the number of distinct exception codes.
	NumExcCodes = 32
)

var excNames = [NumExcCodes]string{
	Int:   "Interrupt",
	Mod:   "TLB Modified",
	TLBL:  "TLB Invalid",
	TLBS:  "TLB Invalid Store",
	AdEL:  "Address Error - load/instr. fetch",
	AdES:  "Address Error - store",
	IBE:   "Bus Error - fetch instruction",
	DBE:   "Bus Error - data reference",
	Sys:   "Syscall",
	Bp:    "BreakPoint",
	RI:    "Reserved Instruction",
	CpU:   "Coprocessor Unusable",
	Ov:    "Arithmetic Overflow",
	Tr:    "Trap",
	VCEI:  "Virtual Coherency - instruction",
	FPE:   "Floating Point",
	WATCH: "WatchHi/WatchLo",
	VCED:  "Virtual Coherency - data",
}

// Valid reports whether c is within [0, NumExcCodes).
func (c ExcCode) Valid() bool {
	return c < NumExcCodes
}

// String returns the architectural name of the exception. Reserved codes are
// reported as "undef".
func (c ExcCode) String() string {
	if !c.Valid() || excNames[c] == "" {
		return "undef"
	}
	return excNames[c]
}
