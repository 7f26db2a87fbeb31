package vm

// Status flag bit positions within the PS register, per spec §3: C=bit0,
// Z=bit1, V=bit2, N=bit3.
const (
	FlagCarryBit    = 0
	FlagZeroBit     = 1
	FlagOverflowBit = 2
	FlagNegativeBit = 3
)

const (
	flagCarryMask    = 1 << FlagCarryBit
	flagZeroMask     = 1 << FlagZeroBit
	flagOverflowMask = 1 << FlagOverflowBit
	flagNegativeMask = 1 << FlagNegativeBit
)

// signBit16 is the sign bit of a 16-bit word.
const signBit16 = 0x8000

// DefaultMaxIterations is the default runaway-program guard on Machine.Run,
// mirroring the teacher's DefaultMaxCycles: the AC100 ISA has no interrupt
// or timer to break an infinite loop, so the fetch/execute loop caps its
// own iteration count instead.
const DefaultMaxIterations = 1_000_000
