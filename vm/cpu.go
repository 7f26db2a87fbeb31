package vm

import "github.com/chunga2020/ac100/arch"

// CPU holds the AC100's register file and status register. The register
// file is 16 words wide; PC and SP are tracked separately since neither
// is addressable as a general-purpose register on this machine (unlike
// the teacher's ARM2, which folds PC into R15).
type CPU struct {
	Regs [arch.NumRegisters]uint16
	PC   uint16
	SP   uint16
	PS   Flags
}

// NewCPU returns a CPU in its power-on state: all registers zero, PC at
// CodeStart, SP at StackMin, flags clear.
func NewCPU() *CPU {
	return &CPU{
		PC: arch.CodeStart,
		SP: arch.StackMin,
	}
}

// Reset restores the CPU to its power-on state.
func (c *CPU) Reset() {
	c.Regs = [arch.NumRegisters]uint16{}
	c.PC = arch.CodeStart
	c.SP = arch.StackMin
	c.PS = Flags(0)
}

// IncrementPC advances the program counter by one instruction
// (InstructionSize bytes).
func (c *CPU) IncrementPC() {
	c.PC += arch.InstructionSize
}
