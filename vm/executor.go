package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/chunga2020/ac100/arch"
	"github.com/chunga2020/ac100/encoder"
	"github.com/chunga2020/ac100/vmerr"
)

// State is the machine's coarse run status, mirroring the teacher's
// ExecutionState but collapsed to the three outcomes the AC100's loop
// actually distinguishes: still going, halted cleanly, or stopped on an
// error.
type State int

const (
	StateRunning State = iota
	StateHalted
	StateError
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateHalted:
		return "halted"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Machine is the complete AC100: its CPU, its RAM, and the bookkeeping
// the fetch/execute loop needs. It plays the role the teacher's VM type
// plays for ARM2, trimmed to the AC100's much smaller instruction set and
// single-threaded, non-interruptible execution model (spec §5).
type Machine struct {
	CPU    *CPU
	Memory *Memory
	State  State

	// LastError records why the loop stopped, for callers that want the
	// underlying vmerr.Error rather than just the State.
	LastError error

	// Output is where PRINT-like diagnostics would go if the ISA ever
	// grows one; nothing in the machine writes here today (the Dump*
	// methods return strings). Defaults to stdout.
	Output io.Writer

	// Cycles counts instructions executed by Step since the machine was
	// created or last Reset. MaxIterations is the runaway-program guard
	// Run enforces against it, configurable via config.Config's
	// Execution.MaxIterations (mirroring the teacher's CPU.Cycles/
	// MaxCycles pair).
	Cycles        uint64
	MaxIterations uint64
}

// NewMachine returns a Machine in its power-on state.
func NewMachine() *Machine {
	return &Machine{
		CPU:           NewCPU(),
		Memory:        NewMemory(),
		State:         StateHalted,
		Output:        os.Stdout,
		MaxIterations: DefaultMaxIterations,
	}
}

// Reset restores the machine to its power-on state, clearing RAM.
func (m *Machine) Reset() {
	m.CPU.Reset()
	m.Memory.Reset()
	m.State = StateHalted
	m.LastError = nil
	m.Cycles = 0
}

// Load copies a bytecode image into RAM at CodeStart and arms the
// machine to run it from there.
func (m *Machine) Load(image []byte) {
	m.Memory.LoadImage(image)
	m.CPU.PC = arch.CodeStart
}

// fetch reads the 4-byte record at PC.
func (m *Machine) fetch() encoder.Record {
	pc := m.CPU.PC
	return encoder.Record{
		m.Memory.ReadByte(pc),
		m.Memory.ReadByte(pc + 1),
		m.Memory.ReadByte(pc + 2),
		m.Memory.ReadByte(pc + 3),
	}
}

// Step fetches, decodes, and executes one instruction. It reports
// whether the machine halted or errored so Run can stop the loop.
func (m *Machine) Step() error {
	if m.MaxIterations > 0 && m.Cycles >= m.MaxIterations {
		return m.fail(vmerr.MaxIterationsExceeded(m.CPU.PC, m.MaxIterations))
	}

	rec := m.fetch()
	op := encoder.Opcode(rec[0])

	switch op {
	case encoder.OpLDI:
		m.CPU.Regs[rec[1]] = uint16(rec[2])<<8 | uint16(rec[3])
		m.setNZ(m.CPU.Regs[rec[1]])
		m.CPU.IncrementPC()

	case encoder.OpLDR:
		m.CPU.Regs[rec[1]] = m.CPU.Regs[rec[2]]
		m.setNZ(m.CPU.Regs[rec[1]])
		m.CPU.IncrementPC()

	case encoder.OpLDM:
		var value uint16
		if rec[2] == 0 && int(rec[3]) < arch.NumRegisters {
			// hi byte 0 marks register-indirect addressing: lo byte is
			// the source register index, per spec §6/§9. A lo byte past
			// the register count can't be a valid indirect operand (the
			// encoder never emits one), so it falls through to a direct
			// read instead of indexing Regs out of bounds.
			addr := m.CPU.Regs[rec[3]]
			value = m.Memory.ReadWord(addr)
		} else {
			addr := uint16(rec[2])<<8 | uint16(rec[3])
			value = m.Memory.ReadWord(addr)
		}
		m.CPU.Regs[rec[1]] = value
		m.setNZ(value)
		m.CPU.IncrementPC()

	case encoder.OpST:
		addr := uint16(rec[2])<<8 | uint16(rec[3])
		if m.Memory.IsStack(addr) {
			return m.fatal(vmerr.StoreIntoStack(m.CPU.PC, addr))
		}
		m.Memory.WriteWord(addr, m.CPU.Regs[rec[1]])
		m.CPU.IncrementPC()

	case encoder.OpSTH:
		addr := uint16(rec[2])<<8 | uint16(rec[3])
		if m.Memory.IsStack(addr) {
			return m.fatal(vmerr.StoreIntoStack(m.CPU.PC, addr))
		}
		m.Memory.WriteByte(addr, byte(m.CPU.Regs[rec[1]]>>8))
		m.CPU.IncrementPC()

	case encoder.OpSTL:
		addr := uint16(rec[2])<<8 | uint16(rec[3])
		if m.Memory.IsStack(addr) {
			return m.fatal(vmerr.StoreIntoStack(m.CPU.PC, addr))
		}
		m.Memory.WriteByte(addr, byte(m.CPU.Regs[rec[1]]))
		m.CPU.IncrementPC()

	case encoder.OpCMR:
		m.CPU.Compare(m.CPU.Regs[rec[1]], m.CPU.Regs[rec[2]])
		m.CPU.IncrementPC()

	case encoder.OpCMI:
		imm := uint16(rec[2])<<8 | uint16(rec[3])
		m.CPU.Compare(m.CPU.Regs[rec[1]], imm)
		m.CPU.IncrementPC()

	case encoder.OpJZ:
		return m.branchIf(m.CPU.PS.Zero(), rec)
	case encoder.OpJNZ:
		return m.branchIf(!m.CPU.PS.Zero(), rec)
	case encoder.OpJC:
		return m.branchIf(m.CPU.PS.Carry(), rec)
	case encoder.OpJNC:
		return m.branchIf(!m.CPU.PS.Carry(), rec)
	case encoder.OpJN:
		return m.branchIf(m.CPU.PS.Negative(), rec)
	case encoder.OpJP:
		return m.branchIf(!m.CPU.PS.Negative(), rec)
	case encoder.OpJV:
		return m.branchIf(m.CPU.PS.Overflow(), rec)
	case encoder.OpJNV:
		return m.branchIf(!m.CPU.PS.Overflow(), rec)
	case encoder.OpJMP:
		return m.branchIf(true, rec)

	case encoder.OpADDI:
		imm := uint16(rec[2])<<8 | uint16(rec[3])
		m.CPU.Regs[rec[1]] = m.CPU.Add(m.CPU.Regs[rec[1]], imm)
		m.CPU.IncrementPC()

	case encoder.OpADDR:
		m.CPU.Regs[rec[1]] = m.CPU.Add(m.CPU.Regs[rec[1]], m.CPU.Regs[rec[2]])
		m.CPU.IncrementPC()

	case encoder.OpINC:
		m.CPU.Regs[rec[1]]++
		m.setNZ(m.CPU.Regs[rec[1]])
		m.CPU.IncrementPC()

	case encoder.OpSUBI:
		imm := uint16(rec[2])<<8 | uint16(rec[3])
		m.CPU.Regs[rec[1]] = m.CPU.Sub(m.CPU.Regs[rec[1]], imm)
		m.CPU.IncrementPC()

	case encoder.OpSUBR:
		m.CPU.Regs[rec[1]] = m.CPU.Sub(m.CPU.Regs[rec[1]], m.CPU.Regs[rec[2]])
		m.CPU.IncrementPC()

	case encoder.OpDEC:
		m.CPU.Regs[rec[1]]--
		m.setNZ(m.CPU.Regs[rec[1]])
		m.CPU.IncrementPC()

	case encoder.OpPUSH:
		if m.CPU.SP == arch.StackMax {
			return m.fail(vmerr.StackOverflow(m.CPU.PC))
		}
		if m.CPU.SP%2 != 0 {
			return m.fail(vmerr.StackPointerAlignment(m.CPU.PC, m.CPU.SP))
		}
		m.CPU.SP -= 2
		m.Memory.WriteWord(m.CPU.SP, m.CPU.Regs[rec[1]])
		m.CPU.IncrementPC()

	case encoder.OpPOP:
		if m.CPU.SP == arch.StackMin {
			return m.fail(vmerr.StackEmpty(m.CPU.PC))
		}
		if m.CPU.SP%2 != 0 {
			return m.fail(vmerr.StackPointerAlignment(m.CPU.PC, m.CPU.SP))
		}
		m.CPU.Regs[rec[1]] = m.Memory.ReadWord(m.CPU.SP)
		m.CPU.SP += 2
		m.CPU.IncrementPC()

	case encoder.OpHALT:
		m.State = StateHalted

	case encoder.OpNOP:
		m.CPU.IncrementPC()

	default:
		return m.fail(vmerr.UnknownOpcode(m.CPU.PC, rec[0]))
	}

	m.Cycles++
	return nil
}

// setNZ updates Z and N following a plain load/move/increment that does
// not otherwise touch C or V.
func (m *Machine) setNZ(result uint16) {
	m.CPU.PS.SetOrClear(FlagZeroBit, result == 0)
	m.CPU.PS.SetOrClear(FlagNegativeBit, result&signBit16 != 0)
}

// branchIf validates a jump's target against the stack/VRAM/alignment
// guards unconditionally, the way the source's _exec_jump does it before
// ever looking at the condition, and only then sets PC if the branch is
// taken; an untaken conditional jump falls through to PC+4. A guard
// violation aborts the run regardless of whether the branch would have
// been taken.
func (m *Machine) branchIf(taken bool, rec encoder.Record) error {
	target := uint16(rec[2])<<8 | uint16(rec[3])
	if m.Memory.IsStack(target) {
		return m.fail(vmerr.StackJump(m.CPU.PC, target))
	}
	if m.Memory.IsVRAM(target) {
		return m.fail(vmerr.VRAMJump(m.CPU.PC, target, uint16(m.Memory.VRAMStart)))
	}
	if target%arch.InstructionSize != 0 {
		return m.fail(vmerr.PCAlignment(m.CPU.PC, target))
	}
	if !taken {
		m.CPU.IncrementPC()
		m.Cycles++
		return nil
	}
	m.CPU.PC = target
	m.Cycles++
	return nil
}

// fail marks the machine errored on a non-fatal runtime condition.
func (m *Machine) fail(err *vmerr.Error) error {
	m.State = StateError
	m.LastError = err
	return err
}

// fatal marks the machine errored on a condition the source treats as a
// hard process exit (StoreIntoStack).
func (m *Machine) fatal(err *vmerr.Error) error {
	m.State = StateError
	m.LastError = err
	return err
}

// Run drives the fetch/execute loop until HALT, an error, or PC reaching
// VRAM_START, which the source treats as a clean end-of-code condition
// rather than a fault (spec §4.8).
func (m *Machine) Run() error {
	m.State = StateRunning
	for m.State == StateRunning {
		if int(m.CPU.PC) >= m.Memory.VRAMStart {
			m.State = StateHalted
			return nil
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// DumpRegisters renders every register, PC, and SP as one line, the
// shape the CLI's -d registers dump prints.
func (m *Machine) DumpRegisters() string {
	s := fmt.Sprintf("PC=0x%04x SP=0x%04x", m.CPU.PC, m.CPU.SP)
	for i, r := range m.CPU.Regs {
		s += fmt.Sprintf(" R%d=0x%04x", i+1, r)
	}
	return s
}

// DumpFlags renders the status register as one line of set/clear marks.
func (m *Machine) DumpFlags() string {
	mark := func(set bool, name string) string {
		if set {
			return name
		}
		return "-"
	}
	return fmt.Sprintf("C=%s Z=%s V=%s N=%s",
		mark(m.CPU.PS.Carry(), "C"),
		mark(m.CPU.PS.Zero(), "Z"),
		mark(m.CPU.PS.Overflow(), "V"),
		mark(m.CPU.PS.Negative(), "N"),
	)
}

// DumpRAM renders length bytes of RAM starting at addr in a hex-dump
// style, 16 bytes per line.
func (m *Machine) DumpRAM(addr uint16, length int) string {
	var s string
	for i := 0; i < length; i++ {
		if i%16 == 0 {
			if i > 0 {
				s += "\n"
			}
			s += fmt.Sprintf("0x%04x:", int(addr)+i)
		}
		s += fmt.Sprintf(" %02x", m.Memory.ReadByte(addr+uint16(i)))
	}
	return s
}
