package vm

import (
	"github.com/chunga2020/ac100/arch"
	"github.com/chunga2020/ac100/vmerr"
	"testing"
)

func runImage(t *testing.T, image []byte) *Machine {
	t.Helper()
	m := NewMachine()
	m.Load(image)
	if err := m.Run(); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	return m
}

func TestScenarioA_LoadAndHalt(t *testing.T) {
	m := runImage(t, []byte{0x00, 0x00, 0x00, 0x01, 0xFE, 0xFF, 0xFE, 0xFF})
	if m.CPU.Regs[0] != 1 {
		t.Errorf("R1 = 0x%04x, want 0x0001", m.CPU.Regs[0])
	}
	if m.State != StateHalted {
		t.Errorf("State = %v, want %v", m.State, StateHalted)
	}
}

func TestScenarioB_RegisterToRegister(t *testing.T) {
	m := runImage(t, []byte{
		0x00, 0x00, 0x00, 0x05, // LDI R1 5
		0x01, 0x01, 0x00, 0x00, // LDR R2 R1
		0xFE, 0xFF, 0xFE, 0xFF, // HALT
	})
	if m.CPU.Regs[1] != 5 {
		t.Errorf("R2 = 0x%04x, want 0x0005", m.CPU.Regs[1])
	}
}

func TestScenarioC_StoreLoadRoundTrip(t *testing.T) {
	m := runImage(t, []byte{
		0x00, 0x00, 0xab, 0xcd, // LDI R1 0xabcd
		0x10, 0x00, 0x05, 0x00, // ST R1 0x0500
		0x02, 0x01, 0x05, 0x00, // LDM R2 0x0500
		0xFE, 0xFF, 0xFE, 0xFF, // HALT
	})
	if got := m.Memory.ReadByte(0x0500); got != 0xAB {
		t.Errorf("RAM[0x0500] = 0x%02x, want 0xab", got)
	}
	if got := m.Memory.ReadByte(0x0501); got != 0xCD {
		t.Errorf("RAM[0x0501] = 0x%02x, want 0xcd", got)
	}
	if m.CPU.Regs[1] != 0xABCD {
		t.Errorf("R2 = 0x%04x, want 0xabcd", m.CPU.Regs[1])
	}
}

func TestScenarioE_StackLIFO(t *testing.T) {
	m := NewMachine()
	m.Load([]byte{
		0x00, 0x00, 0x12, 0x34, // LDI R1 0x1234
		0xE0, 0x00, 0x00, 0x00, // PUSH R1
		0xE1, 0x01, 0x00, 0x00, // POP R2
	})

	if err := m.Step(); err != nil { // LDI
		t.Fatalf("LDI step: %v", err)
	}
	if err := m.Step(); err != nil { // PUSH
		t.Fatalf("PUSH step: %v", err)
	}
	if m.CPU.SP != 0x01FE {
		t.Errorf("SP after PUSH = 0x%04x, want 0x01fe", m.CPU.SP)
	}
	if got := m.Memory.ReadByte(0x01FE); got != 0x12 {
		t.Errorf("RAM[0x01fe] = 0x%02x, want 0x12", got)
	}
	if got := m.Memory.ReadByte(0x01FF); got != 0x34 {
		t.Errorf("RAM[0x01ff] = 0x%02x, want 0x34", got)
	}

	if err := m.Step(); err != nil { // POP
		t.Fatalf("POP step: %v", err)
	}
	if m.CPU.SP != 0x0200 {
		t.Errorf("SP after POP = 0x%04x, want 0x0200", m.CPU.SP)
	}
	if m.CPU.Regs[1] != 0x1234 {
		t.Errorf("R2 after POP = 0x%04x, want 0x1234", m.CPU.Regs[1])
	}
}

func TestRegionGuard_StoreIntoStackIsFatal(t *testing.T) {
	m := NewMachine()
	m.Load([]byte{
		0x00, 0x00, 0x00, 0x01, // LDI R1 1
		0x10, 0x00, 0x01, 0x00, // ST R1 0x0100 (stack region)
	})
	if err := m.Run(); err == nil {
		t.Fatal("expected an error storing into stack space")
	}
	vmErr, ok := m.LastError.(*vmerr.Error)
	if !ok {
		t.Fatalf("LastError = %v, want *vmerr.Error", m.LastError)
	}
	if !vmErr.Fatal {
		t.Error("StoreIntoStack should be marked Fatal")
	}
}

func TestRegionGuard_JumpIntoStack(t *testing.T) {
	m := NewMachine()
	m.Load([]byte{
		0x38, 0x00, 0x01, 0x00, // JMP 0x0100
	})
	if err := m.Run(); err == nil {
		t.Fatal("expected an error jumping into stack space")
	}
}

func TestRegionGuard_JumpIntoVRAM(t *testing.T) {
	m := NewMachine()
	vramStart := uint16(m.Memory.VRAMStart)
	m.Load([]byte{
		0x38, 0x00, byte(vramStart >> 8), byte(vramStart), // JMP VRAMStart
	})
	if err := m.Run(); err == nil {
		t.Fatal("expected an error jumping into VRAM")
	}
}

func TestRegionGuard_UnalignedJump(t *testing.T) {
	m := NewMachine()
	m.Load([]byte{
		0x38, 0x00, 0x02, 0x01, // JMP 0x0201
	})
	if err := m.Run(); err == nil {
		t.Fatal("expected an error jumping to an unaligned target")
	}
}

func TestRunStopsCleanlyAtVRAM(t *testing.T) {
	m := NewMachine()
	m.CPU.PC = uint16(m.Memory.VRAMStart)
	if err := m.Run(); err != nil {
		t.Fatalf("reaching VRAM should be a clean stop, got error: %v", err)
	}
	if m.State != StateHalted {
		t.Errorf("State = %v, want %v", m.State, StateHalted)
	}
}

func TestUnknownOpcode(t *testing.T) {
	m := NewMachine()
	m.Load([]byte{0xAB, 0x00, 0x00, 0x00})
	if err := m.Run(); err == nil {
		t.Fatal("expected UnknownOpcode for an unassigned opcode byte")
	}
}

func TestStackOverflow(t *testing.T) {
	m := NewMachine()
	m.CPU.SP = arch.StackMax
	m.Memory.WriteByte(m.CPU.PC, byte(encOpPUSH))
	if err := m.Step(); err == nil {
		t.Fatal("PUSH with SP at StackMax should overflow")
	}
}

func TestStackEmpty(t *testing.T) {
	m := NewMachine()
	m.CPU.SP = arch.StackMin
	m.Memory.WriteByte(m.CPU.PC, byte(encOpPOP))
	if err := m.Step(); err == nil {
		t.Fatal("POP with SP at StackMin should be empty")
	}
}

// encOpPUSH and encOpPOP mirror encoder.OpPUSH/OpPOP without importing the
// encoder package purely for two opcode constants.
const (
	encOpPUSH = 0xE0
	encOpPOP  = 0xE1
)

func TestRegionGuard_UntakenBranchStillChecksVRAM(t *testing.T) {
	m := NewMachine()
	vramStart := uint16(m.Memory.VRAMStart)
	m.Load([]byte{
		0x30, 0x00, byte(vramStart >> 8), byte(vramStart), // JZ VRAMStart, Z clear
	})
	if err := m.Run(); err == nil {
		t.Fatal("an untaken conditional jump to VRAM should still be rejected")
	}
	if m.CPU.PC != arch.CodeStart {
		t.Errorf("PC should not have advanced past the rejected jump, got 0x%04x", m.CPU.PC)
	}
}

func TestOpLDM_DirectAddressLowByteAboveRegisterCount(t *testing.T) {
	// LDM R1 0x0050: hi byte 0 would normally mean register-indirect, but
	// a lo byte of 0x50 can't index the 16 general registers, so this must
	// read RAM directly instead of panicking on Regs[0x50].
	m := NewMachine()
	m.Memory.WriteWord(0x0050, 0xBEEF)
	m.Load([]byte{
		0x02, 0x00, 0x00, 0x50, // LDM R1 0x0050
		0xFE, 0xFF, 0xFE, 0xFF, // HALT
	})
	if err := m.Run(); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if m.CPU.Regs[0] != 0xBEEF {
		t.Errorf("R1 = 0x%04x, want 0xbeef", m.CPU.Regs[0])
	}
}

func TestOpLDM_RegisterIndirect(t *testing.T) {
	// LDM R2 [R1] (hi=0, lo=0 selects R1 as the indirect pointer register).
	m := NewMachine()
	m.Memory.WriteWord(0x0600, 0xCAFE)
	m.Load([]byte{
		0x00, 0x00, 0x06, 0x00, // LDI R1 0x0600
		0x02, 0x01, 0x00, 0x00, // LDM R2 [R1] (indirect through R1)
		0xFE, 0xFF, 0xFE, 0xFF, // HALT
	})
	if err := m.Run(); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if m.CPU.Regs[1] != 0xCAFE {
		t.Errorf("R2 = 0x%04x, want 0xcafe", m.CPU.Regs[1])
	}
}

func TestMaxIterationsExceeded(t *testing.T) {
	m := NewMachine()
	m.MaxIterations = 3
	m.Load([]byte{
		0x38, 0x00, byte(arch.CodeStart >> 8), byte(arch.CodeStart & 0xFF), // JMP CodeStart
	})
	err := m.Run()
	if err == nil {
		t.Fatal("expected an error once the iteration cap is reached")
	}
	vmErr, ok := err.(*vmerr.Error)
	if !ok {
		t.Fatalf("err = %v, want *vmerr.Error", err)
	}
	if vmErr.Kind != vmerr.KindMaxIterationsExceeded {
		t.Errorf("Kind = %v, want %v", vmErr.Kind, vmerr.KindMaxIterationsExceeded)
	}
	if m.Cycles != m.MaxIterations {
		t.Errorf("Cycles = %d, want %d", m.Cycles, m.MaxIterations)
	}
}

func TestCompare_DoesNotClearOverflowAtExecutorLevel(t *testing.T) {
	m := NewMachine()
	m.Load([]byte{
		0x40, 0x00, 0x7F, 0xFF, // ADDI R1 0x7fff (0 + 0x7fff, no overflow yet)
		0x40, 0x00, 0x7F, 0xFF, // ADDI R1 0x7fff again: 0x7fff+0x7fff overflows into negative
		0x21, 0x00, 0x00, 0x01, // CMI R1 1 (no overflow on this subtraction)
		0xFE, 0xFF, 0xFE, 0xFF, // HALT
	})
	if err := m.Run(); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if !m.CPU.PS.Overflow() {
		t.Error("CMI must not clear a previously-set Overflow flag")
	}
}
