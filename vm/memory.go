package vm

import "github.com/chunga2020/ac100/arch"

// Memory is the AC100's flat, byte-addressable address space. Unlike the
// teacher's ARM2, which partitions a much larger address space into
// permissioned code/data/heap/stack segments, the AC100 has one 64KiB
// array and only three logical regions within it — stack, code, and
// VRAM — identified by address range rather than by a segment table.
type Memory struct {
	RAM [arch.AddressSize]byte

	// VRAMStart is the first address of the video region. It defaults to
	// arch.VRAMStart; a caller using non-default display dimensions sets
	// it from config.VRAMLayout (as cmd/ac100 does for -r/-c).
	VRAMStart int
}

// NewMemory returns a zeroed Memory using the default VRAM layout.
func NewMemory() *Memory {
	return &Memory{VRAMStart: arch.VRAMStart}
}

// Reset zeroes every byte of RAM without altering the VRAM layout.
func (m *Memory) Reset() {
	m.RAM = [arch.AddressSize]byte{}
}

// IsStack reports whether addr falls in the stack region [0, StackMin).
func (m *Memory) IsStack(addr uint16) bool {
	return addr < arch.StackMin
}

// IsVRAM reports whether addr falls in the video region
// [VRAMStart, AddressMax].
func (m *Memory) IsVRAM(addr uint16) bool {
	return int(addr) >= m.VRAMStart
}

// ReadByte returns the byte at addr.
func (m *Memory) ReadByte(addr uint16) byte {
	return m.RAM[addr]
}

// WriteByte stores a byte at addr. Region guards are the executor's
// responsibility (spec §4.7): Memory itself never refuses a write.
func (m *Memory) WriteByte(addr uint16, value byte) {
	m.RAM[addr] = value
}

// ReadWord returns the big-endian 16-bit word at addr, addr+1.
func (m *Memory) ReadWord(addr uint16) uint16 {
	hi := uint16(m.RAM[addr])
	lo := uint16(m.RAM[addr+1])
	return hi<<8 | lo
}

// WriteWord stores value as a big-endian 16-bit word at addr, addr+1.
func (m *Memory) WriteWord(addr uint16, value uint16) {
	m.RAM[addr] = byte(value >> 8)
	m.RAM[addr+1] = byte(value)
}

// LoadImage copies a freshly assembled bytecode image into RAM starting
// at CodeStart. The caller (loader.LoadImage) has already validated that
// len(image) is a multiple of InstructionSize and fits before VRAMStart.
func (m *Memory) LoadImage(image []byte) {
	copy(m.RAM[arch.CodeStart:], image)
}

// VRAMSnapshot returns a copy of the video region, one byte per cell, in
// row-major order, sized for a display of rows*columns cells.
func (m *Memory) VRAMSnapshot(rows, columns int) []byte {
	size := rows * columns
	out := make([]byte, size)
	copy(out, m.RAM[m.VRAMStart:m.VRAMStart+size])
	return out
}
