// Package encoder converts a tokenized AC100 source statement into its
// 4-byte instruction record. One function per mnemonic, dispatched from a
// table keyed on the uppercased mnemonic token — the same shape as the
// teacher's encoder.EncodeInstruction switch, scaled to the AC100's much
// smaller, fixed-width ISA: every encoder here returns exactly 4 bytes,
// so there is no per-instruction-type sub-dispatch the way the teacher
// needs for ARM's variable-width addressing modes.
package encoder

import (
	"strings"

	"github.com/chunga2020/ac100/arch"
	"github.com/chunga2020/ac100/asmerr"
	"github.com/chunga2020/ac100/parser"
)

// Opcode is a single-byte AC100 instruction opcode.
type Opcode byte

// Opcodes per spec §6.
const (
	OpLDI  Opcode = 0x00
	OpLDR  Opcode = 0x01
	OpLDM  Opcode = 0x02
	OpST   Opcode = 0x10
	OpSTH  Opcode = 0x11
	OpSTL  Opcode = 0x12
	OpCMR  Opcode = 0x20
	OpCMI  Opcode = 0x21
	OpJZ   Opcode = 0x30
	OpJNZ  Opcode = 0x31
	OpJC   Opcode = 0x32
	OpJNC  Opcode = 0x33
	OpJN   Opcode = 0x34
	OpJP   Opcode = 0x35
	OpJV   Opcode = 0x36
	OpJNV  Opcode = 0x37
	OpJMP  Opcode = 0x38
	OpJSR  Opcode = 0x39 // reserved: encoded, not executed (spec §9)
	OpADDI Opcode = 0x40
	OpADDR Opcode = 0x41
	OpINC  Opcode = 0x42
	OpSUBI Opcode = 0x43
	OpSUBR Opcode = 0x44
	OpDEC  Opcode = 0x45
	OpPUSH Opcode = 0xE0
	OpPOP  Opcode = 0xE1
	OpHALT Opcode = 0xFE
	OpNOP  Opcode = 0xFF
)

// Record is one 4-byte instruction record.
type Record [arch.InstructionSize]byte

// jumpOpcodes maps every conditional/unconditional jump mnemonic to its
// opcode; they all share one operand shape (an address) and one set of
// region guards, so they share one encode function.
var jumpOpcodes = map[string]Opcode{
	"JZ": OpJZ, "JNZ": OpJNZ,
	"JC": OpJC, "JNC": OpJNC,
	"JN": OpJN, "JP": OpJP,
	"JV": OpJV, "JNV": OpJNV,
	"JMP": OpJMP, "JSR": OpJSR,
}

// Encode dispatches a tokenized statement (mnemonic + operands, no label,
// no comment) to its encoder and returns the resulting 4-byte record.
// pos is used only for diagnostics; symtab resolves label operands of
// the jump mnemonics.
func Encode(tokens []string, pos parser.Position, symtab *parser.SymbolTable) (Record, error) {
	if len(tokens) == 0 {
		return Record{}, asmerr.New(toAsmPos(pos), asmerr.KindUnknownMnemonic, "empty instruction")
	}

	mnemonic := strings.ToUpper(tokens[0])
	operands := tokens[1:]

	if _, ok := jumpOpcodes[mnemonic]; ok {
		return encodeJump(mnemonic, operands, pos, symtab)
	}

	switch mnemonic {
	case "LDI":
		return encodeLDI(operands, pos)
	case "LDR":
		return encodeLDR(operands, pos)
	case "LDM":
		return encodeLDM(operands, pos)
	case "ST":
		return encodeStore(OpST, operands, pos)
	case "STH":
		return encodeStore(OpSTH, operands, pos)
	case "STL":
		return encodeStore(OpSTL, operands, pos)
	case "CMR":
		return encodeCMR(operands, pos)
	case "CMI":
		return encodeCMI(operands, pos)
	case "ADDI":
		return encodeArithImm(OpADDI, operands, pos)
	case "SUBI":
		return encodeArithImm(OpSUBI, operands, pos)
	case "ADDR":
		return encodeArithReg(OpADDR, operands, pos)
	case "SUBR":
		return encodeArithReg(OpSUBR, operands, pos)
	case "INC":
		return encodeRegOnly(OpINC, operands, pos)
	case "DEC":
		return encodeRegOnly(OpDEC, operands, pos)
	case "PUSH":
		return encodeRegOnly(OpPUSH, operands, pos)
	case "POP":
		return encodeRegOnly(OpPOP, operands, pos)
	case "HALT":
		return Record{byte(OpHALT), 0xFF, 0xFE, 0xFF}, nil
	case "NOP":
		return Record{byte(OpNOP), 0xFF, 0xFF, 0xFF}, nil
	default:
		return Record{}, asmerr.UnknownMnemonic(toAsmPos(pos), tokens[0])
	}
}

func tokenAt(tokens []string, i int) string {
	if i < 0 || i >= len(tokens) {
		return ""
	}
	return tokens[i]
}

func toAsmPos(p parser.Position) asmerr.Position {
	return asmerr.Position{Filename: p.Filename, Line: p.Line}
}

// encodeLDI emits LDI Rd IMM16.
func encodeLDI(operands []string, pos parser.Position) (Record, error) {
	rd, err := parser.ParseRegister(pos, tokenAt(operands, 0))
	if err != nil {
		return Record{}, err
	}
	imm, err := parser.ParseInt16(pos, tokenAt(operands, 1))
	if err != nil {
		return Record{}, err
	}
	return Record{byte(OpLDI), byte(rd), imm[0], imm[1]}, nil
}

// encodeLDR emits LDR Rd Rs.
func encodeLDR(operands []string, pos parser.Position) (Record, error) {
	rd, err := parser.ParseRegister(pos, tokenAt(operands, 0))
	if err != nil {
		return Record{}, err
	}
	rs, err := parser.ParseRegister(pos, tokenAt(operands, 1))
	if err != nil {
		return Record{}, err
	}
	return Record{byte(OpLDR), byte(rd), byte(rs), 0}, nil
}

// encodeLDM emits LDM Rd ADDR16, or, when the second operand is a
// register-indirect token, LDM Rd [Rs] using the hi=0/lo=register_index
// encoding from spec §4.3/§9.
func encodeLDM(operands []string, pos parser.Position) (Record, error) {
	rd, err := parser.ParseRegister(pos, tokenAt(operands, 0))
	if err != nil {
		return Record{}, err
	}
	second := tokenAt(operands, 1)
	if strings.HasPrefix(second, "[") {
		rs, err := parser.ParseRegisterIndirect(pos, second)
		if err != nil {
			return Record{}, err
		}
		return Record{byte(OpLDM), byte(rd), 0, byte(rs)}, nil
	}
	addr, err := parser.ParseAddress(pos, second)
	if err != nil {
		return Record{}, err
	}
	return Record{byte(OpLDM), byte(rd), byte(addr >> 8), byte(addr)}, nil
}

// encodeStore emits ST/STH/STL Rs ADDR16. Store-into-stack is not rejected
// at assembly time (spec §4.7: it is a runtime, not assembly, guard); the
// executor checks the address when the store runs. Only a literal 0xHHHH
// address operand is accepted; there is no register-indirect store form.
func encodeStore(op Opcode, operands []string, pos parser.Position) (Record, error) {
	rs, err := parser.ParseRegister(pos, tokenAt(operands, 0))
	if err != nil {
		return Record{}, err
	}
	addr, err := parser.ParseAddress(pos, tokenAt(operands, 1))
	if err != nil {
		return Record{}, err
	}
	return Record{byte(op), byte(rs), byte(addr >> 8), byte(addr)}, nil
}

// encodeCMR emits CMR Ra Rb.
func encodeCMR(operands []string, pos parser.Position) (Record, error) {
	ra, err := parser.ParseRegister(pos, tokenAt(operands, 0))
	if err != nil {
		return Record{}, err
	}
	rb, err := parser.ParseRegister(pos, tokenAt(operands, 1))
	if err != nil {
		return Record{}, err
	}
	return Record{byte(OpCMR), byte(ra), byte(rb), 0}, nil
}

// encodeCMI emits CMI Ra IMM16.
func encodeCMI(operands []string, pos parser.Position) (Record, error) {
	ra, err := parser.ParseRegister(pos, tokenAt(operands, 0))
	if err != nil {
		return Record{}, err
	}
	imm, err := parser.ParseInt16(pos, tokenAt(operands, 1))
	if err != nil {
		return Record{}, err
	}
	return Record{byte(OpCMI), byte(ra), imm[0], imm[1]}, nil
}

// encodeArithImm emits ADDI/SUBI Rd IMM16.
func encodeArithImm(op Opcode, operands []string, pos parser.Position) (Record, error) {
	rd, err := parser.ParseRegister(pos, tokenAt(operands, 0))
	if err != nil {
		return Record{}, err
	}
	imm, err := parser.ParseInt16(pos, tokenAt(operands, 1))
	if err != nil {
		return Record{}, err
	}
	return Record{byte(op), byte(rd), imm[0], imm[1]}, nil
}

// encodeArithReg emits ADDR/SUBR Rd Rs.
func encodeArithReg(op Opcode, operands []string, pos parser.Position) (Record, error) {
	rd, err := parser.ParseRegister(pos, tokenAt(operands, 0))
	if err != nil {
		return Record{}, err
	}
	rs, err := parser.ParseRegister(pos, tokenAt(operands, 1))
	if err != nil {
		return Record{}, err
	}
	return Record{byte(op), byte(rd), byte(rs), 0}, nil
}

// encodeRegOnly emits INC/DEC/PUSH/POP Rd, with bytes 2..3 unused.
func encodeRegOnly(op Opcode, operands []string, pos parser.Position) (Record, error) {
	rd, err := parser.ParseRegister(pos, tokenAt(operands, 0))
	if err != nil {
		return Record{}, err
	}
	return Record{byte(op), byte(rd), 0, 0}, nil
}

// encodeJump emits the shared record shape for JZ/JNZ/JC/JNC/JN/JP/JV/JNV/
// JMP/JSR: byte 1 unused, bytes 2..3 the target address. The operand is
// resolved as a label first and falls back to a literal 0x-address per
// spec §4.4; the resolved target is then checked against both region
// guards before the record is emitted.
func encodeJump(mnemonic string, operands []string, pos parser.Position, symtab *parser.SymbolTable) (Record, error) {
	op := jumpOpcodes[mnemonic]
	operand := tokenAt(operands, 0)

	var addr uint16
	if resolved, ok := symtab.Lookup(operand); ok {
		addr = resolved
	} else {
		a, err := parser.ParseAddress(pos, operand)
		if err != nil {
			return Record{}, err
		}
		addr = a
	}

	if addr < arch.StackMin {
		return Record{}, asmerr.JumpIntoStack(toAsmPos(pos), int(addr))
	}
	if addr%arch.InstructionSize != 0 {
		return Record{}, asmerr.JumpUnaligned(toAsmPos(pos), int(addr))
	}

	return Record{byte(op), 0, byte(addr >> 8), byte(addr)}, nil
}
