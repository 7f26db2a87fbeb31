// Package vmerr defines the emulator's runtime error taxonomy: the
// conditions that halt the fetch/execute loop or that the source treats as
// fatal (StoreIntoStack). Mirrors asmerr's shape but carries runtime state
// (PC, SP, faulting address) instead of source positions.
package vmerr

import "fmt"

// Kind categorizes a runtime error.
type Kind int

const (
	KindStoreIntoStack Kind = iota
	KindStackJump
	KindVRAMJump
	KindPCAlignment
	KindStackOverflow
	KindStackEmpty
	KindStackPointerAlignment
	KindUnknownOpcode
	KindMaxIterationsExceeded
)

var kindNames = map[Kind]string{
	KindStoreIntoStack:        "StoreIntoStack",
	KindStackJump:             "StackJump",
	KindVRAMJump:              "VRAMJump",
	KindPCAlignment:           "PCAlignment",
	KindStackOverflow:         "StackOverflow",
	KindStackEmpty:            "StackEmpty",
	KindStackPointerAlignment: "StackPointerAlignment",
	KindUnknownOpcode:         "UnknownOpcode",
	KindMaxIterationsExceeded: "MaxIterationsExceeded",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a single runtime diagnostic.
type Error struct {
	Kind    Kind
	PC      uint16
	Message string
	// Fatal marks errors the source treats as a hard process exit
	// (StoreIntoStack) rather than an ordinary failed-run status.
	Fatal bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("@0x%04x: %s: %s", e.PC, e.Kind, e.Message)
}

// StoreIntoStack reports an ST/STH/STL targeting stack space. Fatal: the
// source treats this as a hard process exit.
func StoreIntoStack(pc uint16, address uint16) *Error {
	return &Error{
		Kind:  KindStoreIntoStack,
		PC:    pc,
		Fatal: true,
		Message: fmt.Sprintf("programs may not store data in the stack "+
			"(address 0x%04x < 0x0200)", address),
	}
}

// StackJump reports a jump/branch target inside stack space.
func StackJump(pc uint16, address uint16) *Error {
	return &Error{
		Kind: KindStackJump,
		PC:   pc,
		Message: fmt.Sprintf("program counter may not be set to stack space "+
			"(target 0x%04x)", address),
	}
}

// VRAMJump reports a jump/branch target inside VRAM.
func VRAMJump(pc uint16, address, vramStart uint16) *Error {
	return &Error{
		Kind: KindVRAMJump,
		PC:   pc,
		Message: fmt.Sprintf("program counter may not be set to VRAM "+
			"(target 0x%04x >= 0x%04x)", address, vramStart),
	}
}

// PCAlignment reports a jump/branch target not on a 4-byte boundary.
func PCAlignment(pc uint16, address uint16) *Error {
	return &Error{
		Kind:    KindPCAlignment,
		PC:      pc,
		Message: fmt.Sprintf("target 0x%04x not on a four-byte boundary", address),
	}
}

// StackOverflow reports a PUSH attempted with SP already at address 0.
func StackOverflow(pc uint16) *Error {
	return &Error{Kind: KindStackOverflow, PC: pc, Message: "stack overflow"}
}

// StackEmpty reports a POP attempted with SP already at StackMin.
func StackEmpty(pc uint16) *Error {
	return &Error{Kind: KindStackEmpty, PC: pc, Message: "stack empty"}
}

// StackPointerAlignment reports SP losing 2-byte alignment.
func StackPointerAlignment(pc uint16, sp uint16) *Error {
	return &Error{
		Kind:    KindStackPointerAlignment,
		PC:      pc,
		Message: fmt.Sprintf("stack pointer 0x%04x not 2-byte aligned", sp),
	}
}

// UnknownOpcode reports an opcode byte with no decode-table entry.
func UnknownOpcode(pc uint16, opcode byte) *Error {
	return &Error{
		Kind:    KindUnknownOpcode,
		PC:      pc,
		Message: fmt.Sprintf("unknown or unimplemented opcode 0x%02x", opcode),
	}
}

// MaxIterationsExceeded reports a run that hit its configured instruction
// cap without reaching HALT or VRAM, the runaway-program guard described
// in spec §10.1.
func MaxIterationsExceeded(pc uint16, max uint64) *Error {
	return &Error{
		Kind:    KindMaxIterationsExceeded,
		PC:      pc,
		Message: fmt.Sprintf("exceeded maximum of %d instructions without halting", max),
	}
}
