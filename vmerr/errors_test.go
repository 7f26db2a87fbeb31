package vmerr

import "testing"

func TestFatalClassification(t *testing.T) {
	tests := []struct {
		name  string
		err   *Error
		fatal bool
	}{
		{"store into stack is fatal", StoreIntoStack(0x0200, 0x0010), true},
		{"stack jump is not fatal", StackJump(0x0200, 0x0010), false},
		{"vram jump is not fatal", VRAMJump(0x0200, 0xffff, 0xfd10), false},
		{"pc alignment is not fatal", PCAlignment(0x0200, 0x0201), false},
		{"stack overflow is not fatal", StackOverflow(0x0200), false},
		{"stack empty is not fatal", StackEmpty(0x0200), false},
		{"stack pointer alignment is not fatal", StackPointerAlignment(0x0200, 0x01ff), false},
		{"unknown opcode is not fatal", UnknownOpcode(0x0200, 0xab), false},
		{"max iterations exceeded is not fatal", MaxIterationsExceeded(0x0200, 1000), false},
	}

	for _, tt := range tests {
		if tt.err.Fatal != tt.fatal {
			t.Errorf("%s: Fatal = %v, want %v", tt.name, tt.err.Fatal, tt.fatal)
		}
	}
}

func TestErrorRendering(t *testing.T) {
	err := UnknownOpcode(0x0204, 0xab)
	want := "@0x0204: UnknownOpcode: unknown or unimplemented opcode 0xab"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestKindStringUnknown(t *testing.T) {
	var k Kind = 99
	if got := k.String(); got != "Kind(99)" {
		t.Errorf("Kind(99).String() = %q, want %q", got, "Kind(99)")
	}
}
