package tools

import "testing"

func TestXref_DefinitionAndReferences(t *testing.T) {
	source := "loop:\nINC R1\nJNZ loop\nHALT\n"
	symbols := Xref(source, "t.asm")

	sym, ok := symbols["loop"]
	if !ok {
		t.Fatal("loop should appear in the xref table")
	}
	if sym.DefLine != 1 {
		t.Errorf("loop DefLine = %d, want 1", sym.DefLine)
	}
	if len(sym.References) != 1 || sym.References[0] != 3 {
		t.Errorf("loop References = %v, want [3]", sym.References)
	}
}

func TestXref_UndefinedLabelReferenced(t *testing.T) {
	source := "JMP nowhere\n"
	symbols := Xref(source, "t.asm")

	sym, ok := symbols["nowhere"]
	if !ok {
		t.Fatal("nowhere should appear in the xref table even though undefined")
	}
	if sym.DefLine != 0 {
		t.Errorf("nowhere DefLine = %d, want 0 (undefined)", sym.DefLine)
	}
}

func TestXref_LiteralAddressIsNotTrackedAsASymbol(t *testing.T) {
	source := "JMP 0x0200\n"
	symbols := Xref(source, "t.asm")
	if len(symbols) != 0 {
		t.Errorf("a literal jump target should not produce a symbol entry, got %v", symbols)
	}
}

func TestXrefReport_Formatting(t *testing.T) {
	source := "loop:\nJMP loop\n"
	report := XrefReport(Xref(source, "t.asm"))
	want := "loop                 line 1 (referenced at line(s) 2)\n"
	if report != want {
		t.Errorf("XrefReport = %q, want %q", report, want)
	}
}
