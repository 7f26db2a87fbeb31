package parser

import (
	"regexp"

	"github.com/chunga2020/ac100/asmerr"
)

// LabelPattern is the identifier grammar for labels per spec §3:
// [A-Za-z][A-Za-z0-9_]*.
var LabelPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// SymbolTable maps a label to the absolute address it resolves to. It is
// built during pass 1 (find_labels) and consulted by the jump encoders
// during pass 2 (assemble).
type SymbolTable struct {
	offsets map[string]uint16
	defPos  map[string]Position
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		offsets: make(map[string]uint16),
		defPos:  make(map[string]Position),
	}
}

// Define records a label's address. Per spec §3, identifiers must be
// unique within a source unit; defining the same label twice is a
// DuplicateLabel error.
func (st *SymbolTable) Define(name string, address uint16, pos Position) error {
	if firstPos, exists := st.defPos[name]; exists {
		return asmerr.DuplicateLabel(asmPos(pos), name, asmPos(firstPos))
	}
	st.offsets[name] = address
	st.defPos[name] = pos
	return nil
}

// Lookup returns a label's address.
func (st *SymbolTable) Lookup(name string) (uint16, bool) {
	addr, ok := st.offsets[name]
	return addr, ok
}

// Len returns the number of defined labels.
func (st *SymbolTable) Len() int {
	return len(st.offsets)
}

// Names returns every defined label name, in no particular order.
func (st *SymbolTable) Names() []string {
	names := make([]string, 0, len(st.offsets))
	for name := range st.offsets {
		names = append(names, name)
	}
	return names
}
