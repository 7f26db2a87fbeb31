package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chunga2020/ac100/parser"
)

// jumpMnemonics is every mnemonic whose sole operand can be a label.
var jumpMnemonics = map[string]bool{
	"JZ": true, "JNZ": true, "JC": true, "JNC": true,
	"JN": true, "JP": true, "JV": true, "JNV": true,
	"JMP": true, "JSR": true,
}

// Symbol is a label's definition line and the lines that jump to it.
type Symbol struct {
	Name       string
	DefLine    int
	References []int
}

// Xref builds a label -> (definition, references) table by scanning
// source for label lines and jump statements whose operand is not a
// literal 0x-address. It does not resolve or validate addresses; that is
// Lint's and Assemble's job.
func Xref(source, filename string) map[string]*Symbol {
	symbols := make(map[string]*Symbol)

	get := func(name string) *Symbol {
		if s, ok := symbols[name]; ok {
			return s
		}
		s := &Symbol{Name: name}
		symbols[name] = s
		return s
	}

	lineNo := 0
	for _, line := range splitLines(source) {
		lineNo++
		tokens := parser.Tokenize(line)
		if parser.IsBlank(tokens) || parser.IsComment(tokens) {
			continue
		}
		if name, ok := parser.IsLabel(tokens); ok {
			get(name).DefLine = lineNo
			continue
		}
		mnemonic := strings.ToUpper(tokens[0])
		if !jumpMnemonics[mnemonic] || len(tokens) < 2 {
			continue
		}
		operand := tokens[1]
		if strings.HasPrefix(operand, "0x") || strings.HasPrefix(operand, "0X") {
			continue
		}
		sym := get(operand)
		sym.References = append(sym.References, lineNo)
	}

	return symbols
}

// XrefReport renders a Xref table as sorted, human-readable text.
func XrefReport(symbols map[string]*Symbol) string {
	names := make([]string, 0, len(symbols))
	for name := range symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sym := symbols[name]
		if sym.DefLine == 0 {
			sb.WriteString(fmt.Sprintf("%-20s (undefined)", name))
		} else {
			sb.WriteString(fmt.Sprintf("%-20s line %d", name, sym.DefLine))
		}
		if len(sym.References) == 0 {
			sb.WriteString(" (never referenced)\n")
			continue
		}
		lines := make([]string, len(sym.References))
		for i, l := range sym.References {
			lines[i] = fmt.Sprintf("%d", l)
		}
		sb.WriteString(fmt.Sprintf(" (referenced at line(s) %s)\n", strings.Join(lines, ", ")))
	}
	return sb.String()
}
