// Package tools adapts the teacher's source-listing utilities
// (formatter, linter, cross-referencer) to the AC100's much smaller,
// line-oriented grammar: one statement per line, single-space-separated
// tokens, no directives, no operand expressions.
package tools

import (
	"strings"

	"github.com/chunga2020/ac100/parser"
)

// Format re-emits source in canonical form: a label alone on its line,
// and every other statement as its uppercased mnemonic followed by its
// operands, each separated by a single space, trailing whitespace
// trimmed and comments preserved verbatim. Blank lines are preserved so
// a formatted file keeps its original line count.
func Format(source string) string {
	lines := strings.Split(source, "\n")
	var out strings.Builder

	for i, line := range lines {
		tokens := parser.Tokenize(line)

		switch {
		case parser.IsBlank(tokens):
			// preserve blank lines verbatim
		case parser.IsComment(tokens):
			out.WriteString(strings.TrimSpace(line))
		default:
			if name, ok := parser.IsLabel(tokens); ok {
				out.WriteString(name + ":")
			} else {
				out.WriteString(strings.ToUpper(tokens[0]))
				if len(tokens) > 1 {
					out.WriteString(" ")
					out.WriteString(strings.Join(tokens[1:], " "))
				}
			}
		}

		if i < len(lines)-1 {
			out.WriteString("\n")
		}
	}

	return out.String()
}
