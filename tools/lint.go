package tools

import (
	"fmt"

	"github.com/chunga2020/ac100/arch"
	"github.com/chunga2020/ac100/asmerr"
	"github.com/chunga2020/ac100/encoder"
	"github.com/chunga2020/ac100/parser"
)

// LintLevel is the severity of a lint finding.
type LintLevel int

const (
	LintError LintLevel = iota
	LintWarning
)

func (l LintLevel) String() string {
	if l == LintWarning {
		return "warning"
	}
	return "error"
}

// LintIssue is a single lint finding, positioned the way asmerr.Error is.
type LintIssue struct {
	Level   LintLevel
	Line    int
	Message string
	Code    string
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("line %d: %s: %s [%s]", i.Line, i.Level, i.Message, i.Code)
}

// Lint checks source for everything detectable without producing a
// bytecode image: duplicate labels, unknown mnemonics, and out-of-range
// literals. Unlike Assemble, which aborts on the first error, Lint keeps
// going so a single pass surfaces every issue in the file.
func Lint(source, filename string) []*LintIssue {
	lines := splitLines(source)
	var issues []*LintIssue

	symtab := parser.NewSymbolTable()
	offset := arch.CodeStart
	lineNo := 0
	for _, line := range lines {
		lineNo++
		tokens := parser.Tokenize(line)
		if parser.IsBlank(tokens) || parser.IsComment(tokens) {
			continue
		}
		if name, ok := parser.IsLabel(tokens); ok {
			pos := parser.Position{Filename: filename, Line: lineNo}
			if err := symtab.Define(name, uint16(offset), pos); err != nil {
				issues = append(issues, asErrToLint(err))
			}
			continue
		}
		offset += arch.InstructionSize
	}

	lineNo = 0
	for _, line := range lines {
		lineNo++
		tokens := parser.Tokenize(line)
		if parser.IsBlank(tokens) || parser.IsComment(tokens) {
			continue
		}
		if _, ok := parser.IsLabel(tokens); ok {
			continue
		}

		pos := parser.Position{Filename: filename, Line: lineNo}
		if _, err := encoder.Encode(tokens, pos, symtab); err != nil {
			issues = append(issues, asErrToLint(err))
		}
	}

	return issues
}

func asErrToLint(err error) *LintIssue {
	if ae, ok := err.(*asmerr.Error); ok {
		code := ae.Kind.String()
		level := LintError
		if ae.Kind == asmerr.KindDuplicateLabel {
			level = LintWarning
		}
		return &LintIssue{Level: level, Line: ae.Pos.Line, Message: ae.Message, Code: code}
	}
	return &LintIssue{Level: LintError, Line: 0, Message: err.Error(), Code: "UNKNOWN"}
}

func splitLines(source string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			lines = append(lines, source[start:i])
			start = i + 1
		}
	}
	lines = append(lines, source[start:])
	return lines
}
