// Package assembler orchestrates the AC100's two-pass translation: pass 1
// (FindLabels) walks the source once to build the symbol table, pass 2
// (Assemble) walks it again and dispatches each statement to its encoder.
// The split mirrors the teacher's parser-then-loader pipeline, collapsed
// to the two passes the AC100's line-oriented grammar actually needs.
package assembler

import (
	"bufio"
	"io"

	"github.com/chunga2020/ac100/arch"
	"github.com/chunga2020/ac100/asmerr"
	"github.com/chunga2020/ac100/encoder"
	"github.com/chunga2020/ac100/parser"
)

// asmPos converts a parser position to the asmerr package's own Position
// type; the two packages define the identical shape independently so
// parser need not import asmerr just to describe a location.
func asmPos(p parser.Position) asmerr.Position {
	return asmerr.Position{Filename: p.Filename, Line: p.Line}
}

// Assembler holds the state threaded across both passes of one
// translation unit: the symbol table pass 1 builds and pass 2 consults,
// plus bookkeeping for diagnostics.
type Assembler struct {
	Filename string
	Symbols  *parser.SymbolTable

	// Offset and LineNo reflect the assembler's position at the end of
	// the most recent pass — exported so tests can assert pass-agreement
	// (spec §8 property 3) the way the original test suite does.
	Offset int
	LineNo int
}

// New creates an Assembler for one translation unit.
func New(filename string) *Assembler {
	return &Assembler{
		Filename: filename,
		Symbols:  parser.NewSymbolTable(),
	}
}

// readLines buffers the entire source so both passes can iterate it
// without requiring the caller's reader to support seeking (spec §5:
// "either rewind it between passes or buffer lines").
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// FindLabels performs pass 1: it walks every line, advancing an offset
// counter from CodeStart, and records each label's address. The counter
// bump is unconditional on every non-blank, non-comment, non-label line
// (spec §4.3/§9) since every statement is exactly 4 bytes.
func (a *Assembler) FindLabels(lines []string) error {
	a.Offset = arch.CodeStart
	a.LineNo = 0

	for _, line := range lines {
		a.LineNo++
		tokens := parser.Tokenize(line)
		if parser.IsBlank(tokens) || parser.IsComment(tokens) {
			continue
		}
		if name, ok := parser.IsLabel(tokens); ok {
			pos := parser.Position{Filename: a.Filename, Line: a.LineNo}
			if !parser.LabelPattern.MatchString(name) {
				return asmerr.InvalidLabel(asmPos(pos), name)
			}
			if err := a.Symbols.Define(name, uint16(a.Offset), pos); err != nil {
				return err
			}
			continue
		}
		a.Offset += arch.InstructionSize
	}
	return nil
}

// Assemble performs pass 2: it resets the offset to CodeStart and
// re-walks the source, dispatching every non-blank, non-comment,
// non-label line to its encoder. On any encoder failure it aborts
// immediately, returning no partial output (spec §4.3).
func (a *Assembler) Assemble(lines []string) ([]byte, error) {
	a.Offset = arch.CodeStart
	a.LineNo = 0

	var out []byte
	for _, line := range lines {
		a.LineNo++
		tokens := parser.Tokenize(line)
		if parser.IsBlank(tokens) || parser.IsComment(tokens) {
			continue
		}
		if _, ok := parser.IsLabel(tokens); ok {
			continue // handled in pass 1; consumes zero bytes
		}

		pos := parser.Position{Filename: a.Filename, Line: a.LineNo}
		record, err := encoder.Encode(tokens, pos, a.Symbols)
		if err != nil {
			return nil, err
		}
		out = append(out, record[:]...)
		a.Offset += arch.InstructionSize
	}
	return out, nil
}

// AssembleSource runs both passes over r and returns the finished
// bytecode image. On success, len(image) % 4 == 0 always holds, since
// every encoder emits exactly arch.InstructionSize bytes.
func AssembleSource(r io.Reader, filename string) ([]byte, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	a := New(filename)
	if err := a.FindLabels(lines); err != nil {
		return nil, err
	}
	return a.Assemble(lines)
}
