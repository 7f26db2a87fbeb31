// Command ac100asm is the AC100's two-pass assembler CLI: positional
// source file, -o/--outfile for the bytecode image, -l/--loglevel for
// diagnostics, and --fmt/--lint/--xref modes that inspect a source file
// without producing an image. Built on cobra+pflag the way
// oisee-z80-optimizer's z80opt command is, since the teacher's own CLI
// absorbs most of its surface into its single debugger-oriented binary
// and has nothing directly comparable to reuse.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chunga2020/ac100/ac100log"
	"github.com/chunga2020/ac100/assembler"
	"github.com/chunga2020/ac100/tools"
)

func main() {
	var outfile string
	var loglevel string
	var fmtMode, lintMode, xrefMode bool

	root := &cobra.Command{
		Use:   "ac100asm infile",
		Short: "Assemble AC100 source into a bytecode image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			infile := args[0]
			log := ac100log.New(ac100log.ParseLevel(loglevel))

			src, err := os.ReadFile(infile)
			if err != nil {
				return fmt.Errorf("reading %s: %w", infile, err)
			}

			switch {
			case fmtMode:
				fmt.Print(tools.Format(string(src)))
				return nil
			case lintMode:
				issues := tools.Lint(string(src), infile)
				for _, issue := range issues {
					fmt.Println(issue.String())
				}
				if len(issues) > 0 {
					os.Exit(1)
				}
				return nil
			case xrefMode:
				fmt.Print(tools.XrefReport(tools.Xref(string(src), infile)))
				return nil
			}

			log.Infof("assembling %s", infile)
			f, err := os.Open(infile)
			if err != nil {
				return fmt.Errorf("opening %s: %w", infile, err)
			}
			defer f.Close()

			image, err := assembler.AssembleSource(f, infile)
			if err != nil {
				log.Errorf("%s", err)
				os.Exit(1)
			}

			if err := os.WriteFile(outfile, image, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", outfile, err)
			}
			log.Infof("wrote %d bytes to %s", len(image), outfile)
			return nil
		},
	}

	root.Flags().StringVarP(&outfile, "outfile", "o", "out.bin", "bytecode output file")
	root.Flags().StringVarP(&loglevel, "loglevel", "l", "info", "debug, info, warning, or error")
	root.Flags().BoolVar(&fmtMode, "fmt", false, "print the source reformatted, don't assemble")
	root.Flags().BoolVar(&lintMode, "lint", false, "report lint issues, don't assemble")
	root.Flags().BoolVar(&xrefMode, "xref", false, "print a label cross-reference, don't assemble")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
