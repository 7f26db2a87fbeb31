// Command ac100 is the AC100 emulator CLI: positional bytecode file,
// -r/-c for video geometry, -l/--loglevel for diagnostics, and -d for a
// post-run debug dump. Exit codes follow spec §6: 0 on HALT, 1 on fatal
// configuration or store-region errors, nonzero on any other runtime
// error.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chunga2020/ac100/ac100log"
	"github.com/chunga2020/ac100/arch"
	"github.com/chunga2020/ac100/config"
	"github.com/chunga2020/ac100/loader"
	"github.com/chunga2020/ac100/vm"
	"github.com/chunga2020/ac100/vmerr"
)

func main() {
	var rows, columns int
	var loglevel string
	var dumpMode string

	root := &cobra.Command{
		Use:   "ac100 binary",
		Short: "Run an AC100 bytecode image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := ac100log.New(ac100log.ParseLevel(loglevel))

			cfg := config.DefaultConfig()
			vramStart := arch.VRAMStart
			if cmd.Flags().Changed("rows") || cmd.Flags().Changed("columns") {
				start, err := config.VRAMLayout(rows, columns)
				if err != nil {
					log.Warningf("%s; falling back to default video geometry", err)
				} else {
					vramStart = start
					cfg.Display.Rows, cfg.Display.Columns = rows, columns
				}
			}

			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			machine := vm.NewMachine()
			machine.Memory.VRAMStart = vramStart
			machine.MaxIterations = cfg.Execution.MaxIterations

			if err := loader.LoadImage(machine, image); err != nil {
				log.Errorf("%s", err)
				os.Exit(1)
			}

			log.Infof("running %s (%d bytes) from 0x%04x", args[0], len(image), arch.CodeStart)
			runErr := machine.Run()

			printDump(machine, dumpMode)

			if runErr != nil {
				if vmErr, ok := runErr.(*vmerr.Error); ok {
					log.Errorf("%s", vmErr)
					if vmErr.Fatal {
						os.Exit(1)
					}
					os.Exit(2)
				}
				log.Errorf("%s", runErr)
				os.Exit(2)
			}

			return nil
		},
	}

	root.Flags().IntVarP(&rows, "rows", "r", arch.DefaultVideoRows, "video display rows")
	root.Flags().IntVarP(&columns, "columns", "c", arch.DefaultVideoColumns, "video display columns")
	root.Flags().StringVarP(&loglevel, "loglevel", "l", "info", "debug, info, warning, or error")
	root.Flags().StringVarP(&dumpMode, "debug", "d", "none", "none, registers, ram, flags, or all")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printDump(m *vm.Machine, mode string) {
	switch mode {
	case "registers":
		fmt.Println(m.DumpRegisters())
	case "flags":
		fmt.Println(m.DumpFlags())
	case "ram":
		fmt.Println(m.DumpRAM(arch.CodeStart, int(m.CPU.PC)-arch.CodeStart))
	case "all":
		fmt.Println(m.DumpRegisters())
		fmt.Println(m.DumpFlags())
		fmt.Println(m.DumpRAM(arch.CodeStart, int(m.CPU.PC)-arch.CodeStart))
	}
}
