// Package loader copies an assembled bytecode image into an AC100
// Machine's RAM. It is adapted from the teacher's segment-aware ELF-ish
// loader, reduced to the AC100's one-region, fixed-load-address model:
// there are no sections or directives to place, just a flat byte copy
// starting at CodeStart.
package loader

import (
	"fmt"

	"github.com/chunga2020/ac100/arch"
	"github.com/chunga2020/ac100/vm"
)

// LoadImage validates and copies a bytecode image into machine's RAM,
// arming PC to run it. It returns a descriptive error instead of
// panicking on a malformed image (the original source indexes out of
// bounds on a truncated file), consistent with Go's explicit-error idiom.
func LoadImage(machine *vm.Machine, image []byte) error {
	if len(image)%arch.InstructionSize != 0 {
		return fmt.Errorf("image length %d is not a multiple of %d bytes", len(image), arch.InstructionSize)
	}
	if arch.CodeStart+len(image) > machine.Memory.VRAMStart {
		return fmt.Errorf("image of %d bytes starting at 0x%04x overruns VRAM at 0x%04x",
			len(image), arch.CodeStart, machine.Memory.VRAMStart)
	}

	machine.Load(image)
	return nil
}
