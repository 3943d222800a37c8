// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/uvm/internal"
	"github.com/ezrec/uvm/io"
	"github.com/ezrec/uvm/uvm"
)

// Emulator state. Machine + the listing it runs.
type Emulator struct {
	Verbose      bool         // If set, enables verbose logging.
	*uvm.Machine              // Reference to the machine simulation.
	Listing      *uvm.Listing // Source listing, or nil when running a bare binary.
}

// NewEmulator creates a new emulator with memorySize words of data memory.
// A memorySize of zero or less selects uvm.MEMORY_SIZE_DEFAULT.
func NewEmulator(memorySize int) (emu *Emulator) {
	emu = &Emulator{
		Machine: uvm.NewMachine(memorySize),
	}

	return
}

// Defines returns an iterator over the equates describing this emulator,
// for predefinition in an assembler.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"MEMORY_SIZE": fmt.Sprintf("%v", len(emu.Machine.Memory)),
		"REGISTERS":   fmt.Sprintf("%v", len(emu.Machine.Register)),
	})
}

// Assembler returns an assembler predefined with the emulator's equates.
func (emu *Emulator) Assembler() (asm *uvm.Assembler) {
	asm = &uvm.Assembler{Verbose: emu.Verbose}
	for equ, value := range emu.Defines() {
		asm.Predefine(equ, value)
	}

	return
}

// Reset the machine state. If there is a listing, it is encoded and
// loaded as the program.
func (emu *Emulator) Reset() (err error) {
	emu.Machine.Verbose = emu.Verbose

	if emu.Listing != nil {
		var binary []byte
		binary, err = emu.Listing.Binary()
		if err != nil {
			return
		}

		err = emu.Machine.LoadProgram(binary)
		if err != nil {
			return
		}
	}

	emu.Machine.Reset()

	return
}

// Load resets the emulator to run a bare binary program.
func (emu *Emulator) Load(binary []byte) (err error) {
	err = emu.Machine.LoadProgram(binary)
	if err != nil {
		return
	}

	emu.Listing = nil
	emu.Machine.Reset()

	return
}

// Preload copies an image into memory and registers. Every cell is
// bounds-checked before anything is written.
func (emu *Emulator) Preload(img *io.Image) (err error) {
	m := emu.Machine

	for addr := range img.Cells() {
		if addr < 0 || addr >= len(m.Memory) {
			err = &io.ErrImageCell{
				Address: addr,
				Err:     uvm.ErrOutOfBounds{Space: uvm.SPACE_MEMORY, Index: int64(addr), Size: len(m.Memory)},
			}
			return
		}
	}

	for index := range img.RegisterCells() {
		if index < 0 || index >= len(m.Register) {
			err = &io.ErrImageCell{
				Address: index,
				Err:     uvm.ErrOutOfBounds{Space: uvm.SPACE_REGISTER, Index: int64(index), Size: len(m.Register)},
			}
			return
		}
	}

	for addr, value := range img.Cells() {
		m.Memory[addr] = value
	}

	for index, value := range img.RegisterCells() {
		m.Register[index] = value
	}

	return
}

// LineNo returns the source line number of the instruction at the program
// counter, or 0 if unknown.
func (emu *Emulator) LineNo() int {
	if emu.Listing == nil {
		return 0
	}

	line := emu.Listing.Debug(emu.Machine.Pc())
	if line == nil {
		return 0
	}

	return line.LineNo
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Machine.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	ok, err := emu.Machine.Step()
	if err != nil {
		return
	}

	done = !ok
	return
}

// Run ticks the emulator until it is done, fails, or has executed
// maxSteps instructions. It returns the number of instructions executed.
func (emu *Emulator) Run(maxSteps int) (steps int, err error) {
	for steps < maxSteps {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
		steps++
	}

	return
}

// Dump iterates over the memory cells of each range in turn.
func (emu *Emulator) Dump(ranges ...io.Range) iter.Seq2[int, uint32] {
	seqs := make([]iter.Seq2[int, uint32], 0, len(ranges))
	for _, rng := range ranges {
		seqs = append(seqs, emu.Machine.Dump(rng.Start, rng.End))
	}

	return internal.IterSeq2Concat(seqs...)
}

// Snapshot returns an image of the memory ranges and all non-zero
// registers.
func (emu *Emulator) Snapshot(ranges ...io.Range) (img *io.Image) {
	img = io.NewImage(emu.Dump(ranges...))

	for index, value := range emu.Machine.Register {
		if value == 0 {
			continue
		}
		if img.Registers == nil {
			img.Registers = map[int]uint32{}
		}
		img.Registers[index] = value
	}

	return
}
