package uvm

import (
	"fmt"
	"iter"
	"log"
	"strings"
)

const (
	MEMORY_SIZE_DEFAULT = 65536 // Default data memory size, in words.
	MAX_STEPS_DEFAULT   = 10000 // Default step bound for Run.
)

// Machine is the simulation context for a single UVM program.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Register [REGISTER_COUNT]uint32 // Register bank.
	Memory   []uint32               // Data memory.

	pc      int      // Index of the next instruction.
	program *Program // Loaded program.
}

// NewMachine creates a zeroed machine with memorySize words of data
// memory. A memorySize of zero or less selects MEMORY_SIZE_DEFAULT.
func NewMachine(memorySize int) (m *Machine) {
	if memorySize <= 0 {
		memorySize = MEMORY_SIZE_DEFAULT
	}

	m = &Machine{
		Memory:  make([]uint32, memorySize),
		program: &Program{},
	}

	return
}

// Reset zeroes the registers, memory and program counter.
// The loaded program is kept.
func (m *Machine) Reset() {
	if m.Verbose {
		log.Printf("uvm: reset")
	}

	clear(m.Register[:])
	clear(m.Memory)
	m.pc = 0
}

// LoadProgram replaces the program with one loaded from binary.
// The program counter is not changed; callers re-running a program
// must Reset first. On error the previous program is kept.
func (m *Machine) LoadProgram(binary []byte) (err error) {
	prog, err := Load(binary)
	if err != nil {
		return
	}

	m.SetProgram(prog)

	return
}

// SetProgram replaces the program.
func (m *Machine) SetProgram(prog *Program) {
	if prog == nil {
		prog = &Program{}
	}

	if m.Verbose {
		log.Printf("uvm: program of %d instructions", prog.Len())
	}

	m.program = prog
}

// Program returns the loaded program.
func (m *Machine) Program() *Program {
	return m.program
}

// Pc returns the program counter.
func (m *Machine) Pc() int {
	return m.pc
}

// Halted returns true once the program counter has run off the program.
func (m *Machine) Halted() bool {
	return m.pc >= m.program.Len()
}

// Step executes the instruction at the program counter.
//
// Returns false, with no side effects, if the machine is halted. If the
// instruction fails the program counter is not advanced.
func (m *Machine) Step() (ok bool, err error) {
	if m.Halted() {
		return
	}

	in := m.program.At(m.pc)

	if m.Verbose {
		log.Printf("%04d: %v", m.pc, in)
	}

	err = m.Execute(in)
	if err != nil {
		err = &ErrStep{Pc: m.pc, Instruction: in, Err: err}
		return
	}

	m.pc++
	ok = true

	return
}

// Run steps the machine until it halts, an instruction fails, or
// maxSteps instructions have executed. It returns the number of
// instructions executed.
func (m *Machine) Run(maxSteps int) (steps int, err error) {
	for steps < maxSteps {
		var ok bool
		ok, err = m.Step()
		if err != nil || !ok {
			return
		}
		steps++
	}

	if m.Verbose && !m.Halted() {
		log.Printf("uvm: stopped after %d steps at pc %d", steps, m.pc)
	}

	return
}

// register returns a pointer to register index.
func (m *Machine) register(index uint32) (reg *uint32, err error) {
	if uint64(index) >= uint64(len(m.Register)) {
		err = ErrOutOfBounds{Space: SPACE_REGISTER, Index: int64(index), Size: len(m.Register)}
		return
	}

	reg = &m.Register[index]
	return
}

// cell returns a pointer to memory cell addr.
func (m *Machine) cell(addr uint32) (cell *uint32, err error) {
	if uint64(addr) >= uint64(len(m.Memory)) {
		err = ErrOutOfBounds{Space: SPACE_MEMORY, Index: int64(addr), Size: len(m.Memory)}
		return
	}

	cell = &m.Memory[addr]
	return
}

// Execute executes a single instruction against the machine state.
// All indices are checked before any state is written.
func (m *Machine) Execute(in Instruction) (err error) {
	switch in := in.(type) {
	case LoadConst:
		var dst *uint32
		dst, err = m.register(in.Reg)
		if err != nil {
			return
		}
		*dst = in.Value
	case ReadMem:
		var src, dst, cell *uint32
		src, err = m.register(in.Src)
		if err != nil {
			return
		}
		dst, err = m.register(in.Dst)
		if err != nil {
			return
		}
		cell, err = m.cell(*src)
		if err != nil {
			return
		}
		*dst = *cell
	case WriteMem:
		var src, addr, cell *uint32
		src, err = m.register(in.Src)
		if err != nil {
			return
		}
		addr, err = m.register(in.Addr)
		if err != nil {
			return
		}
		cell, err = m.cell(*addr)
		if err != nil {
			return
		}
		*cell = *src
	case ShiftRight:
		var reg, cell *uint32
		reg, err = m.register(in.Reg)
		if err != nil {
			return
		}
		cell, err = m.cell(in.Addr)
		if err != nil {
			return
		}
		// Shifts of 32 or more clear the register.
		*reg = *reg >> *cell
	default:
		err = ErrInstructionInvalid
	}

	return
}

// Dump iterates over the (address, value) pairs of memory from start to
// end inclusive. The range is clamped to the memory; it never fails.
func (m *Machine) Dump(start, end int) iter.Seq2[int, uint32] {
	return func(yield func(addr int, value uint32) bool) {
		start := max(start, 0)
		end := min(end, len(m.Memory)-1)
		for addr := start; addr <= end; addr++ {
			if !yield(addr, m.Memory[addr]) {
				return
			}
		}
	}
}

// String returns the current machine state as a string.
func (m *Machine) String() string {
	var text strings.Builder

	fmt.Fprintf(&text, "   pc: %d/%d\n", m.pc, m.program.Len())
	for n := 0; n < len(m.Register); n += 4 {
		for c := range 4 {
			val := m.Register[n+c]
			fmt.Fprintf(&text, "% 5s: %04X_%04X", fmt.Sprintf("r%d", n+c), val>>16, val&0xffff)
		}
		text.WriteString("\n")
	}

	return text.String()
}
