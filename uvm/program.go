package uvm

import (
	"iter"
	"slices"
)

// Program is an immutable sequence of instructions.
type Program struct {
	instructions []Instruction
}

// NewProgram creates a program from a list of instructions.
func NewProgram(instructions ...Instruction) *Program {
	return &Program{
		instructions: slices.Clone(instructions),
	}
}

// Load splits a program binary into its instruction records.
//
// Each record's width is found from the opcode in the low 7 bits of its
// first byte. A trailing partial record is zero-padded and decoded. On
// error, no program is returned.
func Load(binary []byte) (prog *Program, err error) {
	var instructions []Instruction

	offset := 0
	for offset < len(binary) {
		code := binary[offset] & FIELD_C_MASK
		width, ok := Width(code)
		if !ok {
			err = &ErrLoad{Offset: offset, Err: ErrUnknownOpcode(code)}
			return
		}

		end := min(offset+width, len(binary))

		var in Instruction
		in, err = Decode(binary[offset:end])
		if err != nil {
			err = &ErrLoad{Offset: offset, Err: err}
			return
		}

		instructions = append(instructions, in)
		offset += width
	}

	prog = &Program{instructions: instructions}
	return
}

// Len returns the number of instructions in the program.
func (prog *Program) Len() int {
	if prog == nil {
		return 0
	}
	return len(prog.instructions)
}

// At returns the instruction at index n.
func (prog *Program) At(n int) Instruction {
	return prog.instructions[n]
}

// All iterates over the program's instructions by index.
func (prog *Program) All() iter.Seq2[int, Instruction] {
	return func(yield func(n int, in Instruction) bool) {
		if prog == nil {
			return
		}
		for n, in := range prog.instructions {
			if !yield(n, in) {
				return
			}
		}
	}
}

// Binary returns the encoded program.
func (prog *Program) Binary() (binary []byte, err error) {
	for n, in := range prog.All() {
		binary, err = AppendEncode(binary, in)
		if err != nil {
			err = &ErrStep{Pc: n, Instruction: in, Err: err}
			return
		}
	}

	return
}
