package uvm

import (
	"fmt"
	"strings"
)

// Opcode is the 7-bit operation code stored in the low bits of the first
// byte of every instruction record.
type Opcode byte

const (
	OP_LOAD_CONST  = Opcode(44)  // LOAD_CONST
	OP_WRITE_MEM   = Opcode(34)  // WRITE_MEM
	OP_SHIFT_RIGHT = Opcode(37)  // SHR
	OP_READ_MEM    = Opcode(120) // READ_MEM
)

// Record field layout. C holds the opcode, B a register index, A the
// primary data operand (its width depends on the opcode).
const (
	FIELD_C_SHIFT = 0
	FIELD_C_BITS  = 7
	FIELD_C_MASK  = (1 << FIELD_C_BITS) - 1
	FIELD_B_SHIFT = FIELD_C_SHIFT + FIELD_C_BITS
	FIELD_B_BITS  = 5
	FIELD_B_MASK  = (1 << FIELD_B_BITS) - 1
	FIELD_A_SHIFT = FIELD_B_SHIFT + FIELD_B_BITS

	REGISTER_COUNT = 1 << FIELD_B_BITS // Size of the register file.
	RECORD_MAX     = 8                 // Largest record that fits the packing word.
)

// Per-opcode record widths (bytes) and A field widths (bits).
const (
	LOAD_CONST_WIDTH  = 5
	LOAD_CONST_A_BITS = 24
	READ_MEM_WIDTH    = 3
	READ_MEM_A_BITS   = FIELD_B_BITS
	WRITE_MEM_WIDTH   = 3
	WRITE_MEM_A_BITS  = FIELD_B_BITS
	SHR_WIDTH         = 6
	SHR_A_BITS        = 30
)

// Every field must fit inside its record, and every record inside the
// uint64 packing word. A negative constant here fails the build.
const (
	_ = uint(8*LOAD_CONST_WIDTH - (FIELD_A_SHIFT + LOAD_CONST_A_BITS))
	_ = uint(8*READ_MEM_WIDTH - (FIELD_A_SHIFT + READ_MEM_A_BITS))
	_ = uint(8*WRITE_MEM_WIDTH - (FIELD_A_SHIFT + WRITE_MEM_A_BITS))
	_ = uint(8*SHR_WIDTH - (FIELD_A_SHIFT + SHR_A_BITS))
	_ = uint(RECORD_MAX - SHR_WIDTH)
	_ = uint(RECORD_MAX - LOAD_CONST_WIDTH)
)

// Operand describes one operand of an instruction, in assembly order.
type Operand struct {
	Name     string // Operand name, for listings.
	Field    byte   // Record field, 'A' or 'B'.
	Bits     int    // Field width.
	Register bool   // Set if the operand names a register.
}

// Max returns the largest value the operand can hold.
func (op Operand) Max() uint32 {
	return uint32((uint64(1) << op.Bits) - 1)
}

// Descriptor is the single description of an opcode, shared by the
// codec, the loader and the assembler.
type Descriptor struct {
	Opcode   Opcode
	Name     string     // Assembly mnemonic.
	Width    int        // Record width, in bytes.
	Operands [2]Operand // Operands, in assembly order.

	build func(a, b uint32) Instruction
}

var _descriptors = []Descriptor{
	{
		Opcode: OP_LOAD_CONST,
		Name:   "LOAD_CONST",
		Width:  LOAD_CONST_WIDTH,
		Operands: [2]Operand{
			{Name: "reg", Field: 'B', Bits: FIELD_B_BITS, Register: true},
			{Name: "value", Field: 'A', Bits: LOAD_CONST_A_BITS},
		},
		build: func(a, b uint32) Instruction { return LoadConst{Reg: b, Value: a} },
	},
	{
		Opcode: OP_READ_MEM,
		Name:   "READ_MEM",
		Width:  READ_MEM_WIDTH,
		Operands: [2]Operand{
			{Name: "src", Field: 'B', Bits: FIELD_B_BITS, Register: true},
			{Name: "dst", Field: 'A', Bits: READ_MEM_A_BITS, Register: true},
		},
		build: func(a, b uint32) Instruction { return ReadMem{Src: b, Dst: a} },
	},
	{
		Opcode: OP_WRITE_MEM,
		Name:   "WRITE_MEM",
		Width:  WRITE_MEM_WIDTH,
		Operands: [2]Operand{
			{Name: "src", Field: 'B', Bits: FIELD_B_BITS, Register: true},
			{Name: "addr", Field: 'A', Bits: WRITE_MEM_A_BITS, Register: true},
		},
		build: func(a, b uint32) Instruction { return WriteMem{Src: b, Addr: a} },
	},
	{
		Opcode: OP_SHIFT_RIGHT,
		Name:   "SHR",
		Width:  SHR_WIDTH,
		Operands: [2]Operand{
			{Name: "reg", Field: 'B', Bits: FIELD_B_BITS, Register: true},
			{Name: "addr", Field: 'A', Bits: SHR_A_BITS},
		},
		build: func(a, b uint32) Instruction { return ShiftRight{Reg: b, Addr: a} },
	},
}

// ABits returns the width of the A field.
func (desc *Descriptor) ABits() int {
	for _, operand := range desc.Operands {
		if operand.Field == 'A' {
			return operand.Bits
		}
	}
	return 0
}

// _descriptorTable is indexed by opcode code.
var _descriptorTable [FIELD_C_MASK + 1]*Descriptor

// _descriptorNames is indexed by mnemonic.
var _descriptorNames = map[string]*Descriptor{}

func init() {
	for n := range _descriptors {
		desc := &_descriptors[n]
		if _descriptorTable[desc.Opcode] != nil {
			panic("duplicate opcode descriptor")
		}
		_descriptorTable[desc.Opcode] = desc
		_descriptorNames[desc.Name] = desc
	}
}

// Lookup returns the descriptor of an opcode code.
func Lookup(code byte) (desc *Descriptor, ok bool) {
	if int(code) >= len(_descriptorTable) {
		return
	}
	desc = _descriptorTable[code]
	ok = desc != nil
	return
}

// LookupName returns the descriptor of a mnemonic, ignoring case.
func LookupName(name string) (desc *Descriptor, ok bool) {
	desc, ok = _descriptorNames[strings.ToUpper(name)]
	return
}

// Width returns the record width of an opcode code.
func Width(code byte) (width int, ok bool) {
	desc, ok := Lookup(code)
	if ok {
		width = desc.Width
	}
	return
}

// Descriptor returns the descriptor of the opcode.
func (op Opcode) Descriptor() *Descriptor {
	desc, ok := Lookup(byte(op))
	if !ok {
		return nil
	}
	return desc
}

// String returns the assembly mnemonic of the opcode.
func (op Opcode) String() string {
	desc := op.Descriptor()
	if desc == nil {
		return fmt.Sprintf("Opcode(%d)", byte(op))
	}
	return desc.Name
}

// Instruction is one decoded instruction. The concrete types are
// LoadConst, ReadMem, WriteMem and ShiftRight.
type Instruction interface {
	// Opcode returns the instruction's opcode.
	Opcode() Opcode
	// Operands returns the operands, in assembly order.
	Operands() []uint32
	// String returns the assembly text of the instruction.
	String() string

	fields() (a, b uint32)
}

// LoadConst sets register Reg to Value.
type LoadConst struct {
	Reg   uint32
	Value uint32
}

// ReadMem sets register Dst to the memory cell addressed by register Src.
type ReadMem struct {
	Src uint32
	Dst uint32
}

// WriteMem stores register Src into the memory cell addressed by register Addr.
type WriteMem struct {
	Src  uint32
	Addr uint32
}

// ShiftRight shifts register Reg right by the value of memory cell Addr.
type ShiftRight struct {
	Reg  uint32
	Addr uint32
}

var (
	_ Instruction = LoadConst{}
	_ Instruction = ReadMem{}
	_ Instruction = WriteMem{}
	_ Instruction = ShiftRight{}
)

func (LoadConst) Opcode() Opcode  { return OP_LOAD_CONST }
func (ReadMem) Opcode() Opcode    { return OP_READ_MEM }
func (WriteMem) Opcode() Opcode   { return OP_WRITE_MEM }
func (ShiftRight) Opcode() Opcode { return OP_SHIFT_RIGHT }

func (in LoadConst) Operands() []uint32  { return []uint32{in.Reg, in.Value} }
func (in ReadMem) Operands() []uint32    { return []uint32{in.Src, in.Dst} }
func (in WriteMem) Operands() []uint32   { return []uint32{in.Src, in.Addr} }
func (in ShiftRight) Operands() []uint32 { return []uint32{in.Reg, in.Addr} }

func (in LoadConst) fields() (a, b uint32)  { return in.Value, in.Reg }
func (in ReadMem) fields() (a, b uint32)    { return in.Dst, in.Src }
func (in WriteMem) fields() (a, b uint32)   { return in.Addr, in.Src }
func (in ShiftRight) fields() (a, b uint32) { return in.Addr, in.Reg }

func (in LoadConst) String() string  { return format(in) }
func (in ReadMem) String() string    { return format(in) }
func (in WriteMem) String() string   { return format(in) }
func (in ShiftRight) String() string { return format(in) }

// format renders an instruction as assembly text.
func format(in Instruction) string {
	desc := in.Opcode().Descriptor()
	words := []string{desc.Name}
	for n, value := range in.Operands() {
		if desc.Operands[n].Register {
			words = append(words, fmt.Sprintf("r%d", value))
		} else {
			words = append(words, fmt.Sprintf("%d", value))
		}
	}
	return strings.Join(words, " ")
}

// NewInstruction creates an instruction from its opcode and operands,
// given in assembly order.
func NewInstruction(op Opcode, operands ...uint32) (in Instruction, err error) {
	desc := op.Descriptor()
	if desc == nil {
		err = ErrUnknownOpcode(op)
		return
	}

	if len(operands) != len(desc.Operands) {
		err = ErrOperandCount
		return
	}

	var a, b uint32
	for n, operand := range desc.Operands {
		value := operands[n]
		if value > operand.Max() {
			err = ErrOperandRange
			return
		}
		if operand.Field == 'A' {
			a = value
		} else {
			b = value
		}
	}

	in = desc.build(a, b)
	return
}

// Validate checks that every operand of the instruction fits its field.
func Validate(in Instruction) (err error) {
	if in == nil {
		return ErrInstructionInvalid
	}

	desc := in.Opcode().Descriptor()
	if desc == nil {
		return ErrUnknownOpcode(in.Opcode())
	}

	for n, value := range in.Operands() {
		if value > desc.Operands[n].Max() {
			return ErrOperandRange
		}
	}

	return
}
