package uvm

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func parse(t *testing.T, program []string) (lst *Listing, err error) {
	asm := &Assembler{}
	return asm.Parse(strings.NewReader(strings.Join(program, "\n")))
}

func instructionsOf(lst *Listing) (out []Instruction) {
	for _, line := range lst.Lines {
		out = append(out, line.Instruction)
	}
	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	lst, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(lst.Lines))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal(fmt.Sprintf("%d", REGISTER_COUNT), asm.Equate["REGISTERS"])
	assert.Equal(fmt.Sprintf("%d", MEMORY_SIZE_DEFAULT), asm.Equate["MEMORY_SIZE"])
}

func TestAssembler_Instructions(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"; every opcode, in both register syntaxes",
		"LOAD_CONST r1 5",
		"load_const 2, 1000",
		"",
		"READ_MEM r2, r3 ; trailing comment",
		"write_mem\tR3 r4",
		"SHR r0 500",
		"shr 31 0x3fff_ffff",
	}

	lst, err := parse(t, program)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	expected := []Line{
		{2, 0, []string{"LOAD_CONST", "r1", "5"}, LoadConst{Reg: 1, Value: 5}},
		{3, 1, []string{"load_const", "2", "1000"}, LoadConst{Reg: 2, Value: 1000}},
		{5, 2, []string{"READ_MEM", "r2", "r3"}, ReadMem{Src: 2, Dst: 3}},
		{6, 3, []string{"write_mem", "R3", "r4"}, WriteMem{Src: 3, Addr: 4}},
		{7, 4, []string{"SHR", "r0", "500"}, ShiftRight{Reg: 0, Addr: 500}},
		{8, 5, []string{"shr", "31", "0x3fff_ffff"}, ShiftRight{Reg: 31, Addr: 0x3fffffff}},
	}

	assert.Equal(expected, lst.Lines)
}

func TestAssembler_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"LOAD_CONST r1 5",
		"READ_MEM r1 r2",
		"WRITE_MEM r2 r1",
		"SHR r2 500",
	}

	lst, err := parse(t, program)
	assert.NoError(err)

	binary, err := lst.Binary()
	assert.NoError(err)
	assert.Equal(5+3+3+6, len(binary))

	prog, err := Load(binary)
	assert.NoError(err)

	var loaded []Instruction
	for _, in := range prog.All() {
		loaded = append(loaded, in)
	}
	assert.Equal(instructionsOf(lst), loaded)

	for n, line := range lst.Lines {
		assert.Equal(program[n], line.Instruction.String())
	}
}

func TestAssemblerEqu(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".equ BASE 1000",
		".equ SRC r4",
		"LOAD_CONST SRC BASE",
		"LOAD_CONST r1 $(BASE + 24)",
		".equ DEST $(2 * BASE)",
		"LOAD_CONST r2 DEST",
		"LOAD_CONST r3 $(LINENO * 8)",
		"LOAD_CONST r5 $(MEMORY_SIZE - 1)",
		"LOAD_CONST r6 'A'",
	}

	lst, err := parse(t, program)
	assert.NoError(err)

	assert.Equal([]Instruction{
		LoadConst{Reg: 4, Value: 1000},
		LoadConst{Reg: 1, Value: 1024},
		LoadConst{Reg: 2, Value: 2000},
		LoadConst{Reg: 3, Value: 56},
		LoadConst{Reg: 5, Value: 65535},
		LoadConst{Reg: 6, Value: 65},
	}, instructionsOf(lst))
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("MEMORY_SIZE", "256")
	asm.Predefine("TABLE", "16")

	lst, err := asm.Parse(strings.NewReader("LOAD_CONST r0 $(MEMORY_SIZE - TABLE)"))
	assert.NoError(err)
	assert.Equal([]Instruction{LoadConst{Reg: 0, Value: 240}}, instructionsOf(lst))
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".macro SHIFT_CELL from to shift",
		"LOAD_CONST r1 from",
		"READ_MEM r1 r2",
		"SHR r2 shift",
		"LOAD_CONST r3 to",
		"WRITE_MEM r2 r3",
		".endm",
		".equ SHIFT 500",
		"SHIFT_CELL 1000 2000 SHIFT",
		"SHIFT_CELL $(1000 + 1) $(2000 + 1) SHIFT",
	}

	lst, err := parse(t, program)
	assert.NoError(err)

	assert.Equal([]Instruction{
		LoadConst{Reg: 1, Value: 1000},
		ReadMem{Src: 1, Dst: 2},
		ShiftRight{Reg: 2, Addr: 500},
		LoadConst{Reg: 3, Value: 2000},
		WriteMem{Src: 2, Addr: 3},
		LoadConst{Reg: 1, Value: 1001},
		ReadMem{Src: 1, Dst: 2},
		ShiftRight{Reg: 2, Addr: 500},
		LoadConst{Reg: 3, Value: 2001},
		WriteMem{Src: 2, Addr: 3},
	}, instructionsOf(lst))

	// Macro lines report their own source line numbers.
	assert.Equal(2, lst.Lines[0].LineNo)
	assert.Equal(6, lst.Lines[9].LineNo)
	assert.Equal(9, lst.Lines[9].Index)
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		lineno  int
		err     error
	}){
		{"opcode", []string{"JUMP 5"}, 1, ErrOpcodeInvalid},
		{"count_short", []string{"LOAD_CONST r1"}, 1, ErrOperandCount},
		{"count_long", []string{"", "READ_MEM r1 r2 r3"}, 2, ErrOperandCount},
		{"register", []string{"READ_MEM r32 r1"}, 1, ErrRegisterInvalid},
		{"range", []string{"LOAD_CONST r1 0x1000000"}, 1, ErrOperandRange},
		{"shr_range", []string{"SHR r1 0x40000000"}, 1, ErrOperandRange},
		{"number", []string{"LOAD_CONST r1 five"}, 1, ErrParseNumber("five")},
		{"negative", []string{"LOAD_CONST r1 -1"}, 1, ErrParseNumber("-1")},
		{"equ_syntax", []string{".equ A"}, 1, ErrEquateSyntax},
		{"equ_duplicate", []string{".equ A 1", ".equ A 2"}, 2, ErrEquateDuplicate},
		{"macro_nesting", []string{".macro A", ".macro B"}, 2, ErrMacroNesting},
		{"macro_duplicate", []string{".macro A", ".endm", ".macro A"}, 3, ErrMacroDuplicate},
		{"macro_lonely", []string{".macro A", "SHR r1 1"}, 2, ErrMacroLonely},
		{"endm_lonely", []string{".endm"}, 1, ErrMacroLonelyEndm},
		{"macro_args", []string{".macro A x", ".endm", "A"}, 3, ErrMacroSyntax},
		{"expression", []string{"LOAD_CONST r1 $(\"text\")"}, 1, ErrParseExpression("\"text\"")},
	}

	for _, entry := range table {
		_, err := parse(t, entry.program)
		assert.ErrorIs(err, entry.err, entry.name)

		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.name) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.name)
		}
	}
}

func TestAssemblerMacroError(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".macro BAD",
		"LOAD_CONST r1 1",
		"LOAD_CONST r99 1",
		".endm",
		"BAD",
	}

	_, err := parse(t, program)
	assert.ErrorIs(err, ErrRegisterInvalid)

	var macro *ErrMacro
	if assert.True(errors.As(err, &macro)) {
		assert.Equal("BAD", macro.Macro)
		assert.Equal(3, macro.Line)
	}

	var syntax *ErrSyntax
	if assert.True(errors.As(err, &syntax)) {
		assert.Equal(5, syntax.LineNo)
	}
}

func TestAssemblerReuse(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	lst, err := asm.Parse(strings.NewReader(".equ A 1\nLOAD_CONST r1 A"))
	assert.NoError(err)
	assert.Equal(1, len(lst.Lines))

	// Equates and lines do not leak between parses.
	lst2, err := asm.Parse(strings.NewReader(".equ A 2\nLOAD_CONST r1 A\nLOAD_CONST r2 A"))
	assert.NoError(err)
	assert.Equal(2, len(lst2.Lines))
	assert.Equal(LoadConst{Reg: 1, Value: 1}, lst.Lines[0].Instruction)
	assert.Equal(LoadConst{Reg: 2, Value: 2}, lst2.Lines[1].Instruction)
}
