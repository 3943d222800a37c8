package uvm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	binary := []byte{
		0xac, 0x50, 0x00, 0x00, 0x00, // LOAD_CONST r1 5
		0x78, 0x31, 0x00, // READ_MEM r2 r3
		0xa2, 0x20, 0x00, // WRITE_MEM r1 r2
		0x25, 0x40, 0x1f, 0x00, 0x00, 0x00, // SHR r0 500
	}

	prog, err := Load(binary)
	assert.NoError(err)
	if !assert.NotNil(prog) {
		return
	}

	assert.Equal(4, prog.Len())
	assert.Equal(LoadConst{Reg: 1, Value: 5}, prog.At(0))
	assert.Equal(ReadMem{Src: 2, Dst: 3}, prog.At(1))
	assert.Equal(WriteMem{Src: 1, Addr: 2}, prog.At(2))
	assert.Equal(ShiftRight{Reg: 0, Addr: 500}, prog.At(3))

	again, err := prog.Binary()
	assert.NoError(err)
	assert.Equal(binary, again)
}

func TestLoad_Empty(t *testing.T) {
	assert := assert.New(t)

	prog, err := Load(nil)
	assert.NoError(err)
	assert.Equal(0, prog.Len())

	prog, err = Load([]byte{})
	assert.NoError(err)
	assert.Equal(0, prog.Len())

	count := 0
	for range prog.All() {
		count++
	}
	assert.Equal(0, count)
}

func TestLoad_Truncated(t *testing.T) {
	assert := assert.New(t)

	// A complete READ_MEM, then the first two bytes of a LOAD_CONST.
	prog, err := Load([]byte{0x78, 0x31, 0x00, 0xac, 0x50})
	assert.NoError(err)
	if assert.Equal(2, prog.Len()) {
		assert.Equal(ReadMem{Src: 2, Dst: 3}, prog.At(0))
		assert.Equal(LoadConst{Reg: 1, Value: 5}, prog.At(1))
	}

	// Only an opcode byte.
	prog, err = Load([]byte{0x25})
	assert.NoError(err)
	if assert.Equal(1, prog.Len()) {
		assert.Equal(ShiftRight{}, prog.At(0))
	}
}

func TestLoad_UnknownOpcode(t *testing.T) {
	assert := assert.New(t)

	prog, err := Load([]byte{0x78, 0x31, 0x00, 0x7f, 0x00})
	assert.Nil(prog)
	assert.ErrorIs(err, ErrDecode)
	assert.ErrorIs(err, ErrUnknownOpcode(0x7f))

	var errLoad *ErrLoad
	if assert.True(errors.As(err, &errLoad)) {
		assert.Equal(3, errLoad.Offset)
	}

	_, err = Load([]byte{0x00})
	assert.ErrorIs(err, ErrUnknownOpcode(0))
}

func TestProgram_All_EarlyReturn(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(
		LoadConst{Reg: 1, Value: 1},
		LoadConst{Reg: 2, Value: 2},
		LoadConst{Reg: 3, Value: 3},
	)

	count := 0
	for n, in := range prog.All() {
		assert.Equal(prog.At(n), in)
		count++
		if count == 2 {
			break
		}
	}

	assert.Equal(2, count)
}

func TestProgram_Immutable(t *testing.T) {
	assert := assert.New(t)

	instructions := []Instruction{LoadConst{Reg: 1, Value: 1}}
	prog := NewProgram(instructions...)
	instructions[0] = LoadConst{Reg: 2, Value: 2}

	assert.Equal(LoadConst{Reg: 1, Value: 1}, prog.At(0))
}

func TestProgram_Binary_Invalid(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(LoadConst{Reg: 1, Value: 1}, LoadConst{Reg: 99, Value: 1})

	_, err := prog.Binary()
	assert.ErrorIs(err, ErrOperandRange)

	var errStep *ErrStep
	if assert.True(errors.As(err, &errStep)) {
		assert.Equal(1, errStep.Pc)
	}
}

func TestListing(t *testing.T) {
	assert := assert.New(t)

	lst := &Listing{
		Lines: []Line{
			{LineNo: 2, Index: 0, Words: []string{"LOAD_CONST", "r1", "5"}, Instruction: LoadConst{Reg: 1, Value: 5}},
			{LineNo: 5, Index: 1, Words: []string{"READ_MEM", "r1", "r2"}, Instruction: ReadMem{Src: 1, Dst: 2}},
		},
	}

	prog := lst.Program()
	assert.Equal(2, prog.Len())
	assert.Equal(ReadMem{Src: 1, Dst: 2}, prog.At(1))

	binary, err := lst.Binary()
	assert.NoError(err)
	assert.Equal(8, len(binary))

	line := lst.Debug(1)
	if assert.NotNil(line) {
		assert.Equal(5, line.LineNo)
	}

	assert.Nil(lst.Debug(2))
	assert.Nil(lst.Debug(-1))
}

func TestListing_Debug(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	source := strings.Repeat("LOAD_CONST r1 5\n\n", 1000)
	lst, err := asm.Parse(strings.NewReader(source))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(1000, len(lst.Lines))

	for n := range lst.Lines {
		line := lst.Debug(n)
		if !assert.NotNil(line, n) {
			break
		}
		assert.Equal(n, line.Index)
		assert.Equal(2*n+1, line.LineNo)
	}
	assert.Nil(lst.Debug(1000))

	// Hand-built listings need not be in index order.
	lst = &Listing{
		Lines: []Line{
			{LineNo: 7, Index: 1, Instruction: LoadConst{}},
			{LineNo: 3, Index: 0, Instruction: LoadConst{}},
		},
	}
	line := lst.Debug(0)
	if assert.NotNil(line) {
		assert.Equal(3, line.LineNo)
	}
	line = lst.Debug(1)
	if assert.NotNil(line) {
		assert.Equal(7, line.LineNo)
	}
}
