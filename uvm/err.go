package uvm

import (
	"errors"
	"fmt"

	"github.com/ezrec/uvm/translate"
)

var (
	f       = translate.From
	decimal = translate.DecimalOf[int64]
)

var (
	// Instruction decode errors
	ErrDecode      = errors.New(f("decode"))
	ErrDecodeEmpty = fmt.Errorf("%w: %v", ErrDecode, f("empty record"))

	// Instruction construction errors
	ErrOperandCount       = errors.New(f("operand count"))
	ErrOperandRange       = errors.New(f("operand out of range"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrMacroSyntax     = errors.New(f(".macro syntax"))
	ErrMacroNesting    = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate  = errors.New(f(".macro duplicated"))
	ErrMacroLonely     = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm = errors.New(f(".endm without .macro"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
)

// ErrUnknownOpcode is returned when a record starts with an opcode code
// that has no descriptor.
type ErrUnknownOpcode byte

func (eu ErrUnknownOpcode) Error() string {
	return f("unknown opcode %v", decimal(int64(eu)))
}

func (eu ErrUnknownOpcode) Is(err error) (ok bool) {
	if err == ErrDecode {
		return true
	}
	_, ok = err.(ErrUnknownOpcode)
	return
}

// ErrLoad locates a decode failure within a program binary.
type ErrLoad struct {
	Offset int
	Err    error
}

func (err *ErrLoad) Error() string {
	return f("offset %v %v", decimal(int64(err.Offset)), err.Err)
}

func (err *ErrLoad) Unwrap() error {
	return err.Err
}

// Space names the storage an out-of-bounds index referred to.
//
//go:generate go tool stringer -linecomment -type=Space
type Space int

const (
	SPACE_REGISTER = Space(0) // register
	SPACE_MEMORY   = Space(1) // memory
)

// ErrOutOfBounds is returned when an instruction references a register
// or memory cell outside of the machine.
type ErrOutOfBounds struct {
	Space Space
	Index int64
	Size  int
}

func (err ErrOutOfBounds) Error() string {
	return f("%v index %v out of bounds [0, %v)", err.Space, decimal(err.Index), decimal(int64(err.Size)))
}

// Is matches any ErrOutOfBounds, regardless of its location.
func (err ErrOutOfBounds) Is(target error) (ok bool) {
	_, ok = target.(ErrOutOfBounds)
	return
}

// ErrStep locates an execution failure within the program.
type ErrStep struct {
	Pc          int
	Instruction Instruction
	Err         error
}

func (err *ErrStep) Error() string {
	return f("pc %v '%v' %v", decimal(int64(err.Pc)), err.Instruction, err.Err)
}

func (err *ErrStep) Unwrap() error {
	return err.Err
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %v '%v' %v", decimal(int64(err.LineNo)), err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, decimal(int64(err.Line)), err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
