// Package uvm implements the instruction codec, program loader and
// interpreter for the UVM educational virtual machine, along with the
// assembler for its instruction set.
//
// The machine has 32 general-purpose 32-bit registers (r0-r31), a flat
// word-addressed data memory, and a program counter indexing into an
// immutable Program. Instructions are stored as variable-length
// little-endian records whose first byte carries the 7-bit opcode, so a
// binary can be split back into records without any length framing.
//
// The assembler provides a small line-oriented language for the
// instruction set, supporting equates, macros, and compile-time
// expression evaluation.
package uvm
