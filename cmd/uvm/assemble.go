package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/uvm/emulator"
	"github.com/ezrec/uvm/uvm"
)

type assembleOptions struct {
	*rootOptions
	Test       bool
	MemorySize int
	Define     []string
}

func newAssembleCommand(root *rootOptions) *cobra.Command {
	opts := &assembleOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "assemble <in.asm> <out.bin>",
		Short: "Assemble a source file into a UVM binary",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssemble(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().BoolVar(&opts.Test, "test", false, "print each instruction with its encoding")
	cmd.Flags().IntVar(&opts.MemorySize, "memory-size", uvm.MEMORY_SIZE_DEFAULT, "MEMORY_SIZE equate, in words")
	cmd.Flags().StringArrayVarP(&opts.Define, "define", "D", nil, "predefine an equate as NAME=VALUE")

	return cmd
}

func runAssemble(cmd *cobra.Command, opts *assembleOptions, source string, output string) (err error) {
	emu := emulator.NewEmulator(opts.MemorySize)
	emu.Verbose = opts.Verbose

	asm := emu.Assembler()
	for _, define := range opts.Define {
		equ, value, ok := strings.Cut(define, "=")
		if !ok || len(equ) == 0 {
			err = fmt.Errorf("%w: %q", uvm.ErrEquateSyntax, define)
			return
		}
		asm.Predefine(equ, value)
	}

	inf, err := os.Open(source)
	if err != nil {
		return
	}
	defer inf.Close()

	lst, err := asm.Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", source, err)
		return
	}

	var binary []byte
	for _, line := range lst.Lines {
		offset := len(binary)
		binary, err = uvm.AppendEncode(binary, line.Instruction)
		if err != nil {
			err = fmt.Errorf("%v:%d: %w", source, line.LineNo, err)
			return
		}

		if opts.Test {
			fmt.Fprintf(cmd.OutOrStdout(), "%04d %5d: %-24v %v [% x]\n",
				line.Index, line.LineNo, line.Instruction,
				line.Instruction.Operands(), binary[offset:])
		}
	}

	err = os.WriteFile(output, binary, 0o644)
	if err != nil {
		return
	}

	if opts.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "%v: %d instructions, %d bytes\n", output, len(lst.Lines), len(binary))
	}

	return
}
