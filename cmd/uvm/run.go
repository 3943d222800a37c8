package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/uvm/emulator"
	"github.com/ezrec/uvm/io"
	"github.com/ezrec/uvm/uvm"
)

type runOptions struct {
	*rootOptions
	Image      string
	Snapshot   string
	MemorySize int
	MaxSteps   int
}

func newRunCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "run <in.bin> <out.csv> <start-end>...",
		Short: "Run a UVM binary and dump memory ranges as CSV",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, opts, args[0], args[1], args[2:])
		},
	}

	cmd.Flags().StringVar(&opts.Image, "image", "", "YAML image to preload")
	cmd.Flags().StringVar(&opts.Snapshot, "snapshot", "", "write the dumped ranges and registers as a YAML image")
	cmd.Flags().IntVar(&opts.MemorySize, "memory-size", uvm.MEMORY_SIZE_DEFAULT, "data memory size, in words")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", uvm.MAX_STEPS_DEFAULT, "maximum instructions to execute")

	return cmd
}

func runRun(cmd *cobra.Command, opts *runOptions, input string, output string, texts []string) (err error) {
	ranges := make([]io.Range, len(texts))
	for n, text := range texts {
		ranges[n], err = io.ParseRange(text)
		if err != nil {
			return
		}
	}

	binary, err := os.ReadFile(input)
	if err != nil {
		return
	}

	emu := emulator.NewEmulator(opts.MemorySize)
	emu.Verbose = opts.Verbose

	err = emu.Load(binary)
	if err != nil {
		err = fmt.Errorf("%v: %w", input, err)
		return
	}

	if len(opts.Image) != 0 {
		err = preload(emu, opts.Image)
		if err != nil {
			return
		}
	}

	steps, err := emu.Run(opts.MaxSteps)
	if err != nil {
		err = fmt.Errorf("%v: %w", input, err)
		return
	}

	if opts.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "%v: %d steps, pc %d/%d\n", input, steps, emu.Pc(), emu.Program().Len())
	}

	ouf, err := os.Create(output)
	if err != nil {
		return
	}
	defer func() {
		cerr := ouf.Close()
		if err == nil {
			err = cerr
		}
	}()

	_, err = io.WriteDump(ouf, emu.Dump(ranges...))
	if err != nil {
		return
	}

	if len(opts.Snapshot) != 0 {
		err = snapshot(emu, opts.Snapshot, ranges)
		if err != nil {
			return
		}
	}

	return
}

func preload(emu *emulator.Emulator, path string) (err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	img, err := io.ReadImage(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
		return
	}

	err = emu.Preload(img)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
		return
	}

	return
}

func snapshot(emu *emulator.Emulator, path string, ranges []io.Range) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}
	defer func() {
		cerr := ouf.Close()
		if err == nil {
			err = cerr
		}
	}()

	err = io.WriteImage(ouf, emu.Snapshot(ranges...))
	return
}
