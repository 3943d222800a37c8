// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Command uvm assembles and runs UVM programs.
package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/ezrec/uvm/translate"
)

// rootOptions holds the global flags.
type rootOptions struct {
	Verbose bool
	Lang    string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "uvm",
		Short:         "UVM tiny instruction-set emulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if len(opts.Lang) != 0 {
				translate.SetLanguage(opts.Lang)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")
	cmd.PersistentFlags().StringVar(&opts.Lang, "lang", "", "message language (default from locale)")

	cmd.AddCommand(newAssembleCommand(opts))
	cmd.AddCommand(newRunCommand(opts))

	return cmd
}

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		log.Fatal(err)
	}
}
