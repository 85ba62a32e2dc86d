// eventz - utilities for live Chrome trace files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zoobzio/eventz"
)

// version is set by ldflags at build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "eventz",
		Short:         "Chrome Trace Event Format file utilities",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newFinalizeCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newFinalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finalize <trace-file>",
		Short: "Close the JSON array in a live trace file",
		Long: `A trace file being written by eventz is a perpetually unclosed JSON
array: "[\n" followed by one "<record>,\n" per event. finalize strips
the trailing separator and appends the closing bracket, yielding a
valid JSON array ready for a trace viewer.

No tracer should append to the file after it has been finalized.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := eventz.Finalize(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "finalized %s\n", args[0])
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the eventz version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
