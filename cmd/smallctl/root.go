package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "smallctl",
		Short: "Inspect and drive a SmallTable repository file",
	}
	root.AddCommand(newInitCmd())
	root.AddCommand(newBindCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newStatsCmd())
	return root
}
