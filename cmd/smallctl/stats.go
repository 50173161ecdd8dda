package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <path>",
		Short: "Print revision count and entity table size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			store, table, err := openTable(path)
			if err != nil {
				return err
			}
			defer store.Close()

			stats := table.Repository().Stats()
			fmt.Printf("revisions:      %d\n", stats.RevisionCount)
			fmt.Printf("entities:       %d\n", stats.EntityCount)
			fmt.Printf("last reference: %d\n", stats.LastReference)
			fmt.Printf("last entity id: %d\n", stats.LastEntityId)
			return nil
		},
	}
}
