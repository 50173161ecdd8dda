package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smalltable/smalltable/internal/host"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <path>",
		Short: "Create an empty repository file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			store, err := host.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			repo, err := newEmptyRepository()
			if err != nil {
				return err
			}
			if err := store.Dump(repo); err != nil {
				return err
			}
			fmt.Printf("initialized empty repository at %s\n", path)
			return nil
		},
	}
}
