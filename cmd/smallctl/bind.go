package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bind <path> <name> <value>",
		Short: "Bind a root name to a freshly created object with property \"value\" set",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, name, value := args[0], args[1], args[2]

			store, table, err := openTable(path)
			if err != nil {
				return err
			}
			defer store.Close()

			obj := table.New()
			obj.SetString("value", value)
			if err := table.Bind(name, obj); err != nil {
				return err
			}
			if _, err := table.Save(); err != nil {
				return err
			}
			if err := store.Dump(table.Repository()); err != nil {
				return err
			}
			fmt.Printf("bound %q to a new object (reference %d)\n", name, obj.Reference())
			return nil
		},
	}
}
