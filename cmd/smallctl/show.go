package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <path> [name]",
		Short: "Print the head revision's bindings, or resolve one binding's entity",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			store, table, err := openTable(path)
			if err != nil {
				return err
			}
			defer store.Close()

			head := table.Repository().Head()

			if len(args) == 1 {
				bindings := head.Bindings()
				names := make([]string, 0, len(bindings))
				for name := range bindings {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Printf("%s -> %d\n", name, bindings[name])
				}
				return nil
			}

			name := args[1]
			obj, ok := table.Bound(name)
			if !ok {
				return fmt.Errorf("smallctl: %q is not bound", name)
			}
			fmt.Printf("%s (reference %d):\n", name, obj.Reference())
			if v, ok := obj.Get("value"); ok {
				if s, ok := v.Str(); ok {
					fmt.Printf("  value = %q\n", s)
				} else {
					fmt.Printf("  value = %+v\n", v)
				}
			}
			return nil
		},
	}
}
