package cmd

import "github.com/spf13/cobra"

func addCommand(parent *cobra.Command, child *cobra.Command, flags ...func(cmd *cobra.Command)) *cobra.Command {
	for _, fn := range flags {
		fn(child)
	}
	parent.AddCommand(child)

	return child
}
