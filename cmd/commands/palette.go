package commands

import (
	"github.com/spf13/cobra"
)

func newPaletteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "palette",
		Short: "List the accent colors",
		Long:  `List the accent colors with their primary, light and dark variants. Multi-series charts rotate through them in this order.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printPalette(cmd.OutOrStdout())
		},
	}
}
