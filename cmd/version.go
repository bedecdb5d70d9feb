package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pawfetch/pawfetch/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show the current version of pawfetch.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "pawfetch version %s\n", version.String())
			return nil
		},
	}
}

func init() {
	RootCmd.AddCommand(newVersionCmd())
}
