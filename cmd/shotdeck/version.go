package main

import (
	"fmt"

	"github.com/spf13/cobra"

	shotdeck "github.com/VantageDataChat/ShotDeck"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// No config or logger needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shotdeck %s (%s)\n", shotdeck.Version, build)
		},
	}
}
