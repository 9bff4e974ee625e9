package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/lostfound/internal/version"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "lostfoundctl", version.String())
			return err
		},
	}
}
