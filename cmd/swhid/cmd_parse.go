package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wintermute101/swhid/pkg/swhid"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse SWHID",
		Short: "Parse a SWHID (with optional qualifiers) and re-emit it in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := swhid.ParseQualified(args[0])
			if err != nil {
				return fmt.Errorf("parse %q: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), q.String())
			return nil
		},
	}
}
