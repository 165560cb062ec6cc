package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wintermute101/swhid/pkg/content"
	"github.com/wintermute101/swhid/pkg/directory"
	"github.com/wintermute101/swhid/pkg/swhid"
)

// newVerifyCmd implements both the content form (--file/--expected) and
// the directory form (PATH SWHID [dir flags]), distinguished by whether
// --file is set.
func newVerifyCmd() *cobra.Command {
	var file, expected string
	var flags dirFlags

	cmd := &cobra.Command{
		Use:   "verify [PATH SWHID]",
		Short: "Compute a SWHID and compare it against an expected value",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				return verifyContent(cmd, file, expected)
			}
			if len(args) != 2 {
				return fmt.Errorf("verify: either --file PATH --expected SWHID, or PATH SWHID")
			}
			return verifyDirectory(cmd, args[0], args[1], flags)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "content mode: path to the file to verify")
	cmd.Flags().StringVar(&expected, "expected", "", "content mode: the expected cnt SWHID")
	flags.register(cmd)
	return cmd
}

func verifyContent(cmd *cobra.Command, file, expected string) error {
	if expected == "" {
		return fmt.Errorf("verify: --file requires --expected")
	}
	want, err := swhid.Parse(expected)
	if err != nil {
		return fmt.Errorf("verify: parse --expected %q: %w", expected, err)
	}

	data, err := readContentInput(file)
	if err != nil {
		return err
	}
	got, err := content.FromBytes(data)
	if err != nil {
		return err
	}

	return reportVerifyResult(cmd, want, got.String())
}

func verifyDirectory(cmd *cobra.Command, path, expected string, flags dirFlags) error {
	want, err := swhid.Parse(expected)
	if err != nil {
		return fmt.Errorf("verify: parse %q: %w", expected, err)
	}

	opts, err := flags.walkOptions(path)
	if err != nil {
		return err
	}
	got, err := directory.Compute(path, opts)
	if err != nil {
		return err
	}

	return reportVerifyResult(cmd, want, got.String())
}

func reportVerifyResult(cmd *cobra.Command, want swhid.Swhid, gotString string) error {
	if gotString == want.String() {
		fmt.Fprintln(cmd.OutOrStdout(), "match:", gotString)
		return nil
	}
	return fmt.Errorf("mismatch: expected %s, computed %s", want.String(), gotString)
}
