package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/wintermute101/swhid/pkg/content"
)

func newContentCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "content",
		Short: "Compute the cnt SWHID of a file or stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readContentInput(file)
			if err != nil {
				return err
			}

			id, err := content.FromBytes(data)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), id.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to read (defaults to stdin)")
	return cmd
}

func readContentInput(file string) ([]byte, error) {
	if file == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return data, nil
}
