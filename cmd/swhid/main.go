package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "swhid",
		Short: "Compute and validate Software Hash Identifiers",
	}

	root.AddCommand(newContentCmd())
	root.AddCommand(newDirCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newVerifyCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
