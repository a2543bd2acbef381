package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "credctl",
		Short:         "Bulk credential issuance and verification",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newTemplateCmd(),
		newIngestCmd(),
		newVerifyCmd(),
		newPrincipalCmd(),
	)
	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
