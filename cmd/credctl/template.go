package main

import (
	"io"

	"github.com/spf13/cobra"

	"credhub/internal/ingestion/models"
)

func newTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Print the example upload CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), models.TemplateCSV)
			return err
		},
	}
}
