package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"credhub/pkg/domain"
)

func newPrincipalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "principal PRINCIPAL",
		Short: "Check that an owner principal is well formed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := domain.ParsePrincipal(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid (%d bytes)\n", p, len(p.Bytes()))
			return nil
		},
	}
}
