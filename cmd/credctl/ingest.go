package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"credhub/internal/credential/backend"
	"credhub/internal/ingestion/models"
	ingestion "credhub/internal/ingestion/service"
	"credhub/internal/platform/config"
	"credhub/internal/platform/logger"
	"credhub/internal/platform/tracer"
)

func newIngestCmd() *cobra.Command {
	var (
		backendName string
		remoteURL   string
		dryRun      bool
	)
	cmd := &cobra.Command{
		Use:   "ingest FILE",
		Short: "Validate a .csv or .xlsx upload and issue every row",
		Long: "Parses and validates FILE. Nothing is issued unless every row is valid. " +
			"Issuance failures are reported per row and do not stop the batch.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("backend") {
				cfg.Backend = strings.ToLower(backendName)
			}
			if remoteURL != "" {
				cfg.Remote.BaseURL = strings.TrimRight(remoteURL, "/")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, "text")
			credentials, err := backend.New(cfg, backend.Deps{Logger: log, Tracer: tracer.NewNoop()})
			if err != nil {
				return err
			}
			svc := ingestion.New(credentials,
				ingestion.WithIssueTimeout(cfg.IssueTimeout),
				ingestion.WithLogger(log),
			)

			ctx := cmd.Context()
			filename := filepath.Base(args[0])
			if dryRun {
				rows, err := svc.Prepare(ctx, filename, data)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d rows valid, nothing issued\n", len(rows))
				return nil
			}

			result, err := svc.Ingest(ctx, filename, data, func(p models.Progress) {
				fmt.Fprintf(cmd.ErrOrStderr(), "[%3d%%] %d/%d\n", p.Percent, p.Completed, p.Total)
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&backendName, "backend", config.BackendMock, "credential backend: mock, remote or ledger")
	cmd.Flags().StringVar(&remoteURL, "remote-url", "", "base URL of the remote credential API")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and validate only")
	return cmd
}
