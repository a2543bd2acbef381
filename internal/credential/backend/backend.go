// Package backend selects the credential service implementation once at
// startup from configuration.
package backend

import (
	"database/sql"
	"fmt"
	"log/slog"

	"credhub/internal/credential/institutions"
	"credhub/internal/credential/mock"
	"credhub/internal/credential/ports"
	"credhub/internal/credential/remote"
	"credhub/internal/credential/service"
	"credhub/internal/credential/store"
	"credhub/internal/platform/config"
	"credhub/internal/platform/tracer"
)

// Deps are the shared resources a backend may use.
type Deps struct {
	Logger *slog.Logger
	Tracer tracer.Tracer
	// DB backs the ledger; nil selects the in-memory store.
	DB *sql.DB
}

// New builds the backend named by cfg.Backend.
func New(cfg config.Config, deps Deps) (ports.CredentialService, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case config.BackendMock:
		opts := []mock.Option{mock.WithLogger(logger)}
		if cfg.MockLatency != nil {
			opts = append(opts, mock.WithLatency(*cfg.MockLatency))
		}
		return mock.New(opts...), nil

	case config.BackendRemote:
		if cfg.Remote.BaseURL == "" {
			return nil, fmt.Errorf("remote backend requires a base URL")
		}
		return remote.New(remote.Config{
			BaseURL: cfg.Remote.BaseURL,
			APIKey:  cfg.Remote.APIKey,
			Timeout: cfg.Remote.Timeout,
		}, remote.WithLogger(logger), remote.WithTracer(deps.Tracer)), nil

	case config.BackendLedger:
		registry := institutions.NewRegistry(institutions.DefaultInstitutions()...)
		if cfg.InstitutionsFile != "" {
			var err error
			if registry, err = institutions.Load(cfg.InstitutionsFile); err != nil {
				return nil, err
			}
		}
		known := registry.List()
		authorized := 0
		for _, inst := range known {
			if inst.Authorized {
				authorized++
			}
		}
		logger.Info("institution registry loaded",
			"institutions", len(known),
			"authorized", authorized,
			"file", cfg.InstitutionsFile,
		)

		var credStore service.CredentialStore = store.NewInMemoryStore()
		if deps.DB != nil {
			credStore = store.NewPostgres(deps.DB)
		}
		return service.New(credStore, registry, service.WithLogger(logger)), nil
	}
	return nil, fmt.Errorf("unknown credential backend %q", cfg.Backend)
}
