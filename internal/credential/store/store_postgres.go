package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"credhub/internal/credential/models"
	"credhub/pkg/domain"
)

const uniqueViolation = "23505"

// PostgresStore persists credentials in the credentials table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, record models.CredentialRecord) error {
	metadata, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("marshal credential metadata: %w", err)
	}
	query := `
		INSERT INTO credentials (id, owner, institution, credential_type, title, issue_date, verification_hash, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.db.ExecContext(ctx, query,
		record.ID.String(),
		record.StudentID.String(),
		record.Institution,
		string(record.CredentialType),
		record.Title,
		record.IssueDate,
		record.VerificationHash,
		metadata,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrConflict
		}
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

const selectColumns = `id, owner, institution, credential_type, title, issue_date, verification_hash, metadata`

func (s *PostgresStore) FindByID(ctx context.Context, id models.CredentialID) (models.CredentialRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM credentials WHERE id = $1`
	record, err := scanCredential(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CredentialRecord{}, ErrNotFound
		}
		return models.CredentialRecord{}, fmt.Errorf("find credential by id: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, owner domain.Principal) ([]models.CredentialRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM credentials WHERE owner = $1 ORDER BY seq`
	rows, err := s.db.QueryContext(ctx, query, owner.String())
	if err != nil {
		return nil, fmt.Errorf("list credentials by owner: %w", err)
	}
	defer rows.Close()

	out := make([]models.CredentialRecord, 0)
	for rows.Next() {
		record, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}
	return out, nil
}

type credentialRow interface {
	Scan(dest ...any) error
}

func scanCredential(row credentialRow) (models.CredentialRecord, error) {
	var (
		record   models.CredentialRecord
		id       string
		owner    string
		credType string
		metadata []byte
	)
	if err := row.Scan(&id, &owner, &record.Institution, &credType, &record.Title,
		&record.IssueDate, &record.VerificationHash, &metadata); err != nil {
		return models.CredentialRecord{}, err
	}
	record.ID = models.CredentialID(id)
	record.StudentID = domain.Principal(owner)
	record.CredentialType = models.CredentialType(credType)
	record.IssueDate = record.IssueDate.UTC()
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &record.Metadata); err != nil {
			return models.CredentialRecord{}, fmt.Errorf("unmarshal credential metadata: %w", err)
		}
	}
	return record, nil
}
