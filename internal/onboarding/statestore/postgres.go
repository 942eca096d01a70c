package statestore

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists wizard state in PostgreSQL. This store is pure I/O;
// the fail-soft policy lives in the Persistent wrapper.
//
// Expected schema:
//
//	CREATE TABLE wizard_state (
//	    client_key TEXT NOT NULL,
//	    field      TEXT NOT NULL,
//	    value      BYTEA NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    PRIMARY KEY (client_key, field)
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Read(ctx context.Context, clientKey, field string) ([]byte, bool, error) {
	query := `
		SELECT value
		FROM wizard_state
		WHERE client_key = $1 AND field = $2
	`
	var value []byte
	err := s.db.QueryRowContext(ctx, query, clientKey, field).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read wizard state %s/%s: %w", clientKey, field, err)
	}
	return value, true, nil
}

func (s *PostgresStore) Write(ctx context.Context, clientKey, field string, value []byte) error {
	query := `
		INSERT INTO wizard_state (client_key, field, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (client_key, field) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = now()
	`
	if _, err := s.db.ExecContext(ctx, query, clientKey, field, value); err != nil {
		return fmt.Errorf("write wizard state %s/%s: %w", clientKey, field, err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context, clientKey string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM wizard_state WHERE client_key = $1`, clientKey); err != nil {
		return fmt.Errorf("clear wizard state %s: %w", clientKey, err)
	}
	return nil
}
