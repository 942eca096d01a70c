package backend

import (
	"context"
	"database/sql"
	"fmt"

	id "engage/pkg/domain"
)

// PostgresRecords implements RecordStore on PostgreSQL.
//
// Schema:
//
//	CREATE TABLE application_records (
//	    user_id     UUID        NOT NULL,
//	    signup_id   TEXT        NOT NULL,
//	    record_type TEXT        NOT NULL,
//	    payload     JSONB       NOT NULL,
//	    updated_at  TIMESTAMPTZ NOT NULL,
//	    PRIMARY KEY (user_id, signup_id, record_type)
//	);
type PostgresRecords struct {
	db *sql.DB
}

func NewPostgresRecords(db *sql.DB) *PostgresRecords {
	return &PostgresRecords{db: db}
}

func (s *PostgresRecords) Upsert(ctx context.Context, record Record) error {
	const query = `
		INSERT INTO application_records (user_id, signup_id, record_type, payload, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, signup_id, record_type)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		record.UserID.String(),
		record.SignupID.String(),
		string(record.Type),
		[]byte(record.Payload),
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert application record: %w", err)
	}
	return nil
}

func (s *PostgresRecords) ListBySignup(ctx context.Context, userID id.UserID, signupID id.SignupID) ([]Record, error) {
	const query = `
		SELECT record_type, payload, updated_at
		FROM application_records
		WHERE user_id = $1 AND signup_id = $2
		ORDER BY updated_at`

	rows, err := s.db.QueryContext(ctx, query, userID.String(), signupID.String())
	if err != nil {
		return nil, fmt.Errorf("list application records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		record := Record{UserID: userID, SignupID: signupID}
		var kind string
		if err := rows.Scan(&kind, &record.Payload, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan application record: %w", err)
		}
		record.Type = RecordType(kind)
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate application records: %w", err)
	}
	return out, nil
}
