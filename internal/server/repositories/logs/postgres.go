// Package logs provides storage for the practice log entries shown behind
// the session gate.
package logs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dsalog/internal/common"
	"github.com/dmitrijs2005/dsalog/internal/dbx"
	"github.com/dmitrijs2005/dsalog/internal/server/models"
)

// linkConstraint is the unique constraint on (user_id, problem_link).
const linkConstraint = "logs_user_problem_link_key"

// PostgresRepository implements log storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts entry and fills in the id and timestamps. An empty problem
// link is stored as NULL so entries without a link never collide.
func (r *PostgresRepository) Create(ctx context.Context, entry *models.LogEntry) (*models.LogEntry, error) {
	topics, err := json.Marshal(entry.Topics)
	if err != nil {
		return nil, fmt.Errorf("encode topics: %w", err)
	}

	query := `
		INSERT INTO logs (user_id, problem_name, problem_link, topics, difficulty, status, notes)
		VALUES ($1, $2, NULLIF($3, ''), $4::jsonb, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		entry.UserID, entry.ProblemName, entry.ProblemLink, string(topics), entry.Difficulty, entry.Status, entry.Notes).
		Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err, linkConstraint) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

// ListByUser returns the user's entries, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.LogEntry, error) {
	query := `
		SELECT id, user_id, problem_name, problem_link, topics, difficulty, status, notes, created_at, updated_at
		FROM logs
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.LogEntry
	for rows.Next() {
		var (
			item   models.LogEntry
			link   sql.NullString
			topics []byte
		)
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProblemName, &link, &topics,
			&item.Difficulty, &item.Status, &item.Notes, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		item.ProblemLink = link.String
		if err := json.Unmarshal(topics, &item.Topics); err != nil {
			return nil, fmt.Errorf("decode topics: %w", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Update replaces the editable fields of the entry identified by
// entry.ID and entry.UserID.
func (r *PostgresRepository) Update(ctx context.Context, entry *models.LogEntry) (*models.LogEntry, error) {
	topics, err := json.Marshal(entry.Topics)
	if err != nil {
		return nil, fmt.Errorf("encode topics: %w", err)
	}

	query := `
		UPDATE logs SET
			problem_name = $3,
			problem_link = NULLIF($4, ''),
			topics = $5::jsonb,
			difficulty = $6,
			status = $7,
			notes = $8,
			updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		entry.ID, entry.UserID, entry.ProblemName, entry.ProblemLink, string(topics), entry.Difficulty, entry.Status, entry.Notes).
		Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrorNotFound
		case dbx.IsUniqueViolation(err, linkConstraint):
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM logs WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
