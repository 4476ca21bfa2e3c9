package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

type participantRepository struct {
	db *sql.DB
}

func NewParticipantRepository(db *sql.DB) ports.ParticipantRepository {
	return &participantRepository{
		db: db,
	}
}

func (r *participantRepository) Load(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM participants ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participants: %w", err)
	}
	return names, nil
}

// Save replaces the stored set with names.
func (r *participantRepository) Save(ctx context.Context, names []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM participants`); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO participants (name, position) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("failed to prepare participant statement: %w", err)
	}
	defer stmt.Close()

	for i, name := range names {
		if _, err := stmt.ExecContext(ctx, name, i); err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
