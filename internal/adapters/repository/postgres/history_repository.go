package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

type historyRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) ports.HistoryRepository {
	return &historyRepository{
		db: db,
	}
}

// row holds the JSON encoded columns of one history entry.
type row struct {
	options, correct, results, answers []byte
}

func encodeRow(entry domain.HistoryEntry) (row, error) {
	var (
		r   row
		err error
	)
	if r.options, err = json.Marshal(entry.Options); err != nil {
		return r, fmt.Errorf("failed to encode options: %w", err)
	}
	if r.correct, err = json.Marshal(entry.CorrectAnswers); err != nil {
		return r, fmt.Errorf("failed to encode correct answers: %w", err)
	}
	if r.results, err = json.Marshal(entry.Results); err != nil {
		return r, fmt.Errorf("failed to encode results: %w", err)
	}
	if r.answers, err = json.Marshal(entry.Answers); err != nil {
		return r, fmt.Errorf("failed to encode answers: %w", err)
	}
	return r, nil
}

func (r *historyRepository) Append(ctx context.Context, entry domain.HistoryEntry) error {
	enc, err := encodeRow(entry)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO rounds (id, question, options, correct_answers, time_limit, results, answers, status, created_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.db.ExecContext(ctx, query,
		entry.ID, entry.Question, string(enc.options), string(enc.correct), entry.TimeLimit,
		string(enc.results), string(enc.answers), entry.Status, entry.CreatedAt, entry.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert round: %w", err)
	}
	return nil
}

func (r *historyRepository) Update(ctx context.Context, entry domain.HistoryEntry) error {
	enc, err := encodeRow(entry)
	if err != nil {
		return err
	}

	query := `
		UPDATE rounds
		SET results = $2, answers = $3, status = $4, closed_at = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		entry.ID, string(enc.results), string(enc.answers), entry.Status, entry.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update round: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrHistoryNotFound
	}
	return nil
}

func (r *historyRepository) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	query := `
		SELECT id, question, options, correct_answers, time_limit, results, answers, status, created_at, closed_at
		FROM rounds
		ORDER BY seq
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var (
			entry    domain.HistoryEntry
			enc      row
			closedAt sql.NullTime
		)
		err := rows.Scan(
			&entry.ID, &entry.Question, &enc.options, &enc.correct, &entry.TimeLimit,
			&enc.results, &enc.answers, &entry.Status, &entry.CreatedAt, &closedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		if err := decodeRow(enc, &entry); err != nil {
			return nil, fmt.Errorf("round %s: %w", entry.ID, err)
		}
		if closedAt.Valid {
			entry.ClosedAt = &closedAt.Time
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rounds: %w", err)
	}
	return entries, nil
}

func decodeRow(enc row, entry *domain.HistoryEntry) error {
	if err := json.Unmarshal(enc.options, &entry.Options); err != nil {
		return fmt.Errorf("failed to decode options: %w", err)
	}
	if err := json.Unmarshal(enc.correct, &entry.CorrectAnswers); err != nil {
		return fmt.Errorf("failed to decode correct answers: %w", err)
	}
	if err := json.Unmarshal(enc.results, &entry.Results); err != nil {
		return fmt.Errorf("failed to decode results: %w", err)
	}
	if err := json.Unmarshal(enc.answers, &entry.Answers); err != nil {
		return fmt.Errorf("failed to decode answers: %w", err)
	}
	return nil
}
