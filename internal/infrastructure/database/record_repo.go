package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"guildbot/internal/domain/entities"
	"guildbot/internal/ports/output"
)

var _ output.RecordRepository = (*RecordRepository)(nil)

// RecordRepository archives finished events in event_records.
type RecordRepository struct {
	pool *pgxpool.Pool
}

func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

func (r *RecordRepository) Save(ctx context.Context, record *entities.EventRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_records (id, event_id, title, participants, summary, closed_by, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID, record.EventID, record.Title, record.Participants,
		record.Summary, record.ClosedBy, pgtype.Timestamptz{Time: record.FinishedAt, Valid: true})
	if err != nil {
		return fmt.Errorf("save event record: %w", err)
	}
	return nil
}

func (r *RecordRepository) List(ctx context.Context, limit int) ([]entities.EventRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, event_id, title, participants, summary, closed_by, finished_at
		FROM event_records
		ORDER BY finished_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list event records: %w", err)
	}
	defer rows.Close()
	var out []entities.EventRecord
	for rows.Next() {
		var (
			rec        entities.EventRecord
			id         uuid.UUID
			finishedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &rec.EventID, &rec.Title, &rec.Participants,
			&rec.Summary, &rec.ClosedBy, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan event record: %w", err)
		}
		rec.ID = id
		rec.FinishedAt = pgtypeTimestamptzToTime(finishedAt)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list event records: %w", err)
	}
	return out, nil
}
