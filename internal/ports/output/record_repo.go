package output

import (
	"context"

	"guildbot/internal/domain/entities"
)

type RecordRepository interface {
	Save(ctx context.Context, record *entities.EventRecord) error
	List(ctx context.Context, limit int) ([]entities.EventRecord, error)
}
