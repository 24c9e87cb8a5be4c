// Package remote adapts the hosted Postgres record table.
package remote

import (
	"context"

	"github.com/bwmarrin/snowflake"
	recorddomain "github.com/nvillagra/prodtrack/internal/record/domain"
	"github.com/nvillagra/prodtrack/pkg/db/option"
	"github.com/nvillagra/prodtrack/pkg/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Repository struct {
	repo repository.Repository[recorddomain.Record]
	log  *zap.Logger
}

func NewRepository(db *gorm.DB, log *zap.Logger) recorddomain.RemoteRepository {
	return &Repository{
		repo: repository.ProvideStore[recorddomain.Record](db),
		log:  log.Named("record.remote"),
	}
}

// ListOrdered fetches the full remote set by creation timestamp ascending.
// Everything the remote returns is, by definition, synced.
func (r *Repository) ListOrdered(ctx context.Context) ([]recorddomain.Record, error) {
	rows, err := r.repo.Find(ctx, &recorddomain.Record{},
		option.WithOrderBy("created_at ASC, id ASC"),
	)
	if err != nil {
		return nil, err
	}
	records := make([]recorddomain.Record, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		row.SyncState = recorddomain.SyncSynced
		records = append(records, *row)
	}
	return records, nil
}

// Insert bulk-inserts the given records.
func (r *Repository) Insert(ctx context.Context, records []recorddomain.Record) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]*recorddomain.Record, 0, len(records))
	for i := range records {
		rows = append(rows, &records[i])
	}
	return r.repo.BatchCreate(ctx, rows)
}

// DeleteByID removes one record by identifier. Deleting an id the remote does
// not hold is not an error.
func (r *Repository) DeleteByID(ctx context.Context, id snowflake.ID) error {
	return r.repo.Delete(ctx, id.String())
}
