package eventlog

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=eventlog_repo.go -destination=mock/eventlog_repo_mock.go -package=mock
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	FindRecent(ctx context.Context, limit int) ([]Entry, error)
	FindByAggregate(ctx context.Context, aggregateType, aggregateID string) ([]Entry, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Append(ctx context.Context, entry *Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindRecent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var entries []Entry
	err := r.db.WithContext(ctx).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *repository) FindByAggregate(ctx context.Context, aggregateType, aggregateID string) ([]Entry, error) {
	var entries []Entry
	err := r.db.WithContext(ctx).
		Where("aggregate_type = ? AND aggregate_id = ?", aggregateType, aggregateID).
		Order("occurred_at ASC").
		Find(&entries).Error
	return entries, err
}
