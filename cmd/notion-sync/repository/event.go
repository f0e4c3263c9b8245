package repository

import (
	"context"
	"notion-sync-backend/cmd/notion-sync/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) *EventRepo {
	return &EventRepo{
		db: db,
	}
}

func (r *EventRepo) ListEvents(ctx context.Context) ([]model.Event, error) {

	var events []model.Event

	result := r.db.
		WithContext(ctx).
		Model(&model.Event{}).
		Find(&events)

	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// UpsertEvent writes one mirrored event row: insert, or on id conflict
// overwrite every non-key column unconditionally. No change detection on
// this path; the sync cycle is a full blind overwrite.
func (r *EventRepo) UpsertEvent(ctx context.Context, event model.Event) error {

	result := r.db.
		WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&event)

	if result.Error != nil {
		return result.Error
	}

	return nil
}
