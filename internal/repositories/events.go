package repositories

import (
	"context"
	"time"

	"github.com/ableclub/monitor/internal/domain/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Events struct {
	db *gorm.DB
}

func NewEventsRepository(db *gorm.DB) *Events {
	return &Events{db: db}
}

func (repo *Events) Exists(ctx context.Context, externalID string) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&models.Event{}).
		Where("external_id = ?", externalID).
		Count(&count).Error
	return count > 0, err
}

// Add inserts the event if its external ID is unseen; re-adding a known event
// is a no-op, not an error.
func (repo *Events) Add(ctx context.Context, event models.Event) error {
	if event.DiscoveredAt.IsZero() {
		event.DiscoveredAt = time.Now()
	}
	return repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "external_id"}}, DoNothing: true}).
		Create(&event).Error
}

func (repo *Events) Count(ctx context.Context) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&models.Event{}).Count(&count).Error
	return count, err
}
