package repositories

import (
	"context"

	"github.com/ableclub/monitor/internal/domain/models"
	"gorm.io/gorm"
)

// Subscriptions is a read model over the table owned by the user-facing CRUD
// layer; the monitoring core only ever lists active rows.
type Subscriptions struct {
	db *gorm.DB
}

func NewSubscriptionsRepository(db *gorm.DB) *Subscriptions {
	return &Subscriptions{db: db}
}

func (repo *Subscriptions) ListActive(ctx context.Context) ([]models.Subscription, error) {
	var subscriptions []models.Subscription
	err := repo.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id").
		Find(&subscriptions).Error
	if err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (repo *Subscriptions) Add(ctx context.Context, subscription models.Subscription) error {
	return repo.db.WithContext(ctx).Create(&subscription).Error
}
