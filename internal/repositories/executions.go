package repositories

import (
	"context"
	"time"

	"github.com/ableclub/monitor/internal/domain/models"
	"gorm.io/gorm"
)

type Executions struct {
	db *gorm.DB
}

func NewExecutionsRepository(db *gorm.DB) *Executions {
	return &Executions{db: db}
}

func (repo *Executions) Append(ctx context.Context, execution models.JobExecution) error {
	return repo.db.WithContext(ctx).Create(&execution).Error
}

func (repo *Executions) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := repo.db.WithContext(ctx).Delete(&models.JobExecution{}, "finished_at < ?", cutoff)
	return res.RowsAffected, res.Error
}

func (repo *Executions) Recent(ctx context.Context, jobName string, limit int) ([]models.JobExecution, error) {
	var executions []models.JobExecution
	err := repo.db.WithContext(ctx).
		Where("job_name = ?", jobName).
		Order("started_at DESC").
		Limit(limit).
		Find(&executions).Error
	if err != nil {
		return nil, err
	}
	return executions, nil
}
