package repositories

import (
	"fmt"

	"github.com/ableclub/monitor/internal/domain/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(connectionString string) (*DbContext, error) {
	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {
	err := c.DB.AutoMigrate(models.Event{})
	if err != nil {
		return fmt.Errorf("failed to migrate Event entity: %w", err)
	}

	err = c.DB.AutoMigrate(models.Subscription{})
	if err != nil {
		return fmt.Errorf("failed to migrate Subscription entity: %w", err)
	}

	err = c.DB.AutoMigrate(models.JobExecution{})
	if err != nil {
		return fmt.Errorf("failed to migrate JobExecution entity: %w", err)
	}

	if err = c.DB.Exec("CREATE INDEX IF NOT EXISTS idx_job_executions_finished_at ON job_executions (finished_at);").
		Error; err != nil {
		return fmt.Errorf("failed to create execution index: %w", err)
	}

	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
