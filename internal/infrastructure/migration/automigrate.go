package migration

import (
	"fmt"

	"gorm.io/gorm"

	"nmqueue/internal/infrastructure/persistence/models"
	"nmqueue/internal/shared/logger"
)

// AutoMigrateModels lists every persistence model the schema carries.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.PersonModel{},
		&models.ProcessModel{},
		&models.ProcessAdvocateModel{},
		&models.ProcessLogModel{},
		&models.AMModel{},
		&models.InconsistencyModel{},
	}
}

// AutoMigrateStrategy lets gorm derive the schema from the models. Used in
// development and tests; production runs the versioned SQL scripts.
type AutoMigrateStrategy struct {
	logger logger.Interface
}

func NewAutoMigrateStrategy() *AutoMigrateStrategy {
	return &AutoMigrateStrategy{
		logger: logger.NewLogger().With("component", "migration.auto"),
	}
}

func (s *AutoMigrateStrategy) Migrate(db *gorm.DB, models ...interface{}) error {
	if len(models) == 0 {
		models = AutoMigrateModels()
	}

	s.logger.Infow("starting auto-migration", "models", len(models))

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	s.logger.Infow("auto-migration completed successfully")
	return nil
}

func (s *AutoMigrateStrategy) GetName() string {
	return "auto_migrate"
}
