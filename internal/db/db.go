package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/booking-saas/internal/config"
	"github.com/BruksfildServices01/booking-saas/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsProduction() {
		level = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:      gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database ready", zap.String("dialect", db.Dialector.Name()))
	return db, nil
}

// Migrate creates the schema. On Postgres it also installs the exclusion
// constraint that forbids overlapping non-cancelled appointments of a
// business.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Business{},
		&models.User{},
		&models.Customer{},
		&models.Service{},
		&models.Appointment{},
		&models.WorkingHours{},
		&models.SiteSettings{},
		&models.Review{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap'
    ) THEN
        ALTER TABLE appointments
            ADD CONSTRAINT appointments_no_overlap
            EXCLUDE USING gist (
                business_id WITH =,
                tstzrange(start_time, end_time, '[)') WITH &&
            ) WHERE (status <> 'cancelled');
    END IF;
END $$`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migrate constraints: %w", err)
		}
	}
	return nil
}
