package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/booking-saas/internal/models"
	"github.com/BruksfildServices01/booking-saas/internal/timezone"
)

type SettingsGormRepository struct {
	db *gorm.DB
}

func NewSettingsGormRepository(db *gorm.DB) *SettingsGormRepository {
	return &SettingsGormRepository{db: db}
}

// Get returns the settings of a business, creating the defaults on first
// access. Working hours are attached ordered by weekday.
func (r *SettingsGormRepository) Get(ctx context.Context, businessID uint) (*models.SiteSettings, error) {
	db := r.db.WithContext(ctx)

	var s models.SiteSettings
	err := db.Where("business_id = ?", businessID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s = models.SiteSettings{
			BusinessID:            businessID,
			Timezone:              timezone.Default(),
			Language:              models.DefaultLanguage,
			EnforceWorkingHours:   true,
			CancellationLeadHours: models.DefaultCancellationLeadHours,
		}
		// Two first reads may race; the unique index decides and the loser
		// reloads.
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&s).Error; err != nil {
			return nil, err
		}
		if s.ID == 0 {
			if err := db.Where("business_id = ?", businessID).First(&s).Error; err != nil {
				return nil, err
			}
		}
	} else if err != nil {
		return nil, err
	}

	if err := db.
		Where("business_id = ?", businessID).
		Order("weekday ASC").
		Find(&s.WorkingHours).Error; err != nil {
		return nil, err
	}

	return &s, nil
}

// Save writes every column of s and, when hours is non-nil, replaces the
// weekly schedule.
func (r *SettingsGormRepository) Save(ctx context.Context, s *models.SiteSettings, hours []models.WorkingHours) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(s).Error; err != nil {
			return err
		}
		if hours == nil {
			return nil
		}

		if err := tx.
			Where("business_id = ?", s.BusinessID).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}

		for i := range hours {
			hours[i].ID = 0
			hours[i].BusinessID = s.BusinessID
		}
		if len(hours) > 0 {
			if err := tx.Create(&hours).Error; err != nil {
				return err
			}
		}
		s.WorkingHours = hours
		return nil
	})
}
