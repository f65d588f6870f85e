package audit

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-saas/internal/models"
)

// Store persists audit events as audit_logs rows.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Write(ctx context.Context, ev Event) error {
	var meta string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			meta = string(b)
		}
	}

	row := models.AuditLog{
		BusinessID: ev.BusinessID,
		UserID:     ev.UserID,
		Action:     ev.Action,
		Entity:     ev.Entity,
		EntityID:   ev.EntityID,
		Metadata:   meta,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}
