package models

import (
	"time"

	"gorm.io/gorm"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BusinessID uint `gorm:"index:idx_appointments_business_start,priority:1;not null" json:"business_id"`

	ServiceID uint     `json:"service_id"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	CustomerID uint      `gorm:"index" json:"customer_id"`
	Customer   *Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer,omitempty"`

	// CreatedByID is the user that submitted the booking.
	CreatedByID uint `json:"created_by_id"`

	// EndTime is fixed at booking time from the service duration.
	StartTime time.Time `gorm:"index:idx_appointments_business_start,priority:2;not null" json:"date"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status string `gorm:"size:20;default:'pending';not null" json:"status"`

	Notes              string     `gorm:"size:255" json:"notes"`
	CancellationReason string     `gorm:"size:255" json:"cancellation_reason,omitempty"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`

	// Version is bumped on every write; updates only apply to the version
	// they were computed from.
	Version uint `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(*gorm.DB) error {
	if a.Version == 0 {
		a.Version = 1
	}
	return nil
}
