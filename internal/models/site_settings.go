package models

import "time"

const (
	DefaultLanguage              = "he"
	DefaultCancellationLeadHours = 8
)

type SiteSettings struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"uniqueIndex;not null" json:"business_id"`

	Timezone string `gorm:"size:64" json:"timezone"`
	Language string `gorm:"size:8" json:"language"`
	// Theme is stored verbatim for the frontend.
	Theme string `gorm:"type:text" json:"theme"`

	EnforceWorkingHours   bool `gorm:"default:true" json:"enforce_working_hours"`
	AutoApprove           bool `gorm:"default:false" json:"auto_approve"`
	CancellationLeadHours int  `gorm:"default:8" json:"cancellation_lead_hours"`

	WorkingHours []WorkingHours `gorm:"-" json:"working_hours"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
