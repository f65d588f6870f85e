package models

import "time"

type WorkingHours struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"uniqueIndex:idx_working_hours_business_weekday,priority:1;not null" json:"business_id"`

	Weekday int `gorm:"uniqueIndex:idx_working_hours_business_weekday,priority:2" json:"weekday"`

	StartTime  string `gorm:"size:5" json:"start_time"`
	EndTime    string `gorm:"size:5" json:"end_time"`
	BreakStart string `gorm:"size:5" json:"break_start"`
	BreakEnd   string `gorm:"size:5" json:"break_end"`
	Active     bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
