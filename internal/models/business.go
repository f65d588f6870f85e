package models

import "time"

type Business struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"size:100;not null" json:"name"`
	Slug             string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	RegistrationCode string    `gorm:"size:12;uniqueIndex;not null" json:"registration_code"`
	Description      string    `gorm:"size:500" json:"description"`
	Logo             string    `gorm:"size:500" json:"logo"`
	Phone            string    `gorm:"size:20" json:"phone"`
	Email            string    `gorm:"size:100" json:"email"`
	Address          string    `gorm:"size:255" json:"address"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
