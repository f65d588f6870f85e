package models

import "time"

// Customer belongs to exactly one business. UserID is set when the customer
// signed up with the business registration code and can log in.
type Customer struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	BusinessID uint  `gorm:"index;not null" json:"business_id"`
	UserID     *uint `gorm:"uniqueIndex" json:"user_id"`

	FullName string `gorm:"size:100;not null" json:"full_name"`
	Phone    string `gorm:"size:20" json:"phone"`
	Email    string `gorm:"size:100" json:"email"`
	Flag     string `gorm:"size:10" json:"flag"`
	Notes    string `gorm:"size:500" json:"notes"`

	Appointments []Appointment `gorm:"foreignKey:CustomerID" json:"appointments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
