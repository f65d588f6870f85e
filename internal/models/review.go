package models

import "time"

const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

type Review struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index;not null" json:"business_id"`

	CustomerID uint      `gorm:"index" json:"customer_id"`
	Customer   *Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"customer,omitempty"`

	AppointmentID *uint `gorm:"uniqueIndex" json:"appointment_id"`
	AuthorID      uint  `json:"author_id"`

	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"size:1000" json:"comment"`
	Status  string `gorm:"size:20;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
