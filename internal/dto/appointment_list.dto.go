package dto

import (
	"time"

	"github.com/BruksfildServices01/booking-saas/internal/models"
)

type AppointmentListDTO struct {
	ID           uint      `json:"id"`
	Date         time.Time `json:"date"`
	EndTime      time.Time `json:"end_time"`
	LocalDate    string    `json:"local_date"`
	LocalTime    string    `json:"local_time"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
	CustomerID   uint      `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	ServiceID    uint      `json:"service_id"`
	ServiceName  string    `json:"service_name"`
	Price        float64   `json:"price"`
}

func NewAppointmentListDTO(ap *models.Appointment, loc *time.Location) AppointmentListDTO {
	local := ap.StartTime.In(loc)

	out := AppointmentListDTO{
		ID:         ap.ID,
		Date:       ap.StartTime,
		EndTime:    ap.EndTime,
		LocalDate:  local.Format("2006-01-02"),
		LocalTime:  local.Format("15:04"),
		Status:     ap.Status,
		Notes:      ap.Notes,
		CustomerID: ap.CustomerID,
		ServiceID:  ap.ServiceID,
	}
	if ap.Customer != nil {
		out.CustomerName = ap.Customer.FullName
	}
	if ap.Service != nil {
		out.ServiceName = ap.Service.Name
		out.Price = ap.Service.Price
	}
	return out
}
