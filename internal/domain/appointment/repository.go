package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/booking-saas/internal/models"
)

// ListFilter narrows ListAppointments. Zero values mean "any".
type ListFilter struct {
	BusinessID uint
	CustomerID uint
	From       time.Time
	To         time.Time
	Status     Status
}

type Repository interface {
	// -------- Catalog / settings --------
	GetBusiness(ctx context.Context, id uint) (*models.Business, error)
	GetService(ctx context.Context, businessID, serviceID uint) (*models.Service, error)
	GetCustomer(ctx context.Context, businessID, customerID uint) (*models.Customer, error)
	GetSettings(ctx context.Context, businessID uint) (*models.SiteSettings, error)

	// GetWorkingHours returns nil, nil when the weekday is not configured.
	GetWorkingHours(ctx context.Context, businessID uint, weekday time.Weekday) (*models.WorkingHours, error)

	// -------- Reads --------
	// ListBusy returns the intervals of blocking appointments intersecting
	// [from, to). excludeID skips one appointment (used when rescheduling).
	ListBusy(ctx context.Context, businessID uint, from, to time.Time, excludeID uint) ([]Span, error)
	ListAppointments(ctx context.Context, f ListFilter) ([]models.Appointment, error)
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)

	// -------- Writes --------
	// CreateAppointment inserts ap only if no blocking appointment of the
	// same business overlaps it; otherwise ErrSlotConflict.
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	// SaveAppointment writes the mutable columns of ap in one transaction,
	// only if the stored row is still at ap.Version (ErrStaleAppointment
	// otherwise). With rescheduled set, the new StartTime/EndTime get the
	// same overlap guarantee as CreateAppointment, ignoring ap itself.
	SaveAppointment(ctx context.Context, ap *models.Appointment, rescheduled bool) error
	DeleteAppointment(ctx context.Context, id uint) error
}
