package appointment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-saas/internal/audit"
	domain "github.com/BruksfildServices01/booking-saas/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-saas/internal/httperr"
	"github.com/BruksfildServices01/booking-saas/internal/infra/lock"
	"github.com/BruksfildServices01/booking-saas/internal/metrics"
	"github.com/BruksfildServices01/booking-saas/internal/models"
)

type CreateAppointmentInput struct {
	ServiceID uint
	// CustomerID is taken from the actor for customers and required for
	// admins booking on someone's behalf.
	CustomerID uint
	Date       string
	Notes      string
}

type CreateAppointment struct {
	deps Deps
}

func NewCreateAppointment(deps Deps) *CreateAppointment {
	return &CreateAppointment{deps: deps}
}

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	actor Actor,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.execute(ctx, actor, in)
	switch {
	case err == nil:
		metrics.IncBooking(metrics.OutcomeCreated)
	case errors.Is(err, domain.ErrSlotConflict):
		metrics.IncBooking(metrics.OutcomeConflict)
	case httperr.CodeOf(err) != "":
		metrics.IncBooking(metrics.OutcomeRejected)
	default:
		metrics.IncBooking(metrics.OutcomeError)
	}
	return ap, err
}

func (uc *CreateAppointment) execute(
	ctx context.Context,
	actor Actor,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// Customer
	// --------------------------------------------------
	customerID := in.CustomerID
	if !actor.IsAdmin() {
		customerID = actor.CustomerID
	}
	if customerID == 0 {
		return nil, domain.ErrCustomerNotFound
	}

	customer, err := uc.deps.Repo.GetCustomer(ctx, actor.BusinessID, customerID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Service
	// --------------------------------------------------
	svc, err := uc.deps.Repo.GetService(ctx, actor.BusinessID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active || svc.DurationMinutes <= 0 {
		return nil, domain.ErrInvalidService
	}

	// --------------------------------------------------
	// Time, in the business timezone
	// --------------------------------------------------
	sch, err := uc.deps.loadSchedule(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	start, err := domain.ParseStart(in.Date, sch.loc)
	if err != nil {
		return nil, err
	}
	span := domain.Span{
		Start: start,
		End:   start.Add(time.Duration(svc.DurationMinutes) * time.Minute),
	}

	if err := uc.deps.checkBookable(ctx, actor.BusinessID, sch, span); err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		BusinessID:  actor.BusinessID,
		ServiceID:   svc.ID,
		CustomerID:  customer.ID,
		CreatedByID: actor.UserID,
		StartTime:   span.Start,
		EndTime:     span.End,
		Status:      string(domain.InitialStatus(sch.settings.AutoApprove)),
		Notes:       in.Notes,
	}
	if domain.Status(ap.Status) == domain.StatusApproved {
		now := uc.deps.now()
		ap.ApprovedAt = &now
	}

	// --------------------------------------------------
	// Write, serialized per business and day
	// --------------------------------------------------
	if err := uc.deps.withBookingLock(ctx, actor.BusinessID, localDay(start, sch.loc), func() error {
		return uc.deps.Repo.CreateAppointment(ctx, ap)
	}); err != nil {
		if errors.Is(err, domain.ErrSlotConflict) {
			uc.deps.dispatch(actor, audit.ActionBookingConflict, ap, map[string]any{
				"service_id": svc.ID,
				"start":      span.Start,
			})
		}
		return nil, err
	}

	ap.Service = svc
	ap.Customer = customer

	uc.deps.dispatch(actor, audit.ActionAppointmentCreated, ap, map[string]any{
		"status": ap.Status,
	})

	if domain.Status(ap.Status) == domain.StatusApproved {
		uc.deps.notifyApproved(ctx, ap, sch.loc)
	}

	return ap, nil
}

// checkBookable validates span against the clock and the working window.
// Overlaps are left to the repository.
func (d Deps) checkBookable(ctx context.Context, businessID uint, sch schedule, span domain.Span) error {
	if span.Start.Before(d.now()) {
		return domain.ErrSlotInPast
	}

	window, err := d.window(ctx, businessID, sch, localDay(span.Start, sch.loc))
	if err != nil {
		return err
	}
	if !window.Admits(span) {
		return domain.ErrOutsideWorkingHours
	}
	return nil
}

func (d Deps) withBookingLock(ctx context.Context, businessID uint, day time.Time, fn func() error) error {
	if d.Locker == nil {
		return fn()
	}

	release, err := d.Locker.Acquire(ctx, lock.BookingKey(businessID, day))
	if err != nil {
		return err
	}
	defer release()

	return fn()
}

func (d Deps) notifyApproved(ctx context.Context, ap *models.Appointment, loc *time.Location) {
	if d.Notifier == nil {
		return
	}
	biz, err := d.Repo.GetBusiness(ctx, ap.BusinessID)
	if err != nil {
		d.logWarn("load business for notification", err)
		return
	}
	d.Notifier.AppointmentApproved(ap, biz, loc)
}

func (d Deps) notifyCancelled(ctx context.Context, ap *models.Appointment, loc *time.Location) {
	if d.Notifier == nil {
		return
	}
	biz, err := d.Repo.GetBusiness(ctx, ap.BusinessID)
	if err != nil {
		d.logWarn("load business for notification", err)
		return
	}
	d.Notifier.AppointmentCancelled(ap, biz, loc)
}

func (d Deps) logWarn(msg string, err error) {
	if d.Log != nil {
		d.Log.Warn(msg, zap.Error(err))
	}
}
