package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BruksfildServices01/booking-saas/internal/audit"
	domain "github.com/BruksfildServices01/booking-saas/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-saas/internal/metrics"
	"github.com/BruksfildServices01/booking-saas/internal/models"
)

// UpdateAppointmentInput carries the optional fields of PUT
// /appointments/:id. Nil means "leave unchanged".
type UpdateAppointmentInput struct {
	Status *string
	Reason *string
	Notes  *string
	Date   *string
}

type UpdateAppointment struct {
	deps Deps
}

func NewUpdateAppointment(deps Deps) *UpdateAppointment {
	return &UpdateAppointment{deps: deps}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	actor Actor,
	id uint,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.deps.Repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.authorize(ap); err != nil {
		return nil, err
	}

	sch, err := uc.deps.loadSchedule(ctx, ap.BusinessID)
	if err != nil {
		return nil, err
	}
	now := uc.deps.now()
	lead := domain.LeadTime(sch.settings.CancellationLeadHours)

	// --------------------------------------------------
	// Status (validated in memory before any write)
	// --------------------------------------------------
	from := domain.Status(ap.Status)
	var target domain.Status
	if in.Status != nil {
		if target, err = domain.ParseStatus(*in.Status); err != nil {
			return nil, err
		}
		if target == from {
			target = ""
		}
	}

	reason := ""
	if in.Reason != nil {
		reason = *in.Reason
	}

	if target != "" {
		if in.Date != nil && target.Terminal() {
			return nil, domain.ErrInvalidTransition
		}
		if err := transition(actor, ap, target, reason, now, lead); err != nil {
			return nil, err
		}
	}

	if in.Notes != nil {
		ap.Notes = strings.TrimSpace(*in.Notes)
	}

	// --------------------------------------------------
	// Reschedule through the conflict-safe path
	// --------------------------------------------------
	var previousStart time.Time
	if in.Date != nil {
		if !from.Reschedulable() {
			return nil, domain.ErrInvalidTransition
		}
		if !actor.IsAdmin() {
			if err := domain.CheckLeadTime(ap.StartTime, now, lead); err != nil {
				return nil, err
			}
		}

		start, err := domain.ParseStart(*in.Date, sch.loc)
		if err != nil {
			return nil, err
		}
		span := domain.Span{Start: start, End: start.Add(ap.EndTime.Sub(ap.StartTime))}

		if err := uc.deps.checkBookable(ctx, ap.BusinessID, sch, span); err != nil {
			return nil, err
		}

		previousStart = ap.StartTime
		ap.StartTime, ap.EndTime = span.Start, span.End
	}

	// --------------------------------------------------
	// Single conditional write; the first concurrent writer wins
	// --------------------------------------------------
	rescheduled := !previousStart.IsZero()
	save := func() error {
		return uc.deps.Repo.SaveAppointment(ctx, ap, rescheduled)
	}
	if rescheduled {
		err = uc.deps.withBookingLock(ctx, ap.BusinessID, localDay(ap.StartTime, sch.loc), save)
	} else {
		err = save()
	}
	if err != nil {
		if errors.Is(err, domain.ErrSlotConflict) {
			metrics.IncBooking(metrics.OutcomeConflict)
		}
		return nil, err
	}

	// --------------------------------------------------
	// Side effects
	// --------------------------------------------------
	if rescheduled {
		uc.deps.dispatch(actor, audit.ActionAppointmentRescheduled, ap, map[string]any{
			"from": previousStart,
			"to":   ap.StartTime,
		})
	}

	if target != "" {
		metrics.IncTransition(string(target))
		uc.deps.dispatch(actor, transitionAction(target), ap, map[string]any{
			"from":   string(from),
			"to":     string(target),
			"reason": ap.CancellationReason,
		})

		switch target {
		case domain.StatusApproved:
			uc.deps.notifyApproved(ctx, ap, sch.loc)
		case domain.StatusCancelled:
			if actor.IsAdmin() {
				uc.deps.notifyCancelled(ctx, ap, sch.loc)
			}
		}
	}

	return ap, nil
}

// transition applies the role rules on top of the state machine: customers
// may only cancel, and only outside the lead time.
func transition(
	actor Actor,
	ap *models.Appointment,
	target domain.Status,
	reason string,
	now time.Time,
	lead time.Duration,
) error {

	if !actor.IsAdmin() {
		if target != domain.StatusCancelled {
			return domain.ErrForbidden
		}
		if err := domain.CanTransition(domain.Status(ap.Status), target); err != nil {
			return err
		}
		if err := domain.CheckLeadTime(ap.StartTime, now, lead); err != nil {
			return err
		}
		return domain.Cancel(ap, reason, now)
	}

	switch target {
	case domain.StatusApproved:
		return domain.Approve(ap, now)
	case domain.StatusCancelled:
		if domain.Status(ap.Status) == domain.StatusPending {
			return domain.Reject(ap, reason, now)
		}
		return domain.Cancel(ap, reason, now)
	case domain.StatusCompleted:
		return domain.Complete(ap, now)
	}
	return domain.ErrInvalidTransition
}

func transitionAction(s domain.Status) string {
	switch s {
	case domain.StatusApproved:
		return audit.ActionAppointmentApproved
	case domain.StatusCancelled:
		return audit.ActionAppointmentCancelled
	case domain.StatusCompleted:
		return audit.ActionAppointmentCompleted
	}
	return "appointment_" + string(s)
}
