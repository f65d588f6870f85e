package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/booking-saas/internal/models"
)

func Approve(ap *models.Appointment, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusApproved); err != nil {
		return err
	}

	ap.Status = string(StatusApproved)
	ap.ApprovedAt = &now
	return nil
}

// Reject cancels a pending request. Unlike Cancel, a reason is mandatory.
func Reject(ap *models.Appointment, reason string, now time.Time) error {
	if Status(ap.Status) != StatusPending {
		return ErrInvalidTransition
	}
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}
	return Cancel(ap, reason, now)
}

func Cancel(ap *models.Appointment, reason string, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusCancelled); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancellationReason = strings.TrimSpace(reason)
	ap.CancelledAt = &now
	return nil
}

// Complete is only allowed once the appointment has ended.
func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusCompleted); err != nil {
		return err
	}
	if now.Before(ap.EndTime) {
		return ErrNotYetElapsed
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

func SpanOf(ap *models.Appointment) Span {
	return Span{Start: ap.StartTime, End: ap.EndTime}
}
