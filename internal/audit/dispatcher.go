package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	ActionAppointmentCreated     = "appointment_created"
	ActionAppointmentApproved    = "appointment_approved"
	ActionAppointmentCancelled   = "appointment_cancelled"
	ActionAppointmentCompleted   = "appointment_completed"
	ActionAppointmentRescheduled = "appointment_rescheduled"
	ActionAppointmentDeleted     = "appointment_deleted"
	ActionBookingConflict        = "booking_conflict"
	ActionSettingsUpdated        = "settings_updated"
	ActionServiceCreated         = "service_created"
	ActionServiceUpdated         = "service_updated"
	ActionServiceDeleted         = "service_deleted"
	ActionCustomerCreated        = "customer_created"
	ActionCustomerUpdated        = "customer_updated"
	ActionCustomerDeleted        = "customer_deleted"
	ActionBusinessUpdated        = "business_updated"
	ActionRegistrationCodeReset  = "registration_code_reset"
	ActionLogoUpdated            = "logo_updated"
	ActionReviewCreated          = "review_created"
	ActionReviewModerated        = "review_moderated"
	ActionReviewDeleted          = "review_deleted"
)

type Event struct {
	BusinessID uint
	UserID     *uint
	Action     string
	Entity     string
	EntityID   *uint
	Metadata   any
}

type writer interface {
	Write(ctx context.Context, ev Event) error
}

// Dispatcher writes events from a background goroutine. When the buffer is
// full events are dropped: auditing never fails a request.
type Dispatcher struct {
	store writer
	log   *zap.Logger
	queue chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(store writer, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		store: store,
		log:   log,
		queue: make(chan Event, 100),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.store.Write(ctx, ev); err != nil {
			d.log.Error("audit write failed",
				zap.String("action", ev.Action),
				zap.Uint("business_id", ev.BusinessID),
				zap.Error(err),
			)
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() { close(d.queue) })
	<-d.done
}

// Ptr is a helper for the optional id fields of Event.
func Ptr(v uint) *uint {
	return &v
}
