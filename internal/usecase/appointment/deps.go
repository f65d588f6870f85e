package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-saas/internal/audit"
	domain "github.com/BruksfildServices01/booking-saas/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-saas/internal/infra/lock"
	"github.com/BruksfildServices01/booking-saas/internal/models"
	"github.com/BruksfildServices01/booking-saas/internal/timezone"
)

type Auditor interface {
	Dispatch(ev audit.Event)
}

type Notifier interface {
	AppointmentApproved(ap *models.Appointment, business *models.Business, loc *time.Location)
	AppointmentCancelled(ap *models.Appointment, business *models.Business, loc *time.Location)
}

// Deps is shared by the appointment use cases.
type Deps struct {
	Repo     domain.Repository
	Locker   lock.Locker
	Audit    Auditor
	Notifier Notifier
	Log      *zap.Logger
	Now      func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Actor is the authenticated caller.
type Actor struct {
	UserID     uint
	BusinessID uint
	CustomerID uint
	Role       string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// authorize enforces tenant scope, and ownership for customers.
func (a Actor) authorize(ap *models.Appointment) error {
	if ap.BusinessID != a.BusinessID {
		return domain.ErrUnauthorized
	}
	if !a.IsAdmin() && ap.CustomerID != a.CustomerID {
		return domain.ErrUnauthorized
	}
	return nil
}

type schedule struct {
	settings *models.SiteSettings
	loc      *time.Location
}

func (d Deps) loadSchedule(ctx context.Context, businessID uint) (schedule, error) {
	s, err := d.Repo.GetSettings(ctx, businessID)
	if err != nil {
		return schedule{}, err
	}
	return schedule{settings: s, loc: timezone.Location(s.Timezone)}, nil
}

// window returns the bookable window of the local day containing t.
func (d Deps) window(ctx context.Context, businessID uint, sch schedule, day time.Time) (domain.Window, error) {
	wh, err := d.Repo.GetWorkingHours(ctx, businessID, day.Weekday())
	if err != nil {
		return domain.Window{}, err
	}
	return domain.WindowFor(day, wh, sch.settings.EnforceWorkingHours)
}

func (d Deps) dispatch(actor Actor, action string, ap *models.Appointment, meta any) {
	if d.Audit == nil {
		return
	}
	var entityID *uint
	if ap.ID != 0 {
		entityID = audit.Ptr(ap.ID)
	}
	d.Audit.Dispatch(audit.Event{
		BusinessID: actor.BusinessID,
		UserID:     audit.Ptr(actor.UserID),
		Action:     action,
		Entity:     "appointment",
		EntityID:   entityID,
		Metadata:   meta,
	})
}

func localDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}
