package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/booking-saas/internal/audit"
	domain "github.com/BruksfildServices01/booking-saas/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-saas/internal/dto"
	"github.com/BruksfildServices01/booking-saas/internal/models"
)

type ListAppointmentsInput struct {
	// Date (YYYY-MM-DD) or Month (YYYY-MM), in the business timezone.
	Date   string
	Month  string
	Status string
}

type ListAppointments struct {
	deps Deps
}

func NewListAppointments(deps Deps) *ListAppointments {
	return &ListAppointments{deps: deps}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	actor Actor,
	in ListAppointmentsInput,
) ([]dto.AppointmentListDTO, error) {

	sch, err := uc.deps.loadSchedule(ctx, actor.BusinessID)
	if err != nil {
		return nil, err
	}

	f := domain.ListFilter{BusinessID: actor.BusinessID}
	if !actor.IsAdmin() {
		f.CustomerID = actor.CustomerID
	}

	switch {
	case in.Date != "":
		day, err := domain.ParseDay(in.Date, sch.loc)
		if err != nil {
			return nil, err
		}
		w := domain.FullDay(day)
		f.From, f.To = w.Start, w.End
	case in.Month != "":
		m, err := time.ParseInLocation("2006-01", in.Month, sch.loc)
		if err != nil {
			return nil, domain.ErrInvalidDate
		}
		f.From, f.To = m, m.AddDate(0, 1, 0)
	}

	if in.Status != "" {
		if f.Status, err = domain.ParseStatus(in.Status); err != nil {
			return nil, err
		}
	}

	apps, err := uc.deps.Repo.ListAppointments(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(apps))
	for i := range apps {
		out = append(out, dto.NewAppointmentListDTO(&apps[i], sch.loc))
	}
	return out, nil
}

type GetAppointment struct {
	deps Deps
}

func NewGetAppointment(deps Deps) *GetAppointment {
	return &GetAppointment{deps: deps}
}

func (uc *GetAppointment) Execute(ctx context.Context, actor Actor, id uint) (*models.Appointment, error) {
	ap, err := uc.deps.Repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.authorize(ap); err != nil {
		return nil, err
	}
	return ap, nil
}

// DeleteAppointment is the administrative hard delete.
type DeleteAppointment struct {
	deps Deps
}

func NewDeleteAppointment(deps Deps) *DeleteAppointment {
	return &DeleteAppointment{deps: deps}
}

func (uc *DeleteAppointment) Execute(ctx context.Context, actor Actor, id uint) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}

	ap, err := uc.deps.Repo.GetAppointment(ctx, id)
	if err != nil {
		return err
	}
	if err := actor.authorize(ap); err != nil {
		return err
	}

	if err := uc.deps.Repo.DeleteAppointment(ctx, id); err != nil {
		return err
	}

	uc.deps.dispatch(actor, audit.ActionAppointmentDeleted, ap, map[string]any{
		"status": ap.Status,
		"start":  ap.StartTime,
	})
	return nil
}
