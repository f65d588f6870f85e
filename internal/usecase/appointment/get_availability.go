package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/booking-saas/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-saas/internal/metrics"
)

type AvailabilityInput struct {
	BusinessID uint
	ServiceID  uint
	Date       string
}

type AvailabilityOutput struct {
	Date     string   `json:"date"`
	Timezone string   `json:"timezone"`
	Duration int      `json:"duration_minutes"`
	Slots    []string `json:"slots"`
}

type GetAvailability struct {
	deps Deps
}

func NewGetAvailability(deps Deps) *GetAvailability {
	return &GetAvailability{deps: deps}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) (*AvailabilityOutput, error) {

	sch, err := uc.deps.loadSchedule(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	day, err := domain.ParseDay(in.Date, sch.loc)
	if err != nil {
		return nil, err
	}

	svc, err := uc.deps.Repo.GetService(ctx, in.BusinessID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, domain.ErrInvalidService
	}

	window, err := uc.deps.window(ctx, in.BusinessID, sch, day)
	if err != nil {
		return nil, err
	}

	// A candidate may run past midnight, so look one duration further.
	full := domain.FullDay(day)
	until := full.End.Add(time.Duration(svc.DurationMinutes) * time.Minute)
	busy, err := uc.deps.Repo.ListBusy(ctx, in.BusinessID, full.Start, until, 0)
	if err != nil {
		return nil, err
	}

	slots, err := domain.AvailableSlots(domain.SlotQuery{
		DurationMinutes: svc.DurationMinutes,
		Window:          window,
		Busy:            busy,
		Now:             uc.deps.now(),
	})
	if err != nil {
		return nil, err
	}

	metrics.IncAvailability()

	return &AvailabilityOutput{
		Date:     day.Format(domain.DayLayout),
		Timezone: sch.loc.String(),
		Duration: svc.DurationMinutes,
		Slots:    slots,
	}, nil
}
