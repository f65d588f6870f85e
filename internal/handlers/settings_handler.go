package handlers

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-saas/internal/audit"
	domain "github.com/BruksfildServices01/booking-saas/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-saas/internal/httperr"
	"github.com/BruksfildServices01/booking-saas/internal/httpresp"
	"github.com/BruksfildServices01/booking-saas/internal/middleware"
	"github.com/BruksfildServices01/booking-saas/internal/models"
	"github.com/BruksfildServices01/booking-saas/internal/timezone"
)

type SettingsStore interface {
	Get(ctx context.Context, businessID uint) (*models.SiteSettings, error)
	Save(ctx context.Context, s *models.SiteSettings, hours []models.WorkingHours) error
}

type SettingsHandler struct {
	store SettingsStore
	audit Auditor
}

func NewSettingsHandler(store SettingsStore, a Auditor) *SettingsHandler {
	return &SettingsHandler{store: store, audit: a}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	BreakStart string `json:"break_start"`
	BreakEnd   string `json:"break_end"`
}

// UpdateSettingsRequest is a partial update. WorkingHours, when present,
// replaces the whole week; weekdays left out are open all day.
type UpdateSettingsRequest struct {
	Timezone              *string            `json:"timezone"`
	Language              *string            `json:"language" binding:"omitempty,max=8"`
	Theme                 json.RawMessage    `json:"theme"`
	EnforceWorkingHours   *bool              `json:"enforce_working_hours"`
	AutoApprove           *bool              `json:"auto_approve"`
	CancellationLeadHours *int               `json:"cancellation_lead_hours" binding:"omitempty,min=0,max=720"`
	WorkingHours          []WorkingDayConfig `json:"working_hours" binding:"omitempty,dive"`
}

func (h *SettingsHandler) Get(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	s, err := h.store.Get(c.Request.Context(), businessID)
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_settings")
		return
	}
	httpresp.OK(c, s)
}

func (h *SettingsHandler) Update(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	s, err := h.store.Get(c.Request.Context(), businessID)
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_settings")
		return
	}

	if req.Timezone != nil {
		tz := strings.TrimSpace(*req.Timezone)
		if !timezone.IsValid(tz) {
			httperr.Respond(c, ErrInvalidTimezone, "failed_to_update_settings")
			return
		}
		s.Timezone = tz
	}
	if req.Language != nil {
		s.Language = strings.TrimSpace(*req.Language)
	}
	if len(req.Theme) > 0 {
		if !json.Valid(req.Theme) {
			httperr.BadRequest(c, "invalid_request", "Theme must be JSON.")
			return
		}
		s.Theme = string(req.Theme)
	}
	if req.EnforceWorkingHours != nil {
		s.EnforceWorkingHours = *req.EnforceWorkingHours
	}
	if req.AutoApprove != nil {
		s.AutoApprove = *req.AutoApprove
	}
	if req.CancellationLeadHours != nil {
		s.CancellationLeadHours = *req.CancellationLeadHours
	}

	hours, err := workingHoursFrom(req.WorkingHours)
	if err != nil {
		httperr.Respond(c, err, "failed_to_update_settings")
		return
	}

	if err := h.store.Save(c.Request.Context(), s, hours); err != nil {
		httperr.Respond(c, err, "failed_to_update_settings")
		return
	}

	if hours == nil {
		if fresh, err := h.store.Get(c.Request.Context(), businessID); err == nil {
			s = fresh
		}
	}

	record(h.audit, c, audit.ActionSettingsUpdated, "settings", s.ID, nil)
	httpresp.OK(c, s)
}

// workingHoursFrom returns nil when days is nil so the stored week is kept.
func workingHoursFrom(days []WorkingDayConfig) ([]models.WorkingHours, error) {
	if days == nil {
		return nil, nil
	}

	seen := make(map[int]bool, len(days))
	out := make([]models.WorkingHours, 0, len(days))
	for _, d := range days {
		if seen[d.Weekday] {
			return nil, domain.ErrInvalidWorkingHours
		}
		seen[d.Weekday] = true

		wh := models.WorkingHours{
			Weekday:    d.Weekday,
			Active:     d.Active,
			StartTime:  strings.TrimSpace(d.StartTime),
			EndTime:    strings.TrimSpace(d.EndTime),
			BreakStart: strings.TrimSpace(d.BreakStart),
			BreakEnd:   strings.TrimSpace(d.BreakEnd),
		}
		if err := domain.ValidateWorkingHours(wh); err != nil {
			return nil, err
		}
		out = append(out, wh)
	}
	return out, nil
}
