package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-saas/internal/httperr"
	"github.com/BruksfildServices01/booking-saas/internal/httpresp"
	"github.com/BruksfildServices01/booking-saas/internal/middleware"
	usecase "github.com/BruksfildServices01/booking-saas/internal/usecase/appointment"
)

type AppointmentHandler struct {
	list         *usecase.ListAppointments
	get          *usecase.GetAppointment
	create       *usecase.CreateAppointment
	update       *usecase.UpdateAppointment
	remove       *usecase.DeleteAppointment
	availability *usecase.GetAvailability
}

func NewAppointmentHandler(deps usecase.Deps) *AppointmentHandler {
	return &AppointmentHandler{
		list:         usecase.NewListAppointments(deps),
		get:          usecase.NewGetAppointment(deps),
		create:       usecase.NewCreateAppointment(deps),
		update:       usecase.NewUpdateAppointment(deps),
		remove:       usecase.NewDeleteAppointment(deps),
		availability: usecase.NewGetAvailability(deps),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ServiceID uint `json:"service_id" binding:"required"`
	// CustomerID is ignored for customers, who always book for themselves.
	CustomerID uint   `json:"customer_id"`
	Date       string `json:"date" binding:"required"`
	Notes      string `json:"notes" binding:"max=255"`
}

type UpdateAppointmentRequest struct {
	Status *string `json:"status"`
	Reason *string `json:"reason" binding:"omitempty,max=255"`
	Notes  *string `json:"notes" binding:"omitempty,max=255"`
	Date   *string `json:"date"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	out, err := h.list.Execute(c.Request.Context(), actorFrom(c), usecase.ListAppointmentsInput{
		Date:   c.Query("date"),
		Month:  c.Query("month"),
		Status: c.Query("status"),
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_appointments")
		return
	}
	httpresp.List(c, out)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_appointment")
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), actorFrom(c), usecase.CreateAppointmentInput{
		ServiceID:  req.ServiceID,
		CustomerID: req.CustomerID,
		Date:       req.Date,
		Notes:      req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_create_appointment")
		return
	}
	httpresp.Created(c, ap)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), actorFrom(c), id, usecase.UpdateAppointmentInput{
		Status: req.Status,
		Reason: req.Reason,
		Notes:  req.Notes,
		Date:   req.Date,
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_update_appointment")
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), actorFrom(c), id); err != nil {
		httperr.Respond(c, err, "failed_to_delete_appointment")
		return
	}
	c.Status(http.StatusNoContent)
}

// Availability answers GET /availability?service_id=&date=YYYY-MM-DD.
func (h *AppointmentHandler) Availability(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 64)
	if err != nil || serviceID == 0 {
		httperr.BadRequest(c, "invalid_service", "service_id is required.")
		return
	}

	out, err := h.availability.Execute(c.Request.Context(), usecase.AvailabilityInput{
		BusinessID: c.MustGet(middleware.ContextBusinessID).(uint),
		ServiceID:  uint(serviceID),
		Date:       c.Query("date"),
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_availability")
		return
	}
	httpresp.OK(c, out)
}
