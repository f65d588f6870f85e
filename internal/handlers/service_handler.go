package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-saas/internal/audit"
	domain "github.com/BruksfildServices01/booking-saas/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-saas/internal/httperr"
	"github.com/BruksfildServices01/booking-saas/internal/httpresp"
	"github.com/BruksfildServices01/booking-saas/internal/middleware"
	"github.com/BruksfildServices01/booking-saas/internal/models"
)

type ServiceHandler struct {
	db    *gorm.DB
	audit Auditor
}

func NewServiceHandler(db *gorm.DB, a Auditor) *ServiceHandler {
	return &ServiceHandler{db: db, audit: a}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,min=1"`
	Price           float64 `json:"price" binding:"min=0"`
}

type UpdateServiceRequest struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty" binding:"omitempty,min=1"`
	Price           *float64 `json:"price,omitempty" binding:"omitempty,min=0"`
	Active          *bool    `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Where("business_id = ?", businessID)

	switch {
	case !isAdmin(c):
		q = q.Where("active = ?", true)
	case activeStr == "true":
		q = q.Where("active = ?", true)
	case activeStr == "false":
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Internal server error.")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) load(c *gin.Context) (*models.Service, bool) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	id, ok := paramID(c)
	if !ok {
		return nil, false
	}

	var svc models.Service
	if err := h.db.
		Where("id = ? AND business_id = ?", id, businessID).
		First(&svc).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, domain.ErrServiceNotFound, "failed_to_get_service")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_service", "Internal server error.")
		return nil, false
	}
	return &svc, true
}

func (h *ServiceHandler) Get(c *gin.Context) {
	svc, ok := h.load(c)
	if !ok {
		return
	}
	if !svc.Active && !isAdmin(c) {
		httperr.Respond(c, domain.ErrServiceNotFound, "failed_to_get_service")
		return
	}
	httpresp.OK(c, svc)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	svc := models.Service{
		BusinessID:      businessID,
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Active:          true,
	}

	if err := h.db.Create(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Internal server error.")
		return
	}

	record(h.audit, c, audit.ActionServiceCreated, "service", svc.ID, gin.H{"name": svc.Name})
	httpresp.Created(c, svc)
}

// Update never touches booked appointments: their end time is fixed.
func (h *ServiceHandler) Update(c *gin.Context) {
	svc, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	err := h.db.Model(svc).Select("name", "description", "duration_minutes", "price", "active").Updates(svc).Error
	if err != nil {
		httperr.Internal(c, "failed_to_update_service", "Internal server error.")
		return
	}

	record(h.audit, c, audit.ActionServiceUpdated, "service", svc.ID, nil)
	httpresp.OK(c, svc)
}

// Delete deactivates the service so past appointments keep their reference.
func (h *ServiceHandler) Delete(c *gin.Context) {
	svc, ok := h.load(c)
	if !ok {
		return
	}

	if err := h.db.Model(svc).Update("active", false).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_service", "Internal server error.")
		return
	}

	record(h.audit, c, audit.ActionServiceDeleted, "service", svc.ID, nil)
	c.Status(http.StatusNoContent)
}
