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
	"github.com/BruksfildServices01/booking-saas/internal/validators"
)

type CustomerHandler struct {
	db    *gorm.DB
	audit Auditor
}

func NewCustomerHandler(db *gorm.DB, a Auditor) *CustomerHandler {
	return &CustomerHandler{db: db, audit: a}
}

type CreateCustomerRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
	Email    string `json:"email" binding:"omitempty,email"`
	Flag     string `json:"flag"`
	Notes    string `json:"notes" binding:"max=500"`
}

type UpdateCustomerRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Flag     *string `json:"flag"`
	Notes    *string `json:"notes" binding:"omitempty,max=500"`
}

func (h *CustomerHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Where("business_id = ?", businessID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(full_name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}
	if flag := strings.TrimSpace(c.Query("flag")); flag != "" {
		q = q.Where("flag = ?", flag)
	}

	var customers []models.Customer
	if err := q.Order("created_at DESC").Find(&customers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_customers", "Internal server error.")
		return
	}

	httpresp.List(c, customers)
}

func (h *CustomerHandler) find(c *gin.Context, preload bool) (*models.Customer, bool) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	id, ok := paramID(c)
	if !ok {
		return nil, false
	}

	q := h.db.Where("id = ? AND business_id = ?", id, businessID)
	if preload {
		q = q.Preload("Appointments", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_time DESC")
		}).Preload("Appointments.Service")
	}

	var cu models.Customer
	if err := q.First(&cu).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, domain.ErrCustomerNotFound, "failed_to_get_customer")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_customer", "Internal server error.")
		return nil, false
	}
	return &cu, true
}

// Get includes the customer's appointment history, newest first.
func (h *CustomerHandler) Get(c *gin.Context) {
	cu, ok := h.find(c, true)
	if !ok {
		return
	}
	httpresp.OK(c, cu)
}

func (h *CustomerHandler) Create(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if !validators.IsValidFlag(req.Flag) {
		httperr.BadRequest(c, "invalid_flag", "Flag must be red, yellow or green.")
		return
	}

	cu := models.Customer{
		BusinessID: businessID,
		FullName:   strings.TrimSpace(req.FullName),
		Phone:      strings.TrimSpace(req.Phone),
		Email:      validators.NormalizeEmail(req.Email),
		Flag:       req.Flag,
		Notes:      req.Notes,
	}

	if err := h.db.Create(&cu).Error; err != nil {
		httperr.Internal(c, "failed_to_create_customer", "Internal server error.")
		return
	}

	record(h.audit, c, audit.ActionCustomerCreated, "customer", cu.ID, nil)
	httpresp.Created(c, cu)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	cu, ok := h.find(c, false)
	if !ok {
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			httperr.BadRequest(c, "invalid_request", "Name cannot be empty.")
			return
		}
		cu.FullName = name
	}
	if req.Phone != nil {
		cu.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		cu.Email = validators.NormalizeEmail(*req.Email)
	}
	if req.Flag != nil {
		if !validators.IsValidFlag(*req.Flag) {
			httperr.BadRequest(c, "invalid_flag", "Flag must be red, yellow or green.")
			return
		}
		cu.Flag = *req.Flag
	}
	if req.Notes != nil {
		cu.Notes = *req.Notes
	}

	if err := h.db.Omit("Appointments").Save(cu).Error; err != nil {
		httperr.Internal(c, "failed_to_update_customer", "Internal server error.")
		return
	}

	record(h.audit, c, audit.ActionCustomerUpdated, "customer", cu.ID, nil)
	httpresp.OK(c, cu)
}

// Delete removes the customer together with their appointments.
func (h *CustomerHandler) Delete(c *gin.Context) {
	cu, ok := h.find(c, false)
	if !ok {
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", cu.ID).Delete(&models.Appointment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", cu.ID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(cu).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_delete_customer", "Internal server error.")
		return
	}

	record(h.audit, c, audit.ActionCustomerDeleted, "customer", cu.ID, gin.H{"full_name": cu.FullName})
	c.Status(http.StatusNoContent)
}
