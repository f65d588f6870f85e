package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-saas/internal/audit"
	"github.com/BruksfildServices01/booking-saas/internal/httperr"
	"github.com/BruksfildServices01/booking-saas/internal/middleware"
	"github.com/BruksfildServices01/booking-saas/internal/models"
	usecase "github.com/BruksfildServices01/booking-saas/internal/usecase/appointment"
)

var (
	ErrInvalidRequest      = httperr.ErrBusiness("invalid_request")
	ErrNotFound            = httperr.ErrBusiness("not_found")
	ErrBusinessNotFound    = httperr.ErrBusiness("business_not_found")
	ErrReviewNotFound      = httperr.ErrBusiness("review_not_found")
	ErrReviewExists        = httperr.ErrBusiness("review_exists")
	ErrEmailTaken          = httperr.ErrBusiness("email_taken")
	ErrInvalidCredentials  = httperr.ErrBusiness("invalid_credentials")
	ErrInvalidRegistration = httperr.ErrBusiness("invalid_registration")
	ErrInvalidRating       = httperr.ErrBusiness("invalid_rating")
	ErrInvalidTimezone     = httperr.ErrBusiness("invalid_timezone")
	ErrInvalidImage        = httperr.ErrBusiness("invalid_image")
	ErrUploadDisabled      = httperr.ErrBusiness("upload_disabled")
)

// Auditor receives audit events; *audit.Dispatcher in production.
type Auditor interface {
	Dispatch(ev audit.Event)
}

func actorFrom(c *gin.Context) usecase.Actor {
	return usecase.Actor{
		UserID:     c.GetUint(middleware.ContextUserID),
		BusinessID: c.GetUint(middleware.ContextBusinessID),
		CustomerID: c.GetUint(middleware.ContextCustomerID),
		Role:       c.GetString(middleware.ContextUserRole),
	}
}

func isAdmin(c *gin.Context) bool {
	return c.GetString(middleware.ContextUserRole) == models.RoleAdmin
}

// paramID parses the :id path parameter and answers 400 when it is not a
// positive integer.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(id), true
}

func record(a Auditor, c *gin.Context, action, entity string, entityID uint, meta any) {
	if a == nil {
		return
	}
	a.Dispatch(audit.Event{
		BusinessID: c.GetUint(middleware.ContextBusinessID),
		UserID:     audit.Ptr(c.GetUint(middleware.ContextUserID)),
		Action:     action,
		Entity:     entity,
		EntityID:   audit.Ptr(entityID),
		Metadata:   meta,
	})
}
