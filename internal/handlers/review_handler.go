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
	"github.com/BruksfildServices01/booking-saas/internal/models"
)

type ReviewHandler struct {
	db    *gorm.DB
	audit Auditor
}

func NewReviewHandler(db *gorm.DB, a Auditor) *ReviewHandler {
	return &ReviewHandler{db: db, audit: a}
}

type CreateReviewRequest struct {
	Rating        int    `json:"rating"`
	Comment       string `json:"comment" binding:"max=1000"`
	AppointmentID *uint  `json:"appointment_id"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment" binding:"omitempty,max=1000"`
	Status  *string `json:"status"`
}

var reviewStatuses = map[string]bool{
	models.ReviewPending:  true,
	models.ReviewApproved: true,
	models.ReviewRejected: true,
}

func validRating(r int) bool {
	return r >= 1 && r <= 5
}

func (h *ReviewHandler) List(c *gin.Context) {
	actor := actorFrom(c)

	q := h.db.Preload("Customer").Where("business_id = ?", actor.BusinessID)
	if !actor.IsAdmin() {
		q = q.Where("customer_id = ?", actor.CustomerID)
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("status = ?", status)
	}

	var reviews []models.Review
	if err := q.Order("created_at DESC").Find(&reviews).Error; err != nil {
		httperr.Internal(c, "failed_to_list_reviews", "Internal server error.")
		return
	}
	httpresp.List(c, reviews)
}

// find loads a review the caller may see: any in the business for admins,
// only their own for customers.
func (h *ReviewHandler) find(c *gin.Context) (*models.Review, bool) {
	actor := actorFrom(c)

	id, ok := paramID(c)
	if !ok {
		return nil, false
	}

	var r models.Review
	if err := h.db.Preload("Customer").First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, ErrReviewNotFound, "failed_to_get_review")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_review", "Internal server error.")
		return nil, false
	}

	if r.BusinessID != actor.BusinessID || (!actor.IsAdmin() && r.CustomerID != actor.CustomerID) {
		httperr.Respond(c, domain.ErrUnauthorized, "failed_to_get_review")
		return nil, false
	}
	return &r, true
}

func (h *ReviewHandler) Get(c *gin.Context) {
	r, ok := h.find(c)
	if !ok {
		return
	}
	httpresp.OK(c, r)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	actor := actorFrom(c)
	if actor.IsAdmin() || actor.CustomerID == 0 {
		httperr.Respond(c, domain.ErrForbidden, "failed_to_create_review")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if !validRating(req.Rating) {
		httperr.Respond(c, ErrInvalidRating, "failed_to_create_review")
		return
	}

	if req.AppointmentID != nil {
		var ap models.Appointment
		err := h.db.Where(
			"id = ? AND business_id = ? AND customer_id = ?",
			*req.AppointmentID, actor.BusinessID, actor.CustomerID,
		).First(&ap).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, domain.ErrNotFound, "failed_to_create_review")
			return
		}
		if err != nil {
			httperr.Internal(c, "failed_to_create_review", "Internal server error.")
			return
		}
		if ap.Status != string(domain.StatusCompleted) {
			httperr.Respond(c, domain.ErrInvalidTransition, "failed_to_create_review")
			return
		}

		var count int64
		if err := h.db.Model(&models.Review{}).Where("appointment_id = ?", ap.ID).Count(&count).Error; err != nil {
			httperr.Internal(c, "failed_to_create_review", "Internal server error.")
			return
		}
		if count > 0 {
			httperr.Respond(c, ErrReviewExists, "failed_to_create_review")
			return
		}
	}

	r := models.Review{
		BusinessID:    actor.BusinessID,
		CustomerID:    actor.CustomerID,
		AppointmentID: req.AppointmentID,
		AuthorID:      actor.UserID,
		Rating:        req.Rating,
		Comment:       strings.TrimSpace(req.Comment),
		Status:        models.ReviewPending,
	}
	if err := h.db.Create(&r).Error; err != nil {
		// Lost the race against a concurrent review of the same appointment.
		if httperr.IsDuplicate(err) {
			httperr.Respond(c, ErrReviewExists, "failed_to_create_review")
			return
		}
		httperr.Internal(c, "failed_to_create_review", "Internal server error.")
		return
	}

	record(h.audit, c, audit.ActionReviewCreated, "review", r.ID, gin.H{"rating": r.Rating})
	httpresp.Created(c, r)
}

// Update lets the author edit rating and comment, which sends the review
// back to moderation. Admins moderate through status.
func (h *ReviewHandler) Update(c *gin.Context) {
	actor := actorFrom(c)

	r, ok := h.find(c)
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	author := r.AuthorID == actor.UserID
	edits := req.Rating != nil || req.Comment != nil

	if edits {
		if !author {
			httperr.Respond(c, domain.ErrForbidden, "failed_to_update_review")
			return
		}
		if req.Rating != nil {
			if !validRating(*req.Rating) {
				httperr.Respond(c, ErrInvalidRating, "failed_to_update_review")
				return
			}
			r.Rating = *req.Rating
		}
		if req.Comment != nil {
			r.Comment = strings.TrimSpace(*req.Comment)
		}
		r.Status = models.ReviewPending
	}

	if req.Status != nil {
		if !actor.IsAdmin() {
			httperr.Respond(c, domain.ErrForbidden, "failed_to_update_review")
			return
		}
		status := strings.ToLower(strings.TrimSpace(*req.Status))
		if !reviewStatuses[status] {
			httperr.Respond(c, domain.ErrInvalidStatus, "failed_to_update_review")
			return
		}
		r.Status = status
	}

	if err := h.db.Model(r).Select("rating", "comment", "status").Updates(r).Error; err != nil {
		httperr.Internal(c, "failed_to_update_review", "Internal server error.")
		return
	}

	if req.Status != nil {
		record(h.audit, c, audit.ActionReviewModerated, "review", r.ID, gin.H{"status": r.Status})
	}
	httpresp.OK(c, r)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	actor := actorFrom(c)

	r, ok := h.find(c)
	if !ok {
		return
	}
	if !actor.IsAdmin() && r.AuthorID != actor.UserID {
		httperr.Respond(c, domain.ErrForbidden, "failed_to_delete_review")
		return
	}

	if err := h.db.Delete(&models.Review{}, r.ID).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_review", "Internal server error.")
		return
	}

	record(h.audit, c, audit.ActionReviewDeleted, "review", r.ID, nil)
	c.Status(http.StatusNoContent)
}
