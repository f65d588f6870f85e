package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-saas/internal/dto"
	"github.com/BruksfildServices01/booking-saas/internal/httperr"
	"github.com/BruksfildServices01/booking-saas/internal/middleware"
	"github.com/BruksfildServices01/booking-saas/internal/models"
	"github.com/BruksfildServices01/booking-saas/internal/validators"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

type UpdateMeRequest struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email" binding:"omitempty,email"`
}

func (h *MeHandler) load(c *gin.Context) (*models.User, bool) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.Preload("Business").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_user", "Internal server error.")
		return nil, false
	}
	return &user, true
}

func (h *MeHandler) GetMe(c *gin.Context) {
	user, ok := h.load(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     dto.NewUserDTO(user, c.GetUint(middleware.ContextCustomerID)),
		"business": dto.NewBusinessDTO(user.Business, user.IsAdmin()),
	})
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	user, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateMeRequest
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
		user.FullName = name
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		email := validators.NormalizeEmail(*req.Email)
		if email != user.Email {
			var count int64
			if err := h.db.Model(&models.User{}).Where("email = ? AND id <> ?", email, user.ID).Count(&count).Error; err != nil {
				httperr.Internal(c, "failed_to_update_user", "Internal server error.")
				return
			}
			if count > 0 {
				httperr.Respond(c, ErrEmailTaken, "failed_to_update_user")
				return
			}
			user.Email = email
		}
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Updates(map[string]any{
			"full_name": user.FullName,
			"phone":     user.Phone,
			"email":     user.Email,
		}).Error; err != nil {
			return err
		}
		// Keep the linked customer card in sync.
		return tx.Model(&models.Customer{}).
			Where("user_id = ?", user.ID).
			Updates(map[string]any{
				"full_name": user.FullName,
				"phone":     user.Phone,
				"email":     user.Email,
			}).Error
	})
	if err != nil {
		if httperr.IsDuplicate(err) {
			httperr.Respond(c, ErrEmailTaken, "failed_to_update_user")
			return
		}
		httperr.Internal(c, "failed_to_update_user", "Internal server error.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     dto.NewUserDTO(user, c.GetUint(middleware.ContextCustomerID)),
		"business": dto.NewBusinessDTO(user.Business, user.IsAdmin()),
	})
}
