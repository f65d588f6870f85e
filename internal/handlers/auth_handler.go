package handlers

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-saas/internal/config"
	"github.com/BruksfildServices01/booking-saas/internal/dto"
	"github.com/BruksfildServices01/booking-saas/internal/httperr"
	"github.com/BruksfildServices01/booking-saas/internal/middleware"
	"github.com/BruksfildServices01/booking-saas/internal/models"
	"github.com/BruksfildServices01/booking-saas/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config

	// checkDomain is nil outside production.
	checkDomain func(ctx context.Context, email string) bool
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	h := &AuthHandler{db: db, config: cfg}
	if cfg.IsProduction() {
		h.checkDomain = func(ctx context.Context, email string) bool {
			return validators.EmailDomainExists(ctx, net.DefaultResolver, email)
		}
	}
	return h
}

// --------- Requests ---------

type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`

	// IsAdmin registers a new business owned by the caller. Otherwise
	// RegistrationCode selects the business the customer joins.
	IsAdmin          bool   `json:"is_admin"`
	BusinessName     string `json:"business_name"`
	RegistrationCode string `json:"registration_code"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token    string           `json:"token"`
	User     dto.UserDTO      `json:"user"`
	Business *dto.BusinessDTO `json:"business"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if h.checkDomain != nil && !h.checkDomain(c.Request.Context(), email) {
		httperr.BadRequest(c, "invalid_email_domain", "Email domain does not accept mail.")
		return
	}

	var count int64
	if err := h.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		httperr.Internal(c, "failed_to_register", "Internal server error.")
		return
	}
	if count > 0 {
		httperr.Respond(c, ErrEmailTaken, "failed_to_register")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Internal server error.")
		return
	}

	user := models.User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
	}

	var (
		business models.Business
		customer models.Customer
	)

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if req.IsAdmin {
			name := strings.TrimSpace(req.BusinessName)
			if name == "" {
				return ErrInvalidRequest
			}
			business = models.Business{
				Name:             name,
				Slug:             uniqueSlug(tx, name),
				RegistrationCode: uniqueRegistrationCode(tx),
				Email:            email,
				Phone:            req.Phone,
			}
			if err := tx.Create(&business).Error; err != nil {
				return err
			}
			user.Role = models.RoleAdmin
		} else {
			code := validators.NormalizeCode(req.RegistrationCode)
			if code == "" {
				return ErrInvalidRegistration
			}
			if err := tx.Where("registration_code = ?", code).First(&business).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrInvalidRegistration
				}
				return err
			}
			user.Role = models.RoleCustomer
		}

		user.BusinessID = business.ID
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		if user.Role == models.RoleCustomer {
			customer = models.Customer{
				BusinessID: business.ID,
				UserID:     &user.ID,
				FullName:   user.FullName,
				Phone:      user.Phone,
				Email:      user.Email,
			}
			return tx.Create(&customer).Error
		}
		return nil
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_register")
		return
	}

	token, err := middleware.IssueToken(h.config, &user, customer.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Internal server error.")
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		Token:    token,
		User:     dto.NewUserDTO(&user, customer.ID),
		Business: dto.NewBusinessDTO(&business, user.IsAdmin()),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var user models.User
	if err := h.db.Preload("Business").
		Where("email = ?", validators.NormalizeEmail(req.Email)).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, ErrInvalidCredentials, "failed_to_login")
			return
		}
		httperr.Internal(c, "failed_to_login", "Internal server error.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Respond(c, ErrInvalidCredentials, "failed_to_login")
		return
	}

	customerID, err := customerIDFor(h.db, &user)
	if err != nil {
		httperr.Internal(c, "failed_to_login", "Internal server error.")
		return
	}

	token, err := middleware.IssueToken(h.config, &user, customerID)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Internal server error.")
		return
	}

	c.JSON(http.StatusOK, authResponse{
		Token:    token,
		User:     dto.NewUserDTO(&user, customerID),
		Business: dto.NewBusinessDTO(user.Business, user.IsAdmin()),
	})
}

// customerIDFor returns the customer record linked to a customer account.
func customerIDFor(db *gorm.DB, user *models.User) (uint, error) {
	if user.IsAdmin() {
		return 0, nil
	}
	var ids []uint
	if err := db.Model(&models.Customer{}).
		Where("user_id = ?", user.ID).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return ids[0], nil
}

func uniqueSlug(tx *gorm.DB, name string) string {
	base := validators.Slugify(name)
	if base == "" {
		base = "business"
	}

	slug := base
	for i := 0; i < 5; i++ {
		var count int64
		tx.Model(&models.Business{}).Where("slug = ?", slug).Count(&count)
		if count == 0 {
			return slug
		}
		slug = base + "-" + strings.ToLower(validators.RegistrationCode()[:4])
	}
	return slug
}

func uniqueRegistrationCode(tx *gorm.DB) string {
	code := validators.RegistrationCode()
	for i := 0; i < 5; i++ {
		var count int64
		tx.Model(&models.Business{}).Where("registration_code = ?", code).Count(&count)
		if count == 0 {
			break
		}
		code = validators.RegistrationCode()
	}
	return code
}
