package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-saas/internal/audit"
	"github.com/BruksfildServices01/booking-saas/internal/dto"
	"github.com/BruksfildServices01/booking-saas/internal/httperr"
	"github.com/BruksfildServices01/booking-saas/internal/imaging"
	"github.com/BruksfildServices01/booking-saas/internal/middleware"
	"github.com/BruksfildServices01/booking-saas/internal/models"
	"github.com/BruksfildServices01/booking-saas/internal/storage"
	"github.com/BruksfildServices01/booking-saas/internal/validators"
)

const (
	maxLogoBytes = 5 << 20
	logoMaxSide  = 512
	logoQuality  = 80
)

type BusinessHandler struct {
	db       *gorm.DB
	audit    Auditor
	uploader storage.Uploader
}

// NewBusinessHandler accepts a nil uploader; logo uploads then answer 503.
func NewBusinessHandler(db *gorm.DB, a Auditor, uploader storage.Uploader) *BusinessHandler {
	return &BusinessHandler{db: db, audit: a, uploader: uploader}
}

type UpdateBusinessRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Address     *string `json:"address"`
}

func (h *BusinessHandler) load(c *gin.Context) (*models.Business, bool) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var b models.Business
	if err := h.db.First(&b, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, ErrBusinessNotFound, "failed_to_get_business")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_business", "Internal server error.")
		return nil, false
	}
	return &b, true
}

func (h *BusinessHandler) Get(c *gin.Context) {
	b, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewBusinessDTO(b, isAdmin(c)))
}

func (h *BusinessHandler) Update(c *gin.Context) {
	b, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_request", "Name cannot be empty.")
			return
		}
		b.Name = name
	}
	if req.Description != nil {
		b.Description = *req.Description
	}
	if req.Phone != nil {
		b.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		b.Email = validators.NormalizeEmail(*req.Email)
	}
	if req.Address != nil {
		b.Address = *req.Address
	}

	if err := h.db.Save(b).Error; err != nil {
		httperr.Internal(c, "failed_to_update_business", "Internal server error.")
		return
	}

	record(h.audit, c, audit.ActionBusinessUpdated, "business", b.ID, nil)
	c.JSON(http.StatusOK, dto.NewBusinessDTO(b, true))
}

// RegenerateCode invalidates the current registration code.
func (h *BusinessHandler) RegenerateCode(c *gin.Context) {
	b, ok := h.load(c)
	if !ok {
		return
	}

	b.RegistrationCode = uniqueRegistrationCode(h.db)
	if err := h.db.Model(b).Update("registration_code", b.RegistrationCode).Error; err != nil {
		httperr.Internal(c, "failed_to_update_business", "Internal server error.")
		return
	}

	record(h.audit, c, audit.ActionRegistrationCodeReset, "business", b.ID, nil)
	c.JSON(http.StatusOK, gin.H{"registration_code": b.RegistrationCode})
}

func (h *BusinessHandler) UploadLogo(c *gin.Context) {
	if h.uploader == nil {
		httperr.Respond(c, ErrUploadDisabled, "failed_to_upload_logo")
		return
	}

	b, ok := h.load(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxLogoBytes)
	fh, err := c.FormFile("logo")
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Multipart field \"logo\" is required.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Could not read upload.")
		return
	}
	defer f.Close()

	img, err := imaging.ToWebP(f, logoMaxSide, logoQuality)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedImage) {
			httperr.Respond(c, ErrInvalidImage, "failed_to_upload_logo")
			return
		}
		httperr.Internal(c, "failed_to_upload_logo", "Internal server error.")
		return
	}

	key := fmt.Sprintf("business/%d/logo-%s.webp", b.ID, uuid.NewString())
	url, err := h.uploader.Upload(c.Request.Context(), key, imaging.ContentTypeWebP, img)
	if err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "failed_to_upload_logo", "Internal server error.")
		return
	}

	if err := h.db.Model(b).Update("logo", url).Error; err != nil {
		httperr.Internal(c, "failed_to_update_business", "Internal server error.")
		return
	}

	record(h.audit, c, audit.ActionLogoUpdated, "business", b.ID, gin.H{"key": key})
	c.JSON(http.StatusOK, gin.H{"logo": url})
}
