package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-saas/internal/httperr"
	"github.com/BruksfildServices01/booking-saas/internal/middleware"
	"github.com/BruksfildServices01/booking-saas/internal/models"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// List pages through the audit trail of the caller's business, newest
// first. Filters: action, entity, entity_id, from and to (YYYY-MM-DD, UTC).
func (h *AuditLogsHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultAuditLimit)))
	if limit <= 0 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}

	q := h.db.
		Model(&models.AuditLog{}).
		Where("business_id = ?", businessID)

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if raw := c.Query("entity_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			q = q.Where("entity_id = ?", id)
		}
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "from must be YYYY-MM-DD.")
			return
		}
		q = q.Where("created_at >= ?", from)
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "to must be YYYY-MM-DD.")
			return
		}
		q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Internal server error.")
		return
	}

	logs := []models.AuditLog{}
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Internal server error.")
		return
	}

	c.JSON(200, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
