package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-saas/internal/audit"
	"github.com/BruksfildServices01/booking-saas/internal/httpresp"
	"github.com/BruksfildServices01/booking-saas/internal/models"
	"github.com/BruksfildServices01/booking-saas/internal/testutil"
)

func catalogEnv(t *testing.T) *testEnv {
	e := newTestEnv(t)

	s := NewServiceHandler(e.db, e.audit)
	e.secured.GET("/services", s.List)
	e.secured.GET("/services/:id", s.Get)
	e.secured.POST("/services", adminOnly(), s.Create)
	e.secured.PUT("/services/:id", adminOnly(), s.Update)
	e.secured.DELETE("/services/:id", adminOnly(), s.Delete)

	c := NewCustomerHandler(e.db, e.audit)
	customers := e.secured.Group("/customers", adminOnly())
	customers.GET("", c.List)
	customers.POST("", c.Create)
	customers.GET("/:id", c.Get)
	customers.PUT("/:id", c.Update)
	customers.DELETE("/:id", c.Delete)
	return e
}

func TestServices_CRUD(t *testing.T) {
	e := catalogEnv(t)

	w := e.do(http.MethodPost, "/api/services", e.adminToken, gin.H{
		"name": "Deep tissue", "duration_minutes": 60, "price": 250,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Service](t, w)
	assert.True(t, created.Active)
	assert.Equal(t, e.fx.Business.ID, created.BusinessID)
	assert.True(t, e.audit.has(audit.ActionServiceCreated))

	w = e.do(http.MethodPut, fmt.Sprintf("/api/services/%d", created.ID), e.adminToken, gin.H{"price": 0, "duration_minutes": 45})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.Service](t, w)
	assert.Equal(t, 45, updated.DurationMinutes)
	assert.Equal(t, 0.0, updated.Price)

	w = e.do(http.MethodDelete, fmt.Sprintf("/api/services/%d", created.ID), e.adminToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	var stored models.Service
	require.NoError(t, e.db.First(&stored, created.ID).Error)
	assert.False(t, stored.Active)

	// Customers only see active services.
	w = e.do(http.MethodGet, "/api/services", e.customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[httpresp.ListResponse[models.Service]](t, w)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, e.fx.Service.ID, list.Data[0].ID)

	w = e.do(http.MethodGet, fmt.Sprintf("/api/services/%d", created.ID), e.customerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodGet, "/api/services?active=false", e.adminToken, nil)
	list = decode[httpresp.ListResponse[models.Service]](t, w)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, created.ID, list.Data[0].ID)
}

func TestServices_Validation(t *testing.T) {
	e := catalogEnv(t)

	w := e.do(http.MethodPost, "/api/services", e.adminToken, gin.H{"name": "Zero", "duration_minutes": 0, "price": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPost, "/api/services", e.adminToken, gin.H{"name": "Neg", "duration_minutes": 30, "price": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPost, "/api/services", e.customerToken, gin.H{"name": "Mine", "duration_minutes": 30})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(http.MethodGet, "/api/services/abc", e.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServices_TenantScoped(t *testing.T) {
	e := catalogEnv(t)
	other := testutil.Seed(t, e.db, "other")

	w := e.do(http.MethodGet, fmt.Sprintf("/api/services/%d", other.Service.ID), e.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "service_not_found", errorCode(t, w))

	w = e.do(http.MethodPut, fmt.Sprintf("/api/services/%d", other.Service.ID), e.adminToken, gin.H{"price": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomers_CRUD(t *testing.T) {
	e := catalogEnv(t)

	w := e.do(http.MethodPost, "/api/customers", e.adminToken, gin.H{
		"full_name": "Yossi Cohen", "phone": "052-7654321", "flag": "yellow", "notes": "prefers mornings",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Customer](t, w)
	assert.Equal(t, "yellow", created.Flag)

	w = e.do(http.MethodPost, "/api/customers", e.adminToken, gin.H{"full_name": "Bad", "flag": "blue"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_flag", errorCode(t, w))

	w = e.do(http.MethodGet, "/api/customers?query=yossi", e.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[httpresp.ListResponse[models.Customer]](t, w)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, created.ID, list.Data[0].ID)

	w = e.do(http.MethodPut, fmt.Sprintf("/api/customers/%d", created.ID), e.adminToken, gin.H{"flag": "red"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "red", decode[models.Customer](t, w).Flag)

	w = e.do(http.MethodDelete, fmt.Sprintf("/api/customers/%d", created.ID), e.adminToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, e.audit.has(audit.ActionCustomerDeleted))

	w = e.do(http.MethodGet, fmt.Sprintf("/api/customers/%d", created.ID), e.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodGet, "/api/customers", e.customerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCustomers_GetIncludesAppointments(t *testing.T) {
	e := catalogEnv(t)

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Minute)
	ap := models.Appointment{
		BusinessID: e.fx.Business.ID,
		ServiceID:  e.fx.Service.ID,
		CustomerID: e.fx.Customer.ID,
		StartTime:  start,
		EndTime:    start.Add(30 * time.Minute),
		Status:     "approved",
	}
	require.NoError(t, e.db.Create(&ap).Error)

	w := e.do(http.MethodGet, fmt.Sprintf("/api/customers/%d", e.fx.Customer.ID), e.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := decode[models.Customer](t, w)
	require.Len(t, got.Appointments, 1)
	assert.Equal(t, ap.ID, got.Appointments[0].ID)
	require.NotNil(t, got.Appointments[0].Service)
	assert.Equal(t, "Consultation", got.Appointments[0].Service.Name)

	other := testutil.Seed(t, e.db, "other")
	w = e.do(http.MethodGet, fmt.Sprintf("/api/customers/%d", other.Customer.ID), e.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
