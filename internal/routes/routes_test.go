package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-saas/internal/config"
	"github.com/BruksfildServices01/booking-saas/internal/testutil"
)

type client struct {
	t *testing.T
	r *gin.Engine
}

func (c client) call(method, path, token string, body any) (int, map[string]any) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w.Code, out
}

func newServer(t *testing.T) client {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, Deps{
		DB:     testutil.NewDB(t),
		Config: &config.Config{Env: "test", JWTSecret: "test-secret", JWTTTLHours: 1, CORSOrigins: "http://localhost:5173"},
		Log:    zap.NewNop(),
	})
	return client{t: t, r: r}
}

func TestHealth(t *testing.T) {
	c := newServer(t)
	code, body := c.call(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	code, _ = c.call(http.MethodGet, "/api/appointments", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

// TestBookingFlow walks the main path: an owner opens a business with a
// 09:00-17:00 day, a customer joins with the registration code, books a
// slot, and the owner approves it.
func TestBookingFlow(t *testing.T) {
	c := newServer(t)

	code, owner := c.call(http.MethodPost, "/api/auth/register", "", gin.H{
		"full_name": "Owner", "email": "owner@example.com", "password": "secret1",
		"is_admin": true, "business_name": "Calm Clinic",
	})
	require.Equal(t, http.StatusCreated, code, owner)
	ownerToken := owner["token"].(string)
	regCode := owner["business"].(map[string]any)["registration_code"].(string)

	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	day := testutil.Day(loc)
	date := day.Format("2006-01-02")

	code, body := c.call(http.MethodPut, "/api/settings", ownerToken, gin.H{
		"timezone": "Europe/London",
		"working_hours": []gin.H{{
			"weekday": int(day.Weekday()), "active": true, "start_time": "09:00", "end_time": "17:00",
		}},
	})
	require.Equal(t, http.StatusOK, code, body)

	code, svc := c.call(http.MethodPost, "/api/services", ownerToken, gin.H{
		"name": "Session", "duration_minutes": 30, "price": 120,
	})
	require.Equal(t, http.StatusCreated, code, svc)
	serviceID := uint(svc["id"].(float64))

	code, cust := c.call(http.MethodPost, "/api/auth/register", "", gin.H{
		"full_name": "Dana", "email": "dana@example.com", "password": "secret2",
		"registration_code": regCode,
	})
	require.Equal(t, http.StatusCreated, code, cust)
	custToken := cust["token"].(string)

	code, avail := c.call(http.MethodGet, fmt.Sprintf("/api/availability?service_id=%d&date=%s", serviceID, date), custToken, nil)
	require.Equal(t, http.StatusOK, code, avail)
	slots := avail["slots"].([]any)
	require.Len(t, slots, 16)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "16:30", slots[15])

	code, ap := c.call(http.MethodPost, "/api/appointments", custToken, gin.H{
		"service_id": serviceID, "date": date + "T10:00",
	})
	require.Equal(t, http.StatusCreated, code, ap)
	assert.Equal(t, "pending", ap["status"])
	id := uint(ap["id"].(float64))

	code, body = c.call(http.MethodPost, "/api/appointments", custToken, gin.H{
		"service_id": serviceID, "date": date + "T17:00",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "outside_working_hours", body["error_code"])

	code, body = c.call(http.MethodPut, fmt.Sprintf("/api/appointments/%d", id), ownerToken, gin.H{"status": "approved"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "approved", body["status"])

	code, avail = c.call(http.MethodGet, fmt.Sprintf("/api/availability?service_id=%d&date=%s", serviceID, date), custToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, avail["slots"].([]any), 15)
	assert.NotContains(t, avail["slots"], "10:00")

	code, logs := c.call(http.MethodGet, "/api/audit-logs", ownerToken, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, logs, "logs")
}
