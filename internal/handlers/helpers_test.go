package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-saas/internal/audit"
	"github.com/BruksfildServices01/booking-saas/internal/config"
	"github.com/BruksfildServices01/booking-saas/internal/middleware"
	"github.com/BruksfildServices01/booking-saas/internal/models"
	"github.com/BruksfildServices01/booking-saas/internal/testutil"
)

type auditRecorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *auditRecorder) Dispatch(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *auditRecorder) has(action string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.Action == action {
			return true
		}
	}
	return false
}

type testEnv struct {
	db     *gorm.DB
	cfg    *config.Config
	router *gin.Engine
	// secured carries the auth middleware; tests mount their routes on it.
	secured *gin.RouterGroup
	audit   *auditRecorder

	fx            testutil.Fixture
	adminToken    string
	customerToken string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	e := &testEnv{
		db:    testutil.NewDB(t),
		cfg:   &config.Config{Env: "test", JWTSecret: "test-secret", JWTTTLHours: 1},
		audit: &auditRecorder{},
	}
	e.fx = testutil.Seed(t, e.db, "acme")
	e.adminToken = e.token(t, &e.fx.Admin, 0)
	e.customerToken = e.token(t, &e.fx.User, e.fx.Customer.ID)

	e.router = gin.New()
	e.secured = e.router.Group("/api", middleware.AuthMiddleware(e.cfg))
	return e
}

func (e *testEnv) token(t *testing.T, u *models.User, customerID uint) string {
	t.Helper()
	tok, err := middleware.IssueToken(e.cfg, u, customerID)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode[map[string]any](t, w)
	code, _ := body["error_code"].(string)
	return code
}

func adminOnly() gin.HandlerFunc {
	return middleware.RequireRole(models.RoleAdmin)
}

