package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func respond(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Respond(c, err, "boom")
	return w
}

func TestRespond_BusinessCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrBusiness("slot_conflict"), http.StatusConflict, "slot_conflict"},
		{ErrBusiness("lead_time_violation"), http.StatusUnprocessableEntity, "lead_time_violation"},
		{ErrBusiness("unauthorized"), http.StatusForbidden, "unauthorized"},
		{ErrBusiness("invalid_date"), http.StatusBadRequest, "invalid_date"},
		{fmt.Errorf("wrapped: %w", ErrBusiness("appointment_not_found")), http.StatusNotFound, "appointment_not_found"},
		{&pgconn.PgError{Code: "23P01"}, http.StatusConflict, "slot_conflict"},
		{ErrBusiness("appointment_changed"), http.StatusConflict, "appointment_changed"},
		{ErrBusiness("review_exists"), http.StatusBadRequest, "review_exists"},
		{errors.New("db down"), http.StatusInternalServerError, "boom"},
	}

	for _, tc := range cases {
		w := respond(tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())

		var body HTTPError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.code, body.Code)
	}
}

func TestCodeOf(t *testing.T) {
	err := fmt.Errorf("ctx: %w", ErrBusiness("slot_conflict"))
	assert.Equal(t, "slot_conflict", CodeOf(err))
	assert.True(t, errors.Is(err, ErrBusiness("slot_conflict")))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, IsDuplicate(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicate(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsDuplicate(&pgconn.PgError{Code: "23P01"}))
	assert.False(t, IsDuplicate(errors.New("db down")))
}
