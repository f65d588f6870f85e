package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-saas/internal/models"
	"github.com/BruksfildServices01/booking-saas/internal/testutil"
)

type blockingWriter struct {
	release chan struct{}
}

func (w *blockingWriter) Write(context.Context, Event) error {
	<-w.release
	return nil
}

func TestDispatcher_PersistsEvents(t *testing.T) {
	gdb := testutil.NewDB(t)
	f := testutil.Seed(t, gdb, "alpha")

	d := NewDispatcher(NewStore(gdb), zap.NewNop())
	d.Dispatch(Event{
		BusinessID: f.Business.ID,
		UserID:     Ptr(f.Admin.ID),
		Action:     ActionAppointmentApproved,
		Entity:     "appointment",
		EntityID:   Ptr(42),
		Metadata:   map[string]string{"from": "pending"},
	})
	d.Close()

	var rows []models.AuditLog
	require.NoError(t, gdb.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, ActionAppointmentApproved, rows[0].Action)
	assert.Equal(t, f.Business.ID, rows[0].BusinessID)
	require.NotNil(t, rows[0].EntityID)
	assert.EqualValues(t, 42, *rows[0].EntityID)

	var meta map[string]string
	require.NoError(t, json.Unmarshal([]byte(rows[0].Metadata), &meta))
	assert.Equal(t, "pending", meta["from"])
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	w := &blockingWriter{release: make(chan struct{})}
	d := NewDispatcher(w, zap.NewNop())

	assert.NotPanics(t, func() {
		for i := 0; i < 250; i++ {
			d.Dispatch(Event{Action: "x"})
		}
	})

	close(w.release)
	d.Close()
}
