package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/smtp"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-saas/internal/models"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Email
	err  error
}

func (s *recordingSender) Send(_ context.Context, e Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, e)
	return s.err
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task)
	return nil, args.Error(0)
}

func sampleAppointment() (*models.Appointment, *models.Business) {
	return &models.Appointment{
			StartTime:          time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
			CancellationReason: "provider unavailable",
			Customer:           &models.Customer{FullName: "Dana", Email: "dana@example.com"},
			Service:            &models.Service{Name: "Haircut"},
		}, &models.Business{
			Name: "Studio",
		}
}

func TestNotifier_Cancelled(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifier(sender, zap.NewNop())

	ap, biz := sampleAppointment()
	loc, _ := time.LoadLocation("Asia/Jerusalem")

	n.AppointmentCancelled(ap, biz, loc)
	n.Wait()

	require.Len(t, sender.sent, 1)
	e := sender.sent[0]
	assert.Equal(t, "dana@example.com", e.To)
	assert.Equal(t, "Studio: appointment cancelled", e.Subject)
	assert.Contains(t, e.Text, "Haircut")
	assert.Contains(t, e.Text, "2024-01-15 10:00")
	assert.Contains(t, e.Text, "Reason: provider unavailable")
}

func TestNotifier_FailureIsSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	n := NewNotifier(sender, zap.NewNop())

	ap, biz := sampleAppointment()
	assert.NotPanics(t, func() {
		n.AppointmentApproved(ap, biz, time.UTC)
		n.Wait()
	})
	assert.Len(t, sender.sent, 1)
}

func TestNotifier_NoRecipient(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifier(sender, zap.NewNop())

	ap, biz := sampleAppointment()
	ap.Customer.Email = ""
	n.AppointmentApproved(ap, biz, time.UTC)
	n.Wait()

	assert.Empty(t, sender.sent)
}

func TestQueueSender_Enqueues(t *testing.T) {
	q := &mockEnqueuer{}
	q.On("EnqueueContext", mock.Anything, mock.MatchedBy(func(task *asynq.Task) bool {
		var e Email
		return task.Type() == TypeEmailSend &&
			json.Unmarshal(task.Payload(), &e) == nil &&
			e.To == "a@b.c"
	})).Return(nil)

	s := &QueueSender{client: q}
	require.NoError(t, s.Send(context.Background(), Email{To: "a@b.c", Subject: "s", Text: "t"}))
	q.AssertExpectations(t)
}

func TestHandleEmailTask(t *testing.T) {
	sender := &recordingSender{}
	h := HandleEmailTask(sender, zap.NewNop())

	task, err := NewEmailTask(Email{To: "x@y.z", Subject: "hi", Text: "body"})
	require.NoError(t, err)
	require.NoError(t, h(context.Background(), task))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "hi", sender.sent[0].Subject)

	err = h(context.Background(), asynq.NewTask(TypeEmailSend, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestSMTPSender_Message(t *testing.T) {
	var got []byte
	s := NewSMTPSender("localhost", "1025", "no-reply@booking.local")
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		assert.Equal(t, "localhost:1025", addr)
		assert.Equal(t, []string{"c@d.e"}, to)
		got = msg
		return nil
	}

	require.NoError(t, s.Send(context.Background(), Email{To: "c@d.e", Subject: "a\r\nBcc: evil", Text: "line1\nline2"}))
	assert.Contains(t, string(got), "Subject: a  Bcc: evil\r\n")
	assert.Contains(t, string(got), "line1\r\nline2")

	assert.Error(t, s.Send(context.Background(), Email{}))
}
