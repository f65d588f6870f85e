package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-saas/internal/models"
)

// Notifier tells customers about status changes. Delivery runs in the
// background and failures are only logged.
type Notifier struct {
	sender  Sender
	log     *zap.Logger
	timeout time.Duration

	wg sync.WaitGroup
}

func NewNotifier(sender Sender, log *zap.Logger) *Notifier {
	return &Notifier{
		sender:  sender,
		log:     log,
		timeout: 15 * time.Second,
	}
}

func (n *Notifier) AppointmentApproved(ap *models.Appointment, business *models.Business, loc *time.Location) {
	to, ok := recipient(ap)
	if !ok {
		return
	}
	n.dispatch(Email{
		To:      to,
		Subject: fmt.Sprintf("%s: appointment approved", business.Name),
		Text: fmt.Sprintf(
			"Hello %s,\n\nYour appointment%s on %s has been approved.\n",
			ap.Customer.FullName,
			serviceSuffix(ap),
			ap.StartTime.In(loc).Format("2006-01-02 15:04"),
		),
	})
}

func (n *Notifier) AppointmentCancelled(ap *models.Appointment, business *models.Business, loc *time.Location) {
	to, ok := recipient(ap)
	if !ok {
		return
	}

	text := fmt.Sprintf(
		"Hello %s,\n\nYour appointment%s on %s has been cancelled.\n",
		ap.Customer.FullName,
		serviceSuffix(ap),
		ap.StartTime.In(loc).Format("2006-01-02 15:04"),
	)
	if ap.CancellationReason != "" {
		text += "\nReason: " + ap.CancellationReason + "\n"
	}

	n.dispatch(Email{
		To:      to,
		Subject: fmt.Sprintf("%s: appointment cancelled", business.Name),
		Text:    text,
	})
}

// Wait blocks until in-flight deliveries finish.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) dispatch(e Email) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.sender.Send(ctx, e); err != nil {
			n.log.Warn("notification failed",
				zap.String("to", e.To),
				zap.String("subject", e.Subject),
				zap.Error(err),
			)
		}
	}()
}

func recipient(ap *models.Appointment) (string, bool) {
	if ap.Customer == nil || ap.Customer.Email == "" {
		return "", false
	}
	return ap.Customer.Email, true
}

func serviceSuffix(ap *models.Appointment) string {
	if ap.Service == nil {
		return ""
	}
	return " for " + ap.Service.Name
}
