package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeEmailSend = "email:send"

func NewEmailTask(e Email) (*asynq.Task, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEmailSend, b, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueSender hands emails to the worker through asynq.
type QueueSender struct {
	client enqueuer
}

func NewQueueSender(client *asynq.Client) *QueueSender {
	return &QueueSender{client: client}
}

func (s *QueueSender) Send(ctx context.Context, e Email) error {
	task, err := NewEmailTask(e)
	if err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}
	return nil
}

// HandleEmailTask delivers queued emails with sender. Malformed payloads
// are skipped instead of retried.
func HandleEmailTask(sender Sender, log *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var e Email
		if err := json.Unmarshal(task.Payload(), &e); err != nil {
			log.Error("invalid email payload", zap.Error(err))
			return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
		}

		if err := sender.Send(ctx, e); err != nil {
			log.Warn("email delivery failed", zap.String("to", e.To), zap.Error(err))
			return err
		}
		return nil
	}
}
