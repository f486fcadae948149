package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/estate-agency/internal/config"
	"github.com/spec-kit/estate-agency/internal/events"
)

// Notice is a rendered notification ready for delivery.
type Notice struct {
	Subject string
	To      string
	Email   bool
	Webhook bool
}

// NotificationService turns domain events into notices. Delivery is stubbed
// with log lines; mail and webhook transports are external collaborators.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	exec       func(task func())
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{dispatcher: dispatcher, logger: logger, cfg: cfg}
}

// UseExecutor moves delivery off the publishing goroutine. Notices are still
// composed synchronously; only the transport stubs run on exec.
func (n *NotificationService) UseExecutor(exec func(task func())) {
	n.exec = exec
}

// RegisterHandlers subscribes to the events that produce notices.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventInquiryCreated,
		events.EventInquiryResolved,
		events.EventTransactionCreated,
		events.EventPasswordResetRequested,
	} {
		n.dispatcher.Subscribe(eventType, n.deliver)
	}
}

// Compose renders the notice for an event. The second result is false for
// events that notify nobody.
func Compose(event events.Event) (Notice, bool) {
	switch p := event.Payload.(type) {
	case events.InquiryCreatedPayload:
		subject := "New inquiry awaiting an agent"
		if p.AgentID != nil {
			subject = fmt.Sprintf("New inquiry assigned to agent %s", *p.AgentID)
		}
		return Notice{Subject: subject, Email: true, Webhook: true}, true
	case events.InquiryResolvedPayload:
		return Notice{
			Subject: fmt.Sprintf("Inquiry %s: %s -> %s (%s)", event.SubjectID, p.OldState, p.NewState, p.Action),
			Webhook: true,
		}, true
	case events.TransactionCreatedPayload:
		return Notice{
			Subject: fmt.Sprintf("Deal closed for property %s, total %s", p.PropertyID, p.TotalAmount.StringFixed(2)),
			Email:   true,
			Webhook: true,
		}, true
	case events.PasswordResetRequestedPayload:
		if p.Email == "" {
			return Notice{}, false
		}
		return Notice{Subject: "Password reset requested", To: p.Email, Email: true}, true
	}
	return Notice{}, false
}

func (n *NotificationService) deliver(ctx context.Context, event events.Event) error {
	notice, ok := Compose(event)
	if !ok {
		return nil
	}
	n.logger.Info("notification",
		zap.String("event_type", string(event.Type)),
		zap.String("subject_id", event.SubjectID),
		zap.String("subject", notice.Subject),
	)
	if n.exec == nil {
		n.send(ctx, event, notice)
		return nil
	}
	detached := context.WithoutCancel(ctx)
	n.exec(func() { n.send(detached, event, notice) })
	return nil
}

func (n *NotificationService) send(ctx context.Context, event events.Event, notice Notice) {
	if notice.Email {
		n.sendEmailStub(ctx, event, notice)
	}
	if notice.Webhook {
		n.sendWebhookStub(ctx, event, notice)
	}
}

func (n *NotificationService) sendEmailStub(_ context.Context, event events.Event, notice Notice) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("email queued",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", notice.To),
		zap.String("event_id", event.ID))
}

func (n *NotificationService) sendWebhookStub(_ context.Context, event events.Event, notice Notice) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("webhook queued",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_id", event.ID),
		zap.String("subject", notice.Subject))
}
