package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/estate-agency/internal/config"
	"github.com/spec-kit/estate-agency/internal/events"
	"github.com/spec-kit/estate-agency/internal/service"
)

func TestNotificationWorkerDeliversOnPool(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher(nil)
	notifier := service.NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{WebhookURL: "http://hooks.local/estate"})

	w := StartNotificationWorker(notifier, nil, 2)
	for _, id := range []string{"inq-1", "inq-2", "inq-3"} {
		err := dispatcher.Publish(context.Background(), events.New(events.EventInquiryCreated, id, events.Actor{},
			events.InquiryCreatedPayload{PropertyID: "p-1", BuyerID: "c-1"}))
		require.NoError(t, err)
	}
	w.Stop()

	assert.Equal(t, 3, logs.FilterMessage("notification").Len())
	assert.Equal(t, 3, logs.FilterMessage("webhook queued").Len())
}
