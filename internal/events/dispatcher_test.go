package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishRunsEveryHandlerDespiteFailures(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var calls []string
	d.Subscribe(EventInquiryCreated, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventInquiryCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.SubjectID)
		return nil
	})
	d.Subscribe(EventTransactionCreated, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), New(EventInquiryCreated, "inq-1", Actor{}, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second:inq-1"}, calls)
}

func TestPublishSurvivesPanickingSubscriber(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	reached := false
	d.Subscribe(EventCatalogChanged, func(context.Context, Event) error {
		panic("bad subscriber")
	})
	d.Subscribe(EventCatalogChanged, func(context.Context, Event) error {
		reached = true
		return nil
	})

	assert.NotPanics(t, func() {
		require.NoError(t, d.Publish(context.Background(), New(EventCatalogChanged, "p-1", Actor{}, nil)))
	})
	assert.True(t, reached)
}

func TestNewStampsEvent(t *testing.T) {
	e := New(EventInquiryResolved, "inq-1", Actor{UserID: "u-1"}, InquiryResolvedPayload{})
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, EventInquiryResolved, e.Type)
}
