package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherDeliversToSubscribersOfType(t *testing.T) {
	d := NewInMemoryDispatcher()

	var created, canceled int
	d.Subscribe(EventComplaintCreated, func(_ context.Context, e Event) error {
		created++
		assert.Equal(t, int64(3), e.ComplaintID)
		return nil
	})
	d.Subscribe(EventComplaintCanceled, func(context.Context, Event) error {
		canceled++
		return nil
	})

	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventComplaintCreated, ComplaintID: 3}))
	assert.Equal(t, 1, created)
	assert.Equal(t, 0, canceled)
}

func TestDispatcherKeepsGoingAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")

	var calls int
	d.Subscribe(EventComplaintUpdated, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventComplaintUpdated, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventComplaintUpdated})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}
