package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/service"
	"notekeeper-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingForwarder struct {
	mu    sync.Mutex
	types []string
}

func (r *recordingForwarder) Publish(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, event.EventType())
	return nil
}

func (r *recordingForwarder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.types...)
}

func TestConsumerService_ForwardsPublishedEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	forwarder := &recordingForwarder{}
	consumer := service.NewConsumerService(pubSub, "notekeeper.events", forwarder, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	publisher := service.NewPublisherService("notekeeper.events", pubSub)
	at := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, publisher.Publish(ctx, events.New(events.NoteCreated, map[string]interface{}{"note_id": "n1"}, at)))
	require.NoError(t, publisher.Publish(ctx, events.New(events.NoteDeleted, map[string]interface{}{"note_id": "n1"}, at)))

	assert.Eventually(t, func() bool {
		return len(forwarder.Types()) == 2
	}, time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []string{events.NoteCreated, events.NoteDeleted}, forwarder.Types())
}
