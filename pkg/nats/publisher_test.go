package nats

import (
	"encoding/json"
	"testing"
	"time"

	"notekeeper-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "notekeeper.events.NOTE_CREATED", Subject("NOTE_CREATED"))
	assert.Equal(t, "notekeeper.events.*", Subject("*"))
}

func TestDecode(t *testing.T) {
	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	raw, err := json.Marshal(events.New(events.NoteDeleted, map[string]interface{}{"note_id": "n1"}, at))
	require.NoError(t, err)

	evt, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, events.NoteDeleted, evt.EventType())
	assert.Equal(t, "n1", evt.Payload()["note_id"])
	assert.True(t, at.Equal(evt.Timestamp()))

	_, err = Decode([]byte(`{"data":{}}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}
