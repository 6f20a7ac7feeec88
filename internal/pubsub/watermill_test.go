package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingPayload struct {
	Seq  int    `json:"seq"`
	Note string `json:"note,omitempty"`
}

var pingEvent = NewEvent[pingPayload]("test.ping", "Ping used by the bridge tests")

func TestWatermillBridge(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bridge := NewWatermillBridge(false)
	defer bridge.Close()

	received := make(chan Message, 1)
	err := bridge.Subscribe(ctx, "test.raw", func(ctx context.Context, msg Message) error {
		received <- msg
		return nil
	})
	require.NoError(t, err)

	err = bridge.Publish(ctx, Message{
		Topic:    "test.raw",
		MatchID:  "match-1",
		Payload:  []byte(`{"hello":"world"}`),
		Metadata: map[string]string{"request_id": "req-1"},
	})
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, "test.raw", msg.Topic)
		assert.Equal(t, "match-1", msg.MatchID)
		assert.JSONEq(t, `{"hello":"world"}`, string(msg.Payload))
		assert.Equal(t, "req-1", msg.Metadata["request_id"])
		assert.NotContains(t, msg.Metadata, metaKeyTopic)
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}
}

func TestTypedEvent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bridge := NewWatermillBridge(false)
	defer bridge.Close()

	got := make(chan pingPayload, 1)
	err := Subscribe(ctx, bridge, pingEvent, func(ctx context.Context, matchID string, p pingPayload) error {
		assert.Equal(t, "m-7", matchID)
		got <- p
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, Publish(ctx, bridge, pingEvent, "m-7", pingPayload{Seq: 3}))

	select {
	case p := <-got:
		assert.Equal(t, 3, p.Seq)
	case <-time.After(2 * time.Second):
		t.Fatal("typed message not delivered")
	}
}

func TestTopics(t *testing.T) {
	var found *TopicInfo
	for _, info := range Topics() {
		if info.Name == "test.ping" {
			info := info
			found = &info
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "test", found.Module)
	assert.Equal(t, "pingPayload", found.TypeName)
	assert.Equal(t, []string{"seq", "note"}, found.PayloadFields)

	assert.Panics(t, func() { NewEvent[pingPayload]("test.ping", "duplicate") })
}
