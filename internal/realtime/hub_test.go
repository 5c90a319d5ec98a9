package realtime

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConn(userID int64, topics ...string) *connection {
	c := &connection{
		userID: userID,
		send:   make(chan []byte, 8),
		topics: make(map[string]bool, len(topics)),
	}
	for _, t := range topics {
		c.topics[t] = true
	}
	return c
}

func receive(t *testing.T, c *connection) *Payload {
	t.Helper()
	select {
	case data := <-c.send:
		var p Payload
		require.NoError(t, json.Unmarshal(data, &p))
		return &p
	default:
		return nil
	}
}

func TestBroadcast_ExcludesSender(t *testing.T) {
	h := NewHub(zerolog.Nop())
	owner := testConn(1, "booking:999")
	customer := testConn(42, "booking:999")
	h.register(owner)
	h.register(customer)

	h.Broadcast("booking:999", 1, ActionApproved, "Booking accepted")

	assert.Nil(t, receive(t, owner), "sender must not receive its own broadcast")
	got := receive(t, customer)
	require.NotNil(t, got)
	assert.Equal(t, ActionApproved, got.Action)
	assert.Equal(t, "Booking accepted", got.Message)
	assert.Equal(t, 1, got.V)
}

func TestBroadcast_TopicScoped(t *testing.T) {
	h := NewHub(zerolog.Nop())
	subscribed := testConn(42, "booking:999")
	other := testConn(43, "booking:1000")
	h.register(subscribed)
	h.register(other)

	h.Broadcast("booking:999", 1, ActionModified, "Change proposed")

	require.NotNil(t, receive(t, subscribed))
	assert.Nil(t, receive(t, other), "unrelated topic must not receive the payload")
}

func TestBroadcast_SlowClientSkipped(t *testing.T) {
	h := NewHub(zerolog.Nop())
	slow := testConn(42, "booking:999")
	slow.send = make(chan []byte) // unbuffered and never drained
	h.register(slow)

	// Must not block.
	h.Broadcast("booking:999", 1, ActionDeclined, "Booking declined")
}

func TestUnregister_Idempotent(t *testing.T) {
	h := NewHub(zerolog.Nop())
	c := testConn(42, "booking:999")
	h.register(c)
	h.unregister(c)
	h.unregister(c) // second call must not panic on the closed channel

	h.Broadcast("booking:999", 1, ActionApproved, "")
}
