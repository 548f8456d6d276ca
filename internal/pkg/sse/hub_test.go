package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesOnlyOwnOrganization(t *testing.T) {
	h := NewHub()
	a, cleanupA := h.Subscribe("org-a")
	defer cleanupA()
	b, cleanupB := h.Subscribe("org-b")
	defer cleanupB()

	h.Publish(Event{OrganizationID: "org-a", Name: "import.completed", Data: 3})

	select {
	case ev := <-a:
		assert.Equal(t, "import.completed", ev.Name)
		assert.Equal(t, 3, ev.Data)
	default:
		t.Fatal("expected event for org-a")
	}
	assert.Empty(t, b)
}

func TestCleanupRemovesSubscriber(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe("org-a")
	require.Equal(t, 1, h.SubscriberCount("org-a"))

	cleanup()
	cleanup()

	assert.Zero(t, h.SubscriberCount("org-a"))
	_, open := <-ch
	assert.False(t, open)

	h.Publish(Event{OrganizationID: "org-a", Name: "noop"})
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe("org-a")
	defer cleanup()

	for i := 0; i < subscriberBuffer+5; i++ {
		h.Publish(Event{OrganizationID: "org-a", Name: "tick", Data: i})
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestNilHubPublishIsNoop(t *testing.T) {
	var h *Hub
	assert.NotPanics(t, func() { h.Publish(Event{OrganizationID: "x"}) })
}
