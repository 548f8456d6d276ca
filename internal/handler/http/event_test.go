package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kintai-check/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-check/kintai-backend-go/internal/domain/user"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/jwt"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flushRecorder reports every Flush so tests can wait for streamed frames.
type flushRecorder struct {
	*httptest.ResponseRecorder
	flushed chan struct{}
}

func (f *flushRecorder) Flush() {
	f.ResponseRecorder.Flush()
	f.flushed <- struct{}{}
}

func waitFlush(t *testing.T, rec *flushRecorder) {
	t.Helper()
	select {
	case <-rec.flushed:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for stream frame")
	}
}

func TestEventStream(t *testing.T) {
	hub := sse.NewHub()
	h := &eventHandlerImpl{hub: hub, keepalive: time.Hour}

	ctx, cancel := context.WithCancel(jwt.ContextWithClaims(context.Background(), jwt.Claims{
		UserID:         "user-1",
		OrganizationID: "org-1",
		Role:           user.RoleViewer,
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil).WithContext(ctx)
	rec := &flushRecorder{ResponseRecorder: httptest.NewRecorder(), flushed: make(chan struct{}, 4)}

	done := make(chan struct{})
	go func() {
		h.Stream(rec, req)
		close(done)
	}()

	waitFlush(t, rec)
	require.Equal(t, 1, hub.SubscriberCount("org-1"))
	hub.Publish(sse.Event{OrganizationID: "org-2", Name: "other", Data: 1})
	hub.Publish(sse.Event{
		OrganizationID: "org-1",
		Name:           attendance.EventImportCompleted,
		Data:           attendance.ImportCompletedEvent{ImportResult: attendance.ImportResult{BatchID: "b1", IssueCount: 2}, StoreID: "s1"},
	})
	waitFlush(t, rec)
	cancel()
	<-done

	body := rec.Body.String()
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: connected\n")
	assert.Contains(t, body, "event: import.completed\n")
	assert.Contains(t, body, `"batch_id":"b1"`)
	assert.Contains(t, body, `"store_id":"s1"`)
	assert.NotContains(t, body, "event: other")
	assert.Zero(t, hub.SubscriberCount("org-1"))
}

func TestEventStreamRequiresClaims(t *testing.T) {
	h := NewEventHandler(sse.NewHub())
	rec := httptest.NewRecorder()
	h.Stream(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
