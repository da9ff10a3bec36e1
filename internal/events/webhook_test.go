package events

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignHMAC(t *testing.T) {
	got := SignHMAC("secret", "METHOD\n/path\n1700000000\nnonce\nbodyhash")
	assert.Len(t, got, 64)
}

func TestWebhook_SignedDelivery(t *testing.T) {
	var received Event
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		tsHeader, _ := strconv.ParseInt(r.Header.Get("X-Timestamp"), 10, 64)
		want := SignHMAC("secret", buildCanonical(r.Method, r.URL.Path, tsHeader, r.Header.Get("X-Nonce"), hashHex(body)))
		if r.Header.Get("X-Api-Key") != "key" || r.Header.Get("X-Signature") != want {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	wh := NewWebhook(nil, ts.URL+"/hook", "key", "secret")
	require.NoError(t, wh.Publish(context.Background(), &Event{ID: "evt-1", Type: TypeOpenReply}))
	assert.Equal(t, "evt-1", received.ID)
	assert.Equal(t, TypeOpenReply, received.Type)
}

func TestWebhook_RetryOn5xx(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	wh := NewWebhook(nil, ts.URL, "key", "secret")
	wh.Backoff = []time.Duration{time.Millisecond}
	require.NoError(t, wh.Publish(context.Background(), &Event{ID: "evt-2"}))
	assert.Equal(t, int32(3), calls.Load())
}

func TestWebhook_NoRetryOn4xx(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	wh := NewWebhook(nil, ts.URL, "key", "secret")
	wh.Backoff = []time.Duration{time.Millisecond}
	assert.Error(t, wh.Publish(context.Background(), &Event{ID: "evt-3"}))
	assert.Equal(t, int32(1), calls.Load())
}
