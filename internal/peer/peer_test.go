package peer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveTimeout(t *testing.T) {
	d, err := EffectiveTimeout(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	d, err = EffectiveTimeout(ctx, time.Minute)
	require.NoError(t, err)
	assert.LessOrEqual(t, d, 100*time.Millisecond)

	d, err = EffectiveTimeout(ctx, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, d)

	cancelled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	_, err = EffectiveTimeout(cancelled, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestErrorMessage(t *testing.T) {
	msg, details := ErrorMessage([]byte(`{"error":{"code":"VALIDATION_FAILED","message":"bad id","details":{"ticketId":"01"}}}`), "fallback")
	assert.Equal(t, "bad id", msg)
	assert.Equal(t, map[string]any{"ticketId": "01"}, details)

	msg, details = ErrorMessage([]byte(`<html>`), "fallback")
	assert.Equal(t, "fallback", msg)
	assert.Nil(t, details)
}

func TestDoReturnsResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fiber.MIMEApplicationJSON, r.Header.Get(fiber.HeaderAccept))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	resp, err := Do(context.Background(), fiber.Get(srv.URL), time.Second)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.Status)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
}

func TestDoStopsWhenCallerCancels(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		select {
		case <-release:
		case <-time.After(3 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	_, err := Do(ctx, fiber.Get(srv.URL), 5*time.Second)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
