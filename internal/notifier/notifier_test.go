package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AfriQuoteFeed/internal/collector"
	"AfriQuoteFeed/internal/ingest"
)

func TestSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "42", body["chat_id"])
		assert.Equal(t, "HTML", body["parse_mode"])
		assert.Equal(t, "hello", body["text"])
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "").WithBaseURL(srv.URL)
	require.NoError(t, n.Send(context.Background(), "hello"))
}

func TestSendWithRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "").WithBaseURL(srv.URL)
	require.NoError(t, n.SendWithRetry(context.Background(), "hi", 1))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "").WithBaseURL(srv.URL)
	err := n.SendWithRetry(context.Background(), "hi", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestFormatRunSummary(t *testing.T) {
	report := &ingest.Report{
		StartedAt: time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC),
		SaveErr:   errors.New("disk full"),
	}
	sum := ingest.Summary{
		Fetched: 14, Failed: 1, Gainers: 6, Losers: 3, Unchanged: 1,
		Movers: []ingest.Mover{{Symbol: "BOAN.NE", Last: 2455, Change: -6.65}},
		Failures: []ingest.Outcome{{
			Symbol: "XXXX.CI",
			Err:    &collector.ProviderError{Symbol: "XXXX.CI", Code: "Not Found"},
		}},
	}

	msg := FormatRunSummary(sum, report)
	assert.Contains(t, msg, "2024-03-15 18:30 UTC")
	assert.Contains(t, msg, "Fetched: 14 | Failed: 1")
	assert.Contains(t, msg, "BOAN.NE 2455.00 (-6.65%)")
	assert.Contains(t, msg, "XXXX.CI (provider)")
	assert.Contains(t, msg, "snapshot not saved: disk full")
}

func TestNotify(t *testing.T) {
	var text string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		text = body["text"]
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "").WithBaseURL(srv.URL)
	err := n.Notify(context.Background(), ingest.Summary{Fetched: 15}, &ingest.Report{StartedAt: time.Now()})
	require.NoError(t, err)
	assert.Contains(t, text, "Fetched: 15 | Failed: 0")
}
