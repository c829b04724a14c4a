package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFetch(t *testing.T) {
	before := testutil.ToFloat64(fetchTotal.WithLabelValues("stock", "ok"))
	RecordFetch("stock", "", 120*time.Millisecond)
	RecordFetch("currency", "provider", time.Second)

	assert.Equal(t, before+1, testutil.ToFloat64(fetchTotal.WithLabelValues("stock", "ok")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(fetchTotal.WithLabelValues("currency", "provider")), 1.0)
}

func TestRecordRunAndWrites(t *testing.T) {
	RecordRun("batch", 15*time.Second, 13, 2)
	assert.Equal(t, 13.0, testutil.ToFloat64(lastRunSymbols.WithLabelValues("fetched")))
	assert.Equal(t, 2.0, testutil.ToFloat64(lastRunSymbols.WithLabelValues("failed")))

	before := testutil.ToFloat64(snapshotWrites.WithLabelValues("error"))
	RecordSnapshotWrite(errors.New("disk full"))
	assert.Equal(t, before+1, testutil.ToFloat64(snapshotWrites.WithLabelValues("error")))
}

func TestHandler(t *testing.T) {
	RecordFetch("stock", "transport", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `afriquotes_fetch_requests_total{kind="stock",outcome="transport"}`)
}
