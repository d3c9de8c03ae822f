package firms

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wildfire-guardian/internal/domain"
	"github.com/couchcryptid/wildfire-guardian/internal/observability"
)

const (
	testKey    = "test-key"
	sampleBody = `latitude,longitude,brightness,scan,track,acq_date,acq_time,satellite,instrument,confidence,version,bright_t31,frp,daynight
-5.03,-75.0,320.5,1.0,1.0,2024-08-15,530,Terra,MODIS,85,6.1NRT,295.3,12.4,D
-6.12,-76.4,310.1,1.1,1.0,2024-08-15,1510,Aqua,MODIS,55,6.1NRT,290.0,8.0,D
`
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *observability.Metrics) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	metrics := observability.NewMetricsForTesting()
	return NewClient(testKey, srv.URL, "", 5*time.Second, metrics, slog.New(slog.NewTextHandler(io.Discard, nil))), metrics
}

func TestClient_Fetch_Success(t *testing.T) {
	c, metrics := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/area/csv/test-key/MODIS_NRT/-81.3,-18.3,-68.7,0/2", r.URL.Path)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, sampleBody)
	})

	rows, err := c.Fetch(context.Background(), domain.PeruBounds, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "-5.03", rows[0][0])
	assert.Len(t, rows[0], domain.FIRMSFieldCount)
	assert.Equal(t, "Aqua", rows[1][7])
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FeedRequests.WithLabelValues("success")))

	detections, errs := domain.ParseDetections(rows, domain.FIRMSFieldCount)
	assert.Empty(t, errs)
	assert.Len(t, detections, 2)
}

func TestClient_Fetch_HeaderOnly(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "latitude,longitude,brightness\n")
	})

	rows, err := c.Fetch(context.Background(), domain.PeruBounds, 1)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestClient_Fetch_EmptyBody(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, _ *http.Request) {})

	rows, err := c.Fetch(context.Background(), domain.PeruBounds, 1)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestClient_Fetch_RaggedRowsKept(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "latitude,longitude\n-5.0,-75.0,extra\n-6.0\n")
	})

	rows, err := c.Fetch(context.Background(), domain.PeruBounds, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 3)
	assert.Len(t, rows[1], 1)
}

func TestClient_Fetch_StrayQuoteSkipsOnlyThatRow(t *testing.T) {
	body := `latitude,longitude,brightness,scan,track,acq_date,acq_time,satellite,instrument,confidence,version,bright_t31,frp,daynight
-5.03,-75.0,320.5,1.0,1.0,2024-08-15,530,Terra,MODIS,85,6.1NRT,295.3,12.4,D
-5.50,-75.2,3"20.1,1.0,1.0,2024-08-15,600,Terra,MODIS,70,6.1NRT,291.0,9.1,D
-6.12,-76.4,310.1,1.1,1.0,2024-08-15,1510,Aqua,MODIS,55,6.1NRT,290.0,8.0,D
`
	c, metrics := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, body)
	})

	rows, err := c.Fetch(context.Background(), domain.PeruBounds, 1)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FeedRequests.WithLabelValues("success")))

	detections, errs := domain.ParseDetections(rows, domain.FIRMSFieldCount)
	assert.Len(t, detections, 2)
	require.Len(t, errs, 1)
	var rowErr *domain.RowError
	require.ErrorAs(t, errs[0], &rowErr)
	assert.Equal(t, 1, rowErr.Row)
}

func TestReadRows_UnterminatedQuoteKeepsEarlierRows(t *testing.T) {
	body := "latitude,longitude\n-5.0,-75.0\n\"-6.0,-76.0\n"

	rows, err := ReadRows(strings.NewReader(body))
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"-5.0", "-75.0"}, rows[0])
}

func TestClient_Fetch_InvalidKeyMessage(t *testing.T) {
	c, metrics := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "Invalid MAP_KEY.\n")
	})

	_, err := c.Fetch(context.Background(), domain.PeruBounds, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected firms response")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FeedRequests.WithLabelValues("error")))
}

func TestClient_Fetch_HTTPError(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := c.Fetch(context.Background(), domain.PeruBounds, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestClient_Fetch_ContextCanceled(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, sampleBody)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Fetch(ctx, domain.PeruBounds, 1)
	assert.Error(t, err)
}

var _ domain.FireFeed = (*Client)(nil)
