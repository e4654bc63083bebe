package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type stubProbe struct{ fired atomic.Bool }

func (s *stubProbe) Fired() bool { return s.fired.Load() }

func TestObserveRun(t *testing.T) {
	Init()
	before := testutil.ToFloat64(deliveredTotal)
	beforeRuns := testutil.ToFloat64(runsTotal.WithLabelValues(ResultDelivered))

	ObserveRun(ResultDelivered, 1500*time.Millisecond, 3)
	ObserveRun(ResultEmpty, time.Second, 0)

	require.Equal(t, before+3, testutil.ToFloat64(deliveredTotal))
	require.Equal(t, beforeRuns+1, testutil.ToFloat64(runsTotal.WithLabelValues(ResultDelivered)))

	SetCursor(107)
	require.Equal(t, float64(107), testutil.ToFloat64(cursorValue))
}

func TestRouterEndpoints(t *testing.T) {
	probe := &stubProbe{}
	srv := httptest.NewServer(NewRouter(probe))
	defer srv.Close()

	get := func(path string) (int, string) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	code, _ := get("/healthz")
	require.Equal(t, http.StatusOK, code)

	code, _ = get("/readyz")
	require.Equal(t, http.StatusServiceUnavailable, code)

	probe.fired.Store(true)
	code, body := get("/readyz")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ready", body)

	ObserveRun(ResultFailed, time.Second, 0)
	code, body = get("/metrics")
	require.Equal(t, http.StatusOK, code)
	require.True(t, strings.Contains(body, "notice_runs_total"), "metrics body missing run counter")
}
