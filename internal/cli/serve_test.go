package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/healthcalc/calcchain/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPHandler_Metrics(t *testing.T) {
	cfg := baseConfig()
	rt, err := NewRuntime(cfg, logging.NewNop())
	require.NoError(t, err)

	h := NewHTTPHandler(rt, cfg, logging.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/chain/start", strings.NewReader(`{"chainId":"weight-loss"}`))
	h.ServeHTTP(httptest.NewRecorder(), req)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `calcchain_chains_started_total{chain_id="weight-loss"} 1`)
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := baseConfig()
	cfg.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, cfg, logging.NewNop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}
