package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/samutthan/internal/infra/config"
)

func TestClientLimiter_RefillsOverTime(t *testing.T) {
	now := time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)
	limiter := newClientLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 2})
	limiter.now = func() time.Time { return now }

	require.True(t, limiter.allow("10.0.0.1"))
	require.True(t, limiter.allow("10.0.0.1"))
	require.False(t, limiter.allow("10.0.0.1"))
	require.True(t, limiter.allow("10.0.0.2"))

	now = now.Add(time.Second)
	require.True(t, limiter.allow("10.0.0.1"))
	require.False(t, limiter.allow("10.0.0.1"))
}

func TestClientLimiter_SweepsIdleClients(t *testing.T) {
	now := time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)
	limiter := newClientLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1})
	limiter.now = func() time.Time { return now }

	require.True(t, limiter.allow("10.0.0.1"))
	now = now.Add(10 * time.Minute)
	require.True(t, limiter.allow("10.0.0.2"))

	require.Len(t, limiter.buckets, 1)
	require.Contains(t, limiter.buckets, "10.0.0.2")
}

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	server := newRouterUnderTest(t, &stubDiagnoser{}, config.RateLimitConfig{})

	rec := performRequest(server, http.MethodGet, "/healthz", "", "")
	_, err := uuid.Parse(rec.Header().Get(requestIDHeader))
	require.NoError(t, err)
}
