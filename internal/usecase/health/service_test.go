package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

// --- Mocks ---

type mockCachePinger struct {
	err error
}

func (m *mockCachePinger) Ping(_ context.Context) error { return m.err }

type mockUpstreamChecker struct {
	err         error
	hasDeadline bool
}

func (m *mockUpstreamChecker) HealthCheck(ctx context.Context) error {
	_, m.hasDeadline = ctx.Deadline()
	return m.err
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockUpstreamChecker{}, &mockCachePinger{}, 0)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks[checkUpstream] != CheckOK {
		t.Errorf("expected termdat %q, got %q", CheckOK, r.Checks[checkUpstream])
	}
	if r.Checks[checkCache] != CheckOK {
		t.Errorf("expected cache %q, got %q", CheckOK, r.Checks[checkCache])
	}
}

func TestCheck_CacheDown(t *testing.T) {
	svc := New(&mockUpstreamChecker{}, &mockCachePinger{err: errors.New("connection refused")}, 0)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[checkCache] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks[checkCache])
	}
}

func TestCheck_UpstreamDown(t *testing.T) {
	svc := New(&mockUpstreamChecker{err: errors.New("503")}, &mockCachePinger{err: errors.New("down")}, 0)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_NoCache(t *testing.T) {
	svc := New(&mockUpstreamChecker{}, nil, 0)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks[checkCache]; ok {
		t.Error("cache check should be absent when caching is disabled")
	}
}

func TestCheck_AppliesTimeout(t *testing.T) {
	up := &mockUpstreamChecker{}
	New(up, nil, time.Second).Check(context.Background())

	if !up.hasDeadline {
		t.Error("expected health check context to carry a deadline")
	}
}
