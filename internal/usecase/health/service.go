package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the cache is down while the terminology API answers.
	Degraded Status = "degraded"
	// Unhealthy indicates the terminology API is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

const (
	checkUpstream = "termdat"
	checkCache    = "cache"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	upstream UpstreamChecker
	cache    CachePinger
	timeout  time.Duration
}

// New creates a Service. cache can be nil when caching is disabled.
// A non-positive timeout leaves the caller's deadline in charge.
func New(upstream UpstreamChecker, cache CachePinger, timeout time.Duration) *Service {
	return &Service{upstream: upstream, cache: cache, timeout: timeout}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	checks := map[string]CheckResult{
		checkUpstream: result(s.upstream.HealthCheck(ctx)),
	}
	if s.cache != nil {
		checks[checkCache] = result(s.cache.Ping(ctx))
	}

	status := Healthy
	switch {
	case checks[checkUpstream] == CheckError:
		status = Unhealthy
	case checks[checkCache] == CheckError:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
