package health

import "context"

// CachePinger checks response cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// UpstreamChecker checks terminology API availability.
type UpstreamChecker interface {
	HealthCheck(ctx context.Context) error
}
