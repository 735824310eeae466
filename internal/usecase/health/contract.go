package health

import "context"

// StorePinger checks storage availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// VectorizerChecker checks embedding provider availability.
type VectorizerChecker interface {
	HealthCheck(ctx context.Context) error
}
