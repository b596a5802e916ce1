package health

import "context"

// StorePinger checks session store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// CompletionChecker checks completion service availability.
type CompletionChecker interface {
	HealthCheck(ctx context.Context) error
}
