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
	// Degraded indicates the chat surface is impaired while browsing still works.
	Degraded Status = "degraded"
	// Unhealthy indicates the session store is down.
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

// Component names reported in Report.Checks.
const (
	ComponentSessions   = "sessions"
	ComponentCompletion = "completion"
)

// checkTimeout bounds each component probe.
const checkTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	sessions   StorePinger
	completion CompletionChecker
}

// New creates a Service. completion can be nil.
func New(sessions StorePinger, completion CompletionChecker) *Service {
	return &Service{sessions: sessions, completion: completion}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 2)
	checks[ComponentSessions] = probe(ctx, s.sessions.Ping)

	status := Healthy
	if s.completion != nil {
		checks[ComponentCompletion] = probe(ctx, s.completion.HealthCheck)
		if checks[ComponentCompletion] == CheckError {
			status = Degraded
		}
	}
	if checks[ComponentSessions] == CheckError {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}

func probe(ctx context.Context, fn func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
