package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the vectorizer is down; filter and lexical
	// search still work.
	Degraded Status = "degraded"
	// Unhealthy indicates the store is unreachable.
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

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks. The store is a hard dependency;
// the vectorizer is soft, since searches degrade rather than fail
// without it.
type Service struct {
	store      StorePinger
	vectorizer VectorizerChecker
}

// New creates a Service. vectorizer can be nil.
func New(store StorePinger, vectorizer VectorizerChecker) *Service {
	return &Service{store: store, vectorizer: vectorizer}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.store.Ping(ctx); err != nil {
		checks["store"] = CheckError
		status = Unhealthy
	} else {
		checks["store"] = CheckOK
	}

	if s.vectorizer != nil {
		if err := s.vectorizer.HealthCheck(ctx); err != nil {
			checks["vectorizer"] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["vectorizer"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
