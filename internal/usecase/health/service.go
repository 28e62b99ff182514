package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results and per-index document counts.
type Report struct {
	Status  Status
	Checks  map[string]CheckResult
	Indexes map[string]int
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	indexes []IndexReporter
}

// New creates a Service over the catalog store and the search indexes.
func New(db DBPinger, indexes ...IndexReporter) *Service {
	return &Service{db: db, indexes: indexes}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	sizes := make(map[string]int, len(s.indexes))
	for _, ix := range s.indexes {
		sizes[ix.IndexName()] = ix.Size()
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks, Indexes: sizes}
}
