// Package metrics provides Prometheus metrics for the Aster service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ImportJobsTotal tracks total import job runs by outcome
	ImportJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aster",
			Subsystem: "import",
			Name:      "jobs_total",
			Help:      "Total number of import job runs by outcome",
		},
		[]string{"tenant_id", "outcome"},
	)

	// ImportJobDuration tracks import job run duration in seconds
	ImportJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "aster",
			Subsystem: "import",
			Name:      "job_duration_seconds",
			Help:      "Duration of import job runs in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"tenant_id"},
	)

	// ImportRowsTotal tracks processed rows by match method
	ImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aster",
			Subsystem: "import",
			Name:      "rows_total",
			Help:      "Total number of processed import rows by match method",
		},
		[]string{"tenant_id", "match_method"},
	)

	// ImportConflictsTotal tracks cross-channel identifier conflicts
	ImportConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aster",
			Subsystem: "import",
			Name:      "conflicts_total",
			Help:      "Total number of email and phone identifier conflicts",
		},
		[]string{"tenant_id"},
	)

	// ReviewIssuesTotal tracks review issues by type
	ReviewIssuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aster",
			Subsystem: "import",
			Name:      "review_issues_total",
			Help:      "Total number of review issues created by type",
		},
		[]string{"tenant_id", "issue_type"},
	)

	// PersonsCreatedTotal tracks persons created by imports
	PersonsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aster",
			Subsystem: "import",
			Name:      "persons_created_total",
			Help:      "Total number of persons created by import runs",
		},
		[]string{"tenant_id"},
	)

	// RolesCreatedTotal tracks unit roles created by imports
	RolesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aster",
			Subsystem: "import",
			Name:      "roles_created_total",
			Help:      "Total number of unit roles created by import runs",
		},
		[]string{"tenant_id"},
	)
)

// RecordJobRun records a completed or failed job run
func RecordJobRun(tenantID, outcome string, durationSeconds float64) {
	ImportJobsTotal.WithLabelValues(tenantID, outcome).Inc()
	ImportJobDuration.WithLabelValues(tenantID).Observe(durationSeconds)
}

// RecordRow records a processed row
func RecordRow(tenantID, matchMethod string) {
	ImportRowsTotal.WithLabelValues(tenantID, matchMethod).Inc()
}

// RecordConflict records a cross-channel identifier conflict
func RecordConflict(tenantID string) {
	ImportConflictsTotal.WithLabelValues(tenantID).Inc()
}

// RecordReviewIssue records a created review issue
func RecordReviewIssue(tenantID, issueType string) {
	ReviewIssuesTotal.WithLabelValues(tenantID, issueType).Inc()
}
