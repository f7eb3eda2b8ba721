// Package importer drives homeowner directory import runs: it matches each
// row against the person registry, materializes persons and unit roles, and
// writes an audit snapshot per row.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/pkg/errors"

	"github.com/Ramsey-B/aster/pkg/csvfile"
	"github.com/Ramsey-B/aster/pkg/matching"
	"github.com/Ramsey-B/aster/pkg/metrics"
	"github.com/Ramsey-B/aster/pkg/models"
)

// PersonStore is the person registry surface the orchestrator needs
type PersonStore interface {
	ListPage(ctx context.Context, tenantID string, limit, offset int) ([]models.Person, error)
	Create(ctx context.Context, tenantID string, req models.CreatePersonRequest) (*models.Person, error)
}

// UnitStore is the unit directory surface the orchestrator needs
type UnitStore interface {
	ListPage(ctx context.Context, tenantID string, limit, offset int) ([]models.Unit, error)
}

// RoleStore is the unit role surface the orchestrator needs
type RoleStore interface {
	Exists(ctx context.Context, tenantID, unitID, personID string) (bool, error)
	Create(ctx context.Context, tenantID string, req models.CreateUnitRoleRequest) (*models.UnitRole, error)
}

// JobStore is the import job surface the orchestrator needs
type JobStore interface {
	Get(ctx context.Context, tenantID, id string) (*models.ImportJob, error)
	MarkRunning(ctx context.Context, tenantID, id string) error
	ClearRunArtifacts(ctx context.Context, tenantID, jobID string) error
	Complete(ctx context.Context, tenantID, id string, summary models.ImportSummary) error
}

// FileStore is the source file surface the orchestrator needs
type FileStore interface {
	Get(ctx context.Context, tenantID, id string) (*models.ImportFile, error)
}

// SnapshotStore persists per-row audit snapshots
type SnapshotStore interface {
	Create(ctx context.Context, tenantID string, snapshot models.ImportRowSnapshot) (*models.ImportRowSnapshot, error)
}

// IssueStore persists review issues
type IssueStore interface {
	Create(ctx context.Context, tenantID string, issue models.ReviewIssue) (*models.ReviewIssue, error)
}

// EventEmitter publishes import lifecycle events. Emission failures are
// logged but never fail a run.
type EventEmitter interface {
	EmitJobStarted(ctx context.Context, tenantID, jobID string) error
	EmitJobCompleted(ctx context.Context, tenantID string, summary *models.ImportSummary) error
	EmitReviewIssueCreated(ctx context.Context, issue *models.ReviewIssue) error
}

// OwnershipProjector mirrors created roles into the graph database
type OwnershipProjector interface {
	ProjectOwnership(ctx context.Context, person *models.Person, unit *models.Unit, role *models.UnitRole) error
}

// Config holds orchestrator tunables
type Config struct {
	// Source is the provenance tag stamped on created persons and roles
	Source string
	// ConflictSampleLimit caps the in-memory conflict sample list
	ConflictSampleLimit int
	// PersonPageSize is the page size used when loading the person snapshot
	PersonPageSize int
}

// Orchestrator runs import jobs to completion. Rows are processed strictly
// sequentially in input order; the person and unit directories are read once
// as a snapshot before the first row.
type Orchestrator struct {
	logger       ectologger.Logger
	persons      PersonStore
	units        UnitStore
	roles        RoleStore
	jobs         JobStore
	files        FileStore
	snapshots    SnapshotStore
	issues       IssueStore
	emitter      EventEmitter
	projector    OwnershipProjector
	indexBuilder *matching.IndexBuilder
	cfg          Config
}

// NewOrchestrator creates a new import orchestrator. The emitter and
// projector are optional; pass nil to disable event emission or graph
// projection.
func NewOrchestrator(
	logger ectologger.Logger,
	persons PersonStore,
	units UnitStore,
	roles RoleStore,
	jobs JobStore,
	files FileStore,
	snapshots SnapshotStore,
	issues IssueStore,
	emitter EventEmitter,
	projector OwnershipProjector,
	cfg Config,
) *Orchestrator {
	if cfg.Source == "" {
		cfg.Source = "appfolio"
	}
	if cfg.ConflictSampleLimit <= 0 {
		cfg.ConflictSampleLimit = 10
	}
	if cfg.PersonPageSize <= 0 {
		cfg.PersonPageSize = 500
	}

	return &Orchestrator{
		logger:       logger,
		persons:      persons,
		units:        units,
		roles:        roles,
		jobs:         jobs,
		files:        files,
		snapshots:    snapshots,
		issues:       issues,
		emitter:      emitter,
		projector:    projector,
		indexBuilder: matching.NewIndexBuilder(logger),
		cfg:          cfg,
	}
}

// Run executes one import job to completion and returns its summary.
//
// Errors returned here are top-level failures: the job has already been
// marked running and is left in that state, with no terminal status. A job
// stuck in running beyond its expected duration is the operator's signal
// that the run died.
func (o *Orchestrator) Run(ctx context.Context, tenantID, jobID string) (*models.ImportSummary, error) {
	start := time.Now()

	log := o.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id": tenantID,
		"job_id":    jobID,
	})

	job, err := o.jobs.Get(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}

	file, err := o.files.Get(ctx, tenantID, job.FileID)
	if err != nil {
		return nil, err
	}

	if err := o.jobs.MarkRunning(ctx, tenantID, job.ID); err != nil {
		return nil, err
	}

	// A redelivered request re-runs the file from the top; drop whatever a
	// previous attempt wrote so snapshots and issues are not duplicated.
	if err := o.jobs.ClearRunArtifacts(ctx, tenantID, job.ID); err != nil {
		return nil, err
	}

	if o.emitter != nil {
		if err := o.emitter.EmitJobStarted(ctx, tenantID, job.ID); err != nil {
			log.WithError(err).Warn("Failed to emit job started event")
		}
	}

	persons, err := o.loadPersonSnapshot(ctx, tenantID)
	if err != nil {
		metrics.RecordJobRun(tenantID, "failed", time.Since(start).Seconds())
		return nil, errors.Wrap(err, "failed to load person snapshot")
	}
	idx := o.indexBuilder.Build(ctx, persons)

	personsByID := make(map[string]*models.Person, len(persons))
	for i := range persons {
		personsByID[persons[i].ID] = &persons[i]
	}

	unitsByKey, err := o.loadUnitDirectory(ctx, tenantID)
	if err != nil {
		metrics.RecordJobRun(tenantID, "failed", time.Since(start).Seconds())
		return nil, errors.Wrap(err, "failed to load unit directory")
	}

	records := csvfile.Parse(file.Content)
	log.WithFields(map[string]any{"total_rows": len(records), "filename": file.Filename}).Info("Starting import run")

	summary := models.ImportSummary{JobID: job.ID, TotalRows: len(records)}

	for _, record := range records {
		outcome, err := o.processRow(ctx, tenantID, job.ID, record, idx, unitsByKey, personsByID)
		if err != nil {
			// Row failures never abort the run
			summary.FailedRows++
			log.WithError(err).WithFields(map[string]any{"row_number": record.Number}).Error("Failed to process row")
			continue
		}

		if outcome.skipped {
			summary.SkippedRows++
			summary.ReviewIssues++
			continue
		}

		summary.ProcessedRows++
		switch outcome.resolution.Method {
		case models.MatchMethodExternalID:
			summary.MatchedExternalID++
		case models.MatchMethodEmail:
			summary.MatchedEmail++
		case models.MatchMethodPhone:
			summary.MatchedPhone++
		case models.MatchMethodNone:
			summary.Unmatched++
		}

		if outcome.resolution.Conflict != nil {
			summary.Conflicts++
			if len(summary.ConflictSamples) < o.cfg.ConflictSampleLimit {
				summary.ConflictSamples = append(summary.ConflictSamples, models.ConflictSample{
					RowNumber:       record.Number,
					UnitNumber:      outcome.row.UnitNumber,
					EmailPersonID:   outcome.resolution.Conflict.EmailPersonID,
					PhonePersonID:   outcome.resolution.Conflict.PhonePersonID,
					NormalizedEmail: outcome.resolution.NormalizedEmail,
					CanonicalPhone:  derefOrEmpty(outcome.resolution.PhoneCanonical),
				})
			}
		}
		if outcome.personCreated {
			summary.PersonsCreated++
		}
		if outcome.roleCreated {
			summary.RolesCreated++
		}
	}

	if err := o.jobs.Complete(ctx, tenantID, job.ID, summary); err != nil {
		metrics.RecordJobRun(tenantID, "failed", time.Since(start).Seconds())
		return nil, err
	}

	metrics.RecordJobRun(tenantID, "completed", time.Since(start).Seconds())

	if o.emitter != nil {
		if err := o.emitter.EmitJobCompleted(ctx, tenantID, &summary); err != nil {
			log.WithError(err).Warn("Failed to emit job completed event")
		}
	}

	log.WithFields(map[string]any{
		"processed_rows": summary.ProcessedRows,
		"skipped_rows":   summary.SkippedRows,
		"failed_rows":    summary.FailedRows,
		"conflicts":      summary.Conflicts,
	}).Info("Import run completed")

	return &summary, nil
}

// rowOutcome is the per-row result aggregated into run statistics
type rowOutcome struct {
	row           HomeownerRow
	skipped       bool
	resolution    matching.Resolution
	personCreated bool
	roleCreated   bool
}

func (o *Orchestrator) processRow(
	ctx context.Context,
	tenantID, jobID string,
	record csvfile.Record,
	idx matching.LookupIndex,
	unitsByKey map[string]*models.Unit,
	personsByID map[string]*models.Person,
) (rowOutcome, error) {
	row := RowFromRecord(record)
	outcome := rowOutcome{row: row}

	unit, ok := unitsByKey[row.UnitKey()]
	if !ok {
		// A recognized business outcome, not a failure: escalate and skip.
		// No audit snapshot is written for unresolved-unit rows.
		if err := o.emitReviewIssue(ctx, tenantID, jobID, row); err != nil {
			return outcome, err
		}
		outcome.skipped = true
		return outcome, nil
	}

	resolution := matching.Match(matching.Identifiers{Email: row.Email, Phone: row.Phone}, idx)
	outcome.resolution = resolution

	metrics.RecordRow(tenantID, string(resolution.Method))
	if resolution.Conflict != nil {
		metrics.RecordConflict(tenantID)
	}

	var person *models.Person
	if resolution.Matched() {
		person = personsByID[*resolution.PersonID]
	} else if row.HasIdentifyingFields() {
		created, err := o.createPerson(ctx, tenantID, row, resolution)
		if err != nil {
			return outcome, err
		}
		// Later rows still match against the snapshot taken at run start,
		// not against persons created here.
		person = created
		personsByID[created.ID] = created
		outcome.personCreated = true
		metrics.PersonsCreatedTotal.WithLabelValues(tenantID).Inc()
	}

	if person != nil {
		created, role, err := o.ensureRole(ctx, tenantID, unit.ID, person.ID)
		if err != nil {
			return outcome, err
		}
		outcome.roleCreated = created
		if created {
			metrics.RolesCreatedTotal.WithLabelValues(tenantID).Inc()
			if o.projector != nil {
				// Best effort; the relational store is the source of truth
				if err := o.projector.ProjectOwnership(ctx, person, unit, role); err != nil {
					o.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"role_id": role.ID}).Warn("Graph projection failed")
				}
			}
		}
	}

	snapshot := models.ImportRowSnapshot{
		JobID:           jobID,
		RowNumber:       row.Number,
		RawRecord:       row.Raw,
		UnitNumber:      row.UnitNumber,
		FirstName:       row.FirstName,
		LastName:        row.LastName,
		Email:           row.Email,
		Phone:           row.Phone,
		NormalizedEmail: resolution.NormalizedEmail,
		PhoneRaw:        resolution.PhoneRaw,
		PhoneCanonical:  resolution.PhoneCanonical,
		MatchMethod:     resolution.Method,
		MatchValue:      resolution.MatchValue,
		StatusDetail:    resolution.StatusDetail,
		NeedsReview:     resolution.NeedsReview(),
	}
	if person != nil {
		snapshot.MatchedPersonID = &person.ID
	}

	if _, err := o.snapshots.Create(ctx, tenantID, snapshot); err != nil {
		return outcome, err
	}

	return outcome, nil
}

func (o *Orchestrator) emitReviewIssue(ctx context.Context, tenantID, jobID string, row HomeownerRow) error {
	issue := models.ReviewIssue{
		JobID:      jobID,
		IssueType:  models.ReviewIssueUnitCreateRequired,
		UnitNumber: row.UnitNumber,
		RawRecord:  row.Raw,
		Reason:     fmt.Sprintf("unit %q has no match in the unit directory", row.UnitNumber),
	}

	created, err := o.issues.Create(ctx, tenantID, issue)
	if err != nil {
		return err
	}

	metrics.RecordReviewIssue(tenantID, string(created.IssueType))

	if o.emitter != nil {
		if err := o.emitter.EmitReviewIssueCreated(ctx, created); err != nil {
			o.logger.WithContext(ctx).WithError(err).Warn("Failed to emit review issue event")
		}
	}

	return nil
}

func (o *Orchestrator) createPerson(ctx context.Context, tenantID string, row HomeownerRow, resolution matching.Resolution) (*models.Person, error) {
	req := models.CreatePersonRequest{
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Source:    o.cfg.Source,
	}
	if resolution.NormalizedEmail != "" {
		req.Emails = []string{resolution.NormalizedEmail}
	}
	if resolution.PhoneCanonical != nil {
		req.Phones = []string{*resolution.PhoneCanonical}
	} else if resolution.PhoneRaw != "" {
		req.Phones = []string{resolution.PhoneRaw}
	}

	return o.persons.Create(ctx, tenantID, req)
}

// ensureRole creates a role for the pair unless one already exists. The
// existence check, not a database constraint, is what keeps re-runs
// idempotent.
func (o *Orchestrator) ensureRole(ctx context.Context, tenantID, unitID, personID string) (bool, *models.UnitRole, error) {
	exists, err := o.roles.Exists(ctx, tenantID, unitID, personID)
	if err != nil {
		return false, nil, err
	}
	if exists {
		return false, nil, nil
	}

	role, err := o.roles.Create(ctx, tenantID, models.CreateUnitRoleRequest{
		UnitID:    unitID,
		PersonID:  personID,
		Role:      models.RoleOwner,
		IsPrimary: true,
		Source:    o.cfg.Source,
	})
	if err != nil {
		return false, nil, err
	}

	return true, role, nil
}

// loadPersonSnapshot pages through the tenant's registry once. Only active
// persons feed the lookup index; inactive ones must never win a match even
// when the store returns them.
func (o *Orchestrator) loadPersonSnapshot(ctx context.Context, tenantID string) ([]models.Person, error) {
	var all []models.Person
	offset := 0
	for {
		page, err := o.persons.ListPage(ctx, tenantID, o.cfg.PersonPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, person := range page {
			if person.Status == models.PersonStatusActive {
				all = append(all, person)
			}
		}
		if len(page) < o.cfg.PersonPageSize {
			return all, nil
		}
		offset += o.cfg.PersonPageSize
	}
}

func (o *Orchestrator) loadUnitDirectory(ctx context.Context, tenantID string) (map[string]*models.Unit, error) {
	byKey := make(map[string]*models.Unit)
	offset := 0
	for {
		page, err := o.units.ListPage(ctx, tenantID, o.cfg.PersonPageSize, offset)
		if err != nil {
			return nil, err
		}
		for i := range page {
			unit := &page[i]
			key := UnitKey(unit.UnitNumber)
			if _, taken := byKey[key]; !taken {
				byKey[key] = unit
			}
		}
		if len(page) < o.cfg.PersonPageSize {
			return byKey, nil
		}
		offset += o.cfg.PersonPageSize
	}
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
