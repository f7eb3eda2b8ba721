package importer

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/aster/pkg/models"
)

const testTenant = "tenant-1"

// fakeRegistry implements every store interface the orchestrator consumes
type fakeRegistry struct {
	persons   []models.Person
	units     []models.Unit
	roles     []models.UnitRole
	jobs      map[string]*models.ImportJob
	files     map[string]*models.ImportFile
	snapshots []models.ImportRowSnapshot
	issues    []models.ReviewIssue

	completed *models.ImportSummary

	failSnapshotOnRow int
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		jobs:  make(map[string]*models.ImportJob),
		files: make(map[string]*models.ImportFile),
	}
}

func (f *fakeRegistry) addJob(fileContent string) *models.ImportJob {
	file := &models.ImportFile{ID: uuid.New().String(), TenantID: testTenant, Filename: "owners.csv", Content: fileContent}
	f.files[file.ID] = file
	job := &models.ImportJob{ID: uuid.New().String(), TenantID: testTenant, FileID: file.ID, Status: models.ImportJobStatusPending}
	f.jobs[job.ID] = job
	return job
}

func (f *fakeRegistry) ListPage(ctx context.Context, tenantID string, limit, offset int) ([]models.Person, error) {
	if offset >= len(f.persons) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.persons) {
		end = len(f.persons)
	}
	return f.persons[offset:end], nil
}

func (f *fakeRegistry) Create(ctx context.Context, tenantID string, req models.CreatePersonRequest) (*models.Person, error) {
	person := models.Person{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Emails:    req.Emails,
		Phones:    req.Phones,
		Status:    models.PersonStatusActive,
		Source:    req.Source,
	}
	f.persons = append(f.persons, person)
	return &person, nil
}

type fakeUnits struct{ reg *fakeRegistry }

func (f fakeUnits) ListPage(ctx context.Context, tenantID string, limit, offset int) ([]models.Unit, error) {
	if offset >= len(f.reg.units) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.reg.units) {
		end = len(f.reg.units)
	}
	return f.reg.units[offset:end], nil
}

type fakeRoles struct{ reg *fakeRegistry }

func (f fakeRoles) Exists(ctx context.Context, tenantID, unitID, personID string) (bool, error) {
	for _, role := range f.reg.roles {
		if role.UnitID == unitID && role.PersonID == personID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeRoles) Create(ctx context.Context, tenantID string, req models.CreateUnitRoleRequest) (*models.UnitRole, error) {
	role := models.UnitRole{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		UnitID:    req.UnitID,
		PersonID:  req.PersonID,
		Role:      req.Role,
		Status:    models.UnitRoleStatusCurrent,
		IsPrimary: req.IsPrimary,
		Source:    req.Source,
	}
	f.reg.roles = append(f.reg.roles, role)
	return &role, nil
}

type fakeJobs struct{ reg *fakeRegistry }

func (f fakeJobs) Get(ctx context.Context, tenantID, id string) (*models.ImportJob, error) {
	job, ok := f.reg.jobs[id]
	if !ok {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "import job %s not found", id)
	}
	return job, nil
}

func (f fakeJobs) MarkRunning(ctx context.Context, tenantID, id string) error {
	job, ok := f.reg.jobs[id]
	if !ok {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "import job %s not found", id)
	}
	job.Status = models.ImportJobStatusRunning
	return nil
}

func (f fakeJobs) ClearRunArtifacts(ctx context.Context, tenantID, jobID string) error {
	kept := f.reg.snapshots[:0]
	for _, s := range f.reg.snapshots {
		if s.JobID != jobID {
			kept = append(kept, s)
		}
	}
	f.reg.snapshots = kept

	issues := f.reg.issues[:0]
	for _, i := range f.reg.issues {
		if i.JobID != jobID {
			issues = append(issues, i)
		}
	}
	f.reg.issues = issues
	return nil
}

func (f fakeJobs) Complete(ctx context.Context, tenantID, id string, summary models.ImportSummary) error {
	job, ok := f.reg.jobs[id]
	if !ok {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "import job %s not found", id)
	}
	job.Status = models.ImportJobStatusCompleted
	f.reg.completed = &summary
	return nil
}

type fakeFiles struct{ reg *fakeRegistry }

func (f fakeFiles) Get(ctx context.Context, tenantID, id string) (*models.ImportFile, error) {
	file, ok := f.reg.files[id]
	if !ok {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "import file %s not found", id)
	}
	return file, nil
}

type fakeSnapshots struct{ reg *fakeRegistry }

func (f fakeSnapshots) Create(ctx context.Context, tenantID string, snapshot models.ImportRowSnapshot) (*models.ImportRowSnapshot, error) {
	if f.reg.failSnapshotOnRow != 0 && snapshot.RowNumber == f.reg.failSnapshotOnRow {
		return nil, fmt.Errorf("snapshot store unavailable")
	}
	snapshot.ID = uuid.New().String()
	snapshot.TenantID = tenantID
	f.reg.snapshots = append(f.reg.snapshots, snapshot)
	return &snapshot, nil
}

type fakeIssues struct{ reg *fakeRegistry }

func (f fakeIssues) Create(ctx context.Context, tenantID string, issue models.ReviewIssue) (*models.ReviewIssue, error) {
	issue.ID = uuid.New().String()
	issue.TenantID = tenantID
	f.reg.issues = append(f.reg.issues, issue)
	return &issue, nil
}

func newTestOrchestrator(reg *fakeRegistry) *Orchestrator {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewOrchestrator(
		logger,
		reg,
		fakeUnits{reg},
		fakeRoles{reg},
		fakeJobs{reg},
		fakeFiles{reg},
		fakeSnapshots{reg},
		fakeIssues{reg},
		nil,
		nil,
		Config{Source: "appfolio", ConflictSampleLimit: 10, PersonPageSize: 2},
	)
}

func TestRunConflictRowKeepsEmailMatch(t *testing.T) {
	reg := newFakeRegistry()
	reg.persons = []models.Person{
		{ID: "P1", TenantID: testTenant, Status: models.PersonStatusActive, Emails: []string{"jane@x.com"}},
		{ID: "P2", TenantID: testTenant, Status: models.PersonStatusActive, Phones: []string{"5551234567"}},
	}
	reg.units = []models.Unit{{ID: "U1", TenantID: testTenant, UnitNumber: "A1"}}
	job := reg.addJob("unit,email,phone\nA1,jane@x.com,555-123-4567\n")

	summary, err := newTestOrchestrator(reg).Run(context.Background(), testTenant, job.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalRows)
	assert.Equal(t, 1, summary.ProcessedRows)
	assert.Equal(t, 1, summary.MatchedEmail)
	assert.Equal(t, 1, summary.Conflicts)
	require.Len(t, summary.ConflictSamples, 1)
	assert.Equal(t, "P1", summary.ConflictSamples[0].EmailPersonID)
	assert.Equal(t, "P2", summary.ConflictSamples[0].PhonePersonID)

	require.Len(t, reg.snapshots, 1)
	snapshot := reg.snapshots[0]
	assert.Equal(t, "P1", *snapshot.MatchedPersonID)
	assert.Equal(t, models.MatchMethodEmail, snapshot.MatchMethod)
	assert.True(t, snapshot.NeedsReview)
	assert.Contains(t, snapshot.StatusDetail, "P2")

	require.Len(t, reg.roles, 1)
	assert.Equal(t, "P1", reg.roles[0].PersonID)
	assert.Equal(t, models.ImportJobStatusCompleted, job.Status)
}

func TestRunCreatesPersonWhenUnmatched(t *testing.T) {
	reg := newFakeRegistry()
	reg.units = []models.Unit{{ID: "U1", TenantID: testTenant, UnitNumber: "A1"}}
	job := reg.addJob("unit,first_name,last_name\nA1,Jane,Doe\n")

	summary, err := newTestOrchestrator(reg).Run(context.Background(), testTenant, job.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Unmatched)
	assert.Equal(t, 1, summary.PersonsCreated)
	assert.Equal(t, 1, summary.RolesCreated)

	require.Len(t, reg.persons, 1)
	assert.Equal(t, "Jane", reg.persons[0].FirstName)
	assert.Equal(t, "appfolio", reg.persons[0].Source)

	require.Len(t, reg.snapshots, 1)
	assert.Equal(t, models.MatchMethodNone, reg.snapshots[0].MatchMethod)
	assert.True(t, reg.snapshots[0].NeedsReview)
	assert.Equal(t, reg.persons[0].ID, *reg.snapshots[0].MatchedPersonID)
}

func TestRunStoresNormalizedContactOnCreatedPerson(t *testing.T) {
	reg := newFakeRegistry()
	reg.units = []models.Unit{{ID: "U1", TenantID: testTenant, UnitNumber: "A1"}}
	job := reg.addJob("unit,email,phone\nA1, Bob@X.com ,(555) 123-4567\n")

	_, err := newTestOrchestrator(reg).Run(context.Background(), testTenant, job.ID)

	require.NoError(t, err)
	require.Len(t, reg.persons, 1)
	assert.Equal(t, []string{"bob@x.com"}, []string(reg.persons[0].Emails))
	assert.Equal(t, []string{"+15551234567"}, []string(reg.persons[0].Phones))
}

func TestRunSkipsEmptyRowWithoutCreating(t *testing.T) {
	reg := newFakeRegistry()
	reg.units = []models.Unit{{ID: "U1", TenantID: testTenant, UnitNumber: "A1"}}
	job := reg.addJob("unit,email,phone,first_name,last_name\nA1,,,,\n")

	summary, err := newTestOrchestrator(reg).Run(context.Background(), testTenant, job.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Unmatched)
	assert.Equal(t, 0, summary.PersonsCreated)
	assert.Equal(t, 0, summary.RolesCreated)
	assert.Empty(t, reg.persons)
	require.Len(t, reg.snapshots, 1)
	assert.Nil(t, reg.snapshots[0].MatchedPersonID)
}

func TestRunUnresolvableUnitEmitsReviewIssue(t *testing.T) {
	reg := newFakeRegistry()
	reg.units = []models.Unit{{ID: "U1", TenantID: testTenant, UnitNumber: "A1"}}
	job := reg.addJob("unit,email\nZ9,jane@x.com\n")

	summary, err := newTestOrchestrator(reg).Run(context.Background(), testTenant, job.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.SkippedRows)
	assert.Equal(t, 0, summary.ProcessedRows)
	assert.Equal(t, 1, summary.ReviewIssues)

	require.Len(t, reg.issues, 1)
	assert.Equal(t, models.ReviewIssueUnitCreateRequired, reg.issues[0].IssueType)
	assert.Equal(t, "Z9", reg.issues[0].UnitNumber)
	assert.Empty(t, reg.snapshots)
}

func TestRunInactivePersonIsNotMatched(t *testing.T) {
	reg := newFakeRegistry()
	reg.persons = []models.Person{
		{ID: "P-gone", TenantID: testTenant, Status: models.PersonStatusInactive, Emails: []string{"jane@x.com"}},
	}
	reg.units = []models.Unit{{ID: "U1", TenantID: testTenant, UnitNumber: "A1"}}
	job := reg.addJob("unit,email\nA1,jane@x.com\n")

	summary, err := newTestOrchestrator(reg).Run(context.Background(), testTenant, job.ID)

	require.NoError(t, err)
	assert.Equal(t, 0, summary.MatchedEmail)
	assert.Equal(t, 1, summary.Unmatched)
	assert.Equal(t, 1, summary.PersonsCreated)

	require.Len(t, reg.snapshots, 1)
	require.NotNil(t, reg.snapshots[0].MatchedPersonID)
	assert.NotEqual(t, "P-gone", *reg.snapshots[0].MatchedPersonID)
}

func TestRunUnitMatchIsCaseInsensitive(t *testing.T) {
	reg := newFakeRegistry()
	reg.units = []models.Unit{{ID: "U1", TenantID: testTenant, UnitNumber: "A1"}}
	job := reg.addJob("unit,first_name\n a1 ,Jane\n")

	summary, err := newTestOrchestrator(reg).Run(context.Background(), testTenant, job.ID)

	require.NoError(t, err)
	assert.Equal(t, 0, summary.SkippedRows)
	assert.Equal(t, 1, summary.ProcessedRows)
	assert.Empty(t, reg.issues)
}

func TestRunRoleCreationIsIdempotent(t *testing.T) {
	reg := newFakeRegistry()
	reg.persons = []models.Person{{ID: "P1", TenantID: testTenant, Status: models.PersonStatusActive, Emails: []string{"jane@x.com"}}}
	reg.units = []models.Unit{{ID: "U1", TenantID: testTenant, UnitNumber: "A1"}}
	reg.roles = []models.UnitRole{{ID: "R1", TenantID: testTenant, UnitID: "U1", PersonID: "P1"}}
	job := reg.addJob("unit,email\nA1,jane@x.com\n")

	summary, err := newTestOrchestrator(reg).Run(context.Background(), testTenant, job.ID)

	require.NoError(t, err)
	assert.Equal(t, 0, summary.RolesCreated)
	assert.Len(t, reg.roles, 1)
}

func TestRunClearsArtifactsFromPreviousAttempt(t *testing.T) {
	reg := newFakeRegistry()
	reg.persons = []models.Person{{ID: "P1", TenantID: testTenant, Status: models.PersonStatusActive, Emails: []string{"jane@x.com"}}}
	reg.units = []models.Unit{{ID: "U1", TenantID: testTenant, UnitNumber: "A1"}}
	job := reg.addJob("unit,email\nA1,jane@x.com\n")

	// Leftovers from a run that died before completing
	reg.snapshots = []models.ImportRowSnapshot{{ID: "stale", JobID: job.ID, RowNumber: 1}}
	reg.issues = []models.ReviewIssue{{ID: "stale", JobID: job.ID}}

	summary, err := newTestOrchestrator(reg).Run(context.Background(), testTenant, job.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.ProcessedRows)
	require.Len(t, reg.snapshots, 1)
	assert.NotEqual(t, "stale", reg.snapshots[0].ID)
	assert.Empty(t, reg.issues)
}

func TestRunEmptyFileCompletesImmediately(t *testing.T) {
	reg := newFakeRegistry()
	job := reg.addJob("")

	summary, err := newTestOrchestrator(reg).Run(context.Background(), testTenant, job.ID)

	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalRows)
	assert.Equal(t, 0, summary.ProcessedRows)
	assert.Empty(t, reg.persons)
	assert.Empty(t, reg.roles)
	assert.Empty(t, reg.snapshots)
	assert.Equal(t, models.ImportJobStatusCompleted, job.Status)
}

func TestRunRowFailureDoesNotAbortRun(t *testing.T) {
	reg := newFakeRegistry()
	reg.units = []models.Unit{{ID: "U1", TenantID: testTenant, UnitNumber: "A1"}}
	reg.failSnapshotOnRow = 1
	job := reg.addJob("unit,first_name\nA1,Jane\nA1,Bob\n")

	summary, err := newTestOrchestrator(reg).Run(context.Background(), testTenant, job.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.FailedRows)
	assert.Equal(t, 1, summary.ProcessedRows)
	assert.Len(t, reg.snapshots, 1)
	assert.Equal(t, models.ImportJobStatusCompleted, job.Status)
}

func TestRunSnapshotIndexIgnoresMidRunCreations(t *testing.T) {
	reg := newFakeRegistry()
	reg.units = []models.Unit{{ID: "U1", TenantID: testTenant, UnitNumber: "A1"}, {ID: "U2", TenantID: testTenant, UnitNumber: "A2"}}
	job := reg.addJob("unit,email\nA1,jane@x.com\nA2,jane@x.com\n")

	summary, err := newTestOrchestrator(reg).Run(context.Background(), testTenant, job.ID)

	require.NoError(t, err)
	// Both rows miss the index; the second row cannot see the person the
	// first row created, so a duplicate is created.
	assert.Equal(t, 2, summary.Unmatched)
	assert.Equal(t, 2, summary.PersonsCreated)
	assert.Len(t, reg.persons, 2)
}

func TestRunJobNotFound(t *testing.T) {
	reg := newFakeRegistry()

	_, err := newTestOrchestrator(reg).Run(context.Background(), testTenant, "missing-job")

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err))
}

func TestRunTopLevelFailureLeavesJobRunning(t *testing.T) {
	reg := newFakeRegistry()
	job := reg.addJob("unit\nA1\n")

	// Break the unit directory load; it happens after the running transition
	orch := NewOrchestrator(
		ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}),
		reg,
		failingUnits{},
		fakeRoles{reg},
		fakeJobs{reg},
		fakeFiles{reg},
		fakeSnapshots{reg},
		fakeIssues{reg},
		nil,
		nil,
		Config{},
	)

	_, err := orch.Run(context.Background(), testTenant, job.ID)

	require.Error(t, err)
	assert.Equal(t, models.ImportJobStatusRunning, job.Status)
	assert.Nil(t, reg.completed)
}

type failingUnits struct{}

func (failingUnits) ListPage(ctx context.Context, tenantID string, limit, offset int) ([]models.Unit, error) {
	return nil, fmt.Errorf("unit directory unavailable")
}

func TestRowFromRecordAliases(t *testing.T) {
	reg := newFakeRegistry()
	reg.units = []models.Unit{{ID: "U1", TenantID: testTenant, UnitNumber: "12 Main St"}}
	job := reg.addJob("property_address,homeowner_email,homeowner_phone,homeowner_first_name,homeowner_last_name\n12 Main St,jane@x.com,5551234567,Jane,Doe\n")

	summary, err := newTestOrchestrator(reg).Run(context.Background(), testTenant, job.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.ProcessedRows)
	require.Len(t, reg.snapshots, 1)
	assert.Equal(t, "12 Main St", reg.snapshots[0].UnitNumber)
	assert.Equal(t, "jane@x.com", reg.snapshots[0].Email)
	assert.Equal(t, "Jane", reg.snapshots[0].FirstName)
}

func TestRowHasIdentifyingFields(t *testing.T) {
	assert.False(t, HomeownerRow{UnitNumber: "A1"}.HasIdentifyingFields())
	assert.True(t, HomeownerRow{UnitNumber: "A1", LastName: "Doe"}.HasIdentifyingFields())
	assert.True(t, HomeownerRow{UnitNumber: "A1", Phone: "123"}.HasIdentifyingFields())
}
