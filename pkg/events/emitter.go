// Package events handles event emission for import job lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/aster/pkg/kafka"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Publisher is the producer surface the emitter needs
type Publisher interface {
	PublishImportEvent(ctx context.Context, event *kafka.ImportEvent) error
}

// Emitter handles event emission for the import pipeline
type Emitter struct {
	producer Publisher
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer Publisher, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitJobStarted emits a job started event
func (e *Emitter) EmitJobStarted(ctx context.Context, tenantID, jobID string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitJobStarted")
	defer span.End()

	event := &kafka.ImportEvent{
		EventType: "job.started",
		TenantID:  tenantID,
		JobID:     jobID,
	}

	if err := e.producer.PublishImportEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit job.started event")
		return err
	}

	return nil
}

// EmitJobCompleted emits a job completed event carrying the run summary
func (e *Emitter) EmitJobCompleted(ctx context.Context, tenantID string, summary *models.ImportSummary) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitJobCompleted")
	defer span.End()

	data := map[string]any{
		"schema_version": SchemaVersion,
		"summary":        summary,
	}
	dataJSON, _ := json.Marshal(data)

	event := &kafka.ImportEvent{
		EventType: "job.completed",
		TenantID:  tenantID,
		JobID:     summary.JobID,
		Data:      dataJSON,
	}

	if err := e.producer.PublishImportEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit job.completed event")
		return err
	}

	return nil
}

// EmitReviewIssueCreated emits an event when a row is escalated for review
func (e *Emitter) EmitReviewIssueCreated(ctx context.Context, issue *models.ReviewIssue) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitReviewIssueCreated")
	defer span.End()

	data := map[string]any{
		"schema_version": SchemaVersion,
		"issue_id":       issue.ID,
		"issue_type":     issue.IssueType,
		"unit_number":    issue.UnitNumber,
		"reason":         issue.Reason,
	}
	dataJSON, _ := json.Marshal(data)

	event := &kafka.ImportEvent{
		EventType: "review_issue.created",
		TenantID:  issue.TenantID,
		JobID:     issue.JobID,
		Data:      dataJSON,
	}

	if err := e.producer.PublishImportEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit review_issue.created event")
		return err
	}

	return nil
}
