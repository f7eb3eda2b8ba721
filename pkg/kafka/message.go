package kafka

import (
	"encoding/json"
	"fmt"
	"time"
)

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Parsed content
	ImportRequest *ImportRequestMessage
}

// ImportRequestMessage asks the service to run a registered import job.
// Producers are internal schedulers and back office tooling.
type ImportRequestMessage struct {
	JobID    string `json:"job_id"`
	TenantID string `json:"tenant_id"`
}

// ParseImportRequest parses the message value as an import request
func (m *IncomingMessage) ParseImportRequest() error {
	var req ImportRequestMessage
	if err := json.Unmarshal(m.Value, &req); err != nil {
		return err
	}
	if req.JobID == "" {
		return fmt.Errorf("import request missing job_id")
	}
	if req.TenantID == "" {
		// Older producers only set the header
		req.TenantID = m.Headers["tenant_id"]
	}
	if req.TenantID == "" {
		return fmt.Errorf("import request missing tenant_id")
	}
	m.ImportRequest = &req
	return nil
}

// GetTenantID returns the tenant ID from the parsed request or headers
func (m *IncomingMessage) GetTenantID() string {
	if m.ImportRequest != nil {
		return m.ImportRequest.TenantID
	}
	return m.Headers["tenant_id"]
}
