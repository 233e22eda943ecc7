package queue

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Source kinds accepted by the import pipeline.
const (
	SourceFile = "file"
	SourceURL  = "url"
	SourceS3   = "s3"
)

// ImportJobMsg asks the worker to fetch a dataset artifact from the given
// source and persist it under Dataset.
type ImportJobMsg struct {
	JobID         string `json:"job_id"`
	CorrelationID string `json:"correlation_id"`
	Dataset       string `json:"dataset"`
	SourceKind    string `json:"source_kind"`
	Address       string `json:"address"`
}

func (m *ImportJobMsg) Validate() error {
	if m.Dataset == "" {
		return fmt.Errorf("import job %s: missing dataset name", m.JobID)
	}
	if m.Address == "" {
		return fmt.Errorf("import job %s: missing source address", m.JobID)
	}
	switch m.SourceKind {
	case SourceFile, SourceURL:
	case SourceS3:
		if !strings.Contains(m.Address, "/") {
			return fmt.Errorf("import job %s: s3 address must be bucket/key", m.JobID)
		}
	default:
		return fmt.Errorf("import job %s: unknown source kind %q", m.JobID, m.SourceKind)
	}
	return nil
}

func (m *ImportJobMsg) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func UnmarshalImportJob(data []byte) (*ImportJobMsg, error) {
	msg := new(ImportJobMsg)
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("decode import job: %w", err)
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return msg, nil
}
