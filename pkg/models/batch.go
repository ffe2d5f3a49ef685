package models

import "time"

// BatchRunStatus tracks the overall lifecycle of a batch pipeline run.
type BatchRunStatus string

const (
	BatchRunStatusRunning   BatchRunStatus = "running"
	BatchRunStatusCompleted BatchRunStatus = "completed"
	BatchRunStatusFailed    BatchRunStatus = "failed"
)

// BatchPipelineRun is one invocation of the batch re-analysis pipeline over a
// backlog of existing content.
type BatchPipelineRun struct {
	ID           string         `json:"id"`
	Status       BatchRunStatus `json:"status"`
	SourceType   string         `json:"source_type"`
	TextCount    int            `json:"text_count"`
	SeedGCSPath  *string        `json:"-"`
	ErrorMessage *string        `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// BatchStage names one checkpointed stage of the batch pipeline.
type BatchStage string

const (
	BatchStageEmbed    BatchStage = "embed"
	BatchStageAnalyze  BatchStage = "analyze"
	BatchStageIngest   BatchStage = "ingest"
)

// BatchCheckpoint records resumable progress for a single stage of a batch run: if the
// process crashes after submission but before completion, a resume re-polls the stored
// job rather than resubmitting it.
type BatchCheckpoint struct {
	ID            string     `json:"id"`
	RunID         string     `json:"run_id"`
	Stage         BatchStage `json:"stage"`
	GeminiJobName *string    `json:"gemini_job_name,omitempty"`
	RequestCount  int        `json:"request_count"`
	GCSPath       *string    `json:"gcs_path,omitempty"`
	Completed     bool       `json:"completed"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
