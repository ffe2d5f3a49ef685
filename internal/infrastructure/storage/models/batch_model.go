package models

import (
	"time"

	"github.com/uptrace/bun"
)

// BatchPipelineRunModel is the bun persistence model for agora_batch_pipeline_runs.
type BatchPipelineRunModel struct {
	bun.BaseModel `bun:"table:agora_batch_pipeline_runs,alias:bpr"`

	ID           string    `bun:"id,pk"`
	Status       string    `bun:"status,notnull,default:'running'"`
	SourceType   string    `bun:"source_type,notnull"`
	TextCount    int       `bun:"text_count,notnull,default:0"`
	SeedGCSPath  *string   `bun:"seed_gcs_path"`
	ErrorMessage *string   `bun:"error_message"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// BatchCheckpointModel is the bun persistence model for agora_batch_checkpoints.
type BatchCheckpointModel struct {
	bun.BaseModel `bun:"table:agora_batch_checkpoints,alias:bc"`

	ID            string    `bun:"id,pk,type:uuid,default:uuid_generate_v4()"`
	RunID         string    `bun:"run_id,notnull"`
	Stage         string    `bun:"stage,notnull"`
	GeminiJobName *string   `bun:"gemini_job_name"`
	RequestCount  int       `bun:"request_count,notnull,default:0"`
	GCSPath       *string   `bun:"gcs_path"`
	Completed     bool      `bun:"completed,notnull,default:false"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
