package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AnalysisRunModel is the bun persistence model for agora_analysis_runs.
type AnalysisRunModel struct {
	bun.BaseModel `bun:"table:agora_analysis_runs,alias:ar"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,default:uuid_generate_v4()"`
	SourceType   string    `bun:"source_type,notnull"`
	SourceID     uuid.UUID `bun:"source_id,notnull,type:uuid"`
	ContentHash  string    `bun:"content_hash,notnull"`
	Status       string    `bun:"status,notnull,default:'pending'"`
	ErrorMessage *string   `bun:"error_message"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
