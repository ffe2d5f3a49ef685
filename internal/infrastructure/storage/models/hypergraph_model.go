package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/uptrace/bun"
)

// INodeModel is the bun persistence model for agora_i_nodes.
type INodeModel struct {
	bun.BaseModel `bun:"table:agora_i_nodes,alias:inode"`

	ID                   uuid.UUID        `bun:"id,pk,type:uuid,default:uuid_generate_v4()"`
	RunID                uuid.UUID        `bun:"run_id,notnull,type:uuid"`
	SourceType           string           `bun:"source_type,notnull"`
	SourceID             uuid.UUID        `bun:"source_id,notnull,type:uuid"`
	Content              string           `bun:"content,notnull"`
	RewrittenContent     *string          `bun:"rewritten_content"`
	EpistemicType        string           `bun:"epistemic_type,notnull"`
	SpanStart            int              `bun:"span_start,notnull"`
	SpanEnd              int              `bun:"span_end,notnull"`
	FVPConfidence        float64          `bun:"fvp_confidence,notnull"`
	ExtractionConfidence float64          `bun:"extraction_confidence,notnull"`
	Embedding            *pgvector.Vector `bun:"embedding,type:vector(1536)"`
	FactSubtype          *string          `bun:"fact_subtype"`
	BaseWeight           float64          `bun:"base_weight,notnull,default:1"`
	EvidenceRank         float64          `bun:"evidence_rank,notnull,default:0"`
	IsDefeated           bool             `bun:"is_defeated,notnull,default:false"`
	ComponentID          *uuid.UUID       `bun:"component_id,type:uuid"`
	NodeRole             string           `bun:"node_role,notnull,default:'ROOT'"`
	SourceRefID          *uuid.UUID       `bun:"source_ref_id,type:uuid"`
	CreatedAt            time.Time        `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt            time.Time        `bun:"updated_at,notnull,default:current_timestamp"`
}

// SNodeModel is the bun persistence model for agora_s_nodes.
type SNodeModel struct {
	bun.BaseModel `bun:"table:agora_s_nodes,alias:snode"`

	ID                 uuid.UUID  `bun:"id,pk,type:uuid,default:uuid_generate_v4()"`
	RunID              uuid.UUID  `bun:"run_id,notnull,type:uuid"`
	Direction          string     `bun:"direction,notnull"`
	LogicType          string     `bun:"logic_type"`
	Confidence         float64    `bun:"confidence,notnull"`
	GapDetected        bool       `bun:"gap_detected,notnull,default:false"`
	FallacyType        *string    `bun:"fallacy_type"`
	FallacyExplanation *string    `bun:"fallacy_explanation"`
	EscrowStatus       string     `bun:"escrow_status,notnull,default:'none'"`
	EscrowExpiresAt    *time.Time `bun:"escrow_expires_at"`
	PendingBounty      *float64   `bun:"pending_bounty"`
	IsBridge           bool       `bun:"is_bridge,notnull,default:false"`
	ComponentAID       *uuid.UUID `bun:"component_a_id,type:uuid"`
	ComponentBID       *uuid.UUID `bun:"component_b_id,type:uuid"`
	CreatedAt          time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt          time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}

// EdgeModel is the bun persistence model for agora_edges.
type EdgeModel struct {
	bun.BaseModel `bun:"table:agora_edges,alias:e"`

	ID        uuid.UUID  `bun:"id,pk,type:uuid,default:uuid_generate_v4()"`
	RunID     uuid.UUID  `bun:"run_id,notnull,type:uuid"`
	SchemeID  uuid.UUID  `bun:"scheme_id,notnull,type:uuid"`
	Role      string     `bun:"role,notnull"`
	INodeID   *uuid.UUID `bun:"i_node_id,type:uuid"`
	SourceID  *uuid.UUID `bun:"source_id,type:uuid"`
	CreatedAt time.Time  `bun:"created_at,notnull,default:current_timestamp"`
}

// EnthymemeModel is the bun persistence model for agora_enthymemes.
type EnthymemeModel struct {
	bun.BaseModel `bun:"table:agora_enthymemes,alias:en"`

	ID                uuid.UUID  `bun:"id,pk,type:uuid,default:uuid_generate_v4()"`
	RunID             uuid.UUID  `bun:"run_id,notnull,type:uuid"`
	SchemeID          uuid.UUID  `bun:"scheme_id,notnull,type:uuid"`
	Content           string     `bun:"content,notnull"`
	FVPType           string     `bun:"fvp_type,notnull"`
	Probability       float64    `bun:"probability,notnull"`
	Status            string     `bun:"status,notnull,default:'pending'"`
	BackfilledReplyID *uuid.UUID `bun:"backfilled_reply_id,type:uuid"`
	CreatedAt         time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt         time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}

// SocraticQuestionModel is the bun persistence model for agora_socratic_questions.
type SocraticQuestionModel struct {
	bun.BaseModel `bun:"table:agora_socratic_questions,alias:sq"`

	ID                uuid.UUID  `bun:"id,pk,type:uuid,default:uuid_generate_v4()"`
	RunID             uuid.UUID  `bun:"run_id,notnull,type:uuid"`
	SchemeID          uuid.UUID  `bun:"scheme_id,notnull,type:uuid"`
	Question          string     `bun:"question,notnull"`
	Uncertainty       float64    `bun:"uncertainty,notnull"`
	ResolutionReplyID *uuid.UUID `bun:"resolution_reply_id,type:uuid"`
	CreatedAt         time.Time  `bun:"created_at,notnull,default:current_timestamp"`
}

// ExtractedValueModel is the bun persistence model for agora_extracted_values.
type ExtractedValueModel struct {
	bun.BaseModel `bun:"table:agora_extracted_values,alias:ev"`

	ID        uuid.UUID `bun:"id,pk,type:uuid,default:uuid_generate_v4()"`
	RunID     uuid.UUID `bun:"run_id,notnull,type:uuid"`
	INodeID   uuid.UUID `bun:"i_node_id,notnull,type:uuid"`
	Label     string    `bun:"label,notnull"`
	Value     string    `bun:"value,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// ConceptNodeModel is the bun persistence model for agora_concept_nodes.
type ConceptNodeModel struct {
	bun.BaseModel `bun:"table:agora_concept_nodes,alias:cn"`

	ID         uuid.UUID        `bun:"id,pk,type:uuid,default:uuid_generate_v4()"`
	Term       string           `bun:"term,notnull"`
	Definition *string          `bun:"definition"`
	Embedding  *pgvector.Vector `bun:"embedding,type:vector(1536)"`
	CreatedAt  time.Time        `bun:"created_at,notnull,default:current_timestamp"`
}

// INodeConceptModel is the bun persistence model for the agora_i_node_concepts join table.
type INodeConceptModel struct {
	bun.BaseModel `bun:"table:agora_i_node_concepts,alias:inc"`

	INodeID   uuid.UUID `bun:"i_node_id,pk,type:uuid"`
	ConceptID uuid.UUID `bun:"concept_id,pk,type:uuid"`
}

// EquivocationFlagModel is the bun persistence model for agora_equivocation_flags.
type EquivocationFlagModel struct {
	bun.BaseModel `bun:"table:agora_equivocation_flags,alias:eq"`

	ID                  uuid.UUID `bun:"id,pk,type:uuid,default:uuid_generate_v4()"`
	RunID               uuid.UUID `bun:"run_id,notnull,type:uuid"`
	SchemeID            uuid.UUID `bun:"scheme_id,notnull,type:uuid"`
	Term                string    `bun:"term,notnull"`
	PremiseConceptID    uuid.UUID `bun:"premise_concept_id,notnull,type:uuid"`
	ConclusionConceptID uuid.UUID `bun:"conclusion_concept_id,notnull,type:uuid"`
	CreatedAt           time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// SourceModel is the bun persistence model for agora_sources.
type SourceModel struct {
	bun.BaseModel `bun:"table:agora_sources,alias:src"`

	ID         uuid.UUID        `bun:"id,pk,type:uuid,default:uuid_generate_v4()"`
	Level      string           `bun:"level,notnull"`
	ParentID   *uuid.UUID       `bun:"parent_id,type:uuid"`
	URL        *string          `bun:"url"`
	Reputation float64          `bun:"reputation,notnull,default:0.5"`
	Embedding  *pgvector.Vector `bun:"embedding,type:vector(1536)"`
	CreatedAt  time.Time        `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt  time.Time        `bun:"updated_at,notnull,default:current_timestamp"`
}
