package models

import "time"

// AnalysisRunStatus tracks the lifecycle of a single content-addressed analysis run.
type AnalysisRunStatus string

const (
	AnalysisStatusPending    AnalysisRunStatus = "pending"
	AnalysisStatusProcessing AnalysisRunStatus = "processing"
	AnalysisStatusCompleted  AnalysisRunStatus = "completed"
	AnalysisStatusFailed     AnalysisRunStatus = "failed"
)

// AnalysisSourceType names what kind of content an analysis run was triggered on.
type AnalysisSourceType string

const (
	AnalysisSourcePost  AnalysisSourceType = "post"
	AnalysisSourceReply AnalysisSourceType = "reply"
)

// IsTerminal reports whether the status will no longer transition.
func (s AnalysisRunStatus) IsTerminal() bool {
	return s == AnalysisStatusCompleted || s == AnalysisStatusFailed
}

// AnalysisRun is keyed by (source_type, source_id, content_hash) so that re-submitting
// identical content is idempotent; only one non-terminal run may exist per key at a time.
type AnalysisRun struct {
	ID           string             `json:"id"`
	SourceType   AnalysisSourceType `json:"source_type"`
	SourceID     string             `json:"source_id"`
	ContentHash  string             `json:"content_hash"`
	Status       AnalysisRunStatus  `json:"status"`
	ErrorMessage *string            `json:"error_message,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// EpistemicType classifies an interpretive node along the fact/value/policy axis.
type EpistemicType string

const (
	EpistemicFact   EpistemicType = "FACT"
	EpistemicValue  EpistemicType = "VALUE"
	EpistemicPolicy EpistemicType = "POLICY"
)

// FactSubtype further classifies FACT-typed nodes by evidentiary grounding.
type FactSubtype string

const (
	FactSubtypeEnthymeme   FactSubtype = "ENTHYMEME"
	FactSubtypeAnecdote    FactSubtype = "ANECDOTE"
	FactSubtypeDocumentRef FactSubtype = "DOCUMENT_REF"
	FactSubtypeAcademicRef FactSubtype = "ACADEMIC_REF"
)

// INodeRole positions an interpretive node within its defeat-graph component.
type INodeRole string

const (
	INodeRoleRoot    INodeRole = "ROOT"
	INodeRoleSupport INodeRole = "SUPPORT"
	INodeRoleAttack  INodeRole = "ATTACK"
)

// INode ("interpretive node") is an atomic claim or premise extracted from a post or reply.
type INode struct {
	ID                   string        `json:"id"`
	RunID                string        `json:"run_id"`
	SourceType           string        `json:"source_type"`
	SourceID             string        `json:"source_id"`
	Content              string        `json:"content"`
	RewrittenContent     *string       `json:"rewritten_content,omitempty"`
	EpistemicType        EpistemicType `json:"epistemic_type"`
	SpanStart            int           `json:"span_start"`
	SpanEnd              int           `json:"span_end"`
	FVPConfidence        float64       `json:"fvp_confidence"`
	ExtractionConfidence float64       `json:"extraction_confidence"`
	Embedding            []float32     `json:"-"`
	FactSubtype          *FactSubtype  `json:"fact_subtype,omitempty"`
	BaseWeight           float64       `json:"base_weight"`
	EvidenceRank         float64       `json:"evidence_rank"`
	IsDefeated           bool          `json:"is_defeated"`
	ComponentID          *string       `json:"component_id,omitempty"`
	NodeRole             INodeRole     `json:"node_role"`
	SourceRefID          *string       `json:"source_ref_id,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// Validate checks the structural invariants of an INode.
func (n *INode) Validate() error {
	if n.RunID == "" {
		return &ValidationError{Field: "run_id", Message: "run_id is required"}
	}
	if n.SpanEnd <= n.SpanStart {
		return &ValidationError{Field: "span_end", Message: "span_end must be greater than span_start"}
	}
	if n.FVPConfidence < 0 || n.FVPConfidence > 1 {
		return &ValidationError{Field: "fvp_confidence", Message: "fvp_confidence must be in [0,1]"}
	}
	return nil
}

// SchemeDirection indicates whether a scheme node supports or attacks its conclusion.
type SchemeDirection string

const (
	SchemeSupport SchemeDirection = "SUPPORT"
	SchemeAttack  SchemeDirection = "ATTACK"
)

// EscrowStatus tracks the bounty lifecycle attached to a gap-detected scheme node.
type EscrowStatus string

const (
	EscrowNone        EscrowStatus = "none"
	EscrowActive      EscrowStatus = "active"
	EscrowPaid        EscrowStatus = "paid"
	EscrowStolen      EscrowStatus = "stolen"
	EscrowLanguished  EscrowStatus = "languished"
)

// SNode ("scheme node") is an argumentation scheme instance linking premises to a conclusion.
type SNode struct {
	ID                 string          `json:"id"`
	RunID              string          `json:"run_id"`
	Direction          SchemeDirection `json:"direction"`
	LogicType          string          `json:"logic_type,omitempty"`
	Confidence         float64         `json:"confidence"`
	GapDetected        bool            `json:"gap_detected"`
	FallacyType        *string         `json:"fallacy_type,omitempty"`
	FallacyExplanation *string         `json:"fallacy_explanation,omitempty"`
	EscrowStatus       EscrowStatus    `json:"escrow_status"`
	EscrowExpiresAt    *time.Time      `json:"escrow_expires_at,omitempty"`
	PendingBounty      *float64        `json:"pending_bounty,omitempty"`
	IsBridge           bool            `json:"is_bridge"`
	ComponentAID       *string         `json:"component_a_id,omitempty"`
	ComponentBID       *string         `json:"component_b_id,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// EdgeRole names a hyperedge participant's function within its scheme.
type EdgeRole string

const (
	EdgeRolePremise    EdgeRole = "premise"
	EdgeRoleConclusion EdgeRole = "conclusion"
	EdgeRoleMotivation EdgeRole = "motivation"
)

// Edge connects an SNode to its premises, conclusion, and motivating sources, forming the
// directed hypergraph edges of the argument structure.
type Edge struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	SchemeID  string    `json:"scheme_id"`
	Role      EdgeRole  `json:"role"`
	INodeID   *string   `json:"i_node_id,omitempty"`
	SourceID  *string   `json:"source_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EnthymemeStatus tracks whether a suggested unstated premise has been surfaced and resolved.
type EnthymemeStatus string

const (
	EnthymemeStatusPending  EnthymemeStatus = "pending"
	EnthymemeStatusAccepted EnthymemeStatus = "accepted"
	EnthymemeStatusRejected EnthymemeStatus = "rejected"
)

// Enthymeme is a machine-suggested unstated premise backing a scheme node, which a human
// may confirm by posting a backfilling reply.
type Enthymeme struct {
	ID                 string          `json:"id"`
	RunID              string          `json:"run_id"`
	SchemeID           string          `json:"scheme_id"`
	Content            string          `json:"content"`
	FVPType            EpistemicType   `json:"fvp_type"`
	Probability        float64         `json:"probability"`
	Status             EnthymemeStatus `json:"status"`
	BackfilledReplyID  *string         `json:"backfilled_reply_id,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// SocraticQuestion is a machine-generated clarifying question attached to a scheme node,
// which may later be resolved by a specific reply.
type SocraticQuestion struct {
	ID                 string    `json:"id"`
	RunID              string    `json:"run_id"`
	SchemeID           string    `json:"scheme_id"`
	Question           string    `json:"question"`
	Uncertainty        float64   `json:"uncertainty"`
	ResolutionReplyID  *string   `json:"resolution_reply_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// ExtractedValue is a named value pulled out of an interpretive node during analysis
// (e.g. a cited statistic, a date, a quantity).
type ExtractedValue struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	INodeID   string    `json:"i_node_id"`
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// ConceptNode is a canonicalized term used to detect equivocation across schemes.
type ConceptNode struct {
	ID         string    `json:"id"`
	Term       string    `json:"term"`
	Definition *string   `json:"definition,omitempty"`
	Embedding  []float32 `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// EquivocationFlag records a detected shift in meaning of the same term between a
// scheme's premise and its conclusion.
type EquivocationFlag struct {
	ID                  string    `json:"id"`
	RunID               string    `json:"run_id"`
	SchemeID            string    `json:"scheme_id"`
	Term                string    `json:"term"`
	PremiseConceptID    string    `json:"premise_concept_id"`
	ConclusionConceptID string    `json:"conclusion_concept_id"`
	CreatedAt           time.Time `json:"created_at"`
}

// SourceLevel places a Source within the domain/document/extract provenance hierarchy.
type SourceLevel string

const (
	SourceLevelDomain   SourceLevel = "DOMAIN"
	SourceLevelDocument SourceLevel = "DOCUMENT"
	SourceLevelExtract  SourceLevel = "EXTRACT"
)

// Source is an external reference (domain, document, or extract) that premises or
// motivations may cite, carrying a reputation score used in evidence ranking.
type Source struct {
	ID         string      `json:"id"`
	Level      SourceLevel `json:"level"`
	ParentID   *string     `json:"parent_id,omitempty"`
	URL        *string     `json:"url,omitempty"`
	Reputation float64     `json:"reputation"`
	Embedding  []float32   `json:"-"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// KarmaDelta is one user's graph-activity contribution over a karma batch window,
// aggregated by the i-node role their authored content produced.
type KarmaDelta struct {
	UserID       string  `json:"user_id"`
	PioneerYield float64 `json:"pioneer_yield"`
	BuilderYield float64 `json:"builder_yield"`
	CriticYield  float64 `json:"critic_yield"`
}
