// Package discourse defines the contract C6, C7, C8, C9 and C10 depend on for the
// external embedding/LLM analysis service, kept as an interface so application code never
// depends on the concrete HTTP transport.
package discourse

import "context"

// AnalysisGraph is the typed payload returned by POST /analyze: the full set of
// hypergraph fragments extracted from one piece of content. Missing analysis is
// represented by empty slices, never an error.
type AnalysisGraph struct {
	INodes            []INode            `json:"i_nodes"`
	SNodes            []SNode            `json:"s_nodes"`
	Edges             []Edge             `json:"edges"`
	Enthymemes        []Enthymeme        `json:"enthymemes"`
	SocraticQuestions []SocraticQuestion `json:"socratic_questions"`
	ConceptNodes      []ConceptNode      `json:"concept_nodes"`
	EquivocationFlags []EquivocationFlag `json:"equivocation_flags"`
}

// INode mirrors the wire shape of an extracted interpretive node, prior to persistence.
type INode struct {
	Content              string    `json:"content"`
	RewrittenContent     *string   `json:"rewritten_content,omitempty"`
	EpistemicType        string    `json:"epistemic_type"`
	SpanStart            int       `json:"span_start"`
	SpanEnd              int       `json:"span_end"`
	FVPConfidence        float64   `json:"fvp_confidence"`
	ExtractionConfidence float64   `json:"extraction_confidence"`
	Embedding            []float32 `json:"embedding,omitempty"`
	FactSubtype          *string   `json:"fact_subtype,omitempty"`
	RefIndex             int       `json:"ref_index"`
}

// SNode mirrors the wire shape of an extracted scheme node.
type SNode struct {
	Direction          string  `json:"direction"`
	LogicType          *string `json:"logic_type,omitempty"`
	Confidence         float64 `json:"confidence"`
	GapDetected        bool    `json:"gap_detected"`
	FallacyType        *string `json:"fallacy_type,omitempty"`
	FallacyExplanation *string `json:"fallacy_explanation,omitempty"`
	RefIndex           int     `json:"ref_index"`
}

// Edge mirrors the wire shape of an edge connecting a scheme node to an i-node or source.
type Edge struct {
	SchemeRefIndex int     `json:"scheme_ref_index"`
	Role           string  `json:"role"`
	INodeRefIndex  *int    `json:"i_node_ref_index,omitempty"`
	SourceURL      *string `json:"source_url,omitempty"`
}

// Enthymeme mirrors the wire shape of a suggested unstated premise.
type Enthymeme struct {
	SchemeRefIndex int     `json:"scheme_ref_index"`
	Content        string  `json:"content"`
	FVPType        string  `json:"fvp_type"`
	Probability    float64 `json:"probability"`
}

// SocraticQuestion mirrors the wire shape of a clarifying question attached to a scheme.
type SocraticQuestion struct {
	SchemeRefIndex int     `json:"scheme_ref_index"`
	Question       string  `json:"question"`
	Uncertainty    float64 `json:"uncertainty"`
}

// ConceptNode mirrors the wire shape of a canonicalized term referenced by an i-node.
type ConceptNode struct {
	INodeRefIndex int     `json:"i_node_ref_index"`
	Term          string  `json:"term"`
	Definition    *string `json:"definition,omitempty"`
}

// EquivocationFlag mirrors the wire shape of a detected shift in meaning of a term.
type EquivocationFlag struct {
	SchemeRefIndex         int    `json:"scheme_ref_index"`
	Term                   string `json:"term"`
	PremiseConceptTerm     string `json:"premise_concept_term"`
	ConclusionConceptTerm  string `json:"conclusion_concept_term"`
}

// BatchJobHandle is the opaque reference to a submitted batch of embedding/analysis
// requests, persisted as gemini_job_name on the corresponding checkpoint.
type BatchJobHandle struct {
	JobName string `json:"job_name"`
}

// BatchStatus is the poll result for a submitted batch job.
type BatchStatus struct {
	Done    bool   `json:"done"`
	GCSPath string `json:"gcs_path,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Client is the contract for the external embedding/LLM analysis service.
type Client interface {
	// Health checks service liveness.
	Health(ctx context.Context) error

	// Embed embeds a batch of texts into 1536-dimensional vectors, one per input text.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Analyze extracts the argument hypergraph from a single piece of source content.
	Analyze(ctx context.Context, text string, sourceType, sourceID string) (*AnalysisGraph, error)

	// BatchSubmit submits a batch of texts for asynchronous processing.
	BatchSubmit(ctx context.Context, texts []string) (*BatchJobHandle, error)

	// BatchPoll checks the status of a previously submitted batch job.
	BatchPoll(ctx context.Context, jobName string) (*BatchStatus, error)
}
