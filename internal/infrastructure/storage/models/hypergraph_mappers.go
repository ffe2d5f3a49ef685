package models

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	pkgmodels "github.com/agoraforge/agora/pkg/models"
)

func vectorToSlice(v *pgvector.Vector) []float32 {
	if v == nil {
		return nil
	}
	return v.Slice()
}

func sliceToVector(s []float32) *pgvector.Vector {
	if s == nil {
		return nil
	}
	v := pgvector.NewVector(s)
	return &v
}

func ToAnalysisRunDomain(m *AnalysisRunModel) *pkgmodels.AnalysisRun {
	if m == nil {
		return nil
	}
	return &pkgmodels.AnalysisRun{
		ID:           m.ID.String(),
		SourceType:   pkgmodels.AnalysisSourceType(m.SourceType),
		SourceID:     m.SourceID.String(),
		ContentHash:  m.ContentHash,
		Status:       pkgmodels.AnalysisRunStatus(m.Status),
		ErrorMessage: m.ErrorMessage,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func FromAnalysisRunDomain(r *pkgmodels.AnalysisRun) *AnalysisRunModel {
	if r == nil {
		return nil
	}
	m := &AnalysisRunModel{
		SourceType:   string(r.SourceType),
		ContentHash:  r.ContentHash,
		Status:       string(r.Status),
		ErrorMessage: r.ErrorMessage,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.ID != "" {
		m.ID = uuid.MustParse(r.ID)
	}
	if r.SourceID != "" {
		m.SourceID = uuid.MustParse(r.SourceID)
	}
	return m
}

func ToINodeDomain(m *INodeModel) *pkgmodels.INode {
	if m == nil {
		return nil
	}
	n := &pkgmodels.INode{
		ID:                   m.ID.String(),
		RunID:                m.RunID.String(),
		SourceType:           m.SourceType,
		SourceID:             m.SourceID.String(),
		Content:              m.Content,
		RewrittenContent:     m.RewrittenContent,
		EpistemicType:        pkgmodels.EpistemicType(m.EpistemicType),
		SpanStart:            m.SpanStart,
		SpanEnd:              m.SpanEnd,
		FVPConfidence:        m.FVPConfidence,
		ExtractionConfidence: m.ExtractionConfidence,
		Embedding:            vectorToSlice(m.Embedding),
		BaseWeight:           m.BaseWeight,
		EvidenceRank:         m.EvidenceRank,
		IsDefeated:           m.IsDefeated,
		NodeRole:             pkgmodels.INodeRole(m.NodeRole),
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
	if m.FactSubtype != nil {
		t := pkgmodels.FactSubtype(*m.FactSubtype)
		n.FactSubtype = &t
	}
	if m.ComponentID != nil {
		s := m.ComponentID.String()
		n.ComponentID = &s
	}
	if m.SourceRefID != nil {
		s := m.SourceRefID.String()
		n.SourceRefID = &s
	}
	return n
}

func FromINodeDomain(n *pkgmodels.INode) *INodeModel {
	if n == nil {
		return nil
	}
	m := &INodeModel{
		SourceType:           n.SourceType,
		Content:              n.Content,
		RewrittenContent:     n.RewrittenContent,
		EpistemicType:        string(n.EpistemicType),
		SpanStart:            n.SpanStart,
		SpanEnd:              n.SpanEnd,
		FVPConfidence:        n.FVPConfidence,
		ExtractionConfidence: n.ExtractionConfidence,
		Embedding:            sliceToVector(n.Embedding),
		BaseWeight:           n.BaseWeight,
		EvidenceRank:         n.EvidenceRank,
		IsDefeated:           n.IsDefeated,
		NodeRole:             string(n.NodeRole),
		CreatedAt:            n.CreatedAt,
		UpdatedAt:            n.UpdatedAt,
	}
	if n.ID != "" {
		m.ID = uuid.MustParse(n.ID)
	}
	if n.RunID != "" {
		m.RunID = uuid.MustParse(n.RunID)
	}
	if n.SourceID != "" {
		m.SourceID = uuid.MustParse(n.SourceID)
	}
	if n.FactSubtype != nil {
		t := string(*n.FactSubtype)
		m.FactSubtype = &t
	}
	if n.ComponentID != nil {
		id := uuid.MustParse(*n.ComponentID)
		m.ComponentID = &id
	}
	if n.SourceRefID != nil {
		id := uuid.MustParse(*n.SourceRefID)
		m.SourceRefID = &id
	}
	return m
}

func ToSNodeDomain(m *SNodeModel) *pkgmodels.SNode {
	if m == nil {
		return nil
	}
	n := &pkgmodels.SNode{
		ID:                 m.ID.String(),
		RunID:              m.RunID.String(),
		Direction:          pkgmodels.SchemeDirection(m.Direction),
		LogicType:          m.LogicType,
		Confidence:         m.Confidence,
		GapDetected:        m.GapDetected,
		FallacyType:        m.FallacyType,
		FallacyExplanation: m.FallacyExplanation,
		EscrowStatus:       pkgmodels.EscrowStatus(m.EscrowStatus),
		EscrowExpiresAt:    m.EscrowExpiresAt,
		PendingBounty:      m.PendingBounty,
		IsBridge:           m.IsBridge,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	if m.ComponentAID != nil {
		s := m.ComponentAID.String()
		n.ComponentAID = &s
	}
	if m.ComponentBID != nil {
		s := m.ComponentBID.String()
		n.ComponentBID = &s
	}
	return n
}

func FromSNodeDomain(n *pkgmodels.SNode) *SNodeModel {
	if n == nil {
		return nil
	}
	m := &SNodeModel{
		Direction:          string(n.Direction),
		LogicType:          n.LogicType,
		Confidence:         n.Confidence,
		GapDetected:        n.GapDetected,
		FallacyType:        n.FallacyType,
		FallacyExplanation: n.FallacyExplanation,
		EscrowStatus:       string(n.EscrowStatus),
		EscrowExpiresAt:    n.EscrowExpiresAt,
		PendingBounty:      n.PendingBounty,
		IsBridge:           n.IsBridge,
		CreatedAt:          n.CreatedAt,
		UpdatedAt:          n.UpdatedAt,
	}
	if n.ID != "" {
		m.ID = uuid.MustParse(n.ID)
	}
	if n.RunID != "" {
		m.RunID = uuid.MustParse(n.RunID)
	}
	if n.ComponentAID != nil {
		id := uuid.MustParse(*n.ComponentAID)
		m.ComponentAID = &id
	}
	if n.ComponentBID != nil {
		id := uuid.MustParse(*n.ComponentBID)
		m.ComponentBID = &id
	}
	return m
}

func ToEdgeDomain(m *EdgeModel) *pkgmodels.Edge {
	if m == nil {
		return nil
	}
	e := &pkgmodels.Edge{
		ID:        m.ID.String(),
		RunID:     m.RunID.String(),
		SchemeID:  m.SchemeID.String(),
		Role:      pkgmodels.EdgeRole(m.Role),
		CreatedAt: m.CreatedAt,
	}
	if m.INodeID != nil {
		s := m.INodeID.String()
		e.INodeID = &s
	}
	if m.SourceID != nil {
		s := m.SourceID.String()
		e.SourceID = &s
	}
	return e
}

func FromEdgeDomain(e *pkgmodels.Edge) *EdgeModel {
	if e == nil {
		return nil
	}
	m := &EdgeModel{
		Role:      string(e.Role),
		CreatedAt: e.CreatedAt,
	}
	if e.ID != "" {
		m.ID = uuid.MustParse(e.ID)
	}
	if e.RunID != "" {
		m.RunID = uuid.MustParse(e.RunID)
	}
	if e.SchemeID != "" {
		m.SchemeID = uuid.MustParse(e.SchemeID)
	}
	if e.INodeID != nil {
		id := uuid.MustParse(*e.INodeID)
		m.INodeID = &id
	}
	if e.SourceID != nil {
		id := uuid.MustParse(*e.SourceID)
		m.SourceID = &id
	}
	return m
}

func ToEnthymemeDomain(m *EnthymemeModel) *pkgmodels.Enthymeme {
	if m == nil {
		return nil
	}
	e := &pkgmodels.Enthymeme{
		ID:          m.ID.String(),
		RunID:       m.RunID.String(),
		SchemeID:    m.SchemeID.String(),
		Content:     m.Content,
		FVPType:     pkgmodels.EpistemicType(m.FVPType),
		Probability: m.Probability,
		Status:      pkgmodels.EnthymemeStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.BackfilledReplyID != nil {
		s := m.BackfilledReplyID.String()
		e.BackfilledReplyID = &s
	}
	return e
}

func FromEnthymemeDomain(e *pkgmodels.Enthymeme) *EnthymemeModel {
	if e == nil {
		return nil
	}
	m := &EnthymemeModel{
		Content:     e.Content,
		FVPType:     string(e.FVPType),
		Probability: e.Probability,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.ID != "" {
		m.ID = uuid.MustParse(e.ID)
	}
	if e.RunID != "" {
		m.RunID = uuid.MustParse(e.RunID)
	}
	if e.SchemeID != "" {
		m.SchemeID = uuid.MustParse(e.SchemeID)
	}
	if e.BackfilledReplyID != nil {
		id := uuid.MustParse(*e.BackfilledReplyID)
		m.BackfilledReplyID = &id
	}
	return m
}

func ToSocraticQuestionDomain(m *SocraticQuestionModel) *pkgmodels.SocraticQuestion {
	if m == nil {
		return nil
	}
	q := &pkgmodels.SocraticQuestion{
		ID:          m.ID.String(),
		RunID:       m.RunID.String(),
		SchemeID:    m.SchemeID.String(),
		Question:    m.Question,
		Uncertainty: m.Uncertainty,
		CreatedAt:   m.CreatedAt,
	}
	if m.ResolutionReplyID != nil {
		s := m.ResolutionReplyID.String()
		q.ResolutionReplyID = &s
	}
	return q
}

func FromSocraticQuestionDomain(q *pkgmodels.SocraticQuestion) *SocraticQuestionModel {
	if q == nil {
		return nil
	}
	m := &SocraticQuestionModel{
		Question:    q.Question,
		Uncertainty: q.Uncertainty,
		CreatedAt:   q.CreatedAt,
	}
	if q.ID != "" {
		m.ID = uuid.MustParse(q.ID)
	}
	if q.RunID != "" {
		m.RunID = uuid.MustParse(q.RunID)
	}
	if q.SchemeID != "" {
		m.SchemeID = uuid.MustParse(q.SchemeID)
	}
	if q.ResolutionReplyID != nil {
		id := uuid.MustParse(*q.ResolutionReplyID)
		m.ResolutionReplyID = &id
	}
	return m
}

func ToExtractedValueDomain(m *ExtractedValueModel) *pkgmodels.ExtractedValue {
	if m == nil {
		return nil
	}
	return &pkgmodels.ExtractedValue{
		ID:        m.ID.String(),
		RunID:     m.RunID.String(),
		INodeID:   m.INodeID.String(),
		Label:     m.Label,
		Value:     m.Value,
		CreatedAt: m.CreatedAt,
	}
}

func FromExtractedValueDomain(v *pkgmodels.ExtractedValue) *ExtractedValueModel {
	if v == nil {
		return nil
	}
	m := &ExtractedValueModel{
		Label:     v.Label,
		Value:     v.Value,
		CreatedAt: v.CreatedAt,
	}
	if v.ID != "" {
		m.ID = uuid.MustParse(v.ID)
	}
	if v.RunID != "" {
		m.RunID = uuid.MustParse(v.RunID)
	}
	if v.INodeID != "" {
		m.INodeID = uuid.MustParse(v.INodeID)
	}
	return m
}

func ToConceptNodeDomain(m *ConceptNodeModel) *pkgmodels.ConceptNode {
	if m == nil {
		return nil
	}
	return &pkgmodels.ConceptNode{
		ID:         m.ID.String(),
		Term:       m.Term,
		Definition: m.Definition,
		Embedding:  vectorToSlice(m.Embedding),
		CreatedAt:  m.CreatedAt,
	}
}

func FromConceptNodeDomain(c *pkgmodels.ConceptNode) *ConceptNodeModel {
	if c == nil {
		return nil
	}
	m := &ConceptNodeModel{
		Term:       c.Term,
		Definition: c.Definition,
		Embedding:  sliceToVector(c.Embedding),
		CreatedAt:  c.CreatedAt,
	}
	if c.ID != "" {
		m.ID = uuid.MustParse(c.ID)
	}
	return m
}

func ToEquivocationFlagDomain(m *EquivocationFlagModel) *pkgmodels.EquivocationFlag {
	if m == nil {
		return nil
	}
	return &pkgmodels.EquivocationFlag{
		ID:                  m.ID.String(),
		RunID:               m.RunID.String(),
		SchemeID:            m.SchemeID.String(),
		Term:                m.Term,
		PremiseConceptID:    m.PremiseConceptID.String(),
		ConclusionConceptID: m.ConclusionConceptID.String(),
		CreatedAt:           m.CreatedAt,
	}
}

func FromEquivocationFlagDomain(f *pkgmodels.EquivocationFlag) *EquivocationFlagModel {
	if f == nil {
		return nil
	}
	m := &EquivocationFlagModel{
		Term:      f.Term,
		CreatedAt: f.CreatedAt,
	}
	if f.ID != "" {
		m.ID = uuid.MustParse(f.ID)
	}
	if f.RunID != "" {
		m.RunID = uuid.MustParse(f.RunID)
	}
	if f.SchemeID != "" {
		m.SchemeID = uuid.MustParse(f.SchemeID)
	}
	if f.PremiseConceptID != "" {
		m.PremiseConceptID = uuid.MustParse(f.PremiseConceptID)
	}
	if f.ConclusionConceptID != "" {
		m.ConclusionConceptID = uuid.MustParse(f.ConclusionConceptID)
	}
	return m
}

func ToSourceDomain(m *SourceModel) *pkgmodels.Source {
	if m == nil {
		return nil
	}
	s := &pkgmodels.Source{
		ID:         m.ID.String(),
		Level:      pkgmodels.SourceLevel(m.Level),
		URL:        m.URL,
		Reputation: m.Reputation,
		Embedding:  vectorToSlice(m.Embedding),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.ParentID != nil {
		p := m.ParentID.String()
		s.ParentID = &p
	}
	return s
}

func FromSourceDomain(s *pkgmodels.Source) *SourceModel {
	if s == nil {
		return nil
	}
	m := &SourceModel{
		Level:      string(s.Level),
		URL:        s.URL,
		Reputation: s.Reputation,
		Embedding:  sliceToVector(s.Embedding),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
	if s.ID != "" {
		m.ID = uuid.MustParse(s.ID)
	}
	if s.ParentID != nil {
		id := uuid.MustParse(*s.ParentID)
		m.ParentID = &id
	}
	return m
}
