// Package hypergraph provides read access to the argument hypergraph produced by
// analysis runs: interpretive nodes, scheme nodes, edges, enthymemes, Socratic questions
// and their supporting concept/source tables.
package hypergraph

import (
	"context"
	"fmt"
	"sort"

	"github.com/agoraforge/agora/internal/domain/repository"
	"github.com/agoraforge/agora/pkg/models"
)

// bridgeResolver is satisfied by gamification.Service; declared locally so this package
// doesn't pull in gamification's own repository/notification wiring.
type bridgeResolver interface {
	ResolveBridge(ctx context.Context, schemeID, resolvingReplyID string) error
}

// Service exposes the hypergraph produced for a given analysis run or scheme.
type Service struct {
	graph   repository.HypergraphRepository
	runs    repository.AnalysisRunRepository
	bridges bridgeResolver
}

func NewService(graph repository.HypergraphRepository, runs repository.AnalysisRunRepository, bridges bridgeResolver) *Service {
	return &Service{graph: graph, runs: runs, bridges: bridges}
}

// latestRunFor returns the most recently created run for a source, preferring a completed one
// but falling back to whatever exists so a claim list can still render against a processing or
// failed run's partial graph.
func (s *Service) latestRunFor(ctx context.Context, sourceType models.AnalysisSourceType, sourceID string) (*models.AnalysisRun, error) {
	runs, err := s.runs.ListBySource(ctx, sourceType, sourceID)
	if err != nil {
		return nil, fmt.Errorf("list analysis runs: %w", err)
	}
	if len(runs) == 0 {
		return nil, nil
	}
	var best *models.AnalysisRun
	for _, r := range runs {
		if r.Status == models.AnalysisStatusCompleted && (best == nil || r.CreatedAt.After(best.CreatedAt)) {
			best = r
		}
	}
	if best != nil {
		return best, nil
	}
	for _, r := range runs {
		if best == nil || r.CreatedAt.After(best.CreatedAt) {
			best = r
		}
	}
	return best, nil
}

// ListADUsBySource returns the i-nodes (argumentative discourse units) extracted from a post
// or reply's latest analysis run, ordered by their span within the source text.
func (s *Service) ListADUsBySource(ctx context.Context, sourceType models.AnalysisSourceType, sourceID string) ([]*models.INode, error) {
	run, err := s.latestRunFor(ctx, sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, nil
	}
	nodes, err := s.graph.ListINodesByRun(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("list i-nodes: %w", err)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].SpanStart < nodes[j].SpanStart })
	return nodes, nil
}

// GetClaim fetches a single i-node by id, returning models.ErrINodeNotFound if absent.
func (s *Service) GetClaim(ctx context.Context, id string) (*models.INode, error) {
	node, err := s.graph.GetINode(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get claim: %w", err)
	}
	if node == nil {
		return nil, models.ErrINodeNotFound
	}
	return node, nil
}

// ListRelatedToClaim returns every edge connecting the given i-node to the argument schemes it
// participates in, in any role (premise, conclusion or motivation).
func (s *Service) ListRelatedToClaim(ctx context.Context, iNodeID string) ([]*models.Edge, error) {
	edges, err := s.graph.ListEdgesByINode(ctx, iNodeID)
	if err != nil {
		return nil, fmt.Errorf("list related edges: %w", err)
	}
	return edges, nil
}

func (s *Service) GetINode(ctx context.Context, id string) (*models.INode, error) {
	n, err := s.graph.GetINode(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get i-node: %w", err)
	}
	return n, nil
}

func (s *Service) ListINodesByRun(ctx context.Context, runID string) ([]*models.INode, error) {
	nodes, err := s.graph.ListINodesByRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("list i-nodes: %w", err)
	}
	return nodes, nil
}

func (s *Service) GetSNode(ctx context.Context, id string) (*models.SNode, error) {
	n, err := s.graph.GetSNode(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get s-node: %w", err)
	}
	return n, nil
}

func (s *Service) ListSNodesByRun(ctx context.Context, runID string) ([]*models.SNode, error) {
	nodes, err := s.graph.ListSNodesByRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("list s-nodes: %w", err)
	}
	return nodes, nil
}

// RelatedScheme assembles one scheme node together with its edges, suggested
// enthymemes and Socratic questions — the unit a client renders for one argument.
type RelatedScheme struct {
	SNode             *models.SNode
	Edges             []*models.Edge
	Enthymemes        []*models.Enthymeme
	SocraticQuestions []*models.SocraticQuestion
}

func (s *Service) GetRelatedScheme(ctx context.Context, schemeID string) (*RelatedScheme, error) {
	scheme, err := s.graph.GetSNode(ctx, schemeID)
	if err != nil {
		return nil, fmt.Errorf("get s-node: %w", err)
	}
	edges, err := s.graph.ListEdgesByScheme(ctx, schemeID)
	if err != nil {
		return nil, fmt.Errorf("list edges: %w", err)
	}
	enthymemes, err := s.graph.ListEnthymemesByScheme(ctx, schemeID)
	if err != nil {
		return nil, fmt.Errorf("list enthymemes: %w", err)
	}
	questions, err := s.graph.ListSocraticQuestionsByScheme(ctx, schemeID)
	if err != nil {
		return nil, fmt.Errorf("list socratic questions: %w", err)
	}
	return &RelatedScheme{SNode: scheme, Edges: edges, Enthymemes: enthymemes, SocraticQuestions: questions}, nil
}

func (s *Service) ListExtractedValues(ctx context.Context, iNodeID string) ([]*models.ExtractedValue, error) {
	values, err := s.graph.ListExtractedValuesByINode(ctx, iNodeID)
	if err != nil {
		return nil, fmt.Errorf("list extracted values: %w", err)
	}
	return values, nil
}

func (s *Service) ListEquivocationFlags(ctx context.Context, schemeID string) ([]*models.EquivocationFlag, error) {
	flags, err := s.graph.ListEquivocationFlagsByScheme(ctx, schemeID)
	if err != nil {
		return nil, fmt.Errorf("list equivocation flags: %w", err)
	}
	return flags, nil
}

func (s *Service) GetSource(ctx context.Context, id string) (*models.Source, error) {
	source, err := s.graph.GetSource(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	return source, nil
}

// ResolveSocraticQuestion records the reply that answered a Socratic question and, if the
// question's scheme is a bridge with an active escrow, settles the escrow through
// gamification's paid/stolen transition.
func (s *Service) ResolveSocraticQuestion(ctx context.Context, id, replyID string) error {
	question, err := s.graph.GetSocraticQuestion(ctx, id)
	if err != nil {
		return fmt.Errorf("get socratic question: %w", err)
	}
	if question == nil {
		return models.ErrSocraticQuestionNotFound
	}

	if err := s.graph.ResolveSocraticQuestion(ctx, id, replyID); err != nil {
		return fmt.Errorf("resolve socratic question: %w", err)
	}

	if s.bridges != nil {
		if err := s.bridges.ResolveBridge(ctx, question.SchemeID, replyID); err != nil {
			return fmt.Errorf("resolve bridge: %w", err)
		}
	}
	return nil
}

// CanonicalClaimsCount returns the number of non-defeated root-level FACT nodes for a
// source.
func (s *Service) CanonicalClaimsCount(ctx context.Context, sourceType, sourceID string) (int, error) {
	count, err := s.graph.CanonicalClaimsCount(ctx, sourceType, sourceID)
	if err != nil {
		return 0, fmt.Errorf("count canonical claims: %w", err)
	}
	return count, nil
}
