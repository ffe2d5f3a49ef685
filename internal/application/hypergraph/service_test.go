package hypergraph

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/agoraforge/agora/internal/domain/discourse"
	"github.com/agoraforge/agora/pkg/models"
)

// mockHypergraphRepository implements repository.HypergraphRepository following the same
// mock.Mock-embedding shape used across the application-service tests.
type mockHypergraphRepository struct{ mock.Mock }

func (m *mockHypergraphRepository) CreateINode(ctx context.Context, n *models.INode) error {
	return m.Called(ctx, n).Error(0)
}
func (m *mockHypergraphRepository) GetINode(ctx context.Context, id string) (*models.INode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.INode), args.Error(1)
}
func (m *mockHypergraphRepository) ListINodesByRun(ctx context.Context, runID string) ([]*models.INode, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.INode), args.Error(1)
}
func (m *mockHypergraphRepository) UpdateINodeDefeat(ctx context.Context, id string, defeated bool) error {
	return m.Called(ctx, id, defeated).Error(0)
}
func (m *mockHypergraphRepository) UpdateINodeComponent(ctx context.Context, id string, componentID string, role models.INodeRole) error {
	return m.Called(ctx, id, componentID, role).Error(0)
}
func (m *mockHypergraphRepository) UpdateINodeEvidenceRank(ctx context.Context, id string, rank float64) error {
	return m.Called(ctx, id, rank).Error(0)
}
func (m *mockHypergraphRepository) CreateSNode(ctx context.Context, n *models.SNode) error {
	return m.Called(ctx, n).Error(0)
}
func (m *mockHypergraphRepository) GetSNode(ctx context.Context, id string) (*models.SNode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SNode), args.Error(1)
}
func (m *mockHypergraphRepository) ListSNodesByRun(ctx context.Context, runID string) ([]*models.SNode, error) {
	args := m.Called(ctx, runID)
	return nil, args.Error(1)
}
func (m *mockHypergraphRepository) ListGapDetectedSNodes(ctx context.Context) ([]*models.SNode, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}
func (m *mockHypergraphRepository) ListExpiredActiveEscrows(ctx context.Context, before time.Time) ([]*models.SNode, error) {
	args := m.Called(ctx, before)
	return nil, args.Error(1)
}
func (m *mockHypergraphRepository) UpdateSNodeEscrow(ctx context.Context, id string, status models.EscrowStatus, expiresAt *string, bounty *float64) error {
	return m.Called(ctx, id, status, expiresAt, bounty).Error(0)
}
func (m *mockHypergraphRepository) UpsertBridge(ctx context.Context, n *models.SNode) error {
	return m.Called(ctx, n).Error(0)
}
func (m *mockHypergraphRepository) CreateEdge(ctx context.Context, e *models.Edge) error {
	return m.Called(ctx, e).Error(0)
}
func (m *mockHypergraphRepository) ListEdgesByScheme(ctx context.Context, schemeID string) ([]*models.Edge, error) {
	args := m.Called(ctx, schemeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Edge), args.Error(1)
}
func (m *mockHypergraphRepository) ListEdgesByINode(ctx context.Context, iNodeID string) ([]*models.Edge, error) {
	args := m.Called(ctx, iNodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Edge), args.Error(1)
}
func (m *mockHypergraphRepository) CreateEnthymeme(ctx context.Context, e *models.Enthymeme) error {
	return m.Called(ctx, e).Error(0)
}
func (m *mockHypergraphRepository) GetEnthymeme(ctx context.Context, id string) (*models.Enthymeme, error) {
	args := m.Called(ctx, id)
	return nil, args.Error(1)
}
func (m *mockHypergraphRepository) ListEnthymemesByScheme(ctx context.Context, schemeID string) ([]*models.Enthymeme, error) {
	args := m.Called(ctx, schemeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Enthymeme), args.Error(1)
}
func (m *mockHypergraphRepository) BackfillEnthymeme(ctx context.Context, id string, replyID string) error {
	return m.Called(ctx, id, replyID).Error(0)
}
func (m *mockHypergraphRepository) CreateSocraticQuestion(ctx context.Context, q *models.SocraticQuestion) error {
	return m.Called(ctx, q).Error(0)
}
func (m *mockHypergraphRepository) GetSocraticQuestion(ctx context.Context, id string) (*models.SocraticQuestion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SocraticQuestion), args.Error(1)
}
func (m *mockHypergraphRepository) ListSocraticQuestionsByScheme(ctx context.Context, schemeID string) ([]*models.SocraticQuestion, error) {
	args := m.Called(ctx, schemeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SocraticQuestion), args.Error(1)
}
func (m *mockHypergraphRepository) ResolveSocraticQuestion(ctx context.Context, id string, replyID string) error {
	return m.Called(ctx, id, replyID).Error(0)
}
func (m *mockHypergraphRepository) CreateExtractedValue(ctx context.Context, v *models.ExtractedValue) error {
	return m.Called(ctx, v).Error(0)
}
func (m *mockHypergraphRepository) ListExtractedValuesByINode(ctx context.Context, iNodeID string) ([]*models.ExtractedValue, error) {
	args := m.Called(ctx, iNodeID)
	return nil, args.Error(1)
}
func (m *mockHypergraphRepository) UpsertConceptNode(ctx context.Context, c *models.ConceptNode) (*models.ConceptNode, error) {
	args := m.Called(ctx, c)
	return nil, args.Error(1)
}
func (m *mockHypergraphRepository) LinkINodeConcept(ctx context.Context, iNodeID, conceptID string) error {
	return m.Called(ctx, iNodeID, conceptID).Error(0)
}
func (m *mockHypergraphRepository) ListConceptIDsByINode(ctx context.Context, iNodeID string) ([]string, error) {
	args := m.Called(ctx, iNodeID)
	return nil, args.Error(1)
}
func (m *mockHypergraphRepository) ListComponentsByConceptIDs(ctx context.Context, conceptIDs []string, excludeComponentID string) ([]string, error) {
	args := m.Called(ctx, conceptIDs, excludeComponentID)
	return nil, args.Error(1)
}
func (m *mockHypergraphRepository) CreateEquivocationFlag(ctx context.Context, f *models.EquivocationFlag) error {
	return m.Called(ctx, f).Error(0)
}
func (m *mockHypergraphRepository) ListEquivocationFlagsByScheme(ctx context.Context, schemeID string) ([]*models.EquivocationFlag, error) {
	args := m.Called(ctx, schemeID)
	return nil, args.Error(1)
}
func (m *mockHypergraphRepository) UpsertSource(ctx context.Context, s *models.Source) (*models.Source, error) {
	args := m.Called(ctx, s)
	return nil, args.Error(1)
}
func (m *mockHypergraphRepository) GetSource(ctx context.Context, id string) (*models.Source, error) {
	args := m.Called(ctx, id)
	return nil, args.Error(1)
}
func (m *mockHypergraphRepository) CanonicalClaimsCount(ctx context.Context, sourceType, sourceID string) (int, error) {
	args := m.Called(ctx, sourceType, sourceID)
	return args.Int(0), args.Error(1)
}
func (m *mockHypergraphRepository) ListKarmaDeltasSince(ctx context.Context, since time.Time) ([]models.KarmaDelta, error) {
	args := m.Called(ctx, since)
	return nil, args.Error(1)
}
func (m *mockHypergraphRepository) SaveGraph(ctx context.Context, runID, sourceType, sourceID string, graph *discourse.AnalysisGraph) error {
	return m.Called(ctx, runID, sourceType, sourceID, graph).Error(0)
}

type mockAnalysisRunRepository struct{ mock.Mock }

func (m *mockAnalysisRunRepository) Create(ctx context.Context, run *models.AnalysisRun) error {
	return m.Called(ctx, run).Error(0)
}
func (m *mockAnalysisRunRepository) GetByID(ctx context.Context, id string) (*models.AnalysisRun, error) {
	args := m.Called(ctx, id)
	return nil, args.Error(1)
}
func (m *mockAnalysisRunRepository) GetNonTerminal(ctx context.Context, sourceType models.AnalysisSourceType, sourceID, contentHash string) (*models.AnalysisRun, error) {
	args := m.Called(ctx, sourceType, sourceID, contentHash)
	return nil, args.Error(1)
}
func (m *mockAnalysisRunRepository) UpdateStatus(ctx context.Context, id string, status models.AnalysisRunStatus, errMsg *string) error {
	return m.Called(ctx, id, status, errMsg).Error(0)
}
func (m *mockAnalysisRunRepository) ListBySource(ctx context.Context, sourceType models.AnalysisSourceType, sourceID string) ([]*models.AnalysisRun, error) {
	args := m.Called(ctx, sourceType, sourceID)
	return nil, args.Error(1)
}
func (m *mockAnalysisRunRepository) ListStaleProcessing(ctx context.Context, olderThan time.Time) ([]*models.AnalysisRun, error) {
	args := m.Called(ctx, olderThan)
	return nil, args.Error(1)
}

// mockBridgeResolver satisfies the package-local bridgeResolver interface.
type mockBridgeResolver struct{ mock.Mock }

func (m *mockBridgeResolver) ResolveBridge(ctx context.Context, schemeID, resolvingReplyID string) error {
	return m.Called(ctx, schemeID, resolvingReplyID).Error(0)
}

func TestResolveSocraticQuestion_NotFound(t *testing.T) {
	ctx := context.Background()
	graph := new(mockHypergraphRepository)
	graph.On("GetSocraticQuestion", ctx, "q-1").Return(nil, nil)

	svc := NewService(graph, new(mockAnalysisRunRepository), nil)
	err := svc.ResolveSocraticQuestion(ctx, "q-1", "reply-1")

	assert.ErrorIs(t, err, models.ErrSocraticQuestionNotFound)
	graph.AssertNotCalled(t, "ResolveSocraticQuestion")
}

// TestResolveSocraticQuestion_NilBridgeResolverIsSafe covers a service wired without a
// bridge resolver: resolution still persists, nothing downstream errors.
func TestResolveSocraticQuestion_NilBridgeResolverIsSafe(t *testing.T) {
	ctx := context.Background()
	graph := new(mockHypergraphRepository)
	question := &models.SocraticQuestion{ID: "q-1", SchemeID: "scheme-1"}
	graph.On("GetSocraticQuestion", ctx, "q-1").Return(question, nil)
	graph.On("ResolveSocraticQuestion", ctx, "q-1", "reply-1").Return(nil)

	svc := NewService(graph, new(mockAnalysisRunRepository), nil)
	err := svc.ResolveSocraticQuestion(ctx, "q-1", "reply-1")

	assert.NoError(t, err)
	graph.AssertExpectations(t)
}

// TestResolveSocraticQuestion_CallsBridgeResolver covers the wired path: after persisting
// the resolution, the question's scheme is handed to the bridge resolver for escrow
// settlement.
func TestResolveSocraticQuestion_CallsBridgeResolver(t *testing.T) {
	ctx := context.Background()
	graph := new(mockHypergraphRepository)
	bridges := new(mockBridgeResolver)
	question := &models.SocraticQuestion{ID: "q-1", SchemeID: "scheme-1"}
	graph.On("GetSocraticQuestion", ctx, "q-1").Return(question, nil)
	graph.On("ResolveSocraticQuestion", ctx, "q-1", "reply-1").Return(nil)
	bridges.On("ResolveBridge", ctx, "scheme-1", "reply-1").Return(nil)

	svc := NewService(graph, new(mockAnalysisRunRepository), bridges)
	err := svc.ResolveSocraticQuestion(ctx, "q-1", "reply-1")

	assert.NoError(t, err)
	graph.AssertExpectations(t)
	bridges.AssertExpectations(t)
}
