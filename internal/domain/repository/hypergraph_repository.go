package repository

import (
	"context"
	"time"

	"github.com/agoraforge/agora/internal/domain/discourse"
	"github.com/agoraforge/agora/pkg/models"
)

// HypergraphRepository defines persistence operations for the argument hypergraph produced
// by an analysis run: interpretive nodes, scheme nodes, edges, enthymemes, socratic
// questions, extracted values, concept nodes and equivocation flags.
type HypergraphRepository interface {
	CreateINode(ctx context.Context, n *models.INode) error
	GetINode(ctx context.Context, id string) (*models.INode, error)
	ListINodesByRun(ctx context.Context, runID string) ([]*models.INode, error)
	UpdateINodeDefeat(ctx context.Context, id string, defeated bool) error
	UpdateINodeComponent(ctx context.Context, id string, componentID string, role models.INodeRole) error
	UpdateINodeEvidenceRank(ctx context.Context, id string, rank float64) error

	CreateSNode(ctx context.Context, n *models.SNode) error
	GetSNode(ctx context.Context, id string) (*models.SNode, error)
	ListSNodesByRun(ctx context.Context, runID string) ([]*models.SNode, error)
	ListGapDetectedSNodes(ctx context.Context) ([]*models.SNode, error)
	// ListExpiredActiveEscrows returns every s-node whose escrow is active and whose
	// escrow_expires_at has passed, for the karma batch's languish sweep.
	ListExpiredActiveEscrows(ctx context.Context, before time.Time) ([]*models.SNode, error)
	UpdateSNodeEscrow(ctx context.Context, id string, status models.EscrowStatus, expiresAt *string, bounty *float64) error
	UpsertBridge(ctx context.Context, n *models.SNode) error

	CreateEdge(ctx context.Context, e *models.Edge) error
	ListEdgesByScheme(ctx context.Context, schemeID string) ([]*models.Edge, error)
	// ListEdgesByINode returns every edge that references the given i-node, whatever its
	// role, used to render the argument schemes a claim participates in.
	ListEdgesByINode(ctx context.Context, iNodeID string) ([]*models.Edge, error)

	CreateEnthymeme(ctx context.Context, e *models.Enthymeme) error
	GetEnthymeme(ctx context.Context, id string) (*models.Enthymeme, error)
	ListEnthymemesByScheme(ctx context.Context, schemeID string) ([]*models.Enthymeme, error)
	BackfillEnthymeme(ctx context.Context, id string, replyID string) error

	CreateSocraticQuestion(ctx context.Context, q *models.SocraticQuestion) error
	GetSocraticQuestion(ctx context.Context, id string) (*models.SocraticQuestion, error)
	ListSocraticQuestionsByScheme(ctx context.Context, schemeID string) ([]*models.SocraticQuestion, error)
	ResolveSocraticQuestion(ctx context.Context, id string, replyID string) error

	CreateExtractedValue(ctx context.Context, v *models.ExtractedValue) error
	ListExtractedValuesByINode(ctx context.Context, iNodeID string) ([]*models.ExtractedValue, error)

	UpsertConceptNode(ctx context.Context, c *models.ConceptNode) (*models.ConceptNode, error)
	LinkINodeConcept(ctx context.Context, iNodeID, conceptID string) error
	// ListConceptIDsByINode returns the concept ids an i-node has been linked to, used by
	// the bridge detector to find other components discussing the same concepts.
	ListConceptIDsByINode(ctx context.Context, iNodeID string) ([]string, error)
	// ListComponentsByConceptIDs returns the distinct non-null component ids of i-nodes
	// linked to any of the given concepts, excluding the given component, used to find a
	// bridge's other endpoint.
	ListComponentsByConceptIDs(ctx context.Context, conceptIDs []string, excludeComponentID string) ([]string, error)

	CreateEquivocationFlag(ctx context.Context, f *models.EquivocationFlag) error
	ListEquivocationFlagsByScheme(ctx context.Context, schemeID string) ([]*models.EquivocationFlag, error)

	UpsertSource(ctx context.Context, s *models.Source) (*models.Source, error)
	GetSource(ctx context.Context, id string) (*models.Source, error)

	// CanonicalClaimsCount returns the number of non-defeated root-level FACT nodes for
	// a source.
	CanonicalClaimsCount(ctx context.Context, sourceType, sourceID string) (int, error)

	// ListKarmaDeltasSince aggregates, per content author, the i-nodes their posts and
	// replies produced since the given instant, grouped by node role, for the karma batch.
	ListKarmaDeltasSince(ctx context.Context, since time.Time) ([]models.KarmaDelta, error)

	// SaveGraph persists an entire analysis graph — i-nodes, s-nodes, edges, enthymemes,
	// socratic questions, concept links and equivocation flags — in a single transaction,
	// resolving the graph's ref_index cross-references to the newly assigned row ids.
	SaveGraph(ctx context.Context, runID, sourceType, sourceID string, graph *discourse.AnalysisGraph) error
}
