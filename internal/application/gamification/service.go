// Package gamification implements the V4 gamification engine (C9): node-role and
// component-partition maintenance over a freshly analyzed run, the bridge/escrow state
// machine on scheme nodes, and the nightly karma batch that turns graph activity into
// karma yields and epistemic notifications.
package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agoraforge/agora/internal/application/notification"
	"github.com/agoraforge/agora/internal/domain/repository"
	"github.com/agoraforge/agora/pkg/models"
)

// BridgeBounty is the fixed epistemic bounty posted when a gap-detected scheme is
// converted into a bridge between two previously disjoint components.
const BridgeBounty = 10.0

// BridgeEscrowDuration is how long a bridge's escrow stays active before it languishes
// unresolved. Not specified numerically; chosen as a one-week window long enough for a
// human to respond to a socratic question but short enough to keep the bounty live.
const BridgeEscrowDuration = 7 * 24 * time.Hour

// KarmaBatchWindow is the lookback window the nightly batch aggregates graph activity
// over.
const KarmaBatchWindow = 24 * time.Hour

// Service maintains the hypergraph's gamification-layer state: node roles, component
// partitioning, bridge/escrow transitions and the karma batch.
type Service struct {
	hypergraph    repository.HypergraphRepository
	users         repository.UserRepository
	posts         repository.PostRepository
	replies       repository.ReplyRepository
	notifications *notification.Service
}

func NewService(hypergraph repository.HypergraphRepository, users repository.UserRepository, posts repository.PostRepository, replies repository.ReplyRepository, notifications *notification.Service) *Service {
	return &Service{hypergraph: hypergraph, users: users, posts: posts, replies: replies, notifications: notifications}
}

// BackfillRun runs every per-run gamification maintenance step for a freshly analyzed
// run: node roles, component partitioning, evidence-rank refresh, defeat propagation and
// bridge detection. Called right after SaveGraph persists the run's fragments.
func (s *Service) BackfillRun(ctx context.Context, runID string) error {
	if err := s.backfillRolesAndComponents(ctx, runID); err != nil {
		return fmt.Errorf("backfill roles and components: %w", err)
	}
	if err := s.recomputeEvidenceAndDefeat(ctx, runID); err != nil {
		return fmt.Errorf("recompute evidence and defeat: %w", err)
	}
	if err := s.detectBridges(ctx, runID); err != nil {
		return fmt.Errorf("detect bridges: %w", err)
	}
	return nil
}

// backfillRolesAndComponents assigns every i-node in the run its outgoing role (SUPPORT
// if it is a premise of any SUPPORT scheme, else ATTACK if it is a premise of any ATTACK
// scheme, else ROOT) and partitions the run's i-nodes into connected components over the
// premise/conclusion edges of their shared schemes. Partitioning is scoped to a single
// run: each run's i-nodes are freshly extracted, so there is no existing component id to
// merge into — an i-node only ever joins a pre-existing component via the bridge
// mechanism below. An i-node untouched by any edge forms its own singleton component.
func (s *Service) backfillRolesAndComponents(ctx context.Context, runID string) error {
	schemes, err := s.hypergraph.ListSNodesByRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("list schemes: %w", err)
	}
	inodes, err := s.hypergraph.ListINodesByRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("list i-nodes: %w", err)
	}

	roles := make(map[string]models.INodeRole)
	parent := make(map[string]string)
	for _, inode := range inodes {
		parent[inode.ID] = inode.ID
	}
	find := func(x string) string {
		for parent[x] != x {
			x = parent[x]
		}
		return x
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for _, scheme := range schemes {
		edges, err := s.hypergraph.ListEdgesByScheme(ctx, scheme.ID)
		if err != nil {
			return fmt.Errorf("list edges for scheme %s: %w", scheme.ID, err)
		}
		var members []string
		for _, edge := range edges {
			if edge.INodeID == nil {
				continue
			}
			members = append(members, *edge.INodeID)
			if edge.Role != models.EdgeRolePremise {
				continue
			}
			switch {
			case scheme.Direction == models.SchemeSupport:
				roles[*edge.INodeID] = models.INodeRoleSupport
			case scheme.Direction == models.SchemeAttack && roles[*edge.INodeID] != models.INodeRoleSupport:
				roles[*edge.INodeID] = models.INodeRoleAttack
			}
		}
		for i := 1; i < len(members); i++ {
			union(members[0], members[i])
		}
	}

	groups := make(map[string]string)
	for _, inode := range inodes {
		root := find(inode.ID)
		componentID, ok := groups[root]
		if !ok {
			componentID = uuid.New().String()
			groups[root] = componentID
		}
		role, ok := roles[inode.ID]
		if !ok {
			role = models.INodeRoleRoot
		}
		if err := s.hypergraph.UpdateINodeComponent(ctx, inode.ID, componentID, role); err != nil {
			return fmt.Errorf("update i-node %s: %w", inode.ID, err)
		}
	}
	return nil
}

// recomputeEvidenceAndDefeat refreshes each i-node's evidence_rank from its source
// content's vote score, then marks a conclusion i-node defeated whenever an ATTACK
// scheme's premises out-rank it. Defeat is evaluated one scheme at a time rather than
// propagated transitively through the whole graph.
func (s *Service) recomputeEvidenceAndDefeat(ctx context.Context, runID string) error {
	inodes, err := s.hypergraph.ListINodesByRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("list i-nodes: %w", err)
	}
	ranks := make(map[string]float64, len(inodes))
	for _, inode := range inodes {
		score, err := s.contentScore(ctx, inode.SourceType, inode.SourceID)
		if err != nil {
			return fmt.Errorf("score content for i-node %s: %w", inode.ID, err)
		}
		rank := inode.BaseWeight + float64(score)
		ranks[inode.ID] = rank
		if err := s.hypergraph.UpdateINodeEvidenceRank(ctx, inode.ID, rank); err != nil {
			return fmt.Errorf("update evidence rank for i-node %s: %w", inode.ID, err)
		}
	}

	schemes, err := s.hypergraph.ListSNodesByRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("list schemes: %w", err)
	}
	for _, scheme := range schemes {
		if scheme.Direction != models.SchemeAttack {
			continue
		}
		edges, err := s.hypergraph.ListEdgesByScheme(ctx, scheme.ID)
		if err != nil {
			return fmt.Errorf("list edges for scheme %s: %w", scheme.ID, err)
		}
		var premiseRank float64
		var conclusionID string
		for _, edge := range edges {
			if edge.INodeID == nil {
				continue
			}
			switch edge.Role {
			case models.EdgeRolePremise:
				if r := ranks[*edge.INodeID]; r > premiseRank {
					premiseRank = r
				}
			case models.EdgeRoleConclusion:
				conclusionID = *edge.INodeID
			}
		}
		if conclusionID == "" {
			continue
		}
		if premiseRank <= ranks[conclusionID] {
			continue
		}
		if err := s.hypergraph.UpdateINodeDefeat(ctx, conclusionID, true); err != nil {
			return fmt.Errorf("defeat i-node %s: %w", conclusionID, err)
		}
		if err := s.notifyUpstreamDefeated(ctx, conclusionID); err != nil {
			return fmt.Errorf("notify upstream defeated for %s: %w", conclusionID, err)
		}
	}
	return nil
}

func (s *Service) contentScore(ctx context.Context, sourceType, sourceID string) (int, error) {
	switch sourceType {
	case string(models.AnalysisSourcePost):
		post, err := s.posts.GetByID(ctx, sourceID)
		if err != nil || post == nil {
			return 0, err
		}
		return post.Score, nil
	case string(models.AnalysisSourceReply):
		reply, err := s.replies.GetByID(ctx, sourceID)
		if err != nil || reply == nil {
			return 0, err
		}
		return reply.Score, nil
	default:
		return 0, nil
	}
}

func (s *Service) notifyUpstreamDefeated(ctx context.Context, inodeID string) error {
	inode, err := s.hypergraph.GetINode(ctx, inodeID)
	if err != nil || inode == nil {
		return err
	}
	authorID, err := s.contentAuthor(ctx, inode.SourceType, inode.SourceID)
	if err != nil || authorID == "" {
		return err
	}
	return s.notifications.EmitEpistemic(ctx, authorID, "i_node", inode.ID, models.EpistemicUpstreamDefeated, map[string]interface{}{
		"i_node_id": inode.ID,
	})
}

func (s *Service) contentAuthor(ctx context.Context, sourceType, sourceID string) (string, error) {
	switch sourceType {
	case string(models.AnalysisSourcePost):
		post, err := s.posts.GetByID(ctx, sourceID)
		if err != nil || post == nil {
			return "", err
		}
		return post.AuthorID, nil
	case string(models.AnalysisSourceReply):
		reply, err := s.replies.GetByID(ctx, sourceID)
		if err != nil || reply == nil {
			return "", err
		}
		return reply.AuthorID, nil
	default:
		return "", nil
	}
}

// detectBridges converts each still-open gap-detected scheme in the run into a bridge
// whenever an i-node on any of its edges (premise or conclusion) discusses a concept also
// held by an i-node in a different,
// already-assigned component — the two components become the bridge's endpoints and its
// escrow opens.
func (s *Service) detectBridges(ctx context.Context, runID string) error {
	candidates, err := s.hypergraph.ListGapDetectedSNodes(ctx)
	if err != nil {
		return fmt.Errorf("list gap-detected schemes: %w", err)
	}
	for _, scheme := range candidates {
		if scheme.RunID != runID {
			continue
		}
		edges, err := s.hypergraph.ListEdgesByScheme(ctx, scheme.ID)
		if err != nil {
			return fmt.Errorf("list edges for scheme %s: %w", scheme.ID, err)
		}

		var ownComponentID string
		var conceptIDs []string
		for _, edge := range edges {
			if edge.INodeID == nil {
				continue
			}
			inode, err := s.hypergraph.GetINode(ctx, *edge.INodeID)
			if err != nil || inode == nil {
				continue
			}
			if inode.ComponentID != nil && ownComponentID == "" {
				ownComponentID = *inode.ComponentID
			}
			ids, err := s.hypergraph.ListConceptIDsByINode(ctx, inode.ID)
			if err != nil {
				return fmt.Errorf("list concepts for i-node %s: %w", inode.ID, err)
			}
			conceptIDs = append(conceptIDs, ids...)
		}
		if ownComponentID == "" || len(conceptIDs) == 0 {
			continue
		}

		otherComponents, err := s.hypergraph.ListComponentsByConceptIDs(ctx, conceptIDs, ownComponentID)
		if err != nil {
			return fmt.Errorf("list bridged components: %w", err)
		}
		if len(otherComponents) == 0 {
			continue
		}
		otherComponentID := otherComponents[0]

		expiresAt := time.Now().Add(BridgeEscrowDuration)
		bounty := BridgeBounty
		scheme.ComponentAID = &ownComponentID
		scheme.ComponentBID = &otherComponentID
		scheme.EscrowStatus = models.EscrowActive
		scheme.EscrowExpiresAt = &expiresAt
		scheme.PendingBounty = &bounty
		if err := s.hypergraph.UpsertBridge(ctx, scheme); err != nil {
			return fmt.Errorf("upsert bridge %s: %w", scheme.ID, err)
		}
	}
	return nil
}

// RunDailyBatch is the nightly karma batch: it derives karma yields from the past
// window's graph activity, advances expired bridge escrows to languished, and fans out
// the resulting epistemic notifications.
func (s *Service) RunDailyBatch(ctx context.Context) error {
	if err := s.applyKarmaYields(ctx); err != nil {
		return fmt.Errorf("apply karma yields: %w", err)
	}
	if err := s.sweepExpiredEscrows(ctx); err != nil {
		return fmt.Errorf("sweep expired escrows: %w", err)
	}
	return nil
}

func (s *Service) applyKarmaYields(ctx context.Context) error {
	deltas, err := s.hypergraph.ListKarmaDeltasSince(ctx, time.Now().Add(-KarmaBatchWindow))
	if err != nil {
		return fmt.Errorf("list karma deltas: %w", err)
	}
	for _, delta := range deltas {
		if delta.PioneerYield == 0 && delta.BuilderYield == 0 && delta.CriticYield == 0 {
			continue
		}
		if err := s.users.ApplyKarmaDeltas(ctx, delta.UserID, delta.PioneerYield, delta.BuilderYield, delta.CriticYield); err != nil {
			return fmt.Errorf("apply karma delta for user %s: %w", delta.UserID, err)
		}
		if err := s.users.RecomputeEpistemicScore(ctx, delta.UserID); err != nil {
			return fmt.Errorf("recompute epistemic score for user %s: %w", delta.UserID, err)
		}
	}
	return nil
}

// sweepExpiredEscrows advances every bridge whose escrow window has elapsed without
// resolution to languished, notifying the claim owner on the bridge's conclusion side.
// Resolution before expiry (paid/stolen) is driven by the socratic-question resolution
// path (hypergraph.ResolveSocraticQuestion) rather than this sweep, since accepting an
// answer is a caller-initiated action, not a time-driven one.
func (s *Service) sweepExpiredEscrows(ctx context.Context) error {
	expired, err := s.hypergraph.ListExpiredActiveEscrows(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("list expired escrows: %w", err)
	}
	for _, scheme := range expired {
		if err := s.hypergraph.UpdateSNodeEscrow(ctx, scheme.ID, models.EscrowLanguished, nil, nil); err != nil {
			return fmt.Errorf("languish escrow %s: %w", scheme.ID, err)
		}
		if err := s.notifyBridgeOwner(ctx, scheme, models.EpistemicBountyLanguished); err != nil {
			return fmt.Errorf("notify languished bridge %s: %w", scheme.ID, err)
		}
	}
	return nil
}

// notifyBridgeOwner resolves the recipient of a bridge-lifecycle notification as the
// author of the bridge scheme's conclusion i-node.
func (s *Service) notifyBridgeOwner(ctx context.Context, scheme *models.SNode, eventType models.EpistemicNotificationType) error {
	edges, err := s.hypergraph.ListEdgesByScheme(ctx, scheme.ID)
	if err != nil {
		return err
	}
	for _, edge := range edges {
		if edge.Role != models.EdgeRoleConclusion || edge.INodeID == nil {
			continue
		}
		inode, err := s.hypergraph.GetINode(ctx, *edge.INodeID)
		if err != nil || inode == nil {
			continue
		}
		authorID, err := s.contentAuthor(ctx, inode.SourceType, inode.SourceID)
		if err != nil || authorID == "" {
			continue
		}
		return s.notifications.EmitEpistemic(ctx, authorID, "scheme", scheme.ID, eventType, map[string]interface{}{
			"scheme_id": scheme.ID,
		})
	}
	return nil
}

// ResolveBridge accepts a reply as the resolution to a bridge's socratic question: if the
// bridge's escrow is still active, it pays out. The replying user's identity decides
// paid vs. stolen: if they're also the bridge's own claim owner, the escrow is paid (the
// claim owner's own bridge pays out to them); if a different user supplied the resolution,
// the bounty is recorded as stolen from the claim owner instead. A no-op (nil error) if the
// escrow isn't active, which happens when a question is resolved on a scheme that was never
// a bridge, or whose bridge already settled or languished.
func (s *Service) ResolveBridge(ctx context.Context, schemeID, resolvingReplyID string) error {
	scheme, err := s.hypergraph.GetSNode(ctx, schemeID)
	if err != nil {
		return fmt.Errorf("get scheme: %w", err)
	}
	if scheme == nil {
		return models.ErrSNodeNotFound
	}
	if scheme.EscrowStatus != models.EscrowActive {
		return nil
	}

	resolvingUserID, err := s.contentAuthor(ctx, string(models.AnalysisSourceReply), resolvingReplyID)
	if err != nil {
		return fmt.Errorf("resolve resolving reply author: %w", err)
	}

	status := models.EscrowPaid
	event := models.EpistemicBountyPaid

	edges, err := s.hypergraph.ListEdgesByScheme(ctx, schemeID)
	if err != nil {
		return fmt.Errorf("list edges: %w", err)
	}
	for _, edge := range edges {
		if edge.Role != models.EdgeRoleConclusion || edge.INodeID == nil {
			continue
		}
		inode, err := s.hypergraph.GetINode(ctx, *edge.INodeID)
		if err != nil || inode == nil {
			continue
		}
		ownerID, err := s.contentAuthor(ctx, inode.SourceType, inode.SourceID)
		if err != nil {
			return err
		}
		if ownerID != "" && ownerID != resolvingUserID {
			status = models.EscrowStolen
			event = models.EpistemicBountyStolen
		}
		break
	}

	if err := s.hypergraph.UpdateSNodeEscrow(ctx, schemeID, status, nil, nil); err != nil {
		return fmt.Errorf("resolve escrow: %w", err)
	}
	return s.notifyBridgeOwner(ctx, scheme, event)
}
