package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/agoraforge/agora/internal/domain/discourse"
	"github.com/agoraforge/agora/internal/domain/repository"
	"github.com/agoraforge/agora/internal/infrastructure/storage/models"
	pkgmodels "github.com/agoraforge/agora/pkg/models"
)

var _ repository.HypergraphRepository = (*HypergraphRepository)(nil)

// HypergraphRepository implements repository.HypergraphRepository using Bun, persisting
// the argument hypergraph produced by an analysis run.
type HypergraphRepository struct {
	db bun.IDB
}

func NewHypergraphRepository(db bun.IDB) *HypergraphRepository {
	return &HypergraphRepository{db: db}
}

func (r *HypergraphRepository) CreateINode(ctx context.Context, n *pkgmodels.INode) error {
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now

	row := models.FromINodeDomain(n)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	_, err := r.db.NewInsert().Model(row).Returning("*").Exec(ctx)
	if err != nil {
		return fmt.Errorf("create i-node: %w", err)
	}
	*n = *models.ToINodeDomain(row)
	return nil
}

func (r *HypergraphRepository) GetINode(ctx context.Context, id string) (*pkgmodels.INode, error) {
	row := &models.INodeModel{}
	err := r.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgmodels.ErrINodeNotFound
		}
		return nil, fmt.Errorf("get i-node: %w", err)
	}
	return models.ToINodeDomain(row), nil
}

func (r *HypergraphRepository) ListINodesByRun(ctx context.Context, runID string) ([]*pkgmodels.INode, error) {
	var rows []*models.INodeModel
	err := r.db.NewSelect().Model(&rows).Where("run_id = ?", runID).OrderExpr("created_at ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list i-nodes by run: %w", err)
	}
	out := make([]*pkgmodels.INode, len(rows))
	for i, row := range rows {
		out[i] = models.ToINodeDomain(row)
	}
	return out, nil
}

func (r *HypergraphRepository) UpdateINodeDefeat(ctx context.Context, id string, defeated bool) error {
	res, err := r.db.NewUpdate().
		Model((*models.INodeModel)(nil)).
		Set("is_defeated = ?", defeated).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update i-node defeat: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgmodels.ErrINodeNotFound
	}
	return nil
}

func (r *HypergraphRepository) UpdateINodeComponent(ctx context.Context, id string, componentID string, role pkgmodels.INodeRole) error {
	res, err := r.db.NewUpdate().
		Model((*models.INodeModel)(nil)).
		Set("component_id = ?", componentID).
		Set("node_role = ?", string(role)).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update i-node component: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgmodels.ErrINodeNotFound
	}
	return nil
}

func (r *HypergraphRepository) UpdateINodeEvidenceRank(ctx context.Context, id string, rank float64) error {
	res, err := r.db.NewUpdate().
		Model((*models.INodeModel)(nil)).
		Set("evidence_rank = ?", rank).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update i-node evidence rank: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgmodels.ErrINodeNotFound
	}
	return nil
}

func (r *HypergraphRepository) CreateSNode(ctx context.Context, n *pkgmodels.SNode) error {
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now

	row := models.FromSNodeDomain(n)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	_, err := r.db.NewInsert().Model(row).Returning("*").Exec(ctx)
	if err != nil {
		return fmt.Errorf("create s-node: %w", err)
	}
	*n = *models.ToSNodeDomain(row)
	return nil
}

func (r *HypergraphRepository) GetSNode(ctx context.Context, id string) (*pkgmodels.SNode, error) {
	row := &models.SNodeModel{}
	err := r.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgmodels.ErrSNodeNotFound
		}
		return nil, fmt.Errorf("get s-node: %w", err)
	}
	return models.ToSNodeDomain(row), nil
}

func (r *HypergraphRepository) ListSNodesByRun(ctx context.Context, runID string) ([]*pkgmodels.SNode, error) {
	var rows []*models.SNodeModel
	err := r.db.NewSelect().Model(&rows).Where("run_id = ?", runID).OrderExpr("created_at ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list s-nodes by run: %w", err)
	}
	out := make([]*pkgmodels.SNode, len(rows))
	for i, row := range rows {
		out[i] = models.ToSNodeDomain(row)
	}
	return out, nil
}

func (r *HypergraphRepository) ListGapDetectedSNodes(ctx context.Context) ([]*pkgmodels.SNode, error) {
	var rows []*models.SNodeModel
	err := r.db.NewSelect().
		Model(&rows).
		Where("gap_detected = true").
		Where("escrow_status = ?", "none").
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list gap-detected s-nodes: %w", err)
	}
	out := make([]*pkgmodels.SNode, len(rows))
	for i, row := range rows {
		out[i] = models.ToSNodeDomain(row)
	}
	return out, nil
}

func (r *HypergraphRepository) ListExpiredActiveEscrows(ctx context.Context, before time.Time) ([]*pkgmodels.SNode, error) {
	var rows []*models.SNodeModel
	err := r.db.NewSelect().
		Model(&rows).
		Where("escrow_status = ?", string(pkgmodels.EscrowActive)).
		Where("escrow_expires_at IS NOT NULL AND escrow_expires_at < ?", before).
		OrderExpr("escrow_expires_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expired active escrows: %w", err)
	}
	out := make([]*pkgmodels.SNode, len(rows))
	for i, row := range rows {
		out[i] = models.ToSNodeDomain(row)
	}
	return out, nil
}

func (r *HypergraphRepository) UpdateSNodeEscrow(ctx context.Context, id string, status pkgmodels.EscrowStatus, expiresAt *string, bounty *float64) error {
	q := r.db.NewUpdate().
		Model((*models.SNodeModel)(nil)).
		Set("escrow_status = ?", string(status)).
		Set("pending_bounty = ?", bounty).
		Set("updated_at = ?", time.Now())

	if expiresAt != nil {
		t, err := time.Parse(time.RFC3339, *expiresAt)
		if err != nil {
			return fmt.Errorf("parse escrow expiry: %w", err)
		}
		q = q.Set("escrow_expires_at = ?", t)
	} else {
		q = q.Set("escrow_expires_at = NULL")
	}

	res, err := q.Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("update s-node escrow: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgmodels.ErrSNodeNotFound
	}
	return nil
}

// UpsertBridge marks an existing s-node as a bridge between two components and opens its
// escrow, relying on idx_agora_s_nodes_active_bridge to enforce that the unordered
// component pair has at most one active bridge at a time. A conflict on that index is
// silently dropped, per the bridge-uniqueness invariant, rather than surfaced as an error.
func (r *HypergraphRepository) UpsertBridge(ctx context.Context, n *pkgmodels.SNode) error {
	n.IsBridge = true
	n.UpdatedAt = time.Now()
	row := models.FromSNodeDomain(n)
	_, err := r.db.NewUpdate().
		Model(row).
		Column("is_bridge", "component_a_id", "component_b_id", "escrow_status", "escrow_expires_at", "pending_bounty", "updated_at").
		Where("id = ?", row.ID).
		Exec(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil
		}
		return fmt.Errorf("upsert bridge: %w", err)
	}
	return nil
}

func (r *HypergraphRepository) CreateEdge(ctx context.Context, e *pkgmodels.Edge) error {
	e.CreatedAt = time.Now()
	row := models.FromEdgeDomain(e)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	_, err := r.db.NewInsert().Model(row).Returning("*").Exec(ctx)
	if err != nil {
		return fmt.Errorf("create edge: %w", err)
	}
	*e = *models.ToEdgeDomain(row)
	return nil
}

func (r *HypergraphRepository) ListEdgesByScheme(ctx context.Context, schemeID string) ([]*pkgmodels.Edge, error) {
	var rows []*models.EdgeModel
	err := r.db.NewSelect().Model(&rows).Where("scheme_id = ?", schemeID).OrderExpr("created_at ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list edges by scheme: %w", err)
	}
	out := make([]*pkgmodels.Edge, len(rows))
	for i, row := range rows {
		out[i] = models.ToEdgeDomain(row)
	}
	return out, nil
}

func (r *HypergraphRepository) ListEdgesByINode(ctx context.Context, iNodeID string) ([]*pkgmodels.Edge, error) {
	id, err := uuid.Parse(iNodeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pkgmodels.ErrInvalidID, err)
	}
	var rows []*models.EdgeModel
	err = r.db.NewSelect().Model(&rows).Where("i_node_id = ?", id).OrderExpr("created_at ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list edges by i-node: %w", err)
	}
	out := make([]*pkgmodels.Edge, len(rows))
	for i, row := range rows {
		out[i] = models.ToEdgeDomain(row)
	}
	return out, nil
}

func (r *HypergraphRepository) CreateEnthymeme(ctx context.Context, e *pkgmodels.Enthymeme) error {
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	row := models.FromEnthymemeDomain(e)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	_, err := r.db.NewInsert().Model(row).Returning("*").Exec(ctx)
	if err != nil {
		return fmt.Errorf("create enthymeme: %w", err)
	}
	*e = *models.ToEnthymemeDomain(row)
	return nil
}

func (r *HypergraphRepository) GetEnthymeme(ctx context.Context, id string) (*pkgmodels.Enthymeme, error) {
	row := &models.EnthymemeModel{}
	err := r.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgmodels.ErrEnthymemeNotFound
		}
		return nil, fmt.Errorf("get enthymeme: %w", err)
	}
	return models.ToEnthymemeDomain(row), nil
}

func (r *HypergraphRepository) ListEnthymemesByScheme(ctx context.Context, schemeID string) ([]*pkgmodels.Enthymeme, error) {
	var rows []*models.EnthymemeModel
	err := r.db.NewSelect().Model(&rows).Where("scheme_id = ?", schemeID).OrderExpr("created_at ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list enthymemes by scheme: %w", err)
	}
	out := make([]*pkgmodels.Enthymeme, len(rows))
	for i, row := range rows {
		out[i] = models.ToEnthymemeDomain(row)
	}
	return out, nil
}

func (r *HypergraphRepository) BackfillEnthymeme(ctx context.Context, id string, replyID string) error {
	res, err := r.db.NewUpdate().
		Model((*models.EnthymemeModel)(nil)).
		Set("status = ?", string(pkgmodels.EnthymemeStatusAccepted)).
		Set("backfilled_reply_id = ?", replyID).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("backfill enthymeme: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgmodels.ErrEnthymemeNotFound
	}
	return nil
}

func (r *HypergraphRepository) CreateSocraticQuestion(ctx context.Context, q *pkgmodels.SocraticQuestion) error {
	q.CreatedAt = time.Now()
	row := models.FromSocraticQuestionDomain(q)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	_, err := r.db.NewInsert().Model(row).Returning("*").Exec(ctx)
	if err != nil {
		return fmt.Errorf("create socratic question: %w", err)
	}
	*q = *models.ToSocraticQuestionDomain(row)
	return nil
}

func (r *HypergraphRepository) GetSocraticQuestion(ctx context.Context, id string) (*pkgmodels.SocraticQuestion, error) {
	row := &models.SocraticQuestionModel{}
	err := r.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgmodels.ErrSocraticQuestionNotFound
		}
		return nil, fmt.Errorf("get socratic question: %w", err)
	}
	return models.ToSocraticQuestionDomain(row), nil
}

func (r *HypergraphRepository) ListSocraticQuestionsByScheme(ctx context.Context, schemeID string) ([]*pkgmodels.SocraticQuestion, error) {
	var rows []*models.SocraticQuestionModel
	err := r.db.NewSelect().Model(&rows).Where("scheme_id = ?", schemeID).OrderExpr("created_at ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list socratic questions by scheme: %w", err)
	}
	out := make([]*pkgmodels.SocraticQuestion, len(rows))
	for i, row := range rows {
		out[i] = models.ToSocraticQuestionDomain(row)
	}
	return out, nil
}

func (r *HypergraphRepository) ResolveSocraticQuestion(ctx context.Context, id string, replyID string) error {
	res, err := r.db.NewUpdate().
		Model((*models.SocraticQuestionModel)(nil)).
		Set("resolution_reply_id = ?", replyID).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("resolve socratic question: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgmodels.ErrSocraticQuestionNotFound
	}
	return nil
}

func (r *HypergraphRepository) CreateExtractedValue(ctx context.Context, v *pkgmodels.ExtractedValue) error {
	v.CreatedAt = time.Now()
	row := models.FromExtractedValueDomain(v)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	_, err := r.db.NewInsert().Model(row).Returning("*").Exec(ctx)
	if err != nil {
		return fmt.Errorf("create extracted value: %w", err)
	}
	*v = *models.ToExtractedValueDomain(row)
	return nil
}

func (r *HypergraphRepository) ListExtractedValuesByINode(ctx context.Context, iNodeID string) ([]*pkgmodels.ExtractedValue, error) {
	var rows []*models.ExtractedValueModel
	err := r.db.NewSelect().Model(&rows).Where("i_node_id = ?", iNodeID).OrderExpr("created_at ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list extracted values by i-node: %w", err)
	}
	out := make([]*pkgmodels.ExtractedValue, len(rows))
	for i, row := range rows {
		out[i] = models.ToExtractedValueDomain(row)
	}
	return out, nil
}

// UpsertConceptNode returns the canonical concept row for (term, definition), creating it
// if absent, so concept identity is stable across analysis runs.
func (r *HypergraphRepository) UpsertConceptNode(ctx context.Context, c *pkgmodels.ConceptNode) (*pkgmodels.ConceptNode, error) {
	c.CreatedAt = time.Now()
	row := models.FromConceptNodeDomain(c)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}

	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (term, definition) DO UPDATE").
		Set("embedding = COALESCE(EXCLUDED.embedding, agora_concept_nodes.embedding)").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("upsert concept node: %w", err)
	}
	return models.ToConceptNodeDomain(row), nil
}

func (r *HypergraphRepository) LinkINodeConcept(ctx context.Context, iNodeID, conceptID string) error {
	row := &models.INodeConceptModel{
		INodeID:   uuid.MustParse(iNodeID),
		ConceptID: uuid.MustParse(conceptID),
	}
	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (i_node_id, concept_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("link i-node concept: %w", err)
	}
	return nil
}

func (r *HypergraphRepository) ListConceptIDsByINode(ctx context.Context, iNodeID string) ([]string, error) {
	var rows []models.INodeConceptModel
	err := r.db.NewSelect().
		Model(&rows).
		Where("i_node_id = ?", iNodeID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list concept ids by i-node: %w", err)
	}
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ConceptID.String()
	}
	return ids, nil
}

func (r *HypergraphRepository) ListComponentsByConceptIDs(ctx context.Context, conceptIDs []string, excludeComponentID string) ([]string, error) {
	if len(conceptIDs) == 0 {
		return nil, nil
	}
	var componentIDs []uuid.UUID
	q := r.db.NewSelect().
		ColumnExpr("DISTINCT inode.component_id").
		TableExpr("agora_i_nodes AS inode").
		Join("JOIN agora_i_node_concepts AS inc ON inc.i_node_id = inode.id").
		Where("inc.concept_id IN (?)", bun.In(conceptIDs)).
		Where("inode.component_id IS NOT NULL")
	if excludeComponentID != "" {
		q = q.Where("inode.component_id != ?", excludeComponentID)
	}
	if err := q.Scan(ctx, &componentIDs); err != nil {
		return nil, fmt.Errorf("list components by concept ids: %w", err)
	}
	ids := make([]string, len(componentIDs))
	for i, id := range componentIDs {
		ids[i] = id.String()
	}
	return ids, nil
}

func (r *HypergraphRepository) CreateEquivocationFlag(ctx context.Context, f *pkgmodels.EquivocationFlag) error {
	f.CreatedAt = time.Now()
	row := models.FromEquivocationFlagDomain(f)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	_, err := r.db.NewInsert().Model(row).Returning("*").Exec(ctx)
	if err != nil {
		return fmt.Errorf("create equivocation flag: %w", err)
	}
	*f = *models.ToEquivocationFlagDomain(row)
	return nil
}

func (r *HypergraphRepository) ListEquivocationFlagsByScheme(ctx context.Context, schemeID string) ([]*pkgmodels.EquivocationFlag, error) {
	var rows []*models.EquivocationFlagModel
	err := r.db.NewSelect().Model(&rows).Where("scheme_id = ?", schemeID).OrderExpr("created_at ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list equivocation flags by scheme: %w", err)
	}
	out := make([]*pkgmodels.EquivocationFlag, len(rows))
	for i, row := range rows {
		out[i] = models.ToEquivocationFlagDomain(row)
	}
	return out, nil
}

// UpsertSource returns the canonical source row for a URL, creating it if absent.
func (r *HypergraphRepository) UpsertSource(ctx context.Context, s *pkgmodels.Source) (*pkgmodels.Source, error) {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	row := models.FromSourceDomain(s)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}

	q := r.db.NewInsert().Model(row)
	if row.URL != nil {
		q = q.On("CONFLICT (url) DO UPDATE").
			Set("reputation = agora_sources.reputation").
			Set("embedding = COALESCE(EXCLUDED.embedding, agora_sources.embedding)").
			Set("updated_at = EXCLUDED.updated_at")
	}
	_, err := q.Returning("*").Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("upsert source: %w", err)
	}
	return models.ToSourceDomain(row), nil
}

func (r *HypergraphRepository) GetSource(ctx context.Context, id string) (*pkgmodels.Source, error) {
	row := &models.SourceModel{}
	err := r.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgmodels.ErrSourceNotFound
		}
		return nil, fmt.Errorf("get source: %w", err)
	}
	return models.ToSourceDomain(row), nil
}

// CanonicalClaimsCount returns the number of non-defeated root-level FACT i-nodes for a
// source. The feed's controversial sort does not use it.
func (r *HypergraphRepository) CanonicalClaimsCount(ctx context.Context, sourceType, sourceID string) (int, error) {
	count, err := r.db.NewSelect().
		Model((*models.INodeModel)(nil)).
		Where("source_type = ?", sourceType).
		Where("source_id = ?", sourceID).
		Where("node_role = ?", string(pkgmodels.INodeRoleRoot)).
		Where("epistemic_type = ?", string(pkgmodels.EpistemicFact)).
		Where("is_defeated = false").
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count canonical claims: %w", err)
	}
	return count, nil
}

// ListKarmaDeltasSince aggregates i-nodes created since the given instant by the node role
// they hold and the author of the post or reply they were extracted from: ROOT nodes
// pioneer new claims, SUPPORT nodes build on them, ATTACK nodes critique them. Defeated
// nodes (routed by another scheme and no longer standing) earn nothing.
func (r *HypergraphRepository) ListKarmaDeltasSince(ctx context.Context, since time.Time) ([]pkgmodels.KarmaDelta, error) {
	var rows []struct {
		UserID       string  `bun:"user_id"`
		PioneerYield float64 `bun:"pioneer_yield"`
		BuilderYield float64 `bun:"builder_yield"`
		CriticYield  float64 `bun:"critic_yield"`
	}
	err := r.db.NewRaw(`
		WITH content_authors AS (
			SELECT id, author_id FROM agora_posts
			UNION ALL
			SELECT id, author_id FROM agora_replies
		)
		SELECT
			ca.author_id AS user_id,
			COUNT(*) FILTER (WHERE inode.node_role = 'ROOT' AND NOT inode.is_defeated) AS pioneer_yield,
			COUNT(*) FILTER (WHERE inode.node_role = 'SUPPORT' AND NOT inode.is_defeated) AS builder_yield,
			COUNT(*) FILTER (WHERE inode.node_role = 'ATTACK' AND NOT inode.is_defeated) AS critic_yield
		FROM agora_i_nodes inode
		JOIN content_authors ca ON ca.id::text = inode.source_id::text
		WHERE inode.created_at > ?
		GROUP BY ca.author_id
	`, since).Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list karma deltas: %w", err)
	}
	out := make([]pkgmodels.KarmaDelta, len(rows))
	for i, row := range rows {
		out[i] = pkgmodels.KarmaDelta{
			UserID:       row.UserID,
			PioneerYield: row.PioneerYield,
			BuilderYield: row.BuilderYield,
			CriticYield:  row.CriticYield,
		}
	}
	return out, nil
}

// SaveGraph writes every fragment of one analysis graph inside a single transaction,
// resolving ref_index cross-references (scheme -> i-node, scheme -> edge, i-node ->
// concept) to the row ids assigned during the same transaction.
func (r *HypergraphRepository) SaveGraph(ctx context.Context, runID, sourceType, sourceID string, graph *discourse.AnalysisGraph) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		txRepo := &HypergraphRepository{db: tx}

		iNodeIDs := make([]string, len(graph.INodes))
		for _, wire := range graph.INodes {
			n := &pkgmodels.INode{
				RunID:                runID,
				SourceType:           sourceType,
				SourceID:             sourceID,
				Content:              wire.Content,
				RewrittenContent:     wire.RewrittenContent,
				EpistemicType:        pkgmodels.EpistemicType(wire.EpistemicType),
				SpanStart:            wire.SpanStart,
				SpanEnd:              wire.SpanEnd,
				FVPConfidence:        wire.FVPConfidence,
				ExtractionConfidence: wire.ExtractionConfidence,
				Embedding:            wire.Embedding,
				NodeRole:             pkgmodels.INodeRoleRoot,
			}
			if wire.FactSubtype != nil {
				subtype := pkgmodels.FactSubtype(*wire.FactSubtype)
				n.FactSubtype = &subtype
			}
			if err := n.Validate(); err != nil {
				return err
			}
			if err := txRepo.CreateINode(ctx, n); err != nil {
				return fmt.Errorf("save i-node (ref %d): %w", wire.RefIndex, err)
			}
			if wire.RefIndex >= 0 && wire.RefIndex < len(iNodeIDs) {
				iNodeIDs[wire.RefIndex] = n.ID
			}
		}

		sNodeIDs := make([]string, len(graph.SNodes))
		for _, wire := range graph.SNodes {
			n := &pkgmodels.SNode{
				RunID:              runID,
				Direction:          pkgmodels.SchemeDirection(wire.Direction),
				Confidence:         wire.Confidence,
				GapDetected:        wire.GapDetected,
				FallacyType:        wire.FallacyType,
				FallacyExplanation: wire.FallacyExplanation,
				EscrowStatus:       pkgmodels.EscrowNone,
			}
			if wire.LogicType != nil {
				n.LogicType = *wire.LogicType
			}
			if err := txRepo.CreateSNode(ctx, n); err != nil {
				return fmt.Errorf("save s-node (ref %d): %w", wire.RefIndex, err)
			}
			if wire.RefIndex >= 0 && wire.RefIndex < len(sNodeIDs) {
				sNodeIDs[wire.RefIndex] = n.ID
			}
		}

		for _, wire := range graph.Edges {
			if wire.SchemeRefIndex < 0 || wire.SchemeRefIndex >= len(sNodeIDs) {
				return &pkgmodels.ValidationError{Field: "scheme_ref_index", Message: "edge references an unknown scheme"}
			}
			e := &pkgmodels.Edge{
				RunID:    runID,
				SchemeID: sNodeIDs[wire.SchemeRefIndex],
				Role:     pkgmodels.EdgeRole(wire.Role),
				SourceID: nil,
			}
			if wire.INodeRefIndex != nil {
				idx := *wire.INodeRefIndex
				if idx < 0 || idx >= len(iNodeIDs) {
					return &pkgmodels.ValidationError{Field: "i_node_ref_index", Message: "edge references an unknown i-node"}
				}
				id := iNodeIDs[idx]
				e.INodeID = &id
			}
			if wire.SourceURL != nil {
				source, err := txRepo.UpsertSource(ctx, &pkgmodels.Source{Level: pkgmodels.SourceLevelDocument, URL: wire.SourceURL})
				if err != nil {
					return fmt.Errorf("upsert edge source: %w", err)
				}
				e.SourceID = &source.ID
			}
			if err := txRepo.CreateEdge(ctx, e); err != nil {
				return fmt.Errorf("save edge: %w", err)
			}
		}

		for _, wire := range graph.Enthymemes {
			if wire.SchemeRefIndex < 0 || wire.SchemeRefIndex >= len(sNodeIDs) {
				return &pkgmodels.ValidationError{Field: "scheme_ref_index", Message: "enthymeme references an unknown scheme"}
			}
			e := &pkgmodels.Enthymeme{
				RunID:       runID,
				SchemeID:    sNodeIDs[wire.SchemeRefIndex],
				Content:     wire.Content,
				FVPType:     pkgmodels.EpistemicType(wire.FVPType),
				Probability: wire.Probability,
				Status:      pkgmodels.EnthymemeStatusPending,
			}
			if err := txRepo.CreateEnthymeme(ctx, e); err != nil {
				return fmt.Errorf("save enthymeme: %w", err)
			}
		}

		for _, wire := range graph.SocraticQuestions {
			if wire.SchemeRefIndex < 0 || wire.SchemeRefIndex >= len(sNodeIDs) {
				return &pkgmodels.ValidationError{Field: "scheme_ref_index", Message: "socratic question references an unknown scheme"}
			}
			q := &pkgmodels.SocraticQuestion{
				RunID:       runID,
				SchemeID:    sNodeIDs[wire.SchemeRefIndex],
				Question:    wire.Question,
				Uncertainty: wire.Uncertainty,
			}
			if err := txRepo.CreateSocraticQuestion(ctx, q); err != nil {
				return fmt.Errorf("save socratic question: %w", err)
			}
		}

		conceptIDsByTerm := make(map[string]string)
		for _, wire := range graph.ConceptNodes {
			if wire.INodeRefIndex < 0 || wire.INodeRefIndex >= len(iNodeIDs) {
				return &pkgmodels.ValidationError{Field: "i_node_ref_index", Message: "concept node references an unknown i-node"}
			}
			concept, err := txRepo.UpsertConceptNode(ctx, &pkgmodels.ConceptNode{Term: wire.Term, Definition: wire.Definition})
			if err != nil {
				return fmt.Errorf("upsert concept node: %w", err)
			}
			conceptIDsByTerm[wire.Term] = concept.ID
			if err := txRepo.LinkINodeConcept(ctx, iNodeIDs[wire.INodeRefIndex], concept.ID); err != nil {
				return fmt.Errorf("link i-node concept: %w", err)
			}
		}

		for _, wire := range graph.EquivocationFlags {
			if wire.SchemeRefIndex < 0 || wire.SchemeRefIndex >= len(sNodeIDs) {
				return &pkgmodels.ValidationError{Field: "scheme_ref_index", Message: "equivocation flag references an unknown scheme"}
			}
			premiseID, ok := conceptIDsByTerm[wire.PremiseConceptTerm]
			if !ok {
				continue
			}
			conclusionID, ok := conceptIDsByTerm[wire.ConclusionConceptTerm]
			if !ok {
				continue
			}
			f := &pkgmodels.EquivocationFlag{
				RunID:               runID,
				SchemeID:            sNodeIDs[wire.SchemeRefIndex],
				Term:                wire.Term,
				PremiseConceptID:    premiseID,
				ConclusionConceptID: conclusionID,
			}
			if err := txRepo.CreateEquivocationFlag(ctx, f); err != nil {
				return fmt.Errorf("save equivocation flag: %w", err)
			}
		}

		return nil
	})
}
