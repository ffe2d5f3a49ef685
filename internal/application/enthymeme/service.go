// Package enthymeme implements the enthymeme backfill: turning a machine-suggested
// unstated premise into a human-legible reply authored by the system account.
package enthymeme

import (
	"context"
	"fmt"

	"github.com/agoraforge/agora/internal/application/content"
	"github.com/agoraforge/agora/internal/domain/repository"
	"github.com/agoraforge/agora/pkg/models"
)

// Service backfills enthymemes into the reply tree.
type Service struct {
	hypergraph  repository.HypergraphRepository
	runs        repository.AnalysisRunRepository
	content     *content.Service
	systemUserID string
}

func NewService(hypergraph repository.HypergraphRepository, runs repository.AnalysisRunRepository, content *content.Service, systemUserID string) *Service {
	return &Service{hypergraph: hypergraph, runs: runs, content: content, systemUserID: systemUserID}
}

// Backfill walks scheme -> analysis run to recover the original source, then posts a
// system-authored reply carrying the enthymeme's content: a root reply if the source is
// a post, or a child of the source reply if the source is itself a reply.
func (s *Service) Backfill(ctx context.Context, enthymemeID string) (*models.Reply, error) {
	ent, err := s.hypergraph.GetEnthymeme(ctx, enthymemeID)
	if err != nil {
		return nil, fmt.Errorf("get enthymeme: %w", err)
	}
	if ent.Status == models.EnthymemeStatusAccepted {
		return nil, models.ErrConflict
	}

	scheme, err := s.hypergraph.GetSNode(ctx, ent.SchemeID)
	if err != nil {
		return nil, fmt.Errorf("get scheme: %w", err)
	}
	run, err := s.runs.GetByID(ctx, scheme.RunID)
	if err != nil {
		return nil, fmt.Errorf("get analysis run: %w", err)
	}
	if run == nil {
		return nil, models.ErrAnalysisRunNotFound
	}

	var postID string
	var parentReplyID *string
	switch run.SourceType {
	case models.AnalysisSourcePost:
		postID = run.SourceID
	case models.AnalysisSourceReply:
		reply, err := s.content.GetReply(ctx, run.SourceID)
		if err != nil {
			return nil, fmt.Errorf("get source reply: %w", err)
		}
		postID = reply.PostID
		sourceID := run.SourceID
		parentReplyID = &sourceID
	default:
		return nil, &models.ValidationError{Field: "source_type", Message: "unknown analysis source type"}
	}

	reply, err := s.content.CreateReply(ctx, s.systemUserID, postID, parentReplyID, ent.Content, nil, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create backfill reply: %w", err)
	}

	if err := s.hypergraph.BackfillEnthymeme(ctx, enthymemeID, reply.ID); err != nil {
		return nil, fmt.Errorf("mark enthymeme backfilled: %w", err)
	}
	return reply, nil
}
