// Package analysis implements the analysis run tracker: the content-addressed state
// machine that drives a single post or reply through the external discourse engine and
// into the hypergraph store.
package analysis

import (
	"context"
	"fmt"
	"time"

	domaindiscourse "github.com/agoraforge/agora/internal/domain/discourse"
	"github.com/agoraforge/agora/internal/domain/repository"
	"github.com/agoraforge/agora/pkg/models"
)

// StuckThreshold is how long a run may sit in "processing" before the staleness sweep
// considers it stuck.
const StuckThreshold = time.Hour

// gamificationBackfiller is satisfied by gamification.Service; declared locally to avoid
// analysis depending on the gamification package's other wiring (users/posts/replies
// repositories, notification service) it doesn't otherwise need.
type gamificationBackfiller interface {
	BackfillRun(ctx context.Context, runID string) error
}

// Service drives analysis runs through pending -> processing -> {completed, failed}.
type Service struct {
	runs          repository.AnalysisRunRepository
	hypergraph    repository.HypergraphRepository
	discourse     domaindiscourse.Client
	gamification  gamificationBackfiller
}

func NewService(runs repository.AnalysisRunRepository, hypergraph repository.HypergraphRepository, discourse domaindiscourse.Client, gamification gamificationBackfiller) *Service {
	return &Service{runs: runs, hypergraph: hypergraph, discourse: discourse, gamification: gamification}
}

// Submit starts (or returns the existing) analysis run for a piece of content, then runs
// the analysis synchronously against the discourse engine. Retrying identical content
// while a non-terminal run exists returns that run unchanged.
func (s *Service) Submit(ctx context.Context, sourceType models.AnalysisSourceType, sourceID, content, contentHash string) (*models.AnalysisRun, error) {
	existing, err := s.runs.GetNonTerminal(ctx, sourceType, sourceID, contentHash)
	if err != nil {
		return nil, fmt.Errorf("check for non-terminal run: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	run := &models.AnalysisRun{
		SourceType:  sourceType,
		SourceID:    sourceID,
		ContentHash: contentHash,
		Status:      models.AnalysisStatusPending,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("create analysis run: %w", err)
	}

	s.process(ctx, run, content)
	return run, nil
}

// process drives one run from pending through to a terminal state. Failures are recorded
// on the run rather than propagated, since the run row is the caller-visible result.
func (s *Service) process(ctx context.Context, run *models.AnalysisRun, content string) {
	if err := s.runs.UpdateStatus(ctx, run.ID, models.AnalysisStatusProcessing, nil); err != nil {
		return
	}
	run.Status = models.AnalysisStatusProcessing

	graph, err := s.discourse.Analyze(ctx, content, string(run.SourceType), run.SourceID)
	if err != nil {
		msg := err.Error()
		_ = s.runs.UpdateStatus(ctx, run.ID, models.AnalysisStatusFailed, &msg)
		run.Status = models.AnalysisStatusFailed
		run.ErrorMessage = &msg
		return
	}

	if len(graph.INodes) == 0 && len(graph.SNodes) == 0 {
		msg := "discourse engine returned no analysis"
		_ = s.runs.UpdateStatus(ctx, run.ID, models.AnalysisStatusFailed, &msg)
		run.Status = models.AnalysisStatusFailed
		run.ErrorMessage = &msg
		return
	}

	if err := s.hypergraph.SaveGraph(ctx, run.ID, string(run.SourceType), run.SourceID, graph); err != nil {
		msg := fmt.Sprintf("failed to persist hypergraph: %v", err)
		_ = s.runs.UpdateStatus(ctx, run.ID, models.AnalysisStatusFailed, &msg)
		run.Status = models.AnalysisStatusFailed
		run.ErrorMessage = &msg
		return
	}

	if s.gamification != nil {
		if err := s.gamification.BackfillRun(ctx, run.ID); err != nil {
			msg := fmt.Sprintf("failed to backfill gamification state: %v", err)
			_ = s.runs.UpdateStatus(ctx, run.ID, models.AnalysisStatusFailed, &msg)
			run.Status = models.AnalysisStatusFailed
			run.ErrorMessage = &msg
			return
		}
	}

	_ = s.runs.UpdateStatus(ctx, run.ID, models.AnalysisStatusCompleted, nil)
	run.Status = models.AnalysisStatusCompleted
}

func (s *Service) Get(ctx context.Context, id string) (*models.AnalysisRun, error) {
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get analysis run: %w", err)
	}
	if run == nil {
		return nil, models.ErrAnalysisRunNotFound
	}
	return run, nil
}

func (s *Service) ListBySource(ctx context.Context, sourceType models.AnalysisSourceType, sourceID string) ([]*models.AnalysisRun, error) {
	runs, err := s.runs.ListBySource(ctx, sourceType, sourceID)
	if err != nil {
		return nil, fmt.Errorf("list analysis runs: %w", err)
	}
	return runs, nil
}

// SweepStale marks any run that has sat in "processing" past StuckThreshold as failed,
// per the staleness policy. Intended to be called periodically.
func (s *Service) SweepStale(ctx context.Context) (int, error) {
	runs, err := s.runs.ListStaleProcessing(ctx, time.Now().Add(-StuckThreshold))
	if err != nil {
		return 0, fmt.Errorf("list stale analysis runs: %w", err)
	}
	swept := 0
	msg := "analysis run exceeded the processing staleness threshold"
	for _, run := range runs {
		if err := s.runs.UpdateStatus(ctx, run.ID, models.AnalysisStatusFailed, &msg); err != nil {
			continue
		}
		swept++
	}
	return swept, nil
}
