// Package batch implements the batch pipeline orchestrator (C8): a multi-stage,
// checkpointed re-analysis run over a backlog of existing content, able to resume after a
// cold restart instead of resubmitting work already in flight.
package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	domaindiscourse "github.com/agoraforge/agora/internal/domain/discourse"
	"github.com/agoraforge/agora/internal/domain/repository"
	"github.com/agoraforge/agora/internal/infrastructure/objectstorage"
	"github.com/agoraforge/agora/pkg/models"
)

// stages is the fixed stage order every pipeline run advances through.
var stages = []models.BatchStage{
	models.BatchStageEmbed,
	models.BatchStageAnalyze,
	models.BatchStageIngest,
}

// Item is one piece of backlog content fed into a batch run.
type Item struct {
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id"`
	Text       string `json:"text"`
}

// embedRecord is the parsed shape of the embed stage's checkpoint blob.
type embedRecord struct {
	Item
	Embedding []float32 `json:"embedding"`
}

// analyzeRecord is the parsed shape of the analyze stage's checkpoint blob.
type analyzeRecord struct {
	Item
	Graph *domaindiscourse.AnalysisGraph `json:"graph"`
}

// gamificationBackfiller is satisfied by gamification.Service; declared locally for the
// same reason as analysis.Service's identical interface.
type gamificationBackfiller interface {
	BackfillRun(ctx context.Context, runID string) error
}

// Service drives batch pipeline runs through their checkpointed stages.
type Service struct {
	batches      repository.BatchRepository
	runs         repository.AnalysisRunRepository
	hypergraph   repository.HypergraphRepository
	discourse    domaindiscourse.Client
	storage      objectstorage.Provider
	gamification gamificationBackfiller
}

func NewService(batches repository.BatchRepository, runs repository.AnalysisRunRepository, hypergraph repository.HypergraphRepository, discourse domaindiscourse.Client, storage objectstorage.Provider, gamification gamificationBackfiller) *Service {
	return &Service{batches: batches, runs: runs, hypergraph: hypergraph, discourse: discourse, storage: storage, gamification: gamification}
}

// StartRun persists the seed item list and submits the first (embed) stage, returning the
// created run immediately; the run advances to completion via repeated AdvanceAll calls.
func (s *Service) StartRun(ctx context.Context, sourceType string, items []Item) (*models.BatchPipelineRun, error) {
	if len(items) == 0 {
		return nil, &models.ValidationError{Field: "items", Message: "at least one item is required"}
	}

	seed, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal seed items: %w", err)
	}

	run := &models.BatchPipelineRun{
		ID:         uuid.New().String(),
		Status:     models.BatchRunStatusRunning,
		SourceType: sourceType,
		TextCount:  len(items),
	}

	seedPath, err := s.storage.Put(ctx, fmt.Sprintf("batch/%s/seed.json", run.ID), bytes.NewReader(seed))
	if err != nil {
		return nil, fmt.Errorf("store seed items: %w", err)
	}
	run.SeedGCSPath = &seedPath

	if err := s.batches.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("create batch run: %w", err)
	}

	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text
	}
	if err := s.submitStage(ctx, run.ID, models.BatchStageEmbed, texts); err != nil {
		msg := err.Error()
		_ = s.batches.UpdateRunStatus(ctx, run.ID, models.BatchRunStatusFailed, &msg)
		run.Status = models.BatchRunStatusFailed
		run.ErrorMessage = &msg
		return run, nil
	}

	return run, nil
}

// submitStage submits a fresh batch job for a stage and records its checkpoint.
func (s *Service) submitStage(ctx context.Context, runID string, stage models.BatchStage, texts []string) error {
	handle, err := s.discourse.BatchSubmit(ctx, texts)
	if err != nil {
		return fmt.Errorf("submit %s stage: %w", stage, err)
	}
	cp := &models.BatchCheckpoint{
		RunID:         runID,
		Stage:         stage,
		GeminiJobName: &handle.JobName,
		RequestCount:  len(texts),
		Completed:     false,
	}
	if err := s.batches.UpsertCheckpoint(ctx, cp); err != nil {
		return fmt.Errorf("persist %s checkpoint: %w", stage, err)
	}
	return nil
}

// AdvanceAll advances every non-terminal pipeline run by one unit of work: polling any
// in-flight job, and submitting the next stage once its predecessor's checkpoint completes.
// Safe to call repeatedly and after a cold restart, since it always re-derives progress
// from the persisted checkpoints rather than in-memory state.
func (s *Service) AdvanceAll(ctx context.Context) (int, error) {
	runs, err := s.batches.ListIncompleteRuns(ctx)
	if err != nil {
		return 0, fmt.Errorf("list incomplete batch runs: %w", err)
	}
	advanced := 0
	for _, run := range runs {
		if err := s.advanceRun(ctx, run); err != nil {
			msg := err.Error()
			_ = s.batches.UpdateRunStatus(ctx, run.ID, models.BatchRunStatusFailed, &msg)
			continue
		}
		advanced++
	}
	return advanced, nil
}

// advanceRun walks the stage sequence for a single run: it skips stages already
// completed, re-polls a stage with a job in flight, and submits the next stage once its
// predecessor's output is available. It returns after performing at most one remote-stage
// transition per call, letting the caller's poll loop pace the work; the local ingest stage
// and the run's completion happen together in the call that finds analyze complete.
func (s *Service) advanceRun(ctx context.Context, run *models.BatchPipelineRun) error {
	checkpoints, err := s.batches.ListCheckpoints(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("list checkpoints: %w", err)
	}
	byStage := make(map[models.BatchStage]*models.BatchCheckpoint, len(checkpoints))
	for _, cp := range checkpoints {
		byStage[cp.Stage] = cp
	}

	for i, stage := range stages {
		cp := byStage[stage]

		if cp != nil && cp.Completed {
			continue
		}

		// The ingest stage is a local write, not a remote job: once the analyze stage's
		// output is available it runs synchronously and is marked complete immediately.
		if stage == models.BatchStageIngest {
			if cp != nil {
				return nil
			}
			analyzeCP := byStage[models.BatchStageAnalyze]
			if analyzeCP == nil || !analyzeCP.Completed || analyzeCP.GCSPath == nil {
				return nil
			}
			if err := s.ingest(ctx, run, *analyzeCP.GCSPath); err != nil {
				return fmt.Errorf("ingest stage: %w", err)
			}
			if err := s.batches.UpsertCheckpoint(ctx, &models.BatchCheckpoint{
				RunID:     run.ID,
				Stage:     models.BatchStageIngest,
				Completed: true,
			}); err != nil {
				return fmt.Errorf("complete ingest checkpoint: %w", err)
			}
			continue
		}

		if cp == nil {
			var prev []Item
			var err error
			if i == 0 {
				prev, err = s.loadSeed(ctx, run)
			} else {
				prev, err = s.loadStageOutput(ctx, run, stages[i-1])
			}
			if err != nil {
				return fmt.Errorf("load input for %s stage: %w", stage, err)
			}
			texts := make([]string, len(prev))
			for j, item := range prev {
				texts[j] = item.Text
			}
			return s.submitStage(ctx, run.ID, stage, texts)
		}

		if cp.GeminiJobName == nil {
			return nil
		}
		status, err := s.discourse.BatchPoll(ctx, *cp.GeminiJobName)
		if err != nil {
			return fmt.Errorf("poll %s stage: %w", stage, err)
		}
		if !status.Done {
			return nil
		}
		if status.Error != "" {
			return fmt.Errorf("%s stage failed: %s", stage, status.Error)
		}

		cp.GCSPath = &status.GCSPath
		cp.Completed = true
		if err := s.batches.UpsertCheckpoint(ctx, cp); err != nil {
			return fmt.Errorf("complete %s checkpoint: %w", stage, err)
		}
		return nil
	}

	return s.batches.UpdateRunStatus(ctx, run.ID, models.BatchRunStatusCompleted, nil)
}

// loadStageOutput resolves a completed stage's checkpoint blob into the item list that
// feeds the next stage.
func (s *Service) loadStageOutput(ctx context.Context, run *models.BatchPipelineRun, prevStage models.BatchStage) ([]Item, error) {
	cp, err := s.batches.GetCheckpoint(ctx, run.ID, prevStage)
	if err != nil {
		return nil, err
	}
	if cp == nil || !cp.Completed || cp.GCSPath == nil {
		return nil, fmt.Errorf("stage %s has no completed checkpoint", prevStage)
	}

	data, err := s.readBlob(ctx, *cp.GCSPath)
	if err != nil {
		return nil, err
	}

	switch prevStage {
	case models.BatchStageEmbed:
		var records []embedRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse embed checkpoint: %w", err)
		}
		items := make([]Item, len(records))
		for i, r := range records {
			items[i] = r.Item
		}
		return items, nil
	default:
		var records []analyzeRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse analyze checkpoint: %w", err)
		}
		items := make([]Item, len(records))
		for i, r := range records {
			items[i] = r.Item
		}
		return items, nil
	}
}

func (s *Service) loadSeed(ctx context.Context, run *models.BatchPipelineRun) ([]Item, error) {
	if run.SeedGCSPath == nil {
		return nil, fmt.Errorf("run has no seed path")
	}
	data, err := s.readBlob(ctx, *run.SeedGCSPath)
	if err != nil {
		return nil, err
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse seed items: %w", err)
	}
	return items, nil
}

func (s *Service) readBlob(ctx context.Context, path string) ([]byte, error) {
	rc, err := s.storage.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", path, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ingest is the local, non-remote final step of the pipeline: for every item it creates a
// terminal analysis run and persists its hypergraph fragment, the same way the live
// per-content path does, except the graph was already produced by the analyze stage
// instead of a synchronous discourse engine call.
func (s *Service) ingest(ctx context.Context, run *models.BatchPipelineRun, gcsPath string) error {
	data, err := s.readBlob(ctx, gcsPath)
	if err != nil {
		return err
	}
	var records []analyzeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse analyze checkpoint: %w", err)
	}

	for _, rec := range records {
		sourceType := models.AnalysisSourceType(rec.SourceType)
		analysisRun := &models.AnalysisRun{
			SourceType:  sourceType,
			SourceID:    rec.SourceID,
			ContentHash: "",
			Status:      models.AnalysisStatusProcessing,
		}
		if err := s.runs.Create(ctx, analysisRun); err != nil {
			return fmt.Errorf("create analysis run for %s/%s: %w", rec.SourceType, rec.SourceID, err)
		}

		if rec.Graph == nil || (len(rec.Graph.INodes) == 0 && len(rec.Graph.SNodes) == 0) {
			msg := "discourse engine returned no analysis"
			_ = s.runs.UpdateStatus(ctx, analysisRun.ID, models.AnalysisStatusFailed, &msg)
			continue
		}

		if err := s.hypergraph.SaveGraph(ctx, analysisRun.ID, rec.SourceType, rec.SourceID, rec.Graph); err != nil {
			msg := fmt.Sprintf("failed to persist hypergraph: %v", err)
			_ = s.runs.UpdateStatus(ctx, analysisRun.ID, models.AnalysisStatusFailed, &msg)
			continue
		}

		if s.gamification != nil {
			if err := s.gamification.BackfillRun(ctx, analysisRun.ID); err != nil {
				msg := fmt.Sprintf("failed to backfill gamification state: %v", err)
				_ = s.runs.UpdateStatus(ctx, analysisRun.ID, models.AnalysisStatusFailed, &msg)
				continue
			}
		}

		_ = s.runs.UpdateStatus(ctx, analysisRun.ID, models.AnalysisStatusCompleted, nil)
	}

	return nil
}

// GetRun returns a single batch pipeline run by id.
func (s *Service) GetRun(ctx context.Context, id string) (*models.BatchPipelineRun, error) {
	run, err := s.batches.GetRun(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get batch run: %w", err)
	}
	if run == nil {
		return nil, models.ErrBatchRunNotFound
	}
	return run, nil
}
