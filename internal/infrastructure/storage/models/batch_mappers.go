package models

import pkgmodels "github.com/agoraforge/agora/pkg/models"

func ToBatchPipelineRunDomain(m *BatchPipelineRunModel) *pkgmodels.BatchPipelineRun {
	if m == nil {
		return nil
	}
	return &pkgmodels.BatchPipelineRun{
		ID:           m.ID,
		Status:       pkgmodels.BatchRunStatus(m.Status),
		SourceType:   m.SourceType,
		TextCount:    m.TextCount,
		SeedGCSPath:  m.SeedGCSPath,
		ErrorMessage: m.ErrorMessage,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func FromBatchPipelineRunDomain(r *pkgmodels.BatchPipelineRun) *BatchPipelineRunModel {
	if r == nil {
		return nil
	}
	return &BatchPipelineRunModel{
		ID:           r.ID,
		Status:       string(r.Status),
		SourceType:   r.SourceType,
		TextCount:    r.TextCount,
		SeedGCSPath:  r.SeedGCSPath,
		ErrorMessage: r.ErrorMessage,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func ToBatchCheckpointDomain(m *BatchCheckpointModel) *pkgmodels.BatchCheckpoint {
	if m == nil {
		return nil
	}
	return &pkgmodels.BatchCheckpoint{
		ID:            m.ID,
		RunID:         m.RunID,
		Stage:         pkgmodels.BatchStage(m.Stage),
		GeminiJobName: m.GeminiJobName,
		RequestCount:  m.RequestCount,
		GCSPath:       m.GCSPath,
		Completed:     m.Completed,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func FromBatchCheckpointDomain(c *pkgmodels.BatchCheckpoint) *BatchCheckpointModel {
	if c == nil {
		return nil
	}
	return &BatchCheckpointModel{
		ID:            c.ID,
		RunID:         c.RunID,
		Stage:         string(c.Stage),
		GeminiJobName: c.GeminiJobName,
		RequestCount:  c.RequestCount,
		GCSPath:       c.GCSPath,
		Completed:     c.Completed,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
