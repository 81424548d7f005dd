package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"voicetrack/dto"
)

// Service runs the full pipeline for one project: acquire audio, split it
// into segments, diarize each segment into embeddings and speech
// intervals, cluster embeddings into speaker identities, materialize one
// artifact per interval, and transcribe the artifacts. Every stage is
// guarded by the store, so invoking Run repeatedly over a growing project
// never duplicates work or files. Stages run strictly in order and each
// one reports per-artifact outcomes instead of aborting the run.
type Service interface {
	Run(ctx context.Context, projectName string) (*dto.RunReport, error)
}

type pipelineService struct {
	projects    ProjectService
	download    DownloadService
	segments    SegmentService
	embeddings  EmbeddingService
	labels      LabelService
	finals      FinalSegmentService
	transcripts TranscriptService
}

func NewService(
	projects ProjectService,
	download DownloadService,
	segments SegmentService,
	embeddings EmbeddingService,
	labels LabelService,
	finals FinalSegmentService,
	transcripts TranscriptService,
) Service {
	return &pipelineService{
		projects:    projects,
		download:    download,
		segments:    segments,
		embeddings:  embeddings,
		labels:      labels,
		finals:      finals,
		transcripts: transcripts,
	}
}

func (s *pipelineService) Run(ctx context.Context, projectName string) (*dto.RunReport, error) {
	project, err := s.projects.CreateOrGet(ctx, projectName)
	if err != nil {
		return nil, fmt.Errorf("resolve project %q: %w", projectName, err)
	}

	zerolog.Ctx(ctx).Info().Str("project", projectName).Msg("pipeline run started")

	report := &dto.RunReport{ProjectName: projectName}
	report.Add(s.download.DownloadAll(ctx, project))
	report.Add(s.segments.SegmentAll(ctx, project))
	report.Add(s.embeddings.EmbedAll(ctx, project))
	report.Add(s.labels.ClusterAndLabel(ctx))
	report.Add(s.finals.MaterializeAll(ctx, project))
	report.Add(s.transcripts.TranscribeAll(ctx))

	for _, stage := range report.Stages {
		zerolog.Ctx(ctx).Info().
			Str("stage", stage.Stage.String()).
			Int("succeeded", stage.Succeeded).
			Int("skipped", stage.Skipped).
			Int("failed", stage.Failed).
			Msg("stage finished")
	}

	if report.Failed() {
		zerolog.Ctx(ctx).Warn().Str("project", projectName).Msg("pipeline run finished with failures")
	} else {
		zerolog.Ctx(ctx).Info().Str("project", projectName).Msg("pipeline run finished")
	}

	return report, nil
}
