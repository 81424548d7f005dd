package service

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"

	"voicetrack/config"
	"voicetrack/constant"
	"voicetrack/dto"
	"voicetrack/entities"
	"voicetrack/pkg/audio"
	"voicetrack/repository"
)

type FinalSegmentService interface {
	// MaterializeAll slices one standalone artifact per speech interval out
	// of its parent segment, keyed by the interval id. Export failures are
	// logged and skipped; the next run retries only the missing ones.
	MaterializeAll(ctx context.Context, project *entities.Project) dto.StageReport
}

type finalSegmentService struct {
	repo repository.Repository
	proc audio.Processor
	cfg  *config.Config
}

func NewFinalSegmentService(repo repository.Repository, proc audio.Processor, cfg *config.Config) FinalSegmentService {
	return &finalSegmentService{repo: repo, proc: proc, cfg: cfg}
}

func (s *finalSegmentService) MaterializeAll(ctx context.Context, project *entities.Project) dto.StageReport {
	report := dto.StageReport{Stage: constant.StageDerive}

	timestamps, err := s.repo.GetAllEmbeddingTimestamps(ctx)
	if err != nil {
		report.AddError(fmt.Errorf("list speech intervals: %w", err))
		return report
	}
	if len(timestamps) == 0 {
		zerolog.Ctx(ctx).Info().Msg("no speech intervals, nothing to materialize")
		return report
	}

	finalDir := filepath.Join(project.ProjectPath, constant.FinalSegmentsDirName)
	if err := os.MkdirAll(finalDir, os.ModePerm); err != nil {
		report.AddError(fmt.Errorf("create final segments directory: %w", err))
		return report
	}

	for _, timestamp := range timestamps {
		exists, err := s.repo.FinalSegmentExistsForTimestamp(ctx, timestamp.TimestampID)
		if err != nil {
			report.AddError(fmt.Errorf("interval %d: %w", timestamp.TimestampID, err))
			continue
		}
		if exists {
			report.Skipped++
			continue
		}

		if err := s.materialize(ctx, finalDir, timestamp); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Uint("timestamp_id", timestamp.TimestampID).Msg("failed to materialize interval")
			report.AddError(fmt.Errorf("interval %d: %w", timestamp.TimestampID, err))
			continue
		}
		report.Succeeded++
	}

	return report
}

func (s *finalSegmentService) materialize(ctx context.Context, finalDir string, timestamp *entities.EmbeddingTimestamp) error {
	embedding, err := s.repo.GetEmbeddingByID(ctx, timestamp.EmbeddingID)
	if err != nil {
		return err
	}
	if embedding == nil {
		return fmt.Errorf("embedding %d not found", timestamp.EmbeddingID)
	}

	segment, err := s.repo.GetSegmentByID(ctx, embedding.SegmentID)
	if err != nil {
		return err
	}
	if segment == nil {
		return fmt.Errorf("segment %d not found", embedding.SegmentID)
	}

	fileName := fmt.Sprintf("segment_%d.wav", timestamp.TimestampID)
	filePath := filepath.Join(finalDir, fileName)

	startMs := int(math.Round(timestamp.StartTime * 1000))
	endMs := int(math.Round(timestamp.EndTime * 1000))
	if err := s.proc.ExportSegment(ctx, segment.FilePath, startMs, endMs, filePath); err != nil {
		return err
	}

	finalSegment := &entities.FinalSegment{
		TimestampID: timestamp.TimestampID,
		FilePath:    filePath,
	}

	// The owning identity, when the embedding is already labeled. An
	// unlabeled embedding leaves it unset.
	assignments, err := s.repo.GetEmbeddingLabelsByEmbedding(ctx, embedding.EmbeddingID)
	if err != nil {
		return err
	}
	if len(assignments) > 0 {
		labelID := assignments[0].LabelID
		finalSegment.LabelID = &labelID
	}

	if err := s.repo.CreateFinalSegment(ctx, finalSegment); err != nil {
		return err
	}

	s.archive(ctx, filePath, fileName)

	zerolog.Ctx(ctx).Info().
		Uint("timestamp_id", timestamp.TimestampID).
		Str("file_path", filePath).
		Msg("final segment materialized")

	return nil
}

// archive uploads the artifact to object storage when a client is
// configured. Archival is best-effort and never fails the stage.
func (s *finalSegmentService) archive(ctx context.Context, filePath, fileName string) {
	if s.cfg.Storage == nil {
		return
	}
	objectName := constant.FinalSegmentsDirName + "/" + fileName
	_, err := s.cfg.Storage.FPutObject(ctx, s.cfg.MinIOBucket, objectName, filePath, minio.PutObjectOptions{
		ContentType: "audio/wav",
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("object", objectName).Msg("failed to archive final segment")
		return
	}
	zerolog.Ctx(ctx).Debug().Str("object", objectName).Msg("final segment archived")
}
