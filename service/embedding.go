package service

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"voicetrack/config"
	"voicetrack/constant"
	"voicetrack/dto"
	"voicetrack/entities"
	"voicetrack/pkg/diarize"
	"voicetrack/pkg/vector"
	"voicetrack/repository"
)

type EmbeddingService interface {
	// EmbedAll diarizes every project segment that has no embeddings yet.
	// Each segment is one transaction: an embedding is never left behind
	// without at least one stored speech interval, and a failed segment is
	// rolled back cleanly so the next run retries it.
	EmbedAll(ctx context.Context, project *entities.Project) dto.StageReport
}

type embeddingService struct {
	repo     repository.Repository
	diarizer diarize.Diarizer
	cfg      *config.Config
}

func NewEmbeddingService(repo repository.Repository, diarizer diarize.Diarizer, cfg *config.Config) EmbeddingService {
	return &embeddingService{repo: repo, diarizer: diarizer, cfg: cfg}
}

func (s *embeddingService) EmbedAll(ctx context.Context, project *entities.Project) dto.StageReport {
	report := dto.StageReport{Stage: constant.StageEmbed}

	audioFiles, err := s.repo.GetAudioFilesByProject(ctx, project.ProjectID)
	if err != nil {
		report.AddError(fmt.Errorf("list audio files: %w", err))
		return report
	}

	for _, audioFile := range audioFiles {
		segments, err := s.repo.GetSegmentsByAudio(ctx, audioFile.AudioID)
		if err != nil {
			report.AddError(fmt.Errorf("audio %d: %w", audioFile.AudioID, err))
			continue
		}

		for _, segment := range segments {
			exists, err := s.repo.EmbeddingExistsForSegment(ctx, segment.SegmentID)
			if err != nil {
				report.AddError(fmt.Errorf("segment %d: %w", segment.SegmentID, err))
				continue
			}
			if exists {
				zerolog.Ctx(ctx).Info().Uint("segment_id", segment.SegmentID).Msg("embeddings already exist")
				report.Skipped++
				continue
			}

			if err := s.embedSegment(ctx, segment); err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Uint("segment_id", segment.SegmentID).Msg("failed to embed segment")
				report.AddError(fmt.Errorf("segment %d: %w", segment.SegmentID, err))
				continue
			}
			report.Succeeded++
		}
	}

	return report
}

func (s *embeddingService) embedSegment(ctx context.Context, segment *entities.Segment) error {
	if _, err := os.Stat(segment.FilePath); err != nil {
		return fmt.Errorf("segment audio missing: %w", err)
	}

	tracks, err := s.diarizer.Diarize(ctx, segment.FilePath)
	if err != nil {
		return fmt.Errorf("diarize: %w", err)
	}

	minDuration := s.cfg.Pipeline.MinIntervalSeconds

	return s.repo.Transaction(ctx, func(ctx context.Context, tx repository.Repository) error {
		for _, track := range tracks {
			embedding := &entities.Embedding{
				SegmentID: segment.SegmentID,
				Vector:    vector.Encode(track.Embedding),
			}
			if err := tx.CreateEmbedding(ctx, embedding); err != nil {
				return err
			}

			stored := 0
			for _, interval := range track.Intervals {
				if interval.Duration() < minDuration {
					zerolog.Ctx(ctx).Debug().
						Str("speaker", track.Speaker).
						Float64("start", interval.Start).
						Float64("end", interval.End).
						Msg("skipping short speech interval")
					continue
				}
				timestamp := &entities.EmbeddingTimestamp{
					EmbeddingID: embedding.EmbeddingID,
					StartTime:   interval.Start,
					EndTime:     interval.End,
				}
				if err := tx.CreateEmbeddingTimestamp(ctx, timestamp); err != nil {
					return err
				}
				stored++
			}

			// A speaker whose every interval was too short leaves no trace.
			if stored == 0 {
				if err := tx.DeleteEmbedding(ctx, embedding.EmbeddingID); err != nil {
					return err
				}
				zerolog.Ctx(ctx).Info().
					Str("speaker", track.Speaker).
					Uint("segment_id", segment.SegmentID).
					Msg("no speech interval long enough, embedding discarded")
			}
		}
		return nil
	})
}
