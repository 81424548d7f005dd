package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"voicetrack/constant"
	"voicetrack/dto"
	"voicetrack/entities"
	"voicetrack/pkg/transcribe"
	"voicetrack/repository"
)

type TranscriptService interface {
	// TranscribeAll sends every materialized final segment without a
	// transcript to the speech-to-text collaborator. One failure skips
	// that interval only.
	TranscribeAll(ctx context.Context) dto.StageReport
}

type transcriptService struct {
	repo        repository.Repository
	transcriber transcribe.Transcriber
}

func NewTranscriptService(repo repository.Repository, transcriber transcribe.Transcriber) TranscriptService {
	return &transcriptService{repo: repo, transcriber: transcriber}
}

func (s *transcriptService) TranscribeAll(ctx context.Context) dto.StageReport {
	report := dto.StageReport{Stage: constant.StageTranscribe}

	timestamps, err := s.repo.GetAllEmbeddingTimestamps(ctx)
	if err != nil {
		report.AddError(fmt.Errorf("list speech intervals: %w", err))
		return report
	}

	for _, timestamp := range timestamps {
		exists, err := s.repo.TranscriptExistsForTimestamp(ctx, timestamp.TimestampID)
		if err != nil {
			report.AddError(fmt.Errorf("interval %d: %w", timestamp.TimestampID, err))
			continue
		}
		if exists {
			report.Skipped++
			continue
		}

		finalSegment, err := s.repo.GetFinalSegmentByTimestamp(ctx, timestamp.TimestampID)
		if err != nil {
			report.AddError(fmt.Errorf("interval %d: %w", timestamp.TimestampID, err))
			continue
		}
		if finalSegment == nil {
			// Not materialized yet; a later run picks it up.
			zerolog.Ctx(ctx).Info().Uint("timestamp_id", timestamp.TimestampID).Msg("no final segment yet, skipping transcription")
			report.Skipped++
			continue
		}

		text, err := s.transcriber.Transcribe(ctx, finalSegment.FilePath)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Uint("timestamp_id", timestamp.TimestampID).Msg("failed to transcribe final segment")
			report.AddError(fmt.Errorf("interval %d: %w", timestamp.TimestampID, err))
			continue
		}

		transcript := &entities.Transcript{
			TimestampID: timestamp.TimestampID,
			Text:        text,
		}
		if err := s.repo.CreateTranscript(ctx, transcript); err != nil {
			report.AddError(fmt.Errorf("interval %d: %w", timestamp.TimestampID, err))
			continue
		}
		report.Succeeded++
	}

	return report
}
