package service

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"voicetrack/config"
	"voicetrack/constant"
	"voicetrack/dto"
	"voicetrack/entities"
	"voicetrack/pkg/audio"
	"voicetrack/repository"
)

type SegmentService interface {
	// SegmentAll splits every project audio file that has no segments yet
	// into fixed-length pieces. One failure skips that audio file only.
	SegmentAll(ctx context.Context, project *entities.Project) dto.StageReport
}

type segmentService struct {
	repo repository.Repository
	proc audio.Processor
	cfg  *config.Config
}

func NewSegmentService(repo repository.Repository, proc audio.Processor, cfg *config.Config) SegmentService {
	return &segmentService{repo: repo, proc: proc, cfg: cfg}
}

type segmentSpan struct {
	index   int
	startMs int
	endMs   int
}

// planSegments covers [0, totalMs] with ceil(total/length) contiguous,
// non-overlapping spans; only the last one may be shorter.
func planSegments(totalMs, lengthMs int) []segmentSpan {
	if totalMs <= 0 || lengthMs <= 0 {
		return nil
	}
	count := (totalMs + lengthMs - 1) / lengthMs
	spans := make([]segmentSpan, 0, count)
	for i := 0; i < count; i++ {
		end := (i + 1) * lengthMs
		if end > totalMs {
			end = totalMs
		}
		spans = append(spans, segmentSpan{index: i, startMs: i * lengthMs, endMs: end})
	}
	return spans
}

func (s *segmentService) SegmentAll(ctx context.Context, project *entities.Project) dto.StageReport {
	report := dto.StageReport{Stage: constant.StageSegment}

	audioFiles, err := s.repo.GetAudioFilesByProject(ctx, project.ProjectID)
	if err != nil {
		report.AddError(fmt.Errorf("list audio files: %w", err))
		return report
	}
	if len(audioFiles) == 0 {
		zerolog.Ctx(ctx).Info().Str("project", project.ProjectName).Msg("no audio files, nothing to segment")
		return report
	}

	for _, audioFile := range audioFiles {
		exists, err := s.repo.SegmentExistsForAudio(ctx, audioFile.AudioID)
		if err != nil {
			report.AddError(fmt.Errorf("audio %d: %w", audioFile.AudioID, err))
			continue
		}
		if exists {
			zerolog.Ctx(ctx).Info().Str("audio_path", audioFile.AudioPath).Msg("segments already exist")
			report.Skipped++
			continue
		}

		if err := s.split(ctx, audioFile); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("audio_path", audioFile.AudioPath).Msg("failed to segment audio file")
			report.AddError(fmt.Errorf("audio %d: %w", audioFile.AudioID, err))
			continue
		}
		report.Succeeded++
	}

	return report
}

func (s *segmentService) split(ctx context.Context, audioFile *entities.AudioFile) error {
	if _, err := os.Stat(audioFile.AudioPath); err != nil {
		return fmt.Errorf("audio file missing: %w", err)
	}

	segmentsDir := filepath.Join(filepath.Dir(audioFile.AudioPath), constant.SegmentsDirName)
	if err := os.MkdirAll(segmentsDir, os.ModePerm); err != nil {
		return fmt.Errorf("create segments directory: %w", err)
	}

	totalMs := int(math.Round(audioFile.DurationSeconds * 1000))
	if totalMs <= 0 {
		duration, err := s.proc.DurationSeconds(ctx, audioFile.AudioPath)
		if err != nil {
			return err
		}
		totalMs = int(math.Round(duration * 1000))
	}

	spans := planSegments(totalMs, s.cfg.Pipeline.SegmentLengthMs)
	if len(spans) == 0 {
		return fmt.Errorf("audio file has no measurable duration")
	}

	segments := make([]*entities.Segment, 0, len(spans))
	for _, span := range spans {
		fileName := fmt.Sprintf("segment_%d.wav", span.index+1)
		filePath := filepath.Join(segmentsDir, fileName)

		if err := s.proc.ExportSegment(ctx, audioFile.AudioPath, span.startMs, span.endMs, filePath); err != nil {
			return err
		}

		segments = append(segments, &entities.Segment{
			AudioID:   audioFile.AudioID,
			StartTime: float64(span.startMs) / 1000,
			EndTime:   float64(span.endMs) / 1000,
			Duration:  float64(span.endMs-span.startMs) / 1000,
			FilePath:  filePath,
			FileName:  fileName,
		})
	}

	// Files are on disk; register the whole batch or none of it, so a
	// failed run stays eligible for retry.
	err := s.repo.Transaction(ctx, func(ctx context.Context, tx repository.Repository) error {
		return tx.CreateSegments(ctx, segments)
	})
	if err != nil {
		return fmt.Errorf("register segments: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("audio_path", audioFile.AudioPath).
		Int("segments", len(segments)).
		Msg("audio file segmented")

	return nil
}
