package service

import (
	"context"

	"github.com/rs/zerolog"

	"voicetrack/repository"
)

type PlaybackService interface {
	// SegmentPathsByLabel returns the ordered audio paths attributed to a
	// speaker label: final segments when materialized, raw parent segments
	// otherwise. An unknown label yields an empty result.
	SegmentPathsByLabel(ctx context.Context, labelName string) ([]string, error)
}

type playbackService struct {
	repo repository.Repository
}

func NewPlaybackService(repo repository.Repository) PlaybackService {
	return &playbackService{repo: repo}
}

func (s *playbackService) SegmentPathsByLabel(ctx context.Context, labelName string) ([]string, error) {
	label, err := s.repo.GetLabelByName(ctx, labelName)
	if err != nil {
		return nil, err
	}
	if label == nil {
		zerolog.Ctx(ctx).Info().Str("label", labelName).Msg("label does not exist")
		return nil, nil
	}

	finalSegments, err := s.repo.GetFinalSegmentsByLabel(ctx, label.LabelID)
	if err != nil {
		return nil, err
	}
	if len(finalSegments) > 0 {
		paths := make([]string, 0, len(finalSegments))
		for _, finalSegment := range finalSegments {
			paths = append(paths, finalSegment.FilePath)
		}
		return paths, nil
	}

	// Degraded mode before materialization: fall back to the raw parent
	// segments of every embedding carrying the label.
	assignments, err := s.repo.GetEmbeddingLabelsByLabel(ctx, label.LabelID)
	if err != nil {
		return nil, err
	}

	var paths []string
	seen := map[string]bool{}
	for _, assignment := range assignments {
		embedding, err := s.repo.GetEmbeddingByID(ctx, assignment.EmbeddingID)
		if err != nil {
			return nil, err
		}
		if embedding == nil {
			continue
		}
		segment, err := s.repo.GetSegmentByID(ctx, embedding.SegmentID)
		if err != nil {
			return nil, err
		}
		if segment == nil || seen[segment.FilePath] {
			continue
		}
		seen[segment.FilePath] = true
		paths = append(paths, segment.FilePath)
	}
	return paths, nil
}
