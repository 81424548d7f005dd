package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"voicetrack/config"
	"voicetrack/constant"
	"voicetrack/dto"
	"voicetrack/entities"
	"voicetrack/pkg/cluster"
	"voicetrack/pkg/vector"
	"voicetrack/repository"
)

type LabelService interface {
	// ClusterAndLabel groups every embedding in the store into speaker
	// identities and records the assignments. The whole run is one
	// transaction. Assignments are insert-only: re-clustering after new
	// embeddings arrive may add a second label to an embedding; earlier
	// rows are never touched. Call PruneLabels to reconcile explicitly.
	ClusterAndLabel(ctx context.Context) dto.StageReport
	// PruneLabels keeps only the most recent assignment per embedding and
	// returns how many older rows were removed.
	PruneLabels(ctx context.Context) (int64, error)
	ListLabels(ctx context.Context) ([]dto.LabelSummary, error)
	RenameLabel(ctx context.Context, oldName, newName string) error
	LabelInfo(ctx context.Context, labelName string) ([]dto.LabelIntervalInfo, error)
}

type labelService struct {
	repo repository.Repository
	cfg  *config.Config
}

func NewLabelService(repo repository.Repository, cfg *config.Config) LabelService {
	return &labelService{repo: repo, cfg: cfg}
}

func (s *labelService) ClusterAndLabel(ctx context.Context) dto.StageReport {
	report := dto.StageReport{Stage: constant.StageCluster}

	embeddings, err := s.repo.GetAllEmbeddings(ctx)
	if err != nil {
		report.AddError(fmt.Errorf("load embeddings: %w", err))
		return report
	}
	if len(embeddings) == 0 {
		zerolog.Ctx(ctx).Info().Msg("no embeddings in the store, nothing to cluster")
		return report
	}

	vectors := make([][]float32, len(embeddings))
	for i, embedding := range embeddings {
		v, err := vector.Decode(embedding.Vector)
		if err != nil {
			report.AddError(fmt.Errorf("embedding %d: %w", embedding.EmbeddingID, err))
			return report
		}
		vectors[i] = v
	}

	clusterIDs, err := cluster.WardCut(vectors, s.cfg.Pipeline.DistanceThreshold)
	if err != nil {
		report.AddError(fmt.Errorf("clustering: %w", err))
		return report
	}

	err = s.repo.Transaction(ctx, func(ctx context.Context, tx repository.Repository) error {
		// Resolve each cluster to a label row, reusing rows by exact name.
		labelIDs := make(map[int]uint)
		for _, clusterID := range clusterIDs {
			if _, done := labelIDs[clusterID]; done {
				continue
			}
			labelName := fmt.Sprintf(constant.SpeakerLabelFormat, clusterID)
			label, err := tx.GetLabelByName(ctx, labelName)
			if err != nil {
				return err
			}
			if label == nil {
				label = &entities.LabelName{LabelName: labelName}
				if err := tx.CreateLabel(ctx, label); err != nil {
					return err
				}
			}
			labelIDs[clusterID] = label.LabelID
		}

		for i, embedding := range embeddings {
			labelID := labelIDs[clusterIDs[i]]
			exists, err := tx.EmbeddingLabelExists(ctx, embedding.EmbeddingID, labelID)
			if err != nil {
				return err
			}
			if exists {
				report.Skipped++
				continue
			}
			assignment := &entities.EmbeddingLabel{
				EmbeddingID: embedding.EmbeddingID,
				LabelID:     labelID,
			}
			if err := tx.CreateEmbeddingLabel(ctx, assignment); err != nil {
				return err
			}
			report.Succeeded++
		}
		return nil
	})
	if err != nil {
		// All-or-nothing: the transaction rolled back every assignment.
		report = dto.StageReport{Stage: constant.StageCluster}
		report.AddError(fmt.Errorf("clustering run rolled back: %w", err))
		return report
	}

	clusters := map[int]bool{}
	for _, id := range clusterIDs {
		clusters[id] = true
	}
	zerolog.Ctx(ctx).Info().
		Int("embeddings", len(embeddings)).
		Int("clusters", len(clusters)).
		Int("new_assignments", report.Succeeded).
		Msg("embeddings clustered and labeled")

	return report
}

func (s *labelService) PruneLabels(ctx context.Context) (int64, error) {
	embeddings, err := s.repo.GetAllEmbeddings(ctx)
	if err != nil {
		return 0, err
	}

	var removed int64
	err = s.repo.Transaction(ctx, func(ctx context.Context, tx repository.Repository) error {
		for _, embedding := range embeddings {
			assignments, err := tx.GetEmbeddingLabelsByEmbedding(ctx, embedding.EmbeddingID)
			if err != nil {
				return err
			}
			if len(assignments) < 2 {
				continue
			}
			// Highest row id is the latest clustering run's assignment.
			keep := assignments[0]
			for _, assignment := range assignments[1:] {
				if assignment.EmbeddingLabelID > keep.EmbeddingLabelID {
					keep = assignment
				}
			}
			n, err := tx.DeleteEmbeddingLabelsBefore(ctx, embedding.EmbeddingID, keep.LabelID)
			if err != nil {
				return err
			}
			removed += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *labelService) ListLabels(ctx context.Context) ([]dto.LabelSummary, error) {
	labels, err := s.repo.ListLabels(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.LabelSummary, 0, len(labels))
	for _, label := range labels {
		count, err := s.repo.CountEmbeddingsByLabel(ctx, label.LabelID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, dto.LabelSummary{
			LabelID:    label.LabelID,
			LabelName:  label.LabelName,
			Embeddings: count,
		})
	}
	return summaries, nil
}

func (s *labelService) RenameLabel(ctx context.Context, oldName, newName string) error {
	label, err := s.repo.GetLabelByName(ctx, oldName)
	if err != nil {
		return err
	}
	if label == nil {
		return fmt.Errorf("label %q does not exist", oldName)
	}

	taken, err := s.repo.GetLabelByName(ctx, newName)
	if err != nil {
		return err
	}
	if taken != nil {
		return fmt.Errorf("label name %q is already in use", newName)
	}

	return s.repo.RenameLabel(ctx, label.LabelID, newName)
}

func (s *labelService) LabelInfo(ctx context.Context, labelName string) ([]dto.LabelIntervalInfo, error) {
	label, err := s.repo.GetLabelByName(ctx, labelName)
	if err != nil {
		return nil, err
	}
	if label == nil {
		zerolog.Ctx(ctx).Info().Str("label", labelName).Msg("label does not exist")
		return nil, nil
	}

	assignments, err := s.repo.GetEmbeddingLabelsByLabel(ctx, label.LabelID)
	if err != nil {
		return nil, err
	}

	var infos []dto.LabelIntervalInfo
	for _, assignment := range assignments {
		embedding, err := s.repo.GetEmbeddingByID(ctx, assignment.EmbeddingID)
		if err != nil {
			return nil, err
		}
		if embedding == nil {
			continue
		}
		timestamps, err := s.repo.GetTimestampsByEmbedding(ctx, embedding.EmbeddingID)
		if err != nil {
			return nil, err
		}
		for _, timestamp := range timestamps {
			info := dto.LabelIntervalInfo{
				SegmentID:   embedding.SegmentID,
				TimestampID: timestamp.TimestampID,
				StartTime:   timestamp.StartTime,
				EndTime:     timestamp.EndTime,
			}
			if finalSegment, err := s.repo.GetFinalSegmentByTimestamp(ctx, timestamp.TimestampID); err == nil && finalSegment != nil {
				info.FilePath = finalSegment.FilePath
			}
			infos = append(infos, info)
		}
	}
	return infos, nil
}
