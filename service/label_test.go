package service

import (
	"context"
	"testing"

	"voicetrack/entities"
)

func TestClusterAndLabelGroupsNearbyEmbeddings(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	cfg := newTestConfig(t)

	_, audioFile := seedAudioFile(t, repo, 10)
	segment := seedSegment(t, repo, audioFile, 0, 3)

	a := seedEmbedding(t, repo, segment, []float32{0, 0})
	b := seedEmbedding(t, repo, segment, []float32{0, 0.1})
	c := seedEmbedding(t, repo, segment, []float32{5, 5})

	svc := NewLabelService(repo, cfg)
	report := svc.ClusterAndLabel(ctx)
	if report.Failed != 0 || report.Succeeded != 3 {
		t.Fatalf("failed=%d succeeded=%d, want 0/3", report.Failed, report.Succeeded)
	}

	labels, err := repo.ListLabels(ctx)
	if err != nil {
		t.Fatalf("list labels: %v", err)
	}
	if len(labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(labels))
	}
	if labels[0].LabelName != "Speaker 1" || labels[1].LabelName != "Speaker 2" {
		t.Errorf("label names %q, %q, want Speaker 1, Speaker 2", labels[0].LabelName, labels[1].LabelName)
	}

	labelOf := func(embedding *entities.Embedding) uint {
		assignments, err := repo.GetEmbeddingLabelsByEmbedding(ctx, embedding.EmbeddingID)
		if err != nil {
			t.Fatalf("assignments of embedding %d: %v", embedding.EmbeddingID, err)
		}
		if len(assignments) != 1 {
			t.Fatalf("embedding %d has %d assignments, want 1", embedding.EmbeddingID, len(assignments))
		}
		return assignments[0].LabelID
	}
	if labelOf(a) != labelOf(b) {
		t.Errorf("close embeddings got different labels")
	}
	if labelOf(a) == labelOf(c) {
		t.Errorf("distant embedding shares a label with the close pair")
	}
}

func TestClusterAndLabelIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	cfg := newTestConfig(t)

	_, audioFile := seedAudioFile(t, repo, 10)
	segment := seedSegment(t, repo, audioFile, 0, 3)
	seedEmbedding(t, repo, segment, []float32{0, 0})
	seedEmbedding(t, repo, segment, []float32{0, 0.1})

	svc := NewLabelService(repo, cfg)
	if report := svc.ClusterAndLabel(ctx); report.Failed != 0 {
		t.Fatalf("first run failed: %+v", report)
	}

	report := svc.ClusterAndLabel(ctx)
	if report.Succeeded != 0 || report.Skipped != 2 {
		t.Fatalf("second run: succeeded=%d skipped=%d, want 0/2", report.Succeeded, report.Skipped)
	}

	labels, err := repo.ListLabels(ctx)
	if err != nil {
		t.Fatalf("list labels: %v", err)
	}
	if len(labels) != 1 {
		t.Errorf("second run created labels: %d rows, want 1", len(labels))
	}
}

func TestClusterAndLabelEmptyStore(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewLabelService(repo, newTestConfig(t))

	report := svc.ClusterAndLabel(context.Background())
	if report.Succeeded != 0 || report.Failed != 0 || report.Skipped != 0 {
		t.Errorf("empty store produced a non-zero report: %+v", report)
	}
}

func TestPruneLabelsKeepsLatestAssignment(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	cfg := newTestConfig(t)

	_, audioFile := seedAudioFile(t, repo, 10)
	segment := seedSegment(t, repo, audioFile, 0, 3)
	embedding := seedEmbedding(t, repo, segment, []float32{0, 0})

	svc := NewLabelService(repo, cfg)
	if report := svc.ClusterAndLabel(ctx); report.Failed != 0 {
		t.Fatalf("cluster run failed: %+v", report)
	}

	// A later re-clustering run would append an assignment like this one.
	newer := &entities.LabelName{LabelName: "Speaker 9"}
	if err := repo.CreateLabel(ctx, newer); err != nil {
		t.Fatalf("create label: %v", err)
	}
	if err := repo.CreateEmbeddingLabel(ctx, &entities.EmbeddingLabel{EmbeddingID: embedding.EmbeddingID, LabelID: newer.LabelID}); err != nil {
		t.Fatalf("create assignment: %v", err)
	}

	removed, err := svc.PruneLabels(ctx)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed %d assignments, want 1", removed)
	}

	assignments, err := repo.GetEmbeddingLabelsByEmbedding(ctx, embedding.EmbeddingID)
	if err != nil {
		t.Fatalf("assignments: %v", err)
	}
	if len(assignments) != 1 {
		t.Fatalf("%d assignments left, want 1", len(assignments))
	}
	if assignments[0].LabelID != newer.LabelID {
		t.Errorf("kept label %d, want latest %d", assignments[0].LabelID, newer.LabelID)
	}
}

func TestRenameLabel(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	svc := NewLabelService(repo, newTestConfig(t))

	if err := repo.CreateLabel(ctx, &entities.LabelName{LabelName: "Speaker 1"}); err != nil {
		t.Fatalf("create label: %v", err)
	}
	if err := repo.CreateLabel(ctx, &entities.LabelName{LabelName: "Speaker 2"}); err != nil {
		t.Fatalf("create label: %v", err)
	}

	if err := svc.RenameLabel(ctx, "Speaker 1", "Alice"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	label, err := repo.GetLabelByName(ctx, "Alice")
	if err != nil || label == nil {
		t.Fatalf("renamed label not found: %v", err)
	}

	if err := svc.RenameLabel(ctx, "Speaker 3", "Bob"); err == nil {
		t.Error("renaming a missing label did not fail")
	}
	if err := svc.RenameLabel(ctx, "Speaker 2", "Alice"); err == nil {
		t.Error("renaming onto a taken name did not fail")
	}
}

func TestDeletingEmbeddingCascadesAssignmentsOnly(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	cfg := newTestConfig(t)

	_, audioFile := seedAudioFile(t, repo, 10)
	segment := seedSegment(t, repo, audioFile, 0, 3)
	embedding := seedEmbedding(t, repo, segment, []float32{0, 0})

	svc := NewLabelService(repo, cfg)
	if report := svc.ClusterAndLabel(ctx); report.Failed != 0 {
		t.Fatalf("cluster run failed: %+v", report)
	}

	if err := repo.DeleteEmbedding(ctx, embedding.EmbeddingID); err != nil {
		t.Fatalf("delete embedding: %v", err)
	}

	assignments, err := repo.GetEmbeddingLabelsByEmbedding(ctx, embedding.EmbeddingID)
	if err != nil {
		t.Fatalf("assignments: %v", err)
	}
	if len(assignments) != 0 {
		t.Errorf("assignments survived the embedding: %d rows", len(assignments))
	}

	label, err := repo.GetLabelByName(ctx, "Speaker 1")
	if err != nil {
		t.Fatalf("get label: %v", err)
	}
	if label == nil {
		t.Error("label row did not survive the embedding delete")
	}
}
