package service

import (
	"context"
	"errors"
	"testing"
)

func TestTranscribeAllTranscribesMaterializedIntervals(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	cfg := newTestConfig(t)

	project, audioFile := seedAudioFile(t, repo, 10)
	segment := seedSegment(t, repo, audioFile, 0, 3)
	embedding := seedEmbedding(t, repo, segment, []float32{0, 0})
	timestamp := seedTimestamp(t, repo, embedding, 0.0, 2.0)

	if report := NewFinalSegmentService(repo, &fakeProcessor{}, cfg).MaterializeAll(ctx, project); report.Failed != 0 {
		t.Fatalf("materialize failed: %+v", report)
	}

	transcriber := &fakeTranscriber{text: "hello there"}
	svc := NewTranscriptService(repo, transcriber)

	report := svc.TranscribeAll(ctx)
	if report.Succeeded != 1 || report.Failed != 0 {
		t.Fatalf("succeeded=%d failed=%d, want 1/0", report.Succeeded, report.Failed)
	}

	transcript, err := repo.GetTranscriptByTimestamp(ctx, timestamp.TimestampID)
	if err != nil || transcript == nil {
		t.Fatalf("get transcript: %v", err)
	}
	if transcript.Text != "hello there" {
		t.Errorf("transcript text %q, want %q", transcript.Text, "hello there")
	}

	report = svc.TranscribeAll(ctx)
	if report.Skipped != 1 || report.Succeeded != 0 {
		t.Fatalf("second run: skipped=%d succeeded=%d, want 1/0", report.Skipped, report.Succeeded)
	}
	if transcriber.calls != 1 {
		t.Errorf("transcriber called %d times, want 1", transcriber.calls)
	}
}

func TestTranscribeAllSkipsUnmaterializedIntervals(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, audioFile := seedAudioFile(t, repo, 10)
	segment := seedSegment(t, repo, audioFile, 0, 3)
	embedding := seedEmbedding(t, repo, segment, []float32{0, 0})
	timestamp := seedTimestamp(t, repo, embedding, 0.0, 2.0)

	transcriber := &fakeTranscriber{text: "never used"}
	report := NewTranscriptService(repo, transcriber).TranscribeAll(ctx)
	if report.Skipped != 1 || report.Succeeded != 0 || report.Failed != 0 {
		t.Fatalf("skipped=%d succeeded=%d failed=%d, want 1/0/0", report.Skipped, report.Succeeded, report.Failed)
	}
	if transcriber.calls != 0 {
		t.Errorf("transcriber called %d times for an unmaterialized interval", transcriber.calls)
	}

	transcript, err := repo.GetTranscriptByTimestamp(ctx, timestamp.TimestampID)
	if err != nil {
		t.Fatalf("get transcript: %v", err)
	}
	if transcript != nil {
		t.Error("transcript created without a final segment")
	}
}

func TestTranscribeAllRetriesAfterFailure(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	cfg := newTestConfig(t)

	project, audioFile := seedAudioFile(t, repo, 10)
	segment := seedSegment(t, repo, audioFile, 0, 3)
	embedding := seedEmbedding(t, repo, segment, []float32{0, 0})
	seedTimestamp(t, repo, embedding, 0.0, 2.0)

	if report := NewFinalSegmentService(repo, &fakeProcessor{}, cfg).MaterializeAll(ctx, project); report.Failed != 0 {
		t.Fatalf("materialize failed: %+v", report)
	}

	transcriber := &fakeTranscriber{err: errors.New("transcriber unavailable")}
	svc := NewTranscriptService(repo, transcriber)

	report := svc.TranscribeAll(ctx)
	if report.Failed != 1 {
		t.Fatalf("failing run: failed=%d, want 1", report.Failed)
	}

	transcriber.err = nil
	transcriber.text = "second try"
	report = svc.TranscribeAll(ctx)
	if report.Succeeded != 1 {
		t.Fatalf("retry run: succeeded=%d, want 1", report.Succeeded)
	}
}
