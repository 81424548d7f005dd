package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"voicetrack/config"
	"voicetrack/entities"
	"voicetrack/pkg/audio"
	"voicetrack/pkg/diarize"
	"voicetrack/pkg/fetch"
	"voicetrack/pkg/vector"
	"voicetrack/repository"
)

var errTestDiarizer = errors.New("diarizer unavailable")

func newTestRepo(t *testing.T) repository.Repository {
	t.Helper()
	repo, err := repository.NewSQLiteRepo(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("migrate test store: %v", err)
	}
	return repo
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Pipeline: config.Pipeline{
			StorageRoot:        t.TempDir(),
			SegmentLengthMs:    3000,
			MinIntervalSeconds: 1.0,
			DistanceThreshold:  1.0,
		},
	}
}

// seedAudioFile creates project -> url -> audio file with a real file on
// disk so os.Stat guards pass.
func seedAudioFile(t *testing.T, repo repository.Repository, durationSeconds float64) (*entities.Project, *entities.AudioFile) {
	t.Helper()
	ctx := context.Background()

	project := &entities.Project{
		ProjectName: fmt.Sprintf("test-%s", filepath.Base(t.TempDir())),
		ProjectPath: t.TempDir(),
	}
	if err := repo.CreateProject(ctx, project); err != nil {
		t.Fatalf("create project: %v", err)
	}

	url := &entities.URL{ProjectID: project.ProjectID, URL: "file:///src/audio.wav", URLType: "single"}
	if err := repo.CreateURL(ctx, url); err != nil {
		t.Fatalf("create url: %v", err)
	}

	audioPath := filepath.Join(project.ProjectPath, "1", "audio.wav")
	if err := os.MkdirAll(filepath.Dir(audioPath), os.ModePerm); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(audioPath, []byte("RIFF"), 0644); err != nil {
		t.Fatalf("write audio file: %v", err)
	}

	audioFile := &entities.AudioFile{
		ProjectID:       project.ProjectID,
		URLID:           url.URLID,
		URLFolder:       "1",
		FileName:        "audio.wav",
		AudioPath:       audioPath,
		DurationSeconds: durationSeconds,
	}
	if err := repo.CreateAudioFile(ctx, audioFile); err != nil {
		t.Fatalf("create audio file: %v", err)
	}
	return project, audioFile
}

// seedSegment registers one segment with a real file on disk.
func seedSegment(t *testing.T, repo repository.Repository, audioFile *entities.AudioFile, start, end float64) *entities.Segment {
	t.Helper()
	ctx := context.Background()

	dir := filepath.Join(filepath.Dir(audioFile.AudioPath), "segments")
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	fileName := fmt.Sprintf("segment_%.0f.wav", start)
	filePath := filepath.Join(dir, fileName)
	if err := os.WriteFile(filePath, []byte("RIFF"), 0644); err != nil {
		t.Fatalf("write segment file: %v", err)
	}

	segment := &entities.Segment{
		AudioID:   audioFile.AudioID,
		StartTime: start,
		EndTime:   end,
		Duration:  end - start,
		FilePath:  filePath,
		FileName:  fileName,
	}
	if err := repo.CreateSegments(ctx, []*entities.Segment{segment}); err != nil {
		t.Fatalf("create segment: %v", err)
	}
	return segment
}

// seedEmbedding stores one speaker embedding for the segment.
func seedEmbedding(t *testing.T, repo repository.Repository, segment *entities.Segment, vec []float32) *entities.Embedding {
	t.Helper()
	embedding := &entities.Embedding{SegmentID: segment.SegmentID, Vector: vector.Encode(vec)}
	if err := repo.CreateEmbedding(context.Background(), embedding); err != nil {
		t.Fatalf("create embedding: %v", err)
	}
	return embedding
}

// seedTimestamp stores one speech interval for the embedding.
func seedTimestamp(t *testing.T, repo repository.Repository, embedding *entities.Embedding, start, end float64) *entities.EmbeddingTimestamp {
	t.Helper()
	timestamp := &entities.EmbeddingTimestamp{EmbeddingID: embedding.EmbeddingID, StartTime: start, EndTime: end}
	if err := repo.CreateEmbeddingTimestamp(context.Background(), timestamp); err != nil {
		t.Fatalf("create timestamp: %v", err)
	}
	return timestamp
}

// fakeProcessor stands in for ffmpeg: exports write a stub file.
type fakeProcessor struct {
	mu          sync.Mutex
	duration    float64
	exports     int
	failMatches string // substring of dst that makes the export fail once
	failed      bool
}

var _ audio.Processor = (*fakeProcessor)(nil)

func (f *fakeProcessor) DurationSeconds(ctx context.Context, path string) (float64, error) {
	return f.duration, nil
}

func (f *fakeProcessor) ConvertToWav(ctx context.Context, src, dst string) error {
	return os.WriteFile(dst, []byte("RIFF"), 0644)
}

func (f *fakeProcessor) ExportSegment(ctx context.Context, src string, startMs, endMs int, dst string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMatches != "" && !f.failed && filepath.Base(dst) == f.failMatches {
		f.failed = true
		return fmt.Errorf("export of %s failed", dst)
	}
	f.exports++
	return os.WriteFile(dst, []byte("RIFF"), 0644)
}

// fakeDiarizer returns canned speaker tracks and counts invocations.
type fakeDiarizer struct {
	mu     sync.Mutex
	tracks []diarize.SpeakerTrack
	err    error
	calls  int
}

var _ diarize.Diarizer = (*fakeDiarizer)(nil)

func (f *fakeDiarizer) Diarize(ctx context.Context, audioPath string) ([]diarize.SpeakerTrack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.tracks, nil
}

type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeFetcher struct {
	err error
}

var _ fetch.Fetcher = (*fakeFetcher)(nil)

func (f *fakeFetcher) Fetch(ctx context.Context, url, destDir string) (*fetch.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	path := filepath.Join(destDir, "fetched.webm")
	if err := os.WriteFile(path, []byte("webm"), 0644); err != nil {
		return nil, err
	}
	return &fetch.Result{FilePath: path, Meta: fetch.Metadata{Title: "fetched", Author: "author", ViewCount: 42}}, nil
}
