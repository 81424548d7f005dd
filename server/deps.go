package server

import (
	"fmt"

	"voicetrack/config"
	"voicetrack/handler"
	"voicetrack/pkg/audio"
	"voicetrack/pkg/diarize"
	"voicetrack/pkg/fetch"
	"voicetrack/pkg/transcribe"
	"voicetrack/repository"
	"voicetrack/service"
)

// Dependencies is the fully wired service graph behind one store handle.
type Dependencies struct {
	Repo     repository.Repository
	Pipeline service.Service
	Projects service.ProjectService
	Labels   service.LabelService
	Playback service.PlaybackService
}

// BuildDependencies opens the entity store, migrates the schema and wires
// every service with its collaborators.
func BuildDependencies(cfg *config.Config) (*Dependencies, error) {
	var (
		repo repository.Repository
		err  error
	)
	switch cfg.DBDriver {
	case "postgres":
		repo, err = repository.NewPostgresRepo(cfg.DB)
	case "sqlite":
		repo, err = repository.NewSQLiteRepo(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}
	if err := repo.AutoMigrate(); err != nil {
		return nil, err
	}

	proc := audio.NewFFmpeg()
	diarizer := diarize.NewClient(cfg.Diarizer.BaseURL, cfg.Diarizer.Token)
	transcriber := transcribe.NewClient(cfg.Transcriber.BaseURL, cfg.Transcriber.Model)
	fetcher := fetch.NewLocal()

	projects := service.NewProjectService(repo, cfg)
	download := service.NewDownloadService(repo, fetcher, proc)
	segments := service.NewSegmentService(repo, proc, cfg)
	embeddings := service.NewEmbeddingService(repo, diarizer, cfg)
	labels := service.NewLabelService(repo, cfg)
	finals := service.NewFinalSegmentService(repo, proc, cfg)
	transcripts := service.NewTranscriptService(repo, transcriber)

	pipeline := service.NewService(projects, download, segments, embeddings, labels, finals, transcripts)

	return &Dependencies{
		Repo:     repo,
		Pipeline: pipeline,
		Projects: projects,
		Labels:   labels,
		Playback: service.NewPlaybackService(repo),
	}, nil
}

// HandlerDependencies narrows the graph to what the queue handler needs.
func (d *Dependencies) HandlerDependencies() handler.ServiceDependencies {
	return handler.ServiceDependencies{
		PipelineService: d.Pipeline,
		ProjectService:  d.Projects,
	}
}
