package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"voicetrack/constant"
	"voicetrack/dto"
	"voicetrack/entities"
	"voicetrack/pkg/audio"
	"voicetrack/pkg/fetch"
	"voicetrack/repository"
)

type DownloadService interface {
	// DownloadAll acquires audio for every project URL that has no
	// AudioFile yet. One failure skips that URL only.
	DownloadAll(ctx context.Context, project *entities.Project) dto.StageReport
}

type downloadService struct {
	repo    repository.Repository
	fetcher fetch.Fetcher
	proc    audio.Processor
}

func NewDownloadService(repo repository.Repository, fetcher fetch.Fetcher, proc audio.Processor) DownloadService {
	return &downloadService{repo: repo, fetcher: fetcher, proc: proc}
}

func (s *downloadService) DownloadAll(ctx context.Context, project *entities.Project) dto.StageReport {
	report := dto.StageReport{Stage: constant.StageDownload}

	urls, err := s.repo.GetURLsByProject(ctx, project.ProjectID)
	if err != nil {
		report.AddError(fmt.Errorf("list urls: %w", err))
		return report
	}
	if len(urls) == 0 {
		zerolog.Ctx(ctx).Info().Str("project", project.ProjectName).Msg("no urls registered, nothing to download")
		return report
	}

	for _, url := range urls {
		existing, err := s.repo.GetAudioFileByURL(ctx, url.URLID)
		if err != nil {
			report.AddError(fmt.Errorf("url %d: %w", url.URLID, err))
			continue
		}
		if existing != nil {
			zerolog.Ctx(ctx).Info().Str("url", url.URL).Msg("audio already acquired")
			report.Skipped++
			continue
		}

		if err := s.acquire(ctx, project, url); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("url", url.URL).Msg("failed to acquire audio")
			report.AddError(fmt.Errorf("url %d: %w", url.URLID, err))
			continue
		}
		report.Succeeded++
	}

	return report
}

func (s *downloadService) acquire(ctx context.Context, project *entities.Project, url *entities.URL) error {
	// One folder per source, named by the url id.
	urlFolder := strconv.FormatUint(uint64(url.URLID), 10)
	folderPath := filepath.Join(project.ProjectPath, urlFolder)
	if err := os.MkdirAll(folderPath, os.ModePerm); err != nil {
		return fmt.Errorf("create audio folder: %w", err)
	}

	result, err := s.fetcher.Fetch(ctx, url.URL, folderPath)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	if err := s.repo.UpdateURLMetadata(ctx, url.URLID, result.Meta.Title, result.Meta.Author, result.Meta.ViewCount); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("url", url.URL).Msg("failed to record url metadata")
	}

	wavPath := result.FilePath
	if !strings.EqualFold(filepath.Ext(wavPath), ".wav") {
		wavPath = strings.TrimSuffix(result.FilePath, filepath.Ext(result.FilePath)) + ".wav"
		if err := s.proc.ConvertToWav(ctx, result.FilePath, wavPath); err != nil {
			return err
		}
	}

	duration, err := s.proc.DurationSeconds(ctx, wavPath)
	if err != nil {
		return err
	}

	audioFile := &entities.AudioFile{
		ProjectID:       project.ProjectID,
		URLID:           url.URLID,
		URLFolder:       urlFolder,
		FileName:        filepath.Base(wavPath),
		AudioPath:       wavPath,
		DurationSeconds: duration,
	}
	if err := s.repo.CreateAudioFile(ctx, audioFile); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("url", url.URL).
		Str("audio_path", wavPath).
		Float64("duration_seconds", duration).
		Msg("audio acquired")

	return nil
}
