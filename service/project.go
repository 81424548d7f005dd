package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"voicetrack/config"
	"voicetrack/constant"
	"voicetrack/entities"
	"voicetrack/repository"
)

type ProjectService interface {
	// CreateOrGet returns the project with the given name, creating it (and
	// its directory under the storage root) on first use.
	CreateOrGet(ctx context.Context, name string) (*entities.Project, error)
	UpdateDescription(ctx context.Context, name, description string) error
	// Delete removes the project row; the store cascades to everything the
	// project owns. Label names are global and survive.
	Delete(ctx context.Context, name string) error
	// AddURL registers a source under the project, idempotent per
	// (project, locator).
	AddURL(ctx context.Context, projectID uint, locator string, urlType constant.URLType) (*entities.URL, error)
	AddURLs(ctx context.Context, projectID uint, locators []string, urlType constant.URLType) error
}

type projectService struct {
	repo repository.Repository
	cfg  *config.Config
}

func NewProjectService(repo repository.Repository, cfg *config.Config) ProjectService {
	return &projectService{repo: repo, cfg: cfg}
}

func (s *projectService) CreateOrGet(ctx context.Context, name string) (*entities.Project, error) {
	project, err := s.repo.GetProjectByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if project != nil {
		return project, nil
	}

	projectPath := filepath.Join(s.cfg.Pipeline.StorageRoot, name)
	if err := os.MkdirAll(projectPath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create project directory: %w", err)
	}

	project = &entities.Project{
		ProjectName: name,
		ProjectPath: projectPath,
	}
	if err := s.repo.CreateProject(ctx, project); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("project", name).
		Str("path", projectPath).
		Msg("project created")

	return project, nil
}

func (s *projectService) UpdateDescription(ctx context.Context, name, description string) error {
	project, err := s.repo.GetProjectByName(ctx, name)
	if err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("project %q does not exist", name)
	}
	return s.repo.UpdateProjectDescription(ctx, project.ProjectID, description)
}

func (s *projectService) Delete(ctx context.Context, name string) error {
	project, err := s.repo.GetProjectByName(ctx, name)
	if err != nil {
		return err
	}
	if project == nil {
		zerolog.Ctx(ctx).Info().Str("project", name).Msg("project does not exist, nothing to delete")
		return nil
	}
	return s.repo.DeleteProject(ctx, project.ProjectID)
}

func (s *projectService) AddURL(ctx context.Context, projectID uint, locator string, urlType constant.URLType) (*entities.URL, error) {
	existing, err := s.repo.GetURL(ctx, projectID, locator)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		zerolog.Ctx(ctx).Info().Str("url", locator).Msg("url already registered")
		return existing, nil
	}

	url := &entities.URL{
		ProjectID: projectID,
		URL:       locator,
		URLType:   string(urlType),
	}
	if err := s.repo.CreateURL(ctx, url); err != nil {
		return nil, err
	}
	return url, nil
}

func (s *projectService) AddURLs(ctx context.Context, projectID uint, locators []string, urlType constant.URLType) error {
	for _, locator := range locators {
		if _, err := s.AddURL(ctx, projectID, locator, urlType); err != nil {
			return err
		}
	}
	return nil
}
