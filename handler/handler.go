package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"voicetrack/constant"
	"voicetrack/dto"
	"voicetrack/service"
)

type ServiceDependencies struct {
	PipelineService service.Service
	ProjectService  service.ProjectService
}

// PipelineJobHandler registers the message's URL (when present) under the
// project and runs the full pipeline once.
func PipelineJobHandler(ctx context.Context, msg amqp.Delivery, deps ServiceDependencies) error {
	var job dto.PipelineJobMessage
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal pipeline job message")
		return errors.Join(service.ErrNonRetryable, err)
	}
	if job.ProjectName == "" {
		return errors.Join(service.ErrNonRetryable, fmt.Errorf("pipeline job %s has no project name", job.JobId))
	}

	zerolog.Ctx(ctx).Info().
		Str("job_id", job.JobId.String()).
		Str("project", job.ProjectName).
		Msg("received pipeline job")

	if job.URL != "" {
		project, err := deps.ProjectService.CreateOrGet(ctx, job.ProjectName)
		if err != nil {
			return err
		}
		urlType := constant.URLType(job.URLType)
		if urlType == "" {
			urlType = constant.URLTypeSingle
		}
		if _, err := deps.ProjectService.AddURL(ctx, project.ProjectID, job.URL, urlType); err != nil {
			return err
		}
	}

	report, err := deps.PipelineService.Run(ctx, job.ProjectName)
	if err != nil {
		return err
	}
	if report.Failed() {
		// Partial failure: already per-artifact retried on the next run,
		// so the message itself is done.
		zerolog.Ctx(ctx).Warn().
			Str("job_id", job.JobId.String()).
			Interface("report", report).
			Msg("pipeline job finished with failures")
	}
	return nil
}
