package dto

import (
	"github.com/google/uuid"

	"voicetrack/constant"
)

// PipelineJobMessage asks the worker to run the full pipeline for one
// project. When URL is set it is registered before the run.
type PipelineJobMessage struct {
	JobId       uuid.UUID `json:"jobId"`
	ProjectName string    `json:"projectName"`
	URL         string    `json:"url,omitempty"`
	URLType     string    `json:"urlType,omitempty"`
}

// StageReport is the structured outcome of one pipeline stage: how many
// artifacts were processed, skipped by the stage guard, or failed. Failures
// never abort the stage; they are collected here instead.
type StageReport struct {
	Stage     constant.Stage `json:"stage"`
	Succeeded int            `json:"succeeded"`
	Skipped   int            `json:"skipped"`
	Failed    int            `json:"failed"`
	Errors    []string       `json:"errors,omitempty"`
}

func (r *StageReport) AddError(err error) {
	r.Failed++
	r.Errors = append(r.Errors, err.Error())
}

// RunReport aggregates one full pipeline invocation over a project.
type RunReport struct {
	ProjectName string        `json:"projectName"`
	Stages      []StageReport `json:"stages"`
}

func (r *RunReport) Add(s StageReport) {
	r.Stages = append(r.Stages, s)
}

// Failed reports whether any stage recorded at least one failure.
func (r *RunReport) Failed() bool {
	for _, s := range r.Stages {
		if s.Failed > 0 {
			return true
		}
	}
	return false
}

type RenameLabelRequest struct {
	OldName string `json:"oldName" binding:"required"`
	NewName string `json:"newName" binding:"required"`
}

type LabelSummary struct {
	LabelID    uint   `json:"labelId"`
	LabelName  string `json:"labelName"`
	Embeddings int64  `json:"embeddings"`
}

type LabelIntervalInfo struct {
	SegmentID   uint    `json:"segmentId"`
	TimestampID uint    `json:"timestampId"`
	StartTime   float64 `json:"startTime"`
	EndTime     float64 `json:"endTime"`
	FilePath    string  `json:"filePath,omitempty"`
}
