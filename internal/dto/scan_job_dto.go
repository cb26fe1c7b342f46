package dto

import (
	"time"

	"github.com/rychidesign/geo-analyser/internal/model"
)

type JobProgressDTO struct {
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Current   string `json:"current"`
}

type ScanJobDTO struct {
	ID          string         `json:"id"`
	ProjectID   string         `json:"project_id"`
	Status      string         `json:"status"`
	Progress    JobProgressDTO `json:"progress"`
	ScanID      string         `json:"scan_id,omitempty"`
	Error       string         `json:"error,omitempty"`
	EnqueuedAt  time.Time      `json:"enqueued_at"`
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

func NewScanJobDTO(job *model.ScanJob) ScanJobDTO {
	return ScanJobDTO{
		ID:        job.ID,
		ProjectID: job.ProjectID,
		Status:    job.Status,
		Progress: JobProgressDTO{
			Total:     job.Progress.Total,
			Completed: job.Progress.Completed,
			Current:   job.Progress.Current,
		},
		ScanID:      job.ScanID,
		Error:       job.Error,
		EnqueuedAt:  job.EnqueuedAt,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
	}
}
