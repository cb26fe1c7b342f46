package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rychidesign/geo-analyser/internal/dto"
	"github.com/rychidesign/geo-analyser/internal/middleware"
	"github.com/rychidesign/geo-analyser/internal/model"
	"github.com/rychidesign/geo-analyser/internal/util"
)

type ScanQueue interface {
	Enqueue(projectID string) string
	GetJobs() []dto.ScanJobDTO
	GetJobsByProject(projectID string) []dto.ScanJobDTO
	GetJob(jobID string) (dto.ScanJobDTO, error)
	Pause(jobID string) error
	Resume(jobID string) error
	Cancel(jobID string) error
}

type ScanReader interface {
	FindScanByID(id string) (*model.Scan, error)
	FindResultsByScan(scanID string) ([]model.ScanResult, error)
}

type ScanHandler struct {
	queue    ScanQueue
	scans    ScanReader
	projects ProjectStore
}

func NewScanHandler(queue ScanQueue, scans ScanReader, projects ProjectStore) *ScanHandler {
	return &ScanHandler{queue: queue, scans: scans, projects: projects}
}

func (h *ScanHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/projects/:id/scan", middleware.RateLimiter(1, 4*time.Second), h.EnqueueScan)
	app.Get("/jobs", h.GetJobs)
	app.Get("/jobs/:id", h.GetJob)
	app.Get("/projects/:id/jobs", h.GetProjectJobs)
	app.Post("/jobs/:id/pause", h.PauseJob)
	app.Post("/jobs/:id/resume", h.ResumeJob)
	app.Delete("/jobs/:id", h.CancelJob)
	app.Get("/scans/:id", h.GetScan)
	app.Get("/scans/:id/results", h.GetScanResults)
}

func (h *ScanHandler) EnqueueScan(c *fiber.Ctx) error {
	project, err := h.projects.FindProjectByID(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "project not found",
		}, err)
	}

	jobID := h.queue.Enqueue(project.ID.String())
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusAccepted,
		Message: "Scan queued",
		Data:    fiber.Map{"job_id": jobID, "status": model.JobStatusQueued},
	})
}

func (h *ScanHandler) GetJobs(c *fiber.Ctx) error {
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get jobs",
		Data:    h.queue.GetJobs(),
	})
}

func (h *ScanHandler) GetProjectJobs(c *fiber.Ctx) error {
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get jobs",
		Data:    h.queue.GetJobsByProject(c.Params("id")),
	})
}

func (h *ScanHandler) GetJob(c *fiber.Ctx) error {
	job, err := h.queue.GetJob(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "job not found",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get job",
		Data:    job,
	})
}

func (h *ScanHandler) PauseJob(c *fiber.Ctx) error {
	if err := h.queue.Pause(c.Params("id")); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusConflict,
			Message: "cannot pause job",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Job paused",
	})
}

func (h *ScanHandler) ResumeJob(c *fiber.Ctx) error {
	if err := h.queue.Resume(c.Params("id")); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusConflict,
			Message: "cannot resume job",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Job resumed",
	})
}

func (h *ScanHandler) CancelJob(c *fiber.Ctx) error {
	if err := h.queue.Cancel(c.Params("id")); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "cannot cancel job",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Job cancelled",
	})
}

func (h *ScanHandler) GetScan(c *fiber.Ctx) error {
	scan, err := h.scans.FindScanByID(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "scan not found",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get scan",
		Data:    scan,
	})
}

func (h *ScanHandler) GetScanResults(c *fiber.Ctx) error {
	results, err := h.scans.FindResultsByScan(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to load scan results",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get scan results",
		Data:    results,
	})
}
