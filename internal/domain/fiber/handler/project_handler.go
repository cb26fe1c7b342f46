package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rychidesign/geo-analyser/internal/model"
	"github.com/rychidesign/geo-analyser/internal/util"
)

type ProjectStore interface {
	CreateProject(project *model.Project) error
	FindProjectByID(id string) (*model.Project, error)
	GetProjects() ([]model.Project, error)
}

type QueryStore interface {
	CreateQuery(query *model.Query) error
	GetQueriesByProject(projectID string) ([]model.Query, error)
}

type SettingStore interface {
	GetSettings() ([]model.ProviderSetting, error)
	UpsertSetting(setting *model.ProviderSetting) error
}

type ProjectHandler struct {
	projects ProjectStore
	queries  QueryStore
	settings SettingStore
}

func NewProjectHandler(projects ProjectStore, queries QueryStore, settings SettingStore) *ProjectHandler {
	return &ProjectHandler{projects: projects, queries: queries, settings: settings}
}

func (h *ProjectHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/projects", h.CreateProject)
	app.Get("/projects", h.GetProjects)
	app.Get("/projects/:id", h.GetProject)
	app.Post("/projects/:id/queries", h.CreateQuery)
	app.Get("/projects/:id/queries", h.GetQueries)
	app.Get("/settings/providers", h.GetSettings)
	app.Put("/settings/providers/:provider", h.UpsertSetting)
}

type createProjectRequest struct {
	Name          string `json:"name"`
	BrandName     string `json:"brand_name"`
	BrandVariants string `json:"brand_variants"`
	Domain        string `json:"domain"`
}

func (h *ProjectHandler) CreateProject(c *fiber.Ctx) error {
	var req createProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}
	if req.Name == "" || req.BrandName == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "name and brand_name are required",
		})
	}

	project := model.Project{
		Name:          req.Name,
		BrandName:     req.BrandName,
		BrandVariants: req.BrandVariants,
		Domain:        req.Domain,
	}
	if err := h.projects.CreateProject(&project); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to create project",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Project created",
		Data:    project,
	})
}

func (h *ProjectHandler) GetProjects(c *fiber.Ctx) error {
	projects, err := h.projects.GetProjects()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list projects",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get projects",
		Data:    projects,
	})
}

func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	project, err := h.projects.FindProjectByID(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "project not found",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get project",
		Data:    project,
	})
}

type createQueryRequest struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

func (h *ProjectHandler) CreateQuery(c *fiber.Ctx) error {
	project, err := h.projects.FindProjectByID(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "project not found",
		}, err)
	}

	var req createQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}
	if req.Text == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "text is required",
		})
	}
	queryType := req.Type
	switch queryType {
	case "":
		queryType = model.QueryTypeInformational
	case model.QueryTypeInformational, model.QueryTypeTransactional, model.QueryTypeComparison:
	default:
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: fmt.Sprintf("unknown query type %q", req.Type),
		})
	}

	query := model.Query{
		ProjectID: project.ID,
		Text:      req.Text,
		Type:      queryType,
		Active:    true,
	}
	if err := h.queries.CreateQuery(&query); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to create query",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Query created",
		Data:    query,
	})
}

func (h *ProjectHandler) GetQueries(c *fiber.Ctx) error {
	queries, err := h.queries.GetQueriesByProject(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list queries",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get queries",
		Data:    queries,
	})
}

func (h *ProjectHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.settings.GetSettings()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list provider settings",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get provider settings",
		Data:    settings,
	})
}

type upsertSettingRequest struct {
	Model  string `json:"model"`
	APIKey string `json:"api_key"`
	Active bool   `json:"active"`
}

func (h *ProjectHandler) UpsertSetting(c *fiber.Ctx) error {
	var req upsertSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	setting := model.ProviderSetting{
		Provider: c.Params("provider"),
		Model:    req.Model,
		APIKey:   req.APIKey,
		Active:   req.Active,
	}
	if err := h.settings.UpsertSetting(&setting); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to save provider setting",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Provider setting saved",
		Data:    setting,
	})
}
