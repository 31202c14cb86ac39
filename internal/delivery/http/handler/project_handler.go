package handler

import (
	"errors"

	"acms/internal/delivery/http/dto"
	"acms/internal/delivery/http/middleware"
	"acms/internal/domain/policy"
	"acms/internal/pkg/response"
	"acms/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ProjectHandler struct {
	uc          usecase.ProjectUsecase
	suggestions usecase.SuggestionUsecase
}

type createProjectRequest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
}

type updateProjectRequest struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	StartDate      *string  `json:"start_date"`
	EndDate        *string  `json:"end_date"`
}

type assignRequest struct {
	Members []string `json:"members"`
}

func NewProjectHandler(uc usecase.ProjectUsecase, suggestions usecase.SuggestionUsecase) *ProjectHandler {
	return &ProjectHandler{uc: uc, suggestions: suggestions}
}

func (h *ProjectHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	managers := middleware.Authorize(policy.ManagesProjects)

	grp := r.Group("/projects")
	grp.Get("/", middleware.Authorize(policy.IsAuthenticated), h.List)
	grp.Post("/", managers, h.Create)
	grp.Get("/developer/:user_id", middleware.Authorize(policy.ViewsProjects), h.DeveloperProjects)
	grp.Get("/:slug", middleware.Authorize(policy.IsAuthenticated), h.Get)
	grp.Patch("/:slug", managers, h.Update)
	grp.Delete("/:slug", managers, h.Delete)
	grp.Patch("/:slug/assign", managers, h.Assign)
	grp.Get("/:slug/suggested-developers", managers, h.SuggestedDevelopers)
}

func (h *ProjectHandler) List(c fiber.Ctx) error {
	items, err := h.uc.ListProjects(c.Context())
	if err != nil {
		return mapProjectUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProjectListResponse(items))
}

func (h *ProjectHandler) Get(c fiber.Ctx) error {
	p, err := h.uc.GetProject(c.Context(), c.Params("slug"))
	if err != nil {
		return mapProjectUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProjectResponse(p))
}

func (h *ProjectHandler) Create(c fiber.Ctx) error {
	var req createProjectRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	in := usecase.ProjectInput{
		Name:           req.Name,
		Description:    req.Description,
		RequiredSkills: req.RequiredSkills,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
	}
	created, err := h.uc.CreateProject(c.Context(), middleware.ActorFrom(c), in)
	if err != nil {
		return mapProjectUsecaseError(err)
	}
	return response.Created(c, "Project created successfully", dto.NewProjectResponse(created))
}

func (h *ProjectHandler) Update(c fiber.Ctx) error {
	var req updateProjectRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	in := usecase.UpdateProjectInput{
		Name:           req.Name,
		Description:    req.Description,
		RequiredSkills: req.RequiredSkills,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
	}
	updated, err := h.uc.UpdateProject(c.Context(), c.Params("slug"), in)
	if err != nil {
		return mapProjectUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProjectResponse(updated))
}

func (h *ProjectHandler) Delete(c fiber.Ctx) error {
	if err := h.uc.DeleteProject(c.Context(), c.Params("slug")); err != nil {
		return mapProjectUsecaseError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Assign adds developer profiles to the project. A member id that is not a
// UUID is reported like an unknown profile.
func (h *ProjectHandler) Assign(c fiber.Ctx) error {
	var req assignRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	ids := make([]uuid.UUID, 0, len(req.Members))
	for _, raw := range req.Members {
		id, err := uuid.Parse(raw)
		if err != nil {
			return mapProjectUsecaseError(usecase.ErrInvalidMembers)
		}
		ids = append(ids, id)
	}

	p, err := h.uc.AssignDevelopers(c.Context(), middleware.ActorFrom(c), c.Params("slug"), ids)
	if err != nil {
		return mapProjectUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Developers assigned", dto.NewProjectResponse(p))
}

func (h *ProjectHandler) DeveloperProjects(c fiber.Ctx) error {
	userID, err := uuidParam(c, "user_id")
	if err != nil {
		return err
	}
	items, err := h.uc.DeveloperProjects(c.Context(), middleware.ActorFrom(c), userID)
	if err != nil {
		return mapProjectUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProjectListResponse(items))
}

func (h *ProjectHandler) SuggestedDevelopers(c fiber.Ctx) error {
	items, err := h.suggestions.SuggestDevelopers(c.Context(), c.Params("slug"))
	if err != nil {
		return mapProjectUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSuggestedDeveloperListResponse(items))
}

func mapProjectUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrProjectNotFound), errors.Is(err, usecase.ErrProfileNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrProjectExists):
		return middleware.NewAppError(fiber.StatusConflict, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrInvalidMembers), errors.Is(err, usecase.ErrNoMatchingDevelopers):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	default:
		return commonError(err)
	}
}
