package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"acms/internal/delivery/http/dto"
	"acms/internal/delivery/http/middleware"
	"acms/internal/domain/policy"
	"acms/internal/domain/skill"
	"acms/internal/pkg/response"
	"acms/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	categories usecase.CategoryUsecase
	skills     usecase.SkillUsecase
	ratings    usecase.SkillRatingUsecase
}

type categoryRequest struct {
	Name string `json:"name"`
}

type createSkillRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type updateSkillRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
}

type rateSkillRequest struct {
	Skill   string  `json:"skill"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

func NewSkillHandler(categories usecase.CategoryUsecase, skills usecase.SkillUsecase, ratings usecase.SkillRatingUsecase) *SkillHandler {
	return &SkillHandler{categories: categories, skills: skills, ratings: ratings}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	admin := middleware.Authorize(policy.IsAdmin)

	cat := r.Group("/categories", admin)
	cat.Get("/", h.ListCategories)
	cat.Post("/", h.CreateCategory)
	cat.Get("/:slug", h.GetCategory)
	cat.Put("/:slug", h.UpdateCategory)
	cat.Delete("/:slug", h.DeleteCategory)

	r.Get("/skills", middleware.Authorize(policy.IsAuthenticated), h.ListSkills)
	r.Post("/skills", middleware.Authorize(policy.CreatesSkills), h.CreateSkills)
	r.Delete("/skills", admin, h.DeleteAllSkills)
	r.Get("/skills/:slug", admin, h.GetSkill)
	r.Put("/skills/:slug", admin, h.UpdateSkill)
	r.Delete("/skills/:slug", admin, h.DeleteSkill)

	developer := middleware.Authorize(policy.IsDeveloper)
	r.Get("/skill-ratings", developer, h.ListRatings)
	r.Post("/skill-ratings", developer, h.RateSkill)
}

func (h *SkillHandler) ListCategories(c fiber.Ctx) error {
	items, err := h.categories.ListCategories(c.Context())
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCategoryListResponse(items))
}

func (h *SkillHandler) CreateCategory(c fiber.Ctx) error {
	var req categoryRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	created, err := h.categories.CreateCategory(c.Context(), req.Name)
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Created(c, "Category created successfully", dto.NewCategoryResponse(created))
}

func (h *SkillHandler) GetCategory(c fiber.Ctx) error {
	cat, err := h.categories.GetCategory(c.Context(), c.Params("slug"))
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCategoryResponse(cat))
}

func (h *SkillHandler) UpdateCategory(c fiber.Ctx) error {
	var req categoryRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	cat, err := h.categories.UpdateCategory(c.Context(), c.Params("slug"), req.Name)
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCategoryResponse(cat))
}

func (h *SkillHandler) DeleteCategory(c fiber.Ctx) error {
	if err := h.categories.DeleteCategory(c.Context(), c.Params("slug")); err != nil {
		return mapSkillUsecaseError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SkillHandler) ListSkills(c fiber.Ctx) error {
	var (
		items []skill.Skill
		err   error
	)
	if q := strings.TrimSpace(c.Query("search")); q != "" {
		items, err = h.skills.SearchSkills(c.Context(), q)
	} else {
		items, err = h.skills.ListSkills(c.Context())
	}
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillListResponse(items))
}

// CreateSkills accepts a JSON array of skills or a single skill object.
func (h *SkillHandler) CreateSkills(c fiber.Ctx) error {
	var reqs []createSkillRequest
	body := bytes.TrimSpace(c.Body())
	if len(body) > 0 && body[0] == '{' {
		var one createSkillRequest
		if err := json.Unmarshal(body, &one); err != nil {
			return badRequest(err)
		}
		reqs = append(reqs, one)
	} else if err := json.Unmarshal(body, &reqs); err != nil {
		return badRequest(err)
	}

	in := make([]usecase.CreateSkillInput, 0, len(reqs))
	for _, r := range reqs {
		in = append(in, usecase.CreateSkillInput{Name: r.Name, Category: r.Category})
	}

	created, err := h.skills.CreateSkills(c.Context(), in)
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Created(c, "Skills created successfully", dto.NewSkillListResponse(created))
}

func (h *SkillHandler) GetSkill(c fiber.Ctx) error {
	s, err := h.skills.GetSkill(c.Context(), c.Params("slug"))
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillResponse(s))
}

func (h *SkillHandler) UpdateSkill(c fiber.Ctx) error {
	var req updateSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	s, err := h.skills.UpdateSkill(c.Context(), c.Params("slug"), usecase.UpdateSkillInput{Name: req.Name, Category: req.Category})
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillResponse(s))
}

func (h *SkillHandler) DeleteSkill(c fiber.Ctx) error {
	if err := h.skills.DeleteSkill(c.Context(), c.Params("slug")); err != nil {
		return mapSkillUsecaseError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SkillHandler) DeleteAllSkills(c fiber.Ctx) error {
	n, err := h.skills.DeleteAllSkills(c.Context())
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Skills deleted", map[string]int64{"deleted": n})
}

func (h *SkillHandler) ListRatings(c fiber.Ctx) error {
	items, err := h.ratings.ListRatings(c.Context(), middleware.ActorFrom(c).ID)
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillRatingListResponse(items))
}

func (h *SkillHandler) RateSkill(c fiber.Ctx) error {
	var req rateSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	in := usecase.RateSkillInput{Skill: req.Skill, Rating: req.Rating, Comment: req.Comment}
	rating, err := h.ratings.RateSkill(c.Context(), middleware.ActorFrom(c).ID, in)
	if err != nil {
		return mapSkillUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillRatingResponse(rating))
}

func mapSkillUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrCategoryNotFound),
		errors.Is(err, usecase.ErrSkillNotFound),
		errors.Is(err, usecase.ErrProfileNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrCategoryExists), errors.Is(err, usecase.ErrSkillExists):
		return middleware.NewAppError(fiber.StatusConflict, err.Error(), nil, err)
	default:
		return commonError(err)
	}
}
