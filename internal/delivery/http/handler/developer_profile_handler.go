package handler

import (
	"errors"
	"strconv"

	"acms/internal/delivery/http/dto"
	"acms/internal/delivery/http/middleware"
	"acms/internal/domain/policy"
	"acms/internal/pkg/response"
	"acms/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type DeveloperProfileHandler struct {
	uc usecase.DeveloperProfileUsecase
}

type workExperienceRequest struct {
	JobTitle    string   `json:"job_title"`
	CompanyName string   `json:"company_name"`
	SkillsUsed  []string `json:"skills_used"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
}

type educationRequest struct {
	SchoolName string `json:"school_name"`
	Program    string `json:"program"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

type updateDeveloperProfileRequest struct {
	EmploymentStatus *string                 `json:"employment_status"`
	JobInformation   *string                 `json:"job_information"`
	WorkExperience   []workExperienceRequest `json:"work_experience"`
	Education        []educationRequest      `json:"education"`
}

func (r workExperienceRequest) input() usecase.WorkExperienceInput {
	return usecase.WorkExperienceInput{
		JobTitle:    r.JobTitle,
		CompanyName: r.CompanyName,
		SkillsUsed:  r.SkillsUsed,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}

func (r educationRequest) input() usecase.EducationInput {
	return usecase.EducationInput{
		SchoolName: r.SchoolName,
		Program:    r.Program,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
	}
}

func NewDeveloperProfileHandler(uc usecase.DeveloperProfileUsecase) *DeveloperProfileHandler {
	return &DeveloperProfileHandler{uc: uc}
}

func (h *DeveloperProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	managers := middleware.Authorize(policy.ManagesProjects)
	r.Get("/developer-profiles", managers, h.List)
	r.Get("/developer-profiles/:id", managers, h.Get)

	developer := middleware.Authorize(policy.IsDeveloper)
	r.Get("/developer-profile", developer, h.GetOwn)
	r.Patch("/developer-profile", developer, h.UpdateOwn)

	we := r.Group("/work-experience", developer)
	we.Get("/:id", h.GetWorkExperience)
	we.Put("/:id", h.UpdateWorkExperience)
	we.Delete("/:id", h.DeleteWorkExperience)

	edu := r.Group("/education", developer)
	edu.Get("/:id", h.GetEducation)
	edu.Put("/:id", h.UpdateEducation)
	edu.Delete("/:id", h.DeleteEducation)
}

func (h *DeveloperProfileHandler) List(c fiber.Ctx) error {
	var availability *bool
	if raw := c.Query("availability"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			msg := "availability must be true or false"
			return middleware.NewAppError(fiber.StatusBadRequest, msg, map[string]string{"availability": msg}, err)
		}
		availability = &v
	}

	items, err := h.uc.ListProfiles(c.Context(), availability)
	if err != nil {
		return mapDeveloperProfileUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewDeveloperProfileListResponse(items))
}

func (h *DeveloperProfileHandler) Get(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.uc.GetProfile(c.Context(), id)
	if err != nil {
		return mapDeveloperProfileUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileDetailResponse(detail))
}

func (h *DeveloperProfileHandler) GetOwn(c fiber.Ctx) error {
	detail, err := h.uc.GetOwnProfile(c.Context(), middleware.ActorFrom(c).ID)
	if err != nil {
		return mapDeveloperProfileUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileDetailResponse(detail))
}

func (h *DeveloperProfileHandler) UpdateOwn(c fiber.Ctx) error {
	var req updateDeveloperProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	in := usecase.UpdateProfileInput{
		EmploymentStatus: req.EmploymentStatus,
		JobInformation:   req.JobInformation,
	}
	for _, w := range req.WorkExperience {
		in.WorkExperience = append(in.WorkExperience, w.input())
	}
	for _, e := range req.Education {
		in.Education = append(in.Education, e.input())
	}

	detail, err := h.uc.UpdateOwnProfile(c.Context(), middleware.ActorFrom(c).ID, in)
	if err != nil {
		return mapDeveloperProfileUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Profile updated", dto.NewProfileDetailResponse(detail))
}

func (h *DeveloperProfileHandler) GetWorkExperience(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	w, err := h.uc.GetWorkExperience(c.Context(), middleware.ActorFrom(c).ID, id)
	if err != nil {
		return mapDeveloperProfileUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewWorkExperienceResponse(w))
}

func (h *DeveloperProfileHandler) UpdateWorkExperience(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req workExperienceRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	w, err := h.uc.UpdateWorkExperience(c.Context(), middleware.ActorFrom(c).ID, id, req.input())
	if err != nil {
		return mapDeveloperProfileUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewWorkExperienceResponse(w))
}

func (h *DeveloperProfileHandler) DeleteWorkExperience(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.DeleteWorkExperience(c.Context(), middleware.ActorFrom(c).ID, id); err != nil {
		return mapDeveloperProfileUsecaseError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DeveloperProfileHandler) GetEducation(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	e, err := h.uc.GetEducation(c.Context(), middleware.ActorFrom(c).ID, id)
	if err != nil {
		return mapDeveloperProfileUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewEducationResponse(e))
}

func (h *DeveloperProfileHandler) UpdateEducation(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req educationRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	e, err := h.uc.UpdateEducation(c.Context(), middleware.ActorFrom(c).ID, id, req.input())
	if err != nil {
		return mapDeveloperProfileUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewEducationResponse(e))
}

func (h *DeveloperProfileHandler) DeleteEducation(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.DeleteEducation(c.Context(), middleware.ActorFrom(c).ID, id); err != nil {
		return mapDeveloperProfileUsecaseError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func mapDeveloperProfileUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrProfileNotFound),
		errors.Is(err, usecase.ErrWorkExperienceNotFound),
		errors.Is(err, usecase.ErrEducationNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, err.Error(), nil, err)
	default:
		return commonError(err)
	}
}
