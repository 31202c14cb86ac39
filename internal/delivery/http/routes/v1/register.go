package v1

import (
	"acms/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

// Handlers are the resources served under /api/v1. Nil handlers are skipped.
type Handlers struct {
	Auth              *handler.AuthHandler
	Users             *handler.UserHandler
	DeveloperProfiles *handler.DeveloperProfileHandler
	Skills            *handler.SkillHandler
	Projects          *handler.ProjectHandler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}
	if h.Users != nil {
		h.Users.RegisterRoutes(r.Group("/users"))
	}
	if h.DeveloperProfiles != nil {
		h.DeveloperProfiles.RegisterRoutes(r)
	}
	if h.Skills != nil {
		h.Skills.RegisterRoutes(r)
	}
	if h.Projects != nil {
		h.Projects.RegisterRoutes(r)
	}
}
