package routes

import (
	"strings"

	"acms/internal/delivery/http/handler"
	"acms/internal/delivery/http/middleware"
	v1 "acms/internal/delivery/http/routes/v1"
	"acms/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"
)

// Uploads locates stored files and the URL prefix they are served under.
type Uploads struct {
	Dir    string
	Prefix string
}

type Registry struct {
	health  *handler.HealthHandler
	auth    *middleware.AuthMiddleware
	v1      v1.Handlers
	ws      *ws.Handler
	uploads Uploads
}

func NewRegistry(health *handler.HealthHandler, auth *middleware.AuthMiddleware, handlers v1.Handlers, wsHandler *ws.Handler, uploads Uploads) *Registry {
	return &Registry{health: health, auth: auth, v1: handlers, ws: wsHandler, uploads: uploads}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerUploads(app)
	r.registerWS(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
}

func (r *Registry) registerUploads(app *fiber.App) {
	if r.uploads.Dir == "" || r.uploads.Prefix == "" {
		return
	}
	prefix := "/" + strings.Trim(r.uploads.Prefix, "/")
	app.Get(prefix+"*", static.New(r.uploads.Dir, static.Config{Browse: false}))
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.ws != nil {
		app.Get("/ws/assignments", r.ws.HandleAssignmentsWS)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	if r.auth != nil {
		api.Use(r.auth.Middleware())
	}
	v1.Register(api.Group("/v1"), r.v1)
}
