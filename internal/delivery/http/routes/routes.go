package routes

import (
	"aegis/internal/delivery/http/handler"
	"aegis/internal/delivery/http/middleware"
	"aegis/internal/domain/user"
	"aegis/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Catalog      *handler.CatalogHandler
	Resume       *handler.ResumeHandler
	Mentorship   *handler.MentorshipHandler
	Notification *handler.NotificationHandler
	WS           *ws.Handler

	AuthMiddleware *middleware.AuthMiddleware
	UploadLimiter  *middleware.RateLimiter
}

// Register mounts every handler under /api. Nil handlers are skipped so
// tests can wire a partial registry.
func (r *Registry) Register(app *fiber.App) {
	if app == nil || r == nil {
		return
	}

	api := app.Group("/api")

	if r.Health != nil {
		r.Health.RegisterRoutes(api)
	}
	if r.Auth != nil {
		r.Auth.RegisterRoutes(api.Group("/auth"))
	}
	if r.User != nil && r.AuthMiddleware != nil {
		r.User.RegisterRoutes(api.Group("/users", r.AuthMiddleware.Middleware()))
	}
	if r.Catalog != nil {
		r.Catalog.RegisterRoutes(api, r.recruiterGuard()...)
	}
	if r.Resume != nil {
		var guard []fiber.Handler
		if r.UploadLimiter != nil {
			guard = append(guard, r.UploadLimiter.Middleware())
		}
		r.Resume.RegisterRoutes(api, guard...)
	}
	if r.Mentorship != nil {
		r.Mentorship.RegisterRoutes(api)
	}
	if r.Notification != nil {
		r.Notification.RegisterRoutes(api)
	}
	if r.WS != nil {
		api.Get("/ws/notifications", r.WS.HandleNotificationsWS)
	}
}

func (r *Registry) recruiterGuard() []fiber.Handler {
	if r.AuthMiddleware == nil {
		return nil
	}
	return []fiber.Handler{
		r.AuthMiddleware.Middleware(),
		middleware.RequireRole(user.RoleRecruiter.String()),
	}
}
