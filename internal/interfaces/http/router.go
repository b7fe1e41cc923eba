package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/conteo-api/internal/application/auth"
	appsession "github.com/jhoicas/conteo-api/internal/application/session"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SessionUC *appsession.SessionUseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	sessions := protected.Group("/sessions")
	sessionHandler := NewSessionHandler(deps.SessionUC)
	sessions.Post("/", sessionHandler.Create)
	sessions.Get("/", sessionHandler.List)
	sessions.Get("/:id", sessionHandler.Get)
	sessions.Post("/:id/join", sessionHandler.Join)
	sessions.Post("/:id/close", sessionHandler.Close)
	sessions.Post("/:id/items", sessionHandler.AddItems)
	sessions.Put("/:id/items", sessionHandler.SetItem)
	sessions.Post("/:id/merge", sessionHandler.Merge)
	sessions.Get("/:id/compare", sessionHandler.Compare)
	sessions.Post("/:id/finalize", sessionHandler.Finalize)
	sessions.Get("/:id/history", sessionHandler.History)
	sessions.Get("/:id/receiving-report", sessionHandler.Report)
}
