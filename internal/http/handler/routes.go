package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/http/middleware"
	"docvault/internal/model"
	"docvault/internal/policy"
	"docvault/internal/service"
)

// actorFromCtx extracts the authenticated actor stored by middleware.Auth.
func actorFromCtx(c *fiber.Ctx) (policy.Actor, bool) {
	actor, ok := c.Locals(middleware.ActorLocalKey).(policy.Actor)
	return actor, ok
}

// HealthCheck reports readiness by pinging the database.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a plain liveness probe with no dependency checks.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// RegisterRoutes attaches all HTTP routes to the provided Fiber app.
// Everything except health probes and the auth endpoints requires a valid
// bearer token; user management additionally requires the admin role.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, userSvc service.UserService, jwtSecret []byte) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/auth/register", RegisterUser(userSvc))
	app.Post("/auth/login", Login(userSvc))

	authed := app.Group("", middleware.Auth(jwtSecret))

	authed.Get("/me", CurrentUser(userSvc))

	docs := authed.Group("/documents")
	docs.Post("/", CreateDocument(docSvc))
	docs.Get("/", ListDocuments(docSvc))
	docs.Get("/:id", GetDocument(docSvc))
	docs.Patch("/:id", UpdateDocument(docSvc))
	docs.Delete("/:id", DeleteDocument(docSvc))
	docs.Get("/:id/download", DownloadDocument(docSvc))
	docs.Get("/:id/url", DownloadDocumentURL(docSvc))
	docs.Get("/:id/text", DownloadDocumentText(docSvc))

	users := authed.Group("/users", middleware.RequireRole(model.RoleAdmin))
	users.Get("/", ListUsers(userSvc))
	users.Get("/:id", GetUser(userSvc))
	users.Patch("/:id", UpdateUser(userSvc))
	users.Patch("/:id/role", UpdateUserRole(userSvc))
	users.Delete("/:id", DeleteUser(userSvc))
}
