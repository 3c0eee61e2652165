package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/wicaksana/internal-portal/internal/auth"
	"github.com/wicaksana/internal-portal/internal/directory"
	"github.com/wicaksana/internal-portal/internal/document"
	"github.com/wicaksana/internal-portal/internal/permission"
	"github.com/wicaksana/internal-portal/internal/transport/middleware"
	"github.com/wicaksana/internal-portal/internal/transport/swagger"
	"github.com/wicaksana/internal-portal/internal/user"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth       *auth.Handler
	User       *user.Handler
	Permission *permission.Handler
	Document   *document.Handler
	Directory  *directory.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, handlers Handlers, authorizer *middleware.AreaAuthorizer, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// OpenAPI spec and Swagger UI live outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", handlers.Auth.Login)
			sr.Post("/refresh", handlers.Auth.RefreshToken)
			sr.Post("/logout", handlers.Auth.Logout)
		})

		// Everything below requires a valid access token.
		r.Group(func(pr chi.Router) {
			pr.Use(handlers.Auth.AuthMiddleware)

			pr.Get("/users/me", handlers.User.GetCurrentUser)
			pr.Get("/me/permissions", handlers.Permission.GetMyPermissions)

			// User administration
			pr.Group(func(ar chi.Router) {
				ar.Use(middleware.RequireAdmin(logger))
				ar.Get("/users", handlers.User.ListUsers)
				ar.Post("/users", handlers.User.CreateUser)
				ar.Patch("/users/{id}", handlers.User.UpdateUser)
				ar.Get("/users/{id}/permissions", handlers.Permission.GetUserPermissions)
			})

			// Grant administration is superadmin territory.
			pr.Group(func(sr chi.Router) {
				sr.Use(middleware.RequireSuperadmin(logger))
				sr.Put("/users/{id}/grants/{area}", handlers.Permission.UpsertGrant)
				sr.Delete("/users/{id}/grants/{area}", handlers.Permission.DeleteGrant)
			})

			// Documents: handlers run their own per-document checks on top of
			// the area gate, so confidential denials can read as 404.
			pr.Route("/documents", func(dr chi.Router) {
				dr.Group(func(vr chi.Router) {
					vr.Use(authorizer.Require(permission.AreaDocuments, permission.ActionView))
					vr.Get("/", handlers.Document.ListDocuments)
					vr.Get("/{id}", handlers.Document.GetDocument)
					vr.Get("/{id}/download", handlers.Document.DownloadDocument)
				})

				dr.Group(func(er chi.Router) {
					er.Use(authorizer.Require(permission.AreaDocuments, permission.ActionEdit))
					er.Post("/", handlers.Document.UploadDocument)
					er.Patch("/{id}", handlers.Document.UpdateDocument)
				})

				dr.Group(func(delr chi.Router) {
					delr.Use(authorizer.Require(permission.AreaDocuments, permission.ActionDelete))
					delr.Delete("/{id}", handlers.Document.DeleteDocument)
				})

				dr.Group(func(ar chi.Router) {
					ar.Use(middleware.RequireAdmin(logger))
					ar.Put("/{id}/confidential", handlers.Document.SetConfidential)
				})

				dr.Group(func(sr chi.Router) {
					sr.Use(middleware.RequireSuperadmin(logger))
					sr.Post("/{id}/confidential-access", handlers.Permission.GrantConfidentialAccess)
					sr.Delete("/{id}/confidential-access/{userID}", handlers.Permission.RevokeConfidentialAccess)
				})
			})

			// Employee directory
			pr.Group(func(er chi.Router) {
				er.Use(authorizer.Require(permission.AreaHR, permission.ActionView))
				er.Get("/employees", handlers.Directory.ListEmployees)
				er.Get("/employees/{id}", handlers.Directory.GetEmployee)
			})
			pr.Group(func(ar chi.Router) {
				ar.Use(middleware.RequireAdmin(logger))
				ar.Post("/directory/sync", handlers.Directory.SyncDirectory)
			})
		})
	})
}
