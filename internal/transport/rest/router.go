package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/minhvt/corporate-portal/internal/auth"
	"github.com/minhvt/corporate-portal/internal/employee"
	"github.com/minhvt/corporate-portal/internal/news"
	"github.com/minhvt/corporate-portal/internal/permission"
	"github.com/minhvt/corporate-portal/internal/transport/middleware"
	"github.com/minhvt/corporate-portal/internal/transport/swagger"
)

// RegisterAllRoutes mounts the API under /api/v1 and installs the page
// namespace middleware (admin/cms gating, news slug normalization) ahead of
// every route.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sqlx.DB,
	authHandler *auth.Handler,
	sessionCodec auth.SessionCodecAPI,
	guard *middleware.Guard,
	permissionHandler *permission.Handler,
	employeeHandler *employee.Handler,
	newsHandler *news.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.URLNormalization(sessionCodec, logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/logout", authHandler.Logout)
			sr.Get("/session", authHandler.Session)
		})

		// Public news routes (published articles only)
		r.Get("/news", newsHandler.ListArticles)
		r.Get("/news/{slug}", newsHandler.GetArticle)

		// Protected routes that require a decoded session
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.SessionMiddleware)

			// Permission administration
			pr.Group(func(ar chi.Router) {
				ar.Use(guard.RequireAdmin())
				ar.Get("/permissions", permissionHandler.ListPermissions)
				ar.Get("/permissions/users/{userID}", permissionHandler.GetUserPermissions)
				ar.Put("/permissions/users/{userID}", permissionHandler.UpdateUserPermissions)
				ar.Post("/permissions/setup-defaults", permissionHandler.SetupDefaultPermissions)
			})

			// Employee directory, gated by fine-grained module permissions
			pr.Group(func(er chi.Router) {
				er.Use(guard.RequireModulePermission("employees", "view"))
				er.Get("/employees", employeeHandler.ListEmployees)
				er.Get("/employees/{id}", employeeHandler.GetEmployee)
			})

			// News CMS mutations, behind the portal gate
			pr.Group(func(nr chi.Router) {
				nr.Use(guard.RequirePortal())

				nr.Group(func(cr chi.Router) {
					cr.Use(guard.RequireModulePermission("news", "create"))
					cr.Post("/news", newsHandler.CreateArticle)
				})

				nr.Group(func(ur chi.Router) {
					ur.Use(guard.RequireModulePermission("news", "edit"))
					ur.Put("/news/{id}", newsHandler.UpdateArticle)
				})
			})
		})
	})
}
