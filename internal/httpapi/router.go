package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/radarobras/radar_api/internal/session"
	"github.com/radarobras/radar_api/internal/telemetry"
)

type App struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	Users    *UsersHandler
	Lojas    *LojasHandler
	Obras    *ObrasHandler
	Comments *CommentsHandler
	Reports  *ReportsHandler
	Review   *ReviewHandler

	Sessions *session.Manager
	Cookie   session.CookieConfig

	ServiceName string
}

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(telemetry.ChiTraceMiddleware(app.ServiceName))
	r.Use(telemetry.ChiMetricsMiddleware)
	r.Use(telemetry.ChiLogMiddleware(app.ServiceName))

	r.Get("/health", app.Health.Get)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	authed := session.Middleware(app.Sessions, app.Cookie)

	r.Route("/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", app.Auth.Login)
			r.Post("/logout", app.Auth.Logout)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authed)

			r.Get("/me", app.Users.Me)
			r.Put("/me", app.Users.UpdateMe)

			// Admin endpoints; the service enforces the role.
			r.Post("/", app.Users.Create)
			r.Get("/", app.Users.List)
			r.Put("/{id}", app.Users.Update)
			r.Delete("/{id}", app.Users.Delete)
		})

		r.Route("/lojas", func(r chi.Router) {
			r.Use(authed)

			r.Get("/", app.Lojas.List)
			r.Get("/{id}", app.Lojas.GetByID)

			r.Post("/", app.Lojas.Create)
			r.Put("/{id}", app.Lojas.Rename)
			r.Post("/{id}/neighborhoods", app.Lojas.AddNeighborhood)
			r.Delete("/{id}/neighborhoods", app.Lojas.RemoveNeighborhood)
		})

		r.Route("/obras", func(r chi.Router) {
			r.Use(authed)

			r.Post("/", app.Obras.Create)
			r.Get("/", app.Obras.List)
			r.Get("/{id}", app.Obras.GetByID)
			r.Put("/{id}", app.Obras.Update)

			r.Post("/{id}/move", app.Obras.Move)
			r.Post("/{id}/assign", app.Obras.Assign)
			r.Post("/{id}/archive", app.Obras.Archive)

			r.Post("/{id}/sales", app.Obras.AddSale)
			r.Put("/{id}/sales/{saleId}", app.Obras.EditSale)
			r.Delete("/{id}/sales/{saleId}", app.Obras.DeleteSale)

			r.Post("/{id}/photos", app.Obras.UploadPhoto)
			r.Delete("/{id}/photos", app.Obras.RemovePhoto)

			r.Get("/{id}/comments", app.Comments.List)
			r.Post("/{id}/comments", app.Comments.Create)
			r.Delete("/{id}/comments/{commentId}", app.Comments.Delete)
			r.Get("/{id}/comments/stream", app.Comments.Stream)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(authed)

			r.Get("/summary", app.Reports.Summary)
			r.Get("/pdf", app.Reports.ExportPDF)
		})

		r.Route("/review", func(r chi.Router) {
			r.Use(authed)

			r.Post("/", app.Review.Run)
		})
	})

	return r
}
