package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"techradar-api/internal/config"
	"techradar-api/internal/handler"
	"techradar-api/internal/middleware"
	"techradar-api/internal/model"
)

type Handlers struct {
	Auth            *handler.AuthHandler
	Like            *handler.LikeHandler
	Technology      *handler.RadarHandler
	Trend           *handler.RadarHandler
	Comment         *handler.CommentHandler
	Reference       *handler.ReferenceHandler
	User            *handler.UserHandler
	Audit           *handler.AuditHandler
	Events          http.Handler
	Metrics         http.Handler
	HealthCheckFunc func(*http.Request) error
}

type requestObserver interface {
	ObserveRequest(method string, route string, status int, elapsed time.Duration)
}

// New builds the API router. observer may be nil.
func New(cfg *config.Config, logger *slog.Logger, authMiddleware *middleware.AuthMiddleware, observer requestObserver, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	requireAuth := authMiddleware.RequireAuth
	requireAdmin := authMiddleware.RequireRole(model.RoleAdmin)

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	if observer != nil {
		r.Use(middleware.Metrics(observer))
	}

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if h.HealthCheckFunc != nil {
			if err := h.HealthCheckFunc(req); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics)
	}

	r.Route("/api", func(root chi.Router) {
		root.Use(rateLimitMiddleware.Handler)

		// The event feed is long lived and needs the raw connection, so it
		// sits outside the request timeout.
		if h.Events != nil {
			root.With(requireAuth, requireAdmin).Get("/admin/events", h.Events.ServeHTTP)
		}

		root.Group(func(api chi.Router) {
			api.Use(middleware.Timeout(cfg.RequestTimeout))

			api.Route("/auth", func(auth chi.Router) {
				auth.Post("/login", h.Auth.Login)
				auth.With(requireAuth).Get("/validate-token", h.Auth.ValidateToken)
			})

			api.Route("/likes", func(likes chi.Router) {
				likes.Post("/count", h.Like.Count)
				likes.With(requireAuth).Post("/status", h.Like.Status)
				likes.With(requireAuth).Post("/like", h.Like.Add)
				likes.With(requireAuth).Post("/unlike", h.Like.Remove)
			})

			api.Route("/technologies", radarRoutes(h.Technology, requireAuth, requireAdmin))
			api.Route("/trends", radarRoutes(h.Trend, requireAuth, requireAdmin))
			api.Get("/technology-radar-config", h.Technology.Config)
			api.Get("/trend-radar-config", h.Trend.Config)

			api.Route("/comments", func(comments chi.Router) {
				comments.With(requireAuth).Get("/count", h.Comment.Count)
				comments.With(requireAuth).Get("/{type}/{generatedId}", h.Comment.List)
				comments.With(requireAuth).Post("/{type}/{generatedId}", h.Comment.Create)
			})

			api.Route("/references", func(refs chi.Router) {
				refs.Get("/count", h.Reference.Count)
				refs.Get("/{type}/{generatedId}", h.Reference.ListByEntity)
				refs.Get("/{id}", h.Reference.Get)
				refs.With(requireAuth, requireAdmin).Post("/", h.Reference.Create)
				refs.With(requireAuth, requireAdmin).Delete("/{id}", h.Reference.Delete)
			})

			api.Route("/users", func(users chi.Router) {
				users.Use(requireAuth)
				users.With(requireAdmin).Get("/", h.User.List)
				users.Get("/{id}", h.User.Get)
				users.With(requireAdmin).Post("/", h.User.Create)
				users.With(requireAdmin).Put("/{id}", h.User.Update)
				users.With(requireAdmin).Delete("/{id}", h.User.Delete)
			})

			api.With(requireAuth, requireAdmin).Get("/admin/audit", h.Audit.List)
		})
	})

	return r
}

func radarRoutes(rh *handler.RadarHandler, requireAuth, requireAdmin func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", rh.List)
		r.Get("/{generatedId}/likes", rh.LikeCount)

		r.Group(func(authed chi.Router) {
			authed.Use(requireAuth)
			authed.Get("/count", rh.Count)
			authed.Get("/quadrant/{quadrant}", rh.ListByQuadrant)
			authed.Get("/ring/{ring}", rh.ListByRing)
			authed.Get("/{generatedId}", rh.Get)
			authed.Get("/{generatedId}/likes/status", rh.LikeStatus)
			authed.Post("/{generatedId}/likes", rh.ToggleLike)

			authed.With(requireAdmin).Post("/", rh.Create)
			authed.With(requireAdmin).Put("/{generatedId}", rh.Update)
			authed.With(requireAdmin).Patch("/{generatedId}/stage", rh.UpdateStage)
			authed.With(requireAdmin).Delete("/{generatedId}", rh.Delete)
		})
	}
}
