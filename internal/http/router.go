package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/subslayer/subslayer/internal/auth"
	"github.com/subslayer/subslayer/internal/http/assistant"
	"github.com/subslayer/subslayer/internal/http/category"
	"github.com/subslayer/subslayer/internal/http/notification"
	"github.com/subslayer/subslayer/internal/http/settings"
	"github.com/subslayer/subslayer/internal/http/subscription"
)

func New(
	jwtSecret string,
	allowedOrigin string,
	subscriptionsV1 *subscription.Handler,
	settingsV1 *settings.Handler,
	notificationsV1 *notification.Handler,
	assistantV1 *assistant.Handler,
	categoriesV1 *category.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Run-Id"},
		AllowCredentials: true,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(jwtSecret))

		r.Route("/subscriptions", func(r chi.Router) {
			subscriptionsV1.Routes(r)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			settingsV1.Routes(r)
		})

		r.Route("/notifications", notificationsV1.Routes)

		r.Route("/assistant", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			assistantV1.Routes(r)
		})

		r.Route("/categories", func(r chi.Router) {
			categoriesV1.Routes(r)
		})
	})

	return router
}
