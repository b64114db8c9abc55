package routes

import (
	"github.com/CaioSouzaC1/futsal-api/handlers"
	"github.com/CaioSouzaC1/futsal-api/middleware"
	"github.com/CaioSouzaC1/futsal-api/services"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	tokenService services.TokenService,
	authHandler *handlers.AuthHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	gameHandler *handlers.GameHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(tokenService)

	// Public
	router.Get("/health", handlers.HealthCheck)
	router.Post("/user", authHandler.Register)
	router.Post("/login", authHandler.Login)
	router.Get("/standings", teamHandler.Standings)
	router.Get("/ws/standings", webSocketHandler.ServeStandings)

	router.Route("/team", func(r chi.Router) {
		r.Get("/", teamHandler.List)
		r.Get("/{id}", teamHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", teamHandler.Create)
			r.Put("/{id}", teamHandler.Edit)
			r.Delete("/{id}", teamHandler.Delete)
			r.Post("/{id}/crest", teamHandler.UploadCrest)
		})
	})

	router.Route("/player", func(r chi.Router) {
		r.Get("/", playerHandler.List)
		r.Get("/{id}", playerHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", playerHandler.Create)
			r.Put("/{id}", playerHandler.Edit)
			r.Delete("/{id}", playerHandler.Delete)
		})
	})

	router.Route("/game", func(r chi.Router) {
		r.Get("/", gameHandler.List)
		r.Get("/{id}", gameHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", gameHandler.Create)
			r.Put("/{id}", gameHandler.Edit)
			r.Delete("/{id}", gameHandler.Delete)
		})
	})
}
