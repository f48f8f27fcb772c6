package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fitzty/fitzty-backend/internal/handler"
	"github.com/fitzty/fitzty-backend/internal/httputil"
	authmw "github.com/fitzty/fitzty-backend/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler     *handler.AuthHandler
	ProfileHandler  *handler.ProfileHandler
	WardrobeHandler *handler.WardrobeHandler
	BrandHandler    *handler.BrandHandler
	WaitlistHandler *handler.WaitlistHandler
	FollowHandler   *handler.FollowHandler
	FitHandler      *handler.FitHandler
	AIHandler       *handler.AIHandler
	JWTSecret       string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(authmw.CORS)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
	})

	r.Post("/waitlist", cfg.WaitlistHandler.Join)

	// Availability probe works for both sign-up (anonymous) and profile edit
	r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).
		Get("/profile/username-availability", cfg.ProfileHandler.UsernameAvailability)

	// AI generation gateway: stateless, public, fixed wire format
	r.Route("/functions", func(r chi.Router) {
		r.Post("/analyze-clothing", cfg.AIHandler.AnalyzeClothing)
		r.Post("/generate-ai-avatar", cfg.AIHandler.GenerateAvatar)
		// Preflight is answered by the CORS middleware; these keep chi from
		// returning 405 for OPTIONS
		r.Options("/analyze-clothing", func(http.ResponseWriter, *http.Request) {})
		r.Options("/generate-ai-avatar", func(http.ResponseWriter, *http.Request) {})
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		// Current user endpoints
		r.Get("/me", cfg.AuthHandler.Me)

		// Auth actions that require authentication
		r.Post("/auth/logout", cfg.AuthHandler.Logout)
		r.Post("/auth/logout-all", cfg.AuthHandler.LogoutAll)

		// Profile
		r.Get("/profile", cfg.ProfileHandler.Get)
		r.Put("/profile", cfg.ProfileHandler.Update)

		// Wardrobe
		r.Route("/wardrobe", func(r chi.Router) {
			r.Post("/items", cfg.WardrobeHandler.Create)
			r.Get("/items", cfg.WardrobeHandler.List)
			r.Get("/items/{id}", cfg.WardrobeHandler.Get)
			r.Put("/items/{id}", cfg.WardrobeHandler.Update)
			r.Delete("/items/{id}", cfg.WardrobeHandler.Delete)
			r.Post("/analyze", cfg.WardrobeHandler.Analyze)
		})

		// Brand picker list
		r.Get("/brands", cfg.BrandHandler.List)

		// Follow/unfollow actions require authentication
		r.Post("/users/{id}/follow", cfg.FollowHandler.Follow)
		r.Delete("/users/{id}/follow", cfg.FollowHandler.Unfollow)

		// Outfit composer
		r.Route("/fits", func(r chi.Router) {
			r.Post("/", cfg.FitHandler.Create)
			r.Get("/", cfg.FitHandler.List)
			r.Get("/posts", cfg.FitHandler.ListPosts)
			r.Post("/{id}/post", cfg.FitHandler.Post)
			r.Delete("/{id}", cfg.FitHandler.Delete)
		})
	})

	return r
}
