package routes

import (
	"github.com/booknest/booknest-server/internal/config"
	"github.com/booknest/booknest-server/internal/handlers"
	"github.com/booknest/booknest-server/internal/middleware"
	"github.com/booknest/booknest-server/internal/session"
	"github.com/gofiber/fiber/v2"
)

// Setup registers every route under /api. authLimiter may be nil, in which
// case the auth group falls back to the in-process limiter.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	revoker session.Revoker,
	authLimiter middleware.QuotaTaker,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	legalHandler *handlers.LegalHandler,
	profileHandler *handlers.ProfileHandler,
	postHandler *handlers.PostHandler,
	applicationHandler *handlers.ApplicationHandler,
	messageHandler *handlers.MessageHandler,
	dashboardHandler *handlers.DashboardHandler,
	uploadHandler *handlers.UploadHandler,
) {
	api := app.Group("/api")
	api.Use(middleware.LocalRateLimit(cfg.RateLimitPerMin))

	api.Get("/health", healthHandler.Check)
	api.Get("/legal/privacy", legalHandler.PrivacyPolicy)
	api.Get("/legal/terms", legalHandler.TermsOfService)

	jwt := middleware.JWTProtected(cfg, revoker)

	auth := api.Group("/auth")
	if authLimiter != nil {
		auth.Use(middleware.SharedRateLimit(authLimiter))
	} else {
		auth.Use(middleware.LocalRateLimit(cfg.AuthRateLimitPerMin))
	}
	auth.Post("/signup", authHandler.SignUp)
	auth.Post("/signin", authHandler.SignIn)
	auth.Post("/google", authHandler.Google)
	auth.Post("/refresh", authHandler.Refresh)
	// JWT is applied per route so the public auth routes stay open.
	auth.Post("/signout", jwt, authHandler.SignOut)
	auth.Get("/session", jwt, authHandler.Session)

	profile := api.Group("/profile", jwt)
	profile.Get("/", profileHandler.Get)
	profile.Put("/", profileHandler.Save)
	profile.Get("/posts", profileHandler.Posts)

	posts := api.Group("/posts", jwt)
	posts.Get("/", postHandler.Browse)
	posts.Post("/", postHandler.Create)
	posts.Get("/:id", postHandler.Get)
	posts.Delete("/:id", postHandler.Delete)
	posts.Post("/:id/apply", postHandler.Apply)

	applications := api.Group("/applications", jwt)
	applications.Get("/mine", applicationHandler.Mine)
	applications.Get("/incoming", applicationHandler.Incoming)
	applications.Post("/:id/accept", applicationHandler.Accept)
	applications.Post("/:id/reject", applicationHandler.Reject)
	applications.Get("/:id/messages", messageHandler.Thread)
	applications.Post("/:id/messages", messageHandler.Send)

	api.Get("/dashboard/counts", jwt, dashboardHandler.Counts)
	api.Post("/uploads/images", jwt, uploadHandler.Image)
}
