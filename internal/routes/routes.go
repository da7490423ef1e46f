package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	codec *auth.TokenCodec,
	cpHandler *handlers.CPHandler,
	leadHandler *handlers.LeadHandler,
	adminHandler *handlers.AdminHandler,
	notificationHandler *handlers.NotificationHandler,
	profileHandler *handlers.ProfileHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Health checks and scrapes stay at the root, outside the API rate limits
	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Credential checks get a stricter limit: 10 req/min per IP
	credentialLimit := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})

	jwt := middleware.JWTProtected(codec)

	// CP onboarding (public)
	cp := api.Group("/cp")
	cp.Post("/register", cpHandler.Register)
	cp.Post("/login", credentialLimit, cpHandler.Login)
	cp.Post("/setup-account", cpHandler.SetupAccount)
	cp.Post("/validate-pin", credentialLimit, cpHandler.ValidatePIN)

	// CP self-service (bearer token; the CP id only ever comes from the token)
	cp.Get("/me", jwt, cpHandler.Me)
	cp.Get("/leads", jwt, leadHandler.List)
	cp.Post("/leads", jwt, leadHandler.Create)
	cp.Patch("/leads/:id/stage", jwt, leadHandler.UpdateStage)

	// Notifications and profile (bearer token)
	notifications := api.Group("/notifications", jwt)
	notifications.Get("/", notificationHandler.List)
	notifications.Get("/latest", notificationHandler.Latest)
	notifications.Get("/unread-count", notificationHandler.UnreadCount)
	notifications.Patch("/mark-all-read", notificationHandler.MarkAllRead)
	notifications.Patch("/:id/read", notificationHandler.MarkRead)

	api.Get("/profile", jwt, profileHandler.Get)

	// Admin review (admin token or ADMIN bearer)
	admin := api.Group("/admin", middleware.AdminRequired(codec, cfg.AdminToken))
	admin.Get("/cp", adminHandler.ListCPs)
	admin.Post("/cp/:id/approve", adminHandler.Approve)
	admin.Post("/cp/:id/reject", adminHandler.Reject)
	admin.Post("/notifications", adminHandler.CreateNotification)
}
