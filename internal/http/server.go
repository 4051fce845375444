// Package httpapi exposes the CRM services as a JSON API.
package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"crm/internal/config"
	"crm/internal/domain"
	"crm/internal/http/handlers"
	applog "crm/internal/log"
)

const (
	maxBody     = 1 << 20 // 1 MiB
	genericMsg  = "Something went wrong. Please try again."
	globalLimit = 120
)

// Status maps an error to its HTTP status and the message the caller sees.
// Only taxonomy errors carry their own message out.
func Status(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		if fe.Code >= fiber.StatusInternalServerError {
			return fe.Code, genericMsg
		}
		return fe.Code, fe.Message
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrBadPassword),
		errors.Is(err, domain.ErrInvalidCredential),
		errors.Is(err, domain.ErrUnauthenticated):
		return fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnavailable):
		return fiber.StatusServiceUnavailable, domain.ErrUnavailable.Error()
	}
	return fiber.StatusInternalServerError, genericMsg
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	code, msg := Status(err)
	if code == fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

func limitReached(action, msg string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		applog.Security(c, action, nil)
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": msg})
	}
}

// NewApp builds the fiber app with middleware and every route mounted.
func NewApp(deps *handlers.Deps, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Server().MaxRequestBodySize = maxBody

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:          globalLimit,
		Expiration:   time.Minute,
		Next:         func(c *fiber.Ctx) bool { return strings.HasPrefix(c.Path(), "/healthz") },
		LimitReached: limitReached("rate.global.hit", "rate limit exceeded, retry soon"),
	}))

	app.Get("/healthz", deps.HealthHandler.Check)

	loginMax := cfg.LoginRateMax
	if loginMax <= 0 {
		loginMax = 5
	}
	loginLimiter := limiter.New(limiter.Config{
		Max:          loginMax,
		Expiration:   10 * time.Minute,
		LimitReached: limitReached("rate.login.hit", "Too many attempts. Please try again later."),
	})

	auth := handlers.RequireUser(deps.Auth)
	api := app.Group("/api/v1")

	api.Post("/users", deps.AuthHandler.Register)
	api.Get("/users/me", auth, deps.AuthHandler.Me)
	api.Post("/auth/login", loginLimiter, deps.AuthHandler.Login)
	api.Post("/auth/verify", deps.AuthHandler.Verify)

	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Get)
	api.Get("/products/:id/availability", deps.ProductHandler.Availability)
	api.Post("/products", auth, deps.ProductHandler.Create)
	api.Put("/products/:id", auth, deps.ProductHandler.Update)
	api.Delete("/products/:id", auth, deps.ProductHandler.Delete)

	clients := api.Group("/clients", auth)
	clients.Get("/", deps.ClientHandler.List)
	clients.Get("/mine", deps.ClientHandler.Mine)
	clients.Get("/:id", deps.ClientHandler.Get)
	clients.Post("/", deps.ClientHandler.Create)
	clients.Put("/:id", deps.ClientHandler.Update)
	clients.Delete("/:id", deps.ClientHandler.Delete)

	orders := api.Group("/orders", auth)
	orders.Get("/", deps.OrderHandler.List)
	orders.Get("/mine", deps.OrderHandler.Mine)
	orders.Get("/:id", deps.OrderHandler.Get)
	orders.Post("/", deps.OrderHandler.Create)
	orders.Put("/:id", deps.OrderHandler.Update)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "route not found")
	})
	return app
}
