package api

import (
	"time"

	v1 "github.com/Behyna/transaction-ledger/internal/api/v1"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

const prefixV1 = "/api/v1/Transactions"

type RouteConfig struct {
	// WriteRateLimit caps POST/PUT/DELETE requests per client IP per minute; zero disables it.
	WriteRateLimit int
}

func SetupRoutes(app *fiber.App, handler *v1.Handler, ops *OpsHandler, cfg RouteConfig) {
	app.Get("/ping", handler.Pong)
	app.Get("/health", ops.Health)
	if ops.metricsHandler != nil {
		app.Get("/metrics", ops.metricsHandler)
	}

	transactions := app.Group(prefixV1)

	// literal segments must be registered before /:id
	transactions.Get("/HighVolumeTransactions/:threshold", handler.GetHighVolumeTransactions)
	transactions.Get("/GroupByTransactionType", handler.GetSummaryByTransactionType)
	transactions.Get("/GroupByUser", handler.GetSummaryByUser)

	transactions.Get("/", handler.GetTransactions)
	transactions.Get("/:id", handler.GetTransactionByID)

	write := writeLimiter(cfg.WriteRateLimit)
	transactions.Post("/", write, handler.AddTransaction)
	transactions.Put("/:id", write, handler.UpdateTransaction)
	transactions.Delete("/:id", write, handler.DeleteTransaction)
}

func writeLimiter(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"code":    "TOO_MANY_REQUESTS",
				"message": "Too many write requests, retry later.",
			})
		},
	})
}
