package app

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/redis/go-redis/v9"

	"bpexport/internal/exporter"
	"bpexport/internal/handlers"
	"bpexport/internal/infra/snapshot"
	"bpexport/internal/metrics"
	"bpexport/internal/report"
	u "bpexport/internal/utils"
)

// Deps are the collaborators the HTTP layer serves.
type Deps struct {
	Set     *exporter.Set
	Redis   *redis.Client
	Metrics *metrics.Metrics
	Labels  report.Labels
	// Ready reports whether the site database is reachable. Nil means ready.
	Ready func() bool
}

// SetupApp creates and configures a new Fiber app instance
func SetupApp(cfg u.Config, deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		Prefork:               cfg.Server.Prefork,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	RegisterMiddleware(app, cfg, deps)
	RegisterRoutes(app, cfg, deps)

	// Ensure all responses, including 404s, return JSON
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found")
	})

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}

	u.Warn("Request failed", "path", c.Path(), "status", code, "message", msg)

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": msg,
		},
	})
}

// NewExportService wires the handlers to deps, storing snapshots in Redis
// when enabled.
func NewExportService(cfg u.Config, deps Deps) *handlers.ExportService {
	var snaps handlers.SnapshotStore
	if cfg.Cache.SnapshotEnabled && deps.Redis != nil {
		snaps = snapshot.New(deps.Redis, cfg.Cache.SnapshotTTL)
	}
	return handlers.NewExportService(cfg, deps.Set, snaps, deps.Metrics, deps.Labels)
}

// RegisterRoutes mounts all route handlers to the app
func RegisterRoutes(app *fiber.App, cfg u.Config, deps Deps) {
	svc := NewExportService(cfg, deps)

	v1 := app.Group("/v1")
	v1.Get("/exporters", svc.HandleListExporters)
	v1.Get("/exporters/:key", svc.HandleExporterPage)
	v1.Post("/exports", svc.HandleCreateExport)
	v1.Get("/exports/:id", svc.HandleGetExport)
	v1.Get("/exports/:id/html", svc.HandleGetExportHTML)
	v1.Get("/exports/:id/pdf", svc.HandleGetExportPDF)

	v1.Get("/monitor", monitor.New(monitor.Config{Title: "bpexport"}))
}

func registerMetrics(app *fiber.App, m *metrics.Metrics) {
	if m == nil {
		return
	}
	app.Use(m.Fiber())
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
}
