package main

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gridbase/gridbase/internal/config"
	"github.com/gridbase/gridbase/internal/database"
	"github.com/gridbase/gridbase/internal/handlers"
	"github.com/gridbase/gridbase/internal/middleware"
	"github.com/gridbase/gridbase/internal/services"
	"github.com/gridbase/gridbase/internal/types"

	_ "github.com/gridbase/gridbase/docs/api" // Swagger docs
)

// @title Gridbase API
// @version 1.0.0
// @description Multi-tenant schema-flexible tabular data service
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/gridbase/gridbase

// @license.name MIT

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	var writer io.Writer = zerolog.NewConsoleWriter()
	log.Logger = zerolog.New(writer).With().Timestamp().Logger()
	if os.Getenv("DEBUG") != "" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("gridbase")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	api.Get("/health", func(c *fiber.Ctx) error {
		result := services.HealthCheck(cfg, db)
		status := fiber.StatusOK
		if result.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(result)
	})

	baseHandler := &handlers.BaseHandler{DB: db}
	catalogHandler := &handlers.CatalogHandler{DB: db}
	recordHandler := &handlers.RecordHandler{DB: db}

	auth := middleware.AuthUser()

	// Bases and tables
	api.Post("/bases", auth, baseHandler.CreateBase)
	api.Get("/bases", auth, baseHandler.GetBases)
	api.Get("/bases/:baseId", auth, baseHandler.GetBase)
	api.Put("/bases/:baseId", auth, baseHandler.RenameBase)
	api.Delete("/bases/:baseId", auth, baseHandler.DeleteBase)
	api.Post("/bases/:baseId/tables", auth, baseHandler.CreateTable)
	api.Get("/tables/:tableId", auth, baseHandler.GetTable)
	api.Put("/tables/:tableId", auth, baseHandler.RenameTable)
	api.Delete("/tables/:tableId", auth, baseHandler.DeleteTable)

	// Column catalog
	api.Post("/tables/:tableId/columns", auth, catalogHandler.CreateColumn)
	api.Put("/columns/:columnId", auth, catalogHandler.RenameColumn)
	api.Put("/columns/:columnId/type", auth, catalogHandler.UpdateColumnType)
	api.Delete("/columns/:columnId", auth, catalogHandler.DeleteColumn)

	// Records
	api.Post("/tables/:tableId/records", auth, recordHandler.CreateRecord)
	api.Get("/tables/:tableId/records", auth, recordHandler.ListRecords)
	api.Post("/tables/:tableId/records/bulk", auth, recordHandler.AddManyRecords)
	api.Patch("/records/:recordId", auth, recordHandler.UpdateRecord)
	api.Delete("/records/:recordId", auth, recordHandler.DeleteRecord)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	if err := services.InitAuthorizer(cfg, "http", "localhost:"+cfg.Port); err != nil {
		// The service can come up before the Authorizer does; sessions
		// simply fail validation until it is reachable.
		log.Warn().Err(err).Msg("authorizer not ready at startup")
	}

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info().Msg("gracefully shutting down")
		_ = app.Shutdown()
	}()

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}

	log.Info().Msg("server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var statusErr *types.StatusError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &statusErr):
		code = statusErr.Code
		message = statusErr.Message
		errorType = statusErr.Type
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
