// Package api serves the dream journal as a small JSON HTTP API for a
// mobile or web client.
package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chris-regnier/dreamctl/internal/completion"
	"github.com/chris-regnier/dreamctl/internal/journal"
	"github.com/chris-regnier/dreamctl/internal/storage"
)

// UserHeader selects the acting user. Requests without it act as the
// configured default user.
const UserHeader = "X-User-ID"

// Config wraps the knobs that impact runtime behavior.
type Config struct {
	Addr        string
	DefaultUser string
	// Interpretation calls can take far longer than plain reads.
	WriteTimeout time.Duration
}

// Server exposes the Fiber application.
type Server struct {
	app    *fiber.App
	svc    *journal.Service
	cfg    Config
	logger *zap.Logger
}

// NewServer wires handlers and middleware.
func NewServer(cfg Config, svc *journal.Service, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 90 * time.Second
	}

	srv := &Server{svc: svc, cfg: cfg, logger: log.Named("api")}
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          srv.handleError,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${method} ${path} | ${locals:requestid}\n",
		Output: zap.NewStdLog(srv.logger).Writer(),
	}))
	app.Use(cors.New())

	srv.app = app
	srv.registerRoutes()
	return srv
}

// App returns the underlying Fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run starts listening for HTTP traffic until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.app.Shutdown()
	}()

	s.logger.Info("dream API listening", zap.String("addr", s.cfg.Addr))
	return s.app.Listen(s.cfg.Addr)
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api/v1")
	api.Get("/moods", s.handleMoods)
	api.Post("/prompt", s.handlePrompt)

	dreams := api.Group("/dreams")
	dreams.Get("/", s.handleList)
	dreams.Post("/", s.handleRecord)
	dreams.Get("/search", s.handleSearch)
	dreams.Post("/interpret-drafts", s.handleInterpretDrafts)
	dreams.Get("/:id", s.handleGet)
	dreams.Patch("/:id", s.handleEdit)
	dreams.Delete("/:id", s.handleDelete)
	dreams.Post("/:id/interpret", s.handleInterpret)
}

func (s *Server) user(c *fiber.Ctx) string {
	if u := c.Get(UserHeader); u != "" {
		return u
	}
	return s.cfg.DefaultUser
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var ce *completion.Error
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, storage.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, storage.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, journal.ErrNoClient):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	case errors.As(err, &ce):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Any("request_id", c.Locals("requestid")),
			zap.Error(err),
		)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(format string, args ...any) error {
	return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf(format, args...))
}
