package server

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/five82/linewatch/internal/equipment"
)

// Server serves a Dataset over HTTP.
type Server struct {
	app     *fiber.App
	dataset equipment.Source
	records int
	log     zerolog.Logger
	now     func() time.Time
	origins string
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithCORSOrigins sets the allowed origins, comma separated.
func WithCORSOrigins(origins string) Option {
	return func(s *Server) {
		if origins = strings.TrimSpace(origins); origins != "" {
			s.origins = origins
		}
	}
}

// WithClock overrides the clock used for response timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a Server for ds.
func New(ds *equipment.Dataset, opts ...Option) *Server {
	s := &Server{
		dataset: ds,
		records: ds.Len(),
		log:     zerolog.Nop(),
		now:     time.Now,
		origins: "*",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "linewatch-api",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: s.origins,
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Content-Type,Accept,X-Request-ID",
	}))
	s.app.Use(s.logRequests)

	api := s.app.Group("/api")
	api.Get("/v1/equipment-status", s.handleEquipmentStatus)
	api.Get("/health", s.handleHealth)
	api.Options("/*", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.log.Info().Str("addr", addr).Int("records", s.records).Msg("api listening")
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting for in-flight requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleEquipmentStatus(c *fiber.Ctx) error {
	filters := equipment.Filters{
		Status:        strings.TrimSpace(c.Query("status")),
		EquipmentType: strings.TrimSpace(c.Query("equipmentType")),
		Location:      strings.TrimSpace(c.Query("location")),
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			s.log.Warn().Str("limit", raw).Msg("ignoring invalid limit parameter")
		} else {
			filters.Limit = limit
		}
	}

	resp, err := s.dataset.FetchEquipmentStatus(c.UserContext(), filters)
	if err != nil {
		return err
	}
	if resp.Statistics != nil {
		rounded := resp.Statistics.Rounded()
		resp.Statistics = &rounded
	}
	if resp.Data == nil {
		resp.Data = []equipment.Record{}
	}
	resp.Status = "success"
	resp.Count = len(resp.Data)
	resp.Timestamp = s.timestamp()

	s.log.Debug().Int("count", resp.Count).Interface("filters", filters).Msg("equipment status served")
	return c.JSON(resp)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"records":   s.records,
		"timestamp": s.timestamp(),
	})
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
		message = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(code).JSON(fiber.Map{
		"status":    "error",
		"message":   message,
		"timestamp": s.timestamp(),
	})
}

// logRequests echoes X-Request-ID, minting one when the caller sent none, and
// logs every request.
func (s *Server) logRequests(c *fiber.Ctx) error {
	started := s.now()
	requestID := c.Get(fiber.HeaderXRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(fiber.HeaderXRequestID, requestID)
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}
	s.log.Info().
		Str("request_id", requestID).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("elapsed", s.now().Sub(started)).
		Msg("http request")
	return err
}

func (s *Server) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}
