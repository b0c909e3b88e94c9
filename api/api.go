package api

import (
	"context"
	"log/slog"
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/papercomputeco/pairwise/pkg/relay"
	"github.com/papercomputeco/pairwise/pkg/session"
)

// Recorder persists a summarized session. *worker.Pool satisfies it.
type Recorder interface {
	Submit(ctx context.Context, rec *session.Record) error
}

// Server is the API server fronting the model relay and the conversation log.
type Server struct {
	config     Config
	relay      *relay.Relay
	recorder   Recorder
	summarizer *session.Summarizer
	logger     *slog.Logger
	app        *fiber.App
}

// NewServer creates a new API server. The relay and recorder are injected so
// tests can swap in a stub completer and an in-memory driver.
func NewServer(config Config, r *relay.Relay, recorder Recorder, summarizer *session.Summarizer, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// any origin, method and header; no credentials
	app.Use(cors.New())
	app.Use(recover.New())
	app.Use(compress.New())

	s := &Server{
		config:     config,
		relay:      r,
		recorder:   recorder,
		summarizer: summarizer,
		logger:     logger,
		app:        app,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/generate", s.handleGenerate)
	app.Post("/nudge", s.handleNudge)
	app.Post("/save_conversation", s.handleSaveConversation)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server", s.startAttrs(s.config.ListenAddr)...)
	return s.app.Listen(s.config.ListenAddr)
}

// RunWithListener starts the API server using the provided listener.
func (s *Server) RunWithListener(listener net.Listener) error {
	s.logger.Info("starting API server", s.startAttrs(listener.Addr().String())...)
	return s.app.Listener(listener)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) startAttrs(listen string) []any {
	models := s.relay.Models()
	return []any{
		"listen", listen,
		"weak_model", models.Weak,
		"strong_model", models.Strong,
	}
}
