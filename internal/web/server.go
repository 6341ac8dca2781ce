// Package web provides the HTTP status API for the buttond daemon.
package web

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tgould/buttond/internal/status"
)

// Server serves the status pages over HTTP.
type Server struct {
	app     *fiber.App
	tracker *status.Tracker
	version string
}

// New creates a Server that reads state from the given tracker.
func New(tracker *status.Tracker, version string) *Server {
	s := &Server{
		tracker: tracker,
		version: version,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Get("/", s.HandleIndex())
	app.Get("/index.json", s.HandleStatus())
	app.Get("/health", s.HandleHealth())
	app.Get("/version", s.HandleVersion())

	s.app = app
	return s
}

// Listen starts listening on addr. It blocks until the server is shut down.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// HandleIndex renders the HTML status page.
func (s *Server) HandleIndex() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ctx.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return ctx.SendString(renderHTML(s.tracker.Snapshot()))
	}
}

// HandleStatus returns the full status snapshot as JSON.
func (s *Server) HandleStatus() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return ctx.Send(formatJSON(s.tracker.Snapshot()))
	}
}

// HandleHealth returns data about the health of the daemon process.
func (s *Server) HandleHealth() fiber.Handler {
	host, _ := os.Hostname()

	return func(ctx *fiber.Ctx) error {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		healthData := struct {
			NumGoroutines      int
			NumCPU             int
			HeapAllocatedBytes uint64
			SysMemoryBytes     uint64
			Version            string
			ProgLang           string
			HostName           string
			Time               string
		}{
			NumGoroutines:      runtime.NumGoroutine(),
			NumCPU:             runtime.NumCPU(),
			HeapAllocatedBytes: m.Alloc,
			SysMemoryBytes:     m.Sys,
			Version:            s.version,
			ProgLang:           runtime.Version(),
			HostName:           host,
			Time:               time.Now().Format(time.RFC3339),
		}
		ctx.Status(http.StatusOK)
		return ctx.JSON(healthData)
	}
}

// HandleVersion returns the daemon version.
func (s *Server) HandleVersion() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"version": s.version})
	}
}
