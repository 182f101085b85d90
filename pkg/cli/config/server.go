package config

import (
	"log/slog"
	"net"
	"net/http"
	"os"

	controller "github.com/safetylens/safetytracker/pkg/controller/http"
	"github.com/urfave/cli/v3"
)

const (
	defaultHost = "localhost"
	defaultPort = "8080"
)

// Server holds server configuration
type Server struct {
	Addr        string
	BaseURL     string
	FrontendDir string
}

// Flags returns CLI flags for Server configuration
func (s *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address (defaults to $HOST:$PORT, then localhost:8080)",
			Category:    "Server",
			Sources:     cli.EnvVars("SAFETYTRACKER_ADDR"),
			Destination: &s.Addr,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Public URL used in download links (if not set, automatically detected from request headers)",
			Category:    "Server",
			Sources:     cli.EnvVars("SAFETYTRACKER_BASE_URL"),
			Destination: &s.BaseURL,
		},
		&cli.StringFlag{
			Name:        "frontend-dir",
			Usage:       "Serve the frontend from this directory instead of the embedded build",
			Category:    "Server",
			Sources:     cli.EnvVars("SAFETYTRACKER_FRONTEND_DIR"),
			Destination: &s.FrontendDir,
		},
	}
}

// ListenAddr returns the address to listen on. An explicit --addr wins;
// otherwise the HOST and PORT environment variables are honoured.
func (s *Server) ListenAddr() string {
	if s.Addr != "" {
		return s.Addr
	}

	host := os.Getenv("HOST")
	if host == "" {
		host = defaultHost
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	return net.JoinHostPort(host, port)
}

// Configure returns the HTTP server settings
func (s *Server) Configure() controller.Config {
	cfg := controller.Config{
		Addr:    s.ListenAddr(),
		BaseURL: s.BaseURL,
	}
	if s.FrontendDir != "" {
		cfg.Frontend = http.Dir(s.FrontendDir)
	}
	return cfg
}

// LogValue returns structured log value
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.ListenAddr()),
		slog.String("base_url", s.BaseURL),
		slog.String("frontend_dir", s.FrontendDir),
	)
}
