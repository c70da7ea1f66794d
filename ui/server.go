package ui

import (
	"context"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"time"

	"sheetchat/domain/dataset"
	"sheetchat/internal"
	"sheetchat/internal/chat"
	"sheetchat/ports"
	"sheetchat/ui/middleware"

	"github.com/gin-gonic/gin"
)

// DatasetReader parses an uploaded spreadsheet
type DatasetReader interface {
	ReadUpload(ctx context.Context, filename string, src io.Reader, size int64) (*dataset.Dataset, error)
}

// UsageTotals reports aggregated completion usage
type UsageTotals interface {
	Totals(ctx context.Context, since time.Time) (*ports.UsageTotals, error)
}

// Options are the page-level settings the server needs from configuration
type Options struct {
	GinMode        string
	HasAPIKey      bool
	Model          string
	MaxUploadBytes int64
	SecureCookie   bool
}

// Server is the browser-facing web surface
type Server struct {
	router    *gin.Engine
	manager   *chat.Manager
	reader    DatasetReader
	templates *template.Template
	options   Options
	logger    *internal.Logger
}

// NewServer wires the routes and parses the embedded templates
func NewServer(manager *chat.Manager, reader DatasetReader, options Options) (*Server, error) {
	if options.GinMode != "" {
		gin.SetMode(options.GinMode)
	}
	if options.MaxUploadBytes <= 0 {
		options.MaxUploadBytes = 50 * 1024 * 1024
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.MaxMultipartMemory = options.MaxUploadBytes

	s := &Server{
		router:    router,
		manager:   manager,
		reader:    reader,
		templates: tmpl,
		options:   options,
		logger:    internal.DefaultLogger.With("WebServer"),
	}
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) setupRoutes() error {
	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return err
	}
	s.router.StaticFS("/static", http.FS(staticFS))

	pages := s.router.Group("/", middleware.EnsureSession(s.manager, s.options.SecureCookie))
	pages.GET("/", s.handleIndex)
	pages.POST("/upload", s.handleUpload)
	pages.POST("/ask", s.handleAsk)
	pages.POST("/reset", s.handleReset)

	api := s.router.Group("/api", middleware.EnsureSession(s.manager, s.options.SecureCookie))
	api.GET("/session", s.handleSessionJSON)
	api.POST("/ask", s.handleAskJSON)
	return nil
}

// Handler exposes the router for an http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}
