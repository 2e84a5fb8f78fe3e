// Package sandbox serves the vault REST protocol over the in-memory vault so
// that clients can be exercised end to end without the real service.
package sandbox

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/waifuvault/waifuvault_sdk_go/internal/logging"
	"github.com/waifuvault/waifuvault_sdk_go/pkg/vault/mock"
)

// maxUploadSize bounds multipart bodies held in memory.
const maxUploadSize = 100 * 1024 * 1024

// Config tunes the sandbox behaviour.
type Config struct {
	// Latency is added to every request.
	Latency time.Duration
	// Fail injects failures into a fraction of the requests.
	Fail FailConfig
	Logger logging.Logger
}

// Server exposes a mock vault over HTTP.
type Server struct {
	store  *mock.Mock
	cfg    Config
	logger logging.Logger
	router *gin.Engine
}

// New builds the sandbox router around store.
func New(store *mock.Mock, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		store:  store,
		cfg:    cfg,
		logger: logger,
		router: gin.New(),
	}
	s.router.MaxMultipartMemory = maxUploadSize
	s.router.Use(gin.Recovery(), s.requestLogger(), latency(cfg.Latency), s.failureInjection(cfg.Fail))
	s.setupRoutes()
	return s
}

// Handler returns the http.Handler serving the vault protocol.
func (s *Server) Handler() *gin.Engine {
	return s.router
}

func (s *Server) setupRoutes() {
	rest := s.router.Group("/rest")

	// Files
	rest.PUT("", s.uploadFile)
	rest.PUT("/:token", s.uploadFile)
	rest.GET("/:token", s.fileInfo)
	rest.PATCH("/:token", s.modifyEntry)
	rest.DELETE("/:token", s.deleteFile)

	// Buckets
	rest.GET("/bucket/create", s.createBucket)
	rest.POST("/bucket/get", s.getBucket)
	rest.DELETE("/bucket/:token", s.deleteBucket)

	// Albums
	rest.POST("/album/:token", s.createAlbum)
	rest.POST("/album/:token/associate", s.associateFiles)
	rest.POST("/album/:token/disassociate", s.disassociateFiles)
	rest.GET("/album/:token", s.getAlbum)
	rest.DELETE("/album/:token", s.deleteAlbum)
	rest.GET("/album/share/:token", s.shareAlbum)
	rest.GET("/album/revoke/:token", s.revokeAlbum)
	rest.POST("/album/download/:token", s.downloadAlbum)

	// Content
	s.router.GET("/f/*filename", s.fileContent)
}
