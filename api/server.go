// Package api exposes the analysis engine over HTTP.  It is thin transport
// glue: every endpoint maps one engine operation and renders whatever
// structured result comes back.  No analysis state is cached between
// requests; the log file itself is the only persisted state.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gem5tools/spillscope/analysis"
	"github.com/gem5tools/spillscope/config"
	"github.com/gem5tools/spillscope/log"
)

// Server serves the spill analysis API for a single configured log file.
type Server struct {
	cfg      config.Config
	analyzer *analysis.Analyzer
	logger   log.Logger
	router   *gin.Engine
}

// NewServer builds a Server around cfg.  logger may be nil.
func NewServer(cfg config.Config, logger log.Logger) *Server {
	opts := cfg.AnalyzerOptions()
	opts.Logger = log.NewContext(logger, "analysis:")

	s := &Server{
		cfg:      cfg,
		analyzer: analysis.New(opts),
		logger:   logger,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestID())

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", s.handleHealth)
		apiGroup.GET("/status", s.handleStatus)
		apiGroup.GET("/spill-analysis", s.handleAnalyze)
		apiGroup.GET("/spills/count", s.handleCount)
		apiGroup.GET("/spills/search", s.handleSearch)
		apiGroup.GET("/spills/sample", s.handleSample)
		apiGroup.GET("/spills/range", s.handleRange)
	}

	s.router = r
	return s
}

// Handler returns the HTTP handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	if s.logger != nil {
		s.logger.Log("listening on", s.cfg.ListenAddr)
	}
	return s.router.Run(s.cfg.ListenAddr)
}

// requestID tags every request with a UUID, echoed in the response header
// and in log lines so slow scans can be traced.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
		if s.logger != nil {
			s.logger.Log(id, c.Request.Method, c.Request.URL.Path, c.Writer.Status())
		}
	}
}

// envelope is the uniform response wrapper.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, err error) {
	c.JSON(status, envelope{Success: false, Message: err.Error()})
}
