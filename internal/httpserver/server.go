package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/logtap/logtap/internal/model"
)

// Server provides the HTTP status API for the daemon.
type Server struct {
	addr      string
	source    model.StatusAPI
	server    *http.Server
	listener  net.Listener
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP status server.
func NewServer(addr string, source model.StatusAPI) *Server {
	if addr == "" {
		addr = "127.0.0.1:7380"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		source: source,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/status", s.handleStatus)

	s.server = &http.Server{
		Handler:           r,
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener

	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Addr returns the bound listen address, useful when the configured
// address uses port 0.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	stats := s.source.Stats()

	status := "ok"
	if !stats.SourceUsable {
		status = "disabled"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"uptime": time.Since(s.startTime).String(),
		"state":  string(stats.State),
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	stats := s.source.Stats()

	slots := make([]gin.H, 0, len(stats.Slots))
	for _, slot := range stats.Slots {
		slots = append(slots, gin.H{
			"name":    slot.Name,
			"active":  slot.Active,
			"matched": slot.Matched,
			"dropped": slot.Dropped,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"state":          string(stats.State),
		"source_usable":  stats.SourceUsable,
		"source_alive":   stats.SourceAlive,
		"started_at":     stats.StartedAt.UTC().Format(time.RFC3339),
		"lines":          stats.Lines,
		"skipped":        stats.Skipped,
		"restarts":       stats.Restarts,
		"acceptor_armed": stats.AcceptorArmed,
		"slots":          slots,
	})
}
