// Package api implements the minimal status surface (SPEC_FULL.md §6): a
// health probe, a run-status summary, an issues list, and pprof mounted for
// operator debugging — generalized from the teacher's gin wiring.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ingestd/internal/config"
	"ingestd/internal/ingest"
	"ingestd/internal/repository"
)

// Server wraps the gin engine and its dependencies for the status API.
type Server struct {
	engine     *gin.Engine
	ingests    repository.IngestRepository
	games      repository.GameRepository
	controller *ingest.Controller
	logger     *logrus.Logger
	addr       string
}

func New(cfg config.ServerConfig, ingests repository.IngestRepository, games repository.GameRepository, controller *ingest.Controller, logger *logrus.Logger) *Server {
	gin.SetMode(cfg.Mode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{engine: engine, ingests: ingests, games: games, controller: controller, logger: logger, addr: cfg.Addr}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.healthz)
	s.engine.GET("/status", s.status)
	s.engine.GET("/issues", s.issues)
	s.engine.POST("/ingest/stop", s.stopIngest)
	pprof.Register(s.engine, "debug/pprof")
}

// ListenAndServe blocks serving the status API until the process exits.
func (s *Server) ListenAndServe() error {
	return s.engine.Run(s.addr)
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// status reports the controller's lifecycle state plus the bookkeeping rows
// of the most recently started run, finished or not.
func (s *Server) status(c *gin.Context) {
	resp := gin.H{
		"controller_state": s.controller.State().String(),
	}
	if run, found, err := s.ingests.LatestRun(c.Request.Context()); err == nil && found {
		resp["last_run"] = run
		if counts, err := s.ingests.RunCounts(c.Request.Context(), run.ID); err == nil {
			resp["last_run_counts"] = counts
		}
		if timings, err := s.ingests.RunTimings(c.Request.Context(), run.ID); err == nil {
			resp["last_run_timings"] = timings
		}
	}
	c.JSON(http.StatusOK, resp)
}

// issues lists up to 200 of the most recent log entries with severity <=
// Warning, from any run — the "games with issues" surface SPEC_FULL.md §6
// names.
func (s *Server) issues(c *gin.Context) {
	rows, err := s.games.ListIssues(c.Request.Context(), 2, 200)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"issues": rows, "as_of": time.Now()})
}

func (s *Server) stopIngest(c *gin.Context) {
	s.controller.Stop()
	c.JSON(http.StatusAccepted, gin.H{"status": "stopping"})
}
