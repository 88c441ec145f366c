package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/napolitain/boss-solver/internal/config"
	"github.com/napolitain/boss-solver/internal/converter"
	"github.com/napolitain/boss-solver/internal/logging"
	"github.com/napolitain/boss-solver/internal/service"
	"github.com/napolitain/boss-solver/internal/version"
)

const (
	routeAPIPrefix = "/api"
	routeSolve     = "/solve"
	routeVersion   = "/version"
	routeHealth    = "/healthz"

	maxBodyBytes = 1 << 20
)

var addrFlag = flag.String("addr", "", "Listen address (overrides config and BOSS_SOLVER_ADDR)")

// server exposes the planner over HTTP
type server struct {
	planner *service.Planner
}

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Missing or invalid solver configuration", err, logging.Fields{"config_path": os.Getenv(config.EnvConfigPath)})
	}
	addr := cfg.ServerAddress
	if *addrFlag != "" {
		addr = *addrFlag
	}

	srv := &server{planner: service.NewPlanner(cfg.SolverConfig())}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           newRouter(srv),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("Shutdown failed", err, nil)
		}
	}()

	logging.Info("Server started", logging.Fields{
		"addr":           addr,
		"version":        version.Version,
		"max_iterations": cfg.MaxIterations,
		"timeout":        cfg.Timeout.String(),
		"heuristic":      cfg.Heuristic,
	})
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Fatal("Failed to start server", err, logging.Fields{"addr": addr})
	}
	logging.Info("Server stopped", nil)
}

func newRouter(srv *server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET(routeHealth, srv.health)
	apiRoutes := router.Group(routeAPIPrefix)
	{
		apiRoutes.POST(routeSolve, srv.solve)
		apiRoutes.GET(routeVersion, srv.version)
	}
	return router
}

// solve plans a battle. The body is a solve request, or a legacy
// {"B": [...], "PlayerSkills": [[damage, cooldown]]} encounter.
func (s *server) solve(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, converter.SolveResponse{
			Sequence: []int{},
			Actions:  []string{},
			Status:   "invalid_input",
			Error:    "failed to read request body",
		})
		return
	}

	req, err := converter.DecodeRequest(string(body))
	if err != nil {
		logging.Info("rejected solve request", logging.Fields{"error": err.Error(), "remote": c.ClientIP()})
		c.JSON(http.StatusBadRequest, converter.SolveResponse{
			Sequence: []int{},
			Actions:  []string{},
			Status:   "invalid_input",
			Error:    err.Error(),
		})
		return
	}

	code, resp := s.planner.Handle(c.Request.Context(), req)
	c.JSON(code, resp)
}

func (s *server) version(c *gin.Context) {
	c.JSON(http.StatusOK, version.Info())
}

func (s *server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
