// Package http exposes the auth flows, the profile routes and the practice
// log over a gin router mounted under /api.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/dsalog/internal/logging"
	"github.com/dmitrijs2005/dsalog/internal/server/config"
	"github.com/dmitrijs2005/dsalog/internal/server/metrics"
	"github.com/dmitrijs2005/dsalog/internal/server/models"
	"github.com/dmitrijs2005/dsalog/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// AuthService is the part of services.UserService the handlers use.
type AuthService interface {
	Authenticator
	Signup(ctx context.Context, in models.SignupInput) (*models.User, error)
	Login(ctx context.Context, in models.LoginInput) (*services.Session, error)
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, userID string, in models.ChangePasswordInput) (*services.Session, error)
	PhotoUploadURL(ctx context.Context, userID string) (*models.PhotoUpload, error)
	SetPhoto(ctx context.Context, userID, photo string) (*models.User, error)
}

// LogService is the part of services.LogService the handlers use.
type LogService interface {
	Add(ctx context.Context, userID string, in models.LogInput) (*models.LogEntry, error)
	List(ctx context.Context, userID string) ([]*models.LogEntry, error)
	Update(ctx context.Context, userID, id string, in models.LogInput) (*models.LogEntry, error)
	Delete(ctx context.Context, userID, id string) error
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	address      string
	engine       *gin.Engine
	users        AuthService
	logs         LogService
	health       Pinger
	metrics      *metrics.Metrics
	logger       logging.Logger
	cookieMaxAge time.Duration
	cookieSecure bool
}

// NewServer builds the router. m and health may be nil, which drops
// /metrics and makes /healthz report only liveness.
func NewServer(cfg *config.Config, l logging.Logger, us AuthService, ls LogService, health Pinger, m *metrics.Metrics) *Server {
	s := &Server{
		address:      cfg.EndpointAddrHTTP,
		users:        us,
		logs:         ls,
		health:       health,
		metrics:      m,
		logger:       l.With("module", "http_server"),
		cookieMaxAge: cfg.CookieMaxAge,
		cookieSecure: cfg.CookieSecure,
	}
	s.engine = s.routes(cfg.CORSAllowedOrigins)
	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes(origins []string) *gin.Engine {
	router := gin.New()
	router.Use(requestID(), s.accessLog(), s.recovery())

	if len(origins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", RequestIDHeader}
		corsConfig.ExposeHeaders = []string{RequestIDHeader}
		router.Use(cors.New(corsConfig))
	}

	router.GET("/healthz", s.healthz)
	if s.metrics != nil {
		router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := router.Group("/api")
	api.POST("/signup", s.signup)
	api.POST("/login", s.login)
	api.POST("/logout", s.logout)

	protected := api.Group("")
	protected.Use(Gate(s.users, s.metrics))
	protected.GET("/check-auth", s.checkAuth)
	protected.POST("/change-password", s.changePassword)
	protected.POST("/profile/photo/upload-url", s.photoUploadURL)
	protected.PUT("/profile/photo", s.setPhoto)
	protected.POST("/addQuestion", s.addLog)
	protected.GET("/getLogs", s.listLogs)
	protected.PUT("/updateLog/:id", s.updateLog)
	protected.DELETE("/deleteLog/:id", s.deleteLog)

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}

func (s *Server) healthz(c *gin.Context) {
	if s.health != nil {
		if err := s.health.Ping(c.Request.Context()); err != nil {
			s.logger.Warn(c.Request.Context(), "health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
