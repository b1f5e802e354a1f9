package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	mw "github.com/clearsky/wxcore/internal/api/middleware"
	"github.com/clearsky/wxcore/internal/buildinfo"
	"github.com/clearsky/wxcore/internal/conf"
	"github.com/clearsky/wxcore/internal/datastore"
	"github.com/clearsky/wxcore/internal/events"
	"github.com/clearsky/wxcore/internal/logger"
	"github.com/clearsky/wxcore/internal/logging"
	"github.com/clearsky/wxcore/internal/mqtt"
	"github.com/clearsky/wxcore/internal/suncalc"
	"github.com/clearsky/wxcore/internal/weathercore"
)

// Server is the HTTP server exposing the station's observe/forecast REST API.
// It wraps an Echo instance, the weather inference pipeline state, and the
// datastore used to persist every inference and forecast it produces.
type Server struct {
	echo     *echo.Echo
	config   *Config
	settings *conf.Settings
	logger   *log.Logger
	slogger  *slog.Logger
	levelVar *slog.LevelVar

	dataStore  datastore.Interface
	mqttClient mqtt.Client
	build      buildinfo.BuildInfo
	eventBus   *events.EventBus

	stateMu      sync.Mutex
	stationState weathercore.State
	stationCfg   weathercore.Config
	sunCalc      *suncalc.SunCalc

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startTime time.Time

	logCloser func() error
}

// ServerOption is a functional option for configuring the Server.
type ServerOption func(*Server)

// WithLogger sets the standard logger for the server.
func WithLogger(logger *log.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithDataStore sets the datastore the server persists inferences and
// forecasts to.
func WithDataStore(ds datastore.Interface) ServerOption {
	return func(s *Server) {
		s.dataStore = ds
	}
}

// WithBuildInfo attaches build-time metadata the server reports back on
// its health check endpoint.
func WithBuildInfo(build buildinfo.BuildInfo) ServerOption {
	return func(s *Server) {
		s.build = build
	}
}

// New creates a new HTTP server with the given settings and options.
func New(settings *conf.Settings, opts ...ServerOption) (*Server, error) {
	config := ConfigFromSettings(settings)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		config:    config,
		settings:  settings,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.build == nil {
		s.build = &buildinfo.Context{}
	}

	if err := s.initLogger(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	s.eventBus = initEventBus(s.slogger)

	s.sunCalc = suncalc.NewSunCalc(settings.Station.Latitude, settings.Station.Longitude)
	s.stationCfg = stationConfigFrom(settings.Station, s.sunCalc, time.Now()).WithDefaults()
	s.stationState = weathercore.NewState(s.stationCfg)

	if settings.MQTT.Enabled {
		s.mqttClient = mqtt.NewClient(settings)
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true

	s.echo.Server.ReadTimeout = config.ReadTimeout
	s.echo.Server.WriteTimeout = config.WriteTimeout
	s.echo.Server.IdleTimeout = config.IdleTimeout

	s.setupMiddleware()
	s.setupRoutes()

	s.slogger.Info("HTTP server initialized",
		"address", config.Address(),
		"tls", config.TLSEnabled,
		"debug", config.Debug,
	)

	return s, nil
}

// initLogger initializes the structured logger for the server.
func (s *Server) initLogger() error {
	s.levelVar = new(slog.LevelVar)
	s.levelVar.Set(slogLevelFor(s.config.LogLevel))

	logPath := DefaultLogPath
	logger, closer, err := logging.NewFileLogger(logPath, "server", s.levelVar)
	if err != nil {
		s.logger.Printf("Warning: Failed to initialize server logger: %v", err)
		handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: s.levelVar})
		s.slogger = slog.New(handler).With("service", "server")
		s.logCloser = func() error { return nil }
		return nil
	}

	s.slogger = logger
	s.logCloser = closer
	s.logger.Printf("Server logging initialized to %s", logPath)
	return nil
}

// setupMiddleware configures the Echo middleware stack.
func (s *Server) setupMiddleware() {
	s.echo.Use(echomw.Recover())
	s.echo.Use(mw.NewRequestID())
	s.echo.Use(mw.NewRequestLogger())

	securityConfig := mw.SecurityConfig{
		AllowedOrigins:        s.config.AllowedOrigins,
		AllowCredentials:      false,
		HSTSMaxAge:            mw.HSTSMaxAge,
		HSTSExcludeSubdomains: false,
		ContentSecurityPolicy: "",
	}

	s.echo.Use(mw.NewCORS(securityConfig))
	s.echo.Use(mw.NewBodyLimit(s.config.BodyLimit))
	s.echo.Use(mw.NewGzip())
	s.echo.Use(mw.NewSecureHeaders(securityConfig))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	api := s.echo.Group("/api/v2")
	api.POST("/observe", s.handleObserve)
	api.GET("/forecast", s.handleForecast)
	api.GET("/inferences", s.handleListInferences)

	s.slogger.Info("Routes initialized", "api_version", "v2")
}

// healthCheck handles the server health check endpoint.
func (s *Server) healthCheck(c echo.Context) error {
	uptime := time.Since(s.startTime)

	return c.JSON(http.StatusOK, map[string]any{
		"status":         "healthy",
		"node_id":        s.settings.Station.NodeID,
		"uptime":         uptime.String(),
		"uptime_seconds": uptime.Seconds(),
		"timestamp":      time.Now().Format(time.RFC3339),
		"version":        s.build.GetVersion(),
		"build_date":     s.build.GetBuildDate(),
	})
}

// Start begins serving HTTP requests in a background goroutine.
func (s *Server) Start() {
	if s.mqttClient != nil {
		go func() {
			if err := s.mqttClient.Connect(s.ctx); err != nil {
				s.slogger.Error("MQTT connect failed", "error", err)
			}
		}()
	}

	go func() {
		if err := s.startBlocking(); err != nil {
			s.slogger.Error("Server error", "error", err)
		}
	}()

	addr := s.config.Address()
	switch {
	case s.config.AutoTLS:
		s.logger.Printf("HTTPS server starting with AutoTLS on %s", addr)
	case s.config.TLSEnabled:
		s.logger.Printf("HTTPS server starting on %s", addr)
	default:
		s.logger.Printf("HTTP server starting on %s", addr)
	}
}

// startBlocking begins serving HTTP requests and blocks until shut down.
func (s *Server) startBlocking() error {
	addr := s.config.Address()
	s.slogger.Info("Starting HTTP server", "address", addr)

	var err error
	switch {
	case s.config.AutoTLS:
		s.slogger.Info("Starting with AutoTLS (Let's Encrypt)")
		err = s.echo.StartAutoTLS(addr)
	case s.config.TLSEnabled:
		s.slogger.Info("Starting with manual TLS", "cert", s.config.TLSCertFile, "key", s.config.TLSKeyFile)
		err = s.echo.StartTLS(addr, s.config.TLSCertFile, s.config.TLSKeyFile)
	default:
		err = s.echo.Start(addr)
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// StartWithGracefulShutdown starts the server and handles graceful shutdown on SIGINT/SIGTERM.
func (s *Server) StartWithGracefulShutdown() error {
	s.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	s.slogger.Info("Shutdown signal received, initiating graceful shutdown...")
	s.logger.Println("shutdown signal received")

	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	s.cancel()

	if s.mqttClient != nil {
		s.mqttClient.Disconnect()
	}

	if s.eventBus != nil {
		if err := s.eventBus.Shutdown(5 * time.Second); err != nil {
			s.slogger.Warn("event bus shutdown error", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		s.slogger.Error("Error during server shutdown", "error", err)
		return fmt.Errorf("shutdown error: %w", err)
	}

	s.wg.Wait()

	if s.logCloser != nil {
		if err := s.logCloser(); err != nil {
			s.logger.Printf("Error closing log file: %v", err)
		}
	}

	s.slogger.Info("Server shutdown complete")
	s.logger.Println("server shutdown complete")

	return nil
}

// Echo returns the underlying Echo instance. Useful for testing.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// SetLogLevel dynamically changes the logging level.
func (s *Server) SetLogLevel(level slog.Level) {
	if s.levelVar != nil {
		s.levelVar.Set(level)
		s.slogger.Info("Log level changed", "level", level.String())
	}
}

// slogLevelFor maps the config's string log level to the slog level the
// server's LevelVar understands.
func slogLevelFor(level logger.LogLevel) slog.Level {
	switch level {
	case logger.LogLevelDebug:
		return slog.LevelDebug
	case logger.LogLevelWarn:
		return slog.LevelWarn
	case logger.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
