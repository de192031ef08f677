package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dcmnet/dicom-conf-core/internal/audit"
	"github.com/dcmnet/dicom-conf-core/internal/confstore"
	"github.com/dcmnet/dicom-conf-core/internal/editor"
	"github.com/dcmnet/dicom-conf-core/internal/infrastructure/config"
	"github.com/dcmnet/dicom-conf-core/internal/infrastructure/database"
	"github.com/dcmnet/dicom-conf-core/internal/infrastructure/logging"
	"github.com/dcmnet/dicom-conf-core/internal/infrastructure/mqtt"
	"github.com/dcmnet/dicom-conf-core/internal/notify"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config      config.APIConfig
	WS          config.WebSocketConfig
	Logger      *logging.Logger
	Store       confstore.Store
	Schemas     editor.SchemaSource
	DB          *database.DB      // optional: pool stats for /metrics, factory reset
	MQTT        *mqtt.Client      // optional: connection state for /metrics
	Notify      *notify.Publisher // optional: bus announcements on mutation
	Audit       *audit.Recorder   // optional: audit trail points on mutation
	ExternalHub *Hub              // if set, the server uses this hub instead of creating its own
	Version     string
}

// Server is the HTTP API server for the configuration admin service.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg         config.APIConfig
	wsCfg       config.WebSocketConfig
	logger      *logging.Logger
	store       confstore.Store
	schemas     editor.SchemaSource
	db          *database.DB
	mqtt        *mqtt.Client
	notify      *notify.Publisher
	audit       *audit.Recorder
	version     string
	startTime   time.Time
	server      *http.Server
	hub         *Hub
	externalHub bool               // true if hub was injected externally
	cancel      context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, store, schema source)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("configuration store is required")
	}
	if deps.Schemas == nil {
		return nil, fmt.Errorf("schema source is required")
	}
	// Notify and Audit are optional; mutations still persist without them

	s := &Server{
		cfg:       deps.Config,
		wsCfg:     deps.WS,
		logger:    deps.Logger,
		store:     deps.Store,
		schemas:   deps.Schemas,
		db:        deps.DB,
		mqtt:      deps.MQTT,
		notify:    deps.Notify,
		audit:     deps.Audit,
		version:   deps.Version,
		startTime: time.Now(),
	}

	// Use externally-provided hub if available (useful when another
	// component also broadcasts through it).
	if deps.ExternalHub != nil {
		s.hub = deps.ExternalHub
		s.externalHub = true
	}

	return s, nil
}

// Start begins listening for HTTP connections.
//
// It sets up the router, starts the WebSocket hub, and launches the HTTP
// listener in a background goroutine. The server can be stopped with Close().
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
//
// Returns:
//   - error: If the server fails to start (port in use, etc.)
func (s *Server) Start(ctx context.Context) error {
	// Create internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	// Create WebSocket hub (unless one was injected externally)
	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
		go s.hub.Run(srvCtx)
	}

	// Build router
	router := s.buildRouter()

	// Create HTTP server
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	// Start listening in background
	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	// Cancel background goroutines (hub)
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}

// announceChange publishes a configuration mutation to every interested
// party: the MQTT bus (when wired), the audit trail (when wired), and
// connected WebSocket clients.
func (s *Server) announceChange(operation, deviceName, path string) {
	if s.notify != nil {
		var err error
		switch {
		case operation == notify.OpImport:
			err = s.notify.ConfigImported()
		case deviceName == "":
			// Auxiliary node changes carry no device topic segment;
			// they reach the bus only through imports.
		case operation == notify.OpPersist:
			err = s.notify.ConfigChanged(deviceName)
		case operation == notify.OpDelete:
			err = s.notify.ConfigDeleted(deviceName)
		}
		if err != nil {
			s.logger.Warn("failed to announce configuration change",
				"operation", operation,
				"device", deviceName,
				"error", err,
			)
		}
	}

	s.audit.RecordChange(operation, deviceName, path)

	if s.hub != nil {
		s.hub.Broadcast(ChannelConfigChanged, map[string]any{
			"operation":  operation,
			"deviceName": deviceName,
			"path":       path,
		})
	}
}
