package relay

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dohdig/dohdig/override"
)

// HTTPServerConfig holds settings for the HTTP front end.
type HTTPServerConfig struct {
	Listen    string
	AuthToken string // Bearer token; empty disables auth on /overrides.
	TLSCert   string // PEM certificate file; with TLSKey enables TLS
	TLSKey    string
}

// HTTPServer exposes JSON-DoH resolution and override management over
// HTTP.
type HTTPServer struct {
	httpServer *http.Server
	engine     *gin.Engine
	tlsCert    string
	tlsKey     string
}

// NewHTTPServer creates an HTTPServer wired to the given resolver and
// override store.
func NewHTTPServer(cfg HTTPServerConfig, resolver *Resolver, store *override.Store) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(LoggingMiddleware())

	// Public resolution endpoints. /dns-query makes the relay usable as a
	// custom provider endpoint for any JSON-DoH client.
	rh := NewResolveHandler(resolver)
	engine.GET("/resolve", rh.Resolve)
	engine.GET("/dns-query", rh.Resolve)

	engine.GET("/health", HealthHandler)
	engine.GET("/status", NewStatusHandler(store))

	// Authenticated override management endpoints.
	overrides := engine.Group("/overrides")
	overrides.Use(AuthMiddleware(cfg.AuthToken))
	{
		h := NewOverrideHandler(store)
		overrides.GET("/list", h.List)
		overrides.GET("/get", h.Get)
		overrides.POST("/add", h.Add)
		overrides.PUT("/update", h.Update)
		overrides.DELETE("/delete", h.Delete)
	}

	return &HTTPServer{
		httpServer: &http.Server{
			Addr:    cfg.Listen,
			Handler: engine,
		},
		engine:  engine,
		tlsCert: cfg.TLSCert,
		tlsKey:  cfg.TLSKey,
	}
}

// Start begins listening. It blocks until the server is shut down.
func (s *HTTPServer) Start() error {
	slog.Info("http server starting", "address", s.httpServer.Addr, "tls", s.tlsCert != "")

	var err error
	if s.tlsCert != "" && s.tlsKey != "" {
		err = s.httpServer.ListenAndServeTLS(s.tlsCert, s.tlsKey)
	} else {
		err = s.httpServer.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server with a 5-second deadline.
func (s *HTTPServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown", "err", err)
	}
}

// Engine returns the underlying Gin engine (useful for testing).
func (s *HTTPServer) Engine() *gin.Engine {
	return s.engine
}
