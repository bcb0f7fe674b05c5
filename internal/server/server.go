// Package server hosts the live editor over HTTP.
//
// The editor page talks to the server through a websocket at /live. Each
// connection gets its own editor.Controller whose Page and Editor forward
// every UI change to the browser as JSON commands, so the browser holds no
// rendering logic of its own. A small JSON API renders and decodes share
// tokens for scripts, and /api/svg serves shared diagrams as images.
package server

import (
	"context"
	"embed"
	"errors"
	"io"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/seqdia/pkg/engine"
)

//go:embed static
var staticFS embed.FS

// DefaultMaxBody limits request bodies and websocket messages.
const DefaultMaxBody = 2 << 20

// Config configures a Server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// BaseURL is the public URL of the editor page, used to build share
	// links. Empty means links are not returned.
	BaseURL string
	// MaxBody limits request bodies and websocket messages in bytes.
	MaxBody int64
	// WasmDir holds seqdia.wasm and wasm_exec.js for the in-browser editor
	// at /static/wasm.html. Empty leaves /wasm/ unrouted.
	WasmDir string
}

// Server serves the editor page, the live websocket and the JSON API.
type Server struct {
	cfg      Config
	engine   *engine.Engine
	logger   *log.Logger
	router   chi.Router
	upgrader websocket.Upgrader
	sessions *registry
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request and session logs.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a server rendering with eng.
func New(eng *engine.Engine, cfg Config, opts ...Option) *Server {
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = DefaultMaxBody
	}
	s := &Server{
		cfg:      cfg,
		engine:   eng,
		logger:   log.New(io.Discard),
		sessions: newRegistry(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP delegates to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	static, _ := fs.Sub(staticFS, "static")
	r.Get("/", s.handleIndex)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	if s.cfg.WasmDir != "" {
		r.Handle("/wasm/*", http.StripPrefix("/wasm/", http.FileServer(http.Dir(s.cfg.WasmDir))))
	}
	r.Get("/healthz", s.handleHealth)
	r.Get("/live", s.handleLive)

	r.Route("/api", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/decode", s.handleDecode)
		r.Get("/svg/v1/{payload}", s.handleSVG)
	})
	return r
}

// Run serves until ctx is canceled, then shuts down gracefully, closing
// live sessions.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down", "sessions", s.sessions.len())

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		s.sessions.closeAll()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// requestLogger logs one line per request with the charm logger.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).Round(time.Microsecond),
				"id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
