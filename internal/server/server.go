// Package server 提供一个用 JSend 应答的 posts 演示 API。
package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zx06/jsend"
	"github.com/zx06/jsend/internal/log"
	"github.com/zx06/jsend/internal/store"
)

type Options struct {
	Store  store.Store
	Logger *slog.Logger
	// Registry 同时用于注册指标和暴露 /metrics；为 nil 时新建一个。
	Registry *prometheus.Registry
}

type Server struct {
	store    store.Store
	log      *slog.Logger
	metrics  *Metrics
	registry *prometheus.Registry
	router   chi.Router
}

func New(opts Options) *Server {
	if opts.Store == nil {
		opts.Store = store.NewMemory()
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	s := &Server{
		store:    opts.Store,
		log:      opts.Logger,
		metrics:  NewMetrics(opts.Registry),
		registry: opts.Registry,
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID, s.accessLog, s.recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, http.StatusNotFound, jsend.Fail(map[string]string{"path": "not found"}))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, http.StatusMethodNotAllowed, jsend.Fail(map[string]string{"method": r.Method + " not allowed"}))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/posts", s.listPosts)
	r.Post("/posts", s.createPost)
	r.Get("/posts/{id}", s.getPost)
	r.Delete("/posts/{id}", s.deletePost)
	return r
}

// respond 写出 envelope 并计数；httpStatus 为 0 时按 StatusFor 映射。
func (s *Server) respond(w http.ResponseWriter, httpStatus int, env jsend.Envelope) {
	s.metrics.ObserveResponse(env.Status())
	if err := WriteEnvelope(w, httpStatus, env); err != nil {
		s.log.Warn("write response failed", "err", err)
	}
}

// ListenAndServe 在 ctx 取消时优雅关闭。ready 非 nil 时在开始监听后收到实际地址。
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if ready != nil {
		ready(ln.Addr())
	}
	s.log.Info("serving demo api", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
