package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/zx06/jsend"
)

const requestIDHeader = "X-Request-Id"

type ctxKey struct{}

// RequestIDFrom 返回中间件写入 context 的请求 ID。
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// requestID 沿用客户端的 X-Request-Id，没有则生成 uuid。
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, reqID)))
	})
}

// recoverer 把 panic 转为 error envelope；响应头已写出时只记录日志，不再追加内容。
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				written := ww.Status() != 0
				s.log.Error("panic recovered",
					"request_id", RequestIDFrom(r.Context()),
					"panic", fmt.Sprint(rec),
					"headers_written", written)
				if written {
					return
				}
				s.respond(ww, http.StatusInternalServerError,
					jsend.Error("internal server error", jsend.WithCode(http.StatusInternalServerError)))
			}
		}()
		next.ServeHTTP(ww, r)
	})
}

// accessLog 记录请求日志和按路由模板统计的耗时。
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)
		s.metrics.ObserveDuration(route, elapsed)
		s.log.Info("request",
			"request_id", RequestIDFrom(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", elapsed)
	})
}
