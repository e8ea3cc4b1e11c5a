// Package server 通过 HTTP 提供渲染服务：POST /render 接收 TOML 描述文件，返回 PDF 或 PNG。
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ByLCY/vellum/cache"
	"github.com/ByLCY/vellum/descriptor"
	"github.com/ByLCY/vellum/pipeline"
)

// MaxBodySize 限制描述文件的大小。
const MaxBodySize = 4 << 20

const requestIDHeader = "X-Request-ID"

// Server 处理渲染请求。
type Server struct {
	pipeline *pipeline.Pipeline
	cache    cache.Cache
	ttl      time.Duration
	logger   *log.Logger
}

// New 创建服务。c 为 nil 时不缓存。
func New(p *pipeline.Pipeline, c cache.Cache, ttl time.Duration, logger *log.Logger) *Server {
	if c == nil {
		c = cache.NullCache{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{pipeline: p, cache: c, ttl: ttl, logger: logger}
}

// Handler 返回路由。
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	r.Post("/render", s.render)
	return r
}

// ListenAndServe 在 ctx 取消时优雅退出。
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

type ctxKey int

const requestIDKey ctxKey = 0

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"id", requestIDFrom(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).Round(time.Millisecond),
		)
	})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	format := r.URL.Query().Get("format")
	rend, err := s.pipeline.Renderer(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "descriptor too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	key := cache.Key("render", rend.ContentType(), cache.Hash(body))
	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("cache get failed", "id", requestIDFrom(ctx), "err", err)
	} else if ok {
		w.Header().Set("X-Cache", "hit")
		s.write(w, rend.ContentType(), data)
		return
	}

	// 请求体来自网络，图片只能内联为 data: URI。
	out, err := s.pipeline.Render(pipeline.Source{Data: body, Files: descriptor.FilesNone}, format)
	if err != nil {
		if errors.Is(err, pipeline.ErrUnknownFormat) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Error("render failed", "id", requestIDFrom(ctx), "err", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if !out.Result.Converged {
		w.Header().Set("X-Layout-Converged", "false")
	}
	if err := s.cache.Set(ctx, key, out.Data, s.ttl); err != nil {
		s.logger.Warn("cache set failed", "id", requestIDFrom(ctx), "err", err)
	}
	w.Header().Set("X-Cache", "miss")
	s.write(w, out.ContentType, out.Data)
}

func (s *Server) write(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
