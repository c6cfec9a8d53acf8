// Package web HTTP-интерфейс: форма, JSON API и websocket с этапами обработки.
package web

import (
	"CodeNarrator/internal/app/narrator"
	"CodeNarrator/internal/config"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

//go:embed templates/index.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// DownloadName имя файла при скачивании озвучки.
const DownloadName = "code-description.mp3"

type Server struct {
	cfg     *config.Config
	app     *narrator.App
	footer  string
	srv     *http.Server
	logger  *zap.SugaredLogger
	running atomic.Bool
}

func New(cfg *config.Config, app *narrator.App, logger *zap.SugaredLogger) *Server {
	s := &Server{
		cfg:    cfg,
		app:    app,
		footer: footer(cfg),
		logger: logger,
	}
	s.srv = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler собирает роутер.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		if s.cfg.RateLimitPerMinute > 0 {
			r.Use(httprate.LimitByIP(s.cfg.RateLimitPerMinute, time.Minute))
		}
		r.Get("/", s.handleIndex)
		r.Post("/", s.handleSubmit)
		r.Get("/ws", s.handleWS)

		r.Route("/api", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: s.cfg.CORSOrigins,
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "Content-Type"},
				MaxAge:         300,
			}))
			r.Post("/describe", s.handleDescribe)
			r.Get("/voices", s.handleVoices)
		})
	})
	return r
}

func (s *Server) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}
	go func() {
		s.logger.Infow("Веб-форма доступна", "addr", "http://"+s.srv.Addr)
		if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) && err != nil {
			s.logger.Errorw("HTTP server stopped with error", "error", err)
		} else {
			s.logger.Infow("HTTP server stopped")
		}
	}()

	go func() {
		<-ctx.Done()
		_ = s.Stop(context.WithoutCancel(ctx))
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeoutCause(ctx, 10*time.Second, errors.New("http server shutdown timeout"))
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warnw("graceful shutdown error", "error", err)
		return s.srv.Close()
	}
	return nil
}

func (s *Server) Addr() string { return s.srv.Addr }

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debugw("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"remote", r.RemoteAddr,
			"request_id", middleware.GetReqID(r.Context()),
			"took", time.Since(started).String(),
		)
	})
}

func footer(cfg *config.Config) string {
	tts := cfg.TTSService
	if tts == config.TTSOpenAI {
		tts = "OpenAI " + cfg.OpenAITTS.Model
	}
	return "Go · " + cfg.Completion.Provider + " " + cfg.CompletionModel() + " (описание) · " + tts + " (аудио)"
}
