package main

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/UnaiDv/Rutin/internal/config"
	"github.com/UnaiDv/Rutin/internal/flash"
	"github.com/UnaiDv/Rutin/internal/handlers"
	"github.com/UnaiDv/Rutin/internal/metrics"
	"github.com/UnaiDv/Rutin/internal/store"
)

//go:embed templates/*
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		log.WithError(err).Fatal("Failed to create data directory")
	}

	s, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize store")
	}
	defer s.Close()

	tmpl, err := parseTemplates()
	if err != nil {
		log.WithError(err).Fatal("Failed to parse templates")
	}

	h := handlers.New(s, tmpl, flash.NewStore(), log)
	r := newRouter(h, log)

	server := &http.Server{
		Addr:    cfg.Address,
		Handler: r,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		log.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("HTTP server shutdown failed")
		}
	}()

	log.WithField("address", cfg.Address).Info("Starting server")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("Server failed")
	}
	log.Info("Server stopped")
}

func newRouter(h *handlers.Handlers, log *logrus.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Compress(5),
		middleware.Heartbeat("/health"),
		requestLogger(log),
		metrics.Middleware,
	)

	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	r.Handle("/metrics", metrics.Handler())

	// UI routes
	r.Get("/", h.Home)
	r.Post("/create", h.CreateTask)
	r.Post("/borrar/{id}", h.DeleteTask)
	r.Post("/completar/{id}", h.ToggleTask)
	r.Get("/editar/{id}", h.EditTaskForm)
	r.Post("/editar/{id}", h.EditTask)
	r.Post("/duplicar/{id}", h.DuplicateTask)
	r.Get("/estadisticas", h.Stats)
	r.Get("/categorias", h.ListCategories)
	r.Post("/categorias/crear", h.CreateCategory)
	r.Post("/categorias/borrar/{id}", h.DeleteCategory)
	r.Get("/categorias/editar/{id}", h.EditCategoryForm)
	r.Post("/categorias/editar/{id}", h.EditCategory)

	// JSON API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/tareas", func(r chi.Router) {
			r.Get("/", h.APIListTasks)
			r.Post("/", h.APICreateTask)
			r.Get("/{id}", h.APIGetTask)
			r.Put("/{id}", h.APIUpdateTask)
			r.Delete("/{id}", h.APIDeleteTask)
		})
		r.Route("/categorias", func(r chi.Router) {
			r.Get("/", h.APIListCategories)
			r.Post("/", h.APICreateCategory)
			r.Get("/stats", h.APIAllCategoryStats)
			r.Get("/{id}", h.APIGetCategory)
			r.Put("/{id}", h.APIUpdateCategory)
			r.Delete("/{id}", h.APIDeleteCategory)
			r.Get("/{id}/stats", h.APICategoryStats)
		})
		r.Get("/estadisticas", h.APIGlobalStats)
	})

	return r
}

// requestLogger logs each request at debug with method, path, status and
// duration.
func requestLogger(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   ww.Status(),
				"duration": time.Since(start).String(),
			}).Debug("request")
		})
	}
}

func parseTemplates() (*template.Template, error) {
	// Custom template functions
	funcMap := template.FuncMap{
		"deref": func(id *int64) int64 {
			if id == nil {
				return 0
			}
			return *id
		},
		"fecha": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("2006-01-02")
		},
	}

	tmpl := template.New("").Funcs(funcMap)

	matches, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}

	for _, match := range matches {
		content, err := templatesFS.ReadFile(match)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", match, err)
		}

		name := filepath.Base(match)
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
	}

	return tmpl, nil
}
