package app

import (
	"context"
	"fmt"
	"net/http"

	"taskBoard/internal/config"
	"taskBoard/internal/handlers"
	"taskBoard/internal/logger"
	"taskBoard/internal/middleware"
	"taskBoard/internal/repository/task/inmemory"
	"taskBoard/internal/repository/task/postgres"
	"taskBoard/internal/service"
	"taskBoard/internal/storage"
	"taskBoard/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.TaskRepository // интерфейс!
	files      *storage.AttachmentStore
	service    service.TaskService
	worker     *worker.DeadlineWorker
	shutdowns  []func() // функции для graceful shutdown, выполняются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	if err := a.initRepository(ctx); err != nil {
		return err
	}

	files, err := storage.New(a.config.Storage.UploadsDir)
	if err != nil {
		return fmt.Errorf("инициализация хранилища файлов: %w", err)
	}
	a.files = files

	a.service = service.NewTaskService(a.repository, a.files)

	if a.config.Worker.Enabled {
		a.worker = worker.NewDeadlineWorker(a.repository, &a.config.Worker.Interval, &a.config.Worker.BatchSize)
	}

	a.initRouter()

	a.server = &http.Server{
		Addr:    a.config.GetServerAddr(),
		Handler: a.router,
	}

	return nil
}

func (a *App) initRepository(ctx context.Context) error {
	switch a.config.Repository.Type {
	case "postgres":
		if err := postgres.Migrate(a.config.Database.URL); err != nil {
			return fmt.Errorf("миграции: %w", err)
		}

		pg, err := postgres.New(ctx, a.config.Database.URL, postgres.PoolConfig{
			MaxConns:        a.config.Database.MaxConnections,
			MinConns:        a.config.Database.MinConnections,
			MaxConnIdleTime: a.config.Database.IdleTimeout,
		})
		if err != nil {
			return fmt.Errorf("инициализация репозитория postgres: %w", err)
		}

		a.repository = pg
		a.shutdowns = append(a.shutdowns, pg.Close)
	case "inmemory":
		a.repository = inmemory.NewTaskStorage()
	default:
		return fmt.Errorf("неизвестный тип репозитория: %q", a.config.Repository.Type)
	}
	return nil
}

func (a *App) initRouter() {
	taskHandler := handlers.NewTaskHandler(&a.service, a.files)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-User-ID", "X-Request-ID"},
	}))
	r.Use(middleware.Identity)
	r.Use(middleware.Timeout(a.config.Server.RequestTimeout))
	r.Use(middleware.RateLimit(a.config.Server.RateLimitRPM))

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", taskHandler.GetTasks)  // GET /tasks?status=
		r.Post("/", taskHandler.PostTask) // POST /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.GetTaskByID)       // GET /tasks/{id}
			r.Put("/", taskHandler.UpdateTaskByID)    // PUT /tasks/{id}
			r.Delete("/", taskHandler.DeleteTaskByID) // DELETE /tasks/{id}

			r.Post("/advance", taskHandler.AdvanceTask) // POST /tasks/{id}/advance
			r.Post("/revert", taskHandler.RevertTask)   // POST /tasks/{id}/revert

			r.Put("/file", taskHandler.ReplaceTaskFile) // PUT /tasks/{id}/file
		})
	})

	r.Post("/upload", taskHandler.UploadFile)        // POST /upload
	r.Get("/uploads/{name}", taskHandler.ServeFile)  // GET /uploads/{name}

	r.Get("/health", taskHandler.HealthCheck)

	a.router = r
}

// Run запускает фоновый воркер и HTTP-сервер; блокируется до остановки сервера.
func (a *App) Run(ctx context.Context) error {
	if a.worker != nil {
		workerCtx, cancel := context.WithCancel(ctx)
		a.shutdowns = append(a.shutdowns, cancel)
		go a.worker.Start(workerCtx)
	}

	logger.Info("Server started")
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("запуск сервера: %w", err)
	}
	return nil
}

// Shutdown гасит сервер и выполняет накопленные shutdown-функции в
// обратном порядке регистрации.
func (a *App) Shutdown(ctx context.Context) {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			logger.Error("Ошибка остановки сервера", err)
		}
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}
