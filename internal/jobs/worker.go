package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/carpet-shop-api/pkg/config"
	"github.com/jhoicas/carpet-shop-api/pkg/logger"
)

// Worker envuelve el servidor asynq y el scheduler cron.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

// CronRegistration asocia una expresión cron a una tarea.
type CronRegistration struct {
	Spec string
	Task *asynq.Task
}

// WorkerConfig dependencias del worker.
type WorkerConfig struct {
	RedisOpt asynq.RedisClientOpt
	Location *time.Location
	Log      *logger.Logger
	Handlers map[string]asynq.Handler
	Cron     []CronRegistration
}

// RedisOpt convierte la configuración de Redis al formato de asynq.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
}

// NewWorker construye el servidor y registra handlers y entradas cron.
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	alog := asynqLogger{log: cfg.Log.Component("asynq")}
	srv := asynq.NewServer(cfg.RedisOpt, asynq.Config{
		Concurrency: 2,
		Queues:      map[string]int{QueueDefault: 1},
		Logger:      alog,
	})
	mux := asynq.NewServeMux()
	for typ, h := range cfg.Handlers {
		mux.Handle(typ, h)
	}

	var scheduler *asynq.Scheduler
	if len(cfg.Cron) > 0 {
		scheduler = asynq.NewScheduler(cfg.RedisOpt, &asynq.SchedulerOpts{Location: loc, Logger: alog})
		for _, entry := range cfg.Cron {
			if _, err := scheduler.Register(entry.Spec, entry.Task); err != nil {
				return nil, fmt.Errorf("register cron %q: %w", entry.Spec, err)
			}
		}
	}
	return &Worker{server: srv, mux: mux, scheduler: scheduler, log: cfg.Log}, nil
}

// Run procesa tareas hasta que se cancele ctx.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("worker: not configured")
	}
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("start asynq server: %w", err)
	}
	if w.scheduler != nil {
		if err := w.scheduler.Start(); err != nil {
			w.server.Shutdown()
			return fmt.Errorf("start scheduler: %w", err)
		}
	}
	w.log.Info().Msg("worker iniciado")

	<-ctx.Done()
	if w.scheduler != nil {
		w.scheduler.Shutdown()
	}
	w.server.Shutdown()
	w.log.Info().Msg("worker detenido")
	return nil
}

// asynqLogger adapta pkg/logger a asynq.Logger.
type asynqLogger struct {
	log *logger.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.log.Debug().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.log.Fatal().Msg(fmt.Sprint(args...)) }
