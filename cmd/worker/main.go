// worker procesa tareas en segundo plano: recordatorio diario de cheques por vencer.
//
// Uso: go run ./cmd/worker [-once]
// Con -once ejecuta el recordatorio una vez y termina (útil desde cron del sistema).
package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/bsm/redislock"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/carpet-shop-api/internal/application/checks"
	"github.com/jhoicas/carpet-shop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/carpet-shop-api/internal/jobs"
	"github.com/jhoicas/carpet-shop-api/pkg/config"
	"github.com/jhoicas/carpet-shop-api/pkg/logger"
)

func main() {
	once := flag.Bool("once", false, "ejecutar el recordatorio una vez y salir")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "worker",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
	}

	checkUC := checks.NewCheckUseCase(
		postgres.NewCheckRepository(pool),
		postgres.NewInvoiceRepository(pool),
		postgres.NewItemRepository(pool),
		cfg.Checks.NotifyLeadDays,
	)
	reminder := jobs.NewCheckReminder(checkUC, jobs.NewLogNotifier(log), redislock.New(rdb), log)

	if *once {
		n, err := reminder.Run(ctx)
		if err != nil {
			log.Fatal().Err(err).Int("notified", n).Msg("recordatorio de cheques")
		}
		log.Info().Int("notified", n).Msg("recordatorio de cheques completado")
		return
	}

	task, err := jobs.NewCheckReminderTask(time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("construir tarea de recordatorio")
	}
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpt: jobs.RedisOpt(cfg.Redis),
		Location: cfg.App.Location(),
		Log:      log,
		Handlers: map[string]asynq.Handler{jobs.TaskCheckReminder: reminder},
		Cron:     []jobs.CronRegistration{{Spec: cfg.Checks.ReminderCron, Task: task}},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configurar worker")
	}
	log.Info().
		Str("cron", cfg.Checks.ReminderCron).
		Int("lead_days", cfg.Checks.NotifyLeadDays).
		Msg("iniciando worker")
	if err := worker.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("worker")
	}
}
