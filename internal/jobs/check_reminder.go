package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/hibiken/asynq"

	"github.com/jhoicas/carpet-shop-api/internal/domain/entity"
	"github.com/jhoicas/carpet-shop-api/pkg/logger"
)

const reminderLockKey = "lock:" + TaskCheckReminder

// CheckRegistry la parte del registro de cheques que usa el recordatorio.
type CheckRegistry interface {
	NeedingNotification(ctx context.Context) ([]*entity.Check, error)
	MarkNotified(ctx context.Context, id string) error
}

// Notifier entrega el aviso de un cheque por vencer.
type Notifier interface {
	Notify(ctx context.Context, check *entity.Check) error
}

// LogNotifier escribe el aviso en el log estructurado.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.Component("notifier")}
}

// Notify registra el cheque por vencer.
func (n *LogNotifier) Notify(_ context.Context, c *entity.Check) error {
	n.log.Info().
		Str("check_id", c.ID).
		Str("check_number", c.Number).
		Str("direction", c.Direction).
		Str("amount", c.Amount.String()).
		Time("due_date", c.DueDate).
		Msg("cheque próximo a vencer")
	return nil
}

// CheckReminder avisa de los cheques pendientes y los marca como notificados.
// Un lock en Redis evita que dos workers procesen la misma ventana.
type CheckReminder struct {
	checks   CheckRegistry
	notifier Notifier
	locker   *redislock.Client
	lockTTL  time.Duration
	log      *logger.Logger
}

// NewCheckReminder construye el procesador de recordatorios.
func NewCheckReminder(checks CheckRegistry, notifier Notifier, locker *redislock.Client, log *logger.Logger) *CheckReminder {
	return &CheckReminder{
		checks:   checks,
		notifier: notifier,
		locker:   locker,
		lockTTL:  5 * time.Minute,
		log:      log.Component("check_reminder"),
	}
}

// Run procesa una pasada y devuelve cuántos cheques se notificaron.
// Si otro worker tiene el lock no hace nada.
func (r *CheckReminder) Run(ctx context.Context) (int, error) {
	lock, err := r.locker.Obtain(ctx, reminderLockKey, r.lockTTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		r.log.Info().Msg("recordatorio en curso en otro worker")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("obtain reminder lock: %w", err)
	}
	defer func() { _ = lock.Release(context.WithoutCancel(ctx)) }()

	due, err := r.checks.NeedingNotification(ctx)
	if err != nil {
		return 0, fmt.Errorf("needing notification: %w", err)
	}

	sent := 0
	var errs []error
	for _, c := range due {
		if err := r.notifier.Notify(ctx, c); err != nil {
			r.log.Warn().Err(err).Str("check_id", c.ID).Msg("fallo al notificar cheque")
			errs = append(errs, err)
			continue
		}
		if err := r.checks.MarkNotified(ctx, c.ID); err != nil {
			errs = append(errs, err)
			continue
		}
		sent++
	}
	r.log.Info().Int("due", len(due)).Int("notified", sent).Msg("recordatorio de cheques")
	return sent, errors.Join(errs...)
}

// ProcessTask implementa asynq.Handler.
func (r *CheckReminder) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload CheckReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", asynq.SkipRetry)
	}
	_, err := r.Run(ctx)
	return err
}
