// Package jobs contiene el worker de tareas en segundo plano (asynq) y sus handlers.
package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault cola única del worker.
	QueueDefault = "default"
	// TaskCheckReminder recordatorio diario de cheques por vencer.
	TaskCheckReminder = "checks:remind"
)

// CheckReminderPayload metadatos de la ejecución programada.
type CheckReminderPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewCheckReminderTask construye la tarea de recordatorio.
func NewCheckReminderTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(CheckReminderPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCheckReminder, body, asynq.Queue(QueueDefault), asynq.MaxRetry(3)), nil
}
