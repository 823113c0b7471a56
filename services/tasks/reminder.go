package tasks

import (
	"encoding/json"

	"nexusschedule/models"

	"github.com/hibiken/asynq"
)

const (
	TypeSendReminder  = "reminder:send"
	TypeReminderSweep = "reminder:sweep"
)

func NewReminderTask(payload models.ReminderPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSendReminder, b), nil
}
