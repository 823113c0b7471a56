// Package cron runs the background reminder machinery: an asynq worker that
// delivers queued reminders and a scheduler that triggers the daily sweep.
package cron

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"nexusschedule/config"
	appointmentRepo "nexusschedule/database/repository/appointment"
	"nexusschedule/models"
	"nexusschedule/services/notification"
	"nexusschedule/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// NewReminderDispatcher returns a Dispatch function for the reminder sweeper
// that enqueues delivery through the task queue.
func NewReminderDispatcher() (func(ctx context.Context, payload models.ReminderPayload) error, error) {
	client := asynq.NewClient(redisOpts())
	return func(ctx context.Context, payload models.ReminderPayload) error {
		task, err := tasks.NewReminderTask(payload)
		if err != nil {
			return err
		}
		_, err = client.EnqueueContext(ctx, task)
		return err
	}, nil
}

// reminderMux routes every reminder task type. One mux serves the whole
// queue, so the worker never dequeues a task it has no handler for.
func reminderMux(appts appointmentRepo.AppointmentRepository, fanout notification.FanoutService, sweeper *notification.Sweeper, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(appts, fanout, logger))
	mux.HandleFunc(tasks.TypeReminderSweep, func(ctx context.Context, _ *asynq.Task) error {
		return sweeper.Sweep(ctx)
	})
	return mux
}

// InitReminderWorker starts the asynq worker that runs the periodic sweep and
// delivers queued reminders through the notification fanout. Runs in the
// background until the process exits.
func InitReminderWorker(appts appointmentRepo.AppointmentRepository, fanout notification.FanoutService, sweeper *notification.Sweeper, logger *zap.Logger) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := reminderMux(appts, fanout, sweeper, logger)

	go func() {
		logger.Info("starting reminder worker")
		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("reminder worker failed to start",
				zap.Int("attempt", attempt), zap.Error(err))
			if attempt == maxAttempts {
				logger.Fatal("reminder worker gave up after max attempts")
			}
			time.Sleep(time.Duration(attempt*2) * time.Second)
		}
	}()
}

// InitReminderScheduler registers the periodic sweep on the configured cron
// expression. The sweep task is handled by the reminder worker.
func InitReminderScheduler(logger *zap.Logger) {
	scheduler := asynq.NewScheduler(redisOpts(), nil)

	_, err := scheduler.Register(config.AppConfig.ReminderSweepCron,
		asynq.NewTask(tasks.TypeReminderSweep, nil))
	if err != nil {
		logger.Fatal("failed to register reminder sweep schedule", zap.Error(err))
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("reminder scheduler stopped", zap.Error(err))
		}
	}()
}

func handleReminderTask(appts appointmentRepo.AppointmentRepository, fanout notification.FanoutService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return err
		}

		appt, err := appts.GetByID(ctx, p.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrNotFound) {
				logger.Warn("reminder for vanished appointment, dropping",
					zap.String("appointmentId", p.AppointmentID))
				return nil
			}
			return err
		}
		// The appointment may have moved or cancelled since the sweep.
		if appt.Status != models.StatusConfirmed || appt.Date != p.Date || appt.Time != p.Time {
			logger.Info("reminder no longer applicable, dropping",
				zap.String("appointmentId", p.AppointmentID),
				zap.String("status", string(appt.Status)))
			return nil
		}

		fanout.Notify(ctx, appt, notification.ActionReminder)
		logger.Info("reminder delivered",
			zap.String("appointmentId", appt.ID),
			zap.String("date", appt.Date), zap.String("time", appt.Time))
		return nil
	}
}
