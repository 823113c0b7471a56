package notification

import (
	"context"
	"fmt"
	"time"

	appointmentRepo "nexusschedule/database/repository/appointment"
	"nexusschedule/models"
	"nexusschedule/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ReminderMarker records that a reminder was claimed for an appointment on a
// given day. Mark returns true only for the first claim, so a re-run of the
// sweep never dispatches a duplicate.
type ReminderMarker interface {
	Mark(ctx context.Context, appointmentID, date string) (bool, error)
}

// RedisMarker claims reminders with SETNX. Markers expire after two days,
// comfortably past the appointment itself.
type RedisMarker struct {
	Client *redis.Client
}

func (m *RedisMarker) Mark(ctx context.Context, appointmentID, date string) (bool, error) {
	key := fmt.Sprintf("reminder:%s:%s", appointmentID, date)
	return m.Client.SetNX(ctx, key, 1, 48*time.Hour).Result()
}

// Sweeper finds confirmed appointments entering the reminder window and
// dispatches one reminder task per appointment. It is safe to run on a
// schedule from multiple processes; the marker dedupes.
type Sweeper struct {
	Appointments appointmentRepo.AppointmentRepository
	Marker       ReminderMarker
	// Dispatch enqueues one reminder for delivery. The production wiring
	// points this at the task queue.
	Dispatch    func(ctx context.Context, payload models.ReminderPayload) error
	WindowHours int
	Logger      *zap.Logger
	// Now is a test seam; defaults to time.Now.
	Now func() time.Time
}

// Sweep scans the dates the reminder window covers and dispatches reminders
// for confirmed appointments whose slot time falls inside the window.
func (s *Sweeper) Sweep(ctx context.Context) error {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	// Slot times resolve in UTC; the scan dates must too, or the window
	// shifts by the host's UTC offset.
	now = now.UTC()
	window := time.Duration(s.WindowHours) * time.Hour
	if window <= 0 {
		window = 24 * time.Hour
	}
	deadline := now.Add(window)

	dispatched := 0
	for day := now; !day.After(deadline.Add(24 * time.Hour)); day = day.AddDate(0, 0, 1) {
		date := day.Format(utils.DateLayout)
		appts, err := s.Appointments.FindConfirmedOnDate(ctx, date)
		if err != nil {
			s.logger().Error("reminder sweep query failed", zap.String("date", date), zap.Error(err))
			return err
		}

		for _, appt := range appts {
			at, err := utils.SlotTime(appt.Date, appt.Time)
			if err != nil {
				s.logger().Warn("skipping appointment with bad slot label",
					zap.String("appointmentId", appt.ID), zap.Error(err))
				continue
			}
			if at.Before(now) || at.After(deadline) {
				continue
			}

			first, err := s.Marker.Mark(ctx, appt.ID, appt.Date)
			if err != nil {
				s.logger().Error("reminder marker failed",
					zap.String("appointmentId", appt.ID), zap.Error(err))
				continue
			}
			if !first {
				continue
			}

			payload := models.ReminderPayload{
				AppointmentID: appt.ID,
				Date:          appt.Date,
				Time:          appt.Time,
			}
			if err := s.Dispatch(ctx, payload); err != nil {
				s.logger().Error("reminder dispatch failed",
					zap.String("appointmentId", appt.ID), zap.Error(err))
				continue
			}
			dispatched++
		}
	}

	s.logger().Info("reminder sweep finished", zap.Int("dispatched", dispatched))
	return nil
}

func (s *Sweeper) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.L()
}
