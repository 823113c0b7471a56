package cron

import (
	"context"
	"testing"

	appointmentRepo "nexusschedule/database/repository/appointment"
	"nexusschedule/models"
	"nexusschedule/services/notification"
	"nexusschedule/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// staticAppointments serves a single appointment by id.
type staticAppointments struct {
	appointmentRepo.AppointmentRepository
	appt *models.Appointment
}

func (r staticAppointments) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	if r.appt == nil || r.appt.ID != id {
		return nil, appointmentRepo.ErrNotFound
	}
	cp := *r.appt
	return &cp, nil
}

func (r staticAppointments) FindConfirmedOnDate(_ context.Context, _ string) ([]models.Appointment, error) {
	return nil, nil
}

type recordingFanout struct {
	actions []string
}

func (f *recordingFanout) Notify(_ context.Context, _ *models.Appointment, action string) {
	f.actions = append(f.actions, action)
}

func emptySweeper() *notification.Sweeper {
	return &notification.Sweeper{
		Appointments: staticAppointments{},
		Logger:       zap.NewNop(),
	}
}

func reminderTask(t *testing.T, appointmentID, date, timeLabel string) *asynq.Task {
	t.Helper()
	task, err := tasks.NewReminderTask(models.ReminderPayload{
		AppointmentID: appointmentID, Date: date, Time: timeLabel,
	})
	if err != nil {
		t.Fatalf("NewReminderTask: %v", err)
	}
	return task
}

func TestReminderMuxRoutesAllTaskTypes(t *testing.T) {
	mux := reminderMux(staticAppointments{}, &recordingFanout{}, emptySweeper(), zap.NewNop())

	for _, typ := range []string{tasks.TypeSendReminder, tasks.TypeReminderSweep} {
		if _, pattern := mux.Handler(asynq.NewTask(typ, nil)); pattern != typ {
			t.Errorf("mux pattern for %s = %q, want a registered handler", typ, pattern)
		}
	}
}

func TestReminderMuxRunsSweep(t *testing.T) {
	mux := reminderMux(staticAppointments{}, &recordingFanout{}, emptySweeper(), zap.NewNop())

	if err := mux.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeReminderSweep, nil)); err != nil {
		t.Fatalf("sweep task: %v", err)
	}
}

func TestHandleReminderDeliversConfirmed(t *testing.T) {
	appt := &models.Appointment{
		ID: "a1", ClientID: "c", ProviderID: "p",
		Service: "consultation", Date: "2026-03-02", Time: "10:00",
		Status: models.StatusConfirmed,
	}
	fanout := &recordingFanout{}
	handler := handleReminderTask(staticAppointments{appt: appt}, fanout, zap.NewNop())

	if err := handler(context.Background(), reminderTask(t, "a1", "2026-03-02", "10:00")); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(fanout.actions) != 1 || fanout.actions[0] != notification.ActionReminder {
		t.Fatalf("fanout actions = %v, want one reminder", fanout.actions)
	}
}

func TestHandleReminderDropsStaleAndMissing(t *testing.T) {
	moved := &models.Appointment{
		ID: "a1", Date: "2026-03-05", Time: "11:00", Status: models.StatusConfirmed,
	}
	cancelled := &models.Appointment{
		ID: "a1", Date: "2026-03-02", Time: "10:00", Status: models.StatusCancelled,
	}

	cases := []struct {
		name string
		repo staticAppointments
	}{
		{"slot moved since sweep", staticAppointments{appt: moved}},
		{"no longer confirmed", staticAppointments{appt: cancelled}},
		{"appointment vanished", staticAppointments{}},
	}
	for _, tc := range cases {
		fanout := &recordingFanout{}
		handler := handleReminderTask(tc.repo, fanout, zap.NewNop())

		if err := handler(context.Background(), reminderTask(t, "a1", "2026-03-02", "10:00")); err != nil {
			t.Errorf("%s: handler err = %v, want task dropped without error", tc.name, err)
		}
		if len(fanout.actions) != 0 {
			t.Errorf("%s: fanout actions = %v, want none", tc.name, fanout.actions)
		}
	}
}
