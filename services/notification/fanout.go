package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	notificationRepo "nexusschedule/database/repository/notification"
	userRepo "nexusschedule/database/repository/user"
	"nexusschedule/models"
	"nexusschedule/services/realtime"
	"nexusschedule/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultFanout is the production FanoutService. Records and live events go
// out synchronously with the caller; slower external channels (email, SMS,
// push) are dispatched in the background unless Async is false, which tests
// use to make delivery deterministic.
type DefaultFanout struct {
	Repo   notificationRepo.NotificationRepository
	Users  userRepo.UserRepository
	Hub    realtime.Publisher
	Email  EmailSender
	SMS    SMSSender
	Push   PushSender
	Logger *zap.Logger
	Async  bool

	wg sync.WaitGroup
}

func NewDefaultFanout(
	repo notificationRepo.NotificationRepository,
	users userRepo.UserRepository,
	hub realtime.Publisher,
	email EmailSender,
	sms SMSSender,
	push PushSender,
	logger *zap.Logger,
) *DefaultFanout {
	if logger == nil {
		logger = zap.L()
	}
	return &DefaultFanout{
		Repo:   repo,
		Users:  users,
		Hub:    hub,
		Email:  email,
		SMS:    sms,
		Push:   push,
		Logger: logger,
		Async:  true,
	}
}

// Notify records and delivers an appointment event to both parties. Channel
// failures are logged and isolated; the appointment transition has already
// committed by the time this runs.
func (f *DefaultFanout) Notify(ctx context.Context, appt *models.Appointment, action string) {
	title, body := f.compose(appt, action)
	priority := appt.Priority
	if priority == "" {
		priority = "normal"
	}

	for _, userID := range []string{appt.ClientID, appt.ProviderID} {
		record := &models.Notification{
			ID:        uuid.New().String(),
			UserID:    userID,
			Type:      action,
			Title:     title,
			Message:   body,
			Priority:  priority,
			CreatedAt: time.Now(),
		}
		if f.Repo != nil {
			if err := f.Repo.Insert(ctx, record); err != nil {
				f.Logger.Error("notification record insert failed",
					zap.String("userId", userID), zap.String("action", action), zap.Error(err))
			}
		}
		f.publish(ctx, realtime.UserTopic(userID), models.EventNewNotification, models.NewNotificationEvent{
			ID:       record.ID,
			Type:     action,
			Message:  body,
			Priority: priority,
		})
	}

	f.publishLifecycle(ctx, appt, action)
	f.deliverExternal(ctx, appt, action, title, body)
}

// Wait blocks until in-flight background deliveries finish.
func (f *DefaultFanout) Wait() {
	f.wg.Wait()
}

func (f *DefaultFanout) publishLifecycle(ctx context.Context, appt *models.Appointment, action string) {
	topic := realtime.AppointmentTopic(appt.ID)

	switch action {
	case ActionConfirmed:
		f.publish(ctx, topic, models.EventBookingConfirmed, models.BookingConfirmedEvent{
			AppointmentID: appt.ID,
			Date:          appt.Date,
			Time:          appt.Time,
		})
	case ActionCancelled, ActionCompleted, ActionRescheduled, ActionCreated:
		f.publish(ctx, topic, models.EventAppointmentStatusUpdated, models.AppointmentStatusUpdatedEvent{
			AppointmentID: appt.ID,
			Status:        appt.Status,
			Timestamp:     appt.UpdatedAt,
		})
	}
}

func (f *DefaultFanout) publish(ctx context.Context, topic, eventType string, data any) {
	if f.Hub == nil {
		return
	}
	err := f.Hub.Publish(ctx, realtime.Event{
		Type:      eventType,
		Topic:     topic,
		Timestamp: time.Now(),
		Data:      data,
	})
	if err != nil {
		f.Logger.Warn("live event publish failed",
			zap.String("topic", topic), zap.String("type", eventType), zap.Error(err))
	}
}

// deliveryTimeout bounds one background delivery pass per recipient.
const deliveryTimeout = 30 * time.Second

// deliverExternal pushes the message to email, SMS and device push for both
// parties. Each channel failure is swallowed after logging.
func (f *DefaultFanout) deliverExternal(ctx context.Context, appt *models.Appointment, action, title, body string) {
	if f.Users == nil {
		return
	}

	deliver := func(ctx context.Context, userID string) {
		contact, err := f.Users.GetContact(ctx, userID)
		if err != nil {
			f.Logger.Warn("contact lookup failed for delivery",
				zap.String("userId", userID), zap.Error(err))
			return
		}
		if f.Email != nil && contact.Email != "" {
			if err := f.Email.Send(contact.Email, title, body); err != nil {
				f.Logger.Warn("email delivery failed",
					zap.String("userId", userID), zap.Error(err))
			}
		}
		if f.SMS != nil && contact.Phone != "" {
			if err := f.SMS.Send(ctx, contact.Phone, body); err != nil {
				f.Logger.Warn("sms delivery failed",
					zap.String("userId", userID), zap.Error(err))
			}
		}
		if f.Push != nil && contact.FCMToken != "" {
			data := map[string]string{
				"type":          action,
				"appointmentId": appt.ID,
			}
			if err := f.Push.Send(ctx, contact.FCMToken, title, body, data); err != nil {
				f.Logger.Warn("push delivery failed",
					zap.String("userId", userID), zap.Error(err))
			}
		}
	}

	for _, userID := range []string{appt.ClientID, appt.ProviderID} {
		if f.Async {
			f.wg.Add(1)
			go func(id string) {
				defer f.wg.Done()
				// The caller's context is usually a request context that is
				// canceled as soon as the handler returns; delivery must
				// outlive it.
				dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryTimeout)
				defer cancel()
				deliver(dctx, id)
			}(userID)
		} else {
			deliver(ctx, userID)
		}
	}
}

func (f *DefaultFanout) compose(appt *models.Appointment, action string) (string, string) {
	when := utils.FormatFriendlyDateTime(appt.Date, appt.Time)

	switch action {
	case ActionCreated:
		return "Appointment requested",
			fmt.Sprintf("A %s appointment was requested for %s and is awaiting confirmation.", appt.Service, when)
	case ActionConfirmed:
		return "Appointment confirmed",
			fmt.Sprintf("Your %s appointment on %s is confirmed.", appt.Service, when)
	case ActionCancelled:
		msg := fmt.Sprintf("The %s appointment on %s was cancelled.", appt.Service, when)
		if appt.CancellationReason != "" {
			msg += " Reason: " + appt.CancellationReason
		}
		return "Appointment cancelled", msg
	case ActionCompleted:
		return "Appointment completed",
			fmt.Sprintf("The %s appointment on %s is marked completed.", appt.Service, when)
	case ActionRescheduled:
		return "Appointment rescheduled",
			fmt.Sprintf("The %s appointment moved to %s and needs re-confirmation.", appt.Service, when)
	case ActionReminder:
		return "Upcoming appointment",
			fmt.Sprintf("Reminder: your %s appointment is on %s.", appt.Service, when)
	default:
		return "Appointment update",
			fmt.Sprintf("Your %s appointment on %s was updated.", appt.Service, when)
	}
}
