package handlers

import (
	appointmentRepo "nexusschedule/database/repository/appointment"
	notificationRepo "nexusschedule/database/repository/notification"
	providerRepo "nexusschedule/database/repository/provider"
	"nexusschedule/services/intent"
	"nexusschedule/services/notification"
	"nexusschedule/services/realtime"
	"nexusschedule/services/scheduling"
)

// HandlerBundle groups the endpoint handlers and their dependencies.
type HandlerBundle struct {
	Appointments  appointmentRepo.AppointmentRepository
	Providers     providerRepo.ProviderRepository
	Notifications notificationRepo.NotificationRepository

	Resolver *scheduling.ConflictResolver
	Machine  *scheduling.StateMachine
	Index    *scheduling.SlotIndex
	Fanout   notification.FanoutService
	Hub      *realtime.Hub
	Intent   intent.Service
}
