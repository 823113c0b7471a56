package scheduling

import (
	"context"
	"errors"
	"time"

	providerRepo "nexusschedule/database/repository/provider"
	"nexusschedule/models"

	"go.uber.org/zap"
)

// Outcome classifies the result of a slot request.
type Outcome string

const (
	OutcomeBooked         Outcome = "booked"
	OutcomeAlternatives   Outcome = "alternatives"
	OutcomeNoAvailability Outcome = "no_availability"
)

// BookingOutcome is the conflict resolver's answer: a committed appointment,
// a ranked list of advisory alternatives, or nothing.
type BookingOutcome struct {
	Kind         Outcome             `json:"kind"`
	Appointment  *models.Appointment `json:"appointment,omitempty"`
	Alternatives []models.Slot       `json:"alternatives,omitempty"`
}

// Policy is the explicit booking policy. The auto-confirm and auto-select
// thresholds are configuration, never inferred from request contents alone.
type Policy struct {
	// AutoConfirmHighUrgency creates high-urgency bookings directly as
	// confirmed when the provider allows auto-accept.
	AutoConfirmHighUrgency bool
	// AutoSelectHighUrgencyAlternative commits the top-ranked alternative
	// without actor confirmation, for high urgency only.
	AutoSelectHighUrgencyAlternative bool
	// MaxAttempts bounds retries on transient commit failures.
	MaxAttempts int
	// RetryBackoff is the base backoff between attempts.
	RetryBackoff time.Duration
}

// Notifier receives post-commit fanout requests. Dispatch happens strictly
// after the booking critical section; failures never affect the transition.
type Notifier interface {
	Notify(ctx context.Context, appt *models.Appointment, action string)
}

// ConflictResolver orchestrates the slot index, state machine and planner:
// an authoritative atomic check first, then an advisory ranked search that
// holds no locks.
type ConflictResolver struct {
	Machine   *StateMachine
	Planner   *Planner
	Providers providerRepo.ProviderRepository
	Policy    Policy
	Notifier  Notifier
	Logger    *zap.Logger
}

// RequestSlot attempts to book the requested slot, negotiating alternatives
// on conflict. Alternatives are returned without committing anything; the
// caller must re-request with a chosen candidate, except under the explicit
// high-urgency auto-select policy.
func (r *ConflictResolver) RequestSlot(ctx context.Context, req models.BookingRequest) (*BookingOutcome, error) {
	confirmed, err := r.shouldAutoConfirm(ctx, req)
	if err != nil {
		return nil, err
	}

	appt, err := r.tryCreate(ctx, req, confirmed, false)
	if err == nil {
		r.notifyBooked(ctx, appt)
		return &BookingOutcome{Kind: OutcomeBooked, Appointment: appt}, nil
	}
	if !errors.Is(err, ErrSlotConflict) {
		return nil, err
	}

	alternatives := r.Planner.Propose(ctx, models.SlotRequest{
		Service:         req.Service,
		ProviderID:      req.ProviderID,
		Date:            req.Date,
		Time:            req.Time,
		TimePreference:  req.TimePreference,
		Urgency:         req.Urgency,
		DurationMinutes: req.DurationMinutes,
	})
	if len(alternatives) == 0 {
		return &BookingOutcome{Kind: OutcomeNoAvailability}, nil
	}

	if req.Urgency == models.UrgencyHigh && r.Policy.AutoSelectHighUrgencyAlternative {
		pick := alternatives[0]
		retry := req
		retry.Date = pick.Date
		retry.Time = pick.Time

		appt, err := r.tryCreate(ctx, retry, confirmed, true)
		if err == nil {
			entry := models.NegotiationLogEntry{
				Agent:     models.AgentScheduler,
				Action:    "auto_select_alternative",
				Timestamp: time.Now(),
				Details: map[string]any{
					"requestedDate": req.Date,
					"requestedTime": req.Time,
					"selectedDate":  pick.Date,
					"selectedTime":  pick.Time,
				},
			}
			if logErr := r.Machine.Repo.AppendLog(ctx, appt.ID, entry); logErr != nil {
				r.logger().Warn("failed to log auto-selection", zap.Error(logErr))
			} else {
				appt.NegotiationLog = append(appt.NegotiationLog, entry)
			}
			r.notifyBooked(ctx, appt)
			return &BookingOutcome{
				Kind:         OutcomeBooked,
				Appointment:  appt,
				Alternatives: alternatives[1:],
			}, nil
		}
		if !errors.Is(err, ErrSlotConflict) {
			return nil, err
		}
		// The auto-pick lost its own race; hand the rest back to the caller.
		alternatives = alternatives[1:]
		if len(alternatives) == 0 {
			return &BookingOutcome{Kind: OutcomeNoAvailability}, nil
		}
	}

	return &BookingOutcome{Kind: OutcomeAlternatives, Alternatives: alternatives}, nil
}

// tryCreate runs the atomic create with bounded retry on transient failures.
// Slot conflicts and caller errors are returned immediately.
func (r *ConflictResolver) tryCreate(ctx context.Context, req models.BookingRequest, confirmed, negotiated bool) (*models.Appointment, error) {
	attempts := r.Policy.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		appt, err := r.Machine.Create(ctx, req, confirmed, negotiated, models.AgentUser)
		if err == nil {
			return appt, nil
		}
		var engineErr *Error
		if errors.As(err, &engineErr) {
			return nil, err
		}
		lastErr = err
		r.logger().Warn("booking commit failed, retrying",
			zap.Int("attempt", attempt+1), zap.Error(err))
		if r.Policy.RetryBackoff > 0 {
			select {
			case <-ctx.Done():
				return nil, ErrBusy
			case <-time.After(r.Policy.RetryBackoff * time.Duration(attempt+1)):
			}
		}
	}
	r.logger().Error("booking commit exhausted retries", zap.Error(lastErr))
	return nil, ErrBusy
}

func (r *ConflictResolver) shouldAutoConfirm(ctx context.Context, req models.BookingRequest) (bool, error) {
	if req.Urgency != models.UrgencyHigh || !r.Policy.AutoConfirmHighUrgency {
		return false, nil
	}
	provider, err := r.Providers.GetByID(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrNotFound) {
			return false, notFound("provider %s not found", req.ProviderID)
		}
		return false, err
	}
	return provider.Settings.AutoAcceptBookings, nil
}

func (r *ConflictResolver) notifyBooked(ctx context.Context, appt *models.Appointment) {
	if r.Notifier == nil {
		return
	}
	r.Notifier.Notify(ctx, appt, "created")
	if appt.Status == models.StatusConfirmed {
		r.Notifier.Notify(ctx, appt, "confirmed")
	}
}

func (r *ConflictResolver) logger() *zap.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return zap.L()
}
