package scheduling

import (
	"context"
	"sort"
	"strings"
	"time"

	providerRepo "nexusschedule/database/repository/provider"
	"nexusschedule/models"
	"nexusschedule/utils"

	"go.uber.org/zap"
)

const defaultDurationMinutes = 60

// Planner finds and ranks alternative slots for a booking request. It is a
// pure function of its inputs plus the slot index snapshot: it never writes.
type Planner struct {
	Index     *SlotIndex
	Providers providerRepo.ProviderRepository

	// MaxCandidates caps the returned ranking (K in the contract).
	MaxCandidates int
	// HorizonDays bounds the search window around the requested date.
	HorizonDays int
	// Timeout bounds the whole computation; on expiry the planner degrades
	// to "nothing found" rather than surfacing an error.
	Timeout time.Duration

	Logger *zap.Logger
	// Now is a test seam; defaults to time.Now.
	Now func() time.Time
}

// candidate carries ranking metadata alongside a slot.
type candidate struct {
	slot        models.Slot
	absolute    time.Time
	dayDistance int
	bucketMatch bool
	rating      float64
}

// Propose returns up to MaxCandidates ranked alternative slots. An empty
// result means no availability; the caller decides how to surface that.
func (p *Planner) Propose(ctx context.Context, req models.SlotRequest) []models.Slot {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}

	provider, err := p.Providers.GetByID(ctx, req.ProviderID)
	if err != nil {
		p.logger().Warn("planner: provider lookup failed",
			zap.String("providerId", req.ProviderID), zap.Error(err))
		return nil
	}

	anchor := req.Date
	if anchor == "" {
		anchor = now.Format(utils.DateLayout)
	}
	anchorDay, err := time.Parse(utils.DateLayout, anchor)
	if err != nil {
		p.logger().Warn("planner: invalid anchor date", zap.String("date", anchor), zap.Error(err))
		return nil
	}

	duration := p.durationFor(req, provider)
	horizon := p.HorizonDays
	if horizon <= 0 {
		horizon = 7
	}

	var candidates []candidate
	for offset := 0; offset < horizon; offset++ {
		if ctx.Err() != nil {
			p.logger().Warn("planner: search timed out, degrading to no availability",
				zap.String("providerId", req.ProviderID), zap.Error(ctx.Err()))
			return nil
		}

		day := anchorDay.AddDate(0, 0, offset)
		dateStr := day.Format(utils.DateLayout)
		weekday := strings.ToLower(day.Weekday().String())

		window, ok := provider.WindowFor(weekday)
		if !ok {
			continue
		}

		occupied, err := p.Index.OccupiedSet(ctx, req.ProviderID, dateStr)
		if err != nil {
			p.logger().Warn("planner: occupancy lookup failed",
				zap.String("providerId", req.ProviderID), zap.String("date", dateStr), zap.Error(err))
			continue
		}

		start, err := utils.ParseSlotLabel(window.StartTime)
		if err != nil {
			continue
		}
		end, err := utils.ParseSlotLabel(window.EndTime)
		if err != nil {
			continue
		}

		for minutes := start; minutes+duration <= end; minutes += duration {
			label := utils.FormatSlotLabel(minutes)
			if _, taken := occupied[label]; taken {
				continue
			}
			absolute := day.Add(time.Duration(minutes) * time.Minute)
			if absolute.Before(now) {
				continue
			}
			// The contested slot itself is never an alternative.
			if dateStr == req.Date && label == req.Time {
				continue
			}
			candidates = append(candidates, candidate{
				slot: models.Slot{
					ProviderID:      req.ProviderID,
					Date:            dateStr,
					Time:            label,
					DurationMinutes: duration,
				},
				absolute:    absolute,
				dayDistance: offset,
				bucketMatch: bucketFor(minutes) == req.TimePreference,
				rating:      ratingOf(provider),
			})
		}
	}

	p.rank(candidates, req)

	max := p.MaxCandidates
	if max <= 0 {
		max = 3
	}
	if len(candidates) > max {
		candidates = candidates[:max]
	}

	slots := make([]models.Slot, 0, len(candidates))
	for _, c := range candidates {
		slots = append(slots, c.slot)
	}
	return slots
}

// rank orders candidates per the negotiation contract: high urgency takes the
// earliest absolute time regardless of stated preferences; otherwise
// proximity to the requested date, then time-of-day bucket match, then
// provider rating, then earliest time.
func (p *Planner) rank(candidates []candidate, req models.SlotRequest) {
	if req.Urgency == models.UrgencyHigh {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].absolute.Before(candidates[j].absolute)
		})
		return
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.dayDistance != b.dayDistance {
			return a.dayDistance < b.dayDistance
		}
		if a.bucketMatch != b.bucketMatch {
			return a.bucketMatch
		}
		if a.rating != b.rating {
			return a.rating > b.rating
		}
		return a.absolute.Before(b.absolute)
	})
}

func (p *Planner) durationFor(req models.SlotRequest, provider *models.Provider) int {
	if req.DurationMinutes > 0 {
		return req.DurationMinutes
	}
	for _, svc := range provider.Services {
		if svc.Name == req.Service && svc.DurationMinutes > 0 {
			return svc.DurationMinutes
		}
	}
	return defaultDurationMinutes
}

func (p *Planner) logger() *zap.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return zap.L()
}

// bucketFor maps minutes from midnight onto a coarse time-of-day bucket.
func bucketFor(minutes int) models.TimePreference {
	switch {
	case minutes < 12*60:
		return models.PreferMorning
	case minutes < 17*60:
		return models.PreferAfternoon
	default:
		return models.PreferEvening
	}
}

// ratingOf returns the provider's rating signal, zero when absent.
func ratingOf(p *models.Provider) float64 {
	if p.Rating.Count == 0 {
		return 0
	}
	return p.Rating.Average
}
