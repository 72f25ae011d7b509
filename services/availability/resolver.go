package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"handyhub/database"
	"handyhub/models"
	"handyhub/utils"

	"go.uber.org/zap"
)

const (
	minStepMinutes = 5
	maxStepMinutes = 24 * 60
	// used when no MaxResolveDays is configured
	fallbackMaxResolveDays = 366
)

// plan is everything a resolve needs besides bookings, loaded once per request.
type plan struct {
	timezone    string
	loc         *time.Location
	chain       []WindowSource
	leadMinutes int
	// bookable is false when there is nothing to offer: no profile, or an
	// inactive service/offering. The result is then well-formed but empty.
	bookable bool
	reason   string
}

// DayAvailability is the free time of one date after overrides, bookings and
// lead time have been applied.
type DayAvailability struct {
	Date     string
	Timezone string
	Location *time.Location
	Free     []Interval
	// Reason is set when the provider offers nothing for this request.
	Reason string
}

func (s *DefaultAvailabilityService) loadPlan(ctx context.Context, providerID, serviceID string, emergency bool) (*plan, error) {
	if providerID == "" {
		return nil, utils.NewValidationError("invalid_provider", "providerId is required")
	}
	if emergency && serviceID == "" {
		return nil, utils.NewValidationError("service_required", "emergency availability requires a serviceId")
	}

	var offering *models.ProviderServiceOffering
	p := &plan{leadMinutes: s.Settings.MinLeadMinutes, bookable: true}

	if serviceID != "" {
		svc, err := s.Catalog.GetByID(ctx, serviceID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, utils.NewValidationError("unknown_service", "service %s does not exist", serviceID)
			}
			return nil, utils.WrapInternal(err, "failed to load service")
		}
		if svc.ProviderID != providerID {
			return nil, utils.NewValidationError("unknown_service", "service %s is not offered by provider %s", serviceID, providerID)
		}
		if !svc.IsActive {
			p.bookable, p.reason = false, "service is not active"
		}

		offering, err = s.Offerings.GetByProviderAndService(ctx, providerID, serviceID)
		switch {
		case errors.Is(err, database.ErrNotFound):
			offering = nil
			p.bookable, p.reason = false, "service has no active offering"
		case err != nil:
			return nil, utils.WrapInternal(err, "failed to load offering")
		case offering.Status != models.OfferingActive:
			p.bookable, p.reason = false, fmt.Sprintf("offering is %s", offering.Status)
		}

		if emergency {
			if offering == nil || !offering.EmergencyEnabled {
				return nil, utils.NewValidationError("emergency_disabled", "emergency bookings are not enabled for this service")
			}
			// 0 is a valid setting: bookable immediately.
			p.leadMinutes = offering.EmergencyLeadTimeMinutes
		}
	}

	profile, err := s.Profiles.GetByProviderID(ctx, providerID)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			return nil, utils.WrapInternal(err, "failed to load availability profile")
		}
		// No schedule yet is a normal state.
		p.timezone = s.Settings.DefaultTimezone
		p.bookable, p.reason = false, "provider has not published availability"
		profile = nil
	} else {
		p.timezone = profile.Timezone
	}

	if p.loc, err = LoadZone(p.timezone); err != nil {
		return nil, utils.WrapInternal(err, "stored timezone is invalid")
	}
	if profile != nil {
		p.chain = BuildChain(profile, offering, emergency)
	}
	return p, nil
}

// freeForDay runs overrides → bookings → lead time for one date.
func (p *plan) freeForDay(date string, busy []Interval, threshold time.Time) ([]Interval, error) {
	if !p.bookable {
		return nil, nil
	}
	windows, _, err := ResolveWindows(p.chain, date)
	if err != nil {
		return nil, err
	}
	free, err := WindowsToIntervals(date, windows, p.loc)
	if err != nil {
		return nil, err
	}
	day, err := DayBounds(date, p.loc)
	if err != nil {
		return nil, err
	}
	free = RemoveBusy(free, busy, day)
	return ApplyLeadTime(free, threshold), nil
}

func (s *DefaultAvailabilityService) validateQuery(q *models.ResolveQuery) ([]string, error) {
	if q.Step == 0 {
		q.Step = s.Settings.DefaultStepMinutes
	}
	if q.Step < minStepMinutes || q.Step > maxStepMinutes {
		return nil, utils.NewValidationError("invalid_step", "step must be between %d and %d minutes", minStepMinutes, maxStepMinutes)
	}
	if _, err := ParseDate(q.From); err != nil {
		return nil, utils.NewValidationError("invalid_date", "from: %v", err)
	}
	if _, err := ParseDate(q.To); err != nil {
		return nil, utils.NewValidationError("invalid_date", "to: %v", err)
	}
	days, err := DaysInRange(q.From, q.To)
	if err != nil {
		return nil, utils.NewValidationError("invalid_range", "%v", err)
	}
	maxDays := s.Settings.MaxResolveDays
	if maxDays <= 0 {
		maxDays = fallbackMaxResolveDays
	}
	if days > maxDays {
		return nil, utils.NewValidationError("invalid_range", "range may cover at most %d days", maxDays)
	}
	dates, err := DateRange(q.From, q.To)
	if err != nil {
		return nil, utils.NewValidationError("invalid_range", "%v", err)
	}
	return dates, nil
}

// Resolve returns the bookable slots of every date in [q.From, q.To].
func (s *DefaultAvailabilityService) Resolve(ctx context.Context, q models.ResolveQuery) (*models.AvailabilityResult, error) {
	started := time.Now()
	dates, err := s.validateQuery(&q)
	if err != nil {
		return nil, err
	}
	p, err := s.loadPlan(ctx, q.ProviderID, q.ServiceID, q.Emergency)
	if err != nil {
		return nil, err
	}

	var busy []Interval
	if p.bookable {
		first, _ := DayBounds(dates[0], p.loc)
		last, _ := DayBounds(dates[len(dates)-1], p.loc)
		bookings, err := s.Bookings.FindBlocking(ctx, q.ProviderID, first.Start, last.End)
		if err != nil {
			return nil, utils.WrapInternal(err, "failed to load bookings")
		}
		busy = BusyIntervals(bookings)
	}

	threshold := LeadThreshold(s.now(), p.leadMinutes)
	step := time.Duration(q.Step) * time.Minute

	result := &models.AvailabilityResult{
		Timezone: p.timezone,
		Step:     q.Step,
		Days:     make([]models.DaySlots, 0, len(dates)),
	}
	total := 0
	for _, date := range dates {
		free, err := p.freeForDay(date, busy, threshold)
		if err != nil {
			return nil, utils.WrapInternal(err, "failed to resolve day "+date)
		}
		slots := Quantize(free, step)
		total += len(slots)
		result.Days = append(result.Days, models.DaySlots{Date: date, Slots: slots})
	}

	s.Metrics.ObserveResolve(q.Emergency, total, time.Since(started))
	s.logger().Debug("availability resolved",
		zap.String("providerID", q.ProviderID),
		zap.String("serviceID", q.ServiceID),
		zap.String("from", q.From),
		zap.String("to", q.To),
		zap.Bool("emergency", q.Emergency),
		zap.Int("slots", total),
		zap.String("unbookableReason", p.reason))
	return result, nil
}

// FreeIntervals returns the free time of a single date; the booking flow uses
// it to check that a requested window is on offer.
func (s *DefaultAvailabilityService) FreeIntervals(ctx context.Context, providerID, serviceID, date string, emergency bool) (*DayAvailability, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, utils.NewValidationError("invalid_date", "%v", err)
	}
	p, err := s.loadPlan(ctx, providerID, serviceID, emergency)
	if err != nil {
		return nil, err
	}
	out := &DayAvailability{Date: date, Timezone: p.timezone, Location: p.loc, Reason: p.reason}
	if !p.bookable {
		return out, nil
	}

	day, _ := DayBounds(date, p.loc)
	bookings, err := s.Bookings.FindBlocking(ctx, providerID, day.Start, day.End)
	if err != nil {
		return nil, utils.WrapInternal(err, "failed to load bookings")
	}
	out.Free, err = p.freeForDay(date, BusyIntervals(bookings), LeadThreshold(s.now(), p.leadMinutes))
	if err != nil {
		return nil, utils.WrapInternal(err, "failed to resolve day "+date)
	}
	return out, nil
}
