package booking

import (
	"context"
	"sync"
	"time"

	"handyhub/database"
	"handyhub/models"
	"handyhub/services/availability"
	"handyhub/utils"
)

func cloneBooking(b models.Booking) models.Booking {
	b.CancellationRequests = append([]models.CancellationRequest(nil), b.CancellationRequests...)
	b.StatusHistory = append([]models.StatusChange(nil), b.StatusHistory...)
	return b
}

// memStore mimics the version-checked booking collection.
type memStore struct {
	mu        sync.Mutex
	bookings  map[string]models.Booking
	createErr error
	// staleWrites makes the next n updates fail as if someone else wrote first.
	staleWrites int
	updates     int
}

func newMemStore() *memStore {
	return &memStore{bookings: map[string]models.Booking{}}
}

func (m *memStore) put(b *models.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = cloneBooking(*b)
}

func (m *memStore) CreateIfNoOverlap(_ context.Context, b *models.Booking) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.put(b)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	out := cloneBooking(b)
	return &out, nil
}

func (m *memStore) List(_ context.Context, f models.BookingFilter) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if f.ClientID != "" && b.ClientID != f.ClientID {
			continue
		}
		if f.ProviderID != "" && b.ProviderID != f.ProviderID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, cloneBooking(b))
	}
	return out, nil
}

func (m *memStore) UpdateIfVersion(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.staleWrites > 0 {
		m.staleWrites--
		return database.ErrVersionConflict
	}
	stored, ok := m.bookings[b.ID]
	if !ok || stored.Version != b.Version {
		return database.ErrVersionConflict
	}
	b.Version++
	m.bookings[b.ID] = cloneBooking(*b)
	m.updates++
	return nil
}

type stubCatalog map[string]models.CatalogService

func (s stubCatalog) GetByID(_ context.Context, id string) (*models.CatalogService, error) {
	svc, ok := s[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &svc, nil
}

type stubOfferings map[string]models.ProviderServiceOffering

func (s stubOfferings) GetByProviderAndService(_ context.Context, providerID, serviceID string) (*models.ProviderServiceOffering, error) {
	o, ok := s[providerID+"/"+serviceID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &o, nil
}

type stubFreeTime struct {
	day       availability.DayAvailability
	emergency bool
}

func (s *stubFreeTime) FreeIntervals(_ context.Context, _, _, date string, emergency bool) (*availability.DayAvailability, error) {
	s.emergency = emergency
	out := s.day
	out.Date = date
	return &out, nil
}

type stubLocker struct {
	held     bool
	keys     []string
	released int
}

func (l *stubLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(), error) {
	if l.held {
		return nil, utils.ErrLockHeld
	}
	l.keys = append(l.keys, key)
	return func() { l.released++ }, nil
}

type scheduled struct {
	bookingID string
	requestID string
	at        time.Time
}

type stubScheduler struct {
	calls []scheduled
	err   error
}

func (s *stubScheduler) ScheduleCancellationExpiry(_ context.Context, bookingID, requestID string, at time.Time) error {
	s.calls = append(s.calls, scheduled{bookingID, requestID, at})
	return s.err
}

// mutableClock lets a test move time forward between calls.
type mutableClock struct {
	at time.Time
}

func (c *mutableClock) Now() time.Time { return c.at }
