package availability

import (
	"context"
	"time"

	"handyhub/database"
	"handyhub/models"
)

type fakeProfiles struct {
	profiles map[string]models.AvailabilityProfile
	upserts  int
}

func (f *fakeProfiles) GetByProviderID(_ context.Context, providerID string) (*models.AvailabilityProfile, error) {
	p, ok := f.profiles[providerID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, profile *models.AvailabilityProfile) error {
	if f.profiles == nil {
		f.profiles = map[string]models.AvailabilityProfile{}
	}
	f.profiles[profile.ProviderID] = *profile
	f.upserts++
	return nil
}

type fakeOfferings map[string]models.ProviderServiceOffering

func (f fakeOfferings) GetByProviderAndService(_ context.Context, providerID, serviceID string) (*models.ProviderServiceOffering, error) {
	o, ok := f[providerID+"/"+serviceID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &o, nil
}

type fakeCatalog map[string]models.CatalogService

func (f fakeCatalog) GetByID(_ context.Context, serviceID string) (*models.CatalogService, error) {
	s, ok := f[serviceID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &s, nil
}

type fakeBookings struct {
	bookings []models.Booking
	calls    int
}

func (f *fakeBookings) FindBlocking(_ context.Context, providerID string, from, to time.Time) ([]models.Booking, error) {
	f.calls++
	var out []models.Booking
	for _, b := range f.bookings {
		if b.ProviderID != providerID || !consumesAvailability(b.Status) {
			continue
		}
		if b.Schedule.StartUTC.Before(to) && b.Schedule.EndUTC.After(from) {
			out = append(out, b)
		}
	}
	return out, nil
}
