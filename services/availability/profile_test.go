package availability

import (
	"context"
	"testing"
	"time"

	"handyhub/models"
	"handyhub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() models.AvailabilityInput {
	return models.AvailabilityInput{
		Timezone: "Europe/Berlin",
		Weekly: models.WeeklySchedule{
			Monday:  window("08:00", "12:00"),
			Tuesday: []models.TimeWindow{{Start: "08:00", End: "12:00"}, {Start: "13:00", End: "24:00"}},
		},
		Exceptions: []models.ExceptionDay{{Date: "2026-12-24", Windows: []models.TimeWindow{}}},
	}
}

func TestSaveProfileCreatesAndKeepsCreatedAt(t *testing.T) {
	created := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	f := newResolverFixture(created)
	delete(f.profiles.profiles, providerID)
	owner := models.Actor{ID: providerID, Role: models.RoleProvider}

	p, err := f.svc.SaveProfile(context.Background(), owner, providerID, validInput())
	require.NoError(t, err)
	assert.Equal(t, created, p.CreatedAt)
	assert.Equal(t, "Europe/Berlin", p.Timezone)

	later := created.Add(72 * time.Hour)
	f.svc.Clock = utils.FixedClock{At: later}
	input := validInput()
	input.Exceptions = nil
	p, err = f.svc.SaveProfile(context.Background(), owner, providerID, input)
	require.NoError(t, err)
	assert.Equal(t, created, p.CreatedAt)
	assert.Equal(t, later, p.UpdatedAt)
	assert.NotNil(t, p.Exceptions)
	assert.Equal(t, 2, f.profiles.upserts)

	stored, err := f.svc.GetProfile(context.Background(), providerID)
	require.NoError(t, err)
	assert.Empty(t, stored.Exceptions)
}

func TestSaveProfileOwnership(t *testing.T) {
	f := newResolverFixture(time.Now())

	_, err := f.svc.SaveProfile(context.Background(), models.Actor{ID: "someone-else", Role: models.RoleProvider}, providerID, validInput())
	assert.True(t, utils.IsKind(err, utils.KindForbidden))

	_, err = f.svc.SaveProfile(context.Background(), models.Actor{ID: providerID, Role: models.RoleClient}, providerID, validInput())
	assert.True(t, utils.IsKind(err, utils.KindForbidden))

	_, err = f.svc.SaveProfile(context.Background(), models.Actor{ID: "ops", Role: models.RoleAdmin}, providerID, validInput())
	assert.NoError(t, err)
}

func TestSaveProfileValidation(t *testing.T) {
	f := newResolverFixture(time.Now())
	owner := models.Actor{ID: providerID, Role: models.RoleProvider}

	tests := []struct {
		name   string
		mutate func(*models.AvailabilityInput)
	}{
		{"unknown timezone", func(in *models.AvailabilityInput) { in.Timezone = "Nowhere/Land" }},
		{"missing timezone", func(in *models.AvailabilityInput) { in.Timezone = "" }},
		{"bad clock", func(in *models.AvailabilityInput) { in.Weekly.Monday = window("25:00", "26:00") }},
		{"end before start", func(in *models.AvailabilityInput) { in.Weekly.Monday = window("12:00", "08:00") }},
		{"bad exception date", func(in *models.AvailabilityInput) { in.Exceptions[0].Date = "2026/12/24" }},
		{"duplicate exception", func(in *models.AvailabilityInput) {
			in.Exceptions = append(in.Exceptions, models.ExceptionDay{Date: "2026-12-24"})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)
			_, err := f.svc.SaveProfile(context.Background(), owner, providerID, input)
			require.Error(t, err)
			assert.True(t, utils.IsKind(err, utils.KindValidation), err.Error())
		})
	}
	assert.Zero(t, f.profiles.upserts)
}

func TestGetProfileNotFound(t *testing.T) {
	f := newResolverFixture(time.Now())
	_, err := f.svc.GetProfile(context.Background(), "ghost")
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}
