package scheduling

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/AuMigoPet/petshop-scheduler/internal/domain/scheduling"
)

func TestGetAvailability_ReflectsLedgerOccupancy(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addPet(1, 1, "up_to_5")
	env.repo.addPet(2, 2, "up_to_5")

	availability := NewGetAvailability(env.repo, domain.NewCalendar(nil), env.ledger)

	slots, err := availability.Execute(context.Background(), 1, "bath_groom", "2030-09-10")
	require.NoError(t, err)
	require.Len(t, slots, 6) // 9, 10, 13, 14, 15, 16

	for _, slot := range slots {
		require.Equal(t, 2, slot.Free)
	}

	// dois banhos às 09:00 esgotam a entrada das 9h
	for petID := uint(1); petID <= 2; petID++ {
		_, err := env.uc.Execute(context.Background(), ScheduleAppointmentInput{
			PetshopID: 1, PetID: petID, Service: "bath_groom", Date: "2030-09-10", Time: "09:00",
		})
		require.NoError(t, err)
	}

	slots, err = availability.Execute(context.Background(), 1, "bath_groom", "2030-09-10")
	require.NoError(t, err)
	require.Len(t, slots, 5)

	byStart := map[string]AvailableSlot{}
	for _, slot := range slots {
		byStart[slot.Start] = slot
	}
	require.NotContains(t, byStart, "09:00") // lotado some da lista
	require.Equal(t, 2, byStart["10:00"].Free)
	require.Equal(t, "12:00", byStart["10:00"].End)
}

func TestGetAvailability_InvalidService(t *testing.T) {
	env := newTestEnv(t)
	availability := NewGetAvailability(env.repo, domain.NewCalendar(nil), env.ledger)

	_, err := availability.Execute(context.Background(), 1, "taxi_dog", "2030-09-10")
	require.Equal(t, "invalid_format", businessCode(t, err))
}
