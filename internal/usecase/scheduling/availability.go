package scheduling

import (
	"context"
	"fmt"
	"time"

	domain "github.com/AuMigoPet/petshop-scheduler/internal/domain/scheduling"
	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
	"github.com/AuMigoPet/petshop-scheduler/internal/timezone"
	"github.com/AuMigoPet/petshop-scheduler/internal/validators"
)

type AvailableSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Free  int    `json:"free"`
}

type GetAvailability struct {
	repo     domain.Repository
	calendar *domain.Calendar
	ledger   *domain.Ledger
}

func NewGetAvailability(
	repo domain.Repository,
	calendar *domain.Calendar,
	ledger *domain.Ledger,
) *GetAvailability {
	return &GetAvailability{
		repo:     repo,
		calendar: calendar,
		ledger:   ledger,
	}
}

// Execute lista as horas de entrada do serviço no dia com vaga no ledger.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	petshopID uint,
	service string,
	dateStr string,
) ([]AvailableSlot, error) {

	shop, err := uc.repo.GetPetshopByID(ctx, petshopID)
	if err != nil {
		return nil, httperr.ErrBusiness("not_found")
	}

	svc := domain.ServiceType(service)
	policy, ok := domain.PolicyFor(svc)
	if !ok {
		return nil, httperr.ErrBusiness("invalid_format")
	}

	loc := timezone.Location(shop.Timezone)
	date, err := validators.ParseDate(dateStr, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_format")
	}

	max := shop.MaxPerSlot
	if max <= 0 {
		max = 2
	}

	slots := []AvailableSlot{}
	for _, hour := range uc.calendar.EntryHours(svc) {
		key := domain.LedgerKey{
			PetshopID: petshopID,
			Service:   svc,
			Date:      date.Format("2006-01-02"),
			StartHour: hour,
		}

		free := max - uc.ledger.Occupancy(key)
		if free <= 0 {
			continue
		}

		start := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, loc)
		end := start.Add(time.Duration(policy.DurationMin) * time.Minute)

		slots = append(slots, AvailableSlot{
			Start: fmt.Sprintf("%02d:00", hour),
			End:   end.Format("15:04"),
			Free:  free,
		})
	}

	return slots, nil
}
