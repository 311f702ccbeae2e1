package scheduling

import (
	"context"

	domain "github.com/AuMigoPet/petshop-scheduler/internal/domain/scheduling"
	"github.com/AuMigoPet/petshop-scheduler/internal/dto"
	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
	"github.com/AuMigoPet/petshop-scheduler/internal/timezone"
	"github.com/AuMigoPet/petshop-scheduler/internal/validators"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	petshopID uint,
	dateStr string,
) ([]dto.AppointmentListDTO, error) {

	shop, err := uc.repo.GetPetshopByID(ctx, petshopID)
	if err != nil {
		return nil, httperr.ErrBusiness("not_found")
	}

	loc := timezone.Location(shop.Timezone)

	date, err := validators.ParseDate(dateStr, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_format")
	}

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		petshopID,
		date,
		date.AddDate(0, 0, 1),
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.AppointmentListDTO{
			ID:        ap.ID,
			StartTime: ap.StartTime,
			EndTime:   ap.EndTime,
			Status:    ap.Status,
			Service:   ap.Service,
			Price:     ap.Price,
			PetName:   ap.Pet.Name,
			OwnerName: ap.Owner.Name,
		})
	}

	return out, nil
}
