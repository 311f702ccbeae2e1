package scheduling

import (
	"context"

	"github.com/AuMigoPet/petshop-scheduler/internal/audit"
	domain "github.com/AuMigoPet/petshop-scheduler/internal/domain/scheduling"
	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
	"github.com/AuMigoPet/petshop-scheduler/internal/models"
	"github.com/AuMigoPet/petshop-scheduler/internal/timezone"
)

type CancelAppointment struct {
	repo   domain.Repository
	ledger *domain.Ledger
	audit  *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	ledger *domain.Ledger,
	auditDispatcher *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:   repo,
		ledger: ledger,
		audit:  auditDispatcher,
	}
}

// Execute cancela e devolve a vaga do slot. Remarcação é sempre
// cancelar + criar, nunca mutação de data/horário.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	petshopID uint,
	userID *uint,
	appointmentID uint,
) (*models.Appointment, error) {

	shop, err := uc.repo.GetPetshopByID(ctx, petshopID)
	if err != nil {
		return nil, httperr.ErrBusiness("not_found")
	}

	ap, err := uc.repo.GetAppointment(ctx, petshopID, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("not_found")
	}

	now := timezone.NowIn(shop.Timezone)
	if err := domain.Cancel(ap, now); err != nil {
		return nil, err
	}

	key := ledgerKeyFor(ap)

	if err := uc.repo.SaveAppointment(ctx, ap, key, -1); err != nil {
		return nil, err
	}

	uc.ledger.Drop(key)

	uc.audit.Dispatch(audit.Event{
		PetshopID: petshopID,
		UserID:    userID,
		Action:    "appointment_cancelled",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return ap, nil
}

// ledgerKeyFor reconstrói a chave de ocupação de um agendamento salvo.
func ledgerKeyFor(ap *models.Appointment) domain.LedgerKey {
	return domain.LedgerKey{
		PetshopID: ap.PetshopID,
		Service:   domain.ServiceType(ap.Service),
		Date:      ap.StartTime.Format("2006-01-02"),
		StartHour: ap.StartTime.Hour(),
	}
}
