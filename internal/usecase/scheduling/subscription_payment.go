package scheduling

import (
	"context"

	"github.com/AuMigoPet/petshop-scheduler/internal/audit"
	domain "github.com/AuMigoPet/petshop-scheduler/internal/domain/scheduling"
	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
	"github.com/AuMigoPet/petshop-scheduler/internal/models"
	"github.com/AuMigoPet/petshop-scheduler/internal/timezone"
)

// Estados de pagamento da assinatura. A cobrança acontece fora daqui;
// este núcleo só acompanha o estado.
const (
	PaymentPending = "pendente"
	PaymentPaid    = "pago"
)

type MarkSubscriptionPaid struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewMarkSubscriptionPaid(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *MarkSubscriptionPaid {
	return &MarkSubscriptionPaid{
		repo:  repo,
		audit: auditDispatcher,
	}
}

// Execute registra o pagamento e confirma as ocorrências futuras que
// estavam pendentes aguardando.
func (uc *MarkSubscriptionPaid) Execute(
	ctx context.Context,
	petshopID uint,
	userID *uint,
	subscriptionID uint,
) (*models.Subscription, error) {

	shop, err := uc.repo.GetPetshopByID(ctx, petshopID)
	if err != nil {
		return nil, httperr.ErrBusiness("not_found")
	}

	sub, err := uc.repo.GetSubscription(ctx, petshopID, subscriptionID)
	if err != nil {
		return nil, httperr.ErrBusiness("not_found")
	}

	sub.PaymentStatus = PaymentPaid
	if err := uc.repo.UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	now := timezone.NowIn(shop.Timezone)

	occurrences, err := uc.repo.ListOccurrences(ctx, sub.ID)
	if err != nil {
		return nil, err
	}

	for i := range occurrences {
		ap := &occurrences[i]
		if domain.Status(ap.Status) != domain.StatusPending || ap.StartTime.Before(now) {
			continue
		}

		if err := domain.Confirm(ap, now); err != nil {
			continue
		}
		if err := uc.repo.SaveAppointment(ctx, ap, ledgerKeyFor(ap), 0); err != nil {
			return nil, err
		}
	}

	uc.audit.Dispatch(audit.Event{
		PetshopID: petshopID,
		UserID:    userID,
		Action:    "subscription_paid",
		Entity:    "subscription",
		EntityID:  &sub.ID,
	})

	return sub, nil
}
