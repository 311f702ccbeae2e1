package scheduling

import (
	"context"

	"github.com/AuMigoPet/petshop-scheduler/internal/audit"
	domain "github.com/AuMigoPet/petshop-scheduler/internal/domain/scheduling"
	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
	"github.com/AuMigoPet/petshop-scheduler/internal/models"
	"github.com/AuMigoPet/petshop-scheduler/internal/timezone"
)

type CancelSubscription struct {
	repo   domain.Repository
	ledger *domain.Ledger
	audit  *audit.Dispatcher
}

func NewCancelSubscription(
	repo domain.Repository,
	ledger *domain.Ledger,
	auditDispatcher *audit.Dispatcher,
) *CancelSubscription {
	return &CancelSubscription{
		repo:   repo,
		ledger: ledger,
		audit:  auditDispatcher,
	}
}

// Execute encerra a assinatura e cancela as ocorrências futuras ainda
// abertas, devolvendo as vagas ao ledger.
func (uc *CancelSubscription) Execute(
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

	if !sub.Active {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	sub.Active = false
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
		if !domain.HoldsSlot(domain.Status(ap.Status)) || ap.StartTime.Before(now) {
			continue
		}

		if err := domain.Cancel(ap, now); err != nil {
			continue
		}

		key := ledgerKeyFor(ap)
		if err := uc.repo.SaveAppointment(ctx, ap, key, -1); err != nil {
			return nil, err
		}
		uc.ledger.Drop(key)
	}

	uc.audit.Dispatch(audit.Event{
		PetshopID: petshopID,
		UserID:    userID,
		Action:    "subscription_cancelled",
		Entity:    "subscription",
		EntityID:  &sub.ID,
	})

	return sub, nil
}
