package scheduling

import (
	"context"

	"github.com/AuMigoPet/petshop-scheduler/internal/audit"
	domain "github.com/AuMigoPet/petshop-scheduler/internal/domain/scheduling"
	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
	"github.com/AuMigoPet/petshop-scheduler/internal/models"
	"github.com/AuMigoPet/petshop-scheduler/internal/timezone"
	"github.com/AuMigoPet/petshop-scheduler/internal/validators"
)

type CreateSubscriptionInput struct {
	PetshopID uint
	UserID    *uint

	PetID   uint
	Service string

	RecurrenceType string
	RecurrenceDay  int
	RecurrenceHour int

	StartDate     string
	PaymentDueDay int
}

type CreateSubscription struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateSubscription(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *CreateSubscription {
	return &CreateSubscription{
		repo:  repo,
		audit: auditDispatcher,
	}
}

func (uc *CreateSubscription) Execute(
	ctx context.Context,
	in CreateSubscriptionInput,
) (*models.Subscription, error) {

	shop, err := uc.repo.GetPetshopByID(ctx, in.PetshopID)
	if err != nil {
		return nil, httperr.ErrBusiness("not_found")
	}

	pet, err := uc.repo.GetPet(ctx, in.PetshopID, in.PetID)
	if err != nil {
		return nil, httperr.ErrBusiness("not_found")
	}

	service := domain.ServiceType(in.Service)
	if !domain.IsValidService(service) {
		return nil, httperr.ErrBusiness("invalid_format")
	}

	rule := domain.RecurrenceRule{
		Type: domain.RecurrenceType(in.RecurrenceType),
		Day:  in.RecurrenceDay,
		Hour: in.RecurrenceHour,
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	if err := domain.CheckWeight(service, domain.WeightBand(pet.WeightBand)); err != nil {
		return nil, err
	}

	price, err := domain.PriceFor(service, domain.WeightBand(pet.WeightBand))
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(shop.Timezone)
	start, err := validators.ParseDate(in.StartDate, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_format")
	}

	sub := &models.Subscription{
		PetshopID:      in.PetshopID,
		OwnerID:        pet.OwnerID,
		PetID:          pet.ID,
		Service:        string(service),
		RecurrenceType: in.RecurrenceType,
		RecurrenceDay:  in.RecurrenceDay,
		RecurrenceHour: in.RecurrenceHour,
		StartDate:      start,
		Price:          price,
		PaymentStatus:  "pendente",
		PaymentDueDay:  in.PaymentDueDay,
		Active:         true,
	}

	if err := uc.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		PetshopID: in.PetshopID,
		UserID:    in.UserID,
		Action:    "subscription_created",
		Entity:    "subscription",
		EntityID:  &sub.ID,
	})

	return sub, nil
}
