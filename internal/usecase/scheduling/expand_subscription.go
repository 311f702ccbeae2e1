package scheduling

import (
	"context"
	"time"

	"github.com/AuMigoPet/petshop-scheduler/internal/audit"
	domain "github.com/AuMigoPet/petshop-scheduler/internal/domain/scheduling"
	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
	"github.com/AuMigoPet/petshop-scheduler/internal/timezone"
)

// ======================================================
// RESULT
// ======================================================

const (
	OccurrenceCreated = "created"
	OccurrenceExists  = "exists"
	OccurrenceSkipped = "skipped"
)

type OccurrenceResult struct {
	Index         int       `json:"index"`
	Date          time.Time `json:"date"`
	Status        string    `json:"status"` // created | exists | skipped
	Reason        string    `json:"reason,omitempty"`
	AppointmentID uint      `json:"appointment_id,omitempty"`
}

type ExpansionResult struct {
	SubscriptionID uint               `json:"subscription_id"`
	Horizon        time.Time          `json:"horizon"`
	Occurrences    []OccurrenceResult `json:"occurrences"`
}

// ======================================================
// USE CASE
// ======================================================

// ExpandSubscription materializa as ocorrências da assinatura até o
// horizonte. Cada ocorrência passa pela mesma admissão dos agendamentos
// avulsos; a que falhar vira skipped com o motivo e a expansão segue.
// O índice da ocorrência é estável (contado desde o início da
// assinatura), então rodar de novo não duplica nada.
type ExpandSubscription struct {
	repo      domain.Repository
	scheduler *ScheduleAppointment
	audit     *audit.Dispatcher

	horizonMonths int
	skipConflicts bool
}

func NewExpandSubscription(
	repo domain.Repository,
	scheduler *ScheduleAppointment,
	auditDispatcher *audit.Dispatcher,
	horizonMonths int,
	skipConflicts bool,
) *ExpandSubscription {
	if horizonMonths <= 0 {
		horizonMonths = 3
	}
	return &ExpandSubscription{
		repo:          repo,
		scheduler:     scheduler,
		audit:         auditDispatcher,
		horizonMonths: horizonMonths,
		skipConflicts: skipConflicts,
	}
}

func (uc *ExpandSubscription) Execute(
	ctx context.Context,
	petshopID uint,
	userID *uint,
	subscriptionID uint,
) (*ExpansionResult, error) {

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

	pet, err := uc.repo.GetPet(ctx, petshopID, sub.PetID)
	if err != nil {
		return nil, httperr.ErrBusiness("not_found")
	}

	rule := domain.RecurrenceRule{
		Type: domain.RecurrenceType(sub.RecurrenceType),
		Day:  sub.RecurrenceDay,
		Hour: sub.RecurrenceHour,
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	now := timezone.NowIn(shop.Timezone)
	horizon := now.AddDate(0, uc.horizonMonths, 0)

	// ocorrências pagas nascem confirmadas; pendentes esperam o pagamento
	status := domain.StatusPending
	if sub.PaymentStatus == "pago" {
		status = domain.StatusConfirmed
	}

	result := &ExpansionResult{
		SubscriptionID: sub.ID,
		Horizon:        horizon,
		Occurrences:    []OccurrenceResult{},
	}

	// iterador preguiçoso desde o início da assinatura: o índice nunca
	// muda entre execuções, mesmo com ocorrências já no passado
	next := domain.Occurrences(rule, sub.StartDate, horizon)

	for index := 0; ; index++ {
		occ, ok := next()
		if !ok {
			break
		}

		if occ.Before(now) {
			continue
		}

		if existing, err := uc.repo.FindOccurrence(ctx, sub.ID, index); err == nil && existing != nil {
			result.Occurrences = append(result.Occurrences, OccurrenceResult{
				Index:         index,
				Date:          occ,
				Status:        OccurrenceExists,
				AppointmentID: existing.ID,
			})
			continue
		}

		idx := index
		price := sub.Price

		ap, err := uc.scheduler.admit(ctx, admission{
			shop:            shop,
			pet:             pet,
			service:         domain.ServiceType(sub.Service),
			start:           occ,
			status:          status,
			skipConflict:    uc.skipConflicts,
			subscriptionID:  &sub.ID,
			occurrenceIndex: &idx,
			fixedPrice:      &price,
		})
		if err != nil {
			reason, _ := httperr.BusinessCode(err)
			if reason == "" {
				return nil, err // falha de infraestrutura aborta a expansão
			}

			result.Occurrences = append(result.Occurrences, OccurrenceResult{
				Index:  index,
				Date:   occ,
				Status: OccurrenceSkipped,
				Reason: reason,
			})
			continue
		}

		result.Occurrences = append(result.Occurrences, OccurrenceResult{
			Index:         index,
			Date:          occ,
			Status:        OccurrenceCreated,
			AppointmentID: ap.ID,
		})
	}

	uc.audit.Dispatch(audit.Event{
		PetshopID: petshopID,
		UserID:    userID,
		Action:    "subscription_expanded",
		Entity:    "subscription",
		EntityID:  &sub.ID,
		Metadata: map[string]any{
			"occurrences": len(result.Occurrences),
		},
	})

	return result, nil
}
