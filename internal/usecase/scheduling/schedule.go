package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/AuMigoPet/petshop-scheduler/internal/audit"
	domain "github.com/AuMigoPet/petshop-scheduler/internal/domain/scheduling"
	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
	"github.com/AuMigoPet/petshop-scheduler/internal/models"
	"github.com/AuMigoPet/petshop-scheduler/internal/notify"
	"github.com/AuMigoPet/petshop-scheduler/internal/timezone"
	"github.com/AuMigoPet/petshop-scheduler/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type ScheduleAppointmentInput struct {
	PetshopID uint
	UserID    *uint

	PetID   uint
	Service string

	Date  string
	Time  string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

// ScheduleAppointment é a porta de entrada única da admissão:
// calendário → conflito → capacidade → peso → commit, nessa ordem,
// tudo dentro da seção crítica do slot e do pet.
type ScheduleAppointment struct {
	repo     domain.Repository
	calendar *domain.Calendar
	ledger   *domain.Ledger
	locks    *domain.LockMap
	detector *domain.ConflictDetector
	audit    *audit.Dispatcher
	notify   *notify.Dispatcher
}

func NewScheduleAppointment(
	repo domain.Repository,
	calendar *domain.Calendar,
	ledger *domain.Ledger,
	locks *domain.LockMap,
	detector *domain.ConflictDetector,
	auditDispatcher *audit.Dispatcher,
	notifyDispatcher *notify.Dispatcher,
) *ScheduleAppointment {
	return &ScheduleAppointment{
		repo:     repo,
		calendar: calendar,
		ledger:   ledger,
		locks:    locks,
		detector: detector,
		audit:    auditDispatcher,
		notify:   notifyDispatcher,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *ScheduleAppointment) Execute(
	ctx context.Context,
	in ScheduleAppointmentInput,
) (*models.Appointment, error) {

	shop, err := uc.repo.GetPetshopByID(ctx, in.PetshopID)
	if err != nil {
		return nil, httperr.ErrBusiness("not_found")
	}

	loc := timezone.Location(shop.Timezone)
	start, err := validators.ParseDateTime(in.Date, in.Time, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_format")
	}

	pet, err := uc.repo.GetPet(ctx, in.PetshopID, in.PetID)
	if err != nil {
		return nil, httperr.ErrBusiness("not_found")
	}

	service := domain.ServiceType(in.Service)
	if !domain.IsValidService(service) {
		return nil, httperr.ErrBusiness("invalid_format")
	}

	ap, err := uc.admit(ctx, admission{
		shop:    shop,
		pet:     pet,
		service: service,
		start:   start,
		notes:   in.Notes,
		status:  domain.StatusConfirmed,
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		PetshopID: in.PetshopID,
		UserID:    in.UserID,
		Action:    "appointment_scheduled",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	uc.notify.Dispatch(notify.Message{
		PetshopID: in.PetshopID,
		OwnerName: pet.Owner.Name,
		Whatsapp:  pet.Owner.Whatsapp,
		Text: fmt.Sprintf(
			"Agendamento confirmado: %s de %s em %s.",
			in.Service, pet.Name, ap.StartTime.Format("02/01/2006 15:04"),
		),
	})

	return ap, nil
}

// ======================================================
// ADMISSION (compartilhada com a expansão de assinaturas)
// ======================================================

type admission struct {
	shop    *models.Petshop
	pet     *models.Pet
	service domain.ServiceType
	start   time.Time
	notes   string
	status  domain.Status

	// ocorrência de assinatura pode pular o detector (política)
	skipConflict bool

	subscriptionID  *uint
	occurrenceIndex *int
	fixedPrice      *float64
}

// admit roda a decisão de admissão como unidade atômica: os locks do
// slot e do pet seguram a seção crítica inteira, e uma reserva feita
// antes de uma falha posterior é devolvida antes do retorno.
func (uc *ScheduleAppointment) admit(ctx context.Context, adm admission) (*models.Appointment, error) {

	minAdvance := adm.shop.MinAdvanceMinutes
	if minAdvance <= 0 {
		minAdvance = 120
	}

	now := timezone.NowIn(adm.shop.Timezone)
	if adm.start.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	slot, err := uc.calendar.ResolveSlot(adm.service, adm.start)
	if err != nil {
		return nil, err
	}

	policy, _ := domain.PolicyFor(adm.service)
	end := adm.start.Add(time.Duration(policy.DurationMin) * time.Minute)

	key := domain.KeyForSlot(adm.shop.ID, adm.service, slot)

	unlock := uc.locks.Acquire(
		key.String(),
		fmt.Sprintf("pet|%d|%d", adm.shop.ID, adm.pet.ID),
	)
	defer unlock()

	if !adm.skipConflict {
		if err := uc.detector.Check(ctx, adm.shop.ID, adm.pet.ID, adm.pet.OwnerID, adm.start, end); err != nil {
			return nil, err
		}
	}

	res, err := uc.ledger.Reserve(key, adm.shop.MaxPerSlot)
	if err != nil {
		return nil, err
	}

	if err := domain.CheckWeight(adm.service, domain.WeightBand(adm.pet.WeightBand)); err != nil {
		uc.ledger.Release(res)
		return nil, err
	}

	price, err := domain.PriceFor(adm.service, domain.WeightBand(adm.pet.WeightBand))
	if err != nil {
		uc.ledger.Release(res)
		return nil, err
	}
	if adm.fixedPrice != nil {
		price = *adm.fixedPrice
	}

	ap := &models.Appointment{
		PetshopID:       adm.shop.ID,
		OwnerID:         adm.pet.OwnerID,
		PetID:           adm.pet.ID,
		Service:         string(adm.service),
		StartTime:       adm.start,
		EndTime:         end,
		Status:          string(adm.status),
		Price:           price,
		Notes:           adm.notes,
		SubscriptionID:  adm.subscriptionID,
		OccurrenceIndex: adm.occurrenceIndex,
	}
	if adm.status == domain.StatusConfirmed {
		ap.ConfirmedAt = &now
	}

	if err := uc.repo.CreateAppointment(ctx, ap, key); err != nil {
		uc.ledger.Release(res)
		return nil, err
	}

	return ap, nil
}
