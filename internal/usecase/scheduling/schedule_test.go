package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AuMigoPet/petshop-scheduler/internal/audit"
	domain "github.com/AuMigoPet/petshop-scheduler/internal/domain/scheduling"
	"github.com/AuMigoPet/petshop-scheduler/internal/dto"
	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
	"github.com/AuMigoPet/petshop-scheduler/internal/models"
	"github.com/AuMigoPet/petshop-scheduler/internal/notify"
	"github.com/AuMigoPet/petshop-scheduler/internal/timezone"
)

// ======================================================
// FAKE REPOSITORY
// ======================================================

var errFakeNotFound = errors.New("registro não encontrado")

type fakeRepo struct {
	mu sync.Mutex

	shop          *models.Petshop
	pets          map[uint]*models.Pet
	appointments  map[uint]*models.Appointment
	subscriptions map[uint]*models.Subscription

	nextAppointmentID  uint
	nextSubscriptionID uint

	aggregateCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		shop: &models.Petshop{
			ID:         1,
			Name:       "AuMigo Pet",
			Timezone:   "America/Sao_Paulo",
			MaxPerSlot: 2,
		},
		pets:               map[uint]*models.Pet{},
		appointments:       map[uint]*models.Appointment{},
		subscriptions:      map[uint]*models.Subscription{},
		nextAppointmentID:  1,
		nextSubscriptionID: 1,
	}
}

func (f *fakeRepo) addPet(id, ownerID uint, band string) *models.Pet {
	pet := &models.Pet{
		ID:         id,
		PetshopID:  f.shop.ID,
		OwnerID:    ownerID,
		Owner:      models.Owner{ID: ownerID, Name: "Tutor", Whatsapp: "11987654321"},
		Name:       "Rex",
		WeightBand: band,
	}
	f.pets[id] = pet
	return pet
}

func (f *fakeRepo) GetPetshopByID(_ context.Context, id uint) (*models.Petshop, error) {
	if id != f.shop.ID {
		return nil, errFakeNotFound
	}
	return f.shop, nil
}

func (f *fakeRepo) GetOrCreateOwner(_ context.Context, petshopID uint, name, whatsapp, address string) (*models.Owner, error) {
	return &models.Owner{ID: 1, PetshopID: petshopID, Name: name, Whatsapp: whatsapp, Address: address}, nil
}

func (f *fakeRepo) GetPet(_ context.Context, petshopID uint, petID uint) (*models.Pet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pet, ok := f.pets[petID]; ok && pet.PetshopID == petshopID {
		return pet, nil
	}
	return nil, errFakeNotFound
}

func (f *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment, _ domain.LedgerKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ap.ID = f.nextAppointmentID
	f.nextAppointmentID++

	copy := *ap
	f.appointments[ap.ID] = &copy
	return nil
}

func (f *fakeRepo) countOverlapping(match func(*models.Appointment) bool, start, end time.Time) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, ap := range f.appointments {
		if !domain.HoldsSlot(domain.Status(ap.Status)) {
			continue
		}
		if match(ap) && start.Before(ap.EndTime) && end.After(ap.StartTime) {
			n++
		}
	}
	return n
}

func (f *fakeRepo) CountOverlappingForPet(_ context.Context, petshopID, petID uint, start, end time.Time) (int64, error) {
	return f.countOverlapping(func(ap *models.Appointment) bool {
		return ap.PetshopID == petshopID && ap.PetID == petID
	}, start, end), nil
}

func (f *fakeRepo) CountOverlappingForOwner(_ context.Context, petshopID, ownerID uint, start, end time.Time) (int64, error) {
	return f.countOverlapping(func(ap *models.Appointment) bool {
		return ap.PetshopID == petshopID && ap.OwnerID == ownerID
	}, start, end), nil
}

func (f *fakeRepo) GetAppointment(_ context.Context, petshopID, appointmentID uint) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if ap, ok := f.appointments[appointmentID]; ok && ap.PetshopID == petshopID {
		copy := *ap
		return &copy, nil
	}
	return nil, errFakeNotFound
}

func (f *fakeRepo) SaveAppointment(_ context.Context, ap *models.Appointment, _ domain.LedgerKey, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	copy := *ap
	f.appointments[ap.ID] = &copy
	return nil
}

func (f *fakeRepo) ListAppointmentsForPeriod(_ context.Context, petshopID uint, start, end time.Time) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.PetshopID == petshopID && !ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) LoadCapacityRecords(_ context.Context) ([]models.CapacityRecord, error) {
	return nil, nil
}

func (f *fakeRepo) CreateSubscription(_ context.Context, sub *models.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub.ID = f.nextSubscriptionID
	f.nextSubscriptionID++

	copy := *sub
	f.subscriptions[sub.ID] = &copy
	return nil
}

func (f *fakeRepo) GetSubscription(_ context.Context, petshopID, subscriptionID uint) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if sub, ok := f.subscriptions[subscriptionID]; ok && sub.PetshopID == petshopID {
		copy := *sub
		return &copy, nil
	}
	return nil, errFakeNotFound
}

func (f *fakeRepo) ListSubscriptions(_ context.Context, petshopID uint) ([]models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Subscription
	for _, sub := range f.subscriptions {
		if sub.PetshopID == petshopID {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateSubscription(_ context.Context, sub *models.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	copy := *sub
	f.subscriptions[sub.ID] = &copy
	return nil
}

func (f *fakeRepo) FindOccurrence(_ context.Context, subscriptionID uint, occurrenceIndex int) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ap := range f.appointments {
		if ap.SubscriptionID != nil && *ap.SubscriptionID == subscriptionID &&
			ap.OccurrenceIndex != nil && *ap.OccurrenceIndex == occurrenceIndex {
			copy := *ap
			return &copy, nil
		}
	}
	return nil, errFakeNotFound
}

func (f *fakeRepo) ListOccurrences(_ context.Context, subscriptionID uint) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.SubscriptionID != nil && *ap.SubscriptionID == subscriptionID {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) AggregateStats(_ context.Context, petshopID uint, start, end time.Time) (*dto.StatsSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.aggregateCalls++

	summary := &dto.StatsSummary{ByService: map[string]dto.ServiceStats{}}
	for _, ap := range f.appointments {
		if ap.PetshopID != petshopID {
			continue
		}
		if ap.Status != string(domain.StatusConfirmed) && ap.Status != string(domain.StatusCompleted) {
			continue
		}
		if ap.StartTime.Before(start) || !ap.StartTime.Before(end) {
			continue
		}

		summary.Count++
		summary.Revenue += ap.Price

		svc := summary.ByService[ap.Service]
		svc.Count++
		svc.Revenue += ap.Price
		summary.ByService[ap.Service] = svc
	}
	return summary, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

// ======================================================
// TEST WIRING
// ======================================================

type testEnv struct {
	repo   *fakeRepo
	ledger *domain.Ledger
	uc     *ScheduleAppointment
	cancel *CancelAppointment
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := newFakeRepo()
	ledger := domain.NewLedger(repo.shop.MaxPerSlot)
	locks := domain.NewLockMap()
	detector := domain.NewConflictDetector(repo, domain.ScopePet)
	auditDisp := audit.NewDispatcher(audit.New(nil))
	notifyDisp := notify.NewDispatcher(notify.LogNotifier{})

	uc := NewScheduleAppointment(repo, domain.NewCalendar(nil), ledger, locks, detector, auditDisp, notifyDisp)
	cancel := NewCancelAppointment(repo, ledger, auditDisp)

	return &testEnv{repo: repo, ledger: ledger, uc: uc, cancel: cancel}
}

func businessCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	code, ok := httperr.BusinessCode(err)
	require.True(t, ok, "esperava erro de negócio, veio: %v", err)
	return code
}

// ======================================================
// TESTS
// ======================================================

func TestScheduleAppointment_FullPipeline(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addPet(1, 1, "up_to_5")

	ap, err := env.uc.Execute(context.Background(), ScheduleAppointmentInput{
		PetshopID: 1,
		PetID:     1,
		Service:   "bath_groom",
		Date:      "2030-09-10",
		Time:      "09:30",
		Notes:     "tosa higiênica",
	})
	require.NoError(t, err)

	require.NotZero(t, ap.ID)
	require.Equal(t, "confirmed", ap.Status)
	require.NotNil(t, ap.ConfirmedAt)
	require.Equal(t, 65.0, ap.Price)
	require.Equal(t, ap.StartTime.Add(2*time.Hour), ap.EndTime)

	// o slot canônico é a hora cheia de entrada
	key := domain.LedgerKey{PetshopID: 1, Service: "bath_groom", Date: "2030-09-10", StartHour: 9}
	require.Equal(t, 1, env.ledger.Occupancy(key))
}

func TestScheduleAppointment_RejectsOutsideHoursAndBadInput(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addPet(1, 1, "up_to_5")

	base := ScheduleAppointmentInput{PetshopID: 1, PetID: 1, Service: "bath_groom", Date: "2030-09-10"}

	in := base
	in.Time = "12:00"
	_, err := env.uc.Execute(context.Background(), in)
	require.Equal(t, "outside_operating_hours", businessCode(t, err))

	in = base
	in.Time = "9h30"
	_, err = env.uc.Execute(context.Background(), in)
	require.Equal(t, "invalid_format", businessCode(t, err))

	in = base
	in.Service = "taxi_dog"
	in.Time = "09:00"
	_, err = env.uc.Execute(context.Background(), in)
	require.Equal(t, "invalid_format", businessCode(t, err))

	in = base
	in.PetID = 99
	in.Time = "09:00"
	_, err = env.uc.Execute(context.Background(), in)
	require.Equal(t, "not_found", businessCode(t, err))
}

func TestScheduleAppointment_CapacityExceededOnThird(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addPet(1, 1, "up_to_5")
	env.repo.addPet(2, 2, "up_to_10")
	env.repo.addPet(3, 3, "up_to_15")

	book := func(petID uint) error {
		_, err := env.uc.Execute(context.Background(), ScheduleAppointmentInput{
			PetshopID: 1, PetID: petID, Service: "bath_groom", Date: "2030-09-10", Time: "09:00",
		})
		return err
	}

	require.NoError(t, book(1))
	require.NoError(t, book(2))
	require.Equal(t, "capacity_exceeded", businessCode(t, book(3)))

	// outro horário do mesmo dia continua aberto
	_, err := env.uc.Execute(context.Background(), ScheduleAppointmentInput{
		PetshopID: 1, PetID: 3, Service: "bath_groom", Date: "2030-09-10", Time: "10:00",
	})
	require.NoError(t, err)
}

func TestScheduleAppointment_ConflictSamePet(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addPet(1, 1, "up_to_5")

	_, err := env.uc.Execute(context.Background(), ScheduleAppointmentInput{
		PetshopID: 1, PetID: 1, Service: "bath_groom", Date: "2030-09-10", Time: "09:00",
	})
	require.NoError(t, err)

	// 10:00 sobrepõe o banho das 09:00 às 11:00 do mesmo pet
	_, err = env.uc.Execute(context.Background(), ScheduleAppointmentInput{
		PetshopID: 1, PetID: 1, Service: "daycare", Date: "2030-09-10", Time: "10:00",
	})
	require.Equal(t, "conflicting_booking", businessCode(t, err))

	// tarde livre para o mesmo pet
	_, err = env.uc.Execute(context.Background(), ScheduleAppointmentInput{
		PetshopID: 1, PetID: 1, Service: "daycare", Date: "2030-09-10", Time: "13:00",
	})
	require.NoError(t, err)
}

func TestScheduleAppointment_WeightFailureReleasesReservation(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addPet(1, 1, "over_30")

	_, err := env.uc.Execute(context.Background(), ScheduleAppointmentInput{
		PetshopID: 1, PetID: 1, Service: "mobile_pet", Date: "2030-09-10", Time: "09:00",
	})
	require.Equal(t, "weight_constraint", businessCode(t, err))

	// a reserva feita antes da recusa foi devolvida
	key := domain.LedgerKey{PetshopID: 1, Service: "mobile_pet", Date: "2030-09-10", StartHour: 9}
	require.Equal(t, 0, env.ledger.Occupancy(key))
}

func TestCancelThenRebookFreesTheSlot(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addPet(1, 1, "up_to_5")
	env.repo.addPet(2, 2, "up_to_5")
	env.repo.addPet(3, 3, "up_to_5")

	ap1, err := env.uc.Execute(context.Background(), ScheduleAppointmentInput{
		PetshopID: 1, PetID: 1, Service: "bath_groom", Date: "2030-09-10", Time: "09:00",
	})
	require.NoError(t, err)

	_, err = env.uc.Execute(context.Background(), ScheduleAppointmentInput{
		PetshopID: 1, PetID: 2, Service: "bath_groom", Date: "2030-09-10", Time: "09:00",
	})
	require.NoError(t, err)

	// slot cheio
	_, err = env.uc.Execute(context.Background(), ScheduleAppointmentInput{
		PetshopID: 1, PetID: 3, Service: "bath_groom", Date: "2030-09-10", Time: "09:00",
	})
	require.Equal(t, "capacity_exceeded", businessCode(t, err))

	cancelled, err := env.cancel.Execute(context.Background(), 1, nil, ap1.ID)
	require.NoError(t, err)
	require.Equal(t, "cancelled", cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	// a vaga voltou
	_, err = env.uc.Execute(context.Background(), ScheduleAppointmentInput{
		PetshopID: 1, PetID: 3, Service: "bath_groom", Date: "2030-09-10", Time: "09:00",
	})
	require.NoError(t, err)

	// cancelar de novo é transição inválida
	_, err = env.cancel.Execute(context.Background(), 1, nil, ap1.ID)
	require.Equal(t, "invalid_state", businessCode(t, err))
}

func TestScheduleAppointment_ConcurrentAdmissionNeverOverbooks(t *testing.T) {
	env := newTestEnv(t)

	const contenders = 20
	for i := uint(1); i <= contenders; i++ {
		env.repo.addPet(i, i, "up_to_5")
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0

	for i := uint(1); i <= contenders; i++ {
		wg.Add(1)
		go func(petID uint) {
			defer wg.Done()
			_, err := env.uc.Execute(context.Background(), ScheduleAppointmentInput{
				PetshopID: 1, PetID: petID, Service: "bath_groom", Date: "2030-09-10", Time: "09:00",
			})
			if err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 2, granted)

	key := domain.LedgerKey{PetshopID: 1, Service: "bath_groom", Date: "2030-09-10", StartHour: 9}
	require.Equal(t, 2, env.ledger.Occupancy(key))
}

func TestScheduleAppointment_RejectsPetOfAnotherPetshop(t *testing.T) {
	env := newTestEnv(t)

	// pet válido, mas registrado em outro petshop
	env.repo.pets[9] = &models.Pet{
		ID:         9,
		PetshopID:  2,
		OwnerID:    9,
		Owner:      models.Owner{ID: 9, Name: "Tutor", Whatsapp: "11987654321"},
		Name:       "Thor",
		WeightBand: "up_to_5",
	}

	_, err := env.uc.Execute(context.Background(), ScheduleAppointmentInput{
		PetshopID: 1, PetID: 9, Service: "bath_groom", Date: "2030-09-10", Time: "09:00",
	})
	require.Equal(t, "not_found", businessCode(t, err))
}

func TestScheduleAppointment_EnforcesMinimumAdvance(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addPet(1, 1, "up_to_5")

	loc := timezone.Location(env.repo.shop.Timezone)

	// ontem às 09:30 nunca entra, mesmo caindo na janela
	yesterday := time.Now().In(loc).AddDate(0, 0, -1)
	_, err := env.uc.Execute(context.Background(), ScheduleAppointmentInput{
		PetshopID: 1, PetID: 1, Service: "bath_groom",
		Date: yesterday.Format("2006-01-02"), Time: "09:30",
	})
	require.Equal(t, "too_soon", businessCode(t, err))

	// daqui a meia hora fura a antecedência padrão de 120 minutos
	soon := time.Now().In(loc).Add(30 * time.Minute)
	_, err = env.uc.Execute(context.Background(), ScheduleAppointmentInput{
		PetshopID: 1, PetID: 1, Service: "bath_groom",
		Date: soon.Format("2006-01-02"), Time: soon.Format("15:04"),
	})
	require.Equal(t, "too_soon", businessCode(t, err))

	// a recusa acontece antes de qualquer reserva
	key := domain.LedgerKey{
		PetshopID: 1, Service: "bath_groom",
		Date: yesterday.Format("2006-01-02"), StartHour: 9,
	}
	require.Equal(t, 0, env.ledger.Occupancy(key))
}

func TestScheduleAppointment_MobilePetPriceIncludesCallOut(t *testing.T) {
	env := newTestEnv(t)
	env.repo.addPet(1, 1, "up_to_10")

	ap, err := env.uc.Execute(context.Background(), ScheduleAppointmentInput{
		PetshopID: 1, PetID: 1, Service: "mobile_pet", Date: "2030-09-10", Time: "09:00",
	})
	require.NoError(t, err)
	require.Equal(t, 95.0, ap.Price) // 75 da faixa + 20 de deslocamento
}
