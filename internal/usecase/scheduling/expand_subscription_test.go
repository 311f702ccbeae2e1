package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AuMigoPet/petshop-scheduler/internal/audit"
	domain "github.com/AuMigoPet/petshop-scheduler/internal/domain/scheduling"
	"github.com/AuMigoPet/petshop-scheduler/internal/models"
	"github.com/AuMigoPet/petshop-scheduler/internal/timezone"
)

// monta uma assinatura mensal ativa cujo primeiro vencimento cai alguns
// dias à frente, para que a expansão materialize ocorrências futuras.
func seedMonthlySubscription(t *testing.T, repo *fakeRepo) (*models.Subscription, []time.Time) {
	t.Helper()

	repo.addPet(1, 1, "up_to_5")

	loc := timezone.Location("America/Sao_Paulo")
	now := time.Now().In(loc)

	first := now.AddDate(0, 0, 10)

	sub := &models.Subscription{
		PetshopID:      1,
		OwnerID:        1,
		PetID:          1,
		Service:        "bath_groom",
		RecurrenceType: "monthly",
		RecurrenceDay:  first.Day(),
		RecurrenceHour: 9,
		StartDate:      time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, loc),
		Price:          65,
		PaymentStatus:  "pendente",
		Active:         true,
	}
	require.NoError(t, repo.CreateSubscription(context.Background(), sub))

	// espelho das datas que a expansão vai visitar
	rule := domain.RecurrenceRule{Type: "monthly", Day: sub.RecurrenceDay, Hour: sub.RecurrenceHour}
	next := domain.Occurrences(rule, sub.StartDate, now.AddDate(0, 3, 0))

	var dates []time.Time
	for {
		occ, ok := next()
		if !ok {
			break
		}
		if occ.Before(now) {
			continue
		}
		dates = append(dates, occ)
	}
	require.GreaterOrEqual(t, len(dates), 3)

	return sub, dates
}

func newExpandEnv(t *testing.T) (*testEnv, *ExpandSubscription) {
	t.Helper()

	env := newTestEnv(t)
	expand := NewExpandSubscription(env.repo, env.uc, audit.NewDispatcher(audit.New(nil)), 3, false)
	return env, expand
}

func TestExpandSubscription_CreatesPendingOccurrences(t *testing.T) {
	env, expand := newExpandEnv(t)
	sub, dates := seedMonthlySubscription(t, env.repo)

	result, err := expand.Execute(context.Background(), 1, nil, sub.ID)
	require.NoError(t, err)
	require.Equal(t, sub.ID, result.SubscriptionID)
	require.Len(t, result.Occurrences, len(dates))

	for i, occ := range result.Occurrences {
		require.Equal(t, OccurrenceCreated, occ.Status)
		require.Equal(t, dates[i], occ.Date)
		require.NotZero(t, occ.AppointmentID)

		// assinatura não paga nasce pendente com o preço da assinatura
		ap, err := env.repo.GetAppointment(context.Background(), 1, occ.AppointmentID)
		require.NoError(t, err)
		require.Equal(t, "pending", ap.Status)
		require.Equal(t, 65.0, ap.Price)
		require.NotNil(t, ap.SubscriptionID)
		require.Equal(t, sub.ID, *ap.SubscriptionID)
	}
}

func TestExpandSubscription_SkipsFullSlotAndContinues(t *testing.T) {
	env, expand := newExpandEnv(t)
	sub, dates := seedMonthlySubscription(t, env.repo)

	// lota o slot da segunda ocorrência antes da expansão
	fullKey := domain.LedgerKey{
		PetshopID: 1,
		Service:   "bath_groom",
		Date:      dates[1].Format("2006-01-02"),
		StartHour: dates[1].Hour(),
	}
	for i := 0; i < 2; i++ {
		_, err := env.ledger.Reserve(fullKey, 2)
		require.NoError(t, err)
	}

	result, err := expand.Execute(context.Background(), 1, nil, sub.ID)
	require.NoError(t, err)

	require.Equal(t, OccurrenceCreated, result.Occurrences[0].Status)
	require.Equal(t, OccurrenceSkipped, result.Occurrences[1].Status)
	require.Equal(t, "capacity_exceeded", result.Occurrences[1].Reason)
	require.Equal(t, OccurrenceCreated, result.Occurrences[2].Status)
}

func TestExpandSubscription_RerunIsIdempotent(t *testing.T) {
	env, expand := newExpandEnv(t)
	sub, dates := seedMonthlySubscription(t, env.repo)

	first, err := expand.Execute(context.Background(), 1, nil, sub.ID)
	require.NoError(t, err)

	second, err := expand.Execute(context.Background(), 1, nil, sub.ID)
	require.NoError(t, err)
	require.Len(t, second.Occurrences, len(dates))

	for i, occ := range second.Occurrences {
		require.Equal(t, OccurrenceExists, occ.Status)
		require.Equal(t, first.Occurrences[i].AppointmentID, occ.AppointmentID)
	}

	// nada duplicado no repositório
	occs, err := env.repo.ListOccurrences(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Len(t, occs, len(dates))
}

func TestExpandSubscription_InactiveSubscriptionRejected(t *testing.T) {
	env, expand := newExpandEnv(t)
	sub, _ := seedMonthlySubscription(t, env.repo)

	sub.Active = false
	require.NoError(t, env.repo.UpdateSubscription(context.Background(), sub))

	_, err := expand.Execute(context.Background(), 1, nil, sub.ID)
	require.Equal(t, "invalid_state", businessCode(t, err))
}

func TestMarkSubscriptionPaid_ConfirmsFutureOccurrences(t *testing.T) {
	env, expand := newExpandEnv(t)
	sub, dates := seedMonthlySubscription(t, env.repo)

	_, err := expand.Execute(context.Background(), 1, nil, sub.ID)
	require.NoError(t, err)

	markPaid := NewMarkSubscriptionPaid(env.repo, audit.NewDispatcher(audit.New(nil)))
	paid, err := markPaid.Execute(context.Background(), 1, nil, sub.ID)
	require.NoError(t, err)
	require.Equal(t, PaymentPaid, paid.PaymentStatus)

	occs, err := env.repo.ListOccurrences(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Len(t, occs, len(dates))
	for _, ap := range occs {
		require.Equal(t, "confirmed", ap.Status)
		require.NotNil(t, ap.ConfirmedAt)
	}
}

func TestCancelSubscription_ReleasesFutureSlots(t *testing.T) {
	env, expand := newExpandEnv(t)
	sub, dates := seedMonthlySubscription(t, env.repo)

	_, err := expand.Execute(context.Background(), 1, nil, sub.ID)
	require.NoError(t, err)

	cancelSub := NewCancelSubscription(env.repo, env.ledger, audit.NewDispatcher(audit.New(nil)))
	cancelled, err := cancelSub.Execute(context.Background(), 1, nil, sub.ID)
	require.NoError(t, err)
	require.False(t, cancelled.Active)

	occs, err := env.repo.ListOccurrences(context.Background(), sub.ID)
	require.NoError(t, err)
	for _, ap := range occs {
		require.Equal(t, "cancelled", ap.Status)
	}

	// todas as vagas voltaram ao ledger
	for _, date := range dates {
		key := domain.LedgerKey{
			PetshopID: 1,
			Service:   "bath_groom",
			Date:      date.Format("2006-01-02"),
			StartHour: date.Hour(),
		}
		require.Equal(t, 0, env.ledger.Occupancy(key))
	}

	// cancelar assinatura já encerrada é inválido
	_, err = cancelSub.Execute(context.Background(), 1, nil, sub.ID)
	require.Equal(t, "invalid_state", businessCode(t, err))
}
