package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AuMigoPet/petshop-scheduler/internal/models"
)

func TestHoldsSlot(t *testing.T) {
	require.True(t, HoldsSlot(StatusPending))
	require.True(t, HoldsSlot(StatusConfirmed))
	require.False(t, HoldsSlot(StatusCancelled))
	require.False(t, HoldsSlot(StatusCompleted))
}

func TestStatusTransitions(t *testing.T) {
	now := time.Now()

	ap := &models.Appointment{Status: string(StatusPending)}

	require.NoError(t, Confirm(ap, now))
	require.Equal(t, string(StatusConfirmed), ap.Status)
	require.NotNil(t, ap.ConfirmedAt)

	// confirmado não confirma duas vezes
	require.Error(t, Confirm(ap, now))

	require.NoError(t, Complete(ap, now))
	require.Equal(t, string(StatusCompleted), ap.Status)
	require.NotNil(t, ap.CompletedAt)

	// concluído não cancela nem conclui de novo
	require.Error(t, Cancel(ap, now))
	require.Error(t, Complete(ap, now))
}

func TestCancelFromPendingAndConfirmed(t *testing.T) {
	now := time.Now()

	pending := &models.Appointment{Status: string(StatusPending)}
	require.NoError(t, Cancel(pending, now))
	require.Equal(t, string(StatusCancelled), pending.Status)
	require.NotNil(t, pending.CancelledAt)

	confirmed := &models.Appointment{Status: string(StatusConfirmed)}
	require.NoError(t, Cancel(confirmed, now))

	// cancelado é terminal
	require.Error(t, Cancel(pending, now))
	require.Error(t, Confirm(pending, now))
}
