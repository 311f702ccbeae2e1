package scheduling

import (
	"context"
	"time"

	"github.com/AuMigoPet/petshop-scheduler/internal/dto"
	"github.com/AuMigoPet/petshop-scheduler/internal/models"
)

type Repository interface {
	// -------- Petshop --------
	GetPetshopByID(
		ctx context.Context,
		id uint,
	) (*models.Petshop, error)

	// -------- Owner / Pet --------
	GetOrCreateOwner(
		ctx context.Context,
		petshopID uint,
		name string,
		whatsapp string,
		address string,
	) (*models.Owner, error)

	GetPet(
		ctx context.Context,
		petshopID uint,
		petID uint,
	) (*models.Pet, error)

	// -------- Appointment (create / conflict) --------

	// CreateAppointment grava o agendamento e ajusta o capacity_record
	// do slot na mesma transação.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
		key LedgerKey,
	) error

	CountOverlappingForPet(
		ctx context.Context,
		petshopID uint,
		petID uint,
		start time.Time,
		end time.Time,
	) (int64, error)

	CountOverlappingForOwner(
		ctx context.Context,
		petshopID uint,
		ownerID uint,
		start time.Time,
		end time.Time,
	) (int64, error)

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		petshopID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	// SaveAppointment persiste a transição de status; capacityDelta
	// ajusta o capacity_record do slot na mesma transação (-1 em
	// cancelamento, 0 quando a vaga não muda).
	SaveAppointment(
		ctx context.Context,
		ap *models.Appointment,
		key LedgerKey,
		capacityDelta int,
	) error

	ListAppointmentsForPeriod(
		ctx context.Context,
		petshopID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Capacity --------
	LoadCapacityRecords(
		ctx context.Context,
	) ([]models.CapacityRecord, error)

	// -------- Subscription --------
	CreateSubscription(
		ctx context.Context,
		sub *models.Subscription,
	) error

	GetSubscription(
		ctx context.Context,
		petshopID uint,
		subscriptionID uint,
	) (*models.Subscription, error)

	ListSubscriptions(
		ctx context.Context,
		petshopID uint,
	) ([]models.Subscription, error)

	UpdateSubscription(
		ctx context.Context,
		sub *models.Subscription,
	) error

	FindOccurrence(
		ctx context.Context,
		subscriptionID uint,
		occurrenceIndex int,
	) (*models.Appointment, error)

	ListOccurrences(
		ctx context.Context,
		subscriptionID uint,
	) ([]models.Appointment, error)

	// -------- Reporting --------
	AggregateStats(
		ctx context.Context,
		petshopID uint,
		start time.Time,
		end time.Time,
	) (*dto.StatsSummary, error)
}
