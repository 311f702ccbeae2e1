package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/AuMigoPet/petshop-scheduler/internal/domain/scheduling"
	"github.com/AuMigoPet/petshop-scheduler/internal/dto"
	"github.com/AuMigoPet/petshop-scheduler/internal/models"
)

var slotHolders = []string{"pending", "confirmed"}

type SchedulingGormRepository struct {
	db *gorm.DB
}

func NewSchedulingGormRepository(db *gorm.DB) *SchedulingGormRepository {
	return &SchedulingGormRepository{db: db}
}

// --------------------------------------------------
// Petshop
// --------------------------------------------------

func (r *SchedulingGormRepository) GetPetshopByID(
	ctx context.Context,
	id uint,
) (*models.Petshop, error) {

	var shop models.Petshop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// --------------------------------------------------
// Owner / Pet
// --------------------------------------------------

func (r *SchedulingGormRepository) GetOrCreateOwner(
	ctx context.Context,
	petshopID uint,
	name string,
	whatsapp string,
	address string,
) (*models.Owner, error) {

	var owner models.Owner
	err := r.db.WithContext(ctx).
		Where("petshop_id = ? AND whatsapp = ?", petshopID, whatsapp).
		First(&owner).Error

	if err == nil {
		return &owner, nil
	}

	owner = models.Owner{
		PetshopID: petshopID,
		Name:      name,
		Whatsapp:  whatsapp,
		Address:   address,
	}

	if err := r.db.WithContext(ctx).Create(&owner).Error; err != nil {
		return nil, err
	}

	return &owner, nil
}

func (r *SchedulingGormRepository) GetPet(
	ctx context.Context,
	petshopID uint,
	petID uint,
) (*models.Pet, error) {

	var pet models.Pet
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("id = ? AND petshop_id = ?", petID, petshopID).
		First(&pet).Error; err != nil {
		return nil, err
	}
	return &pet, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *SchedulingGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	key domain.LedgerKey,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ap).Error; err != nil {
			return err
		}
		return bumpCapacity(tx, key, +1)
	})
}

func (r *SchedulingGormRepository) CountOverlappingForPet(
	ctx context.Context,
	petshopID uint,
	petID uint,
	start time.Time,
	end time.Time,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"petshop_id = ? AND pet_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			petshopID, petID, slotHolders, end, start,
		).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *SchedulingGormRepository) CountOverlappingForOwner(
	ctx context.Context,
	petshopID uint,
	ownerID uint,
	start time.Time,
	end time.Time,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"petshop_id = ? AND owner_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			petshopID, ownerID, slotHolders, end, start,
		).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *SchedulingGormRepository) GetAppointment(
	ctx context.Context,
	petshopID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND petshop_id = ?", appointmentID, petshopID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *SchedulingGormRepository) SaveAppointment(
	ctx context.Context,
	ap *models.Appointment,
	key domain.LedgerKey,
	capacityDelta int,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(ap).Error; err != nil {
			return err
		}
		if capacityDelta == 0 {
			return nil
		}
		return bumpCapacity(tx, key, capacityDelta)
	})
}

func (r *SchedulingGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	petshopID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Pet").
		Preload("Owner").
		Where(
			"petshop_id = ? AND start_time >= ? AND start_time < ?",
			petshopID, start, end,
		).
		Order("start_time ASC").
		Find(&aps).Error

	if err != nil {
		return nil, err
	}

	return aps, nil
}

// --------------------------------------------------
// Capacity
// --------------------------------------------------

func (r *SchedulingGormRepository) LoadCapacityRecords(
	ctx context.Context,
) ([]models.CapacityRecord, error) {

	var records []models.CapacityRecord
	if err := r.db.WithContext(ctx).
		Where("count > 0").
		Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

// bumpCapacity ajusta o contador do slot dentro da transação corrente.
func bumpCapacity(tx *gorm.DB, key domain.LedgerKey, delta int) error {
	record := models.CapacityRecord{
		PetshopID: key.PetshopID,
		Service:   string(key.Service),
		Date:      key.Date,
		StartHour: key.StartHour,
		Count:     delta,
	}

	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "petshop_id"},
			{Name: "service"},
			{Name: "date"},
			{Name: "start_hour"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":      gorm.Expr("capacity_records.count + ?", delta),
			"updated_at": time.Now(),
		}),
	}).Create(&record).Error
}

// --------------------------------------------------
// Subscription
// --------------------------------------------------

func (r *SchedulingGormRepository) CreateSubscription(
	ctx context.Context,
	sub *models.Subscription,
) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *SchedulingGormRepository) GetSubscription(
	ctx context.Context,
	petshopID uint,
	subscriptionID uint,
) (*models.Subscription, error) {

	var sub models.Subscription
	if err := r.db.WithContext(ctx).
		Where("id = ? AND petshop_id = ?", subscriptionID, petshopID).
		First(&sub).Error; err != nil {
		return nil, err
	}

	return &sub, nil
}

func (r *SchedulingGormRepository) ListSubscriptions(
	ctx context.Context,
	petshopID uint,
) ([]models.Subscription, error) {

	var subs []models.Subscription
	if err := r.db.WithContext(ctx).
		Preload("Pet").
		Preload("Owner").
		Where("petshop_id = ?", petshopID).
		Order("created_at DESC").
		Find(&subs).Error; err != nil {
		return nil, err
	}

	return subs, nil
}

func (r *SchedulingGormRepository) UpdateSubscription(
	ctx context.Context,
	sub *models.Subscription,
) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

func (r *SchedulingGormRepository) FindOccurrence(
	ctx context.Context,
	subscriptionID uint,
	occurrenceIndex int,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"subscription_id = ? AND occurrence_index = ?",
			subscriptionID, occurrenceIndex,
		).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *SchedulingGormRepository) ListOccurrences(
	ctx context.Context,
	subscriptionID uint,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("start_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

// --------------------------------------------------
// Reporting
// --------------------------------------------------

func (r *SchedulingGormRepository) AggregateStats(
	ctx context.Context,
	petshopID uint,
	start time.Time,
	end time.Time,
) (*dto.StatsSummary, error) {

	type row struct {
		Service string
		Count   int64
		Revenue float64
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("service, COUNT(*) AS count, COALESCE(SUM(price), 0) AS revenue").
		Where(
			"petshop_id = ? AND status IN ? AND start_time >= ? AND start_time < ?",
			petshopID, []string{"confirmed", "completed"}, start, end,
		).
		Group("service").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	summary := &dto.StatsSummary{
		ByService: make(map[string]dto.ServiceStats, len(rows)),
	}

	for _, rw := range rows {
		summary.Count += rw.Count
		summary.Revenue += rw.Revenue
		summary.ByService[rw.Service] = dto.ServiceStats{
			Count:   rw.Count,
			Revenue: rw.Revenue,
		}
	}

	return summary, nil
}

// Compile-time check
var _ domain.Repository = (*SchedulingGormRepository)(nil)
