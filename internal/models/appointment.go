package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PetshopID uint    `json:"petshop_id"`
	Petshop   Petshop `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"petshop"`

	OwnerID uint  `json:"owner_id"`
	Owner   Owner `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"owner"`

	PetID uint `json:"pet_id"`
	Pet   Pet  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"pet"`

	Service string `gorm:"size:30;not null" json:"service"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'confirmed'" json:"status"`

	Price float64 `json:"price"`
	Notes string  `gorm:"size:255" json:"notes"`

	// Preenchidos quando gerado por uma assinatura mensal.
	// O índice único impede a expansão de duplicar ocorrências.
	SubscriptionID  *uint `gorm:"uniqueIndex:idx_sub_occurrence" json:"subscription_id,omitempty"`
	OccurrenceIndex *int  `gorm:"uniqueIndex:idx_sub_occurrence" json:"occurrence_index,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
