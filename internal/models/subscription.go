package models

import "time"

// Cliente mensalista: regra de recorrência + controle de pagamento.
// O pagamento em si é tratado fora deste sistema; aqui só o estado.
type Subscription struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PetshopID uint `json:"petshop_id"`

	OwnerID uint  `json:"owner_id"`
	Owner   Owner `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"owner"`

	PetID uint `json:"pet_id"`
	Pet   Pet  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"pet"`

	Service string `gorm:"size:30;not null" json:"service"`

	// weekly | biweekly | monthly
	RecurrenceType string `gorm:"size:20;not null" json:"recurrence_type"`
	// weekly/biweekly: dia da semana (0=domingo); monthly: dia do mês
	RecurrenceDay  int `json:"recurrence_day"`
	RecurrenceHour int `json:"recurrence_hour"`

	StartDate time.Time `json:"start_date"`

	Price         float64 `json:"price"`
	PaymentStatus string  `gorm:"size:20;default:'pendente'" json:"payment_status"`
	PaymentDueDay int     `json:"payment_due_day"`

	Active bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
