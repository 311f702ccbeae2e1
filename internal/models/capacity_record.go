package models

import "time"

// Ocupação persistida por (serviço, data, hora de início).
// Atualizada na mesma transação do agendamento; o ledger em memória
// se reidrata daqui no boot.
type CapacityRecord struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PetshopID uint   `gorm:"uniqueIndex:idx_capacity_key" json:"petshop_id"`
	Service   string `gorm:"size:30;uniqueIndex:idx_capacity_key" json:"service"`
	Date      string `gorm:"size:10;uniqueIndex:idx_capacity_key" json:"date"`
	StartHour int    `gorm:"uniqueIndex:idx_capacity_key" json:"start_hour"`

	Count int `json:"count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
