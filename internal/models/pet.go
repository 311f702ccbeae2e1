package models

import "time"

type Pet struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	PetshopID uint  `json:"petshop_id"`
	OwnerID   uint  `json:"owner_id"`
	Owner     Owner `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"owner"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Breed    string `gorm:"size:100" json:"breed"`
	AgeYears int    `json:"age_years"`
	Sex      string `gorm:"size:10" json:"sex"`
	Neutered bool   `json:"neutered"`

	// Faixa de peso usada na tabela de preços (up_to_5 ... over_30)
	WeightBand string `gorm:"size:20" json:"weight_band"`

	PhotoURL string `gorm:"size:500" json:"photo_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
