package models

import "time"

// Tutor do pet, sem login, vinculado ao petshop
type Owner struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	PetshopID uint `json:"petshop_id"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Whatsapp string `gorm:"size:20" json:"whatsapp"`
	Address  string `gorm:"size:255" json:"address"`
	Email    string `gorm:"size:100" json:"email"`

	Pets []Pet `json:"pets,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
