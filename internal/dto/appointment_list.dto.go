package dto

import "time"

type AppointmentListDTO struct {
	ID        uint      `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Price     float64   `json:"price"`
	PetName   string    `json:"pet_name"`
	OwnerName string    `json:"owner_name"`
}
