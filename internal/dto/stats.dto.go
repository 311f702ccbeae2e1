package dto

import "time"

type ServiceStats struct {
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

type StatsSummary struct {
	Period string    `json:"period"` // daily | weekly | monthly
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`

	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`

	ByService map[string]ServiceStats `json:"by_service"`
}
