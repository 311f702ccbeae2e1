package scheduling

import "github.com/AuMigoPet/petshop-scheduler/internal/httperr"

// ===============================
// Service Types
// ===============================

type ServiceType string

const (
	ServiceBathGroom   ServiceType = "bath_groom"
	ServiceMobilePet   ServiceType = "mobile_pet"
	ServiceDaycare     ServiceType = "daycare"
	ServiceHotel       ServiceType = "hotel"
	ServiceCondominium ServiceType = "condominium"
	ServiceVisit       ServiceType = "visit"
)

// ===============================
// Weight Bands
// ===============================

type WeightBand string

const (
	WeightUpTo5  WeightBand = "up_to_5"
	WeightUpTo10 WeightBand = "up_to_10"
	WeightUpTo15 WeightBand = "up_to_15"
	WeightUpTo20 WeightBand = "up_to_20"
	WeightUpTo25 WeightBand = "up_to_25"
	WeightUpTo30 WeightBand = "up_to_30"
	WeightOver30 WeightBand = "over_30"
)

// ordem crescente, usada para comparar com o limite do serviço
var weightOrder = map[WeightBand]int{
	WeightUpTo5:  0,
	WeightUpTo10: 1,
	WeightUpTo15: 2,
	WeightUpTo20: 3,
	WeightUpTo25: 4,
	WeightUpTo30: 5,
	WeightOver30: 6,
}

func IsValidWeightBand(b WeightBand) bool {
	_, ok := weightOrder[b]
	return ok
}

// Tabela base de preço por faixa de peso (banho / tosa)
var basePriceByWeight = map[WeightBand]float64{
	WeightUpTo5:  65,
	WeightUpTo10: 75,
	WeightUpTo15: 85,
	WeightUpTo20: 95,
	WeightUpTo25: 105,
	WeightUpTo30: 115,
	WeightOver30: 150,
}

// ===============================
// Service Policy
// ===============================

type ServicePolicy struct {
	Label        string
	DurationMin  int
	Windows      []Window // vazio = janelas padrão do calendário
	NeedsWeight  bool
	MaxWeight    WeightBand // zero value = sem limite
	BasePrice    float64    // serviços de preço fixo
	CallOutFee   float64    // somado ao preço por peso (atendimento externo)
	PricedByBand bool
}

var servicePolicies = map[ServiceType]ServicePolicy{
	ServiceBathGroom: {
		Label:        "Banho & Tosa",
		DurationMin:  120,
		NeedsWeight:  true,
		PricedByBand: true,
	},
	ServiceMobilePet: {
		Label:        "Banho & Tosa (Pet Móvel)",
		DurationMin:  120,
		NeedsWeight:  true,
		MaxWeight:    WeightUpTo30,
		PricedByBand: true,
		CallOutFee:   20,
	},
	ServiceCondominium: {
		Label:        "Atendimento em Condomínio",
		DurationMin:  120,
		NeedsWeight:  true,
		MaxWeight:    WeightUpTo30,
		PricedByBand: true,
		CallOutFee:   10,
	},
	ServiceDaycare: {
		Label:       "Creche Pet",
		DurationMin: 60,
	},
	ServiceHotel: {
		Label:       "Hotel Pet",
		DurationMin: 60,
		BasePrice:   80,
	},
	ServiceVisit: {
		Label:       "Visita",
		DurationMin: 60,
		Windows: []Window{
			{StartHour: 9, EndHour: 13},
			{StartHour: 14, EndHour: 20},
		},
	},
}

func PolicyFor(s ServiceType) (ServicePolicy, bool) {
	p, ok := servicePolicies[s]
	return p, ok
}

func IsValidService(s ServiceType) bool {
	_, ok := servicePolicies[s]
	return ok
}

// PriceFor calcula o preço do serviço para a faixa de peso informada.
// Serviços de preço fixo ignoram a faixa.
func PriceFor(s ServiceType, band WeightBand) (float64, error) {
	p, ok := servicePolicies[s]
	if !ok {
		return 0, httperr.ErrBusiness("invalid_format")
	}

	if !p.PricedByBand {
		return p.BasePrice, nil
	}

	base, ok := basePriceByWeight[band]
	if !ok {
		return 0, httperr.ErrBusiness("invalid_format")
	}

	return base + p.CallOutFee, nil
}

// CheckWeight valida a faixa de peso do pet contra o limite do serviço.
func CheckWeight(s ServiceType, band WeightBand) error {
	p, ok := servicePolicies[s]
	if !ok {
		return httperr.ErrBusiness("invalid_format")
	}

	if !p.NeedsWeight {
		return nil
	}

	if !IsValidWeightBand(band) {
		return httperr.ErrBusiness("invalid_format")
	}

	if p.MaxWeight != "" && weightOrder[band] > weightOrder[p.MaxWeight] {
		return httperr.ErrBusiness("weight_constraint")
	}

	return nil
}
