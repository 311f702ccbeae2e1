package scheduling

import (
	"context"
	"time"

	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
)

// ===============================
// Conflict Detector
// ===============================

// ConflictScope define se a sobreposição é avaliada pelo pet, pelo tutor
// ou pelos dois. Os requisitos de origem divergiam aqui, então virou
// política configurável.
type ConflictScope string

const (
	ScopePet   ConflictScope = "pet"
	ScopeOwner ConflictScope = "owner"
	ScopeBoth  ConflictScope = "both"
)

func ParseConflictScope(raw string) ConflictScope {
	switch ConflictScope(raw) {
	case ScopeOwner:
		return ScopeOwner
	case ScopeBoth:
		return ScopeBoth
	default:
		return ScopePet
	}
}

type ConflictDetector struct {
	repo  Repository
	scope ConflictScope
}

func NewConflictDetector(repo Repository, scope ConflictScope) *ConflictDetector {
	if scope == "" {
		scope = ScopePet
	}
	return &ConflictDetector{repo: repo, scope: scope}
}

// Check recusa o candidato quando o mesmo pet (ou tutor, conforme o
// escopo) já tem agendamento pendente/confirmado sobrepondo o intervalo.
// Agendamentos cancelados liberam o horário.
func (d *ConflictDetector) Check(
	ctx context.Context,
	petshopID uint,
	petID uint,
	ownerID uint,
	start time.Time,
	end time.Time,
) error {

	if d.scope == ScopePet || d.scope == ScopeBoth {
		count, err := d.repo.CountOverlappingForPet(ctx, petshopID, petID, start, end)
		if err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness("conflicting_booking")
		}
	}

	if d.scope == ScopeOwner || d.scope == ScopeBoth {
		count, err := d.repo.CountOverlappingForOwner(ctx, petshopID, ownerID, start, end)
		if err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness("conflicting_booking")
		}
	}

	return nil
}
