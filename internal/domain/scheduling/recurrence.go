package scheduling

import (
	"time"

	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
)

// ===============================
// Recurrence
// ===============================

type RecurrenceType string

const (
	RecurrenceWeekly   RecurrenceType = "weekly"
	RecurrenceBiweekly RecurrenceType = "biweekly"
	RecurrenceMonthly  RecurrenceType = "monthly"
)

type RecurrenceRule struct {
	Type RecurrenceType
	// weekly/biweekly: dia da semana (0 = domingo)
	// monthly: dia do mês (ajustado para o último dia em meses curtos)
	Day  int
	Hour int
}

func (r RecurrenceRule) Validate() error {
	switch r.Type {
	case RecurrenceWeekly, RecurrenceBiweekly:
		if r.Day < 0 || r.Day > 6 {
			return httperr.ErrBusiness("invalid_format")
		}
	case RecurrenceMonthly:
		if r.Day < 1 || r.Day > 31 {
			return httperr.ErrBusiness("invalid_format")
		}
	default:
		return httperr.ErrBusiness("invalid_format")
	}

	if r.Hour < 0 || r.Hour > 23 {
		return httperr.ErrBusiness("invalid_format")
	}

	return nil
}

// clampDay ajusta o dia do mês para meses mais curtos (31 vira 28/29/30).
func clampDay(year int, month time.Month, day int, loc *time.Location) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// Occurrences devolve um iterador preguiçoso das ocorrências da regra a
// partir de from (inclusive) até horizon (exclusivo). Cada chamada rende
// a próxima data; ok=false encerra a sequência. Nada é pré-materializado
// além do cursor.
func Occurrences(rule RecurrenceRule, from time.Time, horizon time.Time) func() (time.Time, bool) {
	loc := from.Location()

	var cursor time.Time

	switch rule.Type {
	case RecurrenceMonthly:
		cursor = clampDay(from.Year(), from.Month(), rule.Day, loc)
		if cursor.Before(startOfDay(from)) {
			next := from.AddDate(0, 1, -from.Day()+1)
			cursor = clampDay(next.Year(), next.Month(), rule.Day, loc)
		}
	default:
		cursor = startOfDay(from)
		for int(cursor.Weekday()) != rule.Day {
			cursor = cursor.AddDate(0, 0, 1)
		}
	}

	return func() (time.Time, bool) {
		if !cursor.Before(horizon) {
			return time.Time{}, false
		}

		occ := time.Date(
			cursor.Year(), cursor.Month(), cursor.Day(),
			rule.Hour, 0, 0, 0,
			loc,
		)

		switch rule.Type {
		case RecurrenceMonthly:
			next := cursor.AddDate(0, 1, -cursor.Day()+1)
			cursor = clampDay(next.Year(), next.Month(), rule.Day, loc)
		case RecurrenceBiweekly:
			cursor = cursor.AddDate(0, 0, 14)
		default:
			cursor = cursor.AddDate(0, 0, 7)
		}

		return occ, true
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
