package scheduling

import (
	"context"
	"time"

	"github.com/AuMigoPet/petshop-scheduler/internal/cache"
	domain "github.com/AuMigoPet/petshop-scheduler/internal/domain/scheduling"
	"github.com/AuMigoPet/petshop-scheduler/internal/dto"
	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
	"github.com/AuMigoPet/petshop-scheduler/internal/timezone"
	"github.com/AuMigoPet/petshop-scheduler/internal/validators"
)

// ======================================================
// REPORTING
// ======================================================

// GetStats resume os agendamentos confirmados/concluídos do período:
// total, receita e quebra por serviço. Visão derivada, nunca muta
// estado; o cache redis segura no máximo o TTL configurado.
type GetStats struct {
	repo  domain.Repository
	cache *cache.StatsCache
}

func NewGetStats(repo domain.Repository, statsCache *cache.StatsCache) *GetStats {
	return &GetStats{
		repo:  repo,
		cache: statsCache,
	}
}

func (uc *GetStats) Daily(
	ctx context.Context,
	petshopID uint,
	dateStr string,
) (*dto.StatsSummary, error) {

	start, err := uc.parseDate(ctx, petshopID, dateStr)
	if err != nil {
		return nil, err
	}

	return uc.summarize(ctx, petshopID, "daily", start, start.AddDate(0, 0, 1))
}

// Weekly cobre a semana civil (segunda a domingo) que contém a data.
func (uc *GetStats) Weekly(
	ctx context.Context,
	petshopID uint,
	weekOfStr string,
) (*dto.StatsSummary, error) {

	day, err := uc.parseDate(ctx, petshopID, weekOfStr)
	if err != nil {
		return nil, err
	}

	offset := (int(day.Weekday()) + 6) % 7 // segunda = 0
	start := day.AddDate(0, 0, -offset)

	return uc.summarize(ctx, petshopID, "weekly", start, start.AddDate(0, 0, 7))
}

func (uc *GetStats) Monthly(
	ctx context.Context,
	petshopID uint,
	year int,
	month int,
) (*dto.StatsSummary, error) {

	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return nil, httperr.ErrBusiness("invalid_format")
	}

	shop, err := uc.repo.GetPetshopByID(ctx, petshopID)
	if err != nil {
		return nil, httperr.ErrBusiness("not_found")
	}

	loc := timezone.Location(shop.Timezone)
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)

	return uc.summarize(ctx, petshopID, "monthly", start, start.AddDate(0, 1, 0))
}

// ------------------------------------------------------

func (uc *GetStats) parseDate(
	ctx context.Context,
	petshopID uint,
	raw string,
) (time.Time, error) {

	shop, err := uc.repo.GetPetshopByID(ctx, petshopID)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("not_found")
	}

	loc := timezone.Location(shop.Timezone)

	// sem data, o período é ancorado no dia corrente do petshop
	if raw == "" {
		now := timezone.NowIn(shop.Timezone)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), nil
	}

	day, err := validators.ParseDate(raw, loc)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_format")
	}

	return day, nil
}

func (uc *GetStats) summarize(
	ctx context.Context,
	petshopID uint,
	period string,
	start time.Time,
	end time.Time,
) (*dto.StatsSummary, error) {

	if cached, ok := uc.cache.Get(ctx, petshopID, period, start); ok {
		return cached, nil
	}

	summary, err := uc.repo.AggregateStats(ctx, petshopID, start, end)
	if err != nil {
		return nil, err
	}

	summary.Period = period
	summary.Start = start
	summary.End = end

	uc.cache.Set(ctx, petshopID, period, start, summary)

	return summary, nil
}
