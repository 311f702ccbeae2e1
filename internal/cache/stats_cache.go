package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/AuMigoPet/petshop-scheduler/internal/dto"
)

// Cache dos relatórios com TTL curto: o intervalo de atualização
// documentado do dashboard. Redis fora do ar nunca derruba a consulta,
// o chamador simplesmente cai no banco.
type StatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStatsCache(rdb *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &StatsCache{rdb: rdb, ttl: ttl}
}

func key(petshopID uint, period string, start time.Time) string {
	return fmt.Sprintf("stats:%d:%s:%s", petshopID, period, start.Format("2006-01-02"))
}

func (c *StatsCache) Get(ctx context.Context, petshopID uint, period string, start time.Time) (*dto.StatsSummary, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, key(petshopID, period, start)).Result()
	if err != nil {
		return nil, false
	}

	var summary dto.StatsSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil, false
	}

	return &summary, true
}

func (c *StatsCache) Set(ctx context.Context, petshopID uint, period string, start time.Time, summary *dto.StatsSummary) {
	if c == nil || c.rdb == nil || summary == nil {
		return
	}

	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}

	// best effort: erro de cache não interessa ao chamador
	c.rdb.Set(ctx, key(petshopID, period, start), raw, c.ttl)
}
