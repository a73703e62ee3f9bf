package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Store runs the aggregation queries behind the admin dashboard.
type Store interface {
	Summary(ctx context.Context) (*Summary, error)
}

// Summary is the admin dashboard snapshot.
type Summary struct {
	Donations struct {
		Total     decimal.Decimal  `json:"total"`
		ThisMonth decimal.Decimal  `json:"this_month"`
		LastMonth decimal.Decimal  `json:"last_month"`
		ThisYear  decimal.Decimal  `json:"this_year"`
		ByStatus  map[string]int64 `json:"by_status"`
		Donors    int64            `json:"donor_count"`
	} `json:"donations"`
	Volunteers     map[string]int64 `json:"volunteers_by_status"`
	ActivePrograms int64            `json:"active_programs"`
	GalleryItems   int64            `json:"gallery_items"`
	NewMessages    int64            `json:"new_contact_messages"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

const (
	cacheKey = "chartitze:dashboard:summary"
	cacheTTL = 60 * time.Second
)

// Service serves dashboard summaries, caching the aggregate in Redis so
// refresh-happy admin pages do not hammer the aggregation queries.
type Service struct {
	store Store
	rdb   *redis.Client // nil disables caching
}

func NewService(store Store, rdb *redis.Client) *Service {
	return &Service{store: store, rdb: rdb}
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var out Summary
			if err := json.Unmarshal(cached, &out); err == nil {
				return &out, nil
			}
		}
	}

	out, err := s.store.Summary(ctx)
	if err != nil {
		return nil, err
	}
	out.GeneratedAt = time.Now()

	if s.rdb != nil {
		if b, err := json.Marshal(out); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, b, cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("dashboard cache write failed")
			}
		}
	}
	return out, nil
}
