package reportcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/internal/cache"
	"github.com/fixbench/fixbench/internal/clock"
	"github.com/fixbench/fixbench/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ComputeFunc produces a report payload on a cache miss.
type ComputeFunc func(ctx context.Context) (map[string]any, error)

// Service caches expensive report payloads per company and parameter set.
// Entries live in the report_cache table so every instance sees them, with a
// small in-memory layer in front to skip the round trip on hot reports.
type Service interface {
	// GetOrCompute returns the cached payload for the given report and
	// parameters, computing and storing it when absent or expired. The
	// second return reports whether the payload came from cache.
	GetOrCompute(ctx context.Context, companyID snowflake.ID, reportType string, params map[string]any, compute ComputeFunc) (map[string]any, bool, error)
	// Invalidate drops the in-memory layer, forcing table reads.
	Invalidate()
}

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	GenID    *snowflake.Node
	Settings *config.BillingSettingsHolder `optional:"true"`
}

type service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	genID    *snowflake.Node
	settings *config.BillingSettingsHolder
	memory   cache.Cache[string, map[string]any]
}

func New(p Params) Service {
	return &service{
		db:       p.DB,
		log:      p.Log.Named("reportcache.service"),
		clock:    p.Clock,
		genID:    p.GenID,
		settings: p.Settings,
		memory:   cache.NewTTLCacheWithNow[string, map[string]any](p.Clock.Now),
	}
}

var Module = fx.Module("reportcache.service",
	fx.Provide(New),
)

type cacheRow struct {
	Payload   string    `gorm:"column:payload"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
}

func (s *service) GetOrCompute(ctx context.Context, companyID snowflake.ID, reportType string, params map[string]any, compute ComputeFunc) (map[string]any, bool, error) {
	key, err := cacheKey(companyID, reportType, params)
	if err != nil {
		return nil, false, err
	}

	if payload, ok := s.memory.Get(key); ok {
		return payload, true, nil
	}

	now := s.clock.Now().UTC()
	ttl := s.ttl()

	var row cacheRow
	err = s.db.WithContext(ctx).Raw(
		`SELECT payload, expires_at FROM report_cache WHERE cache_key = ?`,
		key,
	).Scan(&row).Error
	if err != nil {
		return nil, false, err
	}
	if row.Payload != "" && row.ExpiresAt.After(now) {
		var payload map[string]any
		if err := json.Unmarshal([]byte(row.Payload), &payload); err == nil {
			s.memory.Set(key, payload, row.ExpiresAt.Sub(now))
			return payload, true, nil
		}
		// A corrupt row falls through to recompute.
		s.log.Warn("discarding unreadable report cache row", zap.String("cache_key", key))
	}

	payload, err := compute(ctx)
	if err != nil {
		return nil, false, err
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, false, err
	}
	expiresAt := now.Add(ttl)
	err = s.db.WithContext(ctx).Exec(
		`INSERT INTO report_cache (id, company_id, report_type, cache_key, payload, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (cache_key) DO UPDATE SET payload = excluded.payload, expires_at = excluded.expires_at`,
		s.genID.Generate(),
		companyID,
		reportType,
		key,
		string(encoded),
		expiresAt,
		now,
	).Error
	if err != nil {
		return nil, false, err
	}

	s.memory.Set(key, payload, ttl)
	return payload, false, nil
}

func (s *service) Invalidate() {
	s.memory.Flush()
}

func (s *service) ttl() time.Duration {
	settings := config.DefaultBillingSettings()
	if s.settings != nil {
		settings = s.settings.Current()
	}
	minutes := settings.ReportCacheTTLMin
	if minutes <= 0 {
		minutes = 15
	}
	return time.Duration(minutes) * time.Minute
}

// cacheKey hashes the canonical parameter encoding so logically equal
// requests share an entry. json.Marshal emits map keys sorted, which is the
// canonicalization.
func cacheKey(companyID snowflake.ID, reportType string, params map[string]any) (string, error) {
	encoded, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(companyID.String() + "|" + reportType + "|" + string(encoded)))
	return hex.EncodeToString(sum[:]), nil
}
