package reportcache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/internal/clock"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var reportCacheDBSeq int

func setupReportCacheTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	reportCacheDBSeq++
	dsn := fmt.Sprintf("file:reportcachedb_%d?mode=memory&cache=shared", reportCacheDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	ddl := `CREATE TABLE report_cache (
		id BIGINT PRIMARY KEY,
		company_id BIGINT NOT NULL,
		report_type TEXT NOT NULL,
		cache_key TEXT NOT NULL UNIQUE,
		payload TEXT NOT NULL,
		expires_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`
	if err := db.Exec(ddl).Error; err != nil {
		t.Fatalf("ddl: %v", err)
	}
	return db
}

func newCacheService(t *testing.T, db *gorm.DB, clk clock.Clock) Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return New(Params{DB: db, Log: zap.NewNop(), Clock: clk, GenID: node})
}

func TestGetOrComputeCachesResult(t *testing.T) {
	db := setupReportCacheTestDB(t)
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc := newCacheService(t, db, clk)
	ctx := context.Background()

	computeCount := 0
	compute := func(ctx context.Context) (map[string]any, error) {
		computeCount++
		return map[string]any{"total": float64(120)}, nil
	}
	params := map[string]any{"branch_id": "2"}

	payload, cached, err := svc.GetOrCompute(ctx, 1, "revenue_summary", params, compute)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if cached {
		t.Fatal("first call should compute")
	}
	if payload["total"] != float64(120) {
		t.Fatalf("unexpected payload %+v", payload)
	}

	_, cached, err = svc.GetOrCompute(ctx, 1, "revenue_summary", params, compute)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !cached {
		t.Fatal("second call should hit the cache")
	}
	if computeCount != 1 {
		t.Fatalf("compute ran %d times, want 1", computeCount)
	}
}

func TestGetOrComputeExpires(t *testing.T) {
	db := setupReportCacheTestDB(t)
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc := newCacheService(t, db, clk)
	ctx := context.Background()

	computeCount := 0
	compute := func(ctx context.Context) (map[string]any, error) {
		computeCount++
		return map[string]any{"n": float64(computeCount)}, nil
	}
	params := map[string]any{}

	if _, _, err := svc.GetOrCompute(ctx, 1, "revenue_summary", params, compute); err != nil {
		t.Fatalf("first call: %v", err)
	}

	// Past the default 15 minute TTL.
	clk.Advance(16 * time.Minute)

	payload, cached, err := svc.GetOrCompute(ctx, 1, "revenue_summary", params, compute)
	if err != nil {
		t.Fatalf("post-expiry call: %v", err)
	}
	if cached {
		t.Fatal("expired entry served from cache")
	}
	if payload["n"] != float64(2) {
		t.Fatalf("stale payload %+v", payload)
	}
}

func TestGetOrComputeSharedThroughTable(t *testing.T) {
	db := setupReportCacheTestDB(t)
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first := newCacheService(t, db, clk)
	compute := func(ctx context.Context) (map[string]any, error) {
		return map[string]any{"total": float64(77)}, nil
	}
	if _, _, err := first.GetOrCompute(ctx, 1, "revenue_summary", nil, compute); err != nil {
		t.Fatalf("warm: %v", err)
	}

	// A fresh instance has an empty memory layer but shares the table.
	second := newCacheService(t, db, clk)
	payload, cached, err := second.GetOrCompute(ctx, 1, "revenue_summary", nil, func(ctx context.Context) (map[string]any, error) {
		t.Fatal("compute should not run")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("read through table: %v", err)
	}
	if !cached || payload["total"] != float64(77) {
		t.Fatalf("table entry not served: cached=%v payload=%+v", cached, payload)
	}
}

func TestDistinctParamsDistinctEntries(t *testing.T) {
	db := setupReportCacheTestDB(t)
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	svc := newCacheService(t, db, clk)
	ctx := context.Background()

	computeCount := 0
	compute := func(ctx context.Context) (map[string]any, error) {
		computeCount++
		return map[string]any{}, nil
	}

	if _, _, err := svc.GetOrCompute(ctx, 1, "revenue_summary", map[string]any{"branch_id": "2"}, compute); err != nil {
		t.Fatalf("branch 2: %v", err)
	}
	if _, _, err := svc.GetOrCompute(ctx, 1, "revenue_summary", map[string]any{"branch_id": "5"}, compute); err != nil {
		t.Fatalf("branch 5: %v", err)
	}
	if computeCount != 2 {
		t.Fatalf("compute ran %d times, want 2", computeCount)
	}
}
