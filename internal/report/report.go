package report

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/internal/companyctx"
	"github.com/fixbench/fixbench/internal/reportcache"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const TypeRevenueSummary = "revenue_summary"

var (
	ErrInvalidCompany   = errors.New("invalid_company")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidTimeRange = errors.New("invalid_time_range")
)

type RevenueSummaryRequest struct {
	BranchID string     `form:"branch_id"`
	From     *time.Time `form:"from"`
	To       *time.Time `form:"to"`
}

type RevenueSummaryResponse struct {
	Report map[string]any `json:"report"`
	Cached bool           `json:"cached"`
}

type Service interface {
	// RevenueSummary aggregates billed, collected and outstanding amounts
	// over invoices, optionally scoped to a branch and time window.
	// Results are served through the report cache.
	RevenueSummary(ctx context.Context, req RevenueSummaryRequest) (RevenueSummaryResponse, error)
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Cache reportcache.Service
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	cache reportcache.Service
}

func New(p Params) Service {
	return &service{
		db:    p.DB,
		log:   p.Log.Named("report.service"),
		cache: p.Cache,
	}
}

var Module = fx.Module("report.service",
	fx.Provide(New),
)

type statusRow struct {
	PaymentStatus string `gorm:"column:payment_status"`
	Count         int64  `gorm:"column:invoice_count"`
	Total         int64  `gorm:"column:total_amount"`
	Paid          int64  `gorm:"column:paid_amount"`
	Balance       int64  `gorm:"column:balance_amount"`
}

func (s *service) RevenueSummary(ctx context.Context, req RevenueSummaryRequest) (RevenueSummaryResponse, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return RevenueSummaryResponse{}, ErrInvalidCompany
	}

	var branchID snowflake.ID
	if branch := strings.TrimSpace(req.BranchID); branch != "" {
		id, err := snowflake.ParseString(branch)
		if err != nil || id == 0 {
			return RevenueSummaryResponse{}, ErrInvalidID
		}
		branchID = id
	}
	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return RevenueSummaryResponse{}, ErrInvalidTimeRange
	}

	params := map[string]any{}
	if branchID != 0 {
		params["branch_id"] = branchID.String()
	}
	if req.From != nil {
		params["from"] = req.From.UTC().Format(time.RFC3339)
	}
	if req.To != nil {
		params["to"] = req.To.UTC().Format(time.RFC3339)
	}

	payload, cached, err := s.cache.GetOrCompute(ctx, companyID, TypeRevenueSummary, params, func(ctx context.Context) (map[string]any, error) {
		return s.computeRevenueSummary(ctx, companyID, branchID, req.From, req.To)
	})
	if err != nil {
		return RevenueSummaryResponse{}, err
	}
	return RevenueSummaryResponse{Report: payload, Cached: cached}, nil
}

func (s *service) computeRevenueSummary(ctx context.Context, companyID, branchID snowflake.ID, from, to *time.Time) (map[string]any, error) {
	query := `SELECT payment_status,
		        COUNT(1) AS invoice_count,
		        COALESCE(SUM(total_amount), 0) AS total_amount,
		        COALESCE(SUM(paid_amount), 0) AS paid_amount,
		        COALESCE(SUM(balance_amount), 0) AS balance_amount
		 FROM invoices
		 WHERE company_id = ?`
	args := []any{companyID}
	if branchID != 0 {
		query += ` AND branch_id = ?`
		args = append(args, branchID)
	}
	if from != nil {
		query += ` AND created_at >= ?`
		args = append(args, from.UTC())
	}
	if to != nil {
		query += ` AND created_at <= ?`
		args = append(args, to.UTC())
	}
	query += ` GROUP BY payment_status`

	var rows []statusRow
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	var invoiceCount, totalBilled, totalCollected, totalOutstanding int64
	byStatus := map[string]any{}
	for _, row := range rows {
		invoiceCount += row.Count
		totalBilled += row.Total
		totalCollected += row.Paid
		totalOutstanding += row.Balance
		byStatus[row.PaymentStatus] = map[string]any{
			"invoice_count":  row.Count,
			"total_amount":   row.Total,
			"paid_amount":    row.Paid,
			"balance_amount": row.Balance,
		}
	}

	return map[string]any{
		"invoice_count":     invoiceCount,
		"total_billed":      totalBilled,
		"total_collected":   totalCollected,
		"total_outstanding": totalOutstanding,
		"by_status":         byStatus,
	}, nil
}
