package numbering

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/internal/clock"
	"github.com/fixbench/fixbench/internal/config"
	pkgdb "github.com/fixbench/fixbench/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DocTypeInvoice is the only document type issued today.
const DocTypeInvoice = "invoice"

var ErrUnknownBranch = errors.New("unknown_branch")

// Service hands out unique, monotonically increasing document numbers per
// company, branch and document type.
type Service interface {
	NextInvoiceNumber(ctx context.Context, tx *gorm.DB, companyID, branchID snowflake.ID) (string, error)
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
}

func New(p Params) Service {
	return &service{
		db:       p.DB,
		log:      p.Log.Named("numbering.service"),
		clock:    p.Clock,
		genID:    p.GenID,
		settings: p.Settings,
	}
}

// NextInvoiceNumber issues the next number inside the caller's transaction,
// so an aborted invoice never burns a visible gap mid-flight.
func (s *service) NextInvoiceNumber(ctx context.Context, tx *gorm.DB, companyID, branchID snowflake.ID) (string, error) {
	if tx == nil {
		tx = s.db
	}

	branchCode, err := s.branchCode(ctx, tx, companyID, branchID)
	if err != nil {
		return "", err
	}

	seq, err := s.nextSequence(ctx, tx, companyID, branchID, DocTypeInvoice)
	if err != nil {
		return "", err
	}

	prefix := config.DefaultBillingSettings().InvoiceNumberPrefix
	if s.settings != nil {
		prefix = s.settings.Current().InvoiceNumberPrefix
	}
	return fmt.Sprintf("%s-%s-%06d", prefix, strings.ToUpper(branchCode), seq), nil
}

func (s *service) branchCode(ctx context.Context, tx *gorm.DB, companyID, branchID snowflake.ID) (string, error) {
	var code string
	if err := tx.WithContext(ctx).Raw(
		`SELECT code FROM branches WHERE company_id = ? AND id = ?`,
		companyID,
		branchID,
	).Scan(&code).Error; err != nil {
		return "", err
	}
	if strings.TrimSpace(code) == "" {
		return "", ErrUnknownBranch
	}
	return code, nil
}

func (s *service) nextSequence(ctx context.Context, tx *gorm.DB, companyID, branchID snowflake.ID, docType string) (int64, error) {
	now := s.clock.Now().UTC()
	if err := tx.WithContext(ctx).Exec(
		`INSERT INTO document_sequences (id, company_id, branch_id, doc_type, next_value, updated_at)
		 VALUES (?, ?, ?, ?, 1, ?)
		 ON CONFLICT (company_id, branch_id, doc_type) DO NOTHING`,
		s.genID.Generate(),
		companyID,
		branchID,
		docType,
		now,
	).Error; err != nil {
		return 0, err
	}

	var seq int64
	if err := tx.WithContext(ctx).Raw(
		`SELECT next_value FROM document_sequences
		 WHERE company_id = ? AND branch_id = ? AND doc_type = ?`+pkgdb.RowLockClause(tx),
		companyID,
		branchID,
		docType,
	).Scan(&seq).Error; err != nil {
		return 0, err
	}
	if seq == 0 {
		return 0, errors.New("sequence_not_found")
	}

	if err := tx.WithContext(ctx).Exec(
		`UPDATE document_sequences
		 SET next_value = next_value + 1, updated_at = ?
		 WHERE company_id = ? AND branch_id = ? AND doc_type = ?`,
		now,
		companyID,
		branchID,
		docType,
	).Error; err != nil {
		return 0, err
	}

	return seq, nil
}

var Module = fx.Module("numbering.service",
	fx.Provide(New),
)
