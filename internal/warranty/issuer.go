package warranty

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/internal/clock"
	"github.com/fixbench/fixbench/internal/events"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Warranty records the coverage window a sold catalog item earned.
type Warranty struct {
	ID            snowflake.ID  `gorm:"column:id;primaryKey" json:"id"`
	CompanyID     snowflake.ID  `gorm:"column:company_id" json:"company_id"`
	InvoiceID     snowflake.ID  `gorm:"column:invoice_id" json:"invoice_id"`
	InvoiceItemID snowflake.ID  `gorm:"column:invoice_item_id;uniqueIndex" json:"invoice_item_id"`
	CatalogItemID snowflake.ID  `gorm:"column:catalog_item_id" json:"catalog_item_id"`
	CustomerID    *snowflake.ID `gorm:"column:customer_id" json:"customer_id,omitempty"`
	Months        int           `gorm:"column:months" json:"months"`
	StartsAt      time.Time     `gorm:"column:starts_at" json:"starts_at"`
	ExpiresAt     time.Time     `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt     time.Time     `gorm:"column:created_at" json:"created_at"`
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
}

// Issuer turns standalone-sale events into warranty records for every sold
// item whose catalog entry carries a warranty period. It runs off the event
// feed, so a failed issuance never reaches the seller of the invoice.
type Issuer struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
}

func NewIssuer(p Params) *Issuer {
	return &Issuer{
		db:    p.DB,
		log:   p.Log.Named("warranty.issuer"),
		clock: p.Clock,
		genID: p.GenID,
	}
}

func (i *Issuer) EventTypes() []string {
	return []string{events.EventInvoiceCreatedStandalone}
}

type coveredItemRow struct {
	ItemID         snowflake.ID  `gorm:"column:item_id"`
	CompanyID      snowflake.ID  `gorm:"column:company_id"`
	CatalogItemID  snowflake.ID  `gorm:"column:catalog_item_id"`
	CustomerID     *snowflake.ID `gorm:"column:customer_id"`
	WarrantyMonths int           `gorm:"column:warranty_months"`
}

func (i *Issuer) Handle(ctx context.Context, event events.StoredEvent) error {
	raw, _ := event.Payload["invoice_id"].(string)
	invoiceID, err := snowflake.ParseString(raw)
	if err != nil || invoiceID == 0 {
		i.log.Warn("event without usable invoice id", zap.String("event_id", event.ID.String()))
		return nil
	}

	var rows []coveredItemRow
	err = i.db.WithContext(ctx).Raw(
		`SELECT ii.id AS item_id, ii.company_id, ii.catalog_item_id, inv.customer_id, ci.warranty_months
		 FROM invoice_items ii
		 JOIN catalog_items ci ON ci.id = ii.catalog_item_id
		 JOIN invoices inv ON inv.id = ii.invoice_id
		 WHERE ii.invoice_id = ? AND ci.warranty_months > 0`,
		invoiceID,
	).Scan(&rows).Error
	if err != nil {
		return err
	}

	now := i.clock.Now().UTC()
	for _, row := range rows {
		warranty := Warranty{
			ID:            i.genID.Generate(),
			CompanyID:     row.CompanyID,
			InvoiceID:     invoiceID,
			InvoiceItemID: row.ItemID,
			CatalogItemID: row.CatalogItemID,
			CustomerID:    row.CustomerID,
			Months:        row.WarrantyMonths,
			StartsAt:      now,
			ExpiresAt:     now.AddDate(0, row.WarrantyMonths, 0),
			CreatedAt:     now,
		}
		// Replayed events must not double-issue coverage for an item.
		err := i.db.WithContext(ctx).Exec(
			`INSERT INTO warranties (id, company_id, invoice_id, invoice_item_id, catalog_item_id, customer_id, months, starts_at, expires_at, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (invoice_item_id) DO NOTHING`,
			warranty.ID,
			warranty.CompanyID,
			warranty.InvoiceID,
			warranty.InvoiceItemID,
			warranty.CatalogItemID,
			warranty.CustomerID,
			warranty.Months,
			warranty.StartsAt,
			warranty.ExpiresAt,
			warranty.CreatedAt,
		).Error
		if err != nil {
			return err
		}
	}

	if len(rows) > 0 {
		i.log.Info("warranties issued",
			zap.String("invoice_id", invoiceID.String()),
			zap.Int("count", len(rows)),
		)
	}
	return nil
}
