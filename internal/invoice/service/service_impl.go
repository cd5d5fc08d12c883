package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/fixbench/fixbench/internal/audit/domain"
	"github.com/fixbench/fixbench/internal/clock"
	"github.com/fixbench/fixbench/internal/companyctx"
	"github.com/fixbench/fixbench/internal/config"
	"github.com/fixbench/fixbench/internal/events"
	"github.com/fixbench/fixbench/internal/invoice/domain"
	"github.com/fixbench/fixbench/internal/numbering"
	"github.com/fixbench/fixbench/internal/observability/metrics"
	"github.com/fixbench/fixbench/internal/providers/docstore"
	"github.com/fixbench/fixbench/internal/providers/pdf"
	repairdomain "github.com/fixbench/fixbench/internal/repair/domain"
	"github.com/fixbench/fixbench/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Clock      clock.Clock
	GenID      *snowflake.Node
	Repo       domain.Repository
	RepairRepo repairdomain.Repository
	Numbering  numbering.Service
	Outbox     *events.Outbox                `optional:"true"`
	Audit      auditdomain.Service           `optional:"true"`
	Metrics    *metrics.Metrics              `optional:"true"`
	Renderer   pdf.Renderer                  `optional:"true"`
	Docs       docstore.Store                `optional:"true"`
	Settings   *config.BillingSettingsHolder `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	clock      clock.Clock
	genID      *snowflake.Node
	repo       domain.Repository
	repairRepo repairdomain.Repository
	numbering  numbering.Service
	outbox     *events.Outbox
	audit      auditdomain.Service
	metrics    *metrics.Metrics
	renderer   pdf.Renderer
	docs       docstore.Store
	settings   *config.BillingSettingsHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("invoice.service"),
		clock:      p.Clock,
		genID:      p.GenID,
		repo:       p.Repo,
		repairRepo: p.RepairRepo,
		numbering:  p.Numbering,
		outbox:     p.Outbox,
		audit:      p.Audit,
		metrics:    p.Metrics,
		renderer:   p.Renderer,
		docs:       p.Docs,
		settings:   p.Settings,
	}
}

func (s *Service) CreateFromService(ctx context.Context, req domain.CreateFromServiceRequest) (domain.Invoice, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Invoice{}, domain.ErrInvalidCompany
	}

	serviceID, err := s.parseID(req.ServiceID)
	if err != nil {
		return domain.Invoice{}, err
	}

	var created domain.Invoice
	err = s.db.Transaction(func(tx *gorm.DB) error {
		snapshot, err := s.repairRepo.GetSnapshot(ctx, tx, companyID, serviceID)
		if err != nil {
			return err
		}
		if snapshot == nil {
			return domain.ErrServiceNotFound
		}

		existing, err := s.repo.FindByServiceID(ctx, tx, companyID, serviceID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrInvoiceExists
		}

		number, err := s.numbering.NextInvoiceNumber(ctx, tx, companyID, snapshot.BranchID)
		if err != nil {
			if err == numbering.ErrUnknownBranch {
				return domain.ErrBranchNotFound
			}
			return err
		}

		totals := domain.DeriveServiceTotals(*snapshot)
		now := s.clock.Now().UTC()
		linkedService := snapshot.ID
		customerID := snapshot.CustomerID

		invoice := domain.Invoice{
			ID:                s.genID.Generate(),
			CompanyID:         companyID,
			BranchID:          snapshot.BranchID,
			ServiceID:         &linkedService,
			CustomerID:        &customerID,
			InvoiceNumber:     number,
			IsWarrantyInvoice: snapshot.IsWarrantyRepair,
			TotalAmount:       totals.TotalAmount,
			PaidAmount:        totals.PaidAmount,
			BalanceAmount:     totals.BalanceAmount,
			PaymentStatus:     totals.PaymentStatus,
			Notes:             strings.TrimSpace(req.Notes),
			Metadata:          datatypes.JSONMap{},
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		inserted, err := s.repo.Insert(ctx, tx, &invoice)
		if err != nil {
			return err
		}
		if !inserted {
			return domain.ErrInvoiceExists
		}

		// Advance payments collected on the job become payment rows so the
		// ledger explains the derived paid amount.
		for _, entry := range snapshot.Payments {
			payment := domain.Payment{
				ID:              s.genID.Generate(),
				CompanyID:       companyID,
				InvoiceID:       invoice.ID,
				PaymentMethodID: entry.PaymentMethodID,
				Amount:          entry.Amount,
				Notes:           entry.Notes,
				PaidAt:          entry.PaidAt,
				CreatedAt:       now,
			}
			if err := s.repo.InsertPayment(ctx, tx, &payment); err != nil {
				return err
			}
		}

		if err := s.publishTx(ctx, tx, events.Event{
			CompanyID: companyID,
			Type:      events.EventInvoiceCreated,
			DedupeKey: events.EventInvoiceCreated + ":" + serviceID.String(),
			Payload: events.InvoicePayload{
				InvoiceID: invoice.ID.String(),
				ServiceID: serviceID.String(),
				BranchID:  invoice.BranchID.String(),
				Status:    string(invoice.PaymentStatus),
			}.ToMap(),
		}); err != nil {
			return err
		}

		created = invoice
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordInvoiceCreated(ctx, "service")
	}
	s.emitAudit(ctx, "invoice.create", created.ID, map[string]any{
		"invoice_number": created.InvoiceNumber,
		"service_id":     req.ServiceID,
		"total_amount":   created.TotalAmount,
		"is_warranty":    created.IsWarrantyInvoice,
	})
	s.renderPrimary(ctx, &created)

	return created, nil
}

func (s *Service) CreateStandalone(ctx context.Context, req domain.CreateStandaloneRequest) (domain.Invoice, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Invoice{}, domain.ErrInvalidCompany
	}

	customerID, err := s.parseID(req.CustomerID)
	if err != nil {
		return domain.Invoice{}, err
	}
	branchID, err := s.parseID(req.BranchID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if len(req.Items) == 0 {
		return domain.Invoice{}, domain.ErrMissingItems
	}
	if req.TotalAmount <= 0 || req.PaidAmount < 0 {
		return domain.Invoice{}, domain.ErrInvalidAmount
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.Description) == "" || item.Quantity <= 0 || item.UnitPrice < 0 {
			return domain.Invoice{}, domain.ErrInvalidAmount
		}
	}

	var created domain.Invoice
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if ok, err := s.repo.CustomerExists(ctx, tx, companyID, customerID); err != nil {
			return err
		} else if !ok {
			return domain.ErrCustomerNotFound
		}
		if ok, err := s.repo.BranchExists(ctx, tx, companyID, branchID); err != nil {
			return err
		} else if !ok {
			return domain.ErrBranchNotFound
		}

		number, err := s.numbering.NextInvoiceNumber(ctx, tx, companyID, branchID)
		if err != nil {
			if err == numbering.ErrUnknownBranch {
				return domain.ErrBranchNotFound
			}
			return err
		}

		totals := domain.TotalsFromAmounts(req.TotalAmount, req.PaidAmount)
		now := s.clock.Now().UTC()

		invoice := domain.Invoice{
			ID:            s.genID.Generate(),
			CompanyID:     companyID,
			BranchID:      branchID,
			CustomerID:    &customerID,
			InvoiceNumber: number,
			TotalAmount:   totals.TotalAmount,
			PaidAmount:    totals.PaidAmount,
			BalanceAmount: totals.BalanceAmount,
			PaymentStatus: totals.PaymentStatus,
			Notes:         strings.TrimSpace(req.Notes),
			Metadata:      datatypes.JSONMap{},
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		if _, err := s.repo.Insert(ctx, tx, &invoice); err != nil {
			return err
		}

		items := make([]domain.InvoiceItem, 0, len(req.Items))
		for _, line := range req.Items {
			amount := line.Amount
			if amount == 0 {
				amount = line.Quantity * line.UnitPrice
			}
			item := domain.InvoiceItem{
				ID:          s.genID.Generate(),
				CompanyID:   companyID,
				InvoiceID:   invoice.ID,
				Description: strings.TrimSpace(line.Description),
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				Amount:      amount,
				CreatedAt:   now,
			}
			if catalogID := strings.TrimSpace(line.CatalogItemID); catalogID != "" {
				id, err := snowflake.ParseString(catalogID)
				if err != nil {
					return domain.ErrInvalidID
				}
				item.CatalogItemID = &id
			}
			items = append(items, item)
		}
		if err := s.repo.InsertItems(ctx, tx, items); err != nil {
			return err
		}

		if err := s.publishTx(ctx, tx, events.Event{
			CompanyID: companyID,
			Type:      events.EventInvoiceCreatedStandalone,
			DedupeKey: events.EventInvoiceCreatedStandalone + ":" + invoice.ID.String(),
			Payload: events.InvoicePayload{
				InvoiceID: invoice.ID.String(),
				BranchID:  branchID.String(),
				Status:    string(invoice.PaymentStatus),
			}.ToMap(),
		}); err != nil {
			return err
		}

		created = invoice
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordInvoiceCreated(ctx, "standalone")
	}
	s.emitAudit(ctx, "invoice.create", created.ID, map[string]any{
		"invoice_number": created.InvoiceNumber,
		"customer_id":    req.CustomerID,
		"total_amount":   created.TotalAmount,
	})
	s.renderPrimary(ctx, &created)

	return created, nil
}

func (s *Service) RecordPayment(ctx context.Context, req domain.RecordPaymentRequest) (domain.RecordPaymentResponse, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.RecordPaymentResponse{}, domain.ErrInvalidCompany
	}

	invoiceID, err := s.parseID(req.InvoiceID)
	if err != nil {
		return domain.RecordPaymentResponse{}, err
	}
	if req.Amount <= 0 {
		return domain.RecordPaymentResponse{}, domain.ErrInvalidAmount
	}
	methodID, err := snowflake.ParseString(strings.TrimSpace(req.PaymentMethodID))
	if err != nil || methodID == 0 {
		return domain.RecordPaymentResponse{}, domain.ErrPaymentMethodNotFound
	}

	var resp domain.RecordPaymentResponse
	err = s.db.Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByIDForUpdate(ctx, tx, companyID, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrInvoiceNotFound
		}

		if ok, err := s.repo.PaymentMethodExists(ctx, tx, companyID, methodID); err != nil {
			return err
		} else if !ok {
			return domain.ErrPaymentMethodNotFound
		}

		if req.Amount > invoice.BalanceAmount {
			return domain.ErrOverpayment
		}

		now := s.clock.Now().UTC()
		payment := domain.Payment{
			ID:              s.genID.Generate(),
			CompanyID:       companyID,
			InvoiceID:       invoice.ID,
			PaymentMethodID: methodID,
			Amount:          req.Amount,
			Notes:           strings.TrimSpace(req.Notes),
			PaidAt:          now,
			CreatedAt:       now,
		}
		if txnID := strings.TrimSpace(req.TransactionID); txnID != "" {
			payment.TransactionID = &txnID
		}
		if err := s.repo.InsertPayment(ctx, tx, &payment); err != nil {
			return err
		}

		totals := domain.TotalsFromAmounts(invoice.TotalAmount, invoice.PaidAmount+req.Amount)
		wasPaid := invoice.PaymentStatus == domain.PaymentStatusPaid
		invoice.PaidAmount = totals.PaidAmount
		invoice.BalanceAmount = totals.BalanceAmount
		invoice.PaymentStatus = totals.PaymentStatus
		invoice.UpdatedAt = now
		if err := s.repo.UpdateAmounts(ctx, tx, invoice); err != nil {
			return err
		}

		if err := s.publishTx(ctx, tx, events.Event{
			CompanyID: companyID,
			Type:      events.EventInvoicePaymentRecorded,
			DedupeKey: events.EventInvoicePaymentRecorded + ":" + payment.ID.String(),
			Payload: events.PaymentPayload{
				InvoiceID: invoice.ID.String(),
				PaymentID: payment.ID.String(),
				Amount:    payment.Amount,
				Status:    string(invoice.PaymentStatus),
			}.ToMap(),
		}); err != nil {
			return err
		}
		if !wasPaid && invoice.PaymentStatus == domain.PaymentStatusPaid {
			if err := s.publishTx(ctx, tx, events.Event{
				CompanyID: companyID,
				Type:      events.EventInvoicePaid,
				DedupeKey: events.EventInvoicePaid + ":" + invoice.ID.String(),
				Payload: events.InvoicePayload{
					InvoiceID: invoice.ID.String(),
					BranchID:  invoice.BranchID.String(),
					Status:    string(invoice.PaymentStatus),
				}.ToMap(),
			}); err != nil {
				return err
			}
		}

		resp = domain.RecordPaymentResponse{Payment: payment, Invoice: *invoice}
		return nil
	})
	if err != nil {
		return domain.RecordPaymentResponse{}, err
	}

	s.renderReceipt(ctx, &resp.Invoice, &resp.Payment)

	if s.metrics != nil {
		s.metrics.RecordPayment(ctx, string(resp.Invoice.PaymentStatus))
	}
	s.emitAudit(ctx, "invoice.record_payment", resp.Invoice.ID, map[string]any{
		"payment_id": resp.Payment.ID.String(),
		"amount":     resp.Payment.Amount,
		"status":     string(resp.Invoice.PaymentStatus),
	})

	return resp, nil
}

func (s *Service) UpdateAmounts(ctx context.Context, req domain.UpdateAmountsRequest) (domain.Invoice, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Invoice{}, domain.ErrInvalidCompany
	}

	invoiceID, err := s.parseID(req.InvoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if req.TotalAmount == nil && req.PaidAmount == nil {
		return domain.Invoice{}, domain.ErrInvalidAmount
	}
	if (req.TotalAmount != nil && *req.TotalAmount < 0) || (req.PaidAmount != nil && *req.PaidAmount < 0) {
		return domain.Invoice{}, domain.ErrInvalidAmount
	}

	var updated domain.Invoice
	err = s.db.Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByIDForUpdate(ctx, tx, companyID, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrInvoiceNotFound
		}

		total := invoice.TotalAmount
		paid := invoice.PaidAmount
		if req.TotalAmount != nil {
			total = *req.TotalAmount
		}
		if req.PaidAmount != nil {
			paid = *req.PaidAmount
		}

		totals := domain.TotalsFromAmounts(total, paid)
		invoice.TotalAmount = totals.TotalAmount
		invoice.PaidAmount = totals.PaidAmount
		invoice.BalanceAmount = totals.BalanceAmount
		invoice.PaymentStatus = totals.PaymentStatus
		invoice.UpdatedAt = s.clock.Now().UTC()
		if err := s.repo.UpdateAmounts(ctx, tx, invoice); err != nil {
			return err
		}

		updated = *invoice
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	s.emitAudit(ctx, "invoice.update", updated.ID, map[string]any{
		"total_amount": updated.TotalAmount,
		"paid_amount":  updated.PaidAmount,
		"status":       string(updated.PaymentStatus),
	})

	return updated, nil
}

func (s *Service) SyncFromService(ctx context.Context, invoiceID string) (domain.Invoice, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Invoice{}, domain.ErrInvalidCompany
	}

	id, err := s.parseID(invoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}

	var synced domain.Invoice
	err = s.db.Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByIDForUpdate(ctx, tx, companyID, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrInvoiceNotFound
		}
		if invoice.ServiceID == nil {
			return domain.ErrNotServiceInvoice
		}

		snapshot, err := s.repairRepo.GetSnapshot(ctx, tx, companyID, *invoice.ServiceID)
		if err != nil {
			return err
		}
		if snapshot == nil {
			return domain.ErrServiceNotFound
		}

		// The ledger, not the stored paid amount, is the source of truth
		// during reconciliation.
		paid, err := s.repo.SumPayments(ctx, tx, invoice.ID)
		if err != nil {
			return err
		}

		// Reconciliation always uses the flat job cost; the warranty split
		// applies only at creation.
		totals := domain.TotalsFromAmounts(snapshot.EffectiveCost(), paid)
		invoice.TotalAmount = totals.TotalAmount
		invoice.PaidAmount = totals.PaidAmount
		invoice.BalanceAmount = totals.BalanceAmount
		invoice.PaymentStatus = totals.PaymentStatus
		invoice.UpdatedAt = s.clock.Now().UTC()
		if err := s.repo.UpdateAmounts(ctx, tx, invoice); err != nil {
			return err
		}

		if err := s.publishTx(ctx, tx, events.Event{
			CompanyID: companyID,
			Type:      events.EventInvoiceSynced,
			DedupeKey: events.EventInvoiceSynced + ":" + invoice.ID.String() + ":" + s.genID.Generate().String(),
			Payload: events.InvoicePayload{
				InvoiceID: invoice.ID.String(),
				ServiceID: invoice.ServiceID.String(),
				Status:    string(invoice.PaymentStatus),
			}.ToMap(),
		}); err != nil {
			return err
		}

		synced = *invoice
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	s.emitAudit(ctx, "invoice.sync", synced.ID, map[string]any{
		"total_amount": synced.TotalAmount,
		"paid_amount":  synced.PaidAmount,
		"status":       string(synced.PaymentStatus),
	})

	return synced, nil
}

func (s *Service) Delete(ctx context.Context, invoiceID string) error {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.ErrInvalidCompany
	}

	id, err := s.parseID(invoiceID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByIDForUpdate(ctx, tx, companyID, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrInvoiceNotFound
		}

		if err := s.repo.DeletePayments(ctx, tx, invoice.ID); err != nil {
			return err
		}
		if err := s.repo.DeleteItems(ctx, tx, invoice.ID); err != nil {
			return err
		}
		if _, err := s.repo.Delete(ctx, tx, companyID, invoice.ID); err != nil {
			return err
		}

		return s.publishTx(ctx, tx, events.Event{
			CompanyID: companyID,
			Type:      events.EventInvoiceDeleted,
			DedupeKey: events.EventInvoiceDeleted + ":" + invoice.ID.String(),
			Payload: events.InvoicePayload{
				InvoiceID: invoice.ID.String(),
				BranchID:  invoice.BranchID.String(),
			}.ToMap(),
		})
	})
	if err != nil {
		return err
	}

	s.emitAudit(ctx, "invoice.delete", id, nil)
	return nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetInvoiceRequest) (domain.InvoiceDetail, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.InvoiceDetail{}, domain.ErrInvalidCompany
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.InvoiceDetail{}, err
	}

	invoice, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return domain.InvoiceDetail{}, err
	}
	if invoice == nil {
		return domain.InvoiceDetail{}, domain.ErrInvoiceNotFound
	}

	items, err := s.repo.ListItems(ctx, s.db, invoice.ID)
	if err != nil {
		return domain.InvoiceDetail{}, err
	}
	payments, err := s.repo.ListPayments(ctx, s.db, invoice.ID)
	if err != nil {
		return domain.InvoiceDetail{}, err
	}

	return domain.InvoiceDetail{Invoice: *invoice, Items: items, Payments: payments}, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.ListInvoiceResponse{}, domain.ErrInvalidCompany
	}

	filter := domain.ListInvoiceFilter{
		CreatedFrom: req.CreatedFrom,
		CreatedTo:   req.CreatedTo,
	}
	if status := strings.TrimSpace(req.Status); status != "" {
		switch domain.PaymentStatus(status) {
		case domain.PaymentStatusPending, domain.PaymentStatusPartial, domain.PaymentStatusPaid:
			filter.Status = domain.PaymentStatus(status)
		default:
			return domain.ListInvoiceResponse{}, domain.ErrInvalidID
		}
	}
	if req.CustomerID != "" {
		id, err := s.parseID(req.CustomerID)
		if err != nil {
			return domain.ListInvoiceResponse{}, err
		}
		filter.CustomerID = id
	}
	if req.BranchID != "" {
		id, err := s.parseID(req.BranchID)
		if err != nil {
			return domain.ListInvoiceResponse{}, err
		}
		filter.BranchID = id
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	rows, err := s.repo.List(ctx, s.db, companyID, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(rows, pageSize, func(invoice *domain.Invoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        invoice.ID.String(),
			CreatedAt: invoice.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(rows) > int(pageSize) {
		rows = rows[:pageSize]
	}

	invoices := make([]domain.Invoice, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		invoices = append(invoices, *row)
	}

	resp := domain.ListInvoiceResponse{Invoices: invoices}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) publishTx(ctx context.Context, tx *gorm.DB, event events.Event) error {
	if s.outbox == nil {
		return nil
	}
	return s.outbox.PublishTx(ctx, tx, event)
}

func (s *Service) emitAudit(ctx context.Context, action string, invoiceID snowflake.ID, metadata map[string]any) {
	if s.audit == nil {
		return
	}
	targetID := invoiceID.String()
	err := s.audit.Record(ctx, auditdomain.Entry{
		Action:     action,
		TargetType: "invoice",
		TargetID:   &targetID,
		Metadata:   metadata,
	})
	if err != nil {
		s.log.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
