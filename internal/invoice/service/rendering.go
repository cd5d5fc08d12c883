package service

import (
	"context"

	"github.com/fixbench/fixbench/internal/companyctx"
	"github.com/fixbench/fixbench/internal/config"
	"github.com/fixbench/fixbench/internal/invoice/domain"
	"github.com/fixbench/fixbench/internal/providers/pdf"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RenderDocument regenerates the printable document on demand. The A4
// render refreshes the stored document reference; other formats are
// one-off outputs and leave it untouched.
func (s *Service) RenderDocument(ctx context.Context, req domain.RenderDocumentRequest) (string, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return "", domain.ErrInvalidCompany
	}
	if s.renderer == nil || s.docs == nil {
		return "", domain.ErrInvalidFormat
	}

	format := req.Format
	switch format {
	case "":
		format = pdf.FormatA4
	case pdf.FormatA4, pdf.FormatThermal:
	default:
		return "", domain.ErrInvalidFormat
	}

	id, err := s.parseID(req.InvoiceID)
	if err != nil {
		return "", err
	}

	invoice, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return "", err
	}
	if invoice == nil {
		return "", domain.ErrInvoiceNotFound
	}

	url, key, err := s.renderAndStore(ctx, invoice, format)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordDocumentRender(ctx, format, false)
		}
		return "", err
	}
	if s.metrics != nil {
		s.metrics.RecordDocumentRender(ctx, format, true)
	}

	if format == pdf.FormatA4 {
		if err := s.repo.UpdateDocument(ctx, s.db, companyID, invoice.ID, key, url); err != nil {
			return "", err
		}
	}
	return url, nil
}

// renderPrimary is the post-commit render attempted on every create. A
// failed render never fails the invoice; the document can be regenerated
// later.
func (s *Service) renderPrimary(ctx context.Context, invoice *domain.Invoice) {
	if s.renderer == nil || s.docs == nil {
		return
	}

	url, key, err := s.renderAndStore(ctx, invoice, pdf.FormatA4)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordDocumentRender(ctx, pdf.FormatA4, false)
		}
		s.log.Warn("invoice document render failed",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err),
		)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordDocumentRender(ctx, pdf.FormatA4, true)
	}

	if err := s.repo.UpdateDocument(ctx, s.db, invoice.CompanyID, invoice.ID, key, url); err != nil {
		s.log.Warn("invoice document reference update failed",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err),
		)
		return
	}
	invoice.DocumentKey = &key
	invoice.DocumentURL = &url
}

// renderReceipt is the post-commit render attempted after every recorded
// payment. As with the invoice render, a failed receipt never fails the
// payment; the row simply keeps a NULL receipt reference.
func (s *Service) renderReceipt(ctx context.Context, invoice *domain.Invoice, payment *domain.Payment) {
	if s.renderer == nil || s.docs == nil {
		return
	}

	doc, err := s.buildDocument(ctx, invoice)
	if err != nil {
		s.log.Warn("payment receipt render failed",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
		return
	}

	settings := config.DefaultBillingSettings()
	if s.settings != nil {
		settings = s.settings.Current()
	}

	var method partyRow
	if err := s.db.WithContext(ctx).Raw(
		`SELECT name FROM payment_methods WHERE company_id = ? AND id = ?`,
		invoice.CompanyID, payment.PaymentMethodID,
	).Scan(&method).Error; err != nil {
		s.log.Warn("payment receipt render failed",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
		return
	}

	data, err := s.renderer.RenderReceipt(ctx, pdf.FormatA4, pdf.ReceiptDocument{
		InvoiceDocument: doc,
		PaymentAmount:   pdf.FormatAmount(settings.Currency, payment.Amount),
		PaymentMethod:   method.Name,
		PaidDate:        payment.PaidAt.Format("02 Jan 2006"),
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordDocumentRender(ctx, "receipt", false)
		}
		s.log.Warn("payment receipt render failed",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
		return
	}

	key := uuid.NewString() + ".pdf"
	url, err := s.docs.Save(ctx, key, data)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordDocumentRender(ctx, "receipt", false)
		}
		s.log.Warn("payment receipt store failed",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordDocumentRender(ctx, "receipt", true)
	}

	if err := s.repo.UpdatePaymentReceipt(ctx, s.db, invoice.CompanyID, payment.ID, key, url); err != nil {
		s.log.Warn("payment receipt reference update failed",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err),
		)
		return
	}
	payment.ReceiptKey = &key
	payment.ReceiptURL = &url
}

func (s *Service) renderAndStore(ctx context.Context, invoice *domain.Invoice, format string) (url, key string, err error) {
	doc, err := s.buildDocument(ctx, invoice)
	if err != nil {
		return "", "", err
	}

	data, err := s.renderer.RenderInvoice(ctx, format, doc)
	if err != nil {
		return "", "", err
	}

	key = uuid.NewString() + ".pdf"
	url, err = s.docs.Save(ctx, key, data)
	if err != nil {
		return "", "", err
	}
	return url, key, nil
}

type partyRow struct {
	Name    string `gorm:"column:name"`
	Address string `gorm:"column:address"`
	Phone   string `gorm:"column:phone"`
}

func (s *Service) buildDocument(ctx context.Context, invoice *domain.Invoice) (pdf.InvoiceDocument, error) {
	settings := config.DefaultBillingSettings()
	if s.settings != nil {
		settings = s.settings.Current()
	}

	var company partyRow
	if err := s.db.WithContext(ctx).Raw(
		`SELECT name FROM companies WHERE id = ?`, invoice.CompanyID,
	).Scan(&company).Error; err != nil {
		return pdf.InvoiceDocument{}, err
	}

	var branch partyRow
	if err := s.db.WithContext(ctx).Raw(
		`SELECT name, address, phone FROM branches WHERE company_id = ? AND id = ?`,
		invoice.CompanyID, invoice.BranchID,
	).Scan(&branch).Error; err != nil {
		return pdf.InvoiceDocument{}, err
	}

	var customer partyRow
	if invoice.CustomerID != nil {
		if err := s.db.WithContext(ctx).Raw(
			`SELECT name, phone FROM customers WHERE company_id = ? AND id = ?`,
			invoice.CompanyID, *invoice.CustomerID,
		).Scan(&customer).Error; err != nil {
			return pdf.InvoiceDocument{}, err
		}
	}

	items, err := s.repo.ListItems(ctx, s.db, invoice.ID)
	if err != nil {
		return pdf.InvoiceDocument{}, err
	}

	currency := settings.Currency
	lines := make([]pdf.DocumentLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, pdf.DocumentLine{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   pdf.FormatAmount(currency, item.UnitPrice),
			Amount:      pdf.FormatAmount(currency, item.Amount),
		})
	}
	if len(lines) == 0 {
		description := "Repair charges"
		if invoice.IsWarrantyInvoice {
			description = "Repair charges (warranty adjusted)"
		}
		lines = append(lines, pdf.DocumentLine{
			Description: description,
			Quantity:    1,
			UnitPrice:   pdf.FormatAmount(currency, invoice.TotalAmount),
			Amount:      pdf.FormatAmount(currency, invoice.TotalAmount),
		})
	}

	return pdf.InvoiceDocument{
		CompanyName:   company.Name,
		BranchName:    branch.Name,
		BranchAddress: branch.Address,
		BranchPhone:   branch.Phone,
		InvoiceNumber: invoice.InvoiceNumber,
		IssueDate:     invoice.CreatedAt.Format("02 Jan 2006"),
		IsWarranty:    invoice.IsWarrantyInvoice,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		Lines:         lines,
		Total:         pdf.FormatAmount(currency, invoice.TotalAmount),
		Paid:          pdf.FormatAmount(currency, invoice.PaidAmount),
		Balance:       pdf.FormatAmount(currency, invoice.BalanceAmount),
		Status:        string(invoice.PaymentStatus),
		Notes:         invoice.Notes,
	}, nil
}
