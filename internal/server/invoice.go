package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/internal/auditcontext"
	invoicedomain "github.com/fixbench/fixbench/internal/invoice/domain"
	"github.com/gin-gonic/gin"
)

type createInvoiceItemRequest struct {
	CatalogItemID string `json:"catalog_item_id"`
	Description   string `json:"description"`
	Quantity      int64  `json:"quantity"`
	UnitPrice     int64  `json:"unit_price"`
	Amount        int64  `json:"amount"`
}

// createInvoiceRequest carries both creation modes. Exactly one of
// service_id or the standalone fields must be present.
type createInvoiceRequest struct {
	ServiceID   string                     `json:"service_id"`
	CustomerID  string                     `json:"customer_id"`
	BranchID    string                     `json:"branch_id"`
	Items       []createInvoiceItemRequest `json:"items"`
	TotalAmount int64                      `json:"total_amount"`
	PaidAmount  int64                      `json:"paid_amount"`
	Notes       string                     `json:"notes"`
}

// @Summary      Create Invoice
// @Description  Raise an invoice from a repair job or as a standalone sale
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body createInvoiceRequest true "Create Invoice Request"
// @Success      200  {object}  invoicedomain.Invoice
// @Router       /invoices [post]
func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	serviceID := strings.TrimSpace(req.ServiceID)
	standalone := strings.TrimSpace(req.CustomerID) != "" ||
		strings.TrimSpace(req.BranchID) != "" ||
		len(req.Items) > 0

	if (serviceID != "") == standalone {
		AbortWithError(c, invoicedomain.ErrMixedMode)
		return
	}

	ctx := c.Request.Context()
	if serviceID != "" {
		ctx = auditcontext.WithServiceID(ctx, serviceID)
		resp, err := s.invoiceSvc.CreateFromService(ctx, invoicedomain.CreateFromServiceRequest{
			ServiceID: serviceID,
			Notes:     strings.TrimSpace(req.Notes),
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp})
		return
	}

	items := make([]invoicedomain.StandaloneItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, invoicedomain.StandaloneItem{
			CatalogItemID: strings.TrimSpace(item.CatalogItemID),
			Description:   strings.TrimSpace(item.Description),
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			Amount:        item.Amount,
		})
	}

	resp, err := s.invoiceSvc.CreateStandalone(ctx, invoicedomain.CreateStandaloneRequest{
		CustomerID:  strings.TrimSpace(req.CustomerID),
		BranchID:    strings.TrimSpace(req.BranchID),
		Items:       items,
		TotalAmount: req.TotalAmount,
		PaidAmount:  req.PaidAmount,
		Notes:       strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Invoices
// @Description  List invoices with optional status, customer, branch and date filters
// @Tags         invoices
// @Produce      json
// @Param        status       query  string  false  "Payment Status"
// @Param        customer_id  query  string  false  "Customer ID"
// @Param        branch_id    query  string  false  "Branch ID"
// @Param        created_from query  string  false  "Created From"
// @Param        created_to   query  string  false  "Created To"
// @Param        page_token   query  string  false  "Page Token"
// @Param        page_size    query  int     false  "Page Size"
// @Success      200  {object}  invoicedomain.ListInvoiceResponse
// @Router       /invoices [get]
func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		Status      string `form:"status"`
		CustomerID  string `form:"customer_id"`
		BranchID    string `form:"branch_id"`
		CreatedFrom string `form:"created_from"`
		CreatedTo   string `form:"created_to"`
		PageToken   string `form:"page_token"`
		PageSize    int32  `form:"page_size"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	createdFrom, err := parseOptionalTime(query.CreatedFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("created_from", "invalid_created_from", "invalid created_from"))
		return
	}
	createdTo, err := parseOptionalTime(query.CreatedTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("created_to", "invalid_created_to", "invalid created_to"))
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		Status:      strings.TrimSpace(query.Status),
		CustomerID:  strings.TrimSpace(query.CustomerID),
		BranchID:    strings.TrimSpace(query.BranchID),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
		PageSize:    query.PageSize,
		PageToken:   strings.TrimSpace(query.PageToken),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Invoice
// @Description  Get an invoice with its line items and payments
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "Invoice ID"
// @Success      200  {object}  invoicedomain.InvoiceDetail
// @Router       /invoices/{id} [get]
func (s *Server) GetInvoiceByID(c *gin.Context) {
	id, ok := invoiceIDParam(c)
	if !ok {
		return
	}

	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), invoicedomain.GetInvoiceRequest{ID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type recordPaymentRequest struct {
	Amount          int64  `json:"amount"`
	PaymentMethodID string `json:"payment_method_id"`
	TransactionID   string `json:"transaction_id"`
	Notes           string `json:"notes"`
}

// @Summary      Record Payment
// @Description  Append a payment against an invoice and re-derive its state
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id       path  string                true  "Invoice ID"
// @Param        request  body  recordPaymentRequest  true  "Record Payment Request"
// @Success      200  {object}  invoicedomain.RecordPaymentResponse
// @Router       /invoices/{id}/payments [post]
func (s *Server) RecordPayment(c *gin.Context) {
	id, ok := invoiceIDParam(c)
	if !ok {
		return
	}

	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := auditcontext.WithInvoiceID(c.Request.Context(), id)
	resp, err := s.invoiceSvc.RecordPayment(ctx, invoicedomain.RecordPaymentRequest{
		InvoiceID:       id,
		Amount:          req.Amount,
		PaymentMethodID: strings.TrimSpace(req.PaymentMethodID),
		TransactionID:   strings.TrimSpace(req.TransactionID),
		Notes:           strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateInvoiceAmountsRequest struct {
	TotalAmount *int64 `json:"total_amount"`
	PaidAmount  *int64 `json:"paid_amount"`
}

// @Summary      Update Invoice Amounts
// @Description  Override stored amounts and re-derive balance and status
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id       path  string                       true  "Invoice ID"
// @Param        request  body  updateInvoiceAmountsRequest  true  "Update Amounts Request"
// @Success      200  {object}  invoicedomain.Invoice
// @Router       /invoices/{id} [patch]
func (s *Server) UpdateInvoiceAmounts(c *gin.Context) {
	id, ok := invoiceIDParam(c)
	if !ok {
		return
	}

	var req updateInvoiceAmountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := auditcontext.WithInvoiceID(c.Request.Context(), id)
	resp, err := s.invoiceSvc.UpdateAmounts(ctx, invoicedomain.UpdateAmountsRequest{
		InvoiceID:   id,
		TotalAmount: req.TotalAmount,
		PaidAmount:  req.PaidAmount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Sync Invoice
// @Description  Reconcile an invoice against its repair job and payments ledger
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "Invoice ID"
// @Success      200  {object}  invoicedomain.Invoice
// @Router       /invoices/{id}/sync [post]
func (s *Server) SyncInvoice(c *gin.Context) {
	id, ok := invoiceIDParam(c)
	if !ok {
		return
	}

	ctx := auditcontext.WithInvoiceID(c.Request.Context(), id)
	resp, err := s.invoiceSvc.SyncFromService(ctx, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Invoice
// @Description  Delete an invoice with its line items and payments
// @Tags         invoices
// @Param        id  path  string  true  "Invoice ID"
// @Success      204
// @Router       /invoices/{id} [delete]
func (s *Server) DeleteInvoice(c *gin.Context) {
	id, ok := invoiceIDParam(c)
	if !ok {
		return
	}

	ctx := auditcontext.WithInvoiceID(c.Request.Context(), id)
	if err := s.invoiceSvc.Delete(ctx, id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary      Render Invoice Document
// @Description  Regenerate the printable document for an invoice
// @Tags         invoices
// @Produce      json
// @Param        id      path   string  true   "Invoice ID"
// @Param        format  query  string  false  "Document Format (a4 or thermal)"
// @Success      200  {object}  map[string]string
// @Router       /invoices/{id}/render [post]
func (s *Server) RenderInvoiceDocument(c *gin.Context) {
	id, ok := invoiceIDParam(c)
	if !ok {
		return
	}

	ctx := auditcontext.WithInvoiceID(c.Request.Context(), id)
	url, err := s.invoiceSvc.RenderDocument(ctx, invoicedomain.RenderDocumentRequest{
		InvoiceID: id,
		Format:    strings.TrimSpace(c.Query("format")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"document_url": url}})
}

func invoiceIDParam(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := snowflake.ParseString(id); err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return "", false
	}
	return id, true
}
