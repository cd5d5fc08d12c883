package events

// Billing event types emitted through the outbox.
const (
	EventInvoiceCreated           = "invoice.created"
	EventInvoiceCreatedStandalone = "invoice.created.standalone"
	EventInvoicePaymentRecorded   = "invoice.payment_recorded"
	EventInvoicePaid              = "invoice.paid"
	EventInvoiceSynced            = "invoice.synced"
	EventInvoiceDeleted           = "invoice.deleted"
	EventServiceCostUpdated       = "service.cost_updated"
)

// InvoicePayload captures the minimal data handlers need to act on an
// invoice event.
type InvoicePayload struct {
	InvoiceID string `json:"invoice_id"`
	ServiceID string `json:"service_id,omitempty"`
	BranchID  string `json:"branch_id,omitempty"`
	Status    string `json:"status,omitempty"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p InvoicePayload) ToMap() map[string]any {
	payload := map[string]any{
		"invoice_id": p.InvoiceID,
	}
	if p.ServiceID != "" {
		payload["service_id"] = p.ServiceID
	}
	if p.BranchID != "" {
		payload["branch_id"] = p.BranchID
	}
	if p.Status != "" {
		payload["status"] = p.Status
	}
	return payload
}

// PaymentPayload captures the minimal data needed to react to a recorded
// payment.
type PaymentPayload struct {
	InvoiceID string `json:"invoice_id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Method    string `json:"method,omitempty"`
	Status    string `json:"status,omitempty"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p PaymentPayload) ToMap() map[string]any {
	payload := map[string]any{
		"invoice_id": p.InvoiceID,
		"payment_id": p.PaymentID,
		"amount":     p.Amount,
	}
	if p.Method != "" {
		payload["method"] = p.Method
	}
	if p.Status != "" {
		payload["status"] = p.Status
	}
	return payload
}
