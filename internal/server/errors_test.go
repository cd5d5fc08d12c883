package server

import (
	"net/http"
	"testing"

	"github.com/fixbench/fixbench/internal/authorization"
	branchdomain "github.com/fixbench/fixbench/internal/branch/domain"
	customerdomain "github.com/fixbench/fixbench/internal/customer/domain"
	invoicedomain "github.com/fixbench/fixbench/internal/invoice/domain"
)

func TestMapErrorStatuses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"overpayment", invoicedomain.ErrOverpayment, http.StatusBadRequest},
		{"mixed mode", invoicedomain.ErrMixedMode, http.StatusBadRequest},
		{"missing items", invoicedomain.ErrMissingItems, http.StatusBadRequest},
		{"invalid format", invoicedomain.ErrInvalidFormat, http.StatusBadRequest},
		{"sync on standalone", invoicedomain.ErrNotServiceInvoice, http.StatusBadRequest},
		{"invoice exists", invoicedomain.ErrInvoiceExists, http.StatusConflict},
		{"duplicate branch code", branchdomain.ErrDuplicateCode, http.StatusConflict},
		{"invoice not found", invoicedomain.ErrInvoiceNotFound, http.StatusNotFound},
		{"customer not found", customerdomain.ErrNotFound, http.StatusNotFound},
		{"forbidden", authorization.ErrForbidden, http.StatusForbidden},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"unknown", ErrInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := mapError(tc.err)
			if status != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, status)
			}
		})
	}
}

func TestMapErrorValidationPayload(t *testing.T) {
	status, payload := mapError(newValidationError("amount", "invalid_amount", "invalid amount"))
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if payload.Type != "validation_error" {
		t.Fatalf("expected validation_error, got %s", payload.Type)
	}
	if len(payload.Errors) != 1 || payload.Errors[0].Code != "invalid_amount" {
		t.Fatalf("unexpected errors: %+v", payload.Errors)
	}
}

func TestSplitActor(t *testing.T) {
	actorType, actorID, err := splitActor("system")
	if err != nil || actorType != "system" || actorID != "" {
		t.Fatalf("unexpected system actor: %s %s %v", actorType, actorID, err)
	}

	actorType, actorID, err = splitActor("user:1234567890123456789")
	if err != nil || actorType != "user" || actorID != "1234567890123456789" {
		t.Fatalf("unexpected user actor: %s %s %v", actorType, actorID, err)
	}

	if _, _, err := splitActor("robot:1"); err == nil {
		t.Fatal("expected error for unknown actor scheme")
	}
	if _, _, err := splitActor("user:abc!"); err == nil {
		t.Fatal("expected error for malformed user id")
	}
}
