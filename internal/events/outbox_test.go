package events

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

var eventsDBSeq int

func setupEventsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	eventsDBSeq++
	dsn := fmt.Sprintf("file:eventsdb_%d?mode=memory&cache=shared", eventsDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE billing_events (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			event_type TEXT NOT NULL,
			payload TEXT NOT NULL DEFAULT '{}',
			dedupe_key TEXT,
			published BOOLEAN NOT NULL DEFAULT false,
			published_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL
		)`,
	).Error; err != nil {
		t.Fatalf("create billing_events: %v", err)
	}
	if err := db.Exec(
		`CREATE UNIQUE INDEX idx_billing_events_dedupe
		 ON billing_events (company_id, dedupe_key)`,
	).Error; err != nil {
		t.Fatalf("create dedupe index: %v", err)
	}
	return db
}

func newEventsNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return node
}

func TestOutboxPublishDedupe(t *testing.T) {
	db := setupEventsTestDB(t)
	outbox := NewOutbox(db, newEventsNode(t))
	ctx := context.Background()

	event := Event{
		CompanyID: 1,
		Type:      EventInvoicePaid,
		Payload:   InvoicePayload{InvoiceID: "42"}.ToMap(),
		DedupeKey: "invoice.paid:42",
	}
	if err := outbox.Publish(ctx, event); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := outbox.Publish(ctx, event); err != nil {
		t.Fatalf("duplicate publish should be a no-op, got %v", err)
	}

	var count int64
	if err := db.Raw(`SELECT COUNT(1) FROM billing_events`).Scan(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 event after dedupe, got %d", count)
	}
}

func TestOutboxRejectsInvalidEvents(t *testing.T) {
	db := setupEventsTestDB(t)
	outbox := NewOutbox(db, newEventsNode(t))
	ctx := context.Background()

	if err := outbox.Publish(ctx, Event{Type: EventInvoiceCreated}); err == nil {
		t.Fatal("expected error for missing company id")
	}
	if err := outbox.Publish(ctx, Event{CompanyID: 1}); err == nil {
		t.Fatal("expected error for missing event type")
	}
	if err := outbox.PublishTx(ctx, nil, Event{CompanyID: 1, Type: EventInvoiceCreated}); err == nil {
		t.Fatal("expected error for nil transaction")
	}
}

type recordingHandler struct {
	types  []string
	events []StoredEvent
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) Handle(_ context.Context, event StoredEvent) error {
	h.events = append(h.events, event)
	return nil
}

func TestDispatcherMarksPublishedAndInvokesHandlers(t *testing.T) {
	db := setupEventsTestDB(t)
	outbox := NewOutbox(db, newEventsNode(t))
	ctx := context.Background()

	if err := outbox.Publish(ctx, Event{
		CompanyID: 7,
		Type:      EventInvoicePaid,
		Payload:   InvoicePayload{InvoiceID: "99", Status: "PAID"}.ToMap(),
		DedupeKey: "invoice.paid:99",
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	handler := &recordingHandler{types: []string{EventInvoicePaid}}
	dispatcher := NewDispatcher(DispatcherParams{
		DB:       db,
		Log:      zap.NewNop(),
		Clock:    clock.NewFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)),
		Handlers: []Handler{handler},
	})

	if err := dispatcher.RunOnce(ctx); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if len(handler.events) != 1 {
		t.Fatalf("expected 1 handled event, got %d", len(handler.events))
	}
	if got := handler.events[0].Payload["invoice_id"]; got != "99" {
		t.Fatalf("unexpected payload invoice_id: %v", got)
	}

	// A second drain must not re-deliver.
	if err := dispatcher.RunOnce(ctx); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(handler.events) != 1 {
		t.Fatalf("event was re-delivered, handled %d times", len(handler.events))
	}
}
