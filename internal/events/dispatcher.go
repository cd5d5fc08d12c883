package events

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dispatchBatchSize = 50

// Handler reacts to billing events drained from the outbox. Delivery is
// fire-and-forget: a failing handler is logged, not retried.
type Handler interface {
	EventTypes() []string
	Handle(ctx context.Context, event StoredEvent) error
}

// StoredEvent is an outbox row handed to handlers.
type StoredEvent struct {
	ID        snowflake.ID
	CompanyID snowflake.ID
	Type      string
	Payload   map[string]any
	CreatedAt time.Time
}

type eventRow struct {
	ID        snowflake.ID      `gorm:"column:id"`
	CompanyID snowflake.ID      `gorm:"column:company_id"`
	EventType string            `gorm:"column:event_type"`
	Payload   datatypes.JSONMap `gorm:"column:payload"`
	CreatedAt time.Time         `gorm:"column:created_at"`
}

// DispatcherConfig controls the outbox polling loop.
type DispatcherConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

func (c DispatcherConfig) withDefaults() DispatcherConfig {
	if c.PollInterval <= 0 {
		c.PollInterval = 5 * time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = dispatchBatchSize
	}
	return c
}

type DispatcherParams struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Handlers []Handler        `group:"event.handlers"`
	Config   DispatcherConfig `optional:"true"`
}

// Dispatcher drains unpublished outbox rows and fans them out to the
// registered handlers.
type Dispatcher struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	cfg      DispatcherConfig
	handlers map[string][]Handler
}

func NewDispatcher(p DispatcherParams) *Dispatcher {
	handlers := make(map[string][]Handler)
	for _, handler := range p.Handlers {
		if handler == nil {
			continue
		}
		for _, eventType := range handler.EventTypes() {
			handlers[eventType] = append(handlers[eventType], handler)
		}
	}
	return &Dispatcher{
		db:       p.DB,
		log:      p.Log.Named("events.dispatcher"),
		clock:    p.Clock,
		cfg:      p.Config.withDefaults(),
		handlers: handlers,
	}
}

// RunOnce drains at most one batch of unpublished events.
func (d *Dispatcher) RunOnce(ctx context.Context) error {
	var rows []eventRow
	err := d.db.WithContext(ctx).Raw(
		`SELECT id, company_id, event_type, payload, created_at
		 FROM billing_events
		 WHERE published = false
		 ORDER BY created_at ASC, id ASC
		 LIMIT ?`,
		d.cfg.BatchSize,
	).Scan(&rows).Error
	if err != nil {
		return err
	}

	for _, row := range rows {
		if err := d.dispatch(ctx, row); err != nil {
			d.log.Error("failed to dispatch event",
				zap.String("event_id", row.ID.String()),
				zap.String("event_type", row.EventType),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (d *Dispatcher) dispatch(ctx context.Context, row eventRow) error {
	// Mark published before invoking handlers: delivery is at-most-once,
	// a crashed handler must not replay the event.
	result := d.db.WithContext(ctx).Exec(
		`UPDATE billing_events
		 SET published = true, published_at = ?
		 WHERE id = ? AND published = false`,
		d.clock.Now().UTC(),
		row.ID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return nil
	}

	event := StoredEvent{
		ID:        row.ID,
		CompanyID: row.CompanyID,
		Type:      row.EventType,
		Payload:   map[string]any(row.Payload),
		CreatedAt: row.CreatedAt,
	}
	for _, handler := range d.handlers[row.EventType] {
		if err := handler.Handle(ctx, event); err != nil {
			d.log.Warn("event handler failed",
				zap.String("event_id", row.ID.String()),
				zap.String("event_type", row.EventType),
				zap.Error(err),
			)
		}
	}
	return nil
}

// RunForever polls the outbox until the context is cancelled.
func (d *Dispatcher) RunForever(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.RunOnce(ctx); err != nil {
				d.log.Error("outbox drain failed", zap.Error(err))
			}
		}
	}
}
