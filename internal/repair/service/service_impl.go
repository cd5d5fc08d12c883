package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/internal/clock"
	"github.com/fixbench/fixbench/internal/companyctx"
	"github.com/fixbench/fixbench/internal/events"
	"github.com/fixbench/fixbench/internal/repair/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Clock  clock.Clock
	Repo   domain.Repository
	Outbox *events.Outbox `optional:"true"`
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	clock  clock.Clock
	repo   domain.Repository
	outbox *events.Outbox
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("repair.service"),
		clock:  p.Clock,
		repo:   p.Repo,
		outbox: p.Outbox,
	}
}

func (s *Service) GetSnapshot(ctx context.Context, serviceID string) (domain.ServiceSnapshot, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.ServiceSnapshot{}, domain.ErrInvalidCompany
	}

	id, err := s.parseID(serviceID)
	if err != nil {
		return domain.ServiceSnapshot{}, err
	}

	snapshot, err := s.repo.GetSnapshot(ctx, s.db, companyID, id)
	if err != nil {
		return domain.ServiceSnapshot{}, err
	}
	if snapshot == nil {
		return domain.ServiceSnapshot{}, domain.ErrNotFound
	}
	return *snapshot, nil
}

func (s *Service) UpdateCost(ctx context.Context, req domain.UpdateCostRequest) (domain.ServiceSnapshot, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.ServiceSnapshot{}, domain.ErrInvalidCompany
	}

	id, err := s.parseID(req.ServiceID)
	if err != nil {
		return domain.ServiceSnapshot{}, err
	}
	if req.ActualCost < 0 {
		return domain.ServiceSnapshot{}, domain.ErrInvalidCost
	}

	var snapshot *domain.ServiceSnapshot
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updated, err := s.repo.UpdateActualCost(ctx, tx, companyID, id, req.ActualCost, s.clock.Now().UTC())
		if err != nil {
			return err
		}
		if !updated {
			return domain.ErrNotFound
		}
		snapshot, err = s.repo.GetSnapshot(ctx, tx, companyID, id)
		if err != nil {
			return err
		}
		if snapshot == nil {
			return domain.ErrNotFound
		}
		if s.outbox != nil {
			return s.outbox.PublishTx(ctx, tx, events.Event{
				CompanyID: companyID,
				Type:      events.EventServiceCostUpdated,
				Payload: map[string]any{
					"service_id":  id.String(),
					"actual_cost": req.ActualCost,
				},
			})
		}
		return nil
	})
	if err != nil {
		return domain.ServiceSnapshot{}, err
	}

	return *snapshot, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
