package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/internal/clock"
	"github.com/fixbench/fixbench/internal/companyctx"
	"github.com/fixbench/fixbench/internal/paymentmethod/domain"
	"github.com/fixbench/fixbench/pkg/db/option"
	"github.com/fixbench/fixbench/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
	Repo  repository.Repository[domain.PaymentMethod]
}

type Service struct {
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
	repo  repository.Repository[domain.PaymentMethod]
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("paymentmethod.service"),
		clock: p.Clock,
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePaymentMethodRequest) (domain.PaymentMethod, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.PaymentMethod{}, domain.ErrInvalidCompany
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.PaymentMethod{}, domain.ErrInvalidName
	}

	kind := domain.Kind(strings.ToLower(strings.TrimSpace(req.Kind)))
	if !kind.Valid() {
		return domain.PaymentMethod{}, domain.ErrInvalidKind
	}

	now := s.clock.Now().UTC()
	method := domain.PaymentMethod{
		ID:        s.genID.Generate(),
		CompanyID: companyID,
		Name:      name,
		Kind:      kind,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, &method); err != nil {
		return domain.PaymentMethod{}, err
	}
	return method, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdatePaymentMethodRequest) (domain.PaymentMethod, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.PaymentMethod{}, domain.ErrInvalidCompany
	}

	existing, err := s.findOwned(ctx, companyID, req.ID)
	if err != nil {
		return domain.PaymentMethod{}, err
	}

	changes := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.PaymentMethod{}, domain.ErrInvalidName
		}
		existing.Name = name
		changes["name"] = name
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
		changes["is_active"] = *req.IsActive
	}
	if len(changes) == 0 {
		return *existing, nil
	}
	now := s.clock.Now().UTC()
	existing.UpdatedAt = now
	changes["updated_at"] = now

	if err := s.repo.Update(ctx, existing.ID.String(), changes); err != nil {
		return domain.PaymentMethod{}, err
	}
	return *existing, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPaymentMethodRequest) (domain.ListPaymentMethodResponse, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.ListPaymentMethodResponse{}, domain.ErrInvalidCompany
	}

	query := &domain.PaymentMethod{CompanyID: companyID}
	if req.ActiveOnly {
		query.IsActive = true
	}

	items, err := s.repo.Find(ctx, query, option.WithSortBy(option.QuerySortBy{
		Field: "created_at",
		Desc:  true,
	}))
	if err != nil {
		return domain.ListPaymentMethodResponse{}, err
	}

	methods := make([]domain.PaymentMethod, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		methods = append(methods, *item)
	}
	return domain.ListPaymentMethodResponse{PaymentMethods: methods}, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetPaymentMethodRequest) (domain.PaymentMethod, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.PaymentMethod{}, domain.ErrInvalidCompany
	}

	existing, err := s.findOwned(ctx, companyID, req.ID)
	if err != nil {
		return domain.PaymentMethod{}, err
	}
	return *existing, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeletePaymentMethodRequest) error {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.ErrInvalidCompany
	}

	existing, err := s.findOwned(ctx, companyID, req.ID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, existing.ID.String())
}

func (s *Service) findOwned(ctx context.Context, companyID snowflake.ID, rawID string) (*domain.PaymentMethod, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}
	existing, err := s.repo.FindOne(ctx, &domain.PaymentMethod{ID: id, CompanyID: companyID})
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	return existing, nil
}
