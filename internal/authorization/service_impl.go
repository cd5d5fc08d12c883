package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	auditdomain "github.com/fixbench/fixbench/internal/audit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectInvoice       = "invoice"
	ObjectCustomer      = "customer"
	ObjectBranch        = "branch"
	ObjectPaymentMethod = "payment_method"
	ObjectService       = "service"
	ObjectReport        = "report"
	ObjectDocument      = "document"
	ObjectAuditLog      = "audit_log"
)

const (
	ActionInvoiceView          = "invoice.view"
	ActionInvoiceCreate        = "invoice.create"
	ActionInvoiceUpdate        = "invoice.update"
	ActionInvoiceDelete        = "invoice.delete"
	ActionInvoiceRecordPayment = "invoice.record_payment"
	ActionInvoiceSync          = "invoice.sync"

	ActionCustomerView   = "customer.view"
	ActionCustomerCreate = "customer.create"
	ActionCustomerUpdate = "customer.update"
	ActionCustomerDelete = "customer.delete"

	ActionBranchView   = "branch.view"
	ActionBranchCreate = "branch.create"
	ActionBranchUpdate = "branch.update"
	ActionBranchDelete = "branch.delete"

	ActionPaymentMethodView   = "payment_method.view"
	ActionPaymentMethodCreate = "payment_method.create"
	ActionPaymentMethodUpdate = "payment_method.update"
	ActionPaymentMethodDelete = "payment_method.delete"

	ActionServiceView       = "service.view"
	ActionServiceUpdateCost = "service.update_cost"

	ActionReportView = "report.view"

	ActionDocumentRender = "document.render"

	ActionAuditLogView = "audit_log.view"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	AuditSvc auditdomain.Service `optional:"true"`
}

type ServiceImpl struct {
	db       *gorm.DB
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	auditSvc auditdomain.Service
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		db:       p.DB,
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		auditSvc: p.AuditSvc,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor string, branchID string, object string, action string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrInvalidActor
	}
	branchID = strings.TrimSpace(branchID)
	if branchID == "" {
		return ErrInvalidBranch
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject, roleName, actorType, actorID, err := s.resolveActor(ctx, actor, branchID)
	if err != nil {
		s.auditDenied(ctx, actorType, actorID, branchID, object, action)
		return err
	}

	domain := fmt.Sprintf("branch:%s", branchID)
	if err := s.ensureGrouping(subject, roleName, domain); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, domain, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.auditDenied(ctx, actorType, actorID, branchID, object, action)
		return ErrForbidden
	}

	if shouldAuditGrant(action) {
		s.auditGranted(ctx, actorType, actorID, branchID, object, action)
	}
	return nil
}

func (s *ServiceImpl) resolveActor(ctx context.Context, actor string, branchID string) (string, string, string, *string, error) {
	if actor == "system" {
		return actor, "role:system", "system", nil, nil
	}
	if strings.HasPrefix(actor, "user:") {
		userIDRaw := strings.TrimPrefix(actor, "user:")
		userID, err := snowflake.ParseString(userIDRaw)
		if err != nil || userID == 0 {
			return "", "", "", nil, ErrInvalidActor
		}
		parsedBranchID, err := snowflake.ParseString(branchID)
		userIDStr := userID.String()
		if err != nil || parsedBranchID == 0 {
			return actor, "", "user", &userIDStr, ErrInvalidBranch
		}
		role, err := s.roleForUser(ctx, parsedBranchID, userID)
		if err != nil {
			return actor, "", "user", &userIDStr, err
		}
		roleName := fmt.Sprintf("role:%s", strings.ToLower(role))
		return actor, roleName, "user", &userIDStr, nil
	}
	return "", "", "", nil, ErrInvalidActor
}

func (s *ServiceImpl) roleForUser(ctx context.Context, branchID snowflake.ID, userID snowflake.ID) (string, error) {
	var row struct {
		Role string `gorm:"column:role"`
	}
	if err := s.db.WithContext(ctx).Raw(
		`SELECT role
		 FROM branch_members
		 WHERE branch_id = ? AND user_id = ?
		 LIMIT 1`,
		branchID,
		userID,
	).Scan(&row).Error; err != nil {
		return "", err
	}

	role := strings.TrimSpace(row.Role)
	if role == "" {
		return "", ErrForbidden
	}
	return role, nil
}

func (s *ServiceImpl) ensureGrouping(subject string, roleName string, domain string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject, "", domain)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName, domain)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName, domain)
	return err
}

func (s *ServiceImpl) auditDenied(ctx context.Context, actorType string, actorID *string, branchID string, object string, action string) {
	s.auditAuthorization(ctx, "authorization.denied", actorType, actorID, branchID, object, action)
}

func (s *ServiceImpl) auditGranted(ctx context.Context, actorType string, actorID *string, branchID string, object string, action string) {
	s.auditAuthorization(ctx, "authorization.granted", actorType, actorID, branchID, object, action)
}

func (s *ServiceImpl) auditAuthorization(ctx context.Context, auditAction string, actorType string, actorID *string, branchID string, object string, action string) {
	if s.auditSvc == nil {
		return
	}
	parsedBranchID, err := snowflake.ParseString(branchID)
	if err != nil || parsedBranchID == 0 {
		return
	}
	targetID := "capability"
	_ = s.auditSvc.Record(ctx, auditdomain.Entry{
		BranchID:   &parsedBranchID,
		ActorType:  actorType,
		ActorID:    actorID,
		Action:     auditAction,
		TargetType: "authorization",
		TargetID:   &targetID,
		Metadata: map[string]any{
			"object":    object,
			"action":    action,
			"actor":     actorType,
			"branch_id": branchID,
			"subject":   actorSubject(actorType, actorID),
		},
	})
}

func actorSubject(actorType string, actorID *string) string {
	switch actorType {
	case "system":
		return "system"
	case "user":
		if actorID != nil && strings.TrimSpace(*actorID) != "" {
			return fmt.Sprintf("user:%s", strings.TrimSpace(*actorID))
		}
	}
	return ""
}

func shouldAuditGrant(action string) bool {
	switch action {
	case ActionInvoiceDelete, ActionInvoiceRecordPayment, ActionBranchDelete:
		return true
	default:
		return false
	}
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Technician permissions
		{"role:technician", ObjectService, ActionServiceView},
		{"role:technician", ObjectService, ActionServiceUpdateCost},
		{"role:technician", ObjectInvoice, ActionInvoiceView},
		{"role:technician", ObjectCustomer, ActionCustomerView},

		// Manager permissions
		{"role:manager", ObjectService, ActionServiceView},
		{"role:manager", ObjectService, ActionServiceUpdateCost},
		{"role:manager", ObjectInvoice, ActionInvoiceView},
		{"role:manager", ObjectInvoice, ActionInvoiceCreate},
		{"role:manager", ObjectInvoice, ActionInvoiceUpdate},
		{"role:manager", ObjectInvoice, ActionInvoiceRecordPayment},
		{"role:manager", ObjectInvoice, ActionInvoiceSync},
		{"role:manager", ObjectCustomer, ActionCustomerView},
		{"role:manager", ObjectCustomer, ActionCustomerCreate},
		{"role:manager", ObjectCustomer, ActionCustomerUpdate},
		{"role:manager", ObjectPaymentMethod, ActionPaymentMethodView},
		{"role:manager", ObjectReport, ActionReportView},
		{"role:manager", ObjectDocument, ActionDocumentRender},

		// Admin permissions
		{"role:admin", ObjectService, ActionServiceView},
		{"role:admin", ObjectService, ActionServiceUpdateCost},
		{"role:admin", ObjectInvoice, ActionInvoiceView},
		{"role:admin", ObjectInvoice, ActionInvoiceCreate},
		{"role:admin", ObjectInvoice, ActionInvoiceUpdate},
		{"role:admin", ObjectInvoice, ActionInvoiceDelete},
		{"role:admin", ObjectInvoice, ActionInvoiceRecordPayment},
		{"role:admin", ObjectInvoice, ActionInvoiceSync},
		{"role:admin", ObjectCustomer, ActionCustomerView},
		{"role:admin", ObjectCustomer, ActionCustomerCreate},
		{"role:admin", ObjectCustomer, ActionCustomerUpdate},
		{"role:admin", ObjectCustomer, ActionCustomerDelete},
		{"role:admin", ObjectBranch, ActionBranchView},
		{"role:admin", ObjectBranch, ActionBranchCreate},
		{"role:admin", ObjectBranch, ActionBranchUpdate},
		{"role:admin", ObjectBranch, ActionBranchDelete},
		{"role:admin", ObjectPaymentMethod, ActionPaymentMethodView},
		{"role:admin", ObjectPaymentMethod, ActionPaymentMethodCreate},
		{"role:admin", ObjectPaymentMethod, ActionPaymentMethodUpdate},
		{"role:admin", ObjectPaymentMethod, ActionPaymentMethodDelete},
		{"role:admin", ObjectReport, ActionReportView},
		{"role:admin", ObjectDocument, ActionDocumentRender},
		{"role:admin", ObjectAuditLog, ActionAuditLogView},

		// System permissions for automated flows
		{"role:system", ObjectInvoice, ActionInvoiceView},
		{"role:system", ObjectInvoice, ActionInvoiceCreate},
		{"role:system", ObjectInvoice, ActionInvoiceUpdate},
		{"role:system", ObjectInvoice, ActionInvoiceDelete},
		{"role:system", ObjectInvoice, ActionInvoiceRecordPayment},
		{"role:system", ObjectInvoice, ActionInvoiceSync},
		{"role:system", ObjectService, ActionServiceView},
		{"role:system", ObjectService, ActionServiceUpdateCost},
		{"role:system", ObjectCustomer, ActionCustomerView},
		{"role:system", ObjectCustomer, ActionCustomerCreate},
		{"role:system", ObjectCustomer, ActionCustomerUpdate},
		{"role:system", ObjectCustomer, ActionCustomerDelete},
		{"role:system", ObjectBranch, ActionBranchView},
		{"role:system", ObjectBranch, ActionBranchCreate},
		{"role:system", ObjectBranch, ActionBranchUpdate},
		{"role:system", ObjectBranch, ActionBranchDelete},
		{"role:system", ObjectPaymentMethod, ActionPaymentMethodView},
		{"role:system", ObjectPaymentMethod, ActionPaymentMethodCreate},
		{"role:system", ObjectPaymentMethod, ActionPaymentMethodUpdate},
		{"role:system", ObjectPaymentMethod, ActionPaymentMethodDelete},
		{"role:system", ObjectReport, ActionReportView},
		{"role:system", ObjectDocument, ActionDocumentRender},
		{"role:system", ObjectAuditLog, ActionAuditLogView},
	}

	for _, policy := range policies {
		if len(policy) < 3 {
			continue
		}
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
