package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/internal/audit"
	auditdomain "github.com/fixbench/fixbench/internal/audit/domain"
	"github.com/fixbench/fixbench/internal/authorization"
	"github.com/fixbench/fixbench/internal/branch"
	branchdomain "github.com/fixbench/fixbench/internal/branch/domain"
	"github.com/fixbench/fixbench/internal/clock"
	"github.com/fixbench/fixbench/internal/config"
	"github.com/fixbench/fixbench/internal/customer"
	customerdomain "github.com/fixbench/fixbench/internal/customer/domain"
	"github.com/fixbench/fixbench/internal/events"
	"github.com/fixbench/fixbench/internal/invoice"
	invoicedomain "github.com/fixbench/fixbench/internal/invoice/domain"
	"github.com/fixbench/fixbench/internal/numbering"
	"github.com/fixbench/fixbench/internal/observability"
	obsmiddleware "github.com/fixbench/fixbench/internal/observability/logger"
	obsmetrics "github.com/fixbench/fixbench/internal/observability/metrics"
	obstracing "github.com/fixbench/fixbench/internal/observability/tracing"
	"github.com/fixbench/fixbench/internal/paymentmethod"
	paymentmethoddomain "github.com/fixbench/fixbench/internal/paymentmethod/domain"
	"github.com/fixbench/fixbench/internal/providers"
	"github.com/fixbench/fixbench/internal/ratelimit"
	"github.com/fixbench/fixbench/internal/repair"
	repairdomain "github.com/fixbench/fixbench/internal/repair/domain"
	"github.com/fixbench/fixbench/internal/report"
	"github.com/fixbench/fixbench/internal/reportcache"
	"github.com/fixbench/fixbench/internal/warranty"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	clock.Module,
	observability.Module,
	fx.Provide(registerGin),
	authorization.Module,
	audit.Module,
	events.Module,
	numbering.Module,
	customer.Module,
	branch.Module,
	paymentmethod.Module,
	repair.Module,
	providers.Module,
	invoice.Module,
	warranty.Module,
	reportcache.Module,
	report.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           strings.EqualFold(cfg.LogLevel, "debug") || !cfg.IsProduction(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(cfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine           *gin.Engine
	cfg              config.Config
	db               *gorm.DB
	genID            *snowflake.Node
	authzSvc         authorization.Service
	auditSvc         auditdomain.Service
	customerSvc      customerdomain.Service
	branchSvc        branchdomain.Service
	paymentMethodSvc paymentmethoddomain.Service
	repairSvc        repairdomain.Service
	invoiceSvc       invoicedomain.Service
	reportSvc        report.Service
	limiter          *ratelimit.Limiter
}

type ServerParams struct {
	fx.In

	Gin              *gin.Engine
	Cfg              config.Config
	DB               *gorm.DB
	GenID            *snowflake.Node
	AuthzSvc         authorization.Service
	AuditSvc         auditdomain.Service
	CustomerSvc      customerdomain.Service
	BranchSvc        branchdomain.Service
	PaymentMethodSvc paymentmethoddomain.Service
	RepairSvc        repairdomain.Service
	InvoiceSvc       invoicedomain.Service
	ReportSvc        report.Service
	Limiter          *ratelimit.Limiter
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:           p.Gin,
		cfg:              p.Cfg,
		db:               p.DB,
		genID:            p.GenID,
		authzSvc:         p.AuthzSvc,
		auditSvc:         p.AuditSvc,
		customerSvc:      p.CustomerSvc,
		branchSvc:        p.BranchSvc,
		paymentMethodSvc: p.PaymentMethodSvc,
		repairSvc:        p.RepairSvc,
		invoiceSvc:       p.InvoiceSvc,
		reportSvc:        p.ReportSvc,
		limiter:          p.Limiter,
	}

	svc.registerDocumentRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerDocumentRoutes serves rendered invoice documents from local
// storage under the same prefix the document store writes into URLs.
func (s *Server) registerDocumentRoutes() {
	prefix := strings.TrimSuffix(s.cfg.DocumentBaseURL, "/")
	if prefix == "" || strings.Contains(prefix, "://") {
		return
	}
	s.engine.Static(prefix, s.cfg.DocumentDir)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.Use(s.CompanyContext())

	// -------- Customers --------
	api.GET("/customers", s.authorize(authorization.ObjectCustomer, authorization.ActionCustomerView), s.ListCustomers)
	api.POST("/customers", s.authorize(authorization.ObjectCustomer, authorization.ActionCustomerCreate), s.CreateCustomer)
	api.GET("/customers/:id", s.authorize(authorization.ObjectCustomer, authorization.ActionCustomerView), s.GetCustomerByID)
	api.PATCH("/customers/:id", s.authorize(authorization.ObjectCustomer, authorization.ActionCustomerUpdate), s.UpdateCustomer)
	api.DELETE("/customers/:id", s.authorize(authorization.ObjectCustomer, authorization.ActionCustomerDelete), s.DeleteCustomer)

	// -------- Branches --------
	api.GET("/branches", s.authorize(authorization.ObjectBranch, authorization.ActionBranchView), s.ListBranches)
	api.POST("/branches", s.authorize(authorization.ObjectBranch, authorization.ActionBranchCreate), s.CreateBranch)
	api.GET("/branches/:id", s.authorize(authorization.ObjectBranch, authorization.ActionBranchView), s.GetBranchByID)
	api.PATCH("/branches/:id", s.authorize(authorization.ObjectBranch, authorization.ActionBranchUpdate), s.UpdateBranch)
	api.DELETE("/branches/:id", s.authorize(authorization.ObjectBranch, authorization.ActionBranchDelete), s.DeleteBranch)

	// -------- Payment methods --------
	api.GET("/payment_methods", s.authorize(authorization.ObjectPaymentMethod, authorization.ActionPaymentMethodView), s.ListPaymentMethods)
	api.POST("/payment_methods", s.authorize(authorization.ObjectPaymentMethod, authorization.ActionPaymentMethodCreate), s.CreatePaymentMethod)
	api.GET("/payment_methods/:id", s.authorize(authorization.ObjectPaymentMethod, authorization.ActionPaymentMethodView), s.GetPaymentMethodByID)
	api.PATCH("/payment_methods/:id", s.authorize(authorization.ObjectPaymentMethod, authorization.ActionPaymentMethodUpdate), s.UpdatePaymentMethod)
	api.DELETE("/payment_methods/:id", s.authorize(authorization.ObjectPaymentMethod, authorization.ActionPaymentMethodDelete), s.DeletePaymentMethod)

	// -------- Repair jobs --------
	api.GET("/services/:id", s.authorize(authorization.ObjectService, authorization.ActionServiceView), s.GetServiceByID)
	api.PATCH("/services/:id/cost", s.authorize(authorization.ObjectService, authorization.ActionServiceUpdateCost), s.UpdateServiceCost)

	// -------- Invoices --------
	api.GET("/invoices", s.authorize(authorization.ObjectInvoice, authorization.ActionInvoiceView), s.ListInvoices)
	api.POST("/invoices", s.authorize(authorization.ObjectInvoice, authorization.ActionInvoiceCreate), s.CreateInvoice)
	api.GET("/invoices/:id", s.authorize(authorization.ObjectInvoice, authorization.ActionInvoiceView), s.GetInvoiceByID)
	api.PATCH("/invoices/:id", s.authorize(authorization.ObjectInvoice, authorization.ActionInvoiceUpdate), s.UpdateInvoiceAmounts)
	api.DELETE("/invoices/:id", s.authorize(authorization.ObjectInvoice, authorization.ActionInvoiceDelete), s.DeleteInvoice)
	api.POST("/invoices/:id/payments", s.authorize(authorization.ObjectInvoice, authorization.ActionInvoiceRecordPayment), s.limiter.PaymentEndpoint(), s.RecordPayment)
	api.POST("/invoices/:id/sync", s.authorize(authorization.ObjectInvoice, authorization.ActionInvoiceSync), s.SyncInvoice)
	api.POST("/invoices/:id/render", s.authorize(authorization.ObjectDocument, authorization.ActionDocumentRender), s.RenderInvoiceDocument)

	// -------- Reports --------
	api.GET("/reports/revenue_summary", s.authorize(authorization.ObjectReport, authorization.ActionReportView), s.RevenueSummaryReport)

	// -------- Audit logs --------
	api.GET("/audit_logs", s.authorize(authorization.ObjectAuditLog, authorization.ActionAuditLogView), s.ListAuditLogs)
}
