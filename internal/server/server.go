package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tablewiselabs/tablewise/internal/config"
	docservice "github.com/tablewiselabs/tablewise/internal/document/service"
	"github.com/tablewiselabs/tablewise/internal/observability"
	orderdomain "github.com/tablewiselabs/tablewise/internal/order/domain"
	paymentservice "github.com/tablewiselabs/tablewise/internal/payment/service"
	plandomain "github.com/tablewiselabs/tablewise/internal/plan/domain"
	subdomain "github.com/tablewiselabs/tablewise/internal/subscription/domain"
	tenantdomain "github.com/tablewiselabs/tablewise/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	DB      *gorm.DB
	Metrics *observability.Metrics

	OrderSvc   orderdomain.Service
	Checkout   *paymentservice.CheckoutService
	Settlement *paymentservice.SettlementManager
	Renderer   *docservice.Renderer
	Tenants    tenantdomain.Repository
	Plans      plandomain.Repository
	Subs       subdomain.Repository
}

type Server struct {
	cfg     config.Config
	log     *zap.Logger
	db      *gorm.DB
	engine  *gin.Engine
	metrics *observability.Metrics

	orderSvc   orderdomain.Service
	checkout   *paymentservice.CheckoutService
	settlement *paymentservice.SettlementManager
	renderer   *docservice.Renderer
	tenants    tenantdomain.Repository
	plans      plandomain.Repository
	subs       subdomain.Repository
}

func NewEngine(cfg config.Config) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	return engine
}

func NewServer(p Params, engine *gin.Engine) *Server {
	return &Server{
		cfg:        p.Cfg,
		log:        p.Log.Named("server"),
		db:         p.DB,
		engine:     engine,
		metrics:    p.Metrics,
		orderSvc:   p.OrderSvc,
		checkout:   p.Checkout,
		settlement: p.Settlement,
		renderer:   p.Renderer,
		tenants:    p.Tenants,
		plans:      p.Plans,
		subs:       p.Subs,
	}
}

func (s *Server) RegisterRoutes() {
	s.registerProbes()

	api := s.engine.Group("/api")
	{
		api.POST("/orders", s.CreateOrder)
		api.GET("/orders/:id", s.GetOrder)
		api.POST("/orders/:id/status", s.TransitionOrder)
		api.POST("/orders/:id/checkout", s.CheckoutOrder)
		api.POST("/orders/:id/pay/cash", s.PayOrderCash)
		api.POST("/orders/:id/refund", s.RefundOrder)
		api.GET("/orders/:id/invoice", s.DownloadInvoice)
		api.GET("/orders/:id/receipt", s.DownloadReceipt)

		api.GET("/plans", s.ListPlans)
		api.POST("/plans/:id/checkout", s.CheckoutPlan)
		api.GET("/subscription", s.GetSubscription)

		api.POST("/payments/callback", s.PaymentCallback)
	}
}

func RunHTTP(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				s.log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
