package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/vendimo/vendimo/docs"
	"github.com/vendimo/vendimo/internal/config"
	ordershandlers "github.com/vendimo/vendimo/internal/handlers/orders"
	withdrawalshandlers "github.com/vendimo/vendimo/internal/handlers/withdrawals"
	"github.com/vendimo/vendimo/internal/service"
	"github.com/vendimo/vendimo/pkg/auth"
)

type OrderHandler interface {
	CreateOrders(w http.ResponseWriter, r *http.Request)
	GetOrders(w http.ResponseWriter, r *http.Request)
	GetShopOrders(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	RequestRefund(w http.ResponseWriter, r *http.Request)
	DecideRefund(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type WithdrawalHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Accept(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
	GetRevenue(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	OrderHandler      OrderHandler
	WithdrawalHandler WithdrawalHandler

	cfg *config.Config
}

func New(s *service.Services, cfg *config.Config) *Handlers {
	return &Handlers{
		OrderHandler:      ordershandlers.New(s.OrderService, cfg.Development()),
		WithdrawalHandler: withdrawalshandlers.New(s.WithdrawService, s.LedgerService, cfg.Development()),
		cfg:               cfg,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		// persistence calls inherit this deadline; hitting it maps to 503
		middleware.Timeout(h.cfg.DBTimeout),
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api", func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Route("/orders", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(auth.RoleUser))
				r.Post("/", h.OrderHandler.CreateOrders)
				r.Get("/", h.OrderHandler.GetOrders)
				r.Put("/{id}/refund", h.OrderHandler.RequestRefund)
			})
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(auth.RoleOperator))
				r.Put("/{id}/status", h.OrderHandler.UpdateStatus)
				r.Post("/{id}/refund/decision", h.OrderHandler.DecideRefund)
			})
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(auth.RoleUser, auth.RoleOperator))
				r.Post("/{id}/cancel", h.OrderHandler.Cancel)
				r.Delete("/{id}", h.OrderHandler.Delete)
			})
		})

		r.Route("/shop", func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleSeller))
			r.Get("/orders", h.OrderHandler.GetShopOrders)
			r.Get("/balance", h.WithdrawalHandler.GetBalance)
			r.Get("/transactions", h.WithdrawalHandler.GetTransactions)
		})

		r.Route("/withdrawals", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(auth.RoleSeller, auth.RoleOperator))
				r.Get("/", h.WithdrawalHandler.List)
			})
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(auth.RoleSeller))
				r.Post("/", h.WithdrawalHandler.Submit)
			})
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(auth.RoleOperator))
				r.Post("/{id}/accept", h.WithdrawalHandler.Accept)
				r.Post("/{id}/reject", h.WithdrawalHandler.Reject)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleOperator))
			r.Get("/revenue", h.WithdrawalHandler.GetRevenue)
		})
	})

	return r
}
