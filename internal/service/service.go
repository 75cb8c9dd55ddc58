package service

import (
	"github.com/vendimo/vendimo/internal/handlers/orders"
	"github.com/vendimo/vendimo/internal/handlers/withdrawals"

	"github.com/vendimo/vendimo/internal/pg"
	"github.com/vendimo/vendimo/internal/repo"
	ledgerservice "github.com/vendimo/vendimo/internal/service/ledgerservice"
	orderservice "github.com/vendimo/vendimo/internal/service/orderservice"
	withdrawservice "github.com/vendimo/vendimo/internal/service/withdrawservice"
)

// Notifier is satisfied by the notification dispatcher; the services only
// ever enqueue.
type Notifier interface {
	ledgerservice.Notifier
}

type Services struct {
	OrderService    orders.Service
	WithdrawService withdrawals.Service
	LedgerService   withdrawals.Ledger
}

func New(repo *repo.Repositories, notifier Notifier, txManager pg.TXManager) *Services {
	ledgerService := ledgerservice.New(repo.ShopRepo, notifier)
	orderService := orderservice.New(repo.OrderRepo, ledgerService, repo.ShopRepo, txManager)
	withdrawService := withdrawservice.New(repo.WithdrawalRepo, repo.ShopRepo, notifier, txManager)

	return &Services{
		OrderService:    orderService,
		WithdrawService: withdrawService,
		LedgerService:   ledgerService,
	}
}
