package repo

import (
	"github.com/vendimo/vendimo/internal/pg"
	orderrepo "github.com/vendimo/vendimo/internal/repo/order-repo"
	shoprepo "github.com/vendimo/vendimo/internal/repo/shop-repo"
	withdrawalrepo "github.com/vendimo/vendimo/internal/repo/withdrawal-repo"
	"github.com/vendimo/vendimo/internal/service/orderservice"
	"github.com/vendimo/vendimo/internal/service/withdrawservice"
)

type Repositories struct {
	OrderRepo orderservice.Repo
	// ShopRepo backs the ledger, order and withdrawal services at once, so it
	// stays concrete here.
	ShopRepo       *shoprepo.Repository
	WithdrawalRepo withdrawservice.WithdrawalRepo
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	orderRepo := orderrepo.New(conn, txManager)
	shopRepo := shoprepo.New(conn, txManager)
	withdrawalRepo := withdrawalrepo.New(conn)

	return &Repositories{
		OrderRepo:      orderRepo,
		ShopRepo:       shopRepo,
		WithdrawalRepo: withdrawalRepo,
	}
}
