package ledgerservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vendimo/vendimo/internal/domain"
	"github.com/vendimo/vendimo/internal/notify"
	shoprepo "github.com/vendimo/vendimo/internal/repo/shop-repo"
)

type ShopRepo interface {
	FindByID(ctx context.Context, shopID string) (*domain.Shop, error)
	FindBySellerID(ctx context.Context, sellerID string) (*domain.Shop, error)
	CreditOrderPayment(ctx context.Context, shopID, orderID string, amount decimal.Decimal) (bool, error)
	DebitRefund(ctx context.Context, shopID, orderID string, amount decimal.Decimal, description string) (bool, error)
	GetTransactions(ctx context.Context, shopID string) ([]domain.Transaction, error)
	RecomputeBalance(ctx context.Context, shopID string) (decimal.Decimal, error)
}

// Notifier delivers e-mails best-effort; it never blocks and never fails the
// caller.
type Notifier interface {
	Enqueue(msg notify.Message)
}

type Service struct {
	shopRepo ShopRepo
	notifier Notifier
}

func New(shopRepo ShopRepo, notifier Notifier) *Service {
	return &Service{
		shopRepo: shopRepo,
		notifier: notifier,
	}
}

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrShopNotFound      = errors.New("shop not found")
)

// ApplyOrderTransition translates an order status change into ledger
// mutations. Entering a settled state credits the order total once; a refund
// out of a settled state debits it back. Everything else is a no-op.
func (s *Service) ApplyOrderTransition(ctx context.Context, order *domain.Order, oldStatus, newStatus domain.OrderStatus) error {
	switch {
	case domain.Earned(oldStatus, newStatus):
		applied, err := s.shopRepo.CreditOrderPayment(ctx, order.ShopID, order.ID, order.TotalPrice)
		if err != nil {
			zap.L().Error("can't credit order payment",
				zap.String("order_id", order.ID),
				zap.String("shop_id", order.ShopID),
				zap.Error(err),
			)
			return err
		}
		if !applied {
			zap.L().Debug("order payment already credited", zap.String("order_id", order.ID))
			return nil
		}
		s.notifyShop(ctx, order.ShopID, "Order payment received",
			fmt.Sprintf("Order %s was delivered; %s has been credited to your balance.", order.ID, order.TotalPrice.StringFixed(2)))

	case domain.Reversed(oldStatus, newStatus):
		description := "order refunded"
		if newStatus == domain.OrderStatusCancelled {
			description = "order cancelled"
		}
		applied, err := s.shopRepo.DebitRefund(ctx, order.ShopID, order.ID, order.TotalPrice, description)
		if errors.Is(err, shoprepo.ErrInsufficientBalance) {
			return ErrInsufficientFunds
		}
		if err != nil {
			zap.L().Error("can't debit refund",
				zap.String("order_id", order.ID),
				zap.String("shop_id", order.ShopID),
				zap.Error(err),
			)
			return err
		}
		if !applied {
			zap.L().Debug("refund already debited or order never credited", zap.String("order_id", order.ID))
			return nil
		}
		s.notifyShop(ctx, order.ShopID, "Order payment reversed",
			fmt.Sprintf("Order %s is now %s; %s has been debited from your balance.", order.ID, newStatus, order.TotalPrice.StringFixed(2)))
	}

	return nil
}

func (s *Service) notifyShop(ctx context.Context, shopID, subject, body string) {
	shop, err := s.shopRepo.FindByID(ctx, shopID)
	if err != nil || shop == nil {
		zap.L().Warn("can't resolve shop for notification", zap.String("shop_id", shopID), zap.Error(err))
		return
	}
	s.notifier.Enqueue(notify.Message{
		RecipientEmail: shop.Email,
		Subject:        subject,
		Body:           body,
	})
}

// Balance resolves the seller's shop and audits its stored balance on the
// way out.
func (s *Service) Balance(ctx context.Context, sellerID string) (*domain.Shop, error) {
	shop, err := s.shopRepo.FindBySellerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}
	if err := s.Reconcile(ctx, shop.ID); err != nil {
		zap.L().Warn("balance reconciliation failed", zap.String("shop_id", shop.ID), zap.Error(err))
	}
	return shop, nil
}

// SellerTransactions lists the ledger records of the seller's shop.
func (s *Service) SellerTransactions(ctx context.Context, sellerID string) ([]domain.Transaction, error) {
	shop, err := s.shopRepo.FindBySellerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}
	return s.GetTransactions(ctx, shop.ID)
}

func (s *Service) GetTransactions(ctx context.Context, shopID string) ([]domain.Transaction, error) {
	txs, err := s.shopRepo.GetTransactions(ctx, shopID)
	if err != nil {
		zap.L().Error("failed to get shop transactions", zap.Error(err))
		return nil, err
	}
	return txs, nil
}

// Reconcile compares the stored balance against the aggregation-derived
// figure and logs a divergence. The stored balance stays authoritative.
func (s *Service) Reconcile(ctx context.Context, shopID string) error {
	shop, err := s.shopRepo.FindByID(ctx, shopID)
	if err != nil {
		return err
	}
	if shop == nil {
		return nil
	}
	recomputed, err := s.shopRepo.RecomputeBalance(ctx, shopID)
	if err != nil {
		return err
	}
	if !recomputed.Equal(shop.AvailableBalance) {
		zap.L().Warn("ledger reconciliation divergence",
			zap.String("shop_id", shopID),
			zap.String("stored", shop.AvailableBalance.String()),
			zap.String("recomputed", recomputed.String()),
		)
	}
	return nil
}
