package orderservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vendimo/vendimo/internal/domain"
	"github.com/vendimo/vendimo/internal/pg"
	"github.com/vendimo/vendimo/internal/service/ledgerservice"
	"github.com/vendimo/vendimo/pkg/auth"
	"github.com/vendimo/vendimo/pkg/validate"
)

type Repo interface {
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, orderID string) (*domain.Order, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.Order, error)
	FindByShopID(ctx context.Context, shopID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, orderID string) error
}

// Ledger applies the balance side effect of an order status change. It runs
// inside the same transaction as the status write.
type Ledger interface {
	ApplyOrderTransition(ctx context.Context, order *domain.Order, oldStatus, newStatus domain.OrderStatus) error
}

type Shops interface {
	FindBySellerID(ctx context.Context, sellerID string) (*domain.Shop, error)
}

type Service struct {
	repo      Repo
	ledger    Ledger
	shops     Shops
	txManager pg.TXManager
}

func New(repo Repo, ledger Ledger, shops Shops, txManager pg.TXManager) *Service {
	return &Service{
		repo:      repo,
		ledger:    ledger,
		shops:     shops,
		txManager: txManager,
	}
}

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrShopNotFound      = errors.New("shop not found")
	ErrInvalidState      = errors.New("transition not legal from current state")
	ErrConflict          = errors.New("refund already requested")
	ErrValidation        = errors.New("invalid order payload")
	ErrUnauthorized      = errors.New("principal lacks rights over the order")
	ErrInsufficientFunds = errors.New("shop balance does not cover the refund")
)

// CheckoutItem is one catalog snapshot line supplied by the checkout payload.
type CheckoutItem struct {
	ProductID       string
	ShopID          string
	Quantity        int
	UnitPrice       decimal.Decimal
	DiscountedPrice decimal.Decimal
	Name            string
	Images          []string
}

type Checkout struct {
	Items       []CheckoutItem
	Shipping    domain.ShippingAddress
	Payment     domain.PaymentInfo
	Coupon      *domain.AppliedCoupon
	TotalAmount decimal.Decimal
}

// CreateOrders partitions a checkout by shop and prices each resulting order
// independently. The coupon's absolute discount is split across shops in
// proportion to each shop's subtotal share, rounded to 2 decimals.
func (s *Service) CreateOrders(ctx context.Context, userID string, checkout Checkout) ([]domain.Order, error) {
	if err := validateCheckout(userID, checkout); err != nil {
		return nil, err
	}

	shopIDs := make([]string, 0)
	grouped := make(map[string][]CheckoutItem)
	subtotals := make(map[string]decimal.Decimal)
	combined := decimal.Zero
	for _, item := range checkout.Items {
		if _, seen := grouped[item.ShopID]; !seen {
			shopIDs = append(shopIDs, item.ShopID)
		}
		grouped[item.ShopID] = append(grouped[item.ShopID], item)
		lineTotal := item.DiscountedPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotals[item.ShopID] = subtotals[item.ShopID].Add(lineTotal)
		combined = combined.Add(lineTotal)
	}

	now := time.Now()
	orders := make([]domain.Order, 0, len(shopIDs))
	for _, shopID := range shopIDs {
		subtotal := subtotals[shopID].Round(2)
		total := subtotal
		if checkout.Coupon != nil && combined.IsPositive() {
			share := checkout.Coupon.DiscountAmount.Mul(subtotals[shopID]).Div(combined).Round(2)
			total = subtotal.Sub(share)
			if total.IsNegative() {
				total = decimal.Zero
			}
		}

		items := make([]domain.OrderItem, 0, len(grouped[shopID]))
		for _, item := range grouped[shopID] {
			items = append(items, domain.OrderItem{
				ProductID:       item.ProductID,
				Quantity:        item.Quantity,
				UnitPrice:       item.UnitPrice,
				DiscountedPrice: item.DiscountedPrice,
				Name:            item.Name,
				Images:          item.Images,
			})
		}

		orders = append(orders, domain.Order{
			ID:         uuid.NewString(),
			UserID:     userID,
			ShopID:     shopID,
			Items:      items,
			Shipping:   checkout.Shipping,
			Payment:    checkout.Payment,
			Coupon:     checkout.Coupon,
			Subtotal:   subtotal,
			TotalPrice: total,
			Status:     domain.OrderStatusProcessing,
			CreatedAt:  now,
		})
	}

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		for i := range orders {
			if err := s.repo.Save(ctx, &orders[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		zap.L().Error("can't save checkout orders", zap.Error(err))
		return nil, err
	}

	return orders, nil
}

func validateCheckout(userID string, checkout Checkout) error {
	if !validate.IsID(userID) {
		return fmt.Errorf("%w: missing user", ErrValidation)
	}
	if len(checkout.Items) == 0 {
		return fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}
	if checkout.Shipping.Address == "" || checkout.Shipping.City == "" || checkout.Shipping.Zip == "" {
		return fmt.Errorf("%w: shipping address, city and zip are required", ErrValidation)
	}
	if !checkout.TotalAmount.IsPositive() {
		return fmt.Errorf("%w: total amount must be positive", ErrValidation)
	}
	for _, item := range checkout.Items {
		if !validate.IsID(item.ProductID) {
			return fmt.Errorf("%w: item is missing a product id", ErrValidation)
		}
		if !validate.IsID(item.ShopID) {
			return fmt.Errorf("%w: item has an invalid shop id", ErrValidation)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: item quantity must be at least 1", ErrValidation)
		}
		if !item.DiscountedPrice.IsPositive() || !item.UnitPrice.IsPositive() {
			return fmt.Errorf("%w: item price must be positive", ErrValidation)
		}
	}
	return nil
}

// Transition moves an order to newStatus and applies the ledger side effect
// in the same transaction, so a ledger failure rolls the status write back.
func (s *Service) Transition(ctx context.Context, orderID string, newStatus domain.OrderStatus) (*domain.Order, error) {
	if !domain.KnownOrderStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, newStatus)
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	return s.transition(ctx, order, newStatus, "")
}

func (s *Service) transition(ctx context.Context, order *domain.Order, newStatus domain.OrderStatus, cancelReason string) (*domain.Order, error) {
	oldStatus := order.Status
	if err := canTransition(oldStatus, newStatus); err != nil {
		zap.L().Info("illegal order transition",
			zap.String("order_id", order.ID),
			zap.String("from", string(oldStatus)),
			zap.String("to", string(newStatus)),
		)
		return nil, err
	}

	now := time.Now()
	order.Status = newStatus
	switch newStatus {
	case domain.OrderStatusDelivered:
		order.DeliveredAt = &now
		order.Payment.Status = domain.PaymentStatusPaid
	case domain.OrderStatusRefunded:
		order.RefundedAt = &now
		order.RefundDecidedAt = &now
		order.Payment.Status = domain.PaymentStatusRefunded
	case domain.OrderStatusCancelled:
		order.CancelledAt = &now
		order.CancelReason = cancelReason
	case domain.OrderStatusRefundRequest:
		order.RefundRequestedAt = &now
	}

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := s.repo.UpdateStatus(ctx, order); err != nil {
			return err
		}
		return s.ledger.ApplyOrderTransition(ctx, order, oldStatus, newStatus)
	})
	if err != nil {
		zap.L().Error("order transition failed",
			zap.String("order_id", order.ID),
			zap.String("from", string(oldStatus)),
			zap.String("to", string(newStatus)),
			zap.Error(err),
		)
		if errors.Is(err, ledgerservice.ErrInsufficientFunds) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}

	return order, nil
}

var chainRank = map[domain.OrderStatus]int{
	domain.OrderStatusProcessing:  0,
	domain.OrderStatusTransferred: 1,
	domain.OrderStatusShipping:    2,
	domain.OrderStatusOnTheWay:    3,
	domain.OrderStatusReceived:    4,
	domain.OrderStatusDelivered:   4,
}

func canTransition(cur, next domain.OrderStatus) error {
	if cur == domain.OrderStatusCancelled || cur == domain.OrderStatusRefunded {
		return ErrInvalidState
	}

	switch next {
	case domain.OrderStatusCancelled:
		// delivered orders refund instead of cancelling
		if cur == domain.OrderStatusDelivered {
			return ErrInvalidState
		}
		return nil
	case domain.OrderStatusRefundRequest:
		if cur == domain.OrderStatusRefundRequest {
			return ErrConflict
		}
		if cur != domain.OrderStatusDelivered {
			return ErrInvalidState
		}
		return nil
	case domain.OrderStatusRefunded:
		switch cur {
		case domain.OrderStatusRefundRequest, domain.OrderStatusDelivered, domain.OrderStatusReceived:
			return nil
		}
		return ErrInvalidState
	}

	// the remaining targets form the forward fulfillment chain
	if cur == domain.OrderStatusRefundRequest {
		return ErrInvalidState
	}
	if chainRank[next] < chainRank[cur] {
		return ErrInvalidState
	}
	return nil
}

// Cancel is allowed from any state except delivered and the terminal ones.
func (s *Service) Cancel(ctx context.Context, orderID string, principal auth.Principal, reason string) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if principal.Role != auth.RoleOperator && order.UserID != principal.ID {
		return nil, ErrUnauthorized
	}

	return s.transition(ctx, order, domain.OrderStatusCancelled, reason)
}

// RequestRefund moves a delivered order into refund request.
func (s *Service) RequestRefund(ctx context.Context, orderID string, principal auth.Principal) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != principal.ID {
		return nil, ErrUnauthorized
	}
	if order.Status == domain.OrderStatusRefunded || order.Status == domain.OrderStatusRefundRequest {
		return nil, ErrConflict
	}

	return s.transition(ctx, order, domain.OrderStatusRefundRequest, "")
}

// DecideRefund resolves a pending refund request. Approval debits the shop
// through the ledger; rejection returns the order to delivered with no
// ledger effect.
func (s *Service) DecideRefund(ctx context.Context, orderID string, approve bool) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != domain.OrderStatusRefundRequest {
		return nil, ErrInvalidState
	}

	if approve {
		return s.transition(ctx, order, domain.OrderStatusRefunded, "")
	}

	now := time.Now()
	order.Status = domain.OrderStatusDelivered
	order.RefundDecidedAt = &now
	if err := s.repo.UpdateStatus(ctx, order); err != nil {
		zap.L().Error("can't reject refund", zap.String("order_id", order.ID), zap.Error(err))
		return nil, err
	}
	return order, nil
}

// Delete hard-removes an order; only drafts and cancelled orders qualify.
func (s *Service) Delete(ctx context.Context, orderID string, principal auth.Principal) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if principal.Role != auth.RoleOperator && order.UserID != principal.ID {
		return ErrUnauthorized
	}
	if order.Status != domain.OrderStatusProcessing && order.Status != domain.OrderStatusCancelled {
		return ErrInvalidState
	}

	return s.repo.Delete(ctx, orderID)
}

func (s *Service) GetOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get orders", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

func (s *Service) GetShopOrders(ctx context.Context, shopID string) ([]domain.Order, error) {
	orders, err := s.repo.FindByShopID(ctx, shopID)
	if err != nil {
		zap.L().Error("failed to get shop orders", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

// GetSellerOrders lists the orders that landed in the seller's shop.
func (s *Service) GetSellerOrders(ctx context.Context, sellerID string) ([]domain.Order, error) {
	shop, err := s.shops.FindBySellerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}
	return s.GetShopOrders(ctx, shop.ID)
}
