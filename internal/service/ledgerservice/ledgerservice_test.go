package ledgerservice

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/vendimo/vendimo/internal/domain"
	shoprepo "github.com/vendimo/vendimo/internal/repo/shop-repo"
)

func NewMock(t *testing.T) (*Service, *MockShopRepo, *MockNotifier) {
	ctrl := gomock.NewController(t)
	shopRepo := NewMockShopRepo(ctrl)
	notifier := NewMockNotifier(ctrl)
	service := New(shopRepo, notifier)
	return service, shopRepo, notifier
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestApplyOrderTransitionCredit(t *testing.T) {
	service, shopRepo, notifier := NewMock(t)
	shopID := uuid.NewString()
	order := &domain.Order{ID: uuid.NewString(), ShopID: shopID, TotalPrice: dec("100.00")}

	shopRepo.EXPECT().CreditOrderPayment(gomock.Any(), shopID, order.ID, dec("100.00")).Return(true, nil)
	shopRepo.EXPECT().FindByID(gomock.Any(), shopID).Return(&domain.Shop{ID: shopID, Email: "seller@example.com"}, nil)
	notifier.EXPECT().Enqueue(gomock.Any())

	err := service.ApplyOrderTransition(context.Background(), order, domain.OrderStatusOnTheWay, domain.OrderStatusDelivered)
	assert.NoError(t, err)
}

func TestApplyOrderTransitionCreditReplay(t *testing.T) {
	service, shopRepo, _ := NewMock(t)
	shopID := uuid.NewString()
	order := &domain.Order{ID: uuid.NewString(), ShopID: shopID, TotalPrice: dec("100.00")}

	// ledger already holds the order_payment record: no second credit, no mail
	shopRepo.EXPECT().CreditOrderPayment(gomock.Any(), shopID, order.ID, dec("100.00")).Return(false, nil)

	err := service.ApplyOrderTransition(context.Background(), order, domain.OrderStatusOnTheWay, domain.OrderStatusDelivered)
	assert.NoError(t, err)
}

func TestApplyOrderTransitionChainMoveIsNoop(t *testing.T) {
	service, _, _ := NewMock(t)
	order := &domain.Order{ID: uuid.NewString(), ShopID: uuid.NewString(), TotalPrice: dec("100.00")}

	err := service.ApplyOrderTransition(context.Background(), order, domain.OrderStatusProcessing, domain.OrderStatusShipping)
	assert.NoError(t, err)
}

func TestApplyOrderTransitionRefundDebit(t *testing.T) {
	service, shopRepo, notifier := NewMock(t)
	shopID := uuid.NewString()
	order := &domain.Order{ID: uuid.NewString(), ShopID: shopID, TotalPrice: dec("50.00")}

	shopRepo.EXPECT().DebitRefund(gomock.Any(), shopID, order.ID, dec("50.00"), "order refunded").Return(true, nil)
	shopRepo.EXPECT().FindByID(gomock.Any(), shopID).Return(&domain.Shop{ID: shopID, Email: "seller@example.com"}, nil)
	notifier.EXPECT().Enqueue(gomock.Any())

	err := service.ApplyOrderTransition(context.Background(), order, domain.OrderStatusRefundRequest, domain.OrderStatusRefunded)
	assert.NoError(t, err)
}

func TestApplyOrderTransitionCancelCreditedOrder(t *testing.T) {
	service, shopRepo, notifier := NewMock(t)
	shopID := uuid.NewString()
	order := &domain.Order{ID: uuid.NewString(), ShopID: shopID, TotalPrice: dec("40.00")}

	// cancelling a received order reverses the earlier credit, and the
	// ledger row names the cancellation rather than a refund
	shopRepo.EXPECT().DebitRefund(gomock.Any(), shopID, order.ID, dec("40.00"), "order cancelled").Return(true, nil)
	shopRepo.EXPECT().FindByID(gomock.Any(), shopID).Return(&domain.Shop{ID: shopID, Email: "seller@example.com"}, nil)
	notifier.EXPECT().Enqueue(gomock.Any())

	err := service.ApplyOrderTransition(context.Background(), order, domain.OrderStatusReceived, domain.OrderStatusCancelled)
	assert.NoError(t, err)
}

func TestApplyOrderTransitionCancelBeforeCreditIsNoop(t *testing.T) {
	service, _, _ := NewMock(t)
	order := &domain.Order{ID: uuid.NewString(), ShopID: uuid.NewString(), TotalPrice: dec("40.00")}

	err := service.ApplyOrderTransition(context.Background(), order, domain.OrderStatusShipping, domain.OrderStatusCancelled)
	assert.NoError(t, err)
}

func TestApplyOrderTransitionInsufficientFunds(t *testing.T) {
	service, shopRepo, _ := NewMock(t)
	shopID := uuid.NewString()
	order := &domain.Order{ID: uuid.NewString(), ShopID: shopID, TotalPrice: dec("50.00")}

	shopRepo.EXPECT().DebitRefund(gomock.Any(), shopID, order.ID, dec("50.00"), "order refunded").
		Return(false, shoprepo.ErrInsufficientBalance)

	err := service.ApplyOrderTransition(context.Background(), order, domain.OrderStatusRefundRequest, domain.OrderStatusRefunded)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestApplyOrderTransitionRefundNeverCredited(t *testing.T) {
	service, shopRepo, _ := NewMock(t)
	shopID := uuid.NewString()
	order := &domain.Order{ID: uuid.NewString(), ShopID: shopID, TotalPrice: dec("50.00")}

	// the repo refuses the debit because no order_payment record exists
	shopRepo.EXPECT().DebitRefund(gomock.Any(), shopID, order.ID, dec("50.00"), "order refunded").Return(false, nil)

	err := service.ApplyOrderTransition(context.Background(), order, domain.OrderStatusDelivered, domain.OrderStatusRefunded)
	assert.NoError(t, err)
}

func TestBalance(t *testing.T) {
	sellerID := uuid.NewString()
	shopID := uuid.NewString()

	t.Run("found", func(t *testing.T) {
		service, shopRepo, _ := NewMock(t)
		shop := &domain.Shop{ID: shopID, SellerID: sellerID, AvailableBalance: dec("100.00")}
		shopRepo.EXPECT().FindBySellerID(gomock.Any(), sellerID).Return(shop, nil)
		// reconciliation pass
		shopRepo.EXPECT().FindByID(gomock.Any(), shopID).Return(shop, nil)
		shopRepo.EXPECT().RecomputeBalance(gomock.Any(), shopID).Return(dec("100.00"), nil)

		got, err := service.Balance(context.Background(), sellerID)
		require.NoError(t, err)
		assert.True(t, got.AvailableBalance.Equal(dec("100.00")))
	})

	t.Run("no shop", func(t *testing.T) {
		service, shopRepo, _ := NewMock(t)
		shopRepo.EXPECT().FindBySellerID(gomock.Any(), sellerID).Return(nil, nil)

		_, err := service.Balance(context.Background(), sellerID)
		assert.ErrorIs(t, err, ErrShopNotFound)
	})

	t.Run("divergence is tolerated", func(t *testing.T) {
		service, shopRepo, _ := NewMock(t)
		shop := &domain.Shop{ID: shopID, SellerID: sellerID, AvailableBalance: dec("100.00")}
		shopRepo.EXPECT().FindBySellerID(gomock.Any(), sellerID).Return(shop, nil)
		shopRepo.EXPECT().FindByID(gomock.Any(), shopID).Return(shop, nil)
		shopRepo.EXPECT().RecomputeBalance(gomock.Any(), shopID).Return(dec("90.00"), nil)

		got, err := service.Balance(context.Background(), sellerID)
		require.NoError(t, err)
		// the stored balance stays authoritative
		assert.True(t, got.AvailableBalance.Equal(dec("100.00")))
	})
}

func TestSellerTransactions(t *testing.T) {
	sellerID := uuid.NewString()
	shopID := uuid.NewString()

	t.Run("found", func(t *testing.T) {
		service, shopRepo, _ := NewMock(t)
		shopRepo.EXPECT().FindBySellerID(gomock.Any(), sellerID).Return(&domain.Shop{ID: shopID}, nil)
		shopRepo.EXPECT().GetTransactions(gomock.Any(), shopID).Return([]domain.Transaction{{ID: 1, ShopID: shopID}}, nil)

		txs, err := service.SellerTransactions(context.Background(), sellerID)
		require.NoError(t, err)
		assert.Len(t, txs, 1)
	})

	t.Run("no shop", func(t *testing.T) {
		service, shopRepo, _ := NewMock(t)
		shopRepo.EXPECT().FindBySellerID(gomock.Any(), sellerID).Return(nil, nil)

		_, err := service.SellerTransactions(context.Background(), sellerID)
		assert.ErrorIs(t, err, ErrShopNotFound)
	})
}

func TestReconcileErrors(t *testing.T) {
	service, shopRepo, _ := NewMock(t)
	shopID := uuid.NewString()

	shopRepo.EXPECT().FindByID(gomock.Any(), shopID).Return(nil, errors.New("db error"))

	err := service.Reconcile(context.Background(), shopID)
	assert.Error(t, err)
}
