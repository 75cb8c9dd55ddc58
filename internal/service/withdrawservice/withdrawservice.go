package withdrawservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vendimo/vendimo/internal/domain"
	"github.com/vendimo/vendimo/internal/notify"
	"github.com/vendimo/vendimo/internal/pg"
	shoprepo "github.com/vendimo/vendimo/internal/repo/shop-repo"
	"github.com/vendimo/vendimo/pkg/auth"
	"github.com/vendimo/vendimo/pkg/commission"
)

type WithdrawalRepo interface {
	Create(ctx context.Context, wr *domain.WithdrawalRequest) error
	FindByID(ctx context.Context, requestID string) (*domain.WithdrawalRequest, error)
	FindByShopID(ctx context.Context, shopID string) ([]domain.WithdrawalRequest, error)
	FindAll(ctx context.Context) ([]domain.WithdrawalRequest, error)
	Decide(ctx context.Context, requestID string, status domain.WithdrawalStatus, reason string, decidedAt time.Time) (bool, error)
	AddPlatformRevenue(ctx context.Context, amount decimal.Decimal) error
	GetPlatformRevenue(ctx context.Context) (decimal.Decimal, error)
}

type ShopRepo interface {
	FindBySellerID(ctx context.Context, sellerID string) (*domain.Shop, error)
	DebitWithdrawal(ctx context.Context, shopID, withdrawalID string, amount decimal.Decimal) error
	CreditWithdrawalReversal(ctx context.Context, shopID, withdrawalID string, amount decimal.Decimal) (bool, error)
}

type Notifier interface {
	Enqueue(msg notify.Message)
}

type Service struct {
	withdrawalRepo WithdrawalRepo
	shopRepo       ShopRepo
	notifier       Notifier
	txManager      pg.TXManager
}

func New(withdrawalRepo WithdrawalRepo, shopRepo ShopRepo, notifier Notifier, txManager pg.TXManager) *Service {
	return &Service{
		withdrawalRepo: withdrawalRepo,
		shopRepo:       shopRepo,
		notifier:       notifier,
		txManager:      txManager,
	}
}

var (
	ErrRequestNotFound   = errors.New("withdrawal request not found")
	ErrShopNotFound      = errors.New("shop not found")
	ErrInvalidState      = errors.New("withdrawal request already decided")
	ErrValidation        = errors.New("invalid withdrawal payload")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrUnauthorized      = errors.New("principal lacks rights over the withdrawal")
)

// Submit reserves amount from the seller's shop balance and opens a
// Processing request. The conditional debit is the serialization point: two
// concurrent submissions cannot jointly overdraw the shop.
func (s *Service) Submit(ctx context.Context, sellerID string, amount decimal.Decimal, bank domain.BankAccount) (*domain.WithdrawalRequest, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if bank.HolderName == "" || bank.AccountNumber == "" || bank.BankName == "" {
		return nil, fmt.Errorf("%w: bank account is incomplete", ErrValidation)
	}

	shop, err := s.shopRepo.FindBySellerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}

	request := &domain.WithdrawalRequest{
		ID:          uuid.NewString(),
		ShopID:      shop.ID,
		SellerID:    shop.SellerID,
		SellerName:  shop.Name,
		SellerEmail: shop.Email,
		Amount:      amount,
		Bank:        bank,
		Status:      domain.WithdrawalStatusProcessing,
		CreatedAt:   time.Now(),
	}

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := s.withdrawalRepo.Create(ctx, request); err != nil {
			return err
		}
		return s.shopRepo.DebitWithdrawal(ctx, shop.ID, request.ID, amount)
	})
	if errors.Is(err, shoprepo.ErrInsufficientBalance) {
		return nil, ErrInsufficientFunds
	}
	if err != nil {
		zap.L().Error("can't submit withdrawal request",
			zap.String("shop_id", shop.ID),
			zap.String("amount", amount.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.notifier.Enqueue(notify.Message{
		RecipientEmail: request.SellerEmail,
		Subject:        "Withdrawal request received",
		Body: fmt.Sprintf("Your withdrawal request for %s is being processed.",
			amount.StringFixed(2)),
	})

	return request, nil
}

// Accept completes a Processing request and books the platform commission.
// The shop balance was already debited at submission and stays untouched.
func (s *Service) Accept(ctx context.Context, requestID string) (*domain.WithdrawalRequest, error) {
	request, err := s.withdrawalRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}
	if request.Status != domain.WithdrawalStatusProcessing {
		return nil, ErrInvalidState
	}

	cut, err := commission.Commission(request.Amount)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		decided, err := s.withdrawalRepo.Decide(ctx, requestID, domain.WithdrawalStatusCompleted, "", now)
		if err != nil {
			return err
		}
		if !decided {
			return ErrInvalidState
		}
		return s.withdrawalRepo.AddPlatformRevenue(ctx, cut)
	})
	if err != nil {
		zap.L().Error("can't accept withdrawal request", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}

	request.Status = domain.WithdrawalStatusCompleted
	request.DecidedAt = &now

	net, _ := commission.Net(request.Amount)
	s.notifier.Enqueue(notify.Message{
		RecipientEmail: request.SellerEmail,
		Subject:        "Withdrawal completed",
		Body: fmt.Sprintf("Your withdrawal of %s was paid out; %s after the platform fee of %s.",
			request.Amount.StringFixed(2), net.StringFixed(2), cut.StringFixed(2)),
	})

	return request, nil
}

// Reject returns the reserved amount to the shop balance.
func (s *Service) Reject(ctx context.Context, requestID, reason string) (*domain.WithdrawalRequest, error) {
	request, err := s.withdrawalRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}
	if request.Status != domain.WithdrawalStatusProcessing {
		return nil, ErrInvalidState
	}

	now := time.Now()
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		decided, err := s.withdrawalRepo.Decide(ctx, requestID, domain.WithdrawalStatusRejected, reason, now)
		if err != nil {
			return err
		}
		if !decided {
			return ErrInvalidState
		}
		_, err = s.shopRepo.CreditWithdrawalReversal(ctx, request.ShopID, requestID, request.Amount)
		return err
	})
	if err != nil {
		zap.L().Error("can't reject withdrawal request", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}

	request.Status = domain.WithdrawalStatusRejected
	request.RejectionReason = reason
	request.DecidedAt = &now

	s.notifier.Enqueue(notify.Message{
		RecipientEmail: request.SellerEmail,
		Subject:        "Withdrawal rejected",
		Body: fmt.Sprintf("Your withdrawal request for %s was rejected: %s. The amount was returned to your balance.",
			request.Amount.StringFixed(2), reason),
	})

	return request, nil
}

// List returns the requests the principal may see: sellers their own shop's,
// operators all of them.
func (s *Service) List(ctx context.Context, principal auth.Principal) ([]domain.WithdrawalRequest, error) {
	switch principal.Role {
	case auth.RoleOperator:
		return s.withdrawalRepo.FindAll(ctx)
	case auth.RoleSeller:
		shop, err := s.shopRepo.FindBySellerID(ctx, principal.ID)
		if err != nil {
			return nil, err
		}
		if shop == nil {
			return nil, ErrShopNotFound
		}
		return s.withdrawalRepo.FindByShopID(ctx, shop.ID)
	}
	return nil, ErrUnauthorized
}

// Revenue reports the accumulated platform commission.
func (s *Service) Revenue(ctx context.Context) (decimal.Decimal, error) {
	total, err := s.withdrawalRepo.GetPlatformRevenue(ctx)
	if err != nil {
		zap.L().Error("failed to get platform revenue", zap.Error(err))
		return decimal.Zero, err
	}
	return total, nil
}
