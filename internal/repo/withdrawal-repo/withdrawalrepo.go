package withdrawalrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vendimo/vendimo/internal/domain"
	"github.com/vendimo/vendimo/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

const withdrawalColumns = `id, shop_id, seller_id, seller_name, seller_email,
	amount, bank, status, rejection_reason, created_at, decided_at`

func (r *Repository) Create(ctx context.Context, wr *domain.WithdrawalRequest) error {
	bank, err := json.Marshal(wr.Bank)
	if err != nil {
		return fmt.Errorf("can't marshal bank account: %w", err)
	}

	query := `
        INSERT INTO withdrawals (id, shop_id, seller_id, seller_name, seller_email, amount, bank, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err = r.db.Exec(ctx, query,
		wr.ID, wr.ShopID, wr.SellerID, wr.SellerName, wr.SellerEmail,
		wr.Amount, bank, wr.Status, wr.CreatedAt,
	)
	if err != nil {
		zap.L().Error("can't create withdrawal request", zap.Error(err))
		return err
	}

	// remember the bank account for future withdrawals
	methodQuery := `
        INSERT INTO withdraw_methods (shop_id, holder_name, account_number, bank_name)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (shop_id, account_number) DO NOTHING
    `
	_, err = r.db.Exec(ctx, methodQuery, wr.ShopID, wr.Bank.HolderName, wr.Bank.AccountNumber, wr.Bank.BankName)
	if err != nil {
		zap.L().Error("can't save withdraw method", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, requestID string) (*domain.WithdrawalRequest, error) {
	query := `
        SELECT ` + withdrawalColumns + `
        FROM withdrawals
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, requestID)
	wr, err := scanWithdrawal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find withdrawal request", zap.Error(err))
		return nil, err
	}
	return wr, nil
}

func (r *Repository) FindByShopID(ctx context.Context, shopID string) ([]domain.WithdrawalRequest, error) {
	query := `
        SELECT ` + withdrawalColumns + `
        FROM withdrawals
        WHERE shop_id = $1
        ORDER BY created_at DESC
    `
	return r.findMany(ctx, query, shopID)
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.WithdrawalRequest, error) {
	query := `
        SELECT ` + withdrawalColumns + `
        FROM withdrawals
        ORDER BY created_at DESC
    `
	return r.findMany(ctx, query)
}

func (r *Repository) findMany(ctx context.Context, query string, args ...any) ([]domain.WithdrawalRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get withdrawal requests", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var requests []domain.WithdrawalRequest
	for rows.Next() {
		wr, err := scanWithdrawal(rows)
		if err != nil {
			zap.L().Error("can't scan withdrawal row", zap.Error(err))
			return nil, err
		}
		requests = append(requests, *wr)
	}
	return requests, nil
}

// Decide moves a Processing request to its terminal status. The guard in the
// WHERE clause makes a lost race visible: decided reports false when another
// operator got there first.
func (r *Repository) Decide(ctx context.Context, requestID string, status domain.WithdrawalStatus, reason string, decidedAt time.Time) (bool, error) {
	query := `
        UPDATE withdrawals
        SET status = $1, rejection_reason = $2, decided_at = $3
        WHERE id = $4 AND status = $5
    `
	tag, err := r.db.Exec(ctx, query, status, reason, decidedAt, requestID, domain.WithdrawalStatusProcessing)
	if err != nil {
		zap.L().Error("can't decide withdrawal request", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// AddPlatformRevenue accumulates platform commission with an atomic increment.
func (r *Repository) AddPlatformRevenue(ctx context.Context, amount decimal.Decimal) error {
	query := `
        UPDATE platform_revenue
        SET total = total + $1, updated_at = now()
        WHERE id = 1
    `
	_, err := r.db.Exec(ctx, query, amount)
	if err != nil {
		zap.L().Error("can't add platform revenue", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) GetPlatformRevenue(ctx context.Context) (decimal.Decimal, error) {
	query := `
        SELECT total
        FROM platform_revenue
        WHERE id = 1
    `
	var total decimal.Decimal
	if err := r.db.QueryRow(ctx, query).Scan(&total); err != nil {
		zap.L().Error("can't get platform revenue", zap.Error(err))
		return decimal.Zero, err
	}
	return total, nil
}

func scanWithdrawal(row pgx.Row) (*domain.WithdrawalRequest, error) {
	var (
		wr   domain.WithdrawalRequest
		bank []byte
	)
	err := row.Scan(
		&wr.ID, &wr.ShopID, &wr.SellerID, &wr.SellerName, &wr.SellerEmail,
		&wr.Amount, &bank, &wr.Status, &wr.RejectionReason, &wr.CreatedAt, &wr.DecidedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(bank, &wr.Bank); err != nil {
		return nil, fmt.Errorf("can't unmarshal bank account: %w", err)
	}
	return &wr, nil
}
