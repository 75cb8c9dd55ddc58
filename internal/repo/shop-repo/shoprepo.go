package shoprepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vendimo/vendimo/internal/domain"
	"github.com/vendimo/vendimo/internal/pg"
)

// ErrInsufficientBalance is returned when a conditional debit matches no row,
// i.e. the stored balance does not cover the requested amount.
var ErrInsufficientBalance = errors.New("insufficient shop balance")

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) FindByID(ctx context.Context, shopID string) (*domain.Shop, error) {
	query := `
        SELECT id, seller_id, name, email, available_balance, created_at
        FROM shops
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, shopID)
	var shop domain.Shop
	err := row.Scan(&shop.ID, &shop.SellerID, &shop.Name, &shop.Email, &shop.AvailableBalance, &shop.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find shop", zap.Error(err))
		return nil, err
	}
	return &shop, nil
}

func (r *Repository) FindBySellerID(ctx context.Context, sellerID string) (*domain.Shop, error) {
	query := `
        SELECT id, seller_id, name, email, available_balance, created_at
        FROM shops
        WHERE seller_id = $1
    `
	row := r.db.QueryRow(ctx, query, sellerID)
	var shop domain.Shop
	err := row.Scan(&shop.ID, &shop.SellerID, &shop.Name, &shop.Email, &shop.AvailableBalance, &shop.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find shop by seller", zap.Error(err))
		return nil, err
	}
	return &shop, nil
}

const insertTransaction = `
        INSERT INTO shop_transactions (shop_id, order_id, withdrawal_id, amount, tx_type, status, description)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT DO NOTHING
        RETURNING id
    `

// insertLedgerRecord appends one transaction row. The unique indexes on
// (order_id, tx_type) and (withdrawal_id, tx_type) make the append
// idempotent: a replayed record reports inserted = false.
func (r *Repository) insertLedgerRecord(ctx context.Context, tx domain.Transaction) (bool, error) {
	var id int64
	err := r.db.QueryRow(ctx, insertTransaction,
		tx.ShopID, tx.OrderID, tx.WithdrawalID, tx.Amount, tx.Type, domain.TransactionStatusCompleted, tx.Description,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		zap.L().Error("can't append ledger transaction", zap.Error(err))
		return false, err
	}
	return true, nil
}

// credit applies an unconditional atomic increment to the stored balance.
func (r *Repository) credit(ctx context.Context, shopID string, amount decimal.Decimal) error {
	query := `
        UPDATE shops
        SET available_balance = available_balance + $1
        WHERE id = $2
    `
	tag, err := r.db.Exec(ctx, query, amount, shopID)
	if err != nil {
		zap.L().Error("can't credit shop balance", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// debit decrements the stored balance only when it covers amount; the
// check and the write are one statement, so concurrent debits cannot
// overdraw the shop.
func (r *Repository) debit(ctx context.Context, shopID string, amount decimal.Decimal) error {
	query := `
        UPDATE shops
        SET available_balance = available_balance - $1
        WHERE id = $2 AND available_balance >= $1
    `
	tag, err := r.db.Exec(ctx, query, amount, shopID)
	if err != nil {
		zap.L().Error("can't debit shop balance", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// CreditOrderPayment credits the order total to the shop and records an
// order_payment transaction. Replays return applied = false without touching
// the balance.
func (r *Repository) CreditOrderPayment(ctx context.Context, shopID, orderID string, amount decimal.Decimal) (bool, error) {
	applied := false
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		inserted, err := r.insertLedgerRecord(ctx, domain.Transaction{
			ShopID:      shopID,
			OrderID:     &orderID,
			Amount:      amount,
			Type:        domain.TransactionOrderPayment,
			Description: "order delivered",
		})
		if err != nil || !inserted {
			return err
		}
		applied = true
		return r.credit(ctx, shopID, amount)
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// DebitRefund takes the order total back after a refund or a cancellation of
// a settled order; description names the triggering event in the ledger. It
// refuses to debit a shop that was never credited for the order, and applies
// at most once.
func (r *Repository) DebitRefund(ctx context.Context, shopID, orderID string, amount decimal.Decimal, description string) (bool, error) {
	applied := false
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		var credited bool
		checkQuery := `
        SELECT EXISTS (
            SELECT 1 FROM shop_transactions
            WHERE order_id = $1 AND tx_type = $2
        )
    `
		if err := r.db.QueryRow(ctx, checkQuery, orderID, domain.TransactionOrderPayment).Scan(&credited); err != nil {
			zap.L().Error("can't check prior order credit", zap.Error(err))
			return err
		}
		if !credited {
			return nil
		}

		inserted, err := r.insertLedgerRecord(ctx, domain.Transaction{
			ShopID:      shopID,
			OrderID:     &orderID,
			Amount:      amount.Neg(),
			Type:        domain.TransactionRefund,
			Description: description,
		})
		if err != nil || !inserted {
			return err
		}
		applied = true
		return r.debit(ctx, shopID, amount)
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// DebitWithdrawal reserves amount for a withdrawal request: conditional debit
// plus a withdraw transaction in one unit.
func (r *Repository) DebitWithdrawal(ctx context.Context, shopID, withdrawalID string, amount decimal.Decimal) error {
	return r.txManager.Begin(ctx, func(ctx context.Context) error {
		if err := r.debit(ctx, shopID, amount); err != nil {
			return err
		}
		_, err := r.insertLedgerRecord(ctx, domain.Transaction{
			ShopID:       shopID,
			WithdrawalID: &withdrawalID,
			Amount:       amount.Neg(),
			Type:         domain.TransactionWithdraw,
			Description:  "withdrawal requested",
		})
		return err
	})
}

// CreditWithdrawalReversal returns the reserved amount after a rejection.
func (r *Repository) CreditWithdrawalReversal(ctx context.Context, shopID, withdrawalID string, amount decimal.Decimal) (bool, error) {
	applied := false
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		inserted, err := r.insertLedgerRecord(ctx, domain.Transaction{
			ShopID:       shopID,
			WithdrawalID: &withdrawalID,
			Amount:       amount,
			Type:         domain.TransactionWithdrawReversal,
			Description:  "withdrawal rejected",
		})
		if err != nil || !inserted {
			return err
		}
		applied = true
		return r.credit(ctx, shopID, amount)
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (r *Repository) GetTransactions(ctx context.Context, shopID string) ([]domain.Transaction, error) {
	query := `
        SELECT id, shop_id, order_id, withdrawal_id, amount, tx_type, status, description, created_at
        FROM shop_transactions
        WHERE shop_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, shopID)
	if err != nil {
		zap.L().Error("can't get shop transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		err := rows.Scan(&tx.ID, &tx.ShopID, &tx.OrderID, &tx.WithdrawalID, &tx.Amount, &tx.Type, &tx.Status, &tx.Description, &tx.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan transaction row", zap.Error(err))
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// RecomputeBalance derives the balance by aggregation: settled order totals
// minus outstanding and paid withdrawals. Used only as a reconciliation
// check against the stored balance, never to approve a withdrawal.
func (r *Repository) RecomputeBalance(ctx context.Context, shopID string) (decimal.Decimal, error) {
	query := `
        SELECT
            COALESCE((SELECT SUM(total_price) FROM orders
                WHERE shop_id = $1 AND order_status IN ('delivered', 'received')), 0)
          - COALESCE((SELECT SUM(amount) FROM withdrawals
                WHERE shop_id = $1 AND status IN ('Processing', 'Completed')), 0)
    `
	var balance decimal.Decimal
	if err := r.db.QueryRow(ctx, query, shopID).Scan(&balance); err != nil {
		zap.L().Error("can't recompute shop balance", zap.Error(err))
		return decimal.Zero, err
	}
	return balance, nil
}
