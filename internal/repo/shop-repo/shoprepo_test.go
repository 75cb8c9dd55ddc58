package shoprepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vendimo/vendimo/internal/domain"
	"github.com/vendimo/vendimo/internal/pg"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	ctrl := gomock.NewController(t)
	mockTxManager := pg.NewMockTXManager(ctrl)
	mockTxManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}).AnyTimes()

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)
	t.Cleanup(mockDB.Close)

	return repo, mockDB
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

const selectShopByID = `SELECT id, seller_id, name, email, available_balance, created_at FROM shops WHERE id = $1`

func TestRepository_FindByID(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	tests := []struct {
		name      string
		shopID    string
		mockSetup func()
		expectErr bool
		found     bool
	}{
		{
			name:   "existing shop",
			shopID: "shop-1",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "seller_id", "name", "email", "available_balance", "created_at"}).
					AddRow("shop-1", "seller-1", "Gadget Shop", "seller@example.com", dec("100.00"), now)
				mock.ExpectQuery(regexp.QuoteMeta(selectShopByID)).
					WithArgs("shop-1").
					WillReturnRows(rows)
			},
			found: true,
		},
		{
			name:   "missing shop returns nil",
			shopID: "shop-404",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(selectShopByID)).
					WithArgs("shop-404").
					WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name:   "database error",
			shopID: "shop-1",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(selectShopByID)).
					WithArgs("shop-1").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			shop, err := repo.FindByID(context.Background(), tt.shopID)

			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			if !tt.found {
				assert.Nil(t, shop)
				return
			}
			require.NotNil(t, shop)
			assert.Equal(t, "Gadget Shop", shop.Name)
			assert.True(t, shop.AvailableBalance.Equal(dec("100.00")))
		})
	}
}

func TestRepository_CreditOrderPayment(t *testing.T) {
	t.Run("first credit applies", func(t *testing.T) {
		repo, mock := NewMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO shop_transactions`)).
			WithArgs("shop-1", ptr("order-1"), (*string)(nil), dec("100.00"), domain.TransactionOrderPayment, domain.TransactionStatusCompleted, "order delivered").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE shops SET available_balance = available_balance + $1 WHERE id = $2`)).
			WithArgs(dec("100.00"), "shop-1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		applied, err := repo.CreditOrderPayment(context.Background(), "shop-1", "order-1", dec("100.00"))
		require.NoError(t, err)
		assert.True(t, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replay is swallowed by the idempotency key", func(t *testing.T) {
		repo, mock := NewMock(t)
		// ON CONFLICT DO NOTHING returns no row on the second attempt
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO shop_transactions`)).
			WithArgs("shop-1", ptr("order-1"), (*string)(nil), dec("100.00"), domain.TransactionOrderPayment, domain.TransactionStatusCompleted, "order delivered").
			WillReturnError(pgx.ErrNoRows)

		applied, err := repo.CreditOrderPayment(context.Background(), "shop-1", "order-1", dec("100.00"))
		require.NoError(t, err)
		assert.False(t, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_DebitRefund(t *testing.T) {
	checkQuery := `SELECT EXISTS`

	t.Run("refund after credit", func(t *testing.T) {
		repo, mock := NewMock(t)
		mock.ExpectQuery(checkQuery).
			WithArgs("order-1", domain.TransactionOrderPayment).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO shop_transactions`)).
			WithArgs("shop-1", ptr("order-1"), (*string)(nil), dec("-50.00"), domain.TransactionRefund, domain.TransactionStatusCompleted, "order refunded").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(2)))
		mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $2 AND available_balance >= $1`)).
			WithArgs(dec("50.00"), "shop-1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		applied, err := repo.DebitRefund(context.Background(), "shop-1", "order-1", dec("50.00"), "order refunded")
		require.NoError(t, err)
		assert.True(t, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancel reversal keeps its own label", func(t *testing.T) {
		repo, mock := NewMock(t)
		mock.ExpectQuery(checkQuery).
			WithArgs("order-1", domain.TransactionOrderPayment).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO shop_transactions`)).
			WithArgs("shop-1", ptr("order-1"), (*string)(nil), dec("-50.00"), domain.TransactionRefund, domain.TransactionStatusCompleted, "order cancelled").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(2)))
		mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $2 AND available_balance >= $1`)).
			WithArgs(dec("50.00"), "shop-1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		applied, err := repo.DebitRefund(context.Background(), "shop-1", "order-1", dec("50.00"), "order cancelled")
		require.NoError(t, err)
		assert.True(t, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("refund without prior credit is refused", func(t *testing.T) {
		repo, mock := NewMock(t)
		mock.ExpectQuery(checkQuery).
			WithArgs("order-1", domain.TransactionOrderPayment).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		applied, err := repo.DebitRefund(context.Background(), "shop-1", "order-1", dec("50.00"), "order refunded")
		require.NoError(t, err)
		assert.False(t, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("balance below refund", func(t *testing.T) {
		repo, mock := NewMock(t)
		mock.ExpectQuery(checkQuery).
			WithArgs("order-1", domain.TransactionOrderPayment).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO shop_transactions`)).
			WithArgs("shop-1", ptr("order-1"), (*string)(nil), dec("-50.00"), domain.TransactionRefund, domain.TransactionStatusCompleted, "order refunded").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(2)))
		// conditional debit matches no row
		mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $2 AND available_balance >= $1`)).
			WithArgs(dec("50.00"), "shop-1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		_, err := repo.DebitRefund(context.Background(), "shop-1", "order-1", dec("50.00"), "order refunded")
		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})
}

func TestRepository_DebitWithdrawal(t *testing.T) {
	t.Run("reserves when balance covers", func(t *testing.T) {
		repo, mock := NewMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $2 AND available_balance >= $1`)).
			WithArgs(dec("60.00"), "shop-1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO shop_transactions`)).
			WithArgs("shop-1", (*string)(nil), ptr("wr-1"), dec("-60.00"), domain.TransactionWithdraw, domain.TransactionStatusCompleted, "withdrawal requested").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))

		err := repo.DebitWithdrawal(context.Background(), "shop-1", "wr-1", dec("60.00"))
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient balance", func(t *testing.T) {
		repo, mock := NewMock(t)
		mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $2 AND available_balance >= $1`)).
			WithArgs(dec("150.00"), "shop-1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.DebitWithdrawal(context.Background(), "shop-1", "wr-1", dec("150.00"))
		assert.ErrorIs(t, err, ErrInsufficientBalance)
	})
}

func TestRepository_CreditWithdrawalReversal(t *testing.T) {
	repo, mock := NewMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO shop_transactions`)).
		WithArgs("shop-1", (*string)(nil), ptr("wr-1"), dec("60.00"), domain.TransactionWithdrawReversal, domain.TransactionStatusCompleted, "withdrawal rejected").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(4)))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE shops SET available_balance = available_balance + $1 WHERE id = $2`)).
		WithArgs(dec("60.00"), "shop-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	applied, err := repo.CreditWithdrawalReversal(context.Background(), "shop-1", "wr-1", dec("60.00"))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetTransactions(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "shop_id", "order_id", "withdrawal_id", "amount", "tx_type", "status", "description", "created_at"}).
		AddRow(int64(1), "shop-1", ptr("order-1"), nil, dec("100.00"), domain.TransactionOrderPayment, "Completed", "order delivered", now).
		AddRow(int64(2), "shop-1", nil, ptr("wr-1"), dec("-60.00"), domain.TransactionWithdraw, "Completed", "withdrawal requested", now)
	mock.ExpectQuery(`SELECT id, shop_id, order_id, withdrawal_id, amount, tx_type, status, description, created_at`).
		WithArgs("shop-1").
		WillReturnRows(rows)

	txs, err := repo.GetTransactions(context.Background(), "shop-1")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, domain.TransactionOrderPayment, txs[0].Type)
	assert.True(t, txs[1].Amount.Equal(dec("-60.00")))
}

func TestRepository_RecomputeBalance(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectQuery(`SELECT`).
		WithArgs("shop-1").
		WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(dec("40.00")))

	balance, err := repo.RecomputeBalance(context.Background(), "shop-1")
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("40.00")))
}

func ptr(s string) *string {
	return &s
}
