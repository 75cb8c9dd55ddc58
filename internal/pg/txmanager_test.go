package pg

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Manager, *DB, pgxmock.PgxPoolIface) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	return NewTXManager(mockPool), New(mockPool), mockPool
}

func TestBeginCommitsOnSuccess(t *testing.T) {
	manager, db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE shops").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := manager.Begin(context.Background(), func(ctx context.Context) error {
		_, err := db.Exec(ctx, "UPDATE shops SET available_balance = 0")
		return err
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBeginRollsBackOnError(t *testing.T) {
	manager, _, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	wantErr := errors.New("boom")
	err := manager.Begin(context.Background(), func(ctx context.Context) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBeginPropagatesBeginError(t *testing.T) {
	manager, _, mock := newMock(t)

	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	err := manager.Begin(context.Background(), func(ctx context.Context) error {
		t.Fatal("fn must not run when the transaction cannot start")
		return nil
	})
	assert.Error(t, err)
}

func TestNestedBeginJoinsOpenTransaction(t *testing.T) {
	manager, db, mock := newMock(t)

	// one transaction wraps both statements
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE shops").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := manager.Begin(context.Background(), func(ctx context.Context) error {
		if _, err := db.Exec(ctx, "UPDATE orders SET order_status = 'delivered'"); err != nil {
			return err
		}
		return manager.Begin(ctx, func(ctx context.Context) error {
			_, err := db.Exec(ctx, "UPDATE shops SET available_balance = available_balance + 1")
			return err
		})
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBeginReportsCommitError(t *testing.T) {
	manager, _, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	err := manager.Begin(context.Background(), func(ctx context.Context) error {
		return nil
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "can't commit transaction")
}

func TestDatabaseRoutesOutsideTransaction(t *testing.T) {
	_, db, mock := newMock(t)

	mock.ExpectExec("DELETE FROM orders").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	_, err := db.Exec(context.Background(), "DELETE FROM orders WHERE id = 'order-1'")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
