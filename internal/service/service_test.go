package service

import (
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/vendimo/vendimo/internal/pg"
	"github.com/vendimo/vendimo/internal/repo"
	ledgerservice "github.com/vendimo/vendimo/internal/service/ledgerservice"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mockDB.Close()

	mockTxManager := pg.NewMockTXManager(ctrl)
	repos := repo.New(mockDB, mockTxManager)
	notifier := ledgerservice.NewMockNotifier(ctrl)

	services := New(repos, notifier, mockTxManager)

	assert.NotNil(t, services.OrderService)
	assert.NotNil(t, services.WithdrawService)
	assert.NotNil(t, services.LedgerService)
}
