package service

import (
	"context"
	"errors"
	"testing"

	"centre-ledger/internal/core/domain"
	"centre-ledger/internal/core/ports"
	"centre-ledger/internal/core/ports/mocks"
	"centre-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type reportingTestDeps struct {
	svc        *ReportingServiceImpl
	walletRepo *mocks.MockWalletRepository
	txRepo     *mocks.MockTransactionRepository
	ctrl       *gomock.Controller
}

func setupReportingService(t *testing.T) *reportingTestDeps {
	ctrl := gomock.NewController(t)
	d := &reportingTestDeps{
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		txRepo:     mocks.NewMockTransactionRepository(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewReportingService(d.walletRepo, d.txRepo, zerolog.Nop())
	return d
}

func TestReportingService_CentreSnapshot(t *testing.T) {
	d := setupReportingService(t)
	defer d.ctrl.Finish()
	actor := testActor()

	till := sharedWallet(actor, 12000)
	float := sharedWallet(actor, 50000)
	float.Name = "Main Float"

	d.walletRepo.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter ports.WalletFilter) ([]domain.Wallet, error) {
			require.NotNil(t, filter.CentreID)
			assert.Equal(t, actor.CentreID, *filter.CentreID)
			require.NotNil(t, filter.AccessibleTo)
			assert.Equal(t, actor.StaffID, *filter.AccessibleTo)
			return []domain.Wallet{*till, *float}, nil
		})
	// 13000 in, 1000 out today: the till opened at 0.
	d.txRepo.EXPECT().
		Totals(gomock.Any(), till.ID, gomock.Any(), gomock.Any()).
		Return(&ports.LedgerTotals{Credits: 13000, Debits: 1000}, nil)
	// No movement on the float today.
	d.txRepo.EXPECT().
		Totals(gomock.Any(), float.ID, gomock.Any(), gomock.Any()).
		Return(&ports.LedgerTotals{}, nil)

	snapshot, err := d.svc.CentreSnapshot(context.Background(), actor)

	require.NoError(t, err)
	assert.Equal(t, actor.CentreID, snapshot.CentreID)
	require.Len(t, snapshot.Wallets, 2)

	assert.Equal(t, int64(0), snapshot.Wallets[0].Opening)
	assert.Equal(t, int64(12000), snapshot.Wallets[0].Closing)
	assert.Equal(t, int64(13000), snapshot.Wallets[0].Credits)
	assert.Equal(t, int64(1000), snapshot.Wallets[0].Debits)

	assert.Equal(t, int64(50000), snapshot.Wallets[1].Opening)
	assert.Equal(t, int64(50000), snapshot.Wallets[1].Closing)
}

func TestReportingService_CentreSnapshot_EmptyCentre(t *testing.T) {
	d := setupReportingService(t)
	defer d.ctrl.Finish()
	actor := testActor()

	d.walletRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)

	snapshot, err := d.svc.CentreSnapshot(context.Background(), actor)

	require.NoError(t, err)
	assert.Empty(t, snapshot.Wallets)
	assert.False(t, snapshot.GeneratedAt.IsZero())
}

func TestReportingService_CentreSnapshot_TotalsError(t *testing.T) {
	d := setupReportingService(t)
	defer d.ctrl.Finish()
	actor := testActor()
	till := sharedWallet(actor, 12000)

	d.walletRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return([]domain.Wallet{*till}, nil)
	d.txRepo.EXPECT().
		Totals(gomock.Any(), till.ID, gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection reset"))

	_, err := d.svc.CentreSnapshot(context.Background(), actor)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SYS_001", appErr.Code)
}
