package service

import (
	"context"
	"testing"

	"centre-ledger/internal/core/domain"
	"centre-ledger/internal/core/ports"
	"centre-ledger/internal/core/ports/mocks"
	"centre-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type walletTestDeps struct {
	svc        *WalletServiceImpl
	walletRepo *mocks.MockWalletRepository
	txRepo     *mocks.MockTransactionRepository
	auditRepo  *mocks.MockAuditRepository
	transactor *mocks.MockDBTransactor
	ctrl       *gomock.Controller
}

func setupWalletService(t *testing.T) *walletTestDeps {
	ctrl := gomock.NewController(t)
	d := &walletTestDeps{
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		txRepo:     mocks.NewMockTransactionRepository(ctrl),
		auditRepo:  mocks.NewMockAuditRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewWalletService(d.walletRepo, d.txRepo, d.auditRepo, d.transactor, zerolog.Nop())
	return d
}

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

func testActor() domain.Actor {
	return domain.Actor{
		StaffID:  uuid.New(),
		Role:     domain.RoleStaff,
		CentreID: uuid.New(),
	}
}

func sharedWallet(actor domain.Actor, balance int64) *domain.Wallet {
	return &domain.Wallet{
		ID:       uuid.New(),
		Name:     "Front Desk Cash",
		Type:     domain.WalletTypeCash,
		Balance:  balance,
		IsShared: true,
		Status:   domain.WalletStatusOnline,
		CentreID: actor.CentreID,
	}
}

func TestWalletService_Create_WithOpeningBalance(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	actor := testActor()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.walletRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)
	// Opening balance goes through the ledger, not a bare column write.
	d.walletRepo.EXPECT().UpdateBalance(gomock.Any(), tx, gomock.Any(), int64(50000)).Return(nil)
	d.txRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, entry *domain.Transaction) error {
			assert.Equal(t, domain.TransactionTypeCredit, entry.Type)
			assert.Equal(t, int64(50000), entry.Amount)
			assert.Equal(t, "opening balance", entry.Category)
			return nil
		})
	d.auditRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, entry *domain.AuditLog) error {
			assert.Equal(t, domain.AuditActionWalletCreated, entry.Action)
			assert.Equal(t, actor.StaffID, entry.PerformedBy)
			return nil
		})

	w, err := d.svc.Create(context.Background(), actor, ports.CreateWalletInput{
		Name:           "Front Desk Cash",
		Type:           domain.WalletTypeCash,
		InitialBalance: 50000,
		IsShared:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50000), w.Balance)
	assert.Equal(t, actor.CentreID, w.CentreID)
	assert.Equal(t, domain.WalletStatusOnline, w.Status)
}

func TestWalletService_Create_PrivateNeedsAssignee(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.Create(context.Background(), testActor(), ports.CreateWalletInput{
		Name:     "Personal Float",
		Type:     domain.WalletTypeCash,
		IsShared: false,
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VAL_001", appErr.Code)
}

func TestWalletService_Create_NegativeOpeningBalance(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.Create(context.Background(), testActor(), ports.CreateWalletInput{
		Name:           "Bad",
		Type:           domain.WalletTypeBank,
		InitialBalance: -1,
		IsShared:       true,
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VAL_001", appErr.Code)
}

func TestWalletService_Get_OtherCentreReadsAsNotFound(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	actor := testActor()
	other := sharedWallet(testActor(), 100) // different centre

	d.walletRepo.EXPECT().GetByID(gomock.Any(), other.ID).Return(other, nil)

	_, err := d.svc.Get(context.Background(), actor, other.ID)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LED_404", appErr.Code)
}

func TestWalletService_Get_PrivateWalletDenied(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	actor := testActor()
	owner := uuid.New()
	w := sharedWallet(actor, 100)
	w.IsShared = false
	w.AssignedStaffID = &owner

	d.walletRepo.EXPECT().GetByID(gomock.Any(), w.ID).Return(w, nil)

	_, err := d.svc.Get(context.Background(), actor, w.ID)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LED_403", appErr.Code)
}

func TestWalletService_List_ScopedToActor(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	actor := testActor()
	d.walletRepo.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, filter ports.WalletFilter) ([]domain.Wallet, error) {
			require.NotNil(t, filter.CentreID)
			require.NotNil(t, filter.AccessibleTo)
			assert.Equal(t, actor.CentreID, *filter.CentreID)
			assert.Equal(t, actor.StaffID, *filter.AccessibleTo)
			return []domain.Wallet{*sharedWallet(actor, 500)}, nil
		})

	wallets, err := d.svc.List(context.Background(), actor, ports.WalletListFilter{})
	require.NoError(t, err)
	assert.Len(t, wallets, 1)
}

func TestWalletService_Update_PatchesFields(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	actor := testActor()
	w := sharedWallet(actor, 0)
	tx := &mockTx{}
	newName := "Drawer Two"

	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, w.ID).Return(w, nil)
	d.walletRepo.EXPECT().Update(gomock.Any(), tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, updated *domain.Wallet) error {
			assert.Equal(t, newName, updated.Name)
			return nil
		})
	d.auditRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)

	updated, err := d.svc.Update(context.Background(), actor, w.ID, ports.UpdateWalletInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
}

func TestWalletService_Delete_NonZeroBalanceConflicts(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	actor := testActor()
	w := sharedWallet(actor, 700)
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, w.ID).Return(w, nil)

	err := d.svc.Delete(context.Background(), actor, w.ID)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LED_409", appErr.Code)
}

func TestWalletService_Delete_HistoryConflicts(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	actor := testActor()
	w := sharedWallet(actor, 0)
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, w.ID).Return(w, nil)
	d.walletRepo.EXPECT().HasHistory(gomock.Any(), w.ID).Return(true, nil)

	err := d.svc.Delete(context.Background(), actor, w.ID)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LED_409", appErr.Code)
}

func TestWalletService_Delete_CleanWallet(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	actor := testActor()
	w := sharedWallet(actor, 0)
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, w.ID).Return(w, nil)
	d.walletRepo.EXPECT().HasHistory(gomock.Any(), w.ID).Return(false, nil)
	d.walletRepo.EXPECT().Delete(gomock.Any(), tx, w.ID).Return(nil)
	d.auditRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, entry *domain.AuditLog) error {
			assert.Equal(t, domain.AuditActionWalletDeleted, entry.Action)
			return nil
		})

	err := d.svc.Delete(context.Background(), actor, w.ID)
	assert.NoError(t, err)
}
