package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

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

type transferTestDeps struct {
	svc        *TransferServiceImpl
	walletRepo *mocks.MockWalletRepository
	txRepo     *mocks.MockTransactionRepository
	auditRepo  *mocks.MockAuditRepository
	idemRepo   *mocks.MockIdempotencyRepository
	idemCache  *mocks.MockIdempotencyCache
	transactor *mocks.MockDBTransactor
	ctrl       *gomock.Controller
}

func setupTransferService(t *testing.T) *transferTestDeps {
	ctrl := gomock.NewController(t)
	d := &transferTestDeps{
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		txRepo:     mocks.NewMockTransactionRepository(ctrl),
		auditRepo:  mocks.NewMockAuditRepository(ctrl),
		idemRepo:   mocks.NewMockIdempotencyRepository(ctrl),
		idemCache:  mocks.NewMockIdempotencyCache(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewTransferService(
		d.walletRepo, d.txRepo, d.auditRepo,
		d.idemRepo, d.idemCache, d.transactor, zerolog.Nop(),
	)
	return d
}

func TestTransferService_Transfer_Success(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	actor := testActor()
	from := sharedWallet(actor, 1000)
	from.Name = "Wallet A"
	to := sharedWallet(actor, 0)
	to.Name = "Wallet B"
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, from.ID).Return(from, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, to.ID).Return(to, nil)
	d.walletRepo.EXPECT().UpdateBalance(gomock.Any(), tx, from.ID, int64(700)).Return(nil)
	d.walletRepo.EXPECT().UpdateBalance(gomock.Any(), tx, to.ID, int64(300)).Return(nil)
	d.txRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil).Times(2)
	d.auditRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, entry *domain.AuditLog) error {
			assert.Equal(t, domain.AuditActionTransfer, entry.Action)
			assert.Contains(t, entry.Details, "Wallet A")
			assert.Contains(t, entry.Details, "Wallet B")
			return nil
		})

	result, err := d.svc.Transfer(context.Background(), actor, ports.TransferInput{
		FromWalletID: from.ID,
		ToWalletID:   to.ID,
		Amount:       300,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeDebit, result.Debit.Type)
	assert.Equal(t, domain.TransactionTypeCredit, result.Credit.Type)
	assert.Equal(t, int64(700), from.Balance)
	assert.Equal(t, int64(300), to.Balance)
}

func TestTransferService_Transfer_SameWallet(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	id := uuid.New()
	_, err := d.svc.Transfer(context.Background(), testActor(), ports.TransferInput{
		FromWalletID: id,
		ToWalletID:   id,
		Amount:       100,
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LED_400", appErr.Code)
}

func TestTransferService_Transfer_InsufficientFunds(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	actor := testActor()
	from := sharedWallet(actor, 50)
	to := sharedWallet(actor, 0)
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, from.ID).Return(from, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, to.ID).Return(to, nil)

	_, err := d.svc.Transfer(context.Background(), actor, ports.TransferInput{
		FromWalletID: from.ID,
		ToWalletID:   to.ID,
		Amount:       100,
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LED_402", appErr.Code)
	assert.Equal(t, int64(50), from.Balance)
	assert.Equal(t, int64(0), to.Balance)
}

func TestTransferService_Transfer_DestinationOtherCentre(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	actor := testActor()
	from := sharedWallet(actor, 1000)
	to := sharedWallet(testActor(), 0) // other centre
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, from.ID).Return(from, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, to.ID).Return(to, nil)

	_, err := d.svc.Transfer(context.Background(), actor, ports.TransferInput{
		FromWalletID: from.ID,
		ToWalletID:   to.ID,
		Amount:       100,
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "LED_404", appErr.Code)
}

func TestTransferService_Transfer_LocksInStableOrder(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	actor := testActor()
	a := sharedWallet(actor, 1000)
	b := sharedWallet(actor, 0)

	// Make b's UUID sort before a's so the lock order differs from the
	// argument order.
	a.ID = uuid.MustParse("ffffffff-0000-0000-0000-000000000000")
	b.ID = uuid.MustParse("00000000-0000-0000-0000-00000000ffff")
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	gomock.InOrder(
		d.walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, b.ID).Return(b, nil),
		d.walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, a.ID).Return(a, nil),
	)
	d.walletRepo.EXPECT().UpdateBalance(gomock.Any(), tx, a.ID, int64(900)).Return(nil)
	d.walletRepo.EXPECT().UpdateBalance(gomock.Any(), tx, b.ID, int64(100)).Return(nil)
	d.txRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil).Times(2)
	d.auditRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)

	_, err := d.svc.Transfer(context.Background(), actor, ports.TransferInput{
		FromWalletID: a.ID,
		ToWalletID:   b.ID,
		Amount:       100,
	})
	require.NoError(t, err)
}

func TestTransferService_Transfer_ReplayFromCache(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	actor := testActor()
	cached, err := json.Marshal(&ports.TransferResult{
		Debit:  &domain.Transaction{ID: uuid.New(), Type: domain.TransactionTypeDebit, Amount: 300},
		Credit: &domain.Transaction{ID: uuid.New(), Type: domain.TransactionTypeCredit, Amount: 300},
	})
	require.NoError(t, err)

	key := domain.BuildIdempotencyKey(actor.CentreID, "transfer", "tok-7")
	d.idemCache.EXPECT().Get(gomock.Any(), key).Return(cached, nil)

	result, err := d.svc.Transfer(context.Background(), actor, ports.TransferInput{
		FromWalletID:   uuid.New(),
		ToWalletID:     uuid.New(),
		Amount:         300,
		IdempotencyKey: "tok-7",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(300), result.Debit.Amount)
}

func TestTransferService_Transfer_ReplayFromDatabase(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	actor := testActor()
	payload, err := json.Marshal(&ports.TransferResult{
		Debit:  &domain.Transaction{ID: uuid.New(), Type: domain.TransactionTypeDebit, Amount: 450},
		Credit: &domain.Transaction{ID: uuid.New(), Type: domain.TransactionTypeCredit, Amount: 450},
	})
	require.NoError(t, err)

	key := domain.BuildIdempotencyKey(actor.CentreID, "transfer", "tok-9")
	d.idemCache.EXPECT().Get(gomock.Any(), key).Return(nil, nil)
	d.idemRepo.EXPECT().Get(gomock.Any(), key).Return(&domain.IdempotencyLog{
		Key:          key,
		Operation:    "transfer",
		ResponseJSON: payload,
		CreatedAt:    time.Now().UTC(),
	}, nil)
	d.idemCache.EXPECT().Set(gomock.Any(), key, payload, gomock.Any()).Return(nil)

	result, err := d.svc.Transfer(context.Background(), actor, ports.TransferInput{
		FromWalletID:   uuid.New(),
		ToWalletID:     uuid.New(),
		Amount:         450,
		IdempotencyKey: "tok-9",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(450), result.Credit.Amount)
}

func TestTransferService_Transfer_WithKeyWritesIdempotencyLog(t *testing.T) {
	d := setupTransferService(t)
	defer d.ctrl.Finish()

	actor := testActor()
	from := sharedWallet(actor, 1000)
	to := sharedWallet(actor, 0)
	tx := &mockTx{}
	key := domain.BuildIdempotencyKey(actor.CentreID, "transfer", "tok-1")

	d.idemCache.EXPECT().Get(gomock.Any(), key).Return(nil, nil)
	d.idemRepo.EXPECT().Get(gomock.Any(), key).Return(nil, nil)
	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, from.ID).Return(from, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, to.ID).Return(to, nil)
	d.walletRepo.EXPECT().UpdateBalance(gomock.Any(), tx, gomock.Any(), gomock.Any()).Return(nil).Times(2)
	d.txRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil).Times(2)
	d.auditRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)
	d.idemRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, log *domain.IdempotencyLog) error {
			assert.Equal(t, key, log.Key)
			assert.Equal(t, "transfer", log.Operation)
			assert.NotEmpty(t, log.ResponseJSON)
			return nil
		})
	d.idemCache.EXPECT().Set(gomock.Any(), key, gomock.Any(), gomock.Any()).Return(nil)

	_, err := d.svc.Transfer(context.Background(), actor, ports.TransferInput{
		FromWalletID:   from.ID,
		ToWalletID:     to.ID,
		Amount:         100,
		IdempotencyKey: "tok-1",
	})
	require.NoError(t, err)
}
