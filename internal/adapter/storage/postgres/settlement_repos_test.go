package postgres

import (
	"context"
	"testing"
	"time"

	"centre-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServiceEntry() *domain.ServiceEntry {
	return &domain.ServiceEntry{
		ID:               uuid.New(),
		CategoryID:       uuid.New(),
		SubcategoryID:    uuid.New(),
		ServiceCharge:    20000,
		DepartmentCharge: 5000,
		TotalCharge:      25000,
		ServiceWalletID:  uuid.New(),
		Status:           domain.ServiceEntryStatusCompleted,
		StaffID:          uuid.New(),
		CentreID:         uuid.New(),
		CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestServiceEntryRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewServiceEntryRepo(mock)
	e := newTestServiceEntry()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO service_entries").
		WithArgs(e.ID, e.CategoryID, e.SubcategoryID, e.ServiceCharge, e.DepartmentCharge,
			e.TotalCharge, e.ServiceWalletID, e.Status, e.StaffID, e.CentreID, e.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, e)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceEntryRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewServiceEntryRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM service_entries WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "category_id", "subcategory_id",
			"service_charge", "department_charge", "total_charge", "service_wallet_id",
			"status", "staff_id", "centre_id", "created_at"}))

	e, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, e)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	p := &domain.Payment{
		ID:             uuid.New(),
		ServiceEntryID: uuid.New(),
		WalletID:       uuid.New(),
		Method:         domain.PaymentMethodCash,
		Amount:         25000,
		Status:         domain.PaymentStatusReceived,
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payments").
		WithArgs(p.ID, p.ServiceEntryID, p.WalletID, p.Method, p.Amount, p.Status, p.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_ListByServiceEntry(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	entryID := uuid.New()
	p := domain.Payment{
		ID:             uuid.New(),
		ServiceEntryID: entryID,
		WalletID:       uuid.New(),
		Method:         domain.PaymentMethodWallet,
		Amount:         10000,
		Status:         domain.PaymentStatusPending,
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectQuery("SELECT .+ FROM payments WHERE service_entry_id").
		WithArgs(entryID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "service_entry_id", "wallet_id",
			"method", "amount", "status", "created_at"}).
			AddRow(p.ID, p.ServiceEntryID, p.WalletID, p.Method, p.Amount, p.Status, p.CreatedAt))

	payments, err := repo.ListByServiceEntry(context.Background(), entryID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, p.ID, payments[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_GetCategory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCatalogRepo(mock)
	c := &domain.ServiceCategory{
		ID:       uuid.New(),
		Name:     "Printing",
		WalletID: uuid.New(),
		CentreID: uuid.New(),
	}

	mock.ExpectQuery("SELECT .+ FROM service_categories WHERE id").
		WithArgs(c.ID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "wallet_id", "centre_id"}).
			AddRow(c.ID, c.Name, c.WalletID, c.CentreID))

	result, err := repo.GetCategory(context.Background(), c.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, c.WalletID, result.WalletID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_GetSubcategory_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCatalogRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM service_subcategories WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "category_id", "name",
			"service_charge", "department_charge"}))

	s, err := repo.GetSubcategory(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAuditRepo(mock)
	entry := domain.NewAuditLog(domain.AuditActionTransfer, domain.Actor{
		StaffID:  uuid.New(),
		Role:     domain.RoleStaff,
		CentreID: uuid.New(),
	}, "transfer of 5000 from \"A\" to \"B\"")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(entry.ID, entry.Action, entry.PerformedBy, entry.Details,
			entry.CentreID, entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, entry)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepo_CreateAndGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdempotencyRepo(mock)
	log := &domain.IdempotencyLog{
		Key:          domain.BuildIdempotencyKey(uuid.New(), "transfer", "tok-1"),
		Operation:    "transfer",
		ResponseJSON: []byte(`{"debit":null,"credit":null}`),
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO idempotency_logs").
		WithArgs(log.Key, log.Operation, log.ResponseJSON, log.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), tx, log))

	mock.ExpectQuery("SELECT .+ FROM idempotency_logs WHERE key").
		WithArgs(log.Key).
		WillReturnRows(pgxmock.NewRows([]string{"key", "operation", "response_json", "created_at"}).
			AddRow(log.Key, log.Operation, log.ResponseJSON, log.CreatedAt))

	got, err := repo.Get(context.Background(), log.Key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, log.ResponseJSON, got.ResponseJSON)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepo_Get_Missing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdempotencyRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM idempotency_logs WHERE key").
		WithArgs("absent").
		WillReturnRows(pgxmock.NewRows([]string{"key", "operation", "response_json", "created_at"}))

	got, err := repo.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
