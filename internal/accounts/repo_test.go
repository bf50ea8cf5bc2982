package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/prazodigital/prazos-backend/pkg/db/models"
	"github.com/prazodigital/prazos-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:accounts_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	accounts := `
CREATE TABLE IF NOT EXISTS accounts (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  description TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  due_date DATETIME NOT NULL,
  status TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(accounts).Error)
	return conn
}

func seedAccount(t *testing.T, conn *gorm.DB, tenantID uuid.UUID, due time.Time, status enums.AccountStatus) models.Account {
	t.Helper()
	account := models.Account{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Description: "Taxa de registro",
		Amount:      decimal.NewFromFloat(150.50),
		DueDate:     due,
		Status:      status,
	}
	require.NoError(t, conn.Create(&account).Error)
	return account
}

func TestListDueWithin_LookaheadWindow(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	tenantID := uuid.New()
	today := time.Date(2024, time.April, 10, 12, 0, 0, 0, time.UTC)

	inWindow := seedAccount(t, conn, tenantID, today.AddDate(0, 0, 5), enums.AccountStatusPending)
	beyond := seedAccount(t, conn, tenantID, today.AddDate(0, 0, 9), enums.AccountStatusPending)

	accounts, err := repo.ListDueWithin(context.Background(), tenantID, today, 7)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, inWindow.ID, accounts[0].ID)
	_ = beyond
}

func TestListDueWithin_IncludesOverdue(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	tenantID := uuid.New()
	today := time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC)

	overdue := seedAccount(t, conn, tenantID, today.AddDate(0, 0, -2), enums.AccountStatusOverdue)

	accounts, err := repo.ListDueWithin(context.Background(), tenantID, today, 7)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, overdue.ID, accounts[0].ID)
}

func TestListDueWithin_PaidIsTerminal(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	tenantID := uuid.New()
	today := time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC)

	seedAccount(t, conn, tenantID, today, enums.AccountStatusPaid)
	seedAccount(t, conn, tenantID, today.AddDate(0, 0, -10), enums.AccountStatusPaid)

	accounts, err := repo.ListDueWithin(context.Background(), tenantID, today, 7)
	require.NoError(t, err)
	require.Empty(t, accounts)
}

func TestListDueWithin_ScopedToTenant(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	today := time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC)

	mine := uuid.New()
	seedAccount(t, conn, mine, today, enums.AccountStatusPending)
	seedAccount(t, conn, uuid.New(), today, enums.AccountStatusPending)

	accounts, err := repo.ListDueWithin(context.Background(), mine, today, 7)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, mine, accounts[0].TenantID)
}
