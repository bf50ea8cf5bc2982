package notifications

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/prazodigital/prazos-backend/pkg/db/models"
	"github.com/prazodigital/prazos-backend/pkg/enums"
)

type fakeProtocols struct {
	listOpen  func(ctx context.Context, tenantID uuid.UUID) ([]models.Protocol, error)
	listRules func(ctx context.Context, tenantID uuid.UUID) ([]models.ServiceRule, error)
}

func (f *fakeProtocols) ListOpenWithServices(ctx context.Context, tenantID uuid.UUID) ([]models.Protocol, error) {
	return f.listOpen(ctx, tenantID)
}

func (f *fakeProtocols) ListActiveRules(ctx context.Context, tenantID uuid.UUID) ([]models.ServiceRule, error) {
	return f.listRules(ctx, tenantID)
}

type fakeLedger struct {
	created []CreateParams
	insert  func(params CreateParams) (bool, error)
}

func (f *fakeLedger) Create(ctx context.Context, params CreateParams) (*models.Notification, bool, error) {
	f.created = append(f.created, params)
	inserted := true
	var err error
	if f.insert != nil {
		inserted, err = f.insert(params)
	}
	return &models.Notification{ID: uuid.New()}, inserted, err
}

func (f *fakeLedger) List(context.Context, uuid.UUID, ListParams) (*ListResult, error) {
	return &ListResult{}, nil
}

func (f *fakeLedger) MarkRead(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (f *fakeLedger) MarkAllRead(context.Context, uuid.UUID) error { return nil }

func (f *fakeLedger) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (f *fakeLedger) UnreadCount(context.Context, uuid.UUID) (int64, error) { return 0, nil }

func fixedDay(value string) func() time.Time {
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return day }
}

func openProtocol(tenantID uuid.UUID, created string, services ...string) models.Protocol {
	createdAt, _ := time.Parse("2006-01-02", created)
	return models.Protocol{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Number:    "2024/010",
		Status:    enums.ProtocolStatusInProgress,
		Services:  services,
		CreatedAt: createdAt,
	}
}

func newChecker(t *testing.T, repo *fakeProtocols, ledger *fakeLedger, today string) *DeadlineChecker {
	t.Helper()
	checker, err := NewDeadlineChecker(DeadlineCheckerParams{
		Protocols: repo,
		Ledger:    ledger,
		Logger:    testLogger(),
		Now:       fixedDay(today),
	})
	require.NoError(t, err)
	return checker
}

func TestDeadlineCheck_CreatesRowInsideWindow(t *testing.T) {
	tenantID := uuid.New()
	recipientID := uuid.New()
	repo := &fakeProtocols{
		listOpen: func(context.Context, uuid.UUID) ([]models.Protocol, error) {
			return []models.Protocol{openProtocol(tenantID, "2024-01-01", "Escritura")}, nil
		},
		listRules: func(context.Context, uuid.UUID) ([]models.ServiceRule, error) {
			return []models.ServiceRule{{Name: "Escritura", ExecutionLeadDays: 2, NotifyBeforeDays: 1, Active: true}}, nil
		},
	}
	ledger := &fakeLedger{}

	created, err := newChecker(t, repo, ledger, "2024-01-02").Run(context.Background(), recipientID, tenantID)
	require.NoError(t, err)
	require.Equal(t, 1, created)
	require.Len(t, ledger.created, 1)
	require.Equal(t, enums.NotificationTypeDeadline, ledger.created[0].Type)
	require.Equal(t, recipientID, ledger.created[0].RecipientID)
	require.NotNil(t, ledger.created[0].SourceID)
	require.NotNil(t, ledger.created[0].DueDate)
}

func TestDeadlineCheck_DedupHitNotCountedAsCreated(t *testing.T) {
	tenantID := uuid.New()
	repo := &fakeProtocols{
		listOpen: func(context.Context, uuid.UUID) ([]models.Protocol, error) {
			return []models.Protocol{openProtocol(tenantID, "2024-01-01", "Escritura")}, nil
		},
		listRules: func(context.Context, uuid.UUID) ([]models.ServiceRule, error) {
			return []models.ServiceRule{{Name: "Escritura", ExecutionLeadDays: 2, NotifyBeforeDays: 1, Active: true}}, nil
		},
	}
	ledger := &fakeLedger{insert: func(CreateParams) (bool, error) { return false, nil }}

	created, err := newChecker(t, repo, ledger, "2024-01-02").Run(context.Background(), uuid.New(), tenantID)
	require.NoError(t, err)
	require.Zero(t, created)
	require.Len(t, ledger.created, 1)
}

func TestDeadlineCheck_NothingOutsideWindow(t *testing.T) {
	tenantID := uuid.New()
	repo := &fakeProtocols{
		listOpen: func(context.Context, uuid.UUID) ([]models.Protocol, error) {
			return []models.Protocol{openProtocol(tenantID, "2024-01-01", "Escritura")}, nil
		},
		listRules: func(context.Context, uuid.UUID) ([]models.ServiceRule, error) {
			return []models.ServiceRule{{Name: "Escritura", ExecutionLeadDays: 2, NotifyBeforeDays: 1, Active: true}}, nil
		},
	}
	ledger := &fakeLedger{}

	created, err := newChecker(t, repo, ledger, "2024-01-03").Run(context.Background(), uuid.New(), tenantID)
	require.NoError(t, err)
	require.Zero(t, created)
	require.Empty(t, ledger.created)
}

func TestDeadlineCheck_OneRowPerProtocol(t *testing.T) {
	tenantID := uuid.New()
	repo := &fakeProtocols{
		listOpen: func(context.Context, uuid.UUID) ([]models.Protocol, error) {
			return []models.Protocol{openProtocol(tenantID, "2024-01-01", "Escritura", "Procuracao")}, nil
		},
		listRules: func(context.Context, uuid.UUID) ([]models.ServiceRule, error) {
			return []models.ServiceRule{
				{Name: "Escritura", ExecutionLeadDays: 2, NotifyBeforeDays: 1, Active: true},
				{Name: "Procuracao", ExecutionLeadDays: 2, NotifyBeforeDays: 1, Active: true},
			}, nil
		},
	}
	ledger := &fakeLedger{}

	created, err := newChecker(t, repo, ledger, "2024-01-02").Run(context.Background(), uuid.New(), tenantID)
	require.NoError(t, err)
	require.Equal(t, 1, created)
	require.Len(t, ledger.created, 1)
}

func TestDeadlineCheck_LedgerErrorDoesNotAbort(t *testing.T) {
	tenantID := uuid.New()
	first := openProtocol(tenantID, "2024-01-01", "Escritura")
	second := openProtocol(tenantID, "2024-01-01", "Escritura")
	repo := &fakeProtocols{
		listOpen: func(context.Context, uuid.UUID) ([]models.Protocol, error) {
			return []models.Protocol{first, second}, nil
		},
		listRules: func(context.Context, uuid.UUID) ([]models.ServiceRule, error) {
			return []models.ServiceRule{{Name: "Escritura", ExecutionLeadDays: 2, NotifyBeforeDays: 1, Active: true}}, nil
		},
	}
	calls := 0
	ledger := &fakeLedger{insert: func(CreateParams) (bool, error) {
		calls++
		if calls == 1 {
			return false, fmt.Errorf("ledger unavailable")
		}
		return true, nil
	}}

	created, err := newChecker(t, repo, ledger, "2024-01-02").Run(context.Background(), uuid.New(), tenantID)
	require.NoError(t, err)
	require.Equal(t, 1, created)
	require.Len(t, ledger.created, 2)
}
