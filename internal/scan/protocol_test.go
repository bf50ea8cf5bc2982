package scan

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/prazodigital/prazos-backend/pkg/db/models"
	"github.com/prazodigital/prazos-backend/pkg/enums"
	"github.com/prazodigital/prazos-backend/pkg/logger"
)

type fakeRegistry struct {
	listEnabled func(ctx context.Context, channel enums.NotifyChannel) ([]models.Tenant, error)
}

func (f *fakeRegistry) ListEnabled(ctx context.Context, channel enums.NotifyChannel) ([]models.Tenant, error) {
	return f.listEnabled(ctx, channel)
}

func (f *fakeRegistry) FindByID(ctx context.Context, id string) (*models.Tenant, error) {
	return nil, fmt.Errorf("not implemented")
}

type fakeProtocolRepo struct {
	listOpen  func(ctx context.Context, tenantID uuid.UUID) ([]models.Protocol, error)
	listRules func(ctx context.Context, tenantID uuid.UUID) ([]models.ServiceRule, error)
}

func (f *fakeProtocolRepo) ListOpenWithServices(ctx context.Context, tenantID uuid.UUID) ([]models.Protocol, error) {
	return f.listOpen(ctx, tenantID)
}

func (f *fakeProtocolRepo) ListActiveRules(ctx context.Context, tenantID uuid.UUID) ([]models.ServiceRule, error) {
	return f.listRules(ctx, tenantID)
}

type fakeSender struct {
	events []any
	fail   func(call int) error
}

func (f *fakeSender) Send(ctx context.Context, event any) error {
	call := len(f.events)
	f.events = append(f.events, event)
	if f.fail != nil {
		return f.fail(call)
	}
	return nil
}

func scanLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func fixedDay(value string) func() time.Time {
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return day }
}

func testTenant() models.Tenant {
	return models.Tenant{
		ID:                     uuid.New(),
		Name:                   "Cartorio Central",
		NotifyProtocolsEnabled: true,
		ProtocolPhone:          "+5511999990000",
		NotifyAccountsEnabled:  true,
		AccountPhone:           "+5511999990001",
		Active:                 true,
	}
}

func testProtocol(tenantID uuid.UUID, createdAt time.Time, services ...string) models.Protocol {
	return models.Protocol{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Number:    "2024/001",
		Status:    enums.ProtocolStatusReceived,
		Services:  services,
		CreatedAt: createdAt,
	}
}

func newProtocolScanner(t *testing.T, reg *fakeRegistry, repo *fakeProtocolRepo, sender *fakeSender, today string) *ProtocolScanner {
	t.Helper()
	scanner, err := NewProtocolScanner(ProtocolScannerParams{
		Registry:  reg,
		Protocols: repo,
		Sender:    sender,
		Logger:    scanLogger(),
		Now:       fixedDay(today),
	})
	require.NoError(t, err)
	return scanner
}

func TestProtocolScan_EmitsInsideNotifyWindow(t *testing.T) {
	tenant := testTenant()
	created, _ := time.Parse("2006-01-02", "2024-01-01")
	reg := &fakeRegistry{listEnabled: func(context.Context, enums.NotifyChannel) ([]models.Tenant, error) {
		return []models.Tenant{tenant}, nil
	}}
	repo := &fakeProtocolRepo{
		listOpen: func(context.Context, uuid.UUID) ([]models.Protocol, error) {
			return []models.Protocol{testProtocol(tenant.ID, created, "Escritura")}, nil
		},
		listRules: func(context.Context, uuid.UUID) ([]models.ServiceRule, error) {
			return []models.ServiceRule{{TenantID: tenant.ID, Name: "escritura", ExecutionLeadDays: 2, NotifyBeforeDays: 1, Active: true}}, nil
		},
	}
	sender := &fakeSender{}

	report, err := newProtocolScanner(t, reg, repo, sender, "2024-01-02").Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Sent)
	require.Len(t, sender.events, 1)
	require.Equal(t, "2024-01-03", report.Details[0].DueDate)
	require.Equal(t, "2024/001", report.Details[0].Protocol)
}

func TestProtocolScan_NothingOnDueDate(t *testing.T) {
	tenant := testTenant()
	created, _ := time.Parse("2006-01-02", "2024-01-01")
	reg := &fakeRegistry{listEnabled: func(context.Context, enums.NotifyChannel) ([]models.Tenant, error) {
		return []models.Tenant{tenant}, nil
	}}
	repo := &fakeProtocolRepo{
		listOpen: func(context.Context, uuid.UUID) ([]models.Protocol, error) {
			return []models.Protocol{testProtocol(tenant.ID, created, "Escritura")}, nil
		},
		listRules: func(context.Context, uuid.UUID) ([]models.ServiceRule, error) {
			return []models.ServiceRule{{TenantID: tenant.ID, Name: "Escritura", ExecutionLeadDays: 2, NotifyBeforeDays: 1, Active: true}}, nil
		},
	}
	sender := &fakeSender{}

	report, err := newProtocolScanner(t, reg, repo, sender, "2024-01-03").Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, report.Sent)
	require.Empty(t, sender.events)
}

func TestProtocolScan_UnmatchedLabelSkippedSilently(t *testing.T) {
	tenant := testTenant()
	created, _ := time.Parse("2006-01-02", "2024-01-01")
	reg := &fakeRegistry{listEnabled: func(context.Context, enums.NotifyChannel) ([]models.Tenant, error) {
		return []models.Tenant{tenant}, nil
	}}
	repo := &fakeProtocolRepo{
		listOpen: func(context.Context, uuid.UUID) ([]models.Protocol, error) {
			return []models.Protocol{testProtocol(tenant.ID, created, "Procuracao")}, nil
		},
		listRules: func(context.Context, uuid.UUID) ([]models.ServiceRule, error) {
			return []models.ServiceRule{{TenantID: tenant.ID, Name: "Escritura", ExecutionLeadDays: 2, NotifyBeforeDays: 1, Active: true}}, nil
		},
	}
	sender := &fakeSender{}

	report, err := newProtocolScanner(t, reg, repo, sender, "2024-01-02").Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, report.Sent)
	require.Empty(t, sender.events)
}

func TestProtocolScan_FailingTenantDoesNotAbortOthers(t *testing.T) {
	okTenant := testTenant()
	brokenTenant := testTenant()
	created, _ := time.Parse("2006-01-02", "2024-01-01")
	reg := &fakeRegistry{listEnabled: func(context.Context, enums.NotifyChannel) ([]models.Tenant, error) {
		return []models.Tenant{brokenTenant, okTenant}, nil
	}}
	repo := &fakeProtocolRepo{
		listOpen: func(_ context.Context, tenantID uuid.UUID) ([]models.Protocol, error) {
			if tenantID == brokenTenant.ID {
				return nil, fmt.Errorf("connection reset")
			}
			return []models.Protocol{testProtocol(okTenant.ID, created, "Escritura")}, nil
		},
		listRules: func(context.Context, uuid.UUID) ([]models.ServiceRule, error) {
			return []models.ServiceRule{{Name: "Escritura", ExecutionLeadDays: 2, NotifyBeforeDays: 1, Active: true}}, nil
		},
	}
	sender := &fakeSender{}

	report, err := newProtocolScanner(t, reg, repo, sender, "2024-01-02").Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Sent)
}

func TestProtocolScan_FailingDispatchDoesNotAbortBatch(t *testing.T) {
	tenant := testTenant()
	created, _ := time.Parse("2006-01-02", "2024-01-01")
	first := testProtocol(tenant.ID, created, "Escritura")
	second := testProtocol(tenant.ID, created, "Escritura")
	third := testProtocol(tenant.ID, created, "Escritura")
	second.Number = "2024/002"
	third.Number = "2024/003"

	reg := &fakeRegistry{listEnabled: func(context.Context, enums.NotifyChannel) ([]models.Tenant, error) {
		return []models.Tenant{tenant}, nil
	}}
	repo := &fakeProtocolRepo{
		listOpen: func(context.Context, uuid.UUID) ([]models.Protocol, error) {
			return []models.Protocol{first, second, third}, nil
		},
		listRules: func(context.Context, uuid.UUID) ([]models.ServiceRule, error) {
			return []models.ServiceRule{{Name: "Escritura", ExecutionLeadDays: 2, NotifyBeforeDays: 1, Active: true}}, nil
		},
	}
	sender := &fakeSender{fail: func(call int) error {
		if call == 1 {
			return fmt.Errorf("gateway timeout")
		}
		return nil
	}}

	report, err := newProtocolScanner(t, reg, repo, sender, "2024-01-02").Run(context.Background())
	require.NoError(t, err)
	require.Len(t, sender.events, 3)
	require.Equal(t, 2, report.Sent)
	require.Equal(t, "2024/001", report.Details[0].Protocol)
	require.Equal(t, "2024/003", report.Details[1].Protocol)
}

func TestProtocolScan_RegistryFailureIsFatal(t *testing.T) {
	reg := &fakeRegistry{listEnabled: func(context.Context, enums.NotifyChannel) ([]models.Tenant, error) {
		return nil, fmt.Errorf("registry down")
	}}
	repo := &fakeProtocolRepo{}
	sender := &fakeSender{}

	report, err := newProtocolScanner(t, reg, repo, sender, "2024-01-02").Run(context.Background())
	require.Error(t, err)
	require.Nil(t, report)
}
