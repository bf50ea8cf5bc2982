package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/prazodigital/prazos-backend/internal/accounts"
	"github.com/prazodigital/prazos-backend/internal/deadline"
	"github.com/prazodigital/prazos-backend/internal/registry"
	"github.com/prazodigital/prazos-backend/internal/webhook"
	"github.com/prazodigital/prazos-backend/pkg/enums"
	"github.com/prazodigital/prazos-backend/pkg/errors"
	"github.com/prazodigital/prazos-backend/pkg/logger"
	"github.com/prazodigital/prazos-backend/pkg/metrics"
)

// AccountScanner walks opted-in tenants and dispatches a webhook event for
// every unsettled account inside the lookahead window or already overdue.
// Unlike protocols there is no notify-window gating: an account notifies every
// cycle it stays in range, and the gateway consumer handles de-duplication.
type AccountScanner struct {
	registry      registry.Reader
	accounts      accounts.Repository
	sender        Sender
	logg          *logger.Logger
	metrics       *metrics.ScanMetrics
	lookaheadDays int
	now           func() time.Time
}

// AccountScannerParams configures the scanner. LookaheadDays defaults to 7.
type AccountScannerParams struct {
	Registry      registry.Reader
	Accounts      accounts.Repository
	Sender        Sender
	Logger        *logger.Logger
	Metrics       *metrics.ScanMetrics
	LookaheadDays int
	Now           func() time.Time
}

const defaultLookaheadDays = 7

// NewAccountScanner wires an account deadline scanner.
func NewAccountScanner(params AccountScannerParams) (*AccountScanner, error) {
	if params.Registry == nil || params.Accounts == nil || params.Sender == nil || params.Logger == nil {
		return nil, fmt.Errorf("registry, accounts, sender and logger are required")
	}
	lookahead := params.LookaheadDays
	if lookahead <= 0 {
		lookahead = defaultLookaheadDays
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &AccountScanner{
		registry:      params.Registry,
		accounts:      params.Accounts,
		sender:        params.Sender,
		logg:          params.Logger,
		metrics:       params.Metrics,
		lookaheadDays: lookahead,
		now:           now,
	}, nil
}

// Run executes one scan cycle. Only a registry read failure returns an error.
func (s *AccountScanner) Run(ctx context.Context) (*AccountReport, error) {
	tenants, err := s.registry.ListEnabled(ctx, enums.NotifyChannelAccounts)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "list tenants for account scan")
	}

	today := s.now()
	report := &AccountReport{
		Message: "varredura de vencimentos de contas concluida",
		Details: []AccountDetail{},
	}

	for _, tenant := range tenants {
		tctx := s.logg.WithTenantID(ctx, tenant.ID.String())

		due, err := s.accounts.ListDueWithin(tctx, tenant.ID, today, s.lookaheadDays)
		if err != nil {
			s.logg.Error(tctx, "fetch due accounts failed, tenant skipped", err)
			s.metrics.IncTenantsSkipped(KindAccounts)
			continue
		}
		s.metrics.IncCandidates(KindAccounts, len(due))

		for _, account := range due {
			remaining := deadline.DaysBetween(deadline.DayOf(today), deadline.DayOf(account.DueDate))

			event := webhook.NewAccountEvent(tenant, account, remaining)
			if err := s.sender.Send(tctx, event); err != nil {
				ictx := s.logg.WithField(tctx, "account", account.ID.String())
				s.logg.Error(ictx, "account deadline dispatch failed", err)
				s.metrics.IncDispatchFailure(KindAccounts)
				continue
			}
			s.metrics.IncDispatchSuccess(KindAccounts)
			report.Details = append(report.Details, AccountDetail{
				Account:       account.ID.String(),
				DueDate:       account.DueDate.Format("2006-01-02"),
				DaysRemaining: remaining,
			})
		}
	}

	report.Sent = len(report.Details)
	return report, nil
}
