package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/prazodigital/prazos-backend/internal/deadline"
	"github.com/prazodigital/prazos-backend/internal/protocols"
	"github.com/prazodigital/prazos-backend/internal/registry"
	"github.com/prazodigital/prazos-backend/internal/webhook"
	"github.com/prazodigital/prazos-backend/pkg/enums"
	"github.com/prazodigital/prazos-backend/pkg/errors"
	"github.com/prazodigital/prazos-backend/pkg/logger"
	"github.com/prazodigital/prazos-backend/pkg/metrics"
)

// Sender posts one outbound event. Satisfied by webhook.Dispatcher.
type Sender interface {
	Send(ctx context.Context, event any) error
}

// ProtocolScanner walks opted-in tenants and dispatches a webhook event for
// every open protocol service inside its notify window.
type ProtocolScanner struct {
	registry  registry.Reader
	protocols protocols.Repository
	sender    Sender
	logg      *logger.Logger
	metrics   *metrics.ScanMetrics
	now       func() time.Time
}

// ProtocolScannerParams configures the scanner. Metrics and Now are optional.
type ProtocolScannerParams struct {
	Registry  registry.Reader
	Protocols protocols.Repository
	Sender    Sender
	Logger    *logger.Logger
	Metrics   *metrics.ScanMetrics
	Now       func() time.Time
}

// NewProtocolScanner wires a protocol deadline scanner.
func NewProtocolScanner(params ProtocolScannerParams) (*ProtocolScanner, error) {
	if params.Registry == nil || params.Protocols == nil || params.Sender == nil || params.Logger == nil {
		return nil, fmt.Errorf("registry, protocols, sender and logger are required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &ProtocolScanner{
		registry:  params.Registry,
		protocols: params.Protocols,
		sender:    params.Sender,
		logg:      params.Logger,
		metrics:   params.Metrics,
		now:       now,
	}, nil
}

// Run executes one scan cycle. Only a registry read failure returns an error;
// per-tenant fetch failures and per-item dispatch failures are logged and the
// cycle continues.
func (s *ProtocolScanner) Run(ctx context.Context) (*ProtocolReport, error) {
	tenants, err := s.registry.ListEnabled(ctx, enums.NotifyChannelProtocols)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "list tenants for protocol scan")
	}

	today := s.now()
	report := &ProtocolReport{
		Message: "varredura de prazos de protocolos concluida",
		Details: []ProtocolDetail{},
	}

	for _, tenant := range tenants {
		tctx := s.logg.WithTenantID(ctx, tenant.ID.String())

		open, err := s.protocols.ListOpenWithServices(tctx, tenant.ID)
		if err != nil {
			s.logg.Error(tctx, "fetch open protocols failed, tenant skipped", err)
			s.metrics.IncTenantsSkipped(KindProtocols)
			continue
		}
		rules, err := s.protocols.ListActiveRules(tctx, tenant.ID)
		if err != nil {
			s.logg.Error(tctx, "fetch service rules failed, tenant skipped", err)
			s.metrics.IncTenantsSkipped(KindProtocols)
			continue
		}
		index := protocols.RuleIndex(rules)
		if len(index) == 0 {
			continue
		}

		for _, protocol := range open {
			for _, label := range protocol.Services {
				rule, ok := index[protocols.NormalizeName(label)]
				if !ok {
					// Free-text label without a matching rule; not an error.
					continue
				}
				window := deadline.Compute(protocol.CreatedAt, rule.ExecutionLeadDays, rule.NotifyBeforeDays)
				if !window.Eligible(today) {
					continue
				}
				s.metrics.IncCandidates(KindProtocols, 1)

				event := webhook.NewProtocolEvent(tenant, protocol, rule, window, today)
				if err := s.sender.Send(tctx, event); err != nil {
					ictx := s.logg.WithFields(tctx, map[string]any{
						"protocol": protocol.Number,
						"service":  rule.Name,
					})
					s.logg.Error(ictx, "protocol deadline dispatch failed", err)
					s.metrics.IncDispatchFailure(KindProtocols)
					continue
				}
				s.metrics.IncDispatchSuccess(KindProtocols)
				report.Details = append(report.Details, ProtocolDetail{
					Protocol: protocol.Number,
					Service:  rule.Name,
					DueDate:  window.DueDate.Format("2006-01-02"),
				})
			}
		}
	}

	report.Sent = len(report.Details)
	return report, nil
}
