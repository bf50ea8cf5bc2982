package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prazodigital/prazos-backend/internal/deadline"
	"github.com/prazodigital/prazos-backend/internal/protocols"
	"github.com/prazodigital/prazos-backend/pkg/enums"
	"github.com/prazodigital/prazos-backend/pkg/errors"
	"github.com/prazodigital/prazos-backend/pkg/logger"
)

const sourceKindProtocol = "protocol"

// DeadlineChecker re-evaluates a tenant's open protocols and writes an inbox
// row for each one currently inside its notify window. The ledger's dedup
// guard makes repeated runs within the same window a no-op, so the inbox
// poll can trigger this freely.
type DeadlineChecker struct {
	protocols protocols.Repository
	ledger    Service
	logg      *logger.Logger
	now       func() time.Time
}

// DeadlineCheckerParams configures the checker. Now is optional.
type DeadlineCheckerParams struct {
	Protocols protocols.Repository
	Ledger    Service
	Logger    *logger.Logger
	Now       func() time.Time
}

// NewDeadlineChecker wires an inbox deadline checker.
func NewDeadlineChecker(params DeadlineCheckerParams) (*DeadlineChecker, error) {
	if params.Protocols == nil || params.Ledger == nil || params.Logger == nil {
		return nil, fmt.Errorf("protocols, ledger and logger are required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &DeadlineChecker{
		protocols: params.Protocols,
		ledger:    params.Ledger,
		logg:      params.Logger,
		now:       now,
	}, nil
}

// Run checks every open protocol of the tenant and returns how many new
// inbox rows were created for the recipient. A ledger failure on one
// protocol does not stop the remaining ones.
func (c *DeadlineChecker) Run(ctx context.Context, recipientID, tenantID uuid.UUID) (int, error) {
	open, err := c.protocols.ListOpenWithServices(ctx, tenantID)
	if err != nil {
		return 0, errors.Wrap(errors.CodeDependency, err, "list open protocols for deadline check")
	}
	rules, err := c.protocols.ListActiveRules(ctx, tenantID)
	if err != nil {
		return 0, errors.Wrap(errors.CodeDependency, err, "list service rules for deadline check")
	}
	index := protocols.RuleIndex(rules)
	if len(index) == 0 {
		return 0, nil
	}

	today := c.now()
	created := 0
	for _, protocol := range open {
		for _, label := range protocol.Services {
			rule, ok := index[protocols.NormalizeName(label)]
			if !ok {
				continue
			}
			window := deadline.Compute(protocol.CreatedAt, rule.ExecutionLeadDays, rule.NotifyBeforeDays)
			if !window.Eligible(today) {
				continue
			}

			sourceID := protocol.ID
			kind := sourceKindProtocol
			dueDate := window.DueDate
			_, inserted, err := c.ledger.Create(ctx, CreateParams{
				RecipientID: recipientID,
				TenantID:    tenantID,
				Type:        enums.NotificationTypeDeadline,
				Priority:    enums.NotificationPriorityHigh,
				Title:       fmt.Sprintf("Prazo do protocolo %s", protocol.Number),
				Message: fmt.Sprintf(
					"O servico %q do protocolo %s vence em %s.",
					rule.Name, protocol.Number, window.DueDate.Format("02/01/2006"),
				),
				SourceID:   &sourceID,
				SourceKind: &kind,
				DueDate:    &dueDate,
				Metadata: map[string]any{
					"servico":         rule.Name,
					"dias_restantes":  window.DaysRemaining(today),
					"data_vencimento": window.DueDate.Format("2006-01-02"),
				},
			})
			if err != nil {
				ictx := c.logg.WithField(ctx, "protocol", protocol.Number)
				c.logg.Error(ictx, "deadline check ledger write failed", err)
				continue
			}
			if inserted {
				created++
			}
			// One inbox row per protocol is enough even when several
			// services are due; the dedup guard keys on the protocol.
			break
		}
	}
	return created, nil
}
