package webhook

import (
	"time"

	"github.com/prazodigital/prazos-backend/internal/deadline"
	"github.com/prazodigital/prazos-backend/pkg/db/models"
)

const dateLayout = "2006-01-02"

// NewProtocolEvent assembles the outbound payload for one protocol candidate.
// The delivery target is the tenant's protocol phone.
func NewProtocolEvent(tenant models.Tenant, protocol models.Protocol, rule models.ServiceRule, window deadline.Window, today time.Time) ProtocolEvent {
	return ProtocolEvent{
		Phone: tenant.ProtocolPhone,
		Protocol: ProtocolBody{
			ID:        protocol.ID.String(),
			Number:    protocol.Number,
			Demand:    protocol.Demand,
			Requester: protocol.Requester,
			Document:  protocol.Document,
			Phone:     protocol.Phone,
			Email:     protocol.Email,
			Status:    string(protocol.Status),
			CreatedAt: protocol.CreatedAt.Format(time.RFC3339),
		},
		Service: ServiceBody{
			Name:             rule.Name,
			ExecutionDays:    rule.ExecutionLeadDays,
			NotifyBeforeDays: rule.NotifyBeforeDays,
		},
		Deadline: DeadlineBody{
			DueDate:       window.DueDate.Format(dateLayout),
			NotifyDate:    window.NotifyFrom.Format(dateLayout),
			DaysRemaining: window.DaysRemaining(today),
		},
		Tenant:      TenantRef{ID: tenant.ID.String()},
		Credentials: credentialsOf(tenant),
	}
}

// NewAccountEvent assembles the outbound payload for one account candidate.
// Deadline notices never change account status, so both status fields carry
// the current value.
func NewAccountEvent(tenant models.Tenant, account models.Account, daysRemaining int) AccountEvent {
	return AccountEvent{
		Phone: tenant.AccountPhone,
		Flow:  FlowAccountDeadline,
		Account: AccountBody{
			ID:            account.ID.String(),
			Description:   account.Description,
			Amount:        account.Amount.StringFixed(2),
			DueDate:       account.DueDate.Format(dateLayout),
			DaysRemaining: daysRemaining,
			Overdue:       daysRemaining < 0,
		},
		PreviousStatus: string(account.Status),
		NewStatus:      string(account.Status),
		Tenant:         TenantRef{ID: tenant.ID.String()},
		Credentials:    credentialsOf(tenant),
	}
}

func credentialsOf(tenant models.Tenant) GatewayCredentials {
	return GatewayCredentials{
		TenantID:   tenant.GatewayTenantID,
		ExternalID: tenant.GatewayExternalID,
		APIToken:   tenant.GatewayAPIToken,
		ChannelID:  tenant.GatewayChannelID,
	}
}
