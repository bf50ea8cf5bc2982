package webhook

// Payload shapes are part of the external contract with the messaging
// gateway. Field names are fixed; do not rename without coordinating with
// the consumer.

// GatewayCredentials is the opaque credential block copied from the tenant
// record into every event, unmodified.
type GatewayCredentials struct {
	TenantID   string `json:"tenant_id_zdg"`
	ExternalID string `json:"external_id_zdg"`
	APIToken   string `json:"api_token_zdg"`
	ChannelID  string `json:"channel_id_zdg"`
}

// TenantRef identifies the notary office the event belongs to.
type TenantRef struct {
	ID string `json:"id"`
}

// ProtocolBody carries the protocol fields the gateway renders into the
// outbound message.
type ProtocolBody struct {
	ID        string `json:"id"`
	Number    string `json:"numero"`
	Demand    string `json:"demanda"`
	Requester string `json:"solicitante"`
	Document  string `json:"cpf_cnpj"`
	Phone     string `json:"telefone"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	CreatedAt string `json:"data_criacao"`
}

// ServiceBody describes the matched rule.
type ServiceBody struct {
	Name             string `json:"nome"`
	ExecutionDays    int    `json:"prazo_execucao"`
	NotifyBeforeDays int    `json:"dias_notificacao_antes_vencimento"`
}

// DeadlineBody describes the computed window.
type DeadlineBody struct {
	DueDate       string `json:"data_vencimento"`
	NotifyDate    string `json:"data_notificacao"`
	DaysRemaining int    `json:"dias_restantes"`
}

// ProtocolEvent is the outbound payload for a protocol deadline notice.
type ProtocolEvent struct {
	Phone       string             `json:"telefone"`
	Protocol    ProtocolBody       `json:"protocolo"`
	Service     ServiceBody        `json:"servico"`
	Deadline    DeadlineBody       `json:"vencimento"`
	Tenant      TenantRef          `json:"cartorio"`
	Credentials GatewayCredentials `json:"zdg"`
}

// AccountBody carries the payable fields.
type AccountBody struct {
	ID            string `json:"id"`
	Description   string `json:"descricao"`
	Amount        string `json:"valor"`
	DueDate       string `json:"data_vencimento"`
	DaysRemaining int    `json:"dias_restantes"`
	Overdue       bool   `json:"vencida"`
}

// AccountEvent is the outbound payload for an account deadline notice. The
// previous/new status pair mirrors the gateway's status-change flow even
// though deadline notices never change the status.
type AccountEvent struct {
	Phone          string             `json:"telefone"`
	Flow           string             `json:"fluxo"`
	Account        AccountBody        `json:"conta"`
	PreviousStatus string             `json:"status_anterior"`
	NewStatus      string             `json:"status_novo"`
	Tenant         TenantRef          `json:"cartorio"`
	Credentials    GatewayCredentials `json:"zdg"`
}

// FlowAccountDeadline is the fluxo discriminator for deadline notices.
const FlowAccountDeadline = "vencimento_conta"
