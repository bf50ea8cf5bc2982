// Package scan implements the protocol and account deadline scans. Each scan
// walks the opted-in tenants sequentially, computes which items currently
// warrant a notice, and posts one webhook event per item. A failing tenant or
// item is logged and skipped; only a registry read failure aborts a scan.
package scan

// Scan kind labels used for logging and metrics.
const (
	KindProtocols = "protocol_deadlines"
	KindAccounts  = "account_deadlines"
)

// ProtocolDetail identifies one delivered protocol notice.
type ProtocolDetail struct {
	Protocol string `json:"protocolo"`
	Service  string `json:"servico"`
	DueDate  string `json:"data_vencimento"`
}

// ProtocolReport summarizes one protocol scan cycle.
type ProtocolReport struct {
	Message string           `json:"message"`
	Sent    int              `json:"notificacoes_enviadas"`
	Details []ProtocolDetail `json:"detalhes"`
}

// AccountDetail identifies one delivered account notice.
type AccountDetail struct {
	Account       string `json:"conta"`
	DueDate       string `json:"data_vencimento"`
	DaysRemaining int    `json:"dias_restantes"`
}

// AccountReport summarizes one account scan cycle.
type AccountReport struct {
	Message string          `json:"message"`
	Sent    int             `json:"notificacoes_enviadas"`
	Details []AccountDetail `json:"detalhes"`
}
