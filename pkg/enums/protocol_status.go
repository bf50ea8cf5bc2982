package enums

import "fmt"

// ProtocolStatus maps to the protocol_status enum in Postgres.
type ProtocolStatus string

const (
	ProtocolStatusReceived   ProtocolStatus = "recebido"
	ProtocolStatusInProgress ProtocolStatus = "em_andamento"
	ProtocolStatusWaiting    ProtocolStatus = "aguardando"
	ProtocolStatusDone       ProtocolStatus = "concluido"
)

var validProtocolStatuses = []ProtocolStatus{
	ProtocolStatusReceived,
	ProtocolStatusInProgress,
	ProtocolStatusWaiting,
	ProtocolStatusDone,
}

// IsTerminal reports whether the status permanently excludes the protocol
// from deadline scanning.
func (s ProtocolStatus) IsTerminal() bool {
	return s == ProtocolStatusDone
}

// IsValid checks whether the given status matches the canonical enum.
func (s ProtocolStatus) IsValid() bool {
	for _, candidate := range validProtocolStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProtocolStatus converts raw strings into ProtocolStatus.
func ParseProtocolStatus(value string) (ProtocolStatus, error) {
	for _, candidate := range validProtocolStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid protocol status %q", value)
}
