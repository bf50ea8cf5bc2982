package enums

import "fmt"

// AccountStatus maps to the account_status enum in Postgres.
type AccountStatus string

const (
	AccountStatusPending   AccountStatus = "pendente"
	AccountStatusScheduled AccountStatus = "agendada"
	AccountStatusOverdue   AccountStatus = "vencida"
	AccountStatusPaid      AccountStatus = "paga"
)

var validAccountStatuses = []AccountStatus{
	AccountStatusPending,
	AccountStatusScheduled,
	AccountStatusOverdue,
	AccountStatusPaid,
}

// ScannableAccountStatuses lists the statuses the deadline scanner considers.
// Paid accounts are terminal and never re-enter the upcoming or overdue views.
func ScannableAccountStatuses() []AccountStatus {
	return []AccountStatus{AccountStatusPending, AccountStatusScheduled, AccountStatusOverdue}
}

// IsTerminal reports whether the account is settled.
func (s AccountStatus) IsTerminal() bool {
	return s == AccountStatusPaid
}

// IsValid checks whether the given status matches the canonical enum.
func (s AccountStatus) IsValid() bool {
	for _, candidate := range validAccountStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseAccountStatus converts raw strings into AccountStatus.
func ParseAccountStatus(value string) (AccountStatus, error) {
	for _, candidate := range validAccountStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid account status %q", value)
}
