package enums

import "fmt"

// NotifyChannel identifies which outbound notification stream a tenant opted into.
type NotifyChannel string

const (
	NotifyChannelProtocols NotifyChannel = "protocols"
	NotifyChannelAccounts  NotifyChannel = "accounts"
)

var validNotifyChannels = []NotifyChannel{
	NotifyChannelProtocols,
	NotifyChannelAccounts,
}

// IsValid checks whether the given channel matches the canonical enum.
func (c NotifyChannel) IsValid() bool {
	for _, candidate := range validNotifyChannels {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseNotifyChannel converts raw strings into NotifyChannel.
func ParseNotifyChannel(value string) (NotifyChannel, error) {
	for _, candidate := range validNotifyChannels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notify channel %q", value)
}
