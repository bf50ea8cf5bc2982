package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeDeadline    NotificationType = "deadline"
	NotificationTypeAIResult    NotificationType = "ai_result"
	NotificationTypeItemCreated NotificationType = "item_created"
	NotificationTypeItemUpdated NotificationType = "item_updated"
	NotificationTypeSystem      NotificationType = "system"
	NotificationTypeInfo        NotificationType = "info"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeDeadline,
	NotificationTypeAIResult,
	NotificationTypeItemCreated,
	NotificationTypeItemUpdated,
	NotificationTypeSystem,
	NotificationTypeInfo,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}

// NotificationPriority maps to the notification_priority enum in Postgres.
type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityNormal NotificationPriority = "normal"
	NotificationPriorityHigh   NotificationPriority = "high"
	NotificationPriorityUrgent NotificationPriority = "urgent"
)

var validNotificationPriorities = []NotificationPriority{
	NotificationPriorityLow,
	NotificationPriorityNormal,
	NotificationPriorityHigh,
	NotificationPriorityUrgent,
}

// IsValid checks whether the given priority matches the canonical enum.
func (p NotificationPriority) IsValid() bool {
	for _, candidate := range validNotificationPriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseNotificationPriority converts raw strings into NotificationPriority.
func ParseNotificationPriority(value string) (NotificationPriority, error) {
	for _, candidate := range validNotificationPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification priority %q", value)
}
