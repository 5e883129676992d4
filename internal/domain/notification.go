package domain

import "time"

// Notification type tags. An absent type is treated as TypeGeneral at
// dispatch time, not at creation time.
const (
	TypeGeneral   = "general"
	TypeNotice    = "notice"
	TypeMachine   = "machine"
	TypeComplaint = "complaint"
	TypeOther     = "other"
)

type Notification struct {
	NotificationID string    `json:"id" dynamodbav:"notification_id"`
	Title          string    `json:"title" dynamodbav:"title"`
	Body           string    `json:"body" dynamodbav:"body"`
	UserID         string    `json:"user_id,omitempty" dynamodbav:"user_id"`
	ResidenceName  string    `json:"residence_name,omitempty" dynamodbav:"residence_name"`
	Type           string    `json:"type,omitempty" dynamodbav:"type"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
}

// BroadcastsToStudents reports whether a notification type goes out to every
// student of the residence instead of its verified owners.
func BroadcastsToStudents(notifType string) bool {
	switch notifType {
	case TypeNotice, TypeMachine, TypeComplaint:
		return true
	}
	return false
}

// CreateNotificationRequest is the notification-created trigger payload.
// Title and body are passed through as-is; the receiving platform decides how
// to display empty strings.
type CreateNotificationRequest struct {
	Title         string `json:"title"`
	Body          string `json:"body"`
	UserID        string `json:"user_id"`
	ResidenceName string `json:"residence_name"`
	Type          string `json:"type" validate:"omitempty,oneof=general notice machine complaint other"`
}
