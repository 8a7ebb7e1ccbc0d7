package domain

import "time"

// NotificationType categorizes a notification record
type NotificationType string

const (
	NotificationLevelUp       NotificationType = "level_up"
	NotificationExpGranted    NotificationType = "exp_granted"
	NotificationRubiesGranted NotificationType = "rubies_granted"
)

// Notification is an append-only record shown to the user in their inbox
type Notification struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Type      NotificationType       `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	IsRead    bool                   `json:"is_read"`
	CreatedAt time.Time              `json:"created_at"`
}
