package models

import "time"

type NotificationKind string

const (
	NotificationInfo    NotificationKind = "info"
	NotificationXP      NotificationKind = "xp"
	NotificationLevelUp NotificationKind = "levelUp"
)

type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
	Reason  string           `json:"reason,omitempty"`
	Amount  int              `json:"amount,omitempty"`
	// XP and Level are the totals after the change that produced the notification.
	XP        int       `json:"xp"`
	Level     int       `json:"level"`
	FromLevel int       `json:"fromLevel,omitempty"`
	FromTitle string    `json:"fromTitle,omitempty"`
	ToLevel   int       `json:"toLevel,omitempty"`
	ToTitle   string    `json:"toTitle,omitempty"`
	At        time.Time `json:"at"`
}
