package models

// Snapshot is the read model handed to the presentation layer.
type Snapshot struct {
	XP              int           `json:"xp"`
	Level           int           `json:"level"`
	Title           string        `json:"title"`
	NextLevelXP     float64       `json:"nextLevelXp"`
	Progress        float64       `json:"progress"`
	CanSend         bool          `json:"canSend"`
	SendTimeLeft    string        `json:"sendTimeLeft,omitempty"`
	CanReceive      bool          `json:"canReceive"`
	ReceiveTimeLeft string        `json:"receiveTimeLeft,omitempty"`
	DailyMessage    *Message      `json:"dailyMessage,omitempty"`
	IsReading       bool          `json:"isReading"`
	HasRatedDaily   bool          `json:"hasRatedDaily"`
	UnreadReplies   int           `json:"unreadReplies"`
	SentHistory     []SentMessage `json:"sentHistory"`
}
