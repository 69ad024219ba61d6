package models

import "time"

// UserProgress is the durable aggregate owned by the progression service.
type UserProgress struct {
	XP                   int
	NextSendAllowedAt    *time.Time
	NextReceiveAllowedAt *time.Time
	DailyMessage         *Message
	HasRatedCurrentDaily bool
	SentHistory          []SentMessage
}

func NewUserProgress() *UserProgress {
	return &UserProgress{SentHistory: make([]SentMessage, 0)}
}

func (p *UserProgress) FindSent(id string) (*SentMessage, bool) {
	for i := range p.SentHistory {
		if p.SentHistory[i].ID == id {
			return &p.SentHistory[i], true
		}
	}
	return nil, false
}
