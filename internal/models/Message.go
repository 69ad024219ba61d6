package models

import "time"

// Message is the inbound daily bottle drawn from the shore.
type Message struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	AuthorRank string    `json:"authorRank,omitempty"`
	Location   string    `json:"location"`
	CreatedAt  time.Time `json:"timestamp"`
	IsRead     bool      `json:"isRead"`
}
