package models

import "time"

type Vote string

const (
	VoteNone  Vote = ""
	VoteUp    Vote = "up"
	VoteDown  Vote = "down"
	VoteSuper Vote = "super"
)

func (v Vote) Valid() bool {
	switch v {
	case VoteUp, VoteDown, VoteSuper:
		return true
	}
	return false
}

type Reply struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	AuthorRank string    `json:"authorRank,omitempty"`
	CreatedAt  time.Time `json:"timestamp"`
	Vote       Vote      `json:"vote,omitempty"`
}

// Toggle applies a vote action. Repeating a non-super action clears it;
// super stays set when repeated.
func (r *Reply) Toggle(action Vote) {
	if r.Vote == action && action != VoteSuper {
		r.Vote = VoteNone
		return
	}
	r.Vote = action
}

type SentMessage struct {
	ID               string    `json:"id"`
	Content          string    `json:"content"`
	CreatedAt        time.Time `json:"timestamp"`
	Location         string    `json:"location"`
	Replies          []Reply   `json:"replies"`
	HasUnreadReplies bool      `json:"hasUnreadReplies"`
}

func (s *SentMessage) FindReply(id string) (*Reply, bool) {
	for i := range s.Replies {
		if s.Replies[i].ID == id {
			return &s.Replies[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy so callers never alias the replies slice.
func (s SentMessage) Clone() SentMessage {
	out := s
	out.Replies = make([]Reply, len(s.Replies))
	copy(out.Replies, s.Replies)
	return out
}

func CloneHistory(history []SentMessage) []SentMessage {
	out := make([]SentMessage, len(history))
	for i, m := range history {
		out[i] = m.Clone()
	}
	return out
}
