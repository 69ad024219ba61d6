package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVote_Valid(t *testing.T) {
	assert.True(t, VoteUp.Valid())
	assert.True(t, VoteDown.Valid())
	assert.True(t, VoteSuper.Valid())
	assert.False(t, VoteNone.Valid())
	assert.False(t, Vote("meh").Valid())
}

func TestReply_Toggle(t *testing.T) {
	tests := []struct {
		name    string
		current Vote
		action  Vote
		want    Vote
	}{
		{"set up", VoteNone, VoteUp, VoteUp},
		{"repeat up clears", VoteUp, VoteUp, VoteNone},
		{"repeat down clears", VoteDown, VoteDown, VoteNone},
		{"down replaces up", VoteUp, VoteDown, VoteDown},
		{"super replaces up", VoteUp, VoteSuper, VoteSuper},
		{"repeat super stays", VoteSuper, VoteSuper, VoteSuper},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reply{Vote: tt.current}
			r.Toggle(tt.action)
			assert.Equal(t, tt.want, r.Vote)
		})
	}
}

func TestSentMessage_FindReply(t *testing.T) {
	s := SentMessage{Replies: []Reply{{ID: "a"}, {ID: "b"}}}

	r, ok := s.FindReply("b")
	require.True(t, ok)
	r.Vote = VoteUp
	assert.Equal(t, VoteUp, s.Replies[1].Vote)

	_, ok = s.FindReply("missing")
	assert.False(t, ok)
}

func TestCloneHistory_DoesNotAlias(t *testing.T) {
	history := []SentMessage{{ID: "s1", Replies: []Reply{{ID: "r1"}}}}

	clone := CloneHistory(history)
	clone[0].Replies[0].Vote = VoteDown
	clone[0].HasUnreadReplies = true

	assert.Equal(t, VoteNone, history[0].Replies[0].Vote)
	assert.False(t, history[0].HasUnreadReplies)
}

func TestUserProgress_FindSent(t *testing.T) {
	p := NewUserProgress()
	assert.NotNil(t, p.SentHistory)
	p.SentHistory = append(p.SentHistory, SentMessage{ID: "s1"})

	s, ok := p.FindSent("s1")
	require.True(t, ok)
	s.HasUnreadReplies = true
	assert.True(t, p.SentHistory[0].HasUnreadReplies)

	_, ok = p.FindSent("nope")
	assert.False(t, ok)
}
