// Package mock produces the canned content that stands in for other users.
package mock

import (
	"math/rand/v2"
	"time"

	"drift/internal/models"

	"github.com/google/uuid"
)

const (
	StrangerAuthor = "Stranger"
	ReplyRank      = "Listener"
	SentLocation   = "Drifting..."
	maxDaysAgo     = 30
)

var Stories = []string{
	"I lost in battleground and I am so sad. It feels like the world has turned its back on me, and every step forward is a struggle against an invisible tide. I don't know if I have the strength to keep fighting this war alone.",
	"How I see darkness and so much darkness now in winter. The cold seems to seep into my very bones, and the long nights stretch out endlessly before me. I search for a flicker of light, a single spark to warm my hands, but all I find is the deepening shadow of the season.",
}

var Locations = []string{
	"North Atlantic",
	"South Pacific",
	"Mediterranean Sea",
	"Tasman Sea",
	"Indian Ocean",
	"Caribbean Sea",
	"Baltic Sea",
	"Gulf of Mexico",
	"Coral Sea",
}

// Ranks is weighted towards Drifter on purpose.
var Ranks = []string{"Drifter", "Listener", "Guide", "Drifter", "Anchor"}

var Replies = []string{
	"I needed to hear this today. Thank you.",
	"Sending you strength from across the ocean.",
	"You are not alone in feeling this.",
	"This is beautiful. Keep going.",
	"I feel the exact same way.",
	"Your words resonated with me deeply.",
}

func pick(r *rand.Rand, items []string) string {
	return items[r.IntN(len(items))]
}

func NewID() string {
	return uuid.NewString()
}

// RandomMessage draws a daily bottle written up to 29 days before now.
func RandomMessage(r *rand.Rand, now time.Time) models.Message {
	return models.Message{
		ID:         NewID(),
		Content:    pick(r, Stories),
		Author:     StrangerAuthor,
		AuthorRank: pick(r, Ranks),
		Location:   pick(r, Locations),
		CreatedAt:  now.AddDate(0, 0, -r.IntN(maxDaysAgo)),
		IsRead:     false,
	}
}

func RandomReply(r *rand.Rand, now time.Time) models.Reply {
	return models.Reply{
		ID:         NewID(),
		Content:    pick(r, Replies),
		Author:     StrangerAuthor,
		AuthorRank: ReplyRank,
		CreatedAt:  now,
		Vote:       models.VoteNone,
	}
}
