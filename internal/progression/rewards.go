package progression

import "drift/internal/structures"

const (
	ReasonBottleCast    = "Bottle cast"
	ReasonFeedbackGiven = "Feedback given"
	ReasonReplySent     = "Reply sent"
	ReasonSuperThanks   = "Super Thanks Sent"
	ReasonHelpful       = "Stranger found your advice helpful!"
	ReasonFlower        = "You received a Flower!"
	ReasonUnhelpful     = "Advice marked unhelpful"
)

type Rewards struct {
	BottleCast    int
	FeedbackGiven int
	ReplySent     int
	SuperThanks   int
	Helpful       int
	Flower        int
	Unhelpful     int
}

var DefaultRewards = Rewards{
	BottleCast:    20,
	FeedbackGiven: 10,
	ReplySent:     30,
	SuperThanks:   15,
	Helpful:       50,
	Flower:        150,
	Unhelpful:     20,
}

// RewardsFromConfig fills every zero field with its default.
func RewardsFromConfig(c structures.RewardsConfig) Rewards {
	pick := func(v, def int) int {
		if v > 0 {
			return v
		}
		return def
	}
	return Rewards{
		BottleCast:    pick(c.BottleCast, DefaultRewards.BottleCast),
		FeedbackGiven: pick(c.FeedbackGiven, DefaultRewards.FeedbackGiven),
		ReplySent:     pick(c.ReplySent, DefaultRewards.ReplySent),
		SuperThanks:   pick(c.SuperThanks, DefaultRewards.SuperThanks),
		Helpful:       pick(c.Helpful, DefaultRewards.Helpful),
		Flower:        pick(c.Flower, DefaultRewards.Flower),
		Unhelpful:     pick(c.Unhelpful, DefaultRewards.Unhelpful),
	}
}

// Award is a single XP change; Amount is negative for penalties.
type Award struct {
	Reason string
	Amount int
}

const (
	HelpfulAbove   = 0.7
	FlowerAbove    = 0.9
	UnhelpfulBelow = 0.1
)

// FeedbackAwards turns one uniform roll in [0,1) into XP changes. The three
// thresholds are checked independently, so a roll above 0.9 earns both the
// helpful and the flower bonus.
func (r Rewards) FeedbackAwards(roll float64) []Award {
	var awards []Award
	if roll > HelpfulAbove {
		awards = append(awards, Award{Reason: ReasonHelpful, Amount: r.Helpful})
	}
	if roll > FlowerAbove {
		awards = append(awards, Award{Reason: ReasonFlower, Amount: r.Flower})
	}
	if roll < UnhelpfulBelow {
		awards = append(awards, Award{Reason: ReasonUnhelpful, Amount: -r.Unhelpful})
	}
	return awards
}
