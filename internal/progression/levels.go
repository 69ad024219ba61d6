// Package progression holds the pure rules of the game: the level table,
// level resolution, cooldown gating and feedback outcomes.
package progression

type LevelDefinition struct {
	Title     string
	Threshold int
}

// Levels is ordered by strictly increasing threshold, starting at 0.
var Levels = []LevelDefinition{
	{Title: "Drifter", Threshold: 0},
	{Title: "Listener", Threshold: 100},
	{Title: "Guide", Threshold: 300},
	{Title: "Anchor", Threshold: 600},
	{Title: "Lighthouse", Threshold: 1000},
	{Title: "Ocean Keeper", Threshold: 2000},
}

type Level struct {
	Index         int     `json:"level"`
	Title         string  `json:"title"`
	NextThreshold float64 `json:"nextLevelXp"`
}

// ResolveLevel returns the 1-based level for xp. Past the last threshold the
// next target is extrapolated as xp*1.5.
func ResolveLevel(xp int) Level {
	if xp < 0 {
		xp = 0
	}

	lvl := Level{Index: 1, Title: Levels[0].Title, NextThreshold: float64(Levels[1].Threshold)}
	for i, def := range Levels {
		if xp < def.Threshold {
			break
		}
		lvl.Index = i + 1
		lvl.Title = def.Title
		if i+1 < len(Levels) {
			lvl.NextThreshold = float64(Levels[i+1].Threshold)
		} else {
			lvl.NextThreshold = float64(xp) * 1.5
		}
	}
	return lvl
}

// Progress is the percentage towards the next level, capped at 100.
func Progress(xp int) float64 {
	lvl := ResolveLevel(xp)
	if lvl.NextThreshold <= 0 {
		return 0
	}
	return min(100, float64(max(xp, 0))/lvl.NextThreshold*100)
}
