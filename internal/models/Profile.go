package models

type Identity struct {
	Alias         string `json:"alias"`
	GradientIndex int    `json:"gradientIndex"`
	ID            string `json:"id"`
}

type TideTime struct {
	Hour   int `json:"hour" validate:"min:0|max:23"`
	Minute int `json:"minute" validate:"min:0|max:59"`
}

// Profile holds the choices made during onboarding.
type Profile struct {
	Step     int      `json:"step"`
	Identity Identity `json:"identity"`
	Topics   []string `json:"topics"`
	Tide     TideTime `json:"tide"`
}
