package services

// Storage keys. Deadlines are unix milliseconds as text, xp is an integer as
// text and the rest are JSON documents.
const (
	KeyNextSend    = "drift_next_send"
	KeyNextReceive = "drift_next_receive"
	KeyDailyBottle = "drift_daily_bottle"
	KeyXP          = "drift_xp"
	KeySentHistory = "drift_sent_history"
	KeyDailyRated  = "drift_daily_rated"
	KeyProfile     = "drift_profile"
)

var progressKeys = []string{KeyNextSend, KeyNextReceive, KeyDailyBottle, KeyXP, KeySentHistory, KeyDailyRated}
