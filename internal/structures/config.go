package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
	// AllowedOrigins are host patterns accepted on the events websocket
	// besides same-origin requests.
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type StorageConfig struct {
	Driver        string        `yaml:"driver" validate:"required|in:memory,file,sqlite,redis"`
	FilePath      string        `yaml:"filePath"`
	SqlitePath    string        `yaml:"sqlitePath"`
	RedisAddr     string        `yaml:"redisAddr"`
	RedisPassword string        `yaml:"redisPassword"`
	RedisDB       int           `yaml:"redisDB"`
	Prefix        string        `yaml:"prefix"`
	Timeout       time.Duration `yaml:"timeout"`
	QueueSize     int           `yaml:"queueSize"`
	FlushInterval time.Duration `yaml:"flushInterval"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type RewardsConfig struct {
	BottleCast    int `yaml:"bottleCast"`
	FeedbackGiven int `yaml:"feedbackGiven"`
	ReplySent     int `yaml:"replySent"`
	SuperThanks   int `yaml:"superThanks"`
	Helpful       int `yaml:"helpful"`
	Flower        int `yaml:"flower"`
	Unhelpful     int `yaml:"unhelpful"`
}

type ProgressionConfig struct {
	Cooldown         time.Duration `yaml:"cooldown"`
	ReplyDelay       time.Duration `yaml:"replyDelay"`
	FeedbackMinDelay time.Duration `yaml:"feedbackMinDelay"`
	FeedbackMaxDelay time.Duration `yaml:"feedbackMaxDelay"`
	TickInterval     time.Duration `yaml:"tickInterval"`
	Rewards          RewardsConfig `yaml:"rewards"`
}

type OnboardingConfig struct {
	Steps []string `yaml:"steps"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server            `yaml:"webServer"`
	Logger      LoggerConfig      `yaml:"logger"`
	Storage     StorageConfig     `yaml:"storage"`
	Cache       CacheConfig       `yaml:"cache"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Progression ProgressionConfig `yaml:"progression"`
	Onboarding  OnboardingConfig  `yaml:"onboarding"`
}
