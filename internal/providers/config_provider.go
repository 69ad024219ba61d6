package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"drift/internal/structures"

	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8787)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.prefix", "drift")
	v.SetDefault("storage.timeout", 2*time.Second)
	v.SetDefault("storage.queueSize", 256)
	v.SetDefault("storage.flushInterval", 30*time.Second)
	v.SetDefault("cache.ttl", 60*time.Second)
	v.SetDefault("progression.cooldown", 24*time.Hour)
	v.SetDefault("progression.replyDelay", 8*time.Second)
	v.SetDefault("progression.feedbackMinDelay", 4*time.Second)
	v.SetDefault("progression.feedbackMaxDelay", 7*time.Second)
	v.SetDefault("progression.tickInterval", time.Second)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.BindEnv("logger.level", "DRIFT_LOG_LEVEL")
	v.BindEnv("storage.driver", "DRIFT_STORAGE_DRIVER")
	v.BindEnv("storage.filePath", "DRIFT_STORAGE_PATH")
	v.BindEnv("storage.redisAddr", "DRIFT_REDIS_ADDR")
	v.BindEnv("cache.enabled", "DRIFT_CACHE_ENABLED")
	v.BindEnv("progression.cooldown", "DRIFT_COOLDOWN")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "Drift"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
