package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/loan-advisor/internal/common"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyLogLevel       = "logging.level"
	KeyLogFormat      = "logging.format"
	KeyLogFile        = "logging.file"
	KeyProfilePath    = "profile.path"
	KeyAdvisorLatency = "advisor.latency"
	KeyStorageDriver  = "storage.driver"
	KeyStorageName    = "storage.name"
)

// EnvPrefix prefixes environment overrides, e.g. ADVISOR_LOGGING_LEVEL.
const EnvPrefix = "ADVISOR"

// Settings is the validated application configuration.
type Settings struct {
	LogLevel      string
	LogFormat     string
	LogFile       string
	ProfilePath   string
	StorageDriver string
	StorageName   string
	Latency       time.Duration
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyProfilePath, "~/.config/advisor/profile.yaml")
	v.SetDefault(KeyAdvisorLatency, time.Second)
	v.SetDefault(KeyStorageDriver, "memory")
	v.SetDefault(KeyStorageName, "")
}

// Load reads Settings from v. Invalid values wrap common.ErrInvalidConfig.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		LogLevel:      strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		LogFormat:     strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
		LogFile:       ExpandPath(v.GetString(KeyLogFile)),
		ProfilePath:   ExpandPath(v.GetString(KeyProfilePath)),
		StorageDriver: strings.ToLower(strings.TrimSpace(v.GetString(KeyStorageDriver))),
		StorageName:   strings.TrimSpace(v.GetString(KeyStorageName)),
		Latency:       v.GetDuration(KeyAdvisorLatency),
	}

	if _, err := common.ParseLevel(s.LogLevel); err != nil {
		return Settings{}, err
	}

	switch s.LogFormat {
	case "console", "json":
	default:
		return Settings{}, fmt.Errorf("log format %q: %w", s.LogFormat, common.ErrInvalidConfig)
	}

	switch s.StorageDriver {
	case "memory", "sqlite":
	default:
		return Settings{}, fmt.Errorf("storage driver %q: %w", s.StorageDriver, common.ErrInvalidConfig)
	}

	if strings.TrimSpace(s.ProfilePath) == "" {
		return Settings{}, fmt.Errorf("%s: %w", KeyProfilePath, common.ErrMissingConfig)
	}

	if s.Latency < 0 {
		return Settings{}, fmt.Errorf("advisor latency %s must not be negative: %w", s.Latency, common.ErrInvalidConfig)
	}

	return s, nil
}
