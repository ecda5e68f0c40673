package config

import (
	"time"

	"github.com/juanmoyano123/cards-study/internal/study"
)

// Config is the root application configuration.
type Config struct {
	API   APIConfig   `yaml:"api"`
	Store StoreConfig `yaml:"store"`
	Log   LogConfig   `yaml:"log"`
	Study StudyConfig `yaml:"study"`
}

// APIConfig holds the remote backend settings. An empty BaseURL runs the
// client offline: no queue, no remote counters.
type APIConfig struct {
	BaseURL       string        `yaml:"base_url"       env:"CARDS_STUDY_API_URL"        validate:"omitempty,url"`
	Token         string        `yaml:"token"          env:"CARDS_STUDY_API_TOKEN"`
	RatingTimeout time.Duration `yaml:"rating_timeout" env:"CARDS_STUDY_RATING_TIMEOUT" env-default:"5s"  validate:"gt=0"`
	QueueTimeout  time.Duration `yaml:"queue_timeout"  env:"CARDS_STUDY_QUEUE_TIMEOUT"  env-default:"30s" validate:"gt=0"`
	SyncTimeout   time.Duration `yaml:"sync_timeout"   env:"CARDS_STUDY_SYNC_TIMEOUT"   env-default:"10s" validate:"gt=0"`
	Retry         RetryConfig   `yaml:"retry"`
}

// RetryConfig bounds retries of idempotent requests.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" env:"CARDS_STUDY_RETRY_ATTEMPTS" env-default:"3"   validate:"gte=1,lte=10"`
	InitialWait time.Duration `yaml:"initial_wait" env:"CARDS_STUDY_RETRY_WAIT"     env-default:"1s"  validate:"gt=0"`
	MaxWait     time.Duration `yaml:"max_wait"     env:"CARDS_STUDY_RETRY_MAX_WAIT" env-default:"10s" validate:"gtefield=InitialWait"`
}

// StoreConfig locates the local database. Empty means the XDG default.
type StoreConfig struct {
	Path string `yaml:"path" env:"CARDS_STUDY_DB"`
}

// LogConfig holds logging settings. An empty File sends logs to stderr.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text" validate:"oneof=text json"`
	File   string `yaml:"file"   env:"LOG_FILE"`
}

// StudyConfig holds the default queue request. IncludeNew defaults to true
// in Load; an env-default tag would overwrite an explicit false from YAML.
type StudyConfig struct {
	Limit      int  `yaml:"limit"       env:"CARDS_STUDY_LIMIT"       env-default:"50"   validate:"gte=1,lte=200"`
	IncludeNew bool `yaml:"include_new" env:"CARDS_STUDY_INCLUDE_NEW"`
	NewLimit   int  `yaml:"new_limit"   env:"CARDS_STUDY_NEW_LIMIT"   env-default:"20"   validate:"gte=0,lte=50"`
}

// Offline reports whether no remote backend is configured.
func (c APIConfig) Offline() bool {
	return c.BaseURL == ""
}

// QueueOptions converts the study defaults into a queue request.
func (c StudyConfig) QueueOptions() study.QueueOptions {
	includeNew := c.IncludeNew
	return study.QueueOptions{
		Limit:      c.Limit,
		IncludeNew: &includeNew,
		NewLimit:   c.NewLimit,
	}
}
