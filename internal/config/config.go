// Package config loads the pipeline's process configuration from the
// environment, per the variables recognized in spec §6.
package config

import (
	"strconv"
	"strings"
	"time"

	apperrors "github.com/hallyusync/concert-sync/internal/apperrors"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// DefaultAIModel is used when AI_MODEL is unset.
const DefaultAIModel = "gemini-2.5-flash"

// DefaultSyncInterval is used when SYNC_INTERVAL is unset or invalid.
const DefaultSyncInterval = time.Hour

// Config is the pipeline's full runtime configuration.
type Config struct {
	SourceDatabaseURL string `validate:"required,databaseurl"`
	TargetDatabaseURL string `validate:"required,databaseurl"`

	GoogleAPIKey string
	AIModel      string `validate:"required"`

	EnableScheduler bool
	SyncInterval    time.Duration `validate:"required"`
	BatchSize       int

	// HTTPAddr is the ambient API's listen address (§6 HTTP surface).
	HTTPAddr string
}

// HasLLM reports whether the LLM analyzer has credentials to call out. When
// false, Analyze is a no-op per spec §6.
func (c Config) HasLLM() bool {
	return c.GoogleAPIKey != ""
}

// SchedulerEligible reports whether every C7 prerequisite (§4.7) is met:
// scheduler enabled, LLM credentials present, both database URLs set.
func (c Config) SchedulerEligible() bool {
	return c.EnableScheduler && c.HasLLM() && c.SourceDatabaseURL != "" && c.TargetDatabaseURL != ""
}

// Load reads configuration from the process environment via koanf's env
// provider, applying the DATABASE_URL legacy fallback and defaults, then
// validates the result.
func Load() (Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return Config{}, apperrors.Wrap(err, apperrors.ErrInternal, "환경변수 로드에 실패했습니다")
	}

	legacy := k.String("DATABASE_URL")

	cfg := Config{
		SourceDatabaseURL: firstNonEmpty(k.String("SOURCE_DATABASE_URL"), legacy),
		TargetDatabaseURL: firstNonEmpty(k.String("TARGET_DATABASE_URL"), legacy),
		GoogleAPIKey:      k.String("GOOGLE_API_KEY"),
		AIModel:           firstNonEmpty(k.String("AI_MODEL"), DefaultAIModel),
		EnableScheduler:   parseBoolDefault(k.String("ENABLE_SCHEDULER"), true),
		SyncInterval:      parseSecondsDefault(k.String("SYNC_INTERVAL"), DefaultSyncInterval),
		BatchSize:         parseIntDefault(k.String("BATCH_SIZE"), 10),
		HTTPAddr:          firstNonEmpty(k.String("HTTP_ADDR"), ":8080"),
	}

	if err := checkStruct(configValidator, cfg, "Config"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

var configValidator = newValidator()

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseBoolDefault(s string, def bool) bool {
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.ToLower(s))
	if err != nil {
		return def
	}
	return b
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func parseSecondsDefault(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return time.Duration(n) * time.Second
}
