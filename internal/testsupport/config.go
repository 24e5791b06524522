package testsupport

import (
	"path/filepath"
	"testing"

	"shelf/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with a unique temp log directory per
// test. It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCategories replaces the category rules on the test config.
func WithCategories(rules ...config.CategoryRule) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Categories = rules
	}
}

// WithPollInterval overrides the watch poll interval, in seconds.
func WithPollInterval(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Watch.PollInterval = seconds
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
