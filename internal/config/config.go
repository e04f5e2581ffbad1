// Package config bundles the options the cipher facade needs at
// construction time. Like the teacher's own EAMSA512ConfigSHA3/HSMConfig
// structs, this is a plain Go struct with constructor defaults — there is
// no config-file DSL to displace with a third-party library here (see
// DESIGN.md).
package config

import (
	"fmt"
	"os"

	"github.com/redeaux-corp/mango/internal/audit"
	"github.com/redeaux-corp/mango/internal/profiler"
)

// DefaultClassificationCacheSize is the profiler's LRU cache capacity
// used when EngineConfig.ClassificationCacheSize is left at zero.
const DefaultClassificationCacheSize = 128

// CatalogSource names where the profile catalog document comes from:
// either pre-loaded bytes (tests, embedded catalogs) or a file path.
type CatalogSource struct {
	Path  string
	Bytes []byte
}

// Load returns the catalog document bytes, preferring Bytes over Path.
func (c CatalogSource) Load() ([]byte, error) {
	if len(c.Bytes) > 0 {
		return c.Bytes, nil
	}
	if c.Path == "" {
		return nil, fmt.Errorf("config: catalog source has neither Bytes nor Path set")
	}
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("config: reading catalog file %q: %w", c.Path, err)
	}
	return data, nil
}

// EngineConfig bundles everything the facade constructor needs: the
// profile catalog source, profiler threshold overrides, an optional
// shared audit log, and the classification cache size.
type EngineConfig struct {
	Catalog                 CatalogSource
	ProfilerThresholds      profiler.Thresholds
	Audit                   *audit.Log
	ClassificationCacheSize int
}

// New returns an EngineConfig with spec-default thresholds and cache size
// for the given catalog source. Audit is left nil (no audit trail).
func New(source CatalogSource) EngineConfig {
	return EngineConfig{
		Catalog:                 source,
		ProfilerThresholds:      profiler.DefaultThresholds(),
		ClassificationCacheSize: DefaultClassificationCacheSize,
	}
}

// ResolvedCacheSize returns ClassificationCacheSize, or the default if
// it was left at the zero value.
func (c EngineConfig) ResolvedCacheSize() int {
	if c.ClassificationCacheSize <= 0 {
		return DefaultClassificationCacheSize
	}
	return c.ClassificationCacheSize
}
