package env

import (
	"fmt"
	"sort"

	"github.com/caarlos0/env/v11"

	"github.com/custodia-labs/bucketdrop/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// vars holds the recognised environment variables. Nil means unset;
// an empty value counts as unset.
type vars struct {
	Bucket          *string  `env:"BUCKETDROP_BUCKET"`
	CredentialsFile *string  `env:"BUCKETDROP_CREDENTIALS_FILE"`
	AccessToken     *string  `env:"BUCKETDROP_ACCESS_TOKEN"`
	Endpoint        *string  `env:"BUCKETDROP_ENDPOINT"`
	StagingDir      *string  `env:"BUCKETDROP_STAGING_DIR"`
	Quality         *int     `env:"BUCKETDROP_QUALITY"`
	MaxWidth        *float64 `env:"BUCKETDROP_MAX_WIDTH"`
	MaxHeight       *float64 `env:"BUCKETDROP_MAX_HEIGHT"`
}

// override is one environment value bound to a config key.
type override struct {
	envVar string
	value  any
}

// ConfigStore reads environment overrides before falling back to a base store.
type ConfigStore struct {
	base      driven.ConfigStore
	overrides map[string]override
}

// NewConfigStore parses the process environment and wraps base.
func NewConfigStore(base driven.ConfigStore) (*ConfigStore, error) {
	var v vars
	if err := env.Parse(&v); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return newConfigStore(base, v), nil
}

// NewConfigStoreFrom wraps base using the given variables instead of the
// process environment.
func NewConfigStoreFrom(base driven.ConfigStore, environment map[string]string) (*ConfigStore, error) {
	var v vars
	if err := env.ParseWithOptions(&v, env.Options{Environment: environment}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return newConfigStore(base, v), nil
}

func newConfigStore(base driven.ConfigStore, v vars) *ConfigStore {
	s := &ConfigStore{
		base:      base,
		overrides: make(map[string]override),
	}
	s.bind("storage.bucket", "BUCKETDROP_BUCKET", v.Bucket)
	s.bind("storage.credentials_file", "BUCKETDROP_CREDENTIALS_FILE", v.CredentialsFile)
	s.bind("storage.access_token", "BUCKETDROP_ACCESS_TOKEN", v.AccessToken)
	s.bind("storage.endpoint", "BUCKETDROP_ENDPOINT", v.Endpoint)
	s.bind("staging.dir", "BUCKETDROP_STAGING_DIR", v.StagingDir)
	if v.Quality != nil {
		s.overrides["compression.quality"] = override{envVar: "BUCKETDROP_QUALITY", value: *v.Quality}
	}
	if v.MaxWidth != nil {
		s.overrides["compression.max_width"] = override{envVar: "BUCKETDROP_MAX_WIDTH", value: *v.MaxWidth}
	}
	if v.MaxHeight != nil {
		s.overrides["compression.max_height"] = override{envVar: "BUCKETDROP_MAX_HEIGHT", value: *v.MaxHeight}
	}
	return s
}

func (s *ConfigStore) bind(key, envVar string, value *string) {
	if value != nil {
		s.overrides[key] = override{envVar: envVar, value: *value}
	}
}

// EnvVar returns the environment variable overriding key, if any.
func (s *ConfigStore) EnvVar(key string) (string, bool) {
	o, ok := s.overrides[key]
	return o.envVar, ok
}

// Overridden returns the overridden keys, sorted.
func (s *ConfigStore) Overridden() []string {
	keys := make([]string, 0, len(s.overrides))
	for k := range s.overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the environment value for key, or the base value.
func (s *ConfigStore) Get(key string) (any, bool) {
	if o, ok := s.overrides[key]; ok {
		return o.value, true
	}
	return s.base.Get(key)
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	if o, ok := s.overrides[key]; ok {
		str, _ := o.value.(string)
		return str
	}
	return s.base.GetString(key)
}

// GetInt retrieves an integer configuration value.
func (s *ConfigStore) GetInt(key string) int {
	if o, ok := s.overrides[key]; ok {
		switch v := o.value.(type) {
		case int:
			return v
		case float64:
			return int(v)
		}
		return 0
	}
	return s.base.GetInt(key)
}

// GetFloat retrieves a floating point configuration value.
func (s *ConfigStore) GetFloat(key string) float64 {
	if o, ok := s.overrides[key]; ok {
		switch v := o.value.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		}
		return 0
	}
	return s.base.GetFloat(key)
}

// GetBool retrieves a boolean configuration value.
func (s *ConfigStore) GetBool(key string) bool {
	if o, ok := s.overrides[key]; ok {
		b, _ := o.value.(bool)
		return b
	}
	return s.base.GetBool(key)
}

// Set writes to the base store. An environment override still wins on read.
func (s *ConfigStore) Set(key string, value any) error {
	return s.base.Set(key, value)
}

// Delete removes key from the base store.
func (s *ConfigStore) Delete(key string) error {
	return s.base.Delete(key)
}

// Save persists the base store.
func (s *ConfigStore) Save() error {
	return s.base.Save()
}

// Load reloads the base store. The environment is read once at construction.
func (s *ConfigStore) Load() error {
	return s.base.Load()
}

// Path returns the base store path.
func (s *ConfigStore) Path() string {
	return s.base.Path()
}
