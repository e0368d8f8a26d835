package main

import (
	"encoding/json"
	"os"

	"github.com/fwojciec/docdex"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds environment configuration. CLI flags cover per-run choices;
// the environment covers endpoints and credentials.
type Config struct {
	// MappingURL is the product-to-index mapping resource.
	MappingURL string `envconfig:"DOCDEX_MAPPING_URL"`

	// IndexURL is the remote search index service. When empty, DBPath must
	// point at a local SQLite index instead.
	IndexURL string `envconfig:"DOCDEX_INDEX_URL"`

	// IndexAPIKey authenticates against the remote index service.
	IndexAPIKey string `envconfig:"DOCDEX_INDEX_API_KEY"`

	// DBPath selects a local SQLite index target, used for offline
	// development and dry runs.
	DBPath string `envconfig:"DOCDEX_DB"`

	// RequestsPerDomain bounds the per-domain fetch rate.
	RequestsPerDomain float64 `envconfig:"DOCDEX_RATE" default:"4"`

	// SettingsPath points at a JSON file of index settings applied to every
	// destination index during sync. Empty means no settings are applied.
	SettingsPath string `envconfig:"DOCDEX_INDEX_SETTINGS"`
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (*Config, error) {
	// Env vars may be set in the shell; a missing .env is fine.
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "reading environment: %v", err)
	}
	return &cfg, nil
}

// LoadIndexSettings reads the settings file named by SettingsPath. An empty
// path yields nil settings; the settings payload itself is passed through to
// the index service unvalidated.
func (c *Config) LoadIndexSettings() (docdex.IndexSettings, error) {
	if c.SettingsPath == "" {
		return nil, nil
	}

	buf, err := os.ReadFile(c.SettingsPath)
	if err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "reading index settings %q: %v", c.SettingsPath, err)
	}

	var settings docdex.IndexSettings
	if err := json.Unmarshal(buf, &settings); err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "parsing index settings %q: %v", c.SettingsPath, err)
	}
	return settings, nil
}

// Validate checks that the configuration can support commands that need a
// mapping resource and an index target.
func (c *Config) Validate(needsIndex bool) error {
	if c.MappingURL == "" {
		return docdex.Errorf(docdex.EINVALID, "DOCDEX_MAPPING_URL not set")
	}
	if needsIndex && c.IndexURL == "" && c.DBPath == "" {
		return docdex.Errorf(docdex.EINVALID, "no index target: set DOCDEX_INDEX_URL or DOCDEX_DB")
	}
	return nil
}
