// Package config loads service configuration by layering defaults, an
// optional YAML file, and SCORING_-prefixed environment variables.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// HTTPAddr is the listen address, e.g. ":8080".
	HTTPAddr string `koanf:"http_addr"`

	DBDriver string `koanf:"db_driver"` // sqlite|postgres
	DBDSN    string `koanf:"db_dsn"`

	// AuthSecret signs the service's HS256 tokens.
	AuthSecret string `koanf:"auth_secret"`

	CORSOrigins []string `koanf:"cors_origins"`

	// RoleClaimFallback lets a JWT role claim stand in when the users table
	// has no row for the subject. Dev convenience; keep off in production.
	RoleClaimFallback bool `koanf:"role_claim_fallback"`
}

func defaults() *Config {
	return &Config{
		HTTPAddr:          ":8080",
		DBDriver:          "sqlite",
		DBDSN:             "",
		AuthSecret:        "supersecret-dev-key",
		CORSOrigins:       []string{"http://localhost:3000"},
		RoleClaimFallback: true,
	}
}

// Load builds a Config. Order of precedence (low -> high):
//  1. defaults
//  2. YAML file named by SCORING_CONFIG, if set
//  3. env vars (prefix SCORING_, e.g. SCORING_HTTP_ADDR)
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("SCORING_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// cors_origins is the one list-valued key; a comma-separated env value
	// splits into a slice so SCORING_CORS_ORIGINS=a,b yields two origins.
	envProvider := env.ProviderWithValue("SCORING_", ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), "scoring_")
		if key == "cors_origins" {
			var origins []string
			for _, o := range strings.Split(value, ",") {
				if o = strings.TrimSpace(o); o != "" {
					origins = append(origins, o)
				}
			}
			return key, origins
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("http_addr must not be empty")
	}
	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return nil, errors.New("db_driver must be sqlite or postgres")
	}
	return &cfg, nil
}
