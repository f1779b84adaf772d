package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/PratikDhanave/answer-sessions/internal/apperr"
	"github.com/PratikDhanave/answer-sessions/internal/generator"
)

const (
	envPrefix         = "SESSIONS_"
	defaultConfigPath = "configs/config.yaml"
)

// Config contains runtime configuration for the API server and the CLI.
type Config struct {
	Log        LogConfig       `koanf:"log"`
	HTTP       HTTPConfig      `koanf:"http"`
	Database   DatabaseConfig  `koanf:"database"`
	APIKeysRaw string          `koanf:"api_keys"`
	Generator  GeneratorConfig `koanf:"generator"`

	// APIKeys maps apiKey -> tenantID, parsed from APIKeysRaw.
	APIKeys map[string]string `koanf:"-"`
}

type LogConfig struct {
	Mode  string `koanf:"mode"`
	Level string `koanf:"level"`
}

type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// GeneratorConfig holds the synthetic generator defaults. An empty Seed
// means every run draws from a fresh random source.
type GeneratorConfig struct {
	Year              int      `koanf:"year"`
	MaxSessionsPerDay int      `koanf:"max_sessions_per_day"`
	MaxSessionsLimit  int      `koanf:"max_sessions_limit"`
	Seed              string   `koanf:"seed"`
	Users             []string `koanf:"users"`
	Events            []string `koanf:"events"`
}

func defaults() Config {
	g := generator.DefaultConfig()
	return Config{
		Log:  LogConfig{Mode: "dev", Level: "info"},
		HTTP: HTTPConfig{Addr: ":8080"},
		Generator: GeneratorConfig{
			Year:              g.Year,
			MaxSessionsPerDay: g.MaxSessionsPerDay,
			MaxSessionsLimit:  g.MaxSessionsLimit,
			Users:             g.Users,
			Events:            g.Events,
		},
	}
}

// Load reads defaults, then the YAML file named by SESSIONS_CONFIG
// (configs/config.yaml if unset, skipped when missing), then SESSIONS_*
// environment variables. Nested keys use a double underscore:
// SESSIONS_DATABASE__URL sets database.url.
// The legacy DB_URL and API_KEYS variables are honoured when the prefixed
// ones are unset.
func Load() (Config, error) {
	path := strings.TrimSpace(os.Getenv(envPrefix + "CONFIG"))
	if path == "" {
		path = defaultConfigPath
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit config file path.
func LoadFrom(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = strings.TrimSpace(os.Getenv("DB_URL"))
	}
	if cfg.APIKeysRaw == "" {
		cfg.APIKeysRaw = os.Getenv("API_KEYS")
	}

	keys, err := parseAPIKeys(cfg.APIKeysRaw)
	if err != nil {
		return Config{}, err
	}
	cfg.APIKeys = keys

	return cfg, nil
}

// envKey maps SESSIONS_GENERATOR__MAX_SESSIONS_PER_DAY to
// generator.max_sessions_per_day and splits the identifier pools on commas.
func envKey(name, value string) (string, interface{}) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(name, envPrefix)), "__", ".")
	switch key {
	case "generator.users", "generator.events":
		var pool []string
		for _, v := range strings.Split(value, ",") {
			if v = strings.TrimSpace(v); v != "" {
				pool = append(pool, v)
			}
		}
		return key, pool
	}
	return key, value
}

// parseAPIKeys reads the "tenant1:key1,tenant2:key2" format.
func parseAPIKeys(raw string) (map[string]string, error) {
	apiKeys := map[string]string{}

	for _, p := range strings.Split(strings.TrimSpace(raw), ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parts := strings.SplitN(p, ":", 2)
		if len(parts) != 2 {
			return nil, errors.New(`API_KEYS must be "tenant:key,tenant:key"`)
		}
		tenant := strings.TrimSpace(parts[0])
		key := strings.TrimSpace(parts[1])
		if tenant == "" || key == "" {
			return nil, errors.New(`API_KEYS must be "tenant:key,tenant:key"`)
		}
		apiKeys[key] = tenant
	}

	// Local dev fallback so the service runs out-of-the-box.
	if len(apiKeys) == 0 {
		apiKeys["tenant-key-123"] = "tenant1"
	}
	return apiKeys, nil
}

// RequireDatabase fails when no database URL is configured.
func (c Config) RequireDatabase() error {
	if strings.TrimSpace(c.Database.URL) == "" {
		return errors.New("database url required (SESSIONS_DATABASE__URL or DB_URL)")
	}
	return nil
}

// GeneratorSettings converts the configured generator defaults. The returned seed is nil
// when no seed is configured.
func (c Config) GeneratorSettings() (generator.Config, *uint64, error) {
	g := generator.Config{
		Year:              c.Generator.Year,
		MaxSessionsPerDay: c.Generator.MaxSessionsPerDay,
		MaxSessionsLimit:  c.Generator.MaxSessionsLimit,
		Users:             c.Generator.Users,
		Events:            c.Generator.Events,
	}
	if err := g.Validate(); err != nil {
		return generator.Config{}, nil, err
	}
	seed, err := ParseSeed(c.Generator.Seed)
	if err != nil {
		return generator.Config{}, nil, err
	}
	return g, seed, nil
}

// ParseSeed parses an optional unsigned seed; "" yields nil.
func ParseSeed(s string) (*uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, apperr.NewValueError("seed", s, err.Error())
	}
	return &v, nil
}
