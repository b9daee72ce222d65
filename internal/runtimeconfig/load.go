package runtimeconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/tailscale/hujson"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "BYTELOG_"

// LoadOptions lists the optional sources layered over DefaultConfig.
type LoadOptions struct {
	// ConfigFile is a JSON-with-comments file. A missing file is an error.
	ConfigFile string
	// EnvFile is a dotenv file. A missing file is skipped.
	EnvFile string
	// Environ replaces os.Environ, mostly for tests.
	Environ []string
	// Override runs last, before validation. Command line flags use it.
	Override func(*Config)
}

// Load builds a Config from defaults, then ConfigFile, then EnvFile and the
// process environment, then Override. Process variables win over dotenv
// values. The result is validated.
func Load(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig()

	if path := strings.TrimSpace(opts.ConfigFile); path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	vars, err := environment(opts)
	if err != nil {
		return Config{}, err
	}
	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: vars,
	}); err != nil {
		return Config{}, fmt.Errorf("bytelog config: environment: %w", err)
	}
	if opts.Override != nil {
		opts.Override(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeFile decodes a JSONC document over cfg. Keys absent from the file keep
// their current values.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("bytelog config: read %s: %w", path, err)
	}
	return Decode(cfg, data)
}

// Decode merges a JSON-with-comments document into cfg.
func Decode(cfg *Config, data []byte) error {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("bytelog config: invalid JSONC: %w", err)
	}
	decoder := json.NewDecoder(strings.NewReader(string(standardized)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("bytelog config: invalid JSON: %w", err)
	}
	return nil
}

func environment(opts LoadOptions) (map[string]string, error) {
	values := map[string]string{}

	if path := strings.TrimSpace(opts.EnvFile); path != "" {
		dotenv, err := godotenv.Read(path)
		switch {
		case err == nil:
			for key, value := range dotenv {
				values[key] = value
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("bytelog config: read %s: %w", path, err)
		}
	}

	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}
	for _, pair := range environ {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		values[key] = value
	}
	return values, nil
}
