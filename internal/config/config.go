package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "ITEMCHARGE_"

// Config is the process configuration. Tracker settings live in the
// settings store, not here.
type Config struct {
	// EventLogPath pins a single bridge log. When empty the newest log in
	// LogDir is followed.
	EventLogPath string `yaml:"event_log_path" env:"EVENT_LOG_PATH"`
	LogDir       string `yaml:"log_dir" env:"LOG_DIR" validate:"required_without=EventLogPath"`
	DatabasePath string `yaml:"database_path" env:"DATABASE_PATH" validate:"required"`
	IconDir      string `yaml:"icon_dir" env:"ICON_DIR"`
	Debug        bool   `yaml:"debug" env:"DEBUG"`
	// Headless runs without the HUD; events are still tracked and stored.
	Headless bool `yaml:"headless" env:"HEADLESS"`
}

// DataDir is the per-user directory for the database, icons and bridge logs.
func DataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "item-charges")
}

func Default() Config {
	base := DataDir()
	return Config{
		LogDir:       filepath.Join(base, "bridge"),
		DatabasePath: filepath.Join(base, "item-charges.db"),
		IconDir:      filepath.Join(base, "icons"),
	}
}

// Load builds the config from defaults, the YAML file at path, the dotenv
// file at envFile and ITEMCHARGE_* variables, in increasing precedence.
// Missing files are not an error.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if envFile != "" {
		// godotenv never overrides variables that are already set.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var validate = validator.New()

func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s failed %q", verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
