// Package config resolves settings from defaults, an optional YAML file, an
// optional .env file, BUCKSHOT_* environment variables and bound flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"buckshot-lite/roulette"
)

const (
	EnvPrefix      = "BUCKSHOT"
	configName     = "buckshot"
	defaultEnvFile = ".env"
)

type LedgerConfig struct {
	Mode        string `mapstructure:"mode"`
	DSN         string `mapstructure:"dsn"`
	Path        string `mapstructure:"path"`
	RecentLimit int    `mapstructure:"recent_limit"`
}

type Config struct {
	LogLevel     string       `mapstructure:"log_level"`
	Preset       string       `mapstructure:"preset"`
	Seed         int64        `mapstructure:"seed"`
	Name         string       `mapstructure:"name"`
	Opponent     string       `mapstructure:"opponent"`
	OpponentName string       `mapstructure:"opponent_name"`
	Persona      string       `mapstructure:"persona"`
	PersonasFile string       `mapstructure:"personas_file"`
	Pacing       float64      `mapstructure:"pacing"`
	Spectate     string       `mapstructure:"spectate"`
	Ledger       LedgerConfig `mapstructure:"ledger"`
}

// New returns a viper instance with every key defaulted, so environment
// variables are visible to Unmarshal.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("preset", roulette.PresetNormal.String())
	v.SetDefault("seed", 0)
	v.SetDefault("name", "player")
	v.SetDefault("opponent", "npc")
	v.SetDefault("opponent_name", "")
	v.SetDefault("persona", "")
	v.SetDefault("personas_file", "")
	v.SetDefault("pacing", 1.0)
	v.SetDefault("spectate", "")
	v.SetDefault("ledger.mode", "sqlite")
	v.SetDefault("ledger.dsn", "")
	v.SetDefault("ledger.path", "")
	v.SetDefault("ledger.recent_limit", 20)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configFile (or buckshot.yaml from the working directory and the
// user config dir when empty) and envFile (".env" when empty; a missing file
// is ignored) into v and returns the validated result.
func Load(v *viper.Viper, configFile, envFile string) (Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "buckshot-lite"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	if _, err := roulette.ParsePreset(c.Preset); err != nil {
		return err
	}
	switch strings.ToLower(c.Opponent) {
	case "npc", "human":
	default:
		return fmt.Errorf("opponent must be npc or human, got %q", c.Opponent)
	}
	if c.Pacing < 0 {
		return fmt.Errorf("pacing must be >= 0, got %v", c.Pacing)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name must not be empty")
	}
	return nil
}

// GamePreset is only valid after Validate.
func (c Config) GamePreset() roulette.Preset {
	p, _ := roulette.ParsePreset(c.Preset)
	return p
}
