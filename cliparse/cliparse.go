package cliparse

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Port          int
	StorageDriver string
	StorageURL    string
	VoterKeySalt  string
	AdminKeySalt  string
	LogLevel      string
}

var storageDrivers = []string{"sqlite", "postgres", "bolt", "leveldb"}

// ParseFlags reads config from flags, then environment, then an optional
// config file, then defaults.
func ParseFlags(args []string) (Config, error) {
	fs := pflag.NewFlagSet("quickly-tally", pflag.ContinueOnError)

	// Network and storage (can be CLI args or env)
	fs.IntP("port", "p", 3318, "Server port")
	fs.StringP("storage", "t", "sqlite", "Storage driver (sqlite, postgres, bolt or leveldb)")
	fs.StringP("storage-url", "d", "", "Storage DSN or path")
	fs.String("log-level", "info", "Log level (debug, info, warn or error)")
	fs.StringP("config", "c", "", "Config file (any format viper reads)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.String("voter-salt", "", "Voter key salt (prefer env)")
	fs.String("admin-salt", "", "Admin key salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	binds := map[string]string{
		"port":        "port",
		"storage":     "storage",
		"storage_url": "storage-url",
		"log_level":   "log-level",
		"voter_salt":  "voter-salt",
		"admin_salt":  "admin-salt",
	}
	for key, flag := range binds {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return Config{}, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	envs := map[string][]string{
		"port":        {"PORT"},
		"storage":     {"STORAGE_DRIVER"},
		"storage_url": {"STORAGE_URL", "DATABASE_URL"},
		"log_level":   {"LOG_LEVEL"},
		"voter_salt":  {"VOTER_KEY_SALT"},
		"admin_salt":  {"ADMIN_KEY_SALT"},
	}
	for key, names := range envs {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return Config{}, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := Config{
		Port:          v.GetInt("port"),
		StorageDriver: strings.ToLower(v.GetString("storage")),
		StorageURL:    v.GetString("storage_url"),
		VoterKeySalt:  v.GetString("voter_salt"),
		AdminKeySalt:  v.GetString("admin_salt"),
		LogLevel:      strings.ToLower(v.GetString("log_level")),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, errors.New("invalid port")
	}
	if !contains(storageDrivers, cfg.StorageDriver) {
		return Config{}, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
	if cfg.StorageURL == "" {
		return Config{}, errors.New("storage URL required (use -d or STORAGE_URL env)")
	}

	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}

	// Secrets - MUST be provided
	if cfg.VoterKeySalt == "" {
		return Config{}, errors.New("VOTER_KEY_SALT required")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	return cfg, nil
}

// SlogLevel returns the configured log level, info if it cannot be parsed.
func (c Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
