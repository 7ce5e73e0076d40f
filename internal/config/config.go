package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DriverCSV      = "csv"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const envPrefix = "MINEWALK"

type Log struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

type Store struct {
	Driver  string `mapstructure:"driver"`
	Path    string `mapstructure:"path"`
	DSN     string `mapstructure:"dsn"`
	DSNFile string `mapstructure:"dsn_file"`
	Migrate bool   `mapstructure:"migrate"`
}

type Server struct {
	Addr           string        `mapstructure:"addr"`
	TokenSecret    string        `mapstructure:"token_secret"`
	TokenLifetime  time.Duration `mapstructure:"token_lifetime"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// Game holds the values the setup form starts with.
type Game struct {
	Rows  int `mapstructure:"rows"`
	Cols  int `mapstructure:"cols"`
	Mines int `mapstructure:"mines"`
}

type Config struct {
	Mode   string `mapstructure:"mode"`
	Log    Log    `mapstructure:"log"`
	Store  Store  `mapstructure:"store"`
	Server Server `mapstructure:"server"`
	Game   Game   `mapstructure:"game"`
}

// Flags returns the flag set every binary shares.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("config", "c", "", "config file path (json, yaml, toml)")
	fs.String("mode", "development", "development or production")

	fs.String("log.level", "", "log level, defaults to debug in development and info in production")
	fs.String("log.file", "", "also write logs to this file, rotated")
	fs.Int("log.max_size", 10, "megabytes before the log file is rotated")
	fs.Int("log.max_backups", 3, "rotated log files to keep")
	fs.Int("log.max_age", 28, "days to keep rotated log files")

	fs.String("store.driver", DriverCSV, "record store: csv, sqlite, postgres or memory")
	fs.String("store.path", "minesweeper_records.csv", "csv or sqlite file")
	fs.String("store.dsn", "", "postgres connection url")
	fs.String("store.dsn_file", "", "file holding the postgres connection url")
	fs.Bool("store.migrate", false, "apply postgres migrations on start")

	fs.String("server.addr", ":8080", "http listen address")
	fs.String("server.token_secret", "", "HMAC secret for session tokens")
	fs.Duration("server.token_lifetime", 24*time.Hour, "session token lifetime")
	fs.StringSlice("server.allowed_origins", nil, "allowed CORS/websocket origins, all if empty")

	fs.Int("game.rows", 9, "default rows")
	fs.Int("game.cols", 9, "default cols")
	fs.Int("game.mines", 10, "default mines")
	return fs
}

// Load merges, from lowest to highest priority: flag defaults, the config
// file, MINEWALK_* environment variables and flags set on the command line.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("unable to bind flags: %w", err)
	}

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}
	if err := c.resolve(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) resolve() error {
	var errs []error
	switch c.Mode {
	case "development", "production":
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, err)
		}
	}

	switch c.Store.Driver {
	case DriverCSV, DriverSQLite:
		if c.Store.Path == "" {
			errs = append(errs, fmt.Errorf("store.path is required for %s", c.Store.Driver))
		}
	case DriverPostgres:
		if c.Store.DSN == "" && c.Store.DSNFile != "" {
			data, err := os.ReadFile(c.Store.DSNFile)
			if err != nil {
				errs = append(errs, fmt.Errorf("unable to read dsn file: %w", err))
			}
			c.Store.DSN = strings.TrimSpace(string(data))
		}
		if c.Store.DSN == "" {
			errs = append(errs, errors.New("store.dsn or store.dsn_file is required for postgres"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}

	if c.Production() && c.Server.TokenSecret == "" {
		errs = append(errs, errors.New("server.token_secret is required in production"))
	}
	return errors.Join(errs...)
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":                  c.Mode,
		"log_level":             c.Log.Level,
		"log_file":              c.Log.File,
		"store_driver":          c.Store.Driver,
		"store_path":            c.Store.Path,
		"store_migrate":         c.Store.Migrate,
		"server_addr":           c.Server.Addr,
		"server_token_lifetime": c.Server.TokenLifetime.String(),
		"server_origins":        c.Server.AllowedOrigins,
		"game_rows":             c.Game.Rows,
		"game_cols":             c.Game.Cols,
		"game_mines":            c.Game.Mines,
	}
}
