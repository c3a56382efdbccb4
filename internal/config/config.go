// Package config provides functionality for managing configuration options
// for the application using a .env file, a JSON config file, command-line
// flags and environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Camera integration modes.
const (
	CameraDisabled = "disabled"
	CameraLocal    = "local"
	CameraCloud    = "cloud"
)

// Options holds the configuration values for the application.
type Options struct {
	// ServerAddress defines the server's listening address (ip:port).
	ServerAddress string `json:"server_address"`

	// DatabaseDSN holds the PostgreSQL connection string.
	DatabaseDSN string `json:"database_dsn"`

	// StoreDriver selects the persistence strategy: postgres or memory.
	StoreDriver string `json:"store_driver"`

	LogLevel string `json:"log_level"`

	// UpcomingDaysDefault is the payment window used when ?days is absent.
	UpcomingDaysDefault int `json:"upcoming_days_default"`

	// TimeZone names the IANA zone "today" is computed in. Empty means local.
	TimeZone string `json:"tz_name"`

	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`

	UnifiMode      string `json:"unifi_mode"`
	UnifiHost      string `json:"unifi_host"`
	UnifiAPIKey    string `json:"unifi_api_key"`
	UnifiConsoleID string `json:"unifi_console_id"`
	UnifiCAFile    string `json:"unifi_ca_file"`
	UnifiInsecure  bool   `json:"unifi_insecure"`

	// CalendarURL is an iCalendar feed imported on CalendarSchedule.
	CalendarURL      string `json:"calendar_url"`
	CalendarSchedule string `json:"calendar_sync_schedule"`

	// Seed inserts sample data into an empty store at startup.
	Seed bool `json:"seed"`

	// DBHealthInterval is how often the database is pinged.
	DBHealthInterval Duration `json:"db_health_interval"`

	// Config is the path to the JSON config file.
	Config string `json:"-"`
}

// Duration is a time.Duration that reads "30s"-style strings from JSON.
type Duration struct {
	time.Duration
}

// UnmarshalJSON accepts a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("duration must be a string or integer: %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

// Default returns the options used when nothing overrides them.
func Default() *Options {
	return &Options{
		ServerAddress:       "localhost:5000",
		StoreDriver:         "postgres",
		LogLevel:            "info",
		UpcomingDaysDefault: 14,
		UnifiMode:           CameraDisabled,
		CalendarSchedule:    "@every 6h",
		DBHealthInterval:    Duration{time.Minute},
		Config:              "config.json",
	}
}

// Parse builds the options from, in increasing priority: defaults, a .env
// file in the working directory, the JSON config file, command-line flags
// and environment variables.
func Parse() (*Options, error) {
	dotenv, err := godotenv.Read()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	return parse(flag.CommandLine, os.Args[1:], dotenv, os.LookupEnv)
}

func parse(fs *flag.FlagSet, args []string, dotenv map[string]string, lookup func(string) (string, bool)) (*Options, error) {
	options := Default()

	var flags Options
	var configPath string
	fs.StringVar(&flags.ServerAddress, "a", options.ServerAddress, "run on ip:port server")
	fs.StringVar(&flags.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&flags.StoreDriver, "store", options.StoreDriver, "store driver: postgres or memory")
	fs.StringVar(&flags.LogLevel, "log-level", options.LogLevel, "log level")
	fs.BoolVar(&flags.Seed, "seed", false, "insert sample data into an empty store")
	fs.StringVar(&configPath, "config", options.Config, "path to config file")
	fs.StringVar(&configPath, "c", options.Config, "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var problems []string
	problems = append(problems, applyEnv(options, func(key string) (string, bool) {
		v, ok := dotenv[key]
		return v, ok
	})...)

	visited := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { visited[f.Name] = true })

	if visited["config"] || visited["c"] {
		options.Config = configPath
	}
	if path, ok := lookup("CONFIG"); ok && path != "" {
		options.Config = path
	}
	if err := loadFile(options); err != nil {
		return nil, err
	}

	if visited["a"] {
		options.ServerAddress = flags.ServerAddress
	}
	if visited["d"] {
		options.DatabaseDSN = flags.DatabaseDSN
	}
	if visited["store"] {
		options.StoreDriver = flags.StoreDriver
	}
	if visited["log-level"] {
		options.LogLevel = flags.LogLevel
	}
	if visited["seed"] {
		options.Seed = flags.Seed
	}

	problems = append(problems, applyEnv(options, lookup)...)
	if len(problems) > 0 {
		return nil, fmt.Errorf("configuration parsing failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return options, nil
}

// loadFile merges the JSON config file over options. A missing file is
// not an error.
func loadFile(options *Options) error {
	if options.Config == "" {
		return nil
	}
	data, err := os.ReadFile(options.Config)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	path := options.Config
	if err := json.Unmarshal(data, options); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	options.Config = path
	return nil
}

// applyEnv copies every recognised variable found by lookup into options
// and reports values that cannot be parsed.
func applyEnv(o *Options, lookup func(string) (string, bool)) []string {
	var problems []string
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				problems = append(problems, fmt.Sprintf("%s: %q is not an integer", key, v))
				return
			}
			*dst = n
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				problems = append(problems, fmt.Sprintf("%s: %q is not a boolean", key, v))
				return
			}
			*dst = b
		}
	}
	duration := func(key string, dst *Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				problems = append(problems, fmt.Sprintf("%s: %q is not a duration", key, v))
				return
			}
			dst.Duration = d
		}
	}

	str("SERVER_ADDRESS", &o.ServerAddress)
	str("DATABASE_URL", &o.DatabaseDSN)
	str("STORE_DRIVER", &o.StoreDriver)
	str("LOG_LEVEL", &o.LogLevel)
	integer("UPCOMING_DAYS_DEFAULT", &o.UpcomingDaysDefault)
	str("TZ_NAME", &o.TimeZone)
	str("TLS_CERT", &o.TLSCert)
	str("TLS_KEY", &o.TLSKey)
	str("UNIFI_MODE", &o.UnifiMode)
	str("UNIFI_HOST", &o.UnifiHost)
	str("UNIFI_API_KEY", &o.UnifiAPIKey)
	str("UNIFI_CONSOLE_ID", &o.UnifiConsoleID)
	str("UNIFI_CA_FILE", &o.UnifiCAFile)
	boolean("UNIFI_INSECURE", &o.UnifiInsecure)
	str("CALENDAR_URL", &o.CalendarURL)
	str("CALENDAR_SYNC_SCHEDULE", &o.CalendarSchedule)
	boolean("SEED", &o.Seed)
	duration("DB_HEALTH_INTERVAL", &o.DBHealthInterval)
	return problems
}

// Validate checks the options and returns every problem found at once.
func (o *Options) Validate() error {
	var problems []string

	switch o.StoreDriver {
	case "postgres":
		if o.DatabaseDSN == "" {
			problems = append(problems, "DATABASE_URL is required when STORE_DRIVER is postgres")
		}
	case "memory":
	default:
		problems = append(problems, fmt.Sprintf("invalid store driver %q: must be one of [postgres memory]", o.StoreDriver))
	}

	if _, err := zap.ParseAtomicLevel(strings.ToLower(o.LogLevel)); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log level %q", o.LogLevel))
	}

	if o.UpcomingDaysDefault < 0 {
		problems = append(problems, fmt.Sprintf("invalid upcoming days default %d: must not be negative", o.UpcomingDaysDefault))
	}

	if o.TimeZone != "" {
		if _, err := time.LoadLocation(o.TimeZone); err != nil {
			problems = append(problems, fmt.Sprintf("invalid time zone %q: %v", o.TimeZone, err))
		}
	}

	if (o.TLSCert == "") != (o.TLSKey == "") {
		problems = append(problems, "TLS_CERT and TLS_KEY must be set together")
	}

	switch o.UnifiMode {
	case CameraDisabled:
	case CameraLocal:
		if o.UnifiHost == "" {
			problems = append(problems, "UNIFI_HOST is required in local camera mode")
		}
		if o.UnifiAPIKey == "" {
			problems = append(problems, "UNIFI_API_KEY is required in local camera mode")
		}
	case CameraCloud:
		if o.UnifiConsoleID == "" {
			problems = append(problems, "UNIFI_CONSOLE_ID is required in cloud camera mode")
		}
		if o.UnifiAPIKey == "" {
			problems = append(problems, "UNIFI_API_KEY is required in cloud camera mode")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid camera mode %q: must be one of [disabled local cloud]", o.UnifiMode))
	}

	if o.CalendarURL != "" && o.CalendarSchedule == "" {
		problems = append(problems, "CALENDAR_SYNC_SCHEDULE is required when CALENDAR_URL is set")
	}

	if o.DBHealthInterval.Duration <= 0 {
		problems = append(problems, fmt.Sprintf("invalid database health interval %v: must be positive", o.DBHealthInterval.Duration))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Location returns the configured time zone, or time.Local.
func (o *Options) Location() *time.Location {
	if o.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(o.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}
