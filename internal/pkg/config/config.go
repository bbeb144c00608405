package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/samirrijal/wienermonitor/internal/core/domain"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	NATS         NATSConfig         `mapstructure:"nats"`
	Valkey       ValkeyConfig       `mapstructure:"valkey"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry"`
	Log          LogConfig          `mapstructure:"log"`
	WienerLinien WienerLinienConfig `mapstructure:"wienerlinien"`
	Sensors      []SensorConfig     `mapstructure:"sensors"`

	// Legacy single-list form: every stop gets one sensor in FirstNext mode.
	Stops     []string `mapstructure:"stops"`
	FirstNext string   `mapstructure:"firstnext"`
	Name      string   `mapstructure:"name"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// WienerLinienConfig configures the realtime monitor endpoint.
type WienerLinienConfig struct {
	Endpoint     string `mapstructure:"endpoint" validate:"required,url"`
	StopParam    string `mapstructure:"stop_param" validate:"oneof=stopid rbl"`
	APIKey       string `mapstructure:"api_key"`
	Timeout      int    `mapstructure:"timeout" validate:"gt=0"`
	ScanInterval int    `mapstructure:"scan_interval" validate:"gt=0"`
}

// SensorConfig is one configured sensor. Zero LineID and Index mean unset.
type SensorConfig struct {
	StopID int    `mapstructure:"stop_id" validate:"gt=0"`
	LineID int    `mapstructure:"line_id" validate:"gte=0"`
	Index  int    `mapstructure:"index" validate:"gte=0"`
	Mode   string `mapstructure:"mode" validate:"omitempty,oneof=first next"`
	Name   string `mapstructure:"name"`
}

func (w WienerLinienConfig) TimeoutDuration() time.Duration {
	return time.Duration(w.Timeout) * time.Second
}

func (w WienerLinienConfig) ScanIntervalDuration() time.Duration {
	return time.Duration(w.ScanInterval) * time.Second
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	// .env seeds the process environment; variables already set win.
	_ = godotenv.Load()

	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("wienerlinien.endpoint", "https://www.wienerlinien.at/ogd_realtime/monitor")
	v.SetDefault("wienerlinien.stop_param", "stopid")
	v.SetDefault("wienerlinien.api_key", "")
	v.SetDefault("wienerlinien.timeout", 10)
	v.SetDefault("wienerlinien.scan_interval", 30)
	v.SetDefault("firstnext", "first")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: WIENERMONITOR_WIENERLINIEN_API_KEY → wienerlinien.api_key
	v.SetEnvPrefix("WIENERMONITOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// AutomaticEnv does not reach keys absent from file and defaults.
	if stops := v.GetString("stops"); len(cfg.Stops) == 0 && stops != "" {
		cfg.Stops = strings.Split(stops, ",")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}

	v := validator.New()
	if err := v.Struct(c.WienerLinien); err != nil {
		errs = append(errs, fieldErrors("wienerlinien", err)...)
	}
	for i, s := range c.Sensors {
		if err := v.Struct(s); err != nil {
			errs = append(errs, fieldErrors(fmt.Sprintf("sensors[%d]", i), err)...)
		}
		if s.LineID > 0 && s.Index > 0 {
			errs = append(errs, fmt.Sprintf("sensors[%d]: line_id and index are mutually exclusive", i))
		}
	}
	for _, stop := range c.Stops {
		if id, err := strconv.Atoi(strings.TrimSpace(stop)); err != nil || id <= 0 {
			errs = append(errs, fmt.Sprintf("stops: %q is not a stop id", stop))
		}
	}
	if _, err := domain.ParseMode(c.FirstNext); err != nil {
		errs = append(errs, "firstnext: "+err.Error())
	}
	if len(c.Sensors) == 0 && len(c.Stops) == 0 {
		errs = append(errs, "at least one entry in sensors or stops is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Queries converts the sensor entries, followed by the legacy stop list, into
// stop queries. Call on a validated Config.
func (c *Config) Queries() []domain.StopQuery {
	var queries []domain.StopQuery
	for _, s := range c.Sensors {
		mode, _ := domain.ParseMode(s.Mode)
		q := domain.StopQuery{StopID: s.StopID, Mode: mode, Name: s.Name}
		if s.LineID > 0 {
			lineID := s.LineID
			q.LineID = &lineID
		}
		if s.Index > 0 {
			index := s.Index
			q.Index = &index
		}
		queries = append(queries, q)
	}

	mode, _ := domain.ParseMode(c.FirstNext)
	for _, stop := range c.Stops {
		id, _ := strconv.Atoi(strings.TrimSpace(stop))
		queries = append(queries, domain.StopQuery{StopID: id, Mode: mode, Name: c.Name})
	}
	return queries
}

func fieldErrors(prefix string, err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{prefix + ": " + err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fmt.Sprintf("%s.%s failed %q (got %v)", prefix, fe.Field(), fe.Tag(), fe.Value()))
	}
	return out
}
