package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samirrijal/wienermonitor/internal/core/domain"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, ReadTimeout: 10, WriteTimeout: 10},
		WienerLinien: WienerLinienConfig{
			Endpoint:     "https://www.wienerlinien.at/ogd_realtime/monitor",
			StopParam:    "stopid",
			Timeout:      10,
			ScanInterval: 30,
		},
		Sensors: []SensorConfig{{StopID: 4640}},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.WienerLinien.StopParam = "diva"
	cfg.WienerLinien.Timeout = 0
	cfg.Sensors = []SensorConfig{
		{StopID: 0},
		{StopID: 4640, LineID: 301, Index: 2},
		{StopID: 4640, Mode: "last"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{
		"server.port",
		"wienerlinien.StopParam",
		"wienerlinien.Timeout",
		"sensors[0].StopID",
		"sensors[1]: line_id and index are mutually exclusive",
		"sensors[2].Mode",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in error, got:\n%s", want, msg)
		}
	}
}

func TestValidate_RequiresSensors(t *testing.T) {
	cfg := validConfig()
	cfg.Sensors = nil

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "at least one entry") {
		t.Fatalf("expected missing sensors error, got %v", err)
	}
}

func TestValidate_LegacyStops(t *testing.T) {
	cfg := validConfig()
	cfg.Sensors = nil
	cfg.Stops = []string{"4640", "abc"}
	cfg.FirstNext = "sometimes"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), `"abc" is not a stop id`) {
		t.Errorf("expected bad stop in error, got %v", err)
	}
	if !strings.Contains(err.Error(), "firstnext") {
		t.Errorf("expected firstnext in error, got %v", err)
	}
}

func TestQueries(t *testing.T) {
	cfg := validConfig()
	cfg.Sensors = []SensorConfig{
		{StopID: 4640, Mode: "next", Name: "Home"},
		{StopID: 4640, LineID: 301},
		{StopID: 252, Index: 2},
	}
	cfg.Stops = []string{" 4201 "}
	cfg.FirstNext = "next"
	cfg.Name = "Office"

	qs := cfg.Queries()
	if len(qs) != 4 {
		t.Fatalf("expected 4 queries, got %d", len(qs))
	}

	if qs[0].Mode != domain.ModeNext || qs[0].Name != "Home" || qs[0].LineID != nil || qs[0].Index != nil {
		t.Errorf("unexpected first query: %+v", qs[0])
	}
	if qs[1].LineID == nil || *qs[1].LineID != 301 || qs[1].Mode != domain.ModeFirst {
		t.Errorf("expected line 301 in first mode, got %+v", qs[1])
	}
	if qs[2].Index == nil || *qs[2].Index != 2 {
		t.Errorf("expected index 2, got %+v", qs[2])
	}
	if qs[3].StopID != 4201 || qs[3].Mode != domain.ModeNext || qs[3].Name != "Office" {
		t.Errorf("unexpected legacy query: %+v", qs[3])
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WIENERMONITOR_STOPS", "4640,4201")

	cfg, err := Load("monitor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.WienerLinien.ScanInterval != 30 || cfg.WienerLinien.Timeout != 10 {
		t.Errorf("unexpected wienerlinien defaults: %+v", cfg.WienerLinien)
	}
	if cfg.Telemetry.ServiceName != "monitor" {
		t.Errorf("expected service name monitor, got %s", cfg.Telemetry.ServiceName)
	}
	if len(cfg.Stops) != 2 || cfg.Stops[1] != "4201" {
		t.Errorf("expected stops from env, got %v", cfg.Stops)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	yaml := `
wienerlinien:
  api_key: file-key
sensors:
  - stop_id: 4640
    line_id: 301
    mode: next
  - stop_id: 252
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WIENERMONITOR_WIENERLINIEN_API_KEY", "env-key")
	t.Setenv("WIENERMONITOR_SERVER_PORT", "9090")

	cfg, err := Load("monitor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WienerLinien.APIKey != "env-key" {
		t.Errorf("expected env to override file, got %s", cfg.WienerLinien.APIKey)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if len(cfg.Sensors) != 2 || cfg.Sensors[0].LineID != 301 || cfg.Sensors[0].Mode != "next" {
		t.Errorf("unexpected sensors: %+v", cfg.Sensors)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WIENERMONITOR_WIENERLINIEN_STOP_PARAM", "diva")
	t.Setenv("WIENERMONITOR_STOPS", "4640")

	if _, err := Load("monitor"); err == nil {
		t.Fatal("expected validation error")
	}
}
