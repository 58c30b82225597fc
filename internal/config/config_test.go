package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAppConfigFillMissingDefaults(t *testing.T) {
	cfg := AppConfig{}
	cfg.FillMissingDefaults()

	if cfg.Connection.Connector != ConnectorIP {
		t.Fatalf("expected default connector %q, got %q", ConnectorIP, cfg.Connection.Connector)
	}
	if cfg.Connection.SerialBaud != DefaultSerialBaud {
		t.Fatalf("expected default serial baud %d, got %d", DefaultSerialBaud, cfg.Connection.SerialBaud)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.Logging.Level)
	}
	if cfg.Storage.HistoryDays != DefaultHistoryDays {
		t.Fatalf("expected default history days %d, got %d", DefaultHistoryDays, cfg.Storage.HistoryDays)
	}
	if cfg.Server.Listen != DefaultServerAddr {
		t.Fatalf("expected default listen addr %q, got %q", DefaultServerAddr, cfg.Server.Listen)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("load missing config: %v", err)
	}
	if cfg.Connection.Connector != ConnectorIP {
		t.Fatalf("expected default connector, got %q", cfg.Connection.Connector)
	}
	if !cfg.Alerts.Enabled || cfg.Alerts.MinLevel != DefaultMinLevel {
		t.Fatalf("expected default alert settings, got %+v", cfg.Alerts)
	}
}

func TestLoadPartialConfigFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{
  "connection": {
    "connector": "serial",
    "serial_port": "/dev/ttyUSB0"
  },
  "alerts": {
    "enabled": true,
    "min_level": 9
  }
}`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Connection.Connector != ConnectorSerial {
		t.Fatalf("expected serial connector, got %q", cfg.Connection.Connector)
	}
	if cfg.Connection.SerialBaud != DefaultSerialBaud {
		t.Fatalf("expected baud default to fill in, got %d", cfg.Connection.SerialBaud)
	}
	if cfg.Alerts.MinLevel != DefaultMinLevel {
		t.Fatalf("expected out-of-range min level to reset, got %d", cfg.Alerts.MinLevel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{name: "ip without host", mutate: func(c *AppConfig) {}, wantErr: true},
		{name: "ip with host", mutate: func(c *AppConfig) { c.Connection.Host = "192.168.8.1" }},
		{name: "serial without port", mutate: func(c *AppConfig) {
			c.Connection.Connector = ConnectorSerial
		}, wantErr: true},
		{name: "serial with port", mutate: func(c *AppConfig) {
			c.Connection.Connector = ConnectorSerial
			c.Connection.SerialPort = "/dev/ttyUSB0"
		}},
		{name: "unknown connector", mutate: func(c *AppConfig) {
			c.Connection.Connector = "carrier-pigeon"
		}, wantErr: true},
		{name: "server enabled without listen", mutate: func(c *AppConfig) {
			c.Connection.Host = "192.168.8.1"
			c.Server.Listen = " "
		}, wantErr: true},
	}

	for _, tt := range tests {
		cfg := Default()
		tt.mutate(&cfg)
		err := cfg.Validate()
		if tt.wantErr && err == nil {
			t.Fatalf("%s: expected validation error, got nil", tt.name)
		}
		if !tt.wantErr && err != nil {
			t.Fatalf("%s: unexpected validation error: %v", tt.name, err)
		}
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := Default()
	cfg.Connection.Host = "192.168.8.1"
	cfg.Storage.HistoryDays = 30

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got.Connection.Host != "192.168.8.1" {
		t.Fatalf("host mismatch: got %q", got.Connection.Host)
	}
	if got.Storage.HistoryDays != 30 {
		t.Fatalf("history days mismatch: got %d", got.Storage.HistoryDays)
	}
}
