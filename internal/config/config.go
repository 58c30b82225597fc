package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConnectorType identifies which transport backend receives records.
type ConnectorType string

const (
	ConnectorIP     ConnectorType = "ip"
	ConnectorSerial ConnectorType = "serial"

	DefaultSerialBaud  = 115200
	DefaultServerAddr  = "127.0.0.1:8088"
	DefaultHistoryDays = 7
	DefaultMinLevel    = 2
)

// LoggingConfig defines runtime logging behavior.
type LoggingConfig struct {
	Level     string `json:"level"`
	LogToFile bool   `json:"log_to_file"`
}

// ConnectionConfig contains connector-specific connection parameters.
type ConnectionConfig struct {
	Connector  ConnectorType `json:"connector"`
	Host       string        `json:"host"`
	Port       int           `json:"port"`
	SerialPort string        `json:"serial_port"`
	SerialBaud int           `json:"serial_baud"`
}

// StorageConfig controls measurement history retention.
type StorageConfig struct {
	HistoryDays int `json:"history_days"`
}

// ServerConfig controls the HTTP status API.
type ServerConfig struct {
	Enabled bool   `json:"enabled"`
	Listen  string `json:"listen"`
}

// AlertsConfig controls signal degradation notifications.
type AlertsConfig struct {
	Enabled  bool `json:"enabled"`
	MinLevel int  `json:"min_level"`
}

// AppConfig is the root persisted application configuration.
type AppConfig struct {
	Connection ConnectionConfig `json:"connection"`
	Logging    LoggingConfig    `json:"logging"`
	Storage    StorageConfig    `json:"storage"`
	Server     ServerConfig     `json:"server"`
	Alerts     AlertsConfig     `json:"alerts"`
}

func Default() AppConfig {
	return AppConfig{
		Connection: ConnectionConfig{
			Connector:  ConnectorIP,
			Host:       "",
			Port:       0,
			SerialPort: "",
			SerialBaud: DefaultSerialBaud,
		},
		Logging: LoggingConfig{
			Level:     "info",
			LogToFile: false,
		},
		Storage: StorageConfig{
			HistoryDays: DefaultHistoryDays,
		},
		Server: ServerConfig{
			Enabled: true,
			Listen:  DefaultServerAddr,
		},
		Alerts: AlertsConfig{
			Enabled:  true,
			MinLevel: DefaultMinLevel,
		},
	}
}

func Load(path string) (AppConfig, error) {
	cfg := Default()
	cleanPath := filepath.Clean(path)
	// #nosec G304 -- path is resolved by app runtime and points to user config dir.
	raw, err := os.ReadFile(cleanPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return AppConfig{}, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(raw, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("decode config json: %w", err)
	}

	cfg.FillMissingDefaults()

	return cfg, nil
}

func (c *AppConfig) FillMissingDefaults() {
	if c.Connection.Connector == "" {
		c.Connection.Connector = ConnectorIP
	}
	if c.Connection.SerialBaud <= 0 {
		c.Connection.SerialBaud = DefaultSerialBaud
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Storage.HistoryDays <= 0 {
		c.Storage.HistoryDays = DefaultHistoryDays
	}
	if c.Server.Listen == "" {
		c.Server.Listen = DefaultServerAddr
	}
	if c.Alerts.MinLevel < 0 || c.Alerts.MinLevel > 4 {
		c.Alerts.MinLevel = DefaultMinLevel
	}
}

func (c AppConfig) Validate() error {
	switch c.Connection.Connector {
	case ConnectorIP:
		if strings.TrimSpace(c.Connection.Host) == "" {
			return errors.New("ip host is required")
		}
	case ConnectorSerial:
		if strings.TrimSpace(c.Connection.SerialPort) == "" {
			return errors.New("serial port is required")
		}
		if c.Connection.SerialBaud <= 0 {
			return errors.New("serial baud must be positive")
		}
	default:
		return fmt.Errorf("unknown connector: %s", c.Connection.Connector)
	}

	if c.Server.Enabled && strings.TrimSpace(c.Server.Listen) == "" {
		return errors.New("server listen address is required")
	}
	if c.Alerts.MinLevel < 0 || c.Alerts.MinLevel > 4 {
		return fmt.Errorf("alert min level out of range: %d", c.Alerts.MinLevel)
	}

	return nil
}

func Save(path string, cfg AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, raw, 0o600); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp config: %w", err)
	}

	return nil
}
