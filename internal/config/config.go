package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/janekbaraniewski/gateusage/internal/core"
)

type UIConfig struct {
	RefreshIntervalSeconds int     `json:"refresh_interval_seconds"`
	WarnThreshold          float64 `json:"warn_threshold"`
	CritThreshold          float64 `json:"crit_threshold"`
}

type Config struct {
	BaseURL    string   `json:"base_url"`
	TimeWindow string   `json:"time_window"`
	PageSize   int      `json:"page_size"`
	UI         UIConfig `json:"ui"`
}

func DefaultConfig() Config {
	return Config{
		TimeWindow: string(core.TimeWindow7d),
		PageSize:   10,
		UI: UIConfig{
			RefreshIntervalSeconds: 30,
			WarnThreshold:          0.20,
			CritThreshold:          0.05,
		},
	}
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "gateusage")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gateusage")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.UI.RefreshIntervalSeconds <= 0 {
		cfg.UI.RefreshIntervalSeconds = 30
	}
	if cfg.UI.WarnThreshold <= 0 {
		cfg.UI.WarnThreshold = 0.20
	}
	if cfg.UI.CritThreshold <= 0 {
		cfg.UI.CritThreshold = 0.05
	}
	cfg.TimeWindow = string(core.ParseTimeWindow(cfg.TimeWindow))

	return cfg, nil
}

// saveMu guards read-modify-write cycles on the config file.
var saveMu sync.Mutex

func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

func SaveTo(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// SaveBaseURL persists the gateway address (read-modify-write).
func SaveBaseURL(baseURL string) error {
	return SaveBaseURLTo(ConfigPath(), baseURL)
}

func SaveBaseURLTo(path, baseURL string) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	cfg, err := LoadFrom(path)
	if err != nil {
		cfg = DefaultConfig()
	}
	cfg.BaseURL = baseURL
	return SaveTo(path, cfg)
}

// SaveTimeWindow persists the dashboard window selection (read-modify-write).
func SaveTimeWindow(window core.TimeWindow) error {
	return SaveTimeWindowTo(ConfigPath(), window)
}

func SaveTimeWindowTo(path string, window core.TimeWindow) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	cfg, err := LoadFrom(path)
	if err != nil {
		cfg = DefaultConfig()
	}
	cfg.TimeWindow = string(window)
	return SaveTo(path, cfg)
}
