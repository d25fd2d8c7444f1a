package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	APIBaseURL string       `toml:"api_base_url"`
	PageSize   int          `toml:"page_size"`
	LogFile    string       `toml:"log_file"`
	Hotkeys    HotkeyConfig `toml:"hotkeys"`
}

type HotkeyConfig struct {
	Quit    string `toml:"quit"`
	Logout  string `toml:"logout"`
	Chat    string `toml:"chat"`
	Search  string `toml:"search"`
	Export  string `toml:"export"`
	Refresh string `toml:"refresh"`
}

func DefaultConfig() Config {
	return Config{
		APIBaseURL: "https://riodino14-edupulse-backend.hf.space",
		PageSize:   10,
		LogFile:    "",
		Hotkeys: HotkeyConfig{
			Quit:    "q",
			Logout:  "L",
			Chat:    "c",
			Search:  "/",
			Export:  "x",
			Refresh: "r",
		},
	}
}

func ConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "edupulse")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "edupulse.toml")
}

// DataDir holds the session file and exported reports.
func DataDir() string {
	return filepath.Join(ConfigDir(), "data")
}

func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

func Load() (Config, error) {
	if !Exists() {
		if err := createDefaultConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	_, err := toml.DecodeFile(ConfigPath(), &cfg)
	if err != nil {
		return Config{}, err
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaults.APIBaseURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaults.PageSize
	}
	if cfg.Hotkeys.Quit == "" {
		cfg.Hotkeys.Quit = defaults.Hotkeys.Quit
	}
	if cfg.Hotkeys.Logout == "" {
		cfg.Hotkeys.Logout = defaults.Hotkeys.Logout
	}
	if cfg.Hotkeys.Chat == "" {
		cfg.Hotkeys.Chat = defaults.Hotkeys.Chat
	}
	if cfg.Hotkeys.Search == "" {
		cfg.Hotkeys.Search = defaults.Hotkeys.Search
	}
	if cfg.Hotkeys.Export == "" {
		cfg.Hotkeys.Export = defaults.Hotkeys.Export
	}
	if cfg.Hotkeys.Refresh == "" {
		cfg.Hotkeys.Refresh = defaults.Hotkeys.Refresh
	}

	return cfg, nil
}

func createDefaultConfig() error {
	if err := os.MkdirAll(ConfigDir(), 0755); err != nil {
		return err
	}
	if err := os.MkdirAll(DataDir(), 0755); err != nil {
		return err
	}

	cfg := DefaultConfig()

	f, err := os.Create(ConfigPath())
	if err != nil {
		return err
	}
	defer f.Close()

	header := `# edupulse configuration
# Auto-generated on first run

# api_base_url points at the EduPulse analytics backend
`
	f.WriteString(header)

	return toml.NewEncoder(f).Encode(cfg)
}

func Save(cfg Config) error {
	if err := os.MkdirAll(ConfigDir(), 0755); err != nil {
		return err
	}

	f, err := os.Create(ConfigPath())
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
