package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	UI      UIConfig
	Decks   DecksConfig
	History HistoryConfig
	Remote  RemoteConfig
	Log     LogConfig
	Keys    map[string][]string
}

// UIConfig holds viewer settings.
type UIConfig struct {
	StartPresentation string `mapstructure:"start_presentation"`
	Transitions       bool
	Mouse             bool
	MarkdownStyle     string `mapstructure:"markdown_style"`
	AllowFullscreen   bool   `mapstructure:"allow_fullscreen"`
}

// DecksConfig lists extra deck files or directories.
type DecksConfig struct {
	Paths []string
}

// HistoryConfig holds the viewing log database settings.
type HistoryConfig struct {
	Enabled bool
	Path    string
}

// RemoteConfig holds the remote-control listener. An empty address disables it.
type RemoteConfig struct {
	Addr string
}

type LogConfig struct {
	Level string
	File  string
}

// Path returns the config file location: $SLIDEVIEW_CONFIG or
// ~/.config/slideview/config.toml.
func Path() string {
	if p := os.Getenv("SLIDEVIEW_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(homeDir(), ".config", "slideview", "config.toml")
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}

func defaults(v *viper.Viper) {
	home := homeDir()
	v.SetDefault("ui.start_presentation", "")
	v.SetDefault("ui.transitions", true)
	v.SetDefault("ui.mouse", true)
	v.SetDefault("ui.markdown_style", "auto")
	v.SetDefault("ui.allow_fullscreen", true)
	v.SetDefault("decks.paths", []string{filepath.Join(home, ".config", "slideview", "decks")})
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", filepath.Join(home, ".local", "share", "slideview", "history.db"))
	v.SetDefault("remote.addr", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(home, ".local", "state", "slideview", "slideview.log"))
	v.SetDefault("keys", map[string][]string{})
}

// Load reads configuration from file and env. Env var overrides use prefix SLIDEVIEW_.
func Load() (Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file; an empty path falls back
// to Path().
func LoadFile(path string) (Config, error) {
	v := viper.New()
	defaults(v)

	v.SetConfigType("toml")
	if path == "" {
		path = Path()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix("SLIDEVIEW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine, a broken one is not
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes cfg to path (Path() when empty), creating the directory.
func Save(cfg Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("ui.start_presentation", cfg.UI.StartPresentation)
	v.Set("ui.transitions", cfg.UI.Transitions)
	v.Set("ui.mouse", cfg.UI.Mouse)
	v.Set("ui.markdown_style", cfg.UI.MarkdownStyle)
	v.Set("ui.allow_fullscreen", cfg.UI.AllowFullscreen)
	v.Set("decks.paths", cfg.Decks.Paths)
	v.Set("history.enabled", cfg.History.Enabled)
	v.Set("history.path", cfg.History.Path)
	v.Set("remote.addr", cfg.Remote.Addr)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	if len(cfg.Keys) > 0 {
		v.Set("keys", cfg.Keys)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
