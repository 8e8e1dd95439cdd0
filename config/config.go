package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/k1LoW/expand"
	"github.com/k1LoW/icongen"
)

const appName = "icongen"

var (
	homePath       string
	configHomePath string
	dataHomePath   string
	stateHomePath  string
)

var profileRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Config overrides the built-in icon. Unset fields keep the default.
type Config struct {
	Width       *int     `yaml:"width,omitempty" json:"width,omitempty"`
	Height      *int     `yaml:"height,omitempty" json:"height,omitempty"`
	Background  string   `yaml:"background,omitempty" json:"background,omitempty"` // "#rrggbb[aa]" or "r,g,b[,a]"
	Foreground  string   `yaml:"foreground,omitempty" json:"foreground,omitempty"`
	Text        *string  `yaml:"text,omitempty" json:"text,omitempty"`
	X           *int     `yaml:"x,omitempty" json:"x,omitempty"`
	Y           *int     `yaml:"y,omitempty" json:"y,omitempty"`
	Font        string   `yaml:"font,omitempty" json:"font,omitempty"` // basic, goregular, gobold, gomono, file path or URL
	FontSize    *float64 `yaml:"fontSize,omitempty" json:"fontSize,omitempty"`
	Output      string   `yaml:"output,omitempty" json:"output,omitempty"`
	Compression string   `yaml:"compression,omitempty" json:"compression,omitempty"`
	// Scaled copies written after the master icon
	Variants []icongen.Variant `yaml:"variants,omitempty" json:"variants,omitempty"`
	// Add the standard Tauri icon set next to the output
	TauriSet *bool `yaml:"tauriSet,omitempty" json:"tauriSet,omitempty"`
	// Shell command run after the icon is written
	Hook string `yaml:"hook,omitempty" json:"hook,omitempty"`

	path string
}

func init() {
	var err error
	homePath, err = os.UserHomeDir()
	if err != nil {
		panic(fmt.Sprintf("failed to get home directory: %v", err))
	}
}

// Load loads the configuration.
// If path is given, that file must exist. Otherwise it searches in the following order:
// 1. ./icongen.yml
// 2. $XDG_CONFIG_HOME/icongen/config-{profile}.yml
// 3. $XDG_CONFIG_HOME/icongen/config.yml
// If no config file is found, it returns an empty Config struct.
func Load(path, profile string) (*Config, error) {
	if profile != "" && !profileRe.MatchString(profile) {
		return nil, fmt.Errorf("invalid profile name: %s, only alphanumeric characters, underscores, and hyphens are allowed", profile)
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return parse(path, b)
	}
	configBasePaths := []string{appName}
	if profile != "" {
		configBasePaths = append(configBasePaths, filepath.Join(configPath(), fmt.Sprintf("config-%s", profile)))
	}
	configBasePaths = append(configBasePaths, filepath.Join(configPath(), "config"))
	for _, basePath := range configBasePaths {
		for _, ext := range []string{".yml", ".yaml"} {
			p := basePath + ext
			if b, err := os.ReadFile(p); err == nil {
				return parse(p, b)
			}
		}
	}
	// If no config file is found, return an empty config
	return &Config{}, nil
}

func parse(path string, b []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(expand.ExpandenvYAMLBytes(b), cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

// Path returns the file the config was loaded from, or "" when defaults are used.
func (c *Config) Path() string {
	return c.path
}

// Apply overrides icon with the fields set in c.
func (c *Config) Apply(icon *icongen.Icon) error {
	if c.Width != nil {
		icon.Width = *c.Width
	}
	if c.Height != nil {
		icon.Height = *c.Height
	}
	if c.Background != "" {
		v, err := icongen.ParseColor(c.Background)
		if err != nil {
			return fmt.Errorf("background: %w", err)
		}
		icon.Background = v
	}
	if c.Foreground != "" {
		v, err := icongen.ParseColor(c.Foreground)
		if err != nil {
			return fmt.Errorf("foreground: %w", err)
		}
		icon.Foreground = v
	}
	if c.Text != nil {
		icon.Text = *c.Text
	}
	if c.X != nil {
		icon.Origin.X = *c.X
	}
	if c.Y != nil {
		icon.Origin.Y = *c.Y
	}
	if c.Font != "" {
		icon.Font = c.Font
	}
	if c.FontSize != nil {
		icon.FontSize = *c.FontSize
	}
	if c.Output != "" {
		icon.Output = c.Output
	}
	if c.Compression != "" {
		icon.Compression = icongen.Compression(c.Compression)
	}
	icon.Variants = append(icon.Variants, c.Variants...)
	if c.TauriSet != nil && *c.TauriSet {
		icon.Variants = append(icon.Variants, icongen.TauriVariants(icon.Output)...)
	}
	return nil
}

// configPath returns the path to the configuration directory.
func configPath() string {
	if configHomePath != "" {
		return configHomePath
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		configHomePath = filepath.Join(v, appName)
	} else {
		configHomePath = filepath.Join(homePath, ".config", appName)
	}
	return configHomePath
}

// DataHomePath returns the path to the data home directory.
func DataHomePath() string {
	if dataHomePath != "" {
		return dataHomePath
	}
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		dataHomePath = filepath.Join(v, appName)
	} else {
		dataHomePath = filepath.Join(homePath, ".local", "share", appName)
	}
	return dataHomePath
}

// FontCachePath returns the directory where downloaded fonts are kept.
func FontCachePath() string {
	return filepath.Join(DataHomePath(), "fonts")
}

func StateHomePath() string {
	if stateHomePath != "" {
		return stateHomePath
	}
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		stateHomePath = filepath.Join(v, appName)
	} else {
		stateHomePath = filepath.Join(homePath, ".local", "state", appName)
	}
	return stateHomePath
}
