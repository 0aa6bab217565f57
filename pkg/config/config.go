package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/rubiojr/setsearch/pkg/core"
	"github.com/rubiojr/setsearch/pkg/query"
)

//go:embed config.toml.sample
var configTemplate string

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Schema   query.Schema   `toml:"schema"`
	Render   RenderConfig   `toml:"render"`
	Mapper   MapperConfig   `toml:"mapper"`
	I18n     I18nConfig     `toml:"i18n"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
	Sets     []SetConfig    `toml:"sets"`
}

type DatabaseConfig struct {
	Driver  string `toml:"driver"`
	DSN     string `toml:"dsn"`
	Dialect string `toml:"dialect"`
}

type RenderConfig struct {
	SnippetWidth int    `toml:"snippet_width"`
	ExtractLimit int    `toml:"extract_limit"`
	ListLimit    int    `toml:"list_limit"`
	BasePath     string `toml:"base_path"`
	Fallback     string `toml:"fallback"`
	QuoteQuery   bool   `toml:"quote_query"`
	CSSClass     string `toml:"css_class"`
	MaxPageLinks int    `toml:"max_page_links"`
}

type MapperConfig struct {
	MediaBaseURL     string `toml:"media_base_url"`
	PermalinkPattern string `toml:"permalink_pattern"`
	Format           string `toml:"format"`
}

type I18nConfig struct {
	Locale   string                       `toml:"locale"`
	Messages map[string]map[string]string `toml:"messages,omitempty"`
}

type LogConfig struct {
	// DebugServices turns on debug output for single loggers ("store",
	// "search", "api", ...) without --debug.
	DebugServices []string `toml:"debug_services,omitempty"`
}

type ServerConfig struct {
	Listen       string   `toml:"listen"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	Workers      int      `toml:"workers"`
}

// SetConfig describes a searchable set of one content type.
type SetConfig struct {
	ID          string   `toml:"id"`
	ContentType string   `toml:"content_type"`
	Name        string   `toml:"name,omitempty"`
	Label       string   `toml:"label"`
	Statuses    []string `toml:"statuses,omitempty"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Defaults used for unset keys.
const (
	DefaultSnippetWidth = 140
	DefaultExtractLimit = 5
	DefaultListLimit    = 10
	DefaultListen       = "127.0.0.1:8080"
	DefaultFallback     = "No result"
)

func GetDefaultConfig() (*Config, error) {
	dbPath, err := GetDefaultDBPath()
	if err != nil {
		return nil, fmt.Errorf("getting default database path: %w", err)
	}
	cfg := &Config{
		Database: DatabaseConfig{Driver: "sqlite3", DSN: dbPath},
		Sets: []SetConfig{
			{ID: "posts", ContentType: "post", Label: "Articles"},
			{ID: "pages", ContentType: "page", Label: "Pages"},
		},
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadConfig reads configPath, falling back to the default configuration
// when the file does not exist. The result is validated.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a TOML document, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.Database.DSN == "" && config.Database.Driver != "postgres" {
		dbPath, err := GetDefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("getting default database path: %w", err)
		}
		config.Database.DSN = dbPath
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite3"
	}
	if c.Database.Dialect == "" {
		switch c.Database.Driver {
		case "postgres":
			c.Database.Dialect = "postgres"
		case "mysql":
			c.Database.Dialect = "mysql"
		default:
			c.Database.Dialect = "sqlite"
		}
	}
	c.Schema = c.Schema.WithDefaults()

	if c.Render.SnippetWidth == 0 {
		c.Render.SnippetWidth = DefaultSnippetWidth
	}
	if c.Render.ExtractLimit == 0 {
		c.Render.ExtractLimit = DefaultExtractLimit
	}
	if c.Render.ListLimit == 0 {
		c.Render.ListLimit = DefaultListLimit
	}
	if c.Render.BasePath == "" {
		c.Render.BasePath = "/"
	}
	if c.Render.Fallback == "" {
		c.Render.Fallback = DefaultFallback
	}
	if c.Mapper.Format == "" {
		c.Mapper.Format = "markdown"
	}
	if c.I18n.Locale == "" {
		c.I18n.Locale = "en"
	}
	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListen
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout = Duration{10 * time.Second}
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout = Duration{30 * time.Second}
	}
}

// Validate reports the first invalid setting as a *core.ConfigurationError.
func (c *Config) Validate() error {
	if _, err := query.DialectByName(c.Database.Dialect); err != nil {
		return core.NewConfigurationError("database.dialect", "%v", err)
	}
	if c.Database.DSN == "" {
		return core.NewConfigurationError("database.dsn", "missing data source name")
	}
	if err := c.Schema.Validate(); err != nil {
		return core.NewConfigurationError("schema", "%v", err)
	}
	if c.Render.SnippetWidth < 0 {
		return core.NewConfigurationError("render.snippet_width", "must not be negative")
	}
	if c.Render.ExtractLimit < 0 {
		return core.NewConfigurationError("render.extract_limit", "must not be negative")
	}
	if c.Render.ListLimit <= 0 {
		return core.NewConfigurationError("render.list_limit", "the list view needs a positive page size")
	}
	if !strings.HasPrefix(c.Render.BasePath, "/") {
		return core.NewConfigurationError("render.base_path", "%q must start with /", c.Render.BasePath)
	}
	switch c.Mapper.Format {
	case "markdown", "raw":
	default:
		return core.NewConfigurationError("mapper.format", "unknown format %q", c.Mapper.Format)
	}
	if len(c.Sets) == 0 {
		return core.NewConfigurationError("sets", "no result sets configured")
	}

	seen := make(map[string]bool, len(c.Sets))
	for i, s := range c.Sets {
		if s.ContentType == "" {
			return core.NewConfigurationError(fmt.Sprintf("sets[%d].content_type", i), "missing content type")
		}
		id := s.SetID()
		if seen[id] {
			return core.NewConfigurationError(fmt.Sprintf("sets[%d].id", i), "duplicate id %q", id)
		}
		seen[id] = true
	}
	return nil
}

// SetID returns the set id, defaulting to the content type.
func (s SetConfig) SetID() string {
	if s.ID != "" {
		return s.ID
	}
	return s.ContentType
}

// Set returns the set with id.
func (c *Config) Set(id string) (SetConfig, error) {
	for _, s := range c.Sets {
		if s.SetID() == id {
			return s, nil
		}
	}
	return SetConfig{}, core.NewConfigurationError("sets", "set %q not found", id)
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveTemplateConfig writes the commented sample configuration, pointing
// the database at c's DSN.
func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	template, err := c.generateConfigTemplate()
	if err != nil {
		return fmt.Errorf("generating config template: %w", err)
	}
	return os.WriteFile(configPath, []byte(template), 0644)
}

func (c *Config) generateConfigTemplate() (string, error) {
	dsn := c.Database.DSN
	if dsn == "" {
		var err error
		dsn, err = GetDefaultDBPath()
		if err != nil {
			return "", fmt.Errorf("getting default database path: %w", err)
		}
	}

	// Replace the placeholder dsn with the actual path
	template := strings.Replace(configTemplate, "/home/user/.local/share/setsearch/content.db", dsn, 1)
	return template, nil
}

// GetDefaultStorageDir returns the default storage directory for databases
func GetDefaultStorageDir() (string, error) {
	// Use XDG_DATA_HOME if set, otherwise use ~/.local/share
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "setsearch"), nil
}

// GetDefaultDBPath returns the default database path in the user's data directory
func GetDefaultDBPath() (string, error) {
	storageDir, err := GetDefaultStorageDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(storageDir, "content.db"), nil
}

// GetConfigDir returns the configuration directory for setsearch
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "setsearch"), nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// IsConfigError reports whether err is a configuration problem.
func IsConfigError(err error) bool {
	return errors.Is(err, core.ErrConfiguration)
}
