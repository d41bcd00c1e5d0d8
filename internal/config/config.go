package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/pagekit/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "pagekit.json"

	// EnvConfigPath names an explicit configuration file.
	EnvConfigPath = "PAGEKIT_CONFIG"

	// DefaultPort is the default server port.
	DefaultPort = 7070

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = "10s"

	// IDPlaceholder is replaced by the entity id in favorite id templates.
	IDPlaceholder = "{id}"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendS3     = "s3"
)

// Config represents the complete pagekit.json configuration.
type Config struct {
	// Classes names the CSS classes the toggler and presenter apply.
	Classes ClassesConfig `json:"classes,omitempty"`

	// Favorite contains the element id templates of the favorite button.
	Favorite FavoriteConfig `json:"favorite,omitempty"`

	// Storage selects and configures the storage surface.
	Storage StorageConfig `json:"storage,omitempty"`

	// HTTP configures the JSON transport.
	HTTP HTTPConfig `json:"http,omitempty"`

	// Server configures `pagekit serve`.
	Server ServerConfig `json:"server,omitempty"`

	// Log configures the diagnostics logger.
	Log LogConfig `json:"log,omitempty"`

	// Metrics configures the Prometheus collectors.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ClassesConfig names CSS state classes.
type ClassesConfig struct {
	// Hidden is the marker class that hides an element.
	Hidden string `json:"hidden,omitempty"`

	// Favorited is set on a favorite button whose entity is favorited.
	Favorited string `json:"favorited,omitempty"`
}

// FavoriteConfig holds id templates; "{id}" is replaced by the entity id.
type FavoriteConfig struct {
	Button   string `json:"button,omitempty"`
	StarIcon string `json:"starIcon,omitempty"`
	XIcon    string `json:"xIcon,omitempty"`
}

// StorageConfig selects a storage surface.
type StorageConfig struct {
	// Backend is one of memory, file, redis or s3.
	Backend string `json:"backend,omitempty"`

	// QuotaBytes limits the memory backend (0 = unlimited).
	QuotaBytes int `json:"quotaBytes,omitempty"`

	// Path is the JSON file used by the file backend.
	Path string `json:"path,omitempty"`

	Redis RedisConfig `json:"redis,omitempty"`
	S3    S3Config    `json:"s3,omitempty"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr      string `json:"addr,omitempty"`
	Password  string `json:"password,omitempty"`
	DB        int    `json:"db,omitempty"`
	KeyPrefix string `json:"keyPrefix,omitempty"`
}

// S3Config configures the s3 backend.
type S3Config struct {
	Bucket string `json:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Region string `json:"region,omitempty"`
}

// HTTPConfig configures the JSON transport.
type HTTPConfig struct {
	// BaseURL resolves relative request URLs.
	BaseURL string `json:"baseURL,omitempty"`

	// Timeout is the client timeout (e.g., "10s").
	Timeout string `json:"timeout,omitempty"`
}

// ServerConfig configures the demo page server.
type ServerConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// Page is the server-rendered HTML page to serve and patch.
	Page string `json:"page,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// MetricsConfig configures metrics.
type MetricsConfig struct {
	Namespace string `json:"namespace,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified directory.
// It looks for pagekit.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrDefault loads the file named by PAGEKIT_CONFIG, or pagekit.json in
// dir. A missing pagekit.json in dir yields the defaults; a missing file named
// by the environment is an error.
func LoadOrDefault(dir string) (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return LoadFile(path)
	}
	cfg, err := Load(dir)
	if err != nil {
		if _, statErr := os.Stat(filepath.Join(dir, ConfigFileName)); os.IsNotExist(statErr) {
			return New(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E030").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path)).
				WithSuggestion("Run 'pagekit config init' to write the defaults")
		}
		return nil, errors.New("E031").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E031").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E031").Wrap(err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E031").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Classes.Hidden == "" {
		c.Classes.Hidden = "hidden"
	}
	if c.Classes.Favorited == "" {
		c.Classes.Favorited = "favorited"
	}

	if c.Favorite.Button == "" {
		c.Favorite.Button = "favorite-btn-" + IDPlaceholder
	}
	if c.Favorite.StarIcon == "" {
		c.Favorite.StarIcon = "star-icon-" + IDPlaceholder
	}
	if c.Favorite.XIcon == "" {
		c.Favorite.XIcon = "x-icon-" + IDPlaceholder
	}

	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendMemory
	}
	if c.Storage.Path == "" {
		c.Storage.Path = ".pagekit-storage.json"
	}
	if c.Storage.Redis.Addr == "" {
		c.Storage.Redis.Addr = "localhost:6379"
	}

	if c.HTTP.Timeout == "" {
		c.HTTP.Timeout = DefaultTimeout
	}

	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "pagekit"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E033")
	}

	switch c.Storage.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	case BackendS3:
		if c.Storage.S3.Bucket == "" {
			return errors.New("E031").
				WithDetail("storage.s3.bucket is required for the s3 backend")
		}
	default:
		return errors.New("E032").
			WithDetail("Got storage.backend = " + strconv.Quote(c.Storage.Backend))
	}

	if c.Storage.QuotaBytes < 0 {
		return errors.New("E031").WithDetail("storage.quotaBytes must not be negative")
	}

	if _, err := time.ParseDuration(c.HTTP.Timeout); err != nil {
		return errors.New("E031").
			WithDetail("http.timeout must be a duration like \"10s\"").
			Wrap(err)
	}

	for _, tmpl := range []string{c.Favorite.Button, c.Favorite.StarIcon, c.Favorite.XIcon} {
		if !strings.Contains(tmpl, IDPlaceholder) {
			return errors.New("E031").
				WithDetail("favorite id template " + strconv.Quote(tmpl) + " has no " + IDPlaceholder + " placeholder")
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("E031").WithDetail("log.level must be debug, info, warn or error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E031").WithDetail("log.format must be text or json")
	}

	return nil
}

// Timeout returns the parsed HTTP timeout, falling back to the default.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.HTTP.Timeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultTimeout)
	}
	return d
}

// ServerAddress returns the listen address for `pagekit serve`.
func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// FavoriteIDs expands the favorite templates for an entity id.
func (c *Config) FavoriteIDs(entityID string) (button, star, x string) {
	expand := func(tmpl string) string {
		return strings.ReplaceAll(tmpl, IDPlaceholder, entityID)
	}
	return expand(c.Favorite.Button), expand(c.Favorite.StarIcon), expand(c.Favorite.XIcon)
}
