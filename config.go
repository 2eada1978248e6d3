package kkumttre

import (
	"fmt"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/kkumttre/kkumttre/board"
	"github.com/kkumttre/kkumttre/ingest"
	"github.com/kkumttre/kkumttre/settings"
	"github.com/kkumttre/kkumttre/storage"
)

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "꿈뜨레 지역공동체")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags

	Addr string `yaml:"addr"` // Listen address (default ":3000")

	Storage     storage.Config `yaml:"storage"`
	PostsKey    string         `yaml:"posts_key"`    // default "kkumttre_posts"
	SettingsKey string         `yaml:"settings_key"` // default "kkumttre_settings"

	ImageMaxWidth   int    `yaml:"image_max_width"`  // default 1000
	ImageQuality    int    `yaml:"image_quality"`    // JPEG quality, default 70
	ImageMaxPixels  int64  `yaml:"image_max_pixels"` // width*height cap, default 40 MP
	AttachmentLimit int64  `yaml:"attachment_limit"` // bytes, default 2 MiB
	BodyLimit       string `yaml:"body_limit"`       // echo size string, default "32M"

	WriteLimit  int           `yaml:"write_limit"`  // board posts per window and IP (default 10)
	WriteWindow time.Duration `yaml:"write_window"` // default 1m

	SessionSecret string `yaml:"session_secret"` // random per process when empty
	CookieSecure  bool   `yaml:"cookie_secure"`  // Set true for HTTPS

	LogLevel string `yaml:"log_level"` // default "info"
	LogFile  string `yaml:"log_file"`  // rotated log file, stderr only when empty
}

// DefaultStorageQuota mirrors the per-origin quota browsers give local storage.
const DefaultStorageQuota = 5 << 20

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "꿈뜨레 지역공동체"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Description == "" {
		c.Description = "함께 돌보고, 함께 살아가는 지역공동체 꿈뜨레"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = storage.DriverSQLite
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "data/site.db"
	}
	if c.Storage.Quota == 0 {
		c.Storage.Quota = DefaultStorageQuota
	}
	if c.PostsKey == "" {
		c.PostsKey = board.DefaultKey
	}
	if c.SettingsKey == "" {
		c.SettingsKey = settings.DefaultKey
	}
	if c.ImageMaxWidth == 0 {
		c.ImageMaxWidth = ingest.DefaultMaxWidth
	}
	if c.ImageQuality == 0 {
		c.ImageQuality = ingest.DefaultQuality
	}
	if c.ImageMaxPixels == 0 {
		c.ImageMaxPixels = ingest.DefaultMaxPixels
	}
	if c.AttachmentLimit == 0 {
		c.AttachmentLimit = ingest.DefaultAttachmentLimit
	}
	if c.BodyLimit == "" {
		c.BodyLimit = "32M"
	}
	if c.WriteLimit == 0 {
		c.WriteLimit = 10
	}
	if c.WriteWindow == 0 {
		c.WriteWindow = time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// LoadConfig reads the YAML file at path, when path is not empty, and then
// applies KKUMTTRE_* environment variables on top of it.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("kkumttre: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("kkumttre: parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *SiteConfig) applyEnv() error {
	c.Name = EnvOr("KKUMTTRE_NAME", c.Name)
	c.URL = EnvOr("KKUMTTRE_URL", c.URL)
	c.Description = EnvOr("KKUMTTRE_DESCRIPTION", c.Description)
	c.Addr = EnvOr("KKUMTTRE_ADDR", c.Addr)
	c.Storage.Driver = EnvOr("KKUMTTRE_STORAGE", c.Storage.Driver)
	c.Storage.Path = EnvOr("KKUMTTRE_DB_PATH", c.Storage.Path)
	c.Storage.RedisAddr = EnvOr("KKUMTTRE_REDIS_ADDR", c.Storage.RedisAddr)
	c.Storage.RedisPassword = EnvOr("KKUMTTRE_REDIS_PASSWORD", c.Storage.RedisPassword)
	c.SessionSecret = EnvOr("KKUMTTRE_SESSION_SECRET", c.SessionSecret)
	c.LogLevel = EnvOr("KKUMTTRE_LOG_LEVEL", c.LogLevel)
	c.LogFile = EnvOr("KKUMTTRE_LOG_FILE", c.LogFile)

	if v := os.Getenv("KKUMTTRE_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("kkumttre: KKUMTTRE_REDIS_DB: %w", err)
		}
		c.Storage.RedisDB = n
	}
	if v := os.Getenv("KKUMTTRE_STORAGE_QUOTA"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("kkumttre: KKUMTTRE_STORAGE_QUOTA: %w", err)
		}
		c.Storage.Quota = n
	}
	if v := os.Getenv("KKUMTTRE_COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("kkumttre: KKUMTTRE_COOKIE_SECURE: %w", err)
		}
		c.CookieSecure = b
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithBackend makes the App use b instead of opening Config.Storage.
// The App does not close b.
func WithBackend(b storage.Backend) Option {
	return func(a *App) {
		a.backend = b
		a.ownsBackend = false
	}
}

// WithLogger replaces the logger built from LogLevel and LogFile.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.Log = l
	}
}

// WithClock overrides the time source used to stamp new posts.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
