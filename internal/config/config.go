package config

import (
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. It is loaded once at
// startup and treated as read-only afterwards.
type Config struct {
	Browser  BrowserConfig  `yaml:"browser" mapstructure:"browser"`
	Crawl    CrawlConfig    `yaml:"crawl" mapstructure:"crawl"`
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Analyzer AnalyzerConfig `yaml:"analyzer" mapstructure:"analyzer"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// BrowserConfig configures the shared browser process.
type BrowserConfig struct {
	Headless      bool          `yaml:"headless" mapstructure:"headless"`
	ProxyURL      string        `yaml:"proxy_url" mapstructure:"proxy_url"`
	BinPath       string        `yaml:"bin_path" mapstructure:"bin_path"`
	LaunchTimeout time.Duration `yaml:"launch_timeout" mapstructure:"launch_timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
}

// CrawlConfig configures page loading and politeness.
type CrawlConfig struct {
	Delay             time.Duration `yaml:"delay" mapstructure:"delay"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout" mapstructure:"navigation_timeout"`
	ProjectSettle     time.Duration `yaml:"project_settle" mapstructure:"project_settle"`
	GallerySettle     time.Duration `yaml:"gallery_settle" mapstructure:"gallery_settle"`
}

// SearchConfig configures hackathon discovery.
type SearchConfig struct {
	URL        string `yaml:"url" mapstructure:"url"`
	MaxResults int    `yaml:"max_results" mapstructure:"max_results"`
}

// AnalyzerConfig configures the content-generation provider.
type AnalyzerConfig struct {
	Enabled        bool   `yaml:"enabled" mapstructure:"enabled"`
	Provider       string `yaml:"provider" mapstructure:"provider"`
	GeminiKey      string `yaml:"gemini_key" mapstructure:"gemini_key"`
	GeminiModel    string `yaml:"gemini_model" mapstructure:"gemini_model"`
	AnthropicKey   string `yaml:"anthropic_key" mapstructure:"anthropic_key"`
	AnthropicModel string `yaml:"anthropic_model" mapstructure:"anthropic_model"`
	MaxTokens      int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OutputConfig configures where artifacts are written.
type OutputConfig struct {
	DataDir    string `yaml:"data_dir" mapstructure:"data_dir"`
	ReportsDir string `yaml:"reports_dir" mapstructure:"reports_dir"`
}

// StoreConfig configures the run history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("HACKINSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.proxy_url", "")
	v.SetDefault("browser.bin_path", "")
	v.SetDefault("browser.launch_timeout", 60*time.Second)
	v.SetDefault("browser.user_agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("crawl.delay", 2*time.Second)
	v.SetDefault("crawl.navigation_timeout", 30*time.Second)
	v.SetDefault("crawl.project_settle", 2*time.Second)
	v.SetDefault("crawl.gallery_settle", 3*time.Second)
	v.SetDefault("search.url", "")
	v.SetDefault("search.max_results", 10)
	v.SetDefault("analyzer.enabled", true)
	v.SetDefault("analyzer.provider", "gemini")
	v.SetDefault("analyzer.gemini_key", "")
	v.SetDefault("analyzer.anthropic_key", "")
	v.SetDefault("analyzer.gemini_model", "gemini-2.5-flash")
	v.SetDefault("analyzer.anthropic_model", "claude-haiku-4-5-20251001")
	v.SetDefault("analyzer.max_tokens", 4096)
	v.SetDefault("output.data_dir", "data/raw")
	v.SetDefault("output.reports_dir", "reports")
	v.SetDefault("store.path", "data/history.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	// Provider keys keep working under their conventional names.
	if cfg.Analyzer.GeminiKey == "" {
		cfg.Analyzer.GeminiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if cfg.Analyzer.AnthropicKey == "" {
		cfg.Analyzer.AnthropicKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
