package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Notion    NotionConfig    `yaml:"notion" mapstructure:"notion"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Scraper   ScraperConfig   `yaml:"scraper" mapstructure:"scraper"`
	Mail      MailConfig      `yaml:"mail" mapstructure:"mail"`
	Calendar  CalendarConfig  `yaml:"calendar" mapstructure:"calendar"`
	Rules     RulesConfig     `yaml:"rules" mapstructure:"rules"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// NotionConfig holds Notion API credentials and the lead database location.
type NotionConfig struct {
	Token      string `yaml:"token" mapstructure:"token"`
	ParentPage string `yaml:"parent_page" mapstructure:"parent_page"`
	LeadsTable string `yaml:"leads_table" mapstructure:"leads_table"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SearchConfig holds SearchApi.io settings for public-info lookups.
type SearchConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Engine  string `yaml:"engine" mapstructure:"engine"`
}

// ScraperConfig configures the headless page fetcher.
type ScraperConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
}

// MailConfig configures outbound email. Mode "log" records the email
// instead of sending; "smtp" delivers via the configured relay.
type MailConfig struct {
	Mode     string `yaml:"mode" mapstructure:"mode"`
	From     string `yaml:"from" mapstructure:"from"`
	SMTPHost string `yaml:"smtp_host" mapstructure:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port" mapstructure:"smtp_port"`
	SMTPUser string `yaml:"smtp_user" mapstructure:"smtp_user"`
	SMTPPass string `yaml:"smtp_pass" mapstructure:"smtp_pass"`
}

// CalendarConfig configures meeting scheduling. The calendar adapter
// only logs intent in this deployment.
type CalendarConfig struct {
	InvestorEmail string `yaml:"investor_email" mapstructure:"investor_email"`
	Timezone      string `yaml:"timezone" mapstructure:"timezone"`
}

// RulesConfig locates the optional rules file. When empty, the built-in
// default rule set is used.
type RulesConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the intake HTTP server.
type ServerConfig struct {
	Port             int `yaml:"port" mapstructure:"port"`
	RateWindowSecs   int `yaml:"rate_window_secs" mapstructure:"rate_window_secs"`
	RateMaxRequests  int `yaml:"rate_max_requests" mapstructure:"rate_max_requests"`
	ShutdownWaitSecs int `yaml:"shutdown_wait_secs" mapstructure:"shutdown_wait_secs"`
}

// RateWindow returns the rolling rate-limit window as a duration.
func (s ServerConfig) RateWindow() time.Duration {
	return time.Duration(s.RateWindowSecs) * time.Second
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADINTAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_window_secs", 900)
	v.SetDefault("server.rate_max_requests", 10)
	v.SetDefault("server.shutdown_wait_secs", 10)
	v.SetDefault("notion.leads_table", "Leads")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 800)
	v.SetDefault("search.base_url", "https://www.searchapi.io/api/v1")
	v.SetDefault("search.engine", "google")
	v.SetDefault("scraper.timeout_secs", 30)
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36")
	v.SetDefault("mail.mode", "log")
	v.SetDefault("mail.from", "noreply@sellsadvisors.com")
	v.SetDefault("mail.smtp_port", 587)
	v.SetDefault("calendar.investor_email", "partners@sellsadvisors.com")
	v.SetDefault("calendar.timezone", "America/New_York")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
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
