package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "ONBOARDING"

type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Browser  BrowserConfig  `mapstructure:"browser" yaml:"browser"`
	Workflow WorkflowConfig `mapstructure:"workflow" yaml:"workflow"`
	CEP      CEPConfig      `mapstructure:"cep" yaml:"cep"`
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
}

type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

type BrowserConfig struct {
	Headless       bool          `mapstructure:"headless" yaml:"headless"`
	NoSandbox      bool          `mapstructure:"no_sandbox" yaml:"no_sandbox"`
	SlowMotion     time.Duration `mapstructure:"slow_motion" yaml:"slow_motion"`
	Bin            string        `mapstructure:"bin" yaml:"bin"`
	ViewportWidth  int           `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight int           `mapstructure:"viewport_height" yaml:"viewport_height"`
	MaxShotWidth   int           `mapstructure:"max_shot_width" yaml:"max_shot_width"`
}

type WorkflowConfig struct {
	EntryURL              string        `mapstructure:"entry_url" yaml:"entry_url"`
	LoginMarker           string        `mapstructure:"login_marker" yaml:"login_marker"`
	ElementTimeout        time.Duration `mapstructure:"element_timeout" yaml:"element_timeout"`
	Settle                time.Duration `mapstructure:"settle" yaml:"settle"`
	ArtifactDir           string        `mapstructure:"artifact_dir" yaml:"artifact_dir"`
	OperatingRegion       string        `mapstructure:"operating_region" yaml:"operating_region"`
	DefaultCity           string        `mapstructure:"default_city" yaml:"default_city"`
	FallbackAdmissionDate string        `mapstructure:"fallback_admission_date" yaml:"fallback_admission_date"`
	DefaultProductType    string        `mapstructure:"default_product_type" yaml:"default_product_type"`
	DefaultEmployer       string        `mapstructure:"default_employer" yaml:"default_employer"`
}

type CEPConfig struct {
	BaseURL   string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit" yaml:"rate_limit"`
}

type StorageConfig struct {
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	Region   string `mapstructure:"region" yaml:"region"`
	Bucket   string `mapstructure:"bucket" yaml:"bucket"`
	Folder   string `mapstructure:"folder" yaml:"folder"`
	Key      string `mapstructure:"key" yaml:"key"`
	Secret   string `mapstructure:"secret" yaml:"secret"`
	UseSSL   bool   `mapstructure:"use_ssl" yaml:"use_ssl"`
}

// Enabled reports whether enough is configured to talk to the bucket.
func (s StorageConfig) Enabled() bool {
	return s.Endpoint != "" && s.Bucket != "" && s.Key != "" && s.Secret != ""
}

type ServerConfig struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	MaxConcurrentRuns int64         `mapstructure:"max_concurrent_runs" yaml:"max_concurrent_runs"`
	MaxUploadMB       int64         `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	RunTimeout        time.Duration `mapstructure:"run_timeout" yaml:"run_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "onboarding-bot")
	v.SetDefault("logger.log_file", "log/onboarding.log")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.no_sandbox", true)
	v.SetDefault("browser.slow_motion", "0s")
	v.SetDefault("browser.viewport_width", 1366)
	v.SetDefault("browser.viewport_height", 900)
	v.SetDefault("browser.max_shot_width", 1280)

	v.SetDefault("workflow.entry_url", "https://pixcard.banksofttecnologia.com.br/AppCartao/Pages/Simulacao/ICSimulacao")
	v.SetDefault("workflow.login_marker", "ICLogin")
	v.SetDefault("workflow.element_timeout", "10s")
	v.SetDefault("workflow.settle", "1s")
	v.SetDefault("workflow.artifact_dir", "artifacts")
	v.SetDefault("workflow.operating_region", "RR")
	v.SetDefault("workflow.default_city", "Boa Vista")
	v.SetDefault("workflow.fallback_admission_date", "20/03/2021")
	v.SetDefault("workflow.default_product_type", "1")
	v.SetDefault("workflow.default_employer", "51")

	v.SetDefault("cep.base_url", "https://viacep.com.br/ws")
	v.SetDefault("cep.timeout", "5s")
	v.SetDefault("cep.rate_limit", 3.0)

	v.SetDefault("storage.use_ssl", true)

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.max_concurrent_runs", 1)
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("server.run_timeout", "15m")
	v.SetDefault("server.shutdown_timeout", "30s")
}

func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads defaults, an optional YAML file and ONBOARDING_* environment
// variables, in increasing order of precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacySpacesEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindLegacySpacesEnv keeps the DO_SPACES_* names deployments already export.
func bindLegacySpacesEnv(v *viper.Viper) {
	for key, legacy := range map[string]string{
		"storage.endpoint": "DO_SPACES_ENDPOINT",
		"storage.region":   "DO_SPACES_REGION",
		"storage.bucket":   "DO_SPACES_BUCKET",
		"storage.folder":   "DO_SPACES_FOLDER",
		"storage.key":      "DO_SPACES_KEY",
		"storage.secret":   "DO_SPACES_SECRET",
	} {
		env := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, env, legacy)
	}
}

func (c *Config) Validate() error {
	if c.Workflow.EntryURL == "" {
		return errors.New("workflow.entry_url is required")
	}
	if c.Workflow.LoginMarker == "" {
		return errors.New("workflow.login_marker is required")
	}
	if c.Workflow.ElementTimeout <= 0 {
		return errors.New("workflow.element_timeout must be positive")
	}
	if c.Workflow.Settle < 0 {
		return errors.New("workflow.settle must not be negative")
	}
	if c.Server.MaxConcurrentRuns < 1 {
		return errors.New("server.max_concurrent_runs must be a positive integer")
	}
	if c.CEP.RateLimit <= 0 {
		return errors.New("cep.rate_limit must be positive")
	}
	return nil
}
