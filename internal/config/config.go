// Package config loads smsctl settings from defaults, an optional YAML file
// and SMSCTL_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLogFile           = "sms.json"
	DefaultBackend           = BackendMMCLI
	DefaultMMCLI             = "mmcli"
	DefaultCountryCode       = "+86"
	DefaultLocalNumberLength = 11
	DefaultDisplayCount      = 10
	DefaultPreviewLength     = 50
	DefaultServiceName       = "ModemManager.service"
	DefaultLogLevel          = "info"
	DefaultListenAddr        = "127.0.0.1:6006"

	BackendMMCLI = "mmcli"
	BackendDBus  = "dbus"
)

// Config holds all runtime settings.
type Config struct {
	LogFile string `yaml:"log_file"` // JSON message log
	Backend string `yaml:"backend"`  // mmcli or dbus
	MMCLI   string `yaml:"mmcli"`    // mmcli executable

	// Local numbers of exactly LocalNumberLength digits get CountryCode
	// prepended before sending. An empty CountryCode disables this.
	CountryCode       string `yaml:"country_code"`
	LocalNumberLength int    `yaml:"local_number_length"`

	DisplayCount  int `yaml:"display_count"`  // log entries shown in passive mode
	PreviewLength int `yaml:"preview_length"` // characters of content shown by --list

	ExecTimeout  time.Duration `yaml:"exec_timeout"` // 0 = wait forever
	CheckService bool          `yaml:"check_service"`
	ServiceName  string        `yaml:"service_name"`

	LogLevel   string `yaml:"log_level"`
	ListenAddr string `yaml:"listen_addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogFile:           DefaultLogFile,
		Backend:           DefaultBackend,
		MMCLI:             DefaultMMCLI,
		CountryCode:       DefaultCountryCode,
		LocalNumberLength: DefaultLocalNumberLength,
		DisplayCount:      DefaultDisplayCount,
		PreviewLength:     DefaultPreviewLength,
		CheckService:      true,
		ServiceName:       DefaultServiceName,
		LogLevel:          DefaultLogLevel,
		ListenAddr:        DefaultListenAddr,
	}
}

// Load builds the configuration. path may be empty, in which case
// SMSCTL_CONFIG is consulted; a missing file named only by the environment
// is ignored, a missing file named explicitly is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("SMSCTL_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil && (explicit || !os.IsNotExist(err)) {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.LogFile = getEnv("SMSCTL_LOG_FILE", c.LogFile)
	c.Backend = getEnv("SMSCTL_BACKEND", c.Backend)
	c.MMCLI = getEnv("SMSCTL_MMCLI", c.MMCLI)
	if v, ok := os.LookupEnv("SMSCTL_COUNTRY_CODE"); ok {
		c.CountryCode = v
	}
	c.LocalNumberLength = getEnvInt("SMSCTL_LOCAL_NUMBER_LENGTH", c.LocalNumberLength)
	c.DisplayCount = getEnvInt("SMSCTL_DISPLAY_COUNT", c.DisplayCount)
	c.PreviewLength = getEnvInt("SMSCTL_PREVIEW_LENGTH", c.PreviewLength)
	c.ExecTimeout = getEnvDuration("SMSCTL_EXEC_TIMEOUT", c.ExecTimeout)
	c.CheckService = getEnvBool("SMSCTL_CHECK_SERVICE", c.CheckService)
	c.ServiceName = getEnv("SMSCTL_SERVICE_NAME", c.ServiceName)
	c.LogLevel = getEnv("SMSCTL_LOG_LEVEL", c.LogLevel)
	c.ListenAddr = getEnv("SMSCTL_LISTEN", c.ListenAddr)
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMMCLI, BackendDBus:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendMMCLI, BackendDBus)
	}
	if strings.TrimSpace(c.LogFile) == "" {
		return fmt.Errorf("log_file must not be empty")
	}
	if c.MMCLI == "" {
		return fmt.Errorf("mmcli must not be empty")
	}
	if c.LocalNumberLength < 0 {
		return fmt.Errorf("local_number_length must not be negative")
	}
	if c.DisplayCount < 0 {
		return fmt.Errorf("display_count must not be negative")
	}
	if c.PreviewLength <= 0 {
		return fmt.Errorf("preview_length must be positive")
	}
	if c.ExecTimeout < 0 {
		return fmt.Errorf("exec_timeout must not be negative")
	}
	if c.CountryCode != "" && !strings.HasPrefix(c.CountryCode, "+") {
		return fmt.Errorf("country_code %q must start with +", c.CountryCode)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
