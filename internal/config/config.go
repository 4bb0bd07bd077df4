package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	domainErrors "github.com/Tomas-vilte/sonar-report/internal/errors"
)

type (
	Config struct {
		Language string        `toml:"language"`
		Sonar    SonarConfig   `toml:"sonar"`
		Mail     MailConfig    `toml:"mail"`
		Metrics  MetricsConfig `toml:"metrics"`

		PathFile string `toml:"-"`
	}

	SonarConfig struct {
		URL            string `toml:"url"`
		Username       string `toml:"username"`
		Password       string `toml:"password"`
		Token          string `toml:"token,omitempty"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
	}

	MailConfig struct {
		Host               string `toml:"host"`
		Port               int    `toml:"port"`
		From               string `toml:"from"`
		Password           string `toml:"password"`
		Subject            string `toml:"subject,omitempty"`
		InsecureSkipVerify bool   `toml:"insecure_skip_verify,omitempty"`
	}

	MetricsConfig struct {
		Pushgateway string `toml:"pushgateway,omitempty"`
		Job         string `toml:"job"`
	}
)

const (
	defaultLang           = LangEN
	defaultSMTPPort       = 465
	defaultTimeoutSeconds = 30
	defaultJob            = "sonar_report"

	configDirName  = ".sonar-report"
	configFileName = "config.toml"
)

// Environment variables that override the file, so CI secrets never have to
// be written to disk.
const (
	EnvSonarURL      = "SONAR_URL"
	EnvSonarUsername = "SONAR_USERNAME"
	EnvSonarPassword = "SONAR_PASSWORD"
	EnvSonarToken    = "SONAR_TOKEN"
	EnvSMTPHost      = "SMTP_HOST"
	EnvSMTPPort      = "SMTP_PORT"
	EnvMailFrom      = "MAIL_FROM"
	EnvMailPassword  = "MAIL_PASSWORD"
	EnvMailSubject   = "MAIL_SUBJECT"
	EnvLanguage      = "SONAR_REPORT_LANG"
	EnvPushgateway   = "PUSHGATEWAY_URL"
)

// DefaultPath returns $HOME/.sonar-report/config.toml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not resolve the home directory: %w", err)
	}
	return filepath.Join(homeDir, configDirName, configFileName), nil
}

// Default returns a config with every default applied and nothing else set.
func Default() *Config {
	return &Config{
		Language: defaultLang,
		Sonar: SonarConfig{
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Mail: MailConfig{
			Port: defaultSMTPPort,
		},
		Metrics: MetricsConfig{
			Job: defaultJob,
		},
	}
}

// LoadConfig reads the TOML file at path (the default location when empty)
// and applies environment overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, domainErrors.ErrConfigRead.WithError(err)
		}
		path = p
	}

	cfg := Default()
	cfg.PathFile = path

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, domainErrors.ErrConfigRead.WithError(err).WithContext("detail", path)
		}
	} else if !os.IsNotExist(err) {
		return nil, domainErrors.ErrConfigRead.WithError(err).WithContext("detail", path)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

// ApplyEnv overrides fields from the environment using lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	set(EnvSonarURL, &c.Sonar.URL)
	set(EnvSonarUsername, &c.Sonar.Username)
	set(EnvSonarPassword, &c.Sonar.Password)
	set(EnvSonarToken, &c.Sonar.Token)
	set(EnvSMTPHost, &c.Mail.Host)
	set(EnvMailFrom, &c.Mail.From)
	set(EnvMailPassword, &c.Mail.Password)
	set(EnvMailSubject, &c.Mail.Subject)
	set(EnvLanguage, &c.Language)
	set(EnvPushgateway, &c.Metrics.Pushgateway)

	if v, ok := lookup(EnvSMTPPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return domainErrors.ErrMailPortInvalid.WithError(err).WithContext("detail", EnvSMTPPort+"="+v)
		}
		c.Mail.Port = port
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Language == "" {
		c.Language = defaultLang
	}
	if c.Mail.Port == 0 {
		c.Mail.Port = defaultSMTPPort
	}
	if c.Sonar.TimeoutSeconds <= 0 {
		c.Sonar.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Metrics.Job == "" {
		c.Metrics.Job = defaultJob
	}
}

// Timeout is the per-request deadline for the SonarQube API.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Sonar.TimeoutSeconds) * time.Second
}

// Validate checks the settings needed for a run. Mail settings are only
// required when the report is going to be sent.
func (c *Config) Validate(requireMail bool) error {
	if !IsSupportedLanguage(c.Language) {
		return domainErrors.ErrLanguageUnsupported.WithContext("detail", c.Language)
	}

	if c.Sonar.URL == "" {
		return domainErrors.ErrSonarURLMissing
	}
	u, err := url.Parse(c.Sonar.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domainErrors.ErrSonarURLInvalid.WithContext("detail", c.Sonar.URL)
	}
	if c.Sonar.Token == "" && (c.Sonar.Username == "" || c.Sonar.Password == "") {
		return domainErrors.ErrSonarCredentialsMissing
	}

	if !requireMail {
		return nil
	}
	if c.Mail.Host == "" {
		return domainErrors.ErrMailHostMissing
	}
	if c.Mail.From == "" {
		return domainErrors.ErrMailFromMissing
	}
	if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
		return domainErrors.ErrMailPortInvalid.WithContext("detail", strconv.Itoa(c.Mail.Port))
	}
	return nil
}

// Masked returns a copy safe to print.
func (c *Config) Masked() Config {
	out := *c
	out.Sonar.Password = mask(out.Sonar.Password)
	out.Sonar.Token = mask(out.Sonar.Token)
	out.Mail.Password = mask(out.Mail.Password)
	return out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return strings.Repeat("*", 8)
}

// Encode renders the config as TOML.
func Encode(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveConfig writes cfg to cfg.PathFile, creating the directory if needed.
func SaveConfig(cfg *Config) error {
	if cfg.PathFile == "" {
		return domainErrors.ErrConfigWrite.WithContext("detail", "config path is not set")
	}

	data, err := Encode(cfg)
	if err != nil {
		return domainErrors.ErrConfigWrite.WithError(err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.PathFile), 0755); err != nil {
		return domainErrors.ErrConfigWrite.WithError(err)
	}

	if err := os.WriteFile(cfg.PathFile, data, 0600); err != nil {
		return domainErrors.ErrConfigWrite.WithError(err)
	}

	return nil
}
