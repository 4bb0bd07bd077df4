package config

import (
	"os"
	"path/filepath"
	"testing"

	domainErrors "github.com/Tomas-vilte/sonar-report/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvSonarURL, EnvSonarUsername, EnvSonarPassword, EnvSonarToken,
		EnvSMTPHost, EnvSMTPPort, EnvMailFrom, EnvMailPassword, EnvMailSubject,
		EnvLanguage, EnvPushgateway,
	} {
		t.Setenv(key, "")
	}
}

func validConfig() *Config {
	cfg := Default()
	cfg.Sonar.URL = "https://sonar.example.com"
	cfg.Sonar.Username = "admin"
	cfg.Sonar.Password = "admin"
	cfg.Mail.Host = "smtp.example.com"
	cfg.Mail.From = "ci@example.com"
	cfg.Mail.Password = "secret"
	return cfg
}

func TestLoadConfig(t *testing.T) {
	t.Run("should return defaults when the file does not exist", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "missing.toml")

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, LangEN, cfg.Language)
		assert.Equal(t, 465, cfg.Mail.Port)
		assert.Equal(t, 30, cfg.Sonar.TimeoutSeconds)
		assert.Equal(t, "sonar_report", cfg.Metrics.Job)
		assert.Equal(t, path, cfg.PathFile)
	})

	t.Run("should read the TOML file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
language = "zh"

[sonar]
url = "https://sonarqube.example.top"
username = "admin"
password = "admin"
timeout_seconds = 10

[mail]
host = "smtpdm.example.com"
from = "gitlab@example.top"
password = "password"
subject = "Code quality"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "zh", cfg.Language)
		assert.Equal(t, "https://sonarqube.example.top", cfg.Sonar.URL)
		assert.Equal(t, 10, cfg.Sonar.TimeoutSeconds)
		assert.Equal(t, "smtpdm.example.com", cfg.Mail.Host)
		assert.Equal(t, 465, cfg.Mail.Port)
		assert.Equal(t, "Code quality", cfg.Mail.Subject)
		assert.NoError(t, cfg.Validate(true))
	})

	t.Run("should let the environment override the file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("[sonar]\nurl = \"https://a.example.com\"\n"), 0600))
		t.Setenv(EnvSonarURL, "https://b.example.com")
		t.Setenv(EnvSonarToken, "squ_123")
		t.Setenv(EnvSMTPPort, "2465")

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "https://b.example.com", cfg.Sonar.URL)
		assert.Equal(t, "squ_123", cfg.Sonar.Token)
		assert.Equal(t, 2465, cfg.Mail.Port)
	})

	t.Run("should fail on malformed TOML", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("[sonar\nurl = "), 0600))

		_, err := LoadConfig(path)

		assert.ErrorIs(t, err, domainErrors.ErrConfigRead)
	})

	t.Run("should fail on a non numeric SMTP_PORT", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvSMTPPort, "abc")

		_, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))

		assert.ErrorIs(t, err, domainErrors.ErrMailPortInvalid)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		requireMail bool
		expected    error
	}{
		{
			name:        "valid config",
			mutate:      func(*Config) {},
			requireMail: true,
		},
		{
			name:     "missing sonar url",
			mutate:   func(c *Config) { c.Sonar.URL = "" },
			expected: domainErrors.ErrSonarURLMissing,
		},
		{
			name:     "relative sonar url",
			mutate:   func(c *Config) { c.Sonar.URL = "sonar.example.com" },
			expected: domainErrors.ErrSonarURLInvalid,
		},
		{
			name:     "missing credentials",
			mutate:   func(c *Config) { c.Sonar.Password = "" },
			expected: domainErrors.ErrSonarCredentialsMissing,
		},
		{
			name: "token replaces username and password",
			mutate: func(c *Config) {
				c.Sonar.Username = ""
				c.Sonar.Password = ""
				c.Sonar.Token = "squ_abc"
			},
		},
		{
			name:     "unsupported language",
			mutate:   func(c *Config) { c.Language = "fr" },
			expected: domainErrors.ErrLanguageUnsupported,
		},
		{
			name:        "missing smtp host",
			mutate:      func(c *Config) { c.Mail.Host = "" },
			requireMail: true,
			expected:    domainErrors.ErrMailHostMissing,
		},
		{
			name:   "missing smtp host is fine without mail",
			mutate: func(c *Config) { c.Mail.Host = "" },
		},
		{
			name:        "missing sender",
			mutate:      func(c *Config) { c.Mail.From = "" },
			requireMail: true,
			expected:    domainErrors.ErrMailFromMissing,
		},
		{
			name:        "port out of range",
			mutate:      func(c *Config) { c.Mail.Port = 70000 },
			requireMail: true,
			expected:    domainErrors.ErrMailPortInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate(tt.requireMail)

			if tt.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expected)
			}
		})
	}
}

func TestMasked(t *testing.T) {
	cfg := validConfig()
	cfg.Sonar.Token = "squ_abc"

	masked := cfg.Masked()

	assert.Equal(t, "********", masked.Sonar.Password)
	assert.Equal(t, "********", masked.Sonar.Token)
	assert.Equal(t, "********", masked.Mail.Password)
	assert.Equal(t, "admin", cfg.Sonar.Password, "original must be untouched")
}

func TestSaveConfig(t *testing.T) {
	t.Run("should round trip through the file", func(t *testing.T) {
		clearEnv(t)
		cfg := validConfig()
		cfg.PathFile = filepath.Join(t.TempDir(), "nested", "config.toml")

		require.NoError(t, SaveConfig(cfg))
		loaded, err := LoadConfig(cfg.PathFile)

		require.NoError(t, err)
		assert.Equal(t, cfg.Sonar, loaded.Sonar)
		assert.Equal(t, cfg.Mail, loaded.Mail)
	})

	t.Run("should fail without a path", func(t *testing.T) {
		err := SaveConfig(validConfig())

		assert.ErrorIs(t, err, domainErrors.ErrConfigWrite)
	})
}
