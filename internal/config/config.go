package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	IMAP     IMAPConfig     `mapstructure:"imap" yaml:"imap"`
	POP3     POP3Config     `mapstructure:"pop3" yaml:"pop3"`
	Auth     AuthConfig     `mapstructure:"auth" yaml:"auth"`
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

type IMAPConfig struct {
	Host               string `mapstructure:"host" yaml:"host"`
	Port               int    `mapstructure:"port" yaml:"port"`
	TLS                bool   `mapstructure:"tls" yaml:"tls"`
	StartTLS           bool   `mapstructure:"starttls" yaml:"starttls"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

type POP3Config struct {
	Host               string `mapstructure:"host" yaml:"host"`
	Port               int    `mapstructure:"port" yaml:"port"`
	TLS                bool   `mapstructure:"tls" yaml:"tls"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

type AuthConfig struct {
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`

	// PasswordSource records where the effective password came from
	// (env, config, keyring). Informational only; never persisted.
	PasswordSource string `mapstructure:"-" yaml:"-"`
}

type DefaultsConfig struct {
	Mailbox    string `mapstructure:"mailbox" yaml:"mailbox"`
	Protocol   string `mapstructure:"protocol" yaml:"protocol"`
	Peek       bool   `mapstructure:"peek" yaml:"peek"`
	Descending bool   `mapstructure:"descending" yaml:"descending"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

func DefaultConfig() Config {
	return Config{
		IMAP: IMAPConfig{
			Port:     993,
			TLS:      true,
			StartTLS: false,
		},
		POP3: POP3Config{
			Port: 995,
			TLS:  true,
		},
		Defaults: DefaultsConfig{
			Mailbox:    "INBOX",
			Protocol:   "imap",
			Peek:       true,
			Descending: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mailkit", "config.yaml"), nil
}

func Load() (Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MAILKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func Save(cfg Config) (string, error) {
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}

	return path, nil
}

func Redact(cfg Config) Config {
	masked := cfg
	if masked.Auth.Password != "" {
		masked.Auth.Password = "****"
	}
	return masked
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("imap.port", cfg.IMAP.Port)
	v.SetDefault("imap.tls", cfg.IMAP.TLS)
	v.SetDefault("imap.starttls", cfg.IMAP.StartTLS)
	v.SetDefault("imap.insecure_skip_verify", cfg.IMAP.InsecureSkipVerify)

	v.SetDefault("pop3.port", cfg.POP3.Port)
	v.SetDefault("pop3.tls", cfg.POP3.TLS)
	v.SetDefault("pop3.insecure_skip_verify", cfg.POP3.InsecureSkipVerify)

	v.SetDefault("defaults.mailbox", cfg.Defaults.Mailbox)
	v.SetDefault("defaults.protocol", cfg.Defaults.Protocol)
	v.SetDefault("defaults.peek", cfg.Defaults.Peek)
	v.SetDefault("defaults.descending", cfg.Defaults.Descending)

	v.SetDefault("log.level", cfg.Log.Level)
}

func Validate(cfg Config) error {
	switch cfg.Defaults.Protocol {
	case "imap":
		return ValidateIMAP(cfg)
	case "pop3":
		return ValidatePOP3(cfg)
	default:
		return fmt.Errorf("defaults.protocol must be imap or pop3, got %q", cfg.Defaults.Protocol)
	}
}

func ValidateIMAP(cfg Config) error {
	if cfg.IMAP.Host == "" {
		return fmt.Errorf("imap.host is required")
	}
	return validateAuth(cfg)
}

func ValidatePOP3(cfg Config) error {
	if cfg.POP3.Host == "" {
		return fmt.Errorf("pop3.host is required")
	}
	return validateAuth(cfg)
}

func validateAuth(cfg Config) error {
	if cfg.Auth.Username == "" {
		return fmt.Errorf("auth.username is required")
	}
	if cfg.Auth.Password == "" {
		return fmt.Errorf("auth.password is required")
	}
	return nil
}
