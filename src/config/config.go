package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Protocol-Lattice/alogic-playground/src/compile"
)

// EnvPrefix prefixes every environment override, e.g.
// ALOGIC_PLAYGROUND_SERVICE_ENDPOINT.
const EnvPrefix = "ALOGIC_PLAYGROUND"

// Config holds application configuration.
type Config struct {
	Service    ServiceConfig    `mapstructure:"service"`
	UTCP       UTCPConfig       `mapstructure:"utcp"`
	Playground PlaygroundConfig `mapstructure:"playground"`
	Log        LogConfig        `mapstructure:"log"`
	Server     ServerConfig     `mapstructure:"server"`
}

// ServiceConfig selects and tunes the compile transport.
type ServiceConfig struct {
	Transport string        `mapstructure:"transport"` // http or utcp
	Endpoint  string        `mapstructure:"endpoint"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Proxy     string        `mapstructure:"proxy"`
}

type UTCPConfig struct {
	Providers string `mapstructure:"providers"`
	Tool      string `mapstructure:"tool"`
}

type PlaygroundConfig struct {
	Args      string `mapstructure:"args"`
	SeedTitle string `mapstructure:"seed_title"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ServerConfig configures the local compile service.
type ServerConfig struct {
	Addr     string        `mapstructure:"addr"`
	Compiler string        `mapstructure:"compiler"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

const (
	TransportHTTP = "http"
	TransportUTCP = "utcp"
)

// Path returns the config file location: $ALOGIC_PLAYGROUND_CONFIG or
// ~/.config/alogic-playground/config.toml.
func Path() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "alogic-playground", "config.toml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.transport", TransportHTTP)
	v.SetDefault("service.endpoint", compile.DefaultEndpoint)
	v.SetDefault("service.timeout", compile.DefaultTimeout)
	v.SetDefault("service.proxy", "")
	v.SetDefault("utcp.providers", "")
	v.SetDefault("utcp.tool", compile.DefaultUTCPTool)
	v.SetDefault("playground.args", "-o out top.alogic")
	v.SetDefault("playground.seed_title", "top.alogic")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(os.TempDir(), "alogic-playground.log"))
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.compiler", "alogic")
	v.SetDefault("server.timeout", 30*time.Second)
}

// Load reads configuration from file and env. Env var overrides use prefix
// ALOGIC_PLAYGROUND_. A missing default config file is not an error; a
// missing explicitly named one is.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	explicit := os.Getenv(EnvPrefix + "_CONFIG")
	v.SetConfigFile(Path())

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if !missing || explicit != "" {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings no component can act on.
func (c Config) Validate() error {
	switch c.Service.Transport {
	case TransportHTTP, TransportUTCP:
	default:
		return fmt.Errorf("service.transport: unknown transport %q (want %s or %s)", c.Service.Transport, TransportHTTP, TransportUTCP)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	return nil
}
