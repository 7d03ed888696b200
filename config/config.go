// Package config holds the bookshelf server settings and loads them with viper.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is prepended to every environment variable, e.g. BOOKSHELF_ADDRESS.
const EnvPrefix = "BOOKSHELF"

type Config struct {
	// Address is the HTTP listen address.
	Address string `mapstructure:"address"`
	// Path is the GraphQL endpoint path.
	Path string `mapstructure:"path"`
	// GraphiQL serves the in-browser explorer to browsers hitting Path.
	GraphiQL bool `mapstructure:"graphiql"`
	// Pretty indents JSON responses.
	Pretty bool `mapstructure:"pretty"`

	MaxParallelism int `mapstructure:"max_parallelism"`
	// MaxDepth limits query nesting; 0 means unlimited.
	MaxDepth int `mapstructure:"max_depth"`

	LogLevel string `mapstructure:"log_level"`

	// Tracing enables the Jaeger tracer, configured from the standard JAEGER_* variables.
	Tracing     bool   `mapstructure:"tracing"`
	ServiceName string `mapstructure:"service_name"`

	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	CORSOrigins []string `mapstructure:"cors_origins"`
}

func Default() *Config {
	return &Config{
		Address:         ":5432",
		Path:            "/graphql",
		GraphiQL:        true,
		MaxParallelism:  10,
		LogLevel:        "info",
		ServiceName:     "bookshelf",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		CORSOrigins:     []string{"*"},
	}
}

// Validate fills zero values with defaults and rejects settings the server cannot use.
func (c *Config) Validate() error {
	def := Default()
	if c.Address == "" {
		c.Address = def.Address
	}
	if c.Path == "" {
		c.Path = def.Path
	}
	if !strings.HasPrefix(c.Path, "/") {
		return errors.Errorf("config: path %q must start with /", c.Path)
	}
	if c.Path == "/health" || c.Path == "/metrics" {
		return errors.Errorf("config: path %q is reserved", c.Path)
	}
	if c.MaxParallelism <= 0 {
		c.MaxParallelism = def.MaxParallelism
	}
	if c.MaxDepth < 0 {
		return errors.Errorf("config: max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "config: log_level")
	}
	if c.ServiceName == "" {
		c.ServiceName = def.ServiceName
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = def.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = def.ShutdownTimeout
	}
	return nil
}

// BindFlags registers the server flags on fs and binds them to v.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	def := Default()
	fs.String("config", "", "optional config file (yaml, json or toml)")
	fs.String("address", def.Address, "HTTP listen address")
	fs.String("path", def.Path, "GraphQL endpoint path")
	fs.Bool("graphiql", def.GraphiQL, "serve the GraphiQL explorer")
	fs.Bool("pretty", def.Pretty, "indent JSON responses")
	fs.Int("max_parallelism", def.MaxParallelism, "maximum number of resolvers run in parallel per query")
	fs.Int("max_depth", def.MaxDepth, "maximum query depth, 0 for unlimited")
	fs.String("log_level", def.LogLevel, "log level (debug, info, warn, error)")
	fs.Bool("tracing", def.Tracing, "enable Jaeger tracing (configured via JAEGER_* env)")
	fs.String("service_name", def.ServiceName, "service name reported to the tracer")
	fs.Duration("read_timeout", def.ReadTimeout, "HTTP read timeout")
	fs.Duration("write_timeout", def.WriteTimeout, "HTTP write timeout")
	fs.Duration("shutdown_timeout", def.ShutdownTimeout, "graceful shutdown timeout")
	fs.StringSlice("cors_origins", def.CORSOrigins, "allowed CORS origins")
	return errors.Wrap(v.BindPFlags(fs), "config: bind flags")
}

// Load reads the configuration from v, which may carry flags, a config file and
// BOOKSHELF_* environment variables, and validates it.
func Load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("address", def.Address)
	v.SetDefault("path", def.Path)
	v.SetDefault("graphiql", def.GraphiQL)
	v.SetDefault("pretty", def.Pretty)
	v.SetDefault("max_parallelism", def.MaxParallelism)
	v.SetDefault("max_depth", def.MaxDepth)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("tracing", def.Tracing)
	v.SetDefault("service_name", def.ServiceName)
	v.SetDefault("read_timeout", def.ReadTimeout)
	v.SetDefault("write_timeout", def.WriteTimeout)
	v.SetDefault("shutdown_timeout", def.ShutdownTimeout)
	v.SetDefault("cors_origins", def.CORSOrigins)

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "config: read %s", file)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "config: decode")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
