package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	LogLevel string       `mapstructure:"log_level"`
	Server   ServerConfig `mapstructure:"server"`
	Output   OutputConfig `mapstructure:"output"`
	Vocab    VocabConfig  `mapstructure:"vocab"`
}

type ServerConfig struct {
	ListenAddr        string `mapstructure:"listen_addr"`
	MaxTextBytes      int    `mapstructure:"max_text_bytes"`
	ShutdownTimeout   int    `mapstructure:"shutdown_timeout"`    // seconds
	ReadHeaderTimeout int    `mapstructure:"read_header_timeout"` // seconds
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
}

type VocabConfig struct {
	// ListLimit caps the number of entries printed by vocabulary listings.
	// Zero means no limit.
	ListLimit int `mapstructure:"list_limit"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

// flagKeys maps each command-line flag to its configuration key.
var flagKeys = []struct {
	flag string
	key  string
}{
	{"log-level", "log_level"},
	{"server-listen-addr", "server.listen_addr"},
	{"server-max-text-bytes", "server.max_text_bytes"},
	{"server-shutdown-timeout", "server.shutdown_timeout"},
	{"server-read-header-timeout", "server.read_header_timeout"},
	{"format", "output.format"},
	{"vocab-list-limit", "vocab.list_limit"},
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Server: ServerConfig{
			ListenAddr:        ":8080",
			MaxTextBytes:      64 * 1024,
			ShutdownTimeout:   10,
			ReadHeaderTimeout: 5,
		},
		Output: OutputConfig{
			Format: "table",
		},
		Vocab: VocabConfig{
			ListLimit: 0,
		},
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("server-max-text-bytes", defaults.Server.MaxTextBytes, "Maximum request body size in bytes")
	fs.Int("server-shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown timeout in seconds")
	fs.Int("server-read-header-timeout", defaults.Server.ReadHeaderTimeout, "HTTP read header timeout in seconds")
	fs.String("format", defaults.Output.Format, "Output format (table|json)")
	fs.Int("vocab-list-limit", defaults.Vocab.ListLimit, "Maximum vocabulary entries to print (0 = all)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	v.SetEnvPrefix("TOKENMASTER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("tokenmaster")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	if c.Server.MaxTextBytes <= 0 {
		return fmt.Errorf("server.max_text_bytes must be positive, got %d", c.Server.MaxTextBytes)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative, got %d", c.Server.ShutdownTimeout)
	}
	if c.Server.ReadHeaderTimeout < 0 {
		return fmt.Errorf("server.read_header_timeout must not be negative, got %d", c.Server.ReadHeaderTimeout)
	}
	if c.Vocab.ListLimit < 0 {
		return fmt.Errorf("vocab.list_limit must not be negative, got %d", c.Vocab.ListLimit)
	}
	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("server.read_header_timeout", c.Server.ReadHeaderTimeout)
	v.SetDefault("output.format", c.Output.Format)
	v.SetDefault("vocab.list_limit", c.Vocab.ListLimit)
}

// bindFlags binds every registered flag present in fs to its nested key.
// Flags only override file and environment values when set explicitly.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, fk := range flagKeys {
		f := fs.Lookup(fk.flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(fk.key, f); err != nil {
			return fmt.Errorf("%s: %w", fk.flag, err)
		}
	}
	return nil
}
