package main

import (
	"os"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// config holds every tunable of the flacparse CLI. Zero-value fields are
// filled in by defaultConfig before a config file or flags are applied.
type config struct {
	StreamingMode bool   `koanf:"streaming_mode"`
	ChunkSize     int    `koanf:"chunk_size"`
	RingCapacity  int    `koanf:"ring_capacity"`
	LogLevel      string `koanf:"log_level"`
	LogFormat     string `koanf:"log_format"`
}

func defaultConfig() config {
	return config{
		StreamingMode: false,
		ChunkSize:     32 * 1024,
		RingCapacity:  256 * 1024,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// loadConfig layers an optional TOML file on top of the built-in defaults,
// then applies any flags the caller explicitly set on top of that. A missing
// configPath is not an error: the CLI runs fine on defaults plus flags alone.
func loadConfig(configPath string, fs *pflag.FlagSet) (config, error) {
	cfg := defaultConfig()

	if configPath != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			if !os.IsNotExist(errors.Cause(err)) {
				return cfg, errors.Wrapf(err, "loading config file %q", configPath)
			}
		} else if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
			return cfg, errors.Wrap(err, "decoding config file")
		}
	}

	applyFlagOverrides(&cfg, fs)
	return cfg, nil
}

func applyFlagOverrides(cfg *config, fs *pflag.FlagSet) {
	if fs.Changed("streaming-mode") {
		cfg.StreamingMode, _ = fs.GetBool("streaming-mode")
	}
	if fs.Changed("chunk-size") {
		cfg.ChunkSize, _ = fs.GetInt("chunk-size")
	}
	if fs.Changed("ring-capacity") {
		cfg.RingCapacity, _ = fs.GetInt("ring-capacity")
	}
	if fs.Changed("log-level") {
		cfg.LogLevel, _ = fs.GetString("log-level")
	}
	if fs.Changed("log-format") {
		cfg.LogFormat, _ = fs.GetString("log-format")
	}
}
