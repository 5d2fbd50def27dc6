package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = ".intervalctl"
	configType = "yaml"
	envPrefix  = "INTERVALCTL"
)

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"log-level": "log.level",
	"output":    "output",
}

// LoadConfig returns the validated configuration. A value set by a flag in
// flags wins over INTERVALCTL_* environment variables, which win over the
// config file, which wins over the defaults. flags may be nil.
//
// With an empty configPath, .intervalctl.yaml is looked up in the working
// directory and then in $HOME; it is fine if neither has one. Viper folds
// map keys to lower case, so label keys read from a file are lower case too.
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v, err := newViper(configPath, flags)
	if err != nil {
		return nil, err
	}
	if err := readConfig(v); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func newViper(configPath string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("output", DefaultOutput)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	v.SetConfigType(configType)
	if configPath != "" {
		v.SetConfigFile(configPath)
		return v, nil
	}
	v.SetConfigName(configName)
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	return v, nil
}

// readConfig reads the config file, if there is one.
func readConfig(v *viper.Viper) error {
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err == nil || errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("read config: %w", err)
}
