package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/logtap/logtap/internal/control"
	"github.com/logtap/logtap/internal/model"

	"github.com/spf13/viper"
)

const (
	defaultLineBuffer = model.DefaultLineBuffer
	defaultTheme      = model.DefaultTheme
)

// cliConfig holds only viewer-relevant configuration.
type cliConfig struct {
	LineBuffer int    `mapstructure:"line-buffer"`
	Theme      string `mapstructure:"theme"`
	SocketPath string `mapstructure:"socket-path"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("LOGTAP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("line-buffer", defaultLineBuffer)
	v.SetDefault("theme", defaultTheme)
	v.SetDefault("socket-path", control.DefaultSocketPath())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "logtap", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
