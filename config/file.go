package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// MergeFile reads a YAML, TOML, JSON or .env style file and adds its keys to
// config. Keys are upper-cased; values already present (from the environment)
// win.
func MergeFile(config map[string]string, path string) error {
	if path == "" {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	fromFile := make(map[string]string, len(v.AllKeys()))
	for _, key := range v.AllKeys() {
		name := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		fromFile[name] = v.GetString(key)
	}
	mergeMissing(config, fromFile)
	return nil
}
