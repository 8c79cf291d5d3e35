// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked for in the user config directory.
const FileName = "macprefs.yaml"

// Type is the in-memory representation of the loaded configuration.
//
// Fields:
//   - Source: path of the YAML file loaded.
//   - Namespace: the running subcommand. Lookups try "<Namespace>.<key>"
//     before "<key>", so "restore.strict" overrides "strict" for restore.
//   - Data: raw key/value tree unmarshaled from YAML.
type Type struct {
	Source    string
	Namespace string
	Data      map[string]interface{}
}

// Config holds the global, lazily-initialized configuration instance.
var Config Type

// init attempts to load configuration at process start. Errors are ignored so
// the application can still run without a config file.
func init() {
	_, _ = Load()
}

// lookup returns the raw value for a dotted key, loading the file on first
// use. found is false when neither the namespaced nor the plain key exists.
func lookup(key string) (val any, found bool, err error) {
	if len(Config.Data) == 0 {
		_, _ = Load()
	}
	val, err = Config.get(key)
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// GetInt returns the integer value for the given dotted key path. A single
// defaultValue may be provided and is returned when the key is missing.
// YAML numbers may decode as int, int64 or float64.
func GetInt(key string, defaultValue ...int) (int, error) {
	val, found, err := lookup(key)
	if !found {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return 0, err
	}

	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, errors.New("value is not an int")
	}
}

// GetBool returns the boolean value for the given dotted key path. A single
// defaultValue may be provided and is returned when the key is missing.
func GetBool(key string, defaultValue ...bool) (bool, error) {
	val, found, err := lookup(key)
	if !found {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return false, err
	}

	b, ok := val.(bool)
	if !ok {
		return false, errors.New("value is not a bool")
	}
	return b, nil
}

// GetString returns the string value for the given dotted key path. If the key
// is not found and a single defaultValue is provided, the default is returned.
func GetString(key string, defaultValue ...string) (string, error) {
	val, found, err := lookup(key)
	if !found {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return "", err
	}

	s, ok := val.(string)
	if !ok {
		return "", errors.New("value is not a string")
	}
	return s, nil
}

// GetStringSlice returns the string list at the given dotted key path. If the
// key is not found and a single default slice is provided, that default is
// returned. Module tables (jetbrains.markers, env.files, ...) are read this
// way.
func GetStringSlice(key string, defaultValue ...[]string) ([]string, error) {
	val, found, err := lookup(key)
	if !found {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return nil, err
	}

	switch v := val.(type) {
	case []string:
		return v, nil
	case []interface{}:
		result := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, errors.New("slice element is not a string")
			}
			result[i] = s
		}
		return result, nil
	default:
		return nil, errors.New("value is not a slice")
	}
}

// Load reads the YAML configuration file and populates the global Config,
// keeping its Namespace. A non-empty cfgFilePath overrides the path
// selection. A missing file is reported with an error wrapping
// fs.ErrNotExist.
func Load(cfgFilePath ...string) (Type, error) {
	path := ""
	if len(cfgFilePath) == 1 {
		path = cfgFilePath[0]
	}
	if path == "" {
		p, err := getConfigFile()
		if err != nil {
			return Type{}, err
		}
		path = p
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Type{}, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return Type{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	Config = Type{
		Source:    path,
		Namespace: Config.Namespace,
		Data:      data,
	}
	return Config, nil
}

// get walks the configuration tree along a dotted key path (e.g.
// "jetbrains.markers"), trying the namespaced key first when Namespace is
// set.
func (cfg *Type) get(kspec string) (any, error) {
	candidates := []string{kspec}
	if cfg.Namespace != "" {
		candidates = []string{cfg.Namespace + "." + kspec, kspec}
	}

	for _, key := range candidates {
		if v, ok := walk(cfg.Data, strings.Split(key, ".")); ok {
			return v, nil
		}
	}

	return nil, fmt.Errorf("no valid path found among: %v", candidates)
}

func walk(node interface{}, keys []string) (interface{}, bool) {
	for _, k := range keys {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if node, ok = m[k]; !ok {
			return nil, false
		}
	}
	return node, true
}

// getConfigFile returns the path of the YAML config file: MACPREFS_CFG_FILE
// when set, otherwise macprefs.yaml in os.UserConfigDir. The file must exist
// and not be a directory.
func getConfigFile() (string, error) {
	if cfgPath := os.Getenv("MACPREFS_CFG_FILE"); cfgPath != "" {
		info, err := os.Stat(cfgPath)
		switch {
		case err != nil:
			return "", fmt.Errorf("config file not found at MACPREFS_CFG_FILE path %s: %w", cfgPath, fs.ErrNotExist)
		case info.IsDir():
			return "", fmt.Errorf("MACPREFS_CFG_FILE points to a directory: %s", cfgPath)
		}
		log.Debugf("using config file from MACPREFS_CFG_FILE: %s", cfgPath)
		return cfgPath, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	file := filepath.Join(dir, FileName)
	if info, err := os.Stat(file); err == nil && !info.IsDir() {
		log.Debugf("using config file: %s", file)
		return file, nil
	}

	return "", fmt.Errorf("no config file found in standard locations: %w", fs.ErrNotExist)
}

// File returns the path of the config file that would be loaded, or "" when
// none exists. Flag value sources use it to read defaults from the same file.
func File() string {
	if Config.Source != "" {
		return Config.Source
	}
	path, err := getConfigFile()
	if err != nil {
		return ""
	}
	return path
}
