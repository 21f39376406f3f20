// Package config loads mlog's configuration file: a flat key/value
// document, one section per command plus a DEFAULT section for options
// common to every command, mirroring go-synth/config's profile-plus-global
// INI loading (spec.md §6 "Configuration file").
package config

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

// EnvVar is the environment variable that overrides the config path. Set
// to empty to disable config-file loading entirely (spec.md §6
// "Environment").
const EnvVar = "MLOG_CONFIG"

// DefaultPath is used when EnvVar is unset.
const DefaultPath = "/etc/mlog.ini"

// Common holds the options every command accepts (spec.md §6's top-level
// option list), read from the DEFAULT section.
type Common struct {
	Logfile string
	Header  bool
	Color   bool
	Output  string // "columns" | "tab" | "auto"
	UTC     bool
	Date    string
}

// Config is the full loaded document: common options plus one section per
// command, keyed by command name ("log", "stats", "predict", "accuracy").
type Config struct {
	Common   Common
	Sections map[string]*ini.Section
}

var global *Config

// GetConfig returns the process-wide configuration set by SetConfig.
func GetConfig() *Config { return global }

// SetConfig installs the process-wide configuration.
func SetConfig(cfg *Config) { global = cfg }

// ResolvePath applies the EnvVar override: unset uses DefaultPath, set (even
// to empty) uses the variable's value, with empty meaning "don't load".
func ResolvePath() string {
	if v, ok := os.LookupEnv(EnvVar); ok {
		return v
	}
	return DefaultPath
}

// Load reads path (which may be "", meaning no config file at all, not an
// error) and returns a Config with Sections populated for every section the
// file defines, plus Common loaded from DEFAULT.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Common:   Common{Output: "auto"},
		Sections: map[string]*ini.Section{},
	}
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("stat config file %s: %w", path, err)
	}

	doc, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config file %s: %w", path, err)
	}
	for _, sec := range doc.Sections() {
		cfg.Sections[sec.Name()] = sec
	}
	if def := doc.Section(ini.DefaultSection); def != nil {
		cfg.loadCommon(def)
	}
	return cfg, nil
}

func (cfg *Config) loadCommon(sec *ini.Section) {
	if key := sec.Key("logfile"); key.String() != "" {
		cfg.Common.Logfile = key.String()
	}
	if key := sec.Key("header"); key.String() != "" {
		cfg.Common.Header, _ = key.Bool()
	}
	if key := sec.Key("color"); key.String() != "" {
		cfg.Common.Color, _ = key.Bool()
	}
	if key := sec.Key("output"); key.String() != "" {
		cfg.Common.Output = key.String()
	}
	if key := sec.Key("utc"); key.String() != "" {
		cfg.Common.UTC, _ = key.Bool()
	}
	if key := sec.Key("date"); key.String() != "" {
		cfg.Common.Date = key.String()
	}
}

// StringOption returns the value of key in the named command's section, or
// "" if the section/key is absent. CLI flags must always be checked first
// and override this — Load never knows what the user typed on the command
// line (spec.md §6 "CLI always overrides file").
func (cfg *Config) StringOption(command, key string) string {
	sec, ok := cfg.Sections[command]
	if !ok {
		return ""
	}
	return sec.Key(key).String()
}

// BoolOption is StringOption's boolean counterpart.
func (cfg *Config) BoolOption(command, key string) (bool, bool) {
	sec, ok := cfg.Sections[command]
	if !ok {
		return false, false
	}
	k := sec.Key(key)
	if k.String() == "" {
		return false, false
	}
	v, err := k.Bool()
	return v, err == nil
}

// IntOption is StringOption's integer counterpart.
func (cfg *Config) IntOption(command, key string) (int, bool) {
	sec, ok := cfg.Sections[command]
	if !ok {
		return 0, false
	}
	k := sec.Key(key)
	if k.String() == "" {
		return 0, false
	}
	v, err := k.Int()
	return v, err == nil
}
