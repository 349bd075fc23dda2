// Package locale picks the display language for rendered messages.
package locale

import (
	"os"
	"strings"
)

// Supported language codes.
const (
	English  = "en"
	Japanese = "ja"
)

// Variables consulted in priority order; the first non-empty one wins.
var Variables = []string{"LANG", "LC_ALL", "LC_MESSAGES"}

// Env provides environment lookups.
type Env interface {
	Getenv(key string) string
}

// OSEnv reads the process environment.
type OSEnv struct{}

// Getenv implements Env.
func (OSEnv) Getenv(key string) string {
	return os.Getenv(key)
}

// MapEnv is an Env backed by a map, for tests and explicit overrides.
type MapEnv map[string]string

// Getenv implements Env.
func (m MapEnv) Getenv(key string) string {
	return m[key]
}

// Resolve returns "ja" when the first non-empty locale variable starts
// with "ja", and "en" otherwise.
func Resolve(env Env) string {
	if env == nil {
		env = OSEnv{}
	}
	for _, key := range Variables {
		if v := env.Getenv(key); v != "" {
			return fromValue(v)
		}
	}
	return English
}

func fromValue(v string) string {
	if strings.HasPrefix(v, "ja") {
		return Japanese
	}
	return English
}

// Normalize maps a configured language setting to a language code.
// "auto" and "" defer to Resolve; unknown values fall back to English.
func Normalize(setting string, env Env) string {
	switch strings.ToLower(strings.TrimSpace(setting)) {
	case "", "auto":
		return Resolve(env)
	case Japanese:
		return Japanese
	default:
		return English
	}
}
