package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type valueKind int

const (
	kindString valueKind = iota
	kindBool
)

var keyKinds = map[string]valueKind{
	"general.language":   kindString,
	"general.shell_tool": kindString,
	"logging.level":      kindString,
	"logging.file":       kindString,
	"rules.file":         kindString,
	"rules.builtin":      kindBool,
}

// Keys returns the settable configuration keys.
func Keys() []string {
	keys := make([]string, 0, len(keyKinds))
	for key := range keyKinds {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ParseValue converts a raw string into the type expected for key.
func ParseValue(key, raw string) (any, error) {
	kind, ok := keyKinds[key]
	if !ok {
		return nil, fmt.Errorf("unsupported config key %q", key)
	}
	return parseValueByKind(raw, kind)
}

func parseValueByKind(raw string, kind valueKind) (any, error) {
	switch kind {
	case kindString:
		return raw, nil
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid bool %q: %w", raw, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported value kind %d", kind)
	}
}

// GetValue returns the value at a dotted key, or a whole section.
func GetValue(cfg Config, key string) (any, bool) {
	switch key {
	case "general":
		return cfg.General, true
	case "logging":
		return cfg.Logging, true
	case "rules":
		return cfg.Rules, true
	case "general.language":
		return cfg.General.Language, true
	case "general.shell_tool":
		return cfg.General.ShellTool, true
	case "logging.level":
		return cfg.Logging.Level, true
	case "logging.file":
		return cfg.Logging.File, true
	case "rules.file":
		return cfg.Rules.File, true
	case "rules.builtin":
		return cfg.Rules.Builtin, true
	default:
		return nil, false
	}
}

// WriteValue sets key to value in the TOML file at path, creating the file
// and its directory as needed. Other settings in the file are preserved.
func WriteValue(path, key string, value any) error {
	if path == "" {
		return errors.New("config path is empty")
	}

	doc := map[string]any{}
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &doc); err != nil {
			return fmt.Errorf("decode config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	parts := strings.Split(key, ".")
	table := doc
	for _, part := range parts[:len(parts)-1] {
		next, exists := table[part]
		if !exists {
			child := map[string]any{}
			table[part] = child
			table = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("config key %q: %s is not a table", key, part)
		}
		table = child
	}
	table[parts[len(parts)-1]] = value

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
