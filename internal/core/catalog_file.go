package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/cc-extention/cc-ext/internal/locale"
)

// RequiredLanguages lists the languages every rule should explain itself in.
var RequiredLanguages = []string{locale.English, locale.Japanese}

// CatalogDefect describes a rule that was dropped or is incomplete.
// Defects never fail loading; they are reported so they can be logged.
type CatalogDefect struct {
	Level  Level
	Rule   string
	Reason string
}

func (d CatalogDefect) Error() string {
	if d.Rule == "" {
		return fmt.Sprintf("%s: %s", d.Level, d.Reason)
	}
	return fmt.Sprintf("%s rule %q: %s", d.Level, d.Rule, d.Reason)
}

// RuleEntry is the serialized form of a rule in a catalog file.
type RuleEntry struct {
	Name    string            `toml:"name" json:"name" yaml:"name"`
	Pattern string            `toml:"pattern" json:"pattern" yaml:"pattern"`
	Explain map[string]string `toml:"explain" json:"explain" yaml:"explain"`
}

// CatalogFile is the serialized form of a catalog.
type CatalogFile struct {
	High   []RuleEntry `toml:"high" json:"high" yaml:"high"`
	Medium []RuleEntry `toml:"medium" json:"medium" yaml:"medium"`
}

// LoadCatalogFile reads a TOML rule catalog from path.
// An empty path returns an empty catalog.
func LoadCatalogFile(path string) (*Catalog, []CatalogDefect, error) {
	if path == "" {
		return &Catalog{}, nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading rules file %s: %w", path, err)
	}
	cat, defects, err := ParseCatalog(string(data))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}
	return cat, defects, nil
}

// ParseCatalog decodes a TOML rule catalog.
// Rules with an empty name, a duplicate name or an invalid pattern are
// dropped; rules missing a required language are kept. Both are reported
// as defects.
func ParseCatalog(data string) (*Catalog, []CatalogDefect, error) {
	var file CatalogFile
	md, err := toml.Decode(data, &file)
	if err != nil {
		return nil, nil, err
	}

	var defects []CatalogDefect
	for _, key := range md.Undecoded() {
		defects = append(defects, CatalogDefect{Reason: "unknown key " + key.String()})
	}

	cat := &Catalog{}
	cat.High, defects = compileEntries(LevelHigh, file.High, defects)
	cat.Medium, defects = compileEntries(LevelMedium, file.Medium, defects)
	return cat, defects, nil
}

func compileEntries(level Level, entries []RuleEntry, defects []CatalogDefect) ([]*Rule, []CatalogDefect) {
	rules := make([]*Rule, 0, len(entries))
	seen := make(map[string]bool, len(entries))

	for _, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			defects = append(defects, CatalogDefect{Level: level, Reason: "rule without a name dropped"})
			continue
		}
		if seen[name] {
			defects = append(defects, CatalogDefect{Level: level, Rule: name, Reason: "duplicate name dropped"})
			continue
		}
		if strings.TrimSpace(entry.Pattern) == "" {
			defects = append(defects, CatalogDefect{Level: level, Rule: name, Reason: "empty pattern dropped"})
			continue
		}
		rule, err := NewRule(name, entry.Pattern, entry.Explain, SourceFile)
		if err != nil {
			defects = append(defects, CatalogDefect{Level: level, Rule: name, Reason: "invalid pattern dropped: " + err.Error()})
			continue
		}
		seen[name] = true
		for _, lang := range RequiredLanguages {
			if strings.TrimSpace(entry.Explain[lang]) == "" {
				defects = append(defects, CatalogDefect{Level: level, Rule: name, Reason: "missing " + lang + " explanation"})
			}
		}
		rules = append(rules, rule)
	}

	return rules, defects
}

// MergeCatalogs appends extra's rules after base's rules in each tier.
// A rule in extra whose name already exists in the same tier is dropped
// and reported.
func MergeCatalogs(base, extra *Catalog) (*Catalog, []CatalogDefect) {
	merged := base.Merge(nil)
	if extra == nil {
		return merged, nil
	}

	var defects []CatalogDefect
	merged.High, defects = appendUnique(LevelHigh, merged.High, extra.High, defects)
	merged.Medium, defects = appendUnique(LevelMedium, merged.Medium, extra.Medium, defects)
	return merged, defects
}

func appendUnique(level Level, dst, src []*Rule, defects []CatalogDefect) ([]*Rule, []CatalogDefect) {
	names := make(map[string]bool, len(dst))
	for _, r := range dst {
		names[r.Name] = true
	}
	for _, r := range src {
		if names[r.Name] {
			defects = append(defects, CatalogDefect{Level: level, Rule: r.Name, Reason: "duplicate name dropped"})
			continue
		}
		names[r.Name] = true
		dst = append(dst, r)
	}
	return dst, defects
}
