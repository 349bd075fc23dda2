package core

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"time"

	"github.com/BurntSushi/toml"
)

// CatalogExport is the exported rule set for external tools.
type CatalogExport struct {
	Version     string                `json:"version"`
	GeneratedAt time.Time             `json:"generated_at"`
	SHA256      string                `json:"sha256"`
	Tiers       map[string]TierExport `json:"tiers"`
	Metadata    CatalogExportMetadata `json:"metadata"`
}

// TierExport represents a single tier's rules, in match order.
type TierExport struct {
	Description string        `json:"description"`
	Rules       []RuleDetails `json:"rules"`
}

// RuleDetails represents a single rule for export.
type RuleDetails struct {
	Name    string            `json:"name"`
	Pattern string            `json:"pattern"`
	Explain map[string]string `json:"explain,omitempty"`
	Source  string            `json:"source"`
}

// CatalogExportMetadata contains summary information about the export.
type CatalogExportMetadata struct {
	RuleCount  int            `json:"rule_count"`
	TierCounts map[string]int `json:"tier_counts"`
}

var tierDescriptions = map[Level]string{
	LevelHigh:   "Destructive or irreversible commands",
	LevelMedium: "Commands that deserve confirmation",
}

// Export returns the catalog in a structured form suitable for external tools.
func (c *Catalog) Export() *CatalogExport {
	export := &CatalogExport{
		Version:     "1.0.0",
		GeneratedAt: time.Now().UTC(),
		SHA256:      c.ComputeHash(),
		Tiers:       make(map[string]TierExport),
		Metadata: CatalogExportMetadata{
			TierCounts: make(map[string]int),
		},
	}

	for _, level := range []Level{LevelHigh, LevelMedium} {
		rules := c.Rules(level)
		details := make([]RuleDetails, 0, len(rules))
		for _, r := range rules {
			details = append(details, RuleDetails{
				Name:    r.Name,
				Pattern: r.Pattern,
				Explain: r.Explanations,
				Source:  r.Source,
			})
		}
		export.Tiers[level.String()] = TierExport{
			Description: tierDescriptions[level],
			Rules:       details,
		}
		export.Metadata.TierCounts[level.String()] = len(details)
		export.Metadata.RuleCount += len(details)
	}

	return export
}

// ComputeHash returns a hash of the ordered rule set. Rule order is match
// priority, so reordering rules changes the hash.
func (c *Catalog) ComputeHash() string {
	h := sha256.New()
	for _, level := range []Level{LevelHigh, LevelMedium} {
		for _, r := range c.Rules(level) {
			h.Write([]byte(level.String()))
			h.Write([]byte{0})
			h.Write([]byte(r.Name))
			h.Write([]byte{0})
			h.Write([]byte(r.Pattern))
			h.Write([]byte{0})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ExportJSON returns the export as indented JSON. The result describes the
// catalog for other tools; it is not a rules file (see WriteTOML).
func (c *Catalog) ExportJSON() (string, error) {
	data, err := json.MarshalIndent(c.Export(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// File returns the catalog in its serialized file form.
func (c *Catalog) File() CatalogFile {
	var f CatalogFile
	for _, r := range c.Rules(LevelHigh) {
		f.High = append(f.High, RuleEntry{Name: r.Name, Pattern: r.Pattern, Explain: r.Explanations})
	}
	for _, r := range c.Rules(LevelMedium) {
		f.Medium = append(f.Medium, RuleEntry{Name: r.Name, Pattern: r.Pattern, Explain: r.Explanations})
	}
	return f
}

// WriteTOML writes the catalog as a rules file that LoadCatalogFile accepts.
func (c *Catalog) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c.File())
}
