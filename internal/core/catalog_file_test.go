package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCatalog = `
[[high]]
name = "helm-force"
pattern = '^helm\s+upgrade\b.*--force'
explain = { en = "Forces a Helm upgrade.", ja = "Helm のアップグレードを強制します。" }

[[medium]]
name = "make-clean"
pattern = '^make\s+clean\b'
explain = { en = "Removes build outputs.", ja = "ビルド成果物を削除します。" }
`

func TestParseCatalog(t *testing.T) {
	cat, defects, err := ParseCatalog(sampleCatalog)
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	if len(defects) != 0 {
		t.Fatalf("unexpected defects: %v", defects)
	}
	if len(cat.High) != 1 || len(cat.Medium) != 1 {
		t.Fatalf("expected 1 high and 1 medium rule, got %d/%d", len(cat.High), len(cat.Medium))
	}

	r := cat.High[0]
	if r.Name != "helm-force" || r.Source != SourceFile {
		t.Fatalf("unexpected rule %+v", r)
	}
	if !r.Matches("helm upgrade app ./chart --force") {
		t.Fatalf("expected pattern to match")
	}
	if r.Explain("ja") != "Helm のアップグレードを強制します。" {
		t.Fatalf("unexpected ja text %q", r.Explain("ja"))
	}
}

func TestParseCatalog_Defects(t *testing.T) {
	data := `
[[high]]
name = ""
pattern = "x"

[[high]]
name = "bad-regex"
pattern = "(unclosed"
explain = { en = "e", ja = "j" }

[[high]]
name = "empty-pattern"
pattern = "  "
explain = { en = "e", ja = "j" }

[[high]]
name = "ok"
pattern = "^ok$"
explain = { en = "e" }

[[high]]
name = "ok"
pattern = "^again$"
explain = { en = "e", ja = "j" }

[[medium]]
name = "ok"
pattern = "^medium-ok$"
explain = { en = "e", ja = "j" }
`
	cat, defects, err := ParseCatalog(data)
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}

	if len(cat.High) != 1 || cat.High[0].Pattern != "^ok$" {
		t.Fatalf("expected only the first 'ok' high rule to survive, got %+v", cat.High)
	}
	// Names are unique per tier, not across tiers.
	if len(cat.Medium) != 1 {
		t.Fatalf("expected medium 'ok' to survive, got %d rules", len(cat.Medium))
	}

	reasons := make([]string, 0, len(defects))
	for _, d := range defects {
		reasons = append(reasons, d.Error())
	}
	joined := strings.Join(reasons, "\n")
	for _, want := range []string{
		"rule without a name dropped",
		`"bad-regex": invalid pattern dropped`,
		`"empty-pattern": empty pattern dropped`,
		`"ok": missing ja explanation`,
		`"ok": duplicate name dropped`,
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected defect %q in:\n%s", want, joined)
		}
	}
	if len(defects) != 5 {
		t.Fatalf("expected 5 defects, got %d:\n%s", len(defects), joined)
	}
}

func TestParseCatalog_UnknownKeys(t *testing.T) {
	data := `
[[high]]
name = "x"
pattern = "x"
severity = "critical"
explain = { en = "e", ja = "j" }
`
	cat, defects, err := ParseCatalog(data)
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	if len(cat.High) != 1 {
		t.Fatalf("expected rule to be kept")
	}
	if len(defects) != 1 || !strings.Contains(defects[0].Error(), "unknown key") {
		t.Fatalf("expected unknown key defect, got %v", defects)
	}
}

func TestParseCatalog_InvalidTOML(t *testing.T) {
	if _, _, err := ParseCatalog("[[high]\nname="); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoadCatalogFile(t *testing.T) {
	cat, defects, err := LoadCatalogFile("")
	if err != nil || cat.Len() != 0 || len(defects) != 0 {
		t.Fatalf("empty path should give an empty catalog, got %v %v %v", cat, defects, err)
	}

	if _, _, err := LoadCatalogFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "rules.toml")
	if err := os.WriteFile(path, []byte(sampleCatalog), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cat, _, err = LoadCatalogFile(path)
	if err != nil {
		t.Fatalf("LoadCatalogFile: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("expected 2 rules, got %d", cat.Len())
	}
}

func TestMergeCatalogs(t *testing.T) {
	base := &Catalog{
		High:   []*Rule{mustRule(t, "a", "a")},
		Medium: []*Rule{mustRule(t, "b", "b")},
	}
	extra := &Catalog{
		High:   []*Rule{mustRule(t, "a", "other"), mustRule(t, "c", "c")},
		Medium: []*Rule{mustRule(t, "d", "d")},
	}

	merged, defects := MergeCatalogs(base, extra)
	if len(defects) != 1 || defects[0].Rule != "a" || defects[0].Level != LevelHigh {
		t.Fatalf("expected one duplicate defect for high rule a, got %v", defects)
	}
	if got := ruleNames(merged.High); got != "a,c" {
		t.Fatalf("high = %s, want a,c", got)
	}
	if got := ruleNames(merged.Medium); got != "b,d" {
		t.Fatalf("medium = %s, want b,d", got)
	}
	if merged.High[0].Pattern != "a" {
		t.Fatalf("built-in rule should win over the file rule")
	}
	if len(base.High) != 1 {
		t.Fatalf("base catalog was modified")
	}

	same, defects := MergeCatalogs(base, nil)
	if same.Len() != base.Len() || len(defects) != 0 {
		t.Fatalf("merging nil should copy base")
	}
}

func ruleNames(rules []*Rule) string {
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.Name)
	}
	return strings.Join(names, ",")
}
