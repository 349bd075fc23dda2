package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cc-extention/cc-ext/internal/core"
)

// RuleOption customizes a test rule.
type RuleOption func(*ruleFixture)

type ruleFixture struct {
	name    string
	pattern string
	explain map[string]string
}

// RuleExplain sets the explanation for one language.
func RuleExplain(lang, text string) RuleOption {
	return func(r *ruleFixture) {
		if r.explain == nil {
			r.explain = map[string]string{}
		}
		r.explain[lang] = text
	}
}

// RuleNoExplain clears all explanations.
func RuleNoExplain() RuleOption {
	return func(r *ruleFixture) { r.explain = nil }
}

// MakeRule compiles a rule with en and ja text derived from its name.
func MakeRule(t *testing.T, name, pattern string, opts ...RuleOption) *core.Rule {
	t.Helper()

	f := &ruleFixture{
		name:    name,
		pattern: pattern,
		explain: map[string]string{
			"en": name + " explanation",
			"ja": name + " の説明",
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	r, err := core.NewRule(f.name, f.pattern, f.explain, core.SourceBuiltin)
	RequireNoError(t, err, "compile rule "+name)
	return r
}

// TestCatalog returns a small catalog with two HIGH rules and one MEDIUM
// rule, in this order:
//
//	HIGH:   recursive-delete (^rm -rf /), pipe-to-shell (^(ba)?sh$)
//	MEDIUM: force-push (^git push.*--force)
func TestCatalog(t *testing.T) *core.Catalog {
	t.Helper()
	return &core.Catalog{
		High: []*core.Rule{
			MakeRule(t, "recursive-delete", `^rm -rf /`),
			MakeRule(t, "pipe-to-shell", `^(ba)?sh$`),
		},
		Medium: []*core.Rule{
			MakeRule(t, "force-push", `^git push.*--force`),
		},
	}
}

// WriteFile writes content to name inside a fresh temp dir and returns the path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	RequireNoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "mkdir")
	RequireNoError(t, os.WriteFile(path, []byte(content), 0o644), "write "+name)
	return path
}

// BashEvent returns a PreToolUse payload for a shell command.
func BashEvent(t *testing.T, command string) []byte {
	t.Helper()
	return ToolEvent(t, "Bash", map[string]any{"command": command})
}

// ToolEvent returns a PreToolUse payload for an arbitrary tool.
func ToolEvent(t *testing.T, tool string, input any) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"session_id":      "test-session",
		"hook_event_name": "PreToolUse",
		"tool_name":       tool,
		"tool_input":      input,
		"cwd":             t.TempDir(),
	})
	RequireNoError(t, err, "marshal event")
	return data
}
