// Package hook adapts the classification engine to the Claude Code
// PreToolUse hook protocol: one JSON event in on stdin, one JSON decision
// out on stdout.
package hook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/cc-extention/cc-ext/internal/core"
	"github.com/cc-extention/cc-ext/internal/locale"
)

const (
	// EventPreToolUse is the hook event this adapter answers.
	EventPreToolUse = "PreToolUse"
	// DecisionAsk asks the user to confirm before the tool runs.
	DecisionAsk = "ask"
	// DefaultShellTool is the tool name of the shell-execution tool.
	DefaultShellTool = "Bash"
)

// Input matches the PreToolUse hook input.
type Input struct {
	SessionID string          `json:"session_id"`
	ToolName  string          `json:"tool_name"`
	ToolInput json.RawMessage `json:"tool_input"`
	CWD       string          `json:"cwd"`
}

type shellToolInput struct {
	Command string `json:"command"`
}

// Output is the decision document. The zero value encodes as {}.
type Output struct {
	HookSpecificOutput *SpecificOutput `json:"hookSpecificOutput,omitempty"`
}

// SpecificOutput carries a PreToolUse permission decision.
type SpecificOutput struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason"`
}

// Allow returns the empty decision: no objection.
func Allow() Output {
	return Output{}
}

// Ask returns a decision asking the user to confirm, with reason shown.
func Ask(reason string) Output {
	return Output{
		HookSpecificOutput: &SpecificOutput{
			HookEventName:            EventPreToolUse,
			PermissionDecision:       DecisionAsk,
			PermissionDecisionReason: reason,
		},
	}
}

// IsAsk reports whether the decision asks for confirmation.
func (o Output) IsAsk() bool {
	return o.HookSpecificOutput != nil && o.HookSpecificOutput.PermissionDecision == DecisionAsk
}

// Handler turns hook events into decisions.
type Handler struct {
	engine    *core.Engine
	env       locale.Env
	language  string
	shellTool string
	logger    *log.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithEnv sets the environment consulted for the display language.
func WithEnv(env locale.Env) Option {
	return func(h *Handler) {
		h.env = env
	}
}

// WithLanguage forces the display language ("en", "ja") or defers to the
// environment ("auto" or "").
func WithLanguage(lang string) Option {
	return func(h *Handler) {
		h.language = lang
	}
}

// WithShellTool sets the tool name that identifies shell execution.
func WithShellTool(name string) Option {
	return func(h *Handler) {
		if name != "" {
			h.shellTool = name
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler creates a handler classifying with engine.
func NewHandler(engine *core.Engine, opts ...Option) *Handler {
	if engine == nil {
		engine = core.NewEngine(nil)
	}
	h := &Handler{
		engine:    engine,
		env:       locale.OSEnv{},
		shellTool: DefaultShellTool,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Decide classifies one raw event. Malformed events, other tools and
// internal failures all resolve to Allow.
func (h *Handler) Decide(payload []byte) (out Output) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("classification panicked, allowing", "panic", fmt.Sprint(r))
			out = Allow()
		}
	}()

	var in Input
	if err := json.Unmarshal(payload, &in); err != nil {
		h.logger.Debug("unparsable hook input, allowing", "error", err)
		return Allow()
	}
	if in.ToolName != h.shellTool {
		h.logger.Debug("not a shell tool call, allowing", "tool", in.ToolName)
		return Allow()
	}

	command := commandOf(in.ToolInput)
	if command == "" {
		h.logger.Debug("no command in tool input, allowing")
		return Allow()
	}

	return h.DecideCommand(command)
}

// DecideCommand classifies a shell command line directly.
func (h *Handler) DecideCommand(command string) Output {
	verdict := h.engine.Classify(command)
	if !verdict.IsRisky() {
		h.logger.Debug("no risk detected", "sub_commands", len(verdict.SubCommands))
		return Allow()
	}

	lang := locale.Normalize(h.language, h.env)
	reason := core.RenderMessage(verdict, lang)

	h.logger.Info("asking for confirmation",
		"level", verdict.Level,
		"rules", ruleNames(verdict),
		"sub_commands", len(verdict.SubCommands),
		"lang", lang,
	)
	return Ask(reason)
}

// Handle reads one event from r and writes exactly one decision to w.
// Only a failure to write the decision is returned.
func (h *Handler) Handle(r io.Reader, w io.Writer) error {
	payload, err := io.ReadAll(r)
	out := Allow()
	if err != nil {
		h.logger.Warn("reading hook input failed, allowing", "error", err)
	} else {
		out = h.Decide(payload)
	}
	return Write(w, out)
}

// Write encodes a decision document to w.
func Write(w io.Writer, out Output) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding decision: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing decision: %w", err)
	}
	return nil
}

func commandOf(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var ti shellToolInput
	if err := json.Unmarshal(raw, &ti); err != nil {
		return ""
	}
	return ti.Command
}

func ruleNames(v *core.Verdict) []string {
	names := make([]string, 0, len(v.Matches))
	for _, m := range v.Matches {
		names = append(names, m.Rule.Name)
	}
	return names
}
