package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"github.com/cc-extention/cc-ext/internal/core"
	"github.com/cc-extention/cc-ext/internal/locale"
	"github.com/cc-extention/cc-ext/internal/output"
	"github.com/cc-extention/cc-ext/internal/utils"
)

var (
	flagCheckExitCode bool
	flagCheckLang     string
)

// errRiskDetected makes `check --exit-code` exit non-zero.
var errRiskDetected = errors.New("risk detected")

func init() {
	checkCmd.Flags().BoolVar(&flagCheckExitCode, "exit-code", false, "exit with status 1 when the command is risky")
	checkCmd.Flags().StringVar(&flagCheckLang, "lang", "", "message language: auto, en, ja (default from config)")

	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <command>",
	Short: "Classify a command and explain its risk",
	Long: `Split a command line into sub-commands, match each against the rule
catalog, and show the verdict together with the message the hook would show.

Examples:
  cc-ext check "rm -rf /tmp/foo && echo done"
  cc-ext check "FOO=1 git push --force" --json
  cc-ext check "git reset --hard" --exit-code`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

type segmentReport struct {
	Command string   `json:"command"`
	Argv    []string `json:"argv,omitempty"`
	Level   string   `json:"level"`
	Rule    string   `json:"rule,omitempty"`
}

type checkReport struct {
	Command  string          `json:"command"`
	Level    string          `json:"level"`
	Rule     string          `json:"rule,omitempty"`
	Lang     string          `json:"lang"`
	Segments []segmentReport `json:"segments"`
	Message  string          `json:"message,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	p, err := newPipeline(cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer p.Close()

	setting := p.cfg.General.Language
	if flagCheckLang != "" {
		setting = flagCheckLang
	}
	lang := locale.Normalize(setting, locale.OSEnv{})

	report := buildCheckReport(p.engine, args[0], lang)

	format, err := output.ParseFormat(GetOutput())
	if err != nil {
		return err
	}
	if format == output.FormatText {
		fmt.Fprintln(cmd.OutOrStdout(), renderCheckReport(report))
	} else if err := output.New(format, output.WithOutput(cmd.OutOrStdout())).Write(report); err != nil {
		return err
	}

	if flagCheckExitCode && report.Level != core.LevelNone.String() {
		return errRiskDetected
	}
	return nil
}

func buildCheckReport(engine *core.Engine, command, lang string) checkReport {
	verdict := engine.Classify(command)

	report := checkReport{
		Command:  command,
		Level:    verdict.Level.String(),
		Lang:     lang,
		Segments: make([]segmentReport, 0, len(verdict.SubCommands)),
		Message:  core.RenderMessage(verdict, lang),
	}
	if primary := verdict.Primary(); primary != nil {
		report.Rule = primary.Rule.Name
	}

	matches := verdict.Matches
	for _, sub := range verdict.SubCommands {
		seg := segmentReport{
			Command: sub,
			Argv:    argvOf(sub),
			Level:   core.LevelNone.String(),
		}
		// Matches are in sub-command order, so the next match belongs to
		// this segment if its text is the same.
		if len(matches) > 0 && matches[0].SubCommand == sub {
			seg.Level = matches[0].Level.String()
			seg.Rule = matches[0].Rule.Name
			matches = matches[1:]
		}
		report.Segments = append(report.Segments, seg)
	}
	return report
}

// argvOf splits a sub-command into words, skipping leading env assignments.
// Commands the word splitter cannot handle report no argv.
func argvOf(sub string) []string {
	parser := shellwords.NewParser()
	parser.ParseEnv = false
	words, err := parser.Parse(core.NormalizeCommand(sub))
	if err != nil {
		return nil
	}
	return words
}

var (
	checkHighStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	checkMediumStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCaution)
	checkNoneStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
)

func levelStyle(level string) lipgloss.Style {
	switch level {
	case core.LevelHigh.String():
		return checkHighStyle
	case core.LevelMedium.String():
		return checkMediumStyle
	default:
		return checkNoneStyle
	}
}

func renderCheckReport(r checkReport) string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("VERDICT"))
	b.WriteString("  ")
	b.WriteString(levelStyle(r.Level).Render(strings.ToUpper(r.Level)))
	b.WriteString("\n")

	for i, seg := range r.Segments {
		line := fmt.Sprintf("  %d. %s", i+1, utils.SanitizeInput(seg.Command))
		b.WriteString(commandStyle.Render(line))
		if seg.Rule != "" {
			b.WriteString("  ")
			b.WriteString(levelStyle(seg.Level).Render("[" + seg.Rule + "]"))
		}
		b.WriteString("\n")
	}

	if r.Message != "" {
		b.WriteString("\n")
		b.WriteString(r.Message)
	} else {
		b.WriteString(mutedStyle.Render("no elevated risk"))
	}
	return b.String()
}
