package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cc-extention/cc-ext/internal/core"
	"github.com/cc-extention/cc-ext/internal/output"
)

var (
	flagRulesLevel      string
	flagRulesFormat     string
	flagRulesOutputFile string
)

func init() {
	rulesListCmd.Flags().StringVarP(&flagRulesLevel, "level", "l", "", "only list one level (high, medium)")

	rulesExportCmd.Flags().StringVarP(&flagRulesFormat, "format", "f", "json", "export format: json, toml")
	rulesExportCmd.Flags().StringVar(&flagRulesOutputFile, "file", "", "output file (default: stdout)")
	_ = rulesListCmd.RegisterFlagCompletionFunc("level", fixedCompletion("high", "medium"))
	_ = rulesExportCmd.RegisterFlagCompletionFunc("format", fixedCompletion("json", "toml"))

	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesExportCmd)
	rulesCmd.AddCommand(rulesHashCmd)
	rulesCmd.AddCommand(rulesValidateCmd)

	rootCmd.AddCommand(rulesCmd)
}

var rulesCmd = &cobra.Command{
	Use:     "rules",
	Aliases: []string{"patterns"},
	Short:   "Inspect the rule catalog",
	Long: `Inspect the rules used to classify commands.

Rules are regexes matched against each sub-command after leading NAME=value
assignments are stripped. HIGH rules are tried first, then MEDIUM rules;
within a level the first matching rule wins.

Extra rules can be loaded from a TOML file (rules.file in config); they are
tried after the built-in rules of the same level.`,
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List rules in match order",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cmd.ErrOrStderr(), false)
		if err != nil {
			return err
		}
		defer p.Close()

		levels := []core.Level{core.LevelHigh, core.LevelMedium}
		if flagRulesLevel != "" {
			level, ok := core.ParseLevel(flagRulesLevel)
			if !ok || level == core.LevelNone {
				return fmt.Errorf("invalid level: %s (must be high or medium)", flagRulesLevel)
			}
			levels = []core.Level{level}
		}

		return outputRules(cmd.OutOrStdout(), p.engine.Catalog(), levels)
	},
}

var rulesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the rule catalog",
	Long: `Export the active rule catalog.

Available formats:
  json - full export with metadata and hash, for reading (default)
  toml - a rules file that can be loaded back with rules.file

Only the toml output is a rules file; rules.file does not accept the json export.

Examples:
  cc-ext rules export
  cc-ext rules export -f toml --file ~/.cc-ext/rules.toml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cmd.ErrOrStderr(), false)
		if err != nil {
			return err
		}
		defer p.Close()
		catalog := p.engine.Catalog()

		var content bytes.Buffer
		switch strings.ToLower(flagRulesFormat) {
		case "json":
			data, err := catalog.ExportJSON()
			if err != nil {
				return fmt.Errorf("failed to export JSON: %w", err)
			}
			content.WriteString(data)
			content.WriteString("\n")
		case "toml":
			if err := catalog.WriteTOML(&content); err != nil {
				return fmt.Errorf("failed to export TOML: %w", err)
			}
		default:
			return fmt.Errorf("unknown format: %s (use json or toml)", flagRulesFormat)
		}

		if flagRulesOutputFile == "" {
			_, err := cmd.OutOrStdout().Write(content.Bytes())
			return err
		}

		if err := os.WriteFile(flagRulesOutputFile, content.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		out := output.New(output.Format(GetOutput()), output.WithOutput(cmd.OutOrStdout()), output.WithErrorOutput(cmd.ErrOrStderr()))
		if out.Format() == output.FormatText {
			out.Success(fmt.Sprintf("exported %d rules to %s", catalog.Len(), flagRulesOutputFile))
			return nil
		}
		return out.Write(map[string]any{
			"status": "exported",
			"format": flagRulesFormat,
			"file":   flagRulesOutputFile,
			"sha256": catalog.ComputeHash(),
			"count":  catalog.Len(),
		})
	},
}

var rulesHashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Show the catalog hash and rule counts",
	Long: `Show the SHA-256 hash of the active catalog.

The hash covers rule order, names and patterns, so it changes whenever the
match behaviour can change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cmd.ErrOrStderr(), false)
		if err != nil {
			return err
		}
		defer p.Close()

		export := p.engine.Catalog().Export()
		payload := map[string]any{
			"version":     export.Version,
			"sha256":      export.SHA256,
			"rule_count":  export.Metadata.RuleCount,
			"tier_counts": export.Metadata.TierCounts,
		}
		if GetOutput() == "text" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  (%d rules)\n", export.SHA256, export.Metadata.RuleCount)
			return nil
		}
		return output.New(output.Format(GetOutput()), output.WithOutput(cmd.OutOrStdout())).Write(payload)
	},
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a rules file for defects",
	Long: `Parse a TOML rules file and report every defect: invalid or empty
patterns, missing names, duplicate names and missing en/ja explanations.

Exits non-zero when the file cannot be parsed or has defects.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, defects, err := core.LoadCatalogFile(args[0])
		if err != nil {
			return err
		}

		problems := make([]string, 0, len(defects))
		for _, d := range defects {
			problems = append(problems, d.Error())
		}

		if GetOutput() == "text" {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s: %d high, %d medium rules\n", args[0], len(catalog.High), len(catalog.Medium))
			for _, p := range problems {
				fmt.Fprintf(w, "  - %s\n", p)
			}
		} else {
			out := output.New(output.Format(GetOutput()), output.WithOutput(cmd.OutOrStdout()))
			if err := out.Write(map[string]any{
				"file":    args[0],
				"high":    len(catalog.High),
				"medium":  len(catalog.Medium),
				"defects": problems,
			}); err != nil {
				return err
			}
		}

		if len(defects) > 0 {
			return fmt.Errorf("%d defect(s) in %s", len(defects), args[0])
		}
		return nil
	},
}

func outputRules(w io.Writer, catalog *core.Catalog, levels []core.Level) error {
	if GetOutput() != "text" {
		result := make(map[string][]ruleJSON, len(levels))
		for _, level := range levels {
			rules := catalog.Rules(level)
			list := make([]ruleJSON, 0, len(rules))
			for _, r := range rules {
				list = append(list, ruleJSON{
					Name:    r.Name,
					Pattern: r.Pattern,
					Explain: r.Explanations,
					Source:  r.Source,
				})
			}
			result[level.String()] = list
		}
		return output.New(output.Format(GetOutput()), output.WithOutput(w)).Write(result)
	}

	for _, level := range levels {
		rules := catalog.Rules(level)
		fmt.Fprintf(w, "\n%s (%d rules):\n", strings.ToUpper(level.String()), len(rules))
		for _, r := range rules {
			fmt.Fprintf(w, "  %-24s %s\n", r.Name, r.Pattern)
			if en := r.Explain("en"); en != "" {
				fmt.Fprintf(w, "    # %s\n", en)
			}
		}
	}
	fmt.Fprintln(w)
	return nil
}

type ruleJSON struct {
	Name    string            `json:"name"`
	Pattern string            `json:"pattern"`
	Explain map[string]string `json:"explain,omitempty"`
	Source  string            `json:"source,omitempty"`
}
