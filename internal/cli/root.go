// Package cli implements the Cobra command-line interface for cc-ext.
package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/cc-extention/cc-ext/internal/config"
	"github.com/cc-extention/cc-ext/internal/output"
)

// Version information set by goreleaser
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flag values
var (
	flagConfig  string
	flagOutput  string
	flagJSON    bool
	flagVerbose bool
	flagProject string

	// flagOutputSet records an explicit --output, which beats CCEXT_OUTPUT_FORMAT.
	flagOutputSet bool
)

var rootCmd = &cobra.Command{
	Use:   "cc-ext",
	Short: "Explain risky shell commands before they run",
	Long: `Explain risky shell commands before they run.

cc-ext inspects shell commands right before an agent runs them and asks
for confirmation when a command is destructive or irreversible.

Compound commands are split on ;, &&, || and | (quotes and subshells are
respected) and every part is checked against the rule catalog:
  HIGH    - destructive or irreversible (rm -rf /, curl ... | sh, dd of=/dev/...)
  MEDIUM  - deserves a second look (git push --force, git reset --hard, rm)

Run as a Claude Code PreToolUse hook with "cc-ext hook".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: persistentPreRun,
	Run: func(cmd *cobra.Command, args []string) {
		// When no subcommand given, show quick reference card
		showQuickReference(cmd.OutOrStdout())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		project, _ := projectPath()
		userPath, projectConfig := config.ConfigPaths(project, flagConfig)

		payload := map[string]any{
			"version":             version,
			"commit":              commit,
			"build_date":          date,
			"go_version":          runtime.Version(),
			"user_config_path":    userPath,
			"project_config_path": projectConfig,
		}

		switch GetOutput() {
		case "json", "yaml":
			out := output.New(output.Format(GetOutput()), output.WithOutput(cmd.OutOrStdout()))
			return out.Write(payload)
		case "text":
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "cc-ext %s\n", version)
			fmt.Fprintf(w, "  commit:  %s\n", commit)
			fmt.Fprintf(w, "  built:   %s\n", date)
			fmt.Fprintf(w, "  go:      %s\n", runtime.Version())
			fmt.Fprintf(w, "  config:  %s\n", userPath)
			fmt.Fprintf(w, "  project: %s\n", projectConfig)
			return nil
		default:
			return fmt.Errorf("unsupported format: %s", GetOutput())
		}
	},
}

// annotationFailOpen marks commands that must keep going when global
// setup fails, because their caller always expects a result.
const annotationFailOpen = "cc-ext/fail-open"

func persistentPreRun(cmd *cobra.Command, args []string) error {
	flagOutputSet = cmd.Flags().Changed("output")

	if flagProject == "" {
		return nil
	}
	if err := os.Chdir(flagProject); err != nil {
		if cmd.Annotations[annotationFailOpen] == "true" {
			fmt.Fprintf(cmd.ErrOrStderr(), "cc-ext: ignoring --project: %v\n", err)
			return nil
		}
		return fmt.Errorf("changing directory to %s: %w", flagProject, err)
	}
	return nil
}

// Execute runs the root command. In json and yaml modes errors are also
// written to stdout as a structured payload.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errRiskDetected) {
		if format, ferr := output.ParseFormat(GetOutput()); ferr == nil && format != output.FormatText {
			output.New(format, output.WithOutput(rootCmd.OutOrStdout())).Error(err)
		}
	}
	return err
}

// GetOutput returns the configured output format.
// Precedence: CLI flags > CCEXT_OUTPUT_FORMAT env > default
func GetOutput() string {
	if flagJSON {
		return "json"
	}
	if flagOutput != "" && (flagOutputSet || flagOutput != "text") {
		return flagOutput
	}

	if envFormat := os.Getenv("CCEXT_OUTPUT_FORMAT"); envFormat != "" {
		switch envFormat {
		case "json", "yaml", "text":
			return envFormat
		}
	}

	if flagOutput == "" {
		return "text"
	}
	return flagOutput
}

func projectPath() (string, error) {
	return os.Getwd()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file path (overrides .cc-ext/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "output format: text, json, yaml (env: CCEXT_OUTPUT_FORMAT)")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "shorthand for --output=json")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging to stderr")
	rootCmd.PersistentFlags().StringVarP(&flagProject, "project", "C", "", "project directory")
	_ = rootCmd.RegisterFlagCompletionFunc("output", fixedCompletion("text", "json", "yaml"))

	rootCmd.AddCommand(versionCmd)
}
