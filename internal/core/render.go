package core

import (
	"strings"

	"github.com/cc-extention/cc-ext/internal/locale"
)

var levelLabels = map[string]map[Level]string{
	locale.English: {
		LevelHigh:   "HIGH RISK",
		LevelMedium: "MEDIUM RISK",
	},
	locale.Japanese: {
		LevelHigh:   "高リスク",
		LevelMedium: "中リスク",
	},
}

var multipleRisksHeader = map[string]string{
	locale.English:  "Multiple risks in compound command:",
	locale.Japanese: "複合コマンドに複数のリスクがあります:",
}

// LevelLabel returns the localized label for a level.
func LevelLabel(level Level, lang string) string {
	return levelLabels[lang][level]
}

// RenderMessage turns a risky verdict into the explanation shown to the user.
//
// A single match renders as one line:
//
//	🔴 HIGH RISK: [recursive-delete] <explanation>
//
// Several matches render a header followed by one indented line per match,
// each with the glyph of its own level.
func RenderMessage(v *Verdict, lang string) string {
	if !v.IsRisky() || len(v.Matches) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(v.Level.Glyph())
	sb.WriteString(" ")
	sb.WriteString(LevelLabel(v.Level, lang))
	sb.WriteString(": ")

	if len(v.Matches) == 1 {
		m := v.Matches[0]
		sb.WriteString(describe(m, lang))
		return sb.String()
	}

	sb.WriteString(multipleRisksHeader[lang])
	for _, m := range v.Matches {
		sb.WriteString("\n  ")
		sb.WriteString(m.Level.Glyph())
		sb.WriteString(" ")
		sb.WriteString(describe(m, lang))
	}
	return sb.String()
}

func describe(m Match, lang string) string {
	name := ""
	if m.Rule != nil {
		name = m.Rule.Name
	}
	return "[" + name + "] " + m.Rule.Explain(lang)
}
