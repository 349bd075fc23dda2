package core

import "strings"

// Level is the risk severity of a command.
// The zero value is LevelNone, so an empty Verdict means "no elevated risk".
type Level int

const (
	// LevelNone means no rule matched.
	LevelNone Level = iota
	// LevelMedium marks commands that deserve a second look.
	LevelMedium
	// LevelHigh marks destructive or irreversible commands.
	LevelHigh
)

// String returns the lowercase name of the level.
func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Glyph returns the indicator shown next to a level in rendered messages.
func (l Level) Glyph() string {
	switch l {
	case LevelHigh:
		return "\U0001F534"
	case LevelMedium:
		return "\U0001F7E1"
	default:
		return ""
	}
}

// ParseLevel parses "high" or "medium" (case-insensitive).
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return LevelHigh, true
	case "medium":
		return LevelMedium, true
	case "none", "":
		return LevelNone, true
	default:
		return LevelNone, false
	}
}
