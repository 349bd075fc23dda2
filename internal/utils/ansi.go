package utils

import (
	"regexp"
	"strings"
)

// Escape sequences a pasted or agent-generated command can carry:
// OSC (titles, hyperlinks), terminated by BEL or ST, and CSI (colors, cursor moves).
var (
	oscRegex = regexp.MustCompile(`\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)
	csiRegex = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)
)

// StripANSI removes OSC and CSI escape sequences from s.
func StripANSI(s string) string {
	s = oscRegex.ReplaceAllString(s, "")
	return csiRegex.ReplaceAllString(s, "")
}

// SanitizeInput makes a command safe to echo back to a terminal: escape
// sequences are removed, then every control character other than newline
// and tab is dropped.
func SanitizeInput(s string) string {
	s = StripANSI(s)
	return strings.Map(func(r rune) rune {
		if (r < 0x20 && r != '\n' && r != '\t') || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
