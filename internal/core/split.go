package core

import "strings"

// SplitCommands breaks a compound command line into its sub-commands.
//
// Fragments are separated by ';', '&&', '||' and '|' at the top level.
// Quoted text and parenthesized groups are copied verbatim and never split.
// Unbalanced quotes or parentheses are tolerated: whatever was accumulated
// when the input runs out becomes the last fragment.
func SplitCommands(command string) []string {
	var (
		parts    []string
		current  strings.Builder
		depth    int
		inSingle bool
		inDouble bool
	)

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			parts = append(parts, s)
		}
		current.Reset()
	}

	for i := 0; i < len(command); i++ {
		ch := command[i]

		if ch == '\\' && !inSingle {
			current.WriteByte(ch)
			if i+1 < len(command) {
				current.WriteByte(command[i+1])
				i++
			}
			continue
		}

		if ch == '\'' && !inDouble {
			inSingle = !inSingle
			current.WriteByte(ch)
			continue
		}

		if ch == '"' && !inSingle {
			inDouble = !inDouble
			current.WriteByte(ch)
			continue
		}

		if inSingle || inDouble {
			current.WriteByte(ch)
			continue
		}

		switch ch {
		case '(':
			depth++
			current.WriteByte(ch)
			continue
		case ')':
			depth--
			current.WriteByte(ch)
			continue
		}

		if depth > 0 {
			current.WriteByte(ch)
			continue
		}

		var next byte
		if i+1 < len(command) {
			next = command[i+1]
		}

		switch {
		case ch == ';':
			flush()
		case ch == '&' && next == '&':
			flush()
			i++
		case ch == '|' && next == '|':
			flush()
			i++
		case ch == '|':
			flush()
		default:
			current.WriteByte(ch)
		}
	}

	flush()
	return parts
}
