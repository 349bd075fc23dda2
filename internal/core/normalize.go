package core

import (
	"regexp"
	"strings"
)

var envAssignmentPrefix = regexp.MustCompile(`^(\w+=\S+\s+)*`)

// NormalizeCommand strips a leading run of NAME=value environment
// assignments from a sub-command so that `FOO=bar rm -rf /` is matched
// the same way as `rm -rf /`. Nothing else is rewritten.
func NormalizeCommand(sub string) string {
	return strings.TrimSpace(envAssignmentPrefix.ReplaceAllString(strings.TrimSpace(sub), ""))
}
