// Package core implements command-risk classification: splitting a command
// line into sub-commands, matching each against a rule catalog, and
// aggregating the results into a single verdict.
package core

// Match is one sub-command that matched a rule.
type Match struct {
	// SubCommand is the fragment as produced by SplitCommands.
	SubCommand string
	// Level is the tier of the matched rule.
	Level Level
	// Rule is the rule that matched.
	Rule *Rule
}

// Verdict is the aggregated result of classifying one command line.
type Verdict struct {
	// Level is the highest severity across all matches.
	Level Level
	// Matches lists every match in sub-command order, whatever its level.
	Matches []Match
	// SubCommands are the fragments that were classified.
	SubCommands []string
}

// Primary returns the first match at the verdict's overall level, or nil
// when nothing matched.
func (v *Verdict) Primary() *Match {
	if v == nil {
		return nil
	}
	for i := range v.Matches {
		if v.Matches[i].Level == v.Level {
			return &v.Matches[i]
		}
	}
	return nil
}

// IsRisky reports whether any sub-command matched.
func (v *Verdict) IsRisky() bool {
	return v != nil && v.Level != LevelNone
}

// Engine classifies commands against a catalog.
// The catalog is never mutated, so an Engine is safe for concurrent use.
type Engine struct {
	catalog *Catalog
}

// NewEngine creates an engine for catalog. A nil catalog never matches.
func NewEngine(catalog *Catalog) *Engine {
	if catalog == nil {
		catalog = &Catalog{}
	}
	return &Engine{catalog: catalog}
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// MatchCommand normalizes one sub-command and returns the first HIGH rule
// that matches it, falling back to the first MEDIUM rule. It returns nil
// when nothing matches.
func (e *Engine) MatchCommand(sub string) *Match {
	cleaned := NormalizeCommand(sub)

	if rule := matchRules(cleaned, e.catalog.High); rule != nil {
		return &Match{SubCommand: sub, Level: LevelHigh, Rule: rule}
	}
	if rule := matchRules(cleaned, e.catalog.Medium); rule != nil {
		return &Match{SubCommand: sub, Level: LevelMedium, Rule: rule}
	}
	return nil
}

// Aggregate matches every sub-command in order and combines the results.
// The overall level is the maximum level seen; every match is kept.
func (e *Engine) Aggregate(subCommands []string) *Verdict {
	verdict := &Verdict{
		Level:       LevelNone,
		SubCommands: subCommands,
	}

	for _, sub := range subCommands {
		m := e.MatchCommand(sub)
		if m == nil {
			continue
		}
		verdict.Matches = append(verdict.Matches, *m)
		if m.Level > verdict.Level {
			verdict.Level = m.Level
		}
	}

	return verdict
}

// Classify splits command and aggregates the verdict for its sub-commands.
func (e *Engine) Classify(command string) *Verdict {
	return e.Aggregate(SplitCommands(command))
}

func matchRules(cmd string, rules []*Rule) *Rule {
	for _, r := range rules {
		if r.Matches(cmd) {
			return r
		}
	}
	return nil
}

var defaultEngine = NewEngine(DefaultCatalog())

// GetDefaultEngine returns the engine for the built-in catalog.
func GetDefaultEngine() *Engine {
	return defaultEngine
}

// Classify is a convenience function using the default engine.
func Classify(command string) *Verdict {
	return defaultEngine.Classify(command)
}
