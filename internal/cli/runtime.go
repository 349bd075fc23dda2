package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/cc-extention/cc-ext/internal/config"
	"github.com/cc-extention/cc-ext/internal/core"
	"github.com/cc-extention/cc-ext/internal/logging"
)

// pipeline bundles what a classifying command needs.
type pipeline struct {
	cfg    config.Config
	logger *log.Logger
	engine *core.Engine
	closer io.Closer
}

func (p *pipeline) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

func loadConfig() (config.Config, error) {
	project, err := projectPath()
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(config.LoadOptions{
		ProjectDir: project,
		ConfigPath: flagConfig,
	})
}

// newPipeline loads configuration, the logger and the rule catalog.
// With failOpen set, every problem is logged and replaced by the defaults
// so the caller can still produce a decision.
func newPipeline(stderr io.Writer, failOpen bool) (*pipeline, error) {
	cfg, cfgErr := loadConfig()
	if cfgErr != nil {
		if !failOpen {
			return nil, cfgErr
		}
		cfg = config.DefaultConfig()
	}
	if flagVerbose {
		cfg.Logging.Level = "debug"
	}

	logger, closer, err := logging.New(cfg.Logging, stderr)
	if err != nil {
		if !failOpen {
			return nil, err
		}
		logger, closer, _ = logging.New(config.DefaultConfig().Logging, stderr)
		logger.Warn("logger setup failed, using stderr", "error", err)
	}
	if cfgErr != nil {
		logger.Warn("config load failed, using defaults", "error", cfgErr)
	}

	catalog, err := buildCatalog(cfg.Rules, logger)
	if err != nil {
		if !failOpen {
			_ = closer.Close()
			return nil, err
		}
		logger.Warn("rules file unusable, continuing without it", "error", err)
	}

	return &pipeline{
		cfg:    cfg,
		logger: logger,
		engine: core.NewEngine(catalog),
		closer: closer,
	}, nil
}

// buildCatalog combines the built-in catalog with the configured rules file.
// On error the returned catalog still holds the built-in rules (if enabled).
func buildCatalog(rc config.RulesConfig, logger *log.Logger) (*core.Catalog, error) {
	base := &core.Catalog{}
	if rc.Builtin {
		base = core.DefaultCatalog()
	}
	if rc.File == "" {
		return base, nil
	}

	extra, defects, err := core.LoadCatalogFile(rc.File)
	if err != nil {
		return base, fmt.Errorf("loading rules: %w", err)
	}
	merged, dups := core.MergeCatalogs(base, extra)
	for _, d := range append(defects, dups...) {
		logger.Warn("rule catalog defect", "file", rc.File, "defect", d.Error())
	}
	logger.Debug("rules loaded", "file", rc.File, "high", len(merged.High), "medium", len(merged.Medium))
	return merged, nil
}
