package app

import (
	"context"

	"github.com/doeshing/cmdgate/internal/classify"
	"github.com/doeshing/cmdgate/internal/config"
	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/executor"
	"github.com/doeshing/cmdgate/internal/filter"
	"github.com/doeshing/cmdgate/internal/monitor"
	"github.com/doeshing/cmdgate/internal/pipeline"
	"github.com/doeshing/cmdgate/internal/pkg/logger"
	"github.com/doeshing/cmdgate/internal/policy"
	"github.com/doeshing/cmdgate/internal/ports"
	"github.com/doeshing/cmdgate/internal/sanitize"
)

// Container wires the pipeline components with their adapters.
type Container struct {
	Config       domain.Config
	ConfigLoader *config.FileLoader
	Sanitizer    *sanitize.Sanitizer
	Classifier   *classify.Classifier
	Executor     *executor.Executor
	Monitor      *monitor.Monitor
	Filter       *filter.Filter
	Pipeline     *pipeline.Pipeline
	Logger       ports.Logger
}

// BuildContainer constructs the dependency graph from configuration.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)

	doc, err := policy.Load(cfg.Security.PolicyFile)
	if err != nil {
		return nil, err
	}
	sanitizer, err := sanitize.New(doc.Rules.DangerPatterns, doc.Rules.MaxCommandLength)
	if err != nil {
		return nil, err
	}
	classifier, err := classify.New(doc.Rules.CategoryRules, doc.Rules.RiskRules)
	if err != nil {
		return nil, err
	}

	runner := buildRunner(cfg)
	exec := executor.New(runner, sanitizer, classifier, log)
	mon := monitor.New(log)
	flt := filter.New(sanitizer, classifier, log)

	opts := domain.ExecOptions{TimeoutMS: cfg.Execution.TimeoutMS}
	if !cfg.Security.IsEnabled() {
		opts.NoSanitize = true
		opts.NoValidate = true
	}

	return &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Sanitizer:    sanitizer,
		Classifier:   classifier,
		Executor:     exec,
		Monitor:      mon,
		Filter:       flt,
		Pipeline: &pipeline.Pipeline{
			Filter:      flt,
			Executor:    exec,
			Monitor:     mon,
			Logger:      log,
			ExecOptions: opts,
		},
		Logger: log,
	}, nil
}

func buildRunner(cfg domain.Config) ports.CommandRunner {
	if cfg.Execution.Backend == "shell" {
		shell := cfg.Execution.Shell
		if shell == "auto" {
			shell = ""
		}
		return executor.NewShellRunner(shell)
	}
	return executor.NewSimulatedRunner()
}
