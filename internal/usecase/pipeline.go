package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lcasucciIT/azure-openai-retirement/internal/config"
	"github.com/lcasucciIT/azure-openai-retirement/internal/domain"
	"github.com/lcasucciIT/azure-openai-retirement/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Lookup        ports.LookupSource
	Tokens        ports.TokenProvider
	Deployments   ports.DeploymentLister
	Repository    ports.ScanRepository
	Reporter      ports.ReportWriter
	Subscriptions []config.SubscriptionConfig
	Logger        *slog.Logger
}

// Pipeline implements the scan-and-report workflow: build the retirement
// lookup, walk every subscription's deployments, join the two, then
// persist and report.
type Pipeline struct {
	lookup        ports.LookupSource
	tokens        ports.TokenProvider
	deployments   ports.DeploymentLister
	repository    ports.ScanRepository
	reporter      ports.ReportWriter
	subscriptions []config.SubscriptionConfig
	logger        *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		lookup:        deps.Lookup,
		tokens:        deps.Tokens,
		deployments:   deps.Deployments,
		repository:    deps.Repository,
		reporter:      deps.Reporter,
		subscriptions: deps.Subscriptions,
		logger:        deps.Logger,
	}
}

// Run executes one full scan. A failed subscription is logged and
// skipped; a failed lookup build or report write fails the run.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.lookup == nil {
		return fmt.Errorf("lookup source is not configured")
	}

	lookup, err := p.lookup.BuildLookup(ctx)
	if err != nil {
		return fmt.Errorf("build retirement lookup: %w", err)
	}
	p.info("retirement lookup built", "entries", len(lookup))

	results, err := p.scan(ctx, lookup)
	if err != nil {
		return err
	}

	if p.repository != nil {
		p.reportChanges(ctx, results)
		if err := p.repository.SaveScan(ctx, results); err != nil {
			return fmt.Errorf("persist scan: %w", err)
		}
	}

	if p.reporter == nil {
		return nil
	}

	return p.reporter.Write(results)
}

func (p *Pipeline) scan(ctx context.Context, lookup domain.RetirementLookup) ([]domain.DeploymentStatus, error) {
	if p.tokens == nil || p.deployments == nil {
		return nil, nil
	}

	token, err := p.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire token: %w", err)
	}

	var results []domain.DeploymentStatus
	for _, sub := range p.subscriptions {
		deployments, err := p.deployments.ListDeployments(ctx, sub.ID, sub.Name, token)
		if err != nil {
			p.warn("cannot scan subscription, skipping", "subscription", sub.Name, "error", err)
			continue
		}
		if len(deployments) == 0 {
			p.info("no OpenAI deployments found", "subscription", sub.Name)
			continue
		}

		for _, dep := range deployments {
			results = append(results, domain.DeploymentStatus{
				Deployment: dep,
				Retirement: retirementFor(lookup, dep),
			})
		}
		p.info("subscription processed", "subscription", sub.Name, "deployments", len(deployments))
	}

	return results, nil
}

// reportChanges compares each result against the last recorded scan and
// logs retirement dates that moved since then.
func (p *Pipeline) reportChanges(ctx context.Context, results []domain.DeploymentStatus) {
	for _, res := range results {
		previous, err := p.repository.LastRetirement(ctx, res.Model, res.Version)
		if err != nil {
			p.warn("cannot load previous retirement", "model", res.Model, "error", err)
			continue
		}
		if previous != "" && previous != res.Retirement {
			p.info("retirement date changed since last scan",
				"model", res.Model, "version", res.Version,
				"previous", previous, "current", res.Retirement)
		}
	}
}

func retirementFor(lookup domain.RetirementLookup, dep domain.Deployment) string {
	if record, ok := lookup[dep.Key()]; ok {
		return record.Retirement
	}
	return domain.RetirementNotAvailable
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
