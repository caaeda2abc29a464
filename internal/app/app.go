package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/lcasucciIT/azure-openai-retirement/internal/config"
	"github.com/lcasucciIT/azure-openai-retirement/internal/infrastructure/azure"
	"github.com/lcasucciIT/azure-openai-retirement/internal/infrastructure/report"
	"github.com/lcasucciIT/azure-openai-retirement/internal/infrastructure/storage"
	"github.com/lcasucciIT/azure-openai-retirement/internal/logging"
	"github.com/lcasucciIT/azure-openai-retirement/internal/ports"
	"github.com/lcasucciIT/azure-openai-retirement/internal/scrape"
	"github.com/lcasucciIT/azure-openai-retirement/internal/usecase"
)

// Application wires configs to the scan pipeline.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	extractor := scrape.NewExtractor(baseLogger.With("component", "extractor"))
	source := scrape.NewSource(scrape.NewFetcher(nil), extractor, cfg.Documents,
		baseLogger.With("component", "source"))

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	var textOut io.Writer
	if cfg.Output.Silent {
		textOut = io.Discard
	}
	writer := report.NewWriter(format, cfg.Output.Path, cfg.Output.Directory, textOut)

	var repository ports.ScanRepository
	if cfg.Database.DSN != "" {
		db, err := storage.Open(cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect scan history: %w", err)
		}
		repository = storage.NewPostgresRepository(db)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Lookup:        source,
		Tokens:        azure.NewCLITokenProvider(cfg.Azure.CLIPath),
		Deployments:   azure.NewARMClient("", nil, baseLogger.With("component", "arm")),
		Repository:    repository,
		Reporter:      writer,
		Subscriptions: cfg.Azure.Subscriptions,
		Logger:        baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline}, nil
}

// Run performs a single scan-and-report pass.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}
	return a.pipeline.Run(ctx)
}
