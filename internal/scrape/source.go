package scrape

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/lcasucciIT/azure-openai-retirement/internal/config"
	"github.com/lcasucciIT/azure-openai-retirement/internal/domain"
	"github.com/lcasucciIT/azure-openai-retirement/internal/ports"
)

// Source builds the combined retirement lookup from config-defined
// documentation pages.
type Source struct {
	fetcher   ports.DocumentFetcher
	extractor *Extractor
	documents []config.DocumentConfig
	logger    *slog.Logger
}

var _ ports.LookupSource = (*Source)(nil)

// NewSource wires the fetcher and extractor with the configured documents.
// Documents must be listed in ascending precedence: on key collision the
// record from the later document wins.
func NewSource(fetcher ports.DocumentFetcher, extractor *Extractor, documents []config.DocumentConfig, log *slog.Logger) *Source {
	return &Source{
		fetcher:   fetcher,
		extractor: extractor,
		documents: documents,
		logger:    log,
	}
}

// BuildLookup fetches and extracts every configured document, then merges
// the per-document lookups in precedence order. The fetches run
// concurrently; precedence is decided by configuration order, never by
// completion order. A failed fetch fails the whole build.
func (s *Source) BuildLookup(ctx context.Context) (domain.RetirementLookup, error) {
	if len(s.documents) == 0 {
		return nil, fmt.Errorf("no retirement documents configured")
	}

	lookups := make([]domain.RetirementLookup, len(s.documents))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, doc := range s.documents {
		group.Go(func() error {
			htmlText, err := s.fetcher.Fetch(groupCtx, doc.URL)
			if err != nil {
				return fmt.Errorf("fetch %s retirement page: %w", doc.Label, err)
			}
			lookups[i] = s.extractor.Extract(htmlText, doc.Label)
			s.debug("document extracted", "source", doc.Label, "entries", len(lookups[i]))
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	merged := domain.RetirementLookup{}
	for _, lookup := range lookups {
		merged = Merge(merged, lookup)
	}

	s.debug("lookup built", "documents", len(s.documents), "entries", len(merged))
	return merged, nil
}

func (s *Source) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
