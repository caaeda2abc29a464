package ports

import (
	"context"

	"github.com/lcasucciIT/azure-openai-retirement/internal/domain"
)

// DocumentFetcher downloads a documentation page and returns its HTML text.
type DocumentFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// LookupSource builds the combined retirement lookup from the configured
// documentation pages.
type LookupSource interface {
	BuildLookup(ctx context.Context) (domain.RetirementLookup, error)
}

// TokenProvider resolves an ARM bearer token.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// DeploymentLister discovers OpenAI/AIServices deployments in a subscription.
type DeploymentLister interface {
	ListDeployments(ctx context.Context, subscriptionID, subscriptionName, token string) ([]domain.Deployment, error)
}

// ReportWriter serializes scan results (text, CSV, or JSON).
type ReportWriter interface {
	Write(results []domain.DeploymentStatus) error
}

// ScanRepository persists scan results for history/audit.
type ScanRepository interface {
	SaveScan(ctx context.Context, results []domain.DeploymentStatus) error
	LastRetirement(ctx context.Context, model, version string) (string, error)
}
