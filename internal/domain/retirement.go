package domain

import "strings"

const (
	// TypeUnknown labels records from tables with no preceding heading.
	TypeUnknown = "Unknown"

	// RetirementNotAvailable is reported for deployments whose model
	// has no entry in the retirement documentation.
	RetirementNotAvailable = "Not Available"
)

// RetirementRecord is one row of retirement documentation. Retirement is
// kept verbatim as display text: the sources mix literal dates, ranges,
// and placeholders like "To be announced".
type RetirementRecord struct {
	Retirement string
	Type       string
	Source     string
}

// RetirementLookup maps a normalized model key to its retirement record.
// Built fresh per document, never mutated after construction.
type RetirementLookup map[string]RetirementRecord

// NormalizeKey lowercases, converts en/em dashes to plain hyphens, and
// strips all whitespace.
func NormalizeKey(raw string) string {
	s := strings.ToLower(raw)
	s = strings.NewReplacer("–", "-", "—", "-").Replace(s)
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ' ' {
			return -1
		}
		return r
	}, s)
}

// BuildKey joins a model name and optional version into the lookup key.
// Two raw inputs that normalize to the same key are the same model entity.
func BuildKey(model, version string) string {
	key := NormalizeKey(model)
	if version != "" {
		key = key + "-" + NormalizeKey(version)
	}
	return strings.Trim(key, "-")
}

// Deployment is one deployed model instance discovered in a subscription.
type Deployment struct {
	Subscription  string
	ResourceGroup string
	Resource      string
	Name          string
	Model         string
	Version       string
	Kind          string
}

// DeploymentStatus joins a deployment with its retirement information.
type DeploymentStatus struct {
	Deployment
	Retirement string
}

// Key returns the lookup key for the deployment's model and version.
func (d Deployment) Key() string {
	return BuildKey(d.Model, d.Version)
}
