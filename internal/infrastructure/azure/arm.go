package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lcasucciIT/azure-openai-retirement/internal/domain"
	"github.com/lcasucciIT/azure-openai-retirement/internal/ports"
)

const (
	resourcesAPIVersion   = "2022-12-01"
	deploymentsAPIVersion = "2024-10-01"

	accountResourceType = "Microsoft.CognitiveServices/accounts"
)

// openAIKinds are the Cognitive Services account kinds that can host
// model deployments we care about.
var openAIKinds = map[string]bool{
	"OpenAI":     true,
	"AIServices": true,
}

// ARMClient lists OpenAI/AIServices resources and their deployments via
// the Azure Resource Manager REST API.
type ARMClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ ports.DeploymentLister = (*ARMClient)(nil)

// NewARMClient creates a reusable client; baseURL is overridable for tests
// and sovereign clouds, defaulting to public ARM.
func NewARMClient(baseURL string, client *http.Client, log *slog.Logger) *ARMClient {
	if baseURL == "" {
		baseURL = armResource
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &ARMClient{baseURL: strings.TrimSuffix(baseURL, "/"), client: client, logger: log}
}

type armResourceEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Kind string `json:"kind"`
}

type armDeploymentEntry struct {
	Name       string `json:"name"`
	Properties struct {
		Model struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"model"`
	} `json:"properties"`
}

// ListDeployments walks every eligible resource in the subscription and
// returns the model deployments it hosts. A resource whose deployment
// listing fails is logged and skipped so one broken account does not hide
// the rest of the subscription.
func (c *ARMClient) ListDeployments(ctx context.Context, subscriptionID, subscriptionName, token string) ([]domain.Deployment, error) {
	resources, err := c.listAccounts(ctx, subscriptionID, token)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}

	var deployments []domain.Deployment
	for _, res := range resources {
		group := resourceGroupFromID(res.ID)
		entries, err := c.listResourceDeployments(ctx, subscriptionID, group, res.Name, token)
		if err != nil {
			c.warn("cannot list deployments, skipping resource",
				"subscription", subscriptionName, "resource", res.Name, "error", err)
			continue
		}

		for _, entry := range entries {
			deployments = append(deployments, domain.Deployment{
				Subscription:  subscriptionName,
				ResourceGroup: group,
				Resource:      res.Name,
				Name:          entry.Name,
				Model:         strings.ToLower(entry.Properties.Model.Name),
				Version:       strings.ToLower(entry.Properties.Model.Version),
				Kind:          res.Kind,
			})
		}
	}

	return deployments, nil
}

func (c *ARMClient) listAccounts(ctx context.Context, subscriptionID, token string) ([]armResourceEntry, error) {
	endpoint := fmt.Sprintf("%s/subscriptions/%s/resources?api-version=%s",
		c.baseURL, url.PathEscape(subscriptionID), resourcesAPIVersion)

	var payload struct {
		Value []armResourceEntry `json:"value"`
	}
	if err := c.get(ctx, endpoint, token, &payload); err != nil {
		return nil, err
	}

	var accounts []armResourceEntry
	for _, res := range payload.Value {
		if res.Type == accountResourceType && openAIKinds[res.Kind] {
			accounts = append(accounts, res)
		}
	}

	return accounts, nil
}

func (c *ARMClient) listResourceDeployments(ctx context.Context, subscriptionID, group, resource, token string) ([]armDeploymentEntry, error) {
	endpoint := fmt.Sprintf(
		"%s/subscriptions/%s/resourceGroups/%s/providers/Microsoft.CognitiveServices/accounts/%s/deployments?api-version=%s",
		c.baseURL, url.PathEscape(subscriptionID), url.PathEscape(group),
		url.PathEscape(resource), deploymentsAPIVersion)

	var payload struct {
		Value []armDeploymentEntry `json:"value"`
	}
	if err := c.get(ctx, endpoint, token, &payload); err != nil {
		return nil, err
	}

	return payload.Value, nil
}

func (c *ARMClient) get(ctx context.Context, endpoint, token string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// resourceGroupFromID pulls the resource group out of an ARM resource ID
// (/subscriptions/<id>/resourceGroups/<group>/providers/...).
func resourceGroupFromID(id string) string {
	parts := strings.Split(id, "/")
	if len(parts) > 4 {
		return parts[4]
	}
	return ""
}

func (c *ARMClient) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
