package azure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestListDeployments(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		switch {
		case strings.HasSuffix(r.URL.Path, "/resources"):
			_, _ = w.Write([]byte(`{"value": [
				{"id": "/subscriptions/sub-1/resourceGroups/rg-ai/providers/Microsoft.CognitiveServices/accounts/openai-prod",
				 "name": "openai-prod", "type": "Microsoft.CognitiveServices/accounts", "kind": "OpenAI"},
				{"id": "/subscriptions/sub-1/resourceGroups/rg-web/providers/Microsoft.Web/sites/webapp",
				 "name": "webapp", "type": "Microsoft.Web/sites", "kind": "app"},
				{"id": "/subscriptions/sub-1/resourceGroups/rg-ai/providers/Microsoft.CognitiveServices/accounts/speech",
				 "name": "speech", "type": "Microsoft.CognitiveServices/accounts", "kind": "SpeechServices"}
			]}`))
		case strings.Contains(r.URL.Path, "/accounts/openai-prod/deployments"):
			_, _ = w.Write([]byte(`{"value": [
				{"name": "chat", "properties": {"model": {"name": "GPT-4", "version": "0613"}}},
				{"name": "embeddings", "properties": {"model": {"name": "text-embedding-ada", "version": "002"}}}
			]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewARMClient(server.URL, server.Client(), nil)

	deployments, err := client.ListDeployments(context.Background(), "sub-1", "Primary AI Sub", "test-token")
	if err != nil {
		t.Fatalf("ListDeployments error: %v", err)
	}

	if len(deployments) != 2 {
		t.Fatalf("expected 2 deployments, got %d", len(deployments))
	}

	first := deployments[0]
	if first.Subscription != "Primary AI Sub" || first.ResourceGroup != "rg-ai" || first.Resource != "openai-prod" {
		t.Fatalf("unexpected deployment origin: %+v", first)
	}
	if first.Name != "chat" || first.Model != "gpt-4" || first.Version != "0613" || first.Kind != "OpenAI" {
		t.Fatalf("unexpected deployment fields: %+v", first)
	}
}

func TestListDeploymentsSkipsBrokenResource(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/resources"):
			_, _ = w.Write([]byte(`{"value": [
				{"id": "/subscriptions/sub-1/resourceGroups/rg-a/providers/Microsoft.CognitiveServices/accounts/broken",
				 "name": "broken", "type": "Microsoft.CognitiveServices/accounts", "kind": "OpenAI"},
				{"id": "/subscriptions/sub-1/resourceGroups/rg-b/providers/Microsoft.CognitiveServices/accounts/healthy",
				 "name": "healthy", "type": "Microsoft.CognitiveServices/accounts", "kind": "AIServices"}
			]}`))
		case strings.Contains(r.URL.Path, "/accounts/broken/"):
			http.Error(w, "boom", http.StatusInternalServerError)
		case strings.Contains(r.URL.Path, "/accounts/healthy/"):
			_, _ = w.Write([]byte(`{"value": [
				{"name": "chat", "properties": {"model": {"name": "gpt-4o", "version": "2024-05-13"}}}
			]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewARMClient(server.URL, server.Client(), nil)

	deployments, err := client.ListDeployments(context.Background(), "sub-1", "sub-1", "token")
	if err != nil {
		t.Fatalf("ListDeployments error: %v", err)
	}

	if len(deployments) != 1 || deployments[0].Resource != "healthy" {
		t.Fatalf("expected only the healthy resource, got %+v", deployments)
	}
}

func TestListDeploymentsResourcesFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewARMClient(server.URL, server.Client(), nil)

	if _, err := client.ListDeployments(context.Background(), "sub-1", "sub-1", "token"); err == nil {
		t.Fatal("expected error when the resource listing fails")
	}
}

func TestResourceGroupFromID(t *testing.T) {
	t.Parallel()

	id := "/subscriptions/sub-1/resourceGroups/rg-ai/providers/Microsoft.CognitiveServices/accounts/openai-prod"
	if got := resourceGroupFromID(id); got != "rg-ai" {
		t.Fatalf("unexpected resource group: %s", got)
	}
	if got := resourceGroupFromID("bogus"); got != "" {
		t.Fatalf("expected empty group for malformed id, got %s", got)
	}
}
