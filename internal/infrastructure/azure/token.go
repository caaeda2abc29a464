package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/lcasucciIT/azure-openai-retirement/internal/ports"
)

const armResource = "https://management.azure.com"

// CLITokenProvider obtains ARM bearer tokens through the Azure CLI, so
// the checker can reuse whatever login the operator or pipeline already
// has (`az login`, managed identity, service principal).
type CLITokenProvider struct {
	cliPath string
}

var _ ports.TokenProvider = (*CLITokenProvider)(nil)

// NewCLITokenProvider accepts an optional CLI path; empty means "az"
// resolved from PATH.
func NewCLITokenProvider(cliPath string) *CLITokenProvider {
	if cliPath == "" {
		cliPath = "az"
	}
	return &CLITokenProvider{cliPath: cliPath}
}

// Token runs `az account get-access-token` and returns the access token.
func (p *CLITokenProvider) Token(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, p.cliPath,
		"account", "get-access-token", "--resource", armResource)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run azure cli: %w (%s)", err, bytes.TrimSpace(stderr.Bytes()))
	}

	var payload struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &payload); err != nil {
		return "", fmt.Errorf("decode azure cli output: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("azure cli returned an empty access token")
	}

	return payload.AccessToken, nil
}
