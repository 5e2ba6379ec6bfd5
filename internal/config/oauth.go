package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// envExportClient points at the export's OAuth client file, skipping the search
const envExportClient = "ROSTER_OAUTH_CLIENT"

// OAuthClientConfig is the Google "installed app" client the roster export signs in with.
// The layout is Google's client_secret JSON.
type OAuthClientConfig struct {
	Installed OAuthInstalled `json:"installed" validate:"required"`
}

type OAuthInstalled struct {
	ClientID                string   `json:"client_id" validate:"required"`
	ProjectID               string   `json:"project_id" validate:"required"`
	AuthURI                 string   `json:"auth_uri" validate:"required,url"`
	TokenURI                string   `json:"token_uri" validate:"required,url"`
	AuthProviderX509CertURL string   `json:"auth_provider_x509_cert_url" validate:"required,url"`
	ClientSecret            string   `json:"client_secret" validate:"required"`
	RedirectURIs            []string `json:"redirect_uris" validate:"required,min=1,dive,uri"`
}

// LoadExportClient reads the OAuth client used by `export`. ROSTER_OAUTH_CLIENT wins when set;
// otherwise roster_oauth_client[.<env>].json is looked up like the config file.
func LoadExportClient(env string) (*OAuthClientConfig, error) {
	path := os.Getenv(envExportClient)
	if path == "" {
		name := "roster_oauth_client.json"
		if env != "" {
			name = "roster_oauth_client." + env + ".json"
		}

		var err error
		if path, err = findFile(name); err != nil {
			return nil, fmt.Errorf("failed to find export oauth client: %w", err)
		}
	}
	return ReadExportClient(path)
}

// ReadExportClient parses and validates a client_secret file
func ReadExportClient(path string) (*OAuthClientConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export oauth client: %w", err)
	}

	client := &OAuthClientConfig{}
	if err := json.Unmarshal(raw, client); err != nil {
		return nil, fmt.Errorf("failed to parse export oauth client %s: %w", path, err)
	}
	if err := validate.Struct(client); err != nil {
		return nil, fmt.Errorf("export oauth client validation failed: %w", err)
	}
	return client, nil
}

// findFile returns the first of ./name and ~/name that exists
func findFile(name string) (string, error) {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}

	for _, dir := range dirs {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
