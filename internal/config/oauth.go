package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// OAuthClientEnvVar overrides the lookup of the OAuth client file with an explicit path
const OAuthClientEnvVar = "SHIFTPLAN_OAUTH_CLIENT"

// OAuthClientConfig is a client secret file as downloaded from the Google Cloud
// console. Desktop clients carry an "installed" section, web clients a "web"
// section; exactly one of them must be present.
type OAuthClientConfig struct {
	Installed *OAuthCredentials `json:"installed,omitempty" validate:"required_without=Web,excluded_with=Web"`
	Web       *OAuthCredentials `json:"web,omitempty" validate:"required_without=Installed"`
}

// OAuthCredentials holds the client id, secret and endpoints of an OAuth client
type OAuthCredentials struct {
	ClientID                string   `json:"client_id" validate:"required"`
	ProjectID               string   `json:"project_id" validate:"required"`
	AuthURI                 string   `json:"auth_uri" validate:"required,url"`
	TokenURI                string   `json:"token_uri" validate:"required,url"`
	AuthProviderX509CertURL string   `json:"auth_provider_x509_cert_url,omitempty" validate:"omitempty,url"`
	ClientSecret            string   `json:"client_secret" validate:"required"`
	RedirectURIs            []string `json:"redirect_uris" validate:"required,min=1,dive,uri"`
}

// Credentials returns whichever credential section the file carries
func (c *OAuthClientConfig) Credentials() *OAuthCredentials {
	if c.Installed != nil {
		return c.Installed
	}
	return c.Web
}

// LoadOAuthClientWithEnv loads the OAuth client of an environment. The path in
// SHIFTPLAN_OAUTH_CLIENT wins; otherwise "oauthClient.<env>.json" is searched
// for in the working directory and then the home directory.
func LoadOAuthClientWithEnv(env string) (*OAuthClientConfig, error) {
	if path := os.Getenv(OAuthClientEnvVar); path != "" {
		return LoadOAuthClientFromPath(path)
	}

	fileName := "oauthClient.json"
	if env != "" {
		fileName = "oauthClient." + env + ".json"
	}
	path, err := locate(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to find oauth client file: %w", err)
	}
	return LoadOAuthClientFromPath(path)
}

// LoadOAuthClientFromPath reads and validates a client secret file
func LoadOAuthClientFromPath(path string) (*OAuthClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth client file: %w", err)
	}

	var client OAuthClientConfig
	if err := json.Unmarshal(data, &client); err != nil {
		return nil, fmt.Errorf("failed to parse oauth client file %s: %w", path, err)
	}
	if err := ValidateOAuthClient(&client); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &client, nil
}

var errNoCredentials = errors.New(`expected exactly one of "installed" or "web"`)

// ValidateOAuthClient checks that exactly one credential section is present and complete
func ValidateOAuthClient(cfg *OAuthClientConfig) error {
	if (cfg.Installed == nil) == (cfg.Web == nil) {
		return fmt.Errorf("oauth client validation failed: %w", errNoCredentials)
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("oauth client validation failed: %w", err)
	}
	return nil
}
