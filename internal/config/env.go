package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/naka-gawa/github-xp/internal/domain"
)

// Credentials are the identifiers read from the environment.
type Credentials struct {
	Token    string `env:"GITHUB_TOKEN"`
	PAT      string `env:"PAT_TOKEN"`
	Username string `env:"GITHUB_USERNAME"`
	Repo     string `env:"GITHUB_REPO"`
}

// ParseCredentials loads Credentials from the process environment.
func ParseCredentials() (Credentials, error) {
	var c Credentials
	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

// AccessToken returns GITHUB_TOKEN, falling back to PAT_TOKEN.
func (c Credentials) AccessToken() (string, error) {
	switch {
	case c.Token != "":
		return c.Token, nil
	case c.PAT != "":
		return c.PAT, nil
	}
	return "", fmt.Errorf("%w: GITHUB_TOKEN (or PAT_TOKEN) environment variable is not set", domain.ErrConfiguration)
}
