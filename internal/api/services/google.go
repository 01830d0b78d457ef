package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/rohits-web03/piiquante/internal/config"
)

type OAuthFlow string

const (
	FlowLogin    OAuthFlow = "login"
	FlowRegister OAuthFlow = "register"
)

// ParseFlow defaults to the login flow.
func ParseFlow(raw string) OAuthFlow {
	if OAuthFlow(raw) == FlowRegister {
		return FlowRegister
	}
	return FlowLogin
}

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// IdentityProvider is the part of an OAuth provider the handlers use.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	// Email exchanges an authorization code and returns the verified email
	// of the account that granted it.
	Email(ctx context.Context, code string) (string, error)
}

type GoogleProvider struct {
	cfg         *oauth2.Config
	userInfoURL string
}

func NewGoogleOAuthConfig(cfg config.GoogleConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

func NewGoogleProvider(cfg config.GoogleConfig) *GoogleProvider {
	return &GoogleProvider{cfg: NewGoogleOAuthConfig(cfg), userInfoURL: googleUserInfoURL}
}

func (g *GoogleProvider) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

func (g *GoogleProvider) Email(ctx context.Context, code string) (string, error) {
	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("code exchange failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := g.cfg.Client(ctx, token).Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("user info returned %s", resp.Status)
	}

	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		return "", fmt.Errorf("failed to parse user info: %w", err)
	}
	if googleUser.Email == "" || !googleUser.VerifiedEmail {
		return "", fmt.Errorf("google account %s has no verified email", googleUser.ID)
	}
	return googleUser.Email, nil
}
