package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var ErrGoogleDisabled = errors.New("google sign-in is not configured")

const (
	googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
	googleUserInfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Config       *oauth2.Config
	HTTPClient   *http.Client

	tokenInfoURL string
	userInfoURL  string
}

type GoogleUserInfo struct {
	ID            string `json:"id"`
	Sub           string `json:"sub"`
	Audience      string `json:"aud"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Subject returns the stable Google account id from either endpoint's payload.
func (u *GoogleUserInfo) Subject() string {
	if u.Sub != "" {
		return u.Sub
	}
	return u.ID
}

// NewGoogleConfig returns nil when no client id is configured.
func NewGoogleConfig(cfg GoogleOAuth) *GoogleConfig {
	if cfg.ClientID == "" {
		return nil
	}
	return &GoogleConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
		tokenInfoURL: googleTokenInfoURL,
		userInfoURL:  googleUserInfoURL,
	}
}

func (g *GoogleConfig) getJSON(ctx context.Context, endpoint string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("google responded %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// VerifyIDToken checks an ID token with Google and that it was issued for
// this client.
func (g *GoogleConfig) VerifyIDToken(ctx context.Context, idToken string) (*GoogleUserInfo, error) {
	if g == nil {
		return nil, ErrGoogleDisabled
	}
	var info GoogleUserInfo
	if err := g.getJSON(ctx, g.tokenInfoURL+"?id_token="+url.QueryEscape(idToken), &info); err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	if info.Audience != g.ClientID {
		return nil, fmt.Errorf("verify id token: audience mismatch")
	}
	return &info, nil
}

// ExchangeCode trades an authorization code for a token and fetches the profile.
func (g *GoogleConfig) ExchangeCode(ctx context.Context, code string) (*GoogleUserInfo, error) {
	if g == nil {
		return nil, ErrGoogleDisabled
	}
	token, err := g.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	var info GoogleUserInfo
	if err := g.getJSON(ctx, g.userInfoURL+"?access_token="+url.QueryEscape(token.AccessToken), &info); err != nil {
		return nil, fmt.Errorf("get user info: %w", err)
	}
	return &info, nil
}
