package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultTokenInfoURL is Google's ID token introspection endpoint.
const DefaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// TokenInfoVerifier validates Google ID tokens through the tokeninfo endpoint
// and checks that they were issued for ClientID.
type TokenInfoVerifier struct {
	ClientID string
	Endpoint string
	HTTP     *http.Client
}

// NewTokenInfoVerifier returns a verifier for clientID.
func NewTokenInfoVerifier(clientID string) *TokenInfoVerifier {
	return &TokenInfoVerifier{
		ClientID: clientID,
		Endpoint: DefaultTokenInfoURL,
		HTTP:     &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenInfo struct {
	Aud           string `json:"aud"`
	Iss           string `json:"iss"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (v *TokenInfoVerifier) Verify(ctx context.Context, credential string) (*GoogleIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		v.Endpoint+"?id_token="+url.QueryEscape(credential), nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokeninfo returned %d", resp.StatusCode)
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	if info.Aud != v.ClientID {
		return nil, fmt.Errorf("token issued for another client")
	}
	if info.Iss != "accounts.google.com" && info.Iss != "https://accounts.google.com" {
		return nil, fmt.Errorf("unexpected issuer %q", info.Iss)
	}
	if info.Sub == "" || info.Email == "" {
		return nil, fmt.Errorf("token carries no identity")
	}
	if info.EmailVerified != "" && info.EmailVerified != "true" {
		return nil, fmt.Errorf("email not verified")
	}
	name := info.Name
	if name == "" {
		name = info.Email
	}
	return &GoogleIdentity{Subject: info.Sub, Email: info.Email, Name: name, Picture: info.Picture}, nil
}
