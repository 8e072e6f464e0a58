package auth

import (
	"context"

	"google.golang.org/api/idtoken"

	"blog-server-go/internal/platform/errors"
)

// Profile is the identity extracted from a verified provider assertion.
type Profile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// AssertionVerifier validates a third-party identity assertion.
type AssertionVerifier interface {
	VerifyAssertion(ctx context.Context, rawToken string) (*Profile, error)
}

// GoogleVerifier validates Google ID tokens against a configured client ID.
type GoogleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

// VerifyAssertion checks the assertion's signature, audience and expiry,
// then extracts the claims the reconciliation step needs. Subject, email
// and name are required; picture is optional.
func (v *GoogleVerifier) VerifyAssertion(ctx context.Context, rawToken string) (*Profile, error) {
	if v.clientID == "" {
		return nil, errors.New(errors.KindConfig, "google_verify",
			"google client id not configured")
	}

	payload, err := idtoken.Validate(ctx, rawToken, v.clientID)
	if err != nil {
		return nil, errors.Wrap(errors.KindAuth, "google_verify",
			"invalid google credential", err)
	}

	profile := &Profile{
		Subject: payload.Subject,
	}
	profile.Email, _ = payload.Claims["email"].(string)
	profile.Name, _ = payload.Claims["name"].(string)
	profile.Picture, _ = payload.Claims["picture"].(string)

	if profile.Subject == "" || profile.Email == "" || profile.Name == "" {
		return nil, errors.New(errors.KindAuth, "google_verify",
			"google credential missing required claims")
	}
	return profile, nil
}
